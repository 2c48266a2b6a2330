package stats

// Band is a utilization class used for colouring.
type Band string

// Utilization bands, from least to most loaded.
const (
	BandNormal   Band = "normal"
	BandWarning  Band = "warning"
	BandOver     Band = "over"
	BandCritical Band = "critical"
)

// Classify maps a utilization percentage to its band: above 110 is
// critical, above 100 over, above 90 warning.
func Classify(percentage float64) Band {
	switch {
	case percentage > 110:
		return BandCritical
	case percentage > 100:
		return BandOver
	case percentage > 90:
		return BandWarning
	default:
		return BandNormal
	}
}

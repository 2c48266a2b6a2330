package alloc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Field selects one half of a Cell.
type Field string

// Cell fields.
const (
	Occupied   Field = "occupied"
	Prerelease Field = "prerelease"
)

// ParseField parses "occupied" or "prerelease" (case-insensitive). The
// single-letter forms "o" and "p" are accepted too.
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "occupied", "o":
		return Occupied, nil
	case "prerelease", "p":
		return Prerelease, nil
	}
	return "", fmt.Errorf("alloc: unknown field %q", s)
}

// Of returns the value of f in c.
func (f Field) Of(c Cell) float64 {
	if f == Prerelease {
		return c.Prerelease
	}
	return c.Occupied
}

// ParseValue converts user input to a number. Anything that is not a finite
// number becomes 0. Negative values are returned as-is; clamping is the
// engine's job.
func ParseValue(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

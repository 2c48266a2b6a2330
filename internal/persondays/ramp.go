package persondays

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// maxLighten is how far toward white the last colour of a ramp is blended.
const maxLighten = 0.4

// Ramp returns steps colours from base, darkest first, with the last one
// blended maxLighten of the way toward white. An unparseable base is treated
// as black.
func Ramp(base string, steps int) []string {
	if steps <= 0 {
		return nil
	}
	c, err := colorful.Hex(base)
	if err != nil {
		c = colorful.Color{}
	}
	white := colorful.Color{R: 1, G: 1, B: 1}
	out := make([]string, steps)
	for i := range out {
		t := float64(i) * maxLighten / math.Max(1, float64(steps-1))
		out[i] = c.BlendRgb(white, t).Hex()
	}
	return out
}

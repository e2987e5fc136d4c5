package render

import (
	"math"
)

// Escape iterates z = z*z + c from z = 0 and returns the first n for which
// |z_n| > radius, or maxIter if the orbit stays bounded that long.
// Non-finite input, or an orbit that turns non-finite, counts as an escape
// at 0.
func Escape(c complex128, maxIter int, radius float64) int {
	cx, cy := real(c), imag(c)
	if !finite(cx) || !finite(cy) {
		return 0
	}
	r2 := radius * radius

	var x, y float64
	for n := 1; n <= maxIter; n++ {
		x, y = x*x-y*y+cx, 2*x*y+cy
		m := x*x + y*y
		if m > r2 {
			return n
		}
		if math.IsNaN(m) {
			return 0
		}
	}
	return maxIter
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

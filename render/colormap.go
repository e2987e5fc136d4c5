package render

import (
	"image/color"
	"math"
	"sync"
)

// Stop is a color at position Pos in [0,1] along a ramp.
type Stop struct {
	Pos   float64
	Color color.RGBA
}

// Colormap is a named color ramp. Colors between stops are interpolated
// linearly.
type Colormap struct {
	Name  string
	Stops []Stop
}

func rgb(r, g, b uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// evenly spaces cs over [0,1]
func even(cs ...color.RGBA) []Stop {
	stops := make([]Stop, len(cs))
	for i, c := range cs {
		stops[i] = Stop{Pos: float64(i) / float64(len(cs)-1), Color: c}
	}
	return stops
}

// Cycle order of the 'c' key.
var colormaps = []Colormap{
	{"viridis", even(
		rgb(68, 1, 84), rgb(71, 44, 122), rgb(59, 82, 139), rgb(44, 114, 142), rgb(33, 145, 140),
		rgb(40, 174, 128), rgb(94, 201, 98), rgb(173, 220, 48), rgb(253, 231, 37))},
	{"plasma", even(
		rgb(13, 8, 135), rgb(75, 3, 161), rgb(125, 3, 168), rgb(168, 34, 150), rgb(203, 70, 121),
		rgb(229, 107, 93), rgb(248, 148, 65), rgb(253, 195, 40), rgb(240, 249, 33))},
	{"magma", even(
		rgb(0, 0, 4), rgb(28, 16, 68), rgb(79, 18, 123), rgb(129, 37, 129), rgb(181, 54, 122),
		rgb(229, 80, 100), rgb(251, 135, 97), rgb(254, 194, 135), rgb(252, 253, 191))},
	{"inferno", even(
		rgb(0, 0, 4), rgb(31, 12, 72), rgb(85, 15, 109), rgb(136, 34, 106), rgb(186, 54, 85),
		rgb(227, 89, 51), rgb(249, 140, 10), rgb(249, 201, 50), rgb(252, 255, 164))},
	{"cividis", even(
		rgb(0, 34, 78), rgb(65, 77, 107), rgb(124, 123, 120), rgb(188, 175, 111), rgb(254, 232, 56))},
	{"spring", even(rgb(255, 0, 255), rgb(255, 255, 0))},
	{"summer", even(rgb(0, 128, 102), rgb(255, 255, 102))},
	{"autumn", even(rgb(255, 0, 0), rgb(255, 255, 0))},
	{"winter", even(rgb(0, 0, 255), rgb(0, 255, 128))},
	{"hot", []Stop{
		{0, rgb(10, 0, 0)},
		{0.365, rgb(255, 0, 0)},
		{0.746, rgb(255, 255, 0)},
		{1, rgb(255, 255, 255)},
	}},
	{"twilight", even(
		rgb(226, 217, 226), rgb(94, 129, 182), rgb(47, 20, 55), rgb(171, 78, 68), rgb(226, 217, 226))},
	{"hsv", hsvStops(12)},
	// Supposedly the gradients used by the Wikipedia mandelbrot page
	{"ultra", even(
		rgb(66, 30, 15), rgb(25, 7, 26), rgb(9, 1, 47), rgb(4, 4, 73),
		rgb(0, 7, 100), rgb(12, 44, 138), rgb(24, 82, 177), rgb(57, 125, 209),
		rgb(134, 181, 229), rgb(211, 236, 248), rgb(241, 233, 191), rgb(248, 201, 95),
		rgb(255, 170, 0), rgb(204, 128, 0), rgb(153, 87, 0), rgb(106, 52, 3))},
}

func Colormaps() []Colormap {
	return colormaps
}

// ColormapName returns the name of colormap i, wrapping around.
func ColormapName(i int) string {
	return colormaps[wrap(i)].Name
}

// NextColormap returns the index after i, wrapping around.
func NextColormap(i int) int {
	return wrap(i + 1)
}

func wrap(i int) int {
	n := len(colormaps)
	return ((i % n) + n) % n
}

// At returns the ramp color at t, clamped to [0,1].
func (cm Colormap) At(t float64) color.RGBA {
	if t != t || t <= 0 {
		return cm.Stops[0].Color
	}
	if t >= 1 {
		return cm.Stops[len(cm.Stops)-1].Color
	}
	for i := 1; i < len(cm.Stops); i++ {
		hi := cm.Stops[i]
		if t > hi.Pos {
			continue
		}
		lo := cm.Stops[i-1]
		f := (t - lo.Pos) / (hi.Pos - lo.Pos)
		return color.RGBA{
			R: lerp(lo.Color.R, hi.Color.R, f),
			G: lerp(lo.Color.G, hi.Color.G, f),
			B: lerp(lo.Color.B, hi.Color.B, f),
			A: 255,
		}
	}
	return cm.Stops[len(cm.Stops)-1].Color
}

func lerp(a, b uint8, f float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*f))
}

type tableKey struct {
	cmap    int
	maxIter int
}

var (
	tablesMu sync.Mutex
	tables   = map[tableKey][]color.RGBA{}
)

// table returns the lookup table for colormap i with one entry per
// iteration count 0..maxIter. Tables are built once and shared.
func table(i, maxIter int) []color.RGBA {
	key := tableKey{wrap(i), maxIter}

	tablesMu.Lock()
	defer tablesMu.Unlock()

	if t, ok := tables[key]; ok {
		return t
	}
	cm := colormaps[key.cmap]
	t := make([]color.RGBA, maxIter+1)
	for n := range t {
		t[n] = cm.At(float64(n) / float64(maxIter))
	}
	tables[key] = t
	return t
}

func hsvStops(n int) []Stop {
	cs := make([]color.RGBA, n+1)
	for i := range cs {
		cs[i] = hsv(float64(i)/float64(n+1), 1, 1)
	}
	return even(cs...)
}

// Simple HSV → RGB
func hsv(h, s, v float64) color.RGBA {
	h = math.Mod(h, 1)
	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	case 5:
		r, g, b = v, p, q
	}
	return color.RGBA{uint8(r * 255), uint8(g * 255), uint8(b * 255), 255}
}

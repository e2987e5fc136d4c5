package mandel

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrInvalidConfig       = errors.New("invalid configuration")
	ErrDegenerateSelection = errors.New("degenerate selection")
	ErrPrecisionLimit      = errors.New("zoom beyond float64 precision")
)

// Region within the Mandelbrot set
// X is the real axis, Y the imaginary axis.
type Region struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
}

// Valid reports whether r is a finite, non-empty, non-inverted rectangle.
func (r Region) Valid() bool {
	for _, v := range [...]float64{r.Xmin, r.Xmax, r.Ymin, r.Ymax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return r.Xmax > r.Xmin && r.Ymax > r.Ymin
}

func (r Region) Width() float64  { return r.Xmax - r.Xmin }
func (r Region) Height() float64 { return r.Ymax - r.Ymin }

// FitAspect keeps the real extent of r and resizes the imaginary extent
// around its midpoint so the region has the aspect ratio of g.
func (r Region) FitAspect(g Grid) Region {
	mid := r.Ymin + r.Height()/2
	half := r.Width() * float64(g.H) / float64(g.W) / 2
	return Region{Xmin: r.Xmin, Xmax: r.Xmax, Ymin: mid - half, Ymax: mid + half}
}

func (r Region) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", r.Xmin, r.Xmax, r.Ymin, r.Ymax)
}

// Set parses "xmin,xmax,ymin,ymax". It implements flag.Value.
func (r *Region) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return fmt.Errorf("region %q: want xmin,xmax,ymin,ymax", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return fmt.Errorf("region %q: %w", s, err)
		}
		v[i] = f
	}
	nr := Region{Xmin: v[0], Xmax: v[1], Ymin: v[2], Ymax: v[3]}
	if !nr.Valid() {
		return fmt.Errorf("region %q: bounds must be finite with min < max", s)
	}
	*r = nr
	return nil
}

// Grid is the pixel size of the drawing surface.
type Grid struct {
	W, H int
}

func (g Grid) Pixels() int { return g.W * g.H }

// Classic regions / landmarks in the Mandelbrot set
var (
	// Full view of the set
	FullSet = Region{
		Xmin: -2.5,
		Xmax: 1.0,
		Ymin: -1.25,
		Ymax: 1.25,
	}

	// Seahorse Valley – dense filaments and repeating “seahorse” curls
	SeahorseValley = Region{
		Xmin: -0.8,
		Xmax: -0.7,
		Ymin: 0.05,
		Ymax: 0.15,
	}

	// Elephant Valley – large bulb with trunk-like tendrils
	ElephantValley = Region{
		Xmin: -1.85,
		Xmax: -1.75,
		Ymin: -0.10,
		Ymax: -0.02,
	}

	// Spiral Minibrot – small Mandelbrot copy with tight spiral arms
	SpiralMinibrot = Region{
		Xmin: -0.7435,
		Xmax: -0.7420,
		Ymin: 0.1310,
		Ymax: 0.1325,
	}

	// Triple Spiral – threefold symmetric spiral structure
	TripleSpiral = Region{
		Xmin: -0.7480,
		Xmax: -0.7450,
		Ymin: 0.0950,
		Ymax: 0.0980,
	}

	// Valley of the Dragon – deep, highly detailed spiral filaments
	ValleyOfTheDragon = Region{
		Xmin: -0.7400,
		Xmax: -0.7350,
		Ymin: 0.1800,
		Ymax: 0.1850,
	}

	// Minibrot in a Mini-Spiral – self-similar Mandelbrot copy inside a spiral arm
	MinibrotInMiniSpiral = Region{
		Xmin: -1.7390,
		Xmax: -1.7375,
		Ymin: -0.0235,
		Ymax: -0.0220,
	}
)

// landmarks in hotkey order ('1' is the first)
var landmarks = []struct {
	name   string
	region Region
}{
	{"seahorse", SeahorseValley},
	{"elephant", ElephantValley},
	{"spiral", SpiralMinibrot},
	{"triple", TripleSpiral},
	{"dragon", ValleyOfTheDragon},
	{"minibrot", MinibrotInMiniSpiral},
}

// Landmark looks a region up by name ("full" included).
func Landmark(name string) (Region, bool) {
	if name == "full" {
		return FullSet, true
	}
	for _, l := range landmarks {
		if l.name == name {
			return l.region, true
		}
	}
	return Region{}, false
}

// LandmarkAt returns the i-th landmark, counting from zero.
func LandmarkAt(i int) (name string, r Region, ok bool) {
	if i < 0 || i >= len(landmarks) {
		return "", Region{}, false
	}
	return landmarks[i].name, landmarks[i].region, true
}

func LandmarkNames() []string {
	names := []string{"full"}
	for _, l := range landmarks {
		names = append(names, l.name)
	}
	sort.Strings(names)
	return names
}

package mandel

import (
	"errors"
	"image"
	"math"
	"testing"
)

const eps = 1e-12

func near(a, b float64) bool {
	return math.Abs(a-b) <= eps*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func TestPixelToComplexCorners(t *testing.T) {
	r := Region{Xmin: -2.5, Xmax: 1.0, Ymin: -1.75, Ymax: 1.75}
	for _, g := range []Grid{{100, 100}, {1280, 800}, {3, 7}} {
		p := NewPlane(r, g)
		if c := p.PixelToComplex(0, 0); real(c) != r.Xmin || imag(c) != r.Ymax {
			t.Errorf("%v: pixel (0,0) = %v, want (%g,%g)", g, c, r.Xmin, r.Ymax)
		}
		if c := p.PixelToComplex(g.W-1, g.H-1); real(c) != r.Xmax || imag(c) != r.Ymin {
			t.Errorf("%v: last pixel = %v, want (%g,%g)", g, c, r.Xmax, r.Ymin)
		}
	}
}

func TestPixelToComplexLinear(t *testing.T) {
	p := NewPlane(Region{Xmin: 0, Xmax: 10, Ymin: 0, Ymax: 10}, Grid{11, 11})
	for i := 0; i < 11; i++ {
		c := p.PixelToComplex(i, i)
		if !near(real(c), float64(i)) || !near(imag(c), float64(10-i)) {
			t.Fatalf("pixel (%d,%d) = %v", i, i, c)
		}
	}
}

func TestSinglePixelGrid(t *testing.T) {
	p := NewPlane(FullSet, Grid{1, 1})
	c := p.PixelToComplex(0, 0)
	if math.IsNaN(real(c)) || math.IsNaN(imag(c)) {
		t.Fatalf("single pixel mapped to %v", c)
	}
}

func TestFitAspect(t *testing.T) {
	g := Grid{100, 100}
	r := FullSet.FitAspect(g)
	if r.Xmin != FullSet.Xmin || r.Xmax != FullSet.Xmax {
		t.Errorf("real extent changed: %v", r)
	}
	if !near(r.Ymin, -1.75) || !near(r.Ymax, 1.75) {
		t.Errorf("imag extent = [%g,%g], want [-1.75,1.75]", r.Ymin, r.Ymax)
	}

	g = Grid{1280, 800}
	r = SeahorseValley.FitAspect(g)
	if got, want := r.Width()/r.Height(), 1280.0/800.0; !near(got, want) {
		t.Errorf("aspect = %g, want %g", got, want)
	}
	if mid, want := (r.Ymin+r.Ymax)/2, (SeahorseValley.Ymin+SeahorseValley.Ymax)/2; !near(mid, want) {
		t.Errorf("imag midpoint = %g, want %g", mid, want)
	}
}

func TestZoomDragScenario(t *testing.T) {
	g := Grid{100, 100}
	p := NewPlane(FullSet.FitAspect(g), g)

	r, err := p.Zoom(image.Pt(10, 10), image.Pt(50, 30))
	if err != nil {
		t.Fatalf("Zoom: %v", err)
	}

	a, b := p.PixelToComplex(10, 10), p.PixelToComplex(50, 30)
	if r.Xmin != real(a) || r.Xmax != real(b) {
		t.Errorf("real range = [%g,%g], want selected [%g,%g]", r.Xmin, r.Xmax, real(a), real(b))
	}
	if got, want := r.Width()/r.Height(), 1.0; !near(got, want) {
		t.Errorf("aspect = %g, want %g", got, want)
	}
	if mid, want := (r.Ymin+r.Ymax)/2, (imag(a)+imag(b))/2; !near(mid, want) {
		t.Errorf("imag midpoint = %g, want %g", mid, want)
	}
}

var chainedDrags = [][2]image.Point{
	{{0, 0}, {5, 5}},
	{{10, 10}, {50, 30}},
	{{50, 30}, {10, 10}}, // bottom-right to top-left
	{{2, 1}, {3, 2}},
	{{0, 2}, {6, 0}},
}

func TestZoomKeepsAspectRatio(t *testing.T) {
	grids := []Grid{{100, 100}, {1280, 800}, {320, 640}, {70, 30}}
	for _, g := range grids {
		p := NewPlane(FullSet.FitAspect(g), g)
		// zoom repeatedly so prior viewports are zoom results too
		for i, d := range chainedDrags {
			r, err := p.Zoom(d[0], d[1])
			if errors.Is(err, ErrPrecisionLimit) && i > 1 {
				break
			}
			if err != nil {
				t.Fatalf("%v: Zoom(%v,%v): %v", g, d[0], d[1], err)
			}
			if !r.Valid() {
				t.Fatalf("%v: invalid region %v", g, r)
			}
			want := float64(g.W) / float64(g.H)
			if got := r.Width() / r.Height(); math.Abs(got-want) > 1e-9*want {
				t.Errorf("%v: aspect after zoom = %g, want %g", g, got, want)
			}
			p = NewPlane(r, g)
		}
	}
}

// Deep in a 1280x800 zoom chain the imaginary bounds sit far from zero
// compared to their spread, and rounding them skews the aspect ratio. The
// zoom has to be refused instead of committing the skewed region.
func TestZoomRejectsAspectDrift(t *testing.T) {
	g := Grid{1280, 800}
	p := NewPlane(FullSet.FitAspect(g), g)
	var err error
	for _, d := range chainedDrags {
		var r Region
		r, err = p.Zoom(d[0], d[1])
		if err != nil {
			break
		}
		p = NewPlane(r, g)
	}
	if !errors.Is(err, ErrPrecisionLimit) {
		t.Fatalf("zoom chain err = %v, want ErrPrecisionLimit", err)
	}
	if got, want := p.Region.Width()/p.Region.Height(), 1.6; math.Abs(got-want) > 1e-9*want {
		t.Fatalf("last accepted aspect = %.12g, want %g", got, want)
	}
}

func TestCheckResolvableAspect(t *testing.T) {
	g := Grid{1280, 800}
	if err := checkResolvable(Region{Xmin: 0, Xmax: 1.6, Ymin: 0, Ymax: 1}, g); err != nil {
		t.Fatalf("exact aspect rejected: %v", err)
	}
	skewed := Region{Xmin: 0, Xmax: 1.6, Ymin: 0, Ymax: 1.00001}
	if err := checkResolvable(skewed, g); !errors.Is(err, ErrPrecisionLimit) {
		t.Fatalf("skewed region err = %v, want ErrPrecisionLimit", err)
	}
}

func TestZoomDegenerate(t *testing.T) {
	g := Grid{100, 100}
	p := NewPlane(FullSet.FitAspect(g), g)
	for _, d := range [][2]image.Point{
		{{10, 10}, {10, 10}},
		{{10, 10}, {10, 50}},
		{{10, 10}, {60, 10}},
	} {
		if _, err := p.Zoom(d[0], d[1]); !errors.Is(err, ErrDegenerateSelection) {
			t.Errorf("Zoom(%v,%v) err = %v, want ErrDegenerateSelection", d[0], d[1], err)
		}
	}
}

func TestZoomClampsToGrid(t *testing.T) {
	g := Grid{100, 100}
	p := NewPlane(FullSet.FitAspect(g), g)
	r, err := p.Zoom(image.Pt(-20, -20), image.Pt(500, 50))
	if err != nil {
		t.Fatalf("Zoom: %v", err)
	}
	if r.Xmin != p.Region.Xmin || r.Xmax != p.Region.Xmax {
		t.Errorf("clamped zoom real range = [%g,%g], want full width", r.Xmin, r.Xmax)
	}
}

func TestZoomPrecisionLimit(t *testing.T) {
	g := Grid{100, 100}
	x := -0.75
	tiny := Region{Xmin: x, Xmax: math.Nextafter(x, 0), Ymin: 0, Ymax: 1e-300}
	p := NewPlane(tiny, g)
	if _, err := p.Zoom(image.Pt(0, 0), image.Pt(99, 99)); !errors.Is(err, ErrPrecisionLimit) {
		t.Fatalf("err = %v, want ErrPrecisionLimit", err)
	}

	// keep zooming into a corner until float64 gives out
	p = NewPlane(FullSet.FitAspect(g), g)
	var err error
	for i := 0; i < 200; i++ {
		var r Region
		r, err = p.Zoom(image.Pt(40, 40), image.Pt(41, 41))
		if err != nil {
			break
		}
		p = NewPlane(r, g)
	}
	if !errors.Is(err, ErrPrecisionLimit) {
		t.Fatalf("deep zoom never hit precision limit, err = %v", err)
	}
	if !p.Region.Valid() {
		t.Fatalf("last accepted region invalid: %v", p.Region)
	}
}

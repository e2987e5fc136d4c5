package mandel

import (
	"fmt"
	"image"
	"math"
)

// Plane maps pixels of a Grid onto a Region.
// Pixel (0,0) is the top-left corner and maps to (Xmin, Ymax); pixel
// (W-1,H-1) maps to (Xmax, Ymin). Screen y grows downwards, imaginary
// values grow upwards.
type Plane struct {
	Region Region
	Grid   Grid

	dx, dy float64
}

func NewPlane(r Region, g Grid) Plane {
	p := Plane{Region: r, Grid: g}
	if g.W > 1 {
		p.dx = r.Width() / float64(g.W-1)
	}
	if g.H > 1 {
		p.dy = r.Height() / float64(g.H-1)
	}
	return p
}

// Step returns the distance between horizontally and vertically adjacent
// pixels.
func (p Plane) Step() (dx, dy float64) {
	return p.dx, p.dy
}

func (p Plane) PixelToComplex(px, py int) complex128 {
	return complex(p.real(px), p.imag(py))
}

func (p Plane) real(px int) float64 {
	if px == p.Grid.W-1 {
		return p.Region.Xmax
	}
	return p.Region.Xmin + float64(px)*p.dx
}

func (p Plane) imag(py int) float64 {
	if py == p.Grid.H-1 {
		return p.Region.Ymin
	}
	return p.Region.Ymax - float64(py)*p.dy
}

// Zoom turns a drag selection from a to b (pixel coordinates, any corner
// order) into a new region. The selected real range is kept as is, the
// imaginary range is recentered on the selection's vertical midpoint and
// resized to the grid's aspect ratio.
func (p Plane) Zoom(a, b image.Point) (Region, error) {
	a, b = p.clamp(a), p.clamp(b)
	sel := image.Rectangle{Min: a, Max: b}.Canon()
	if sel.Dx() == 0 || sel.Dy() == 0 {
		return Region{}, fmt.Errorf("selection %v: %w", sel, ErrDegenerateSelection)
	}

	top := p.PixelToComplex(sel.Min.X, sel.Min.Y)
	bottom := p.PixelToComplex(sel.Max.X, sel.Max.Y)
	r := Region{
		Xmin: real(top),
		Xmax: real(bottom),
		Ymin: imag(bottom),
		Ymax: imag(top),
	}.FitAspect(p.Grid)

	if err := checkResolvable(r, p.Grid); err != nil {
		return Region{}, err
	}
	return r, nil
}

func (p Plane) clamp(pt image.Point) image.Point {
	pt.X = min(max(pt.X, 0), p.Grid.W-1)
	pt.Y = min(max(pt.Y, 0), p.Grid.H-1)
	return pt
}

// Fit aspect-fits r to the plane's grid and checks that the result can be
// rendered at float64 precision.
func (p Plane) Fit(r Region) (Region, error) {
	r = r.FitAspect(p.Grid)
	if err := checkResolvable(r, p.Grid); err != nil {
		return Region{}, err
	}
	return r, nil
}

// aspectTolerance is the relative error allowed between a region's
// width/height and the grid's W/H.
const aspectTolerance = 1e-9

// checkResolvable rejects regions that are inverted, non-finite, or so
// small that neighbouring pixels collapse onto the same float64. It also
// rejects regions whose bounds are too coarse, relative to their offset
// from the origin, to hold the grid's aspect ratio.
func checkResolvable(r Region, g Grid) error {
	if !r.Valid() {
		return fmt.Errorf("region %v: %w", r, ErrPrecisionLimit)
	}
	want := float64(g.W) / float64(g.H)
	if got := r.Width() / r.Height(); math.Abs(got-want) > aspectTolerance*want {
		return fmt.Errorf("region %v: aspect %g drifts from %g: %w", r, got, want, ErrPrecisionLimit)
	}
	np := NewPlane(r, g)
	if g.W > 1 && np.real(1) == np.real(0) {
		return fmt.Errorf("region %v: real step underflows: %w", r, ErrPrecisionLimit)
	}
	if g.H > 1 && np.imag(1) == np.imag(0) {
		return fmt.Errorf("region %v: imaginary step underflows: %w", r, ErrPrecisionLimit)
	}
	return nil
}

package render

import (
	"image"
	"image/color"
)

// Mode selects how a field is colored.
type Mode int

const (
	// ModeColormap colors escaping pixels along the selected ramp.
	ModeColormap Mode = iota
	// ModeBinary colors set members black and everything else white.
	ModeBinary
)

func (m Mode) String() string {
	switch m {
	case ModeColormap:
		return "colormap"
	case ModeBinary:
		return "binary"
	}
	return "unknown"
}

// Toggle flips between binary and colormap coloring.
func (m Mode) Toggle() Mode {
	if m == ModeBinary {
		return ModeColormap
	}
	return ModeBinary
}

var (
	InsideColor  = color.RGBA{A: 255}
	OutsideColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Colorize maps f to a new image of the same size. cmap is only used in
// ModeColormap and wraps around the available colormaps.
func Colorize(f *Field, mode Mode, cmap int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.W, f.H))

	var lut []color.RGBA
	if mode == ModeColormap {
		lut = table(cmap, f.MaxIter)
	}

	for i, n := range f.Counts {
		var c color.RGBA
		switch {
		case n >= f.MaxIter:
			c = InsideColor
		case mode == ModeBinary:
			c = OutsideColor
		default:
			c = lut[max(n, 0)]
		}
		p := img.Pix[4*i : 4*i+4 : 4*i+4]
		p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
	}
	return img
}

package mandel

import (
	"fmt"
	"math"
	"runtime"
)

// Config holds the startup parameters of a viewer.
type Config struct {
	Width, Height int     // grid size in pixels
	MaxIter       int     // iteration budget; counts equal to MaxIter mean "inside"
	EscapeRadius  float64 // orbit escapes once |z| exceeds this
	Region        Region  // start region, aspect-fitted to the grid
	Workers       int     // field computer goroutines
}

func DefaultConfig() Config {
	return Config{
		Width:        1280,
		Height:       800,
		MaxIter:      256,
		EscapeRadius: 2.0,
		Region:       FullSet,
		Workers:      runtime.NumCPU(),
	}
}

func (c Config) Grid() Grid {
	return Grid{W: c.Width, H: c.Height}
}

// Validate reports the first bad field, wrapped in ErrInvalidConfig.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("grid %dx%d: dimensions must be positive: %w", c.Width, c.Height, ErrInvalidConfig)
	case c.MaxIter <= 0:
		return fmt.Errorf("max iterations %d: must be positive: %w", c.MaxIter, ErrInvalidConfig)
	case !(c.EscapeRadius > 0) || math.IsInf(c.EscapeRadius, 0):
		return fmt.Errorf("escape radius %g: must be positive and finite: %w", c.EscapeRadius, ErrInvalidConfig)
	case math.IsInf(c.EscapeRadius*c.EscapeRadius, 0):
		return fmt.Errorf("escape radius %g: square overflows float64: %w", c.EscapeRadius, ErrInvalidConfig)
	case !c.Region.Valid():
		return fmt.Errorf("region %v: %w", c.Region, ErrInvalidConfig)
	case c.Workers <= 0:
		return fmt.Errorf("workers %d: must be positive: %w", c.Workers, ErrInvalidConfig)
	}
	if _, err := NewPlane(c.Region, c.Grid()).Fit(c.Region); err != nil {
		return fmt.Errorf("start region: %w: %w", err, ErrInvalidConfig)
	}
	return nil
}

// StartRegion is the configured region fitted to the grid's aspect ratio.
// It assumes c has been validated.
func (c Config) StartRegion() Region {
	return c.Region.FitAspect(c.Grid())
}

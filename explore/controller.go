package explore

import (
	"errors"
	"fmt"
	"image"
	"log"
	"sync"

	mandel "github.com/justinthompson593/Mandelbrot"
	"github.com/justinthompson593/Mandelbrot/render"
)

// Controller owns the viewer state: region, coloring, the current
// iteration field and the frame colored from it. Handle, Complete and Poll
// must be called from a single goroutine; Frame, State and Progress may be
// read from the same goroutine only. Field recomputes run on their own
// goroutine and are delivered through Ready.
type Controller struct {
	cfg    mandel.Config
	logger *log.Logger

	state State
	field *render.Field
	frame *image.RGBA

	// version is bumped every time frame is replaced
	version int

	ready chan *render.Field

	jobMu sync.Mutex
	job   *render.Job
}

// New validates cfg and computes the first frame before returning.
func New(cfg mandel.Config, logger *log.Logger) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}

	start := cfg.StartRegion()
	c := &Controller{
		cfg:    cfg,
		logger: logger,
		state:  State{Region: start, Start: start},
		ready:  make(chan *render.Field, 1),
	}

	c.logRegion(start)
	c.Complete(c.newJob(start).Run())
	return c, nil
}

// Handle feeds one event through the state machine and carries out the
// resulting action.
func (c *Controller) Handle(ev Event) Action {
	prev := c.state
	next, act := Transition(prev, ev, c.cfg.Grid())
	c.state = next

	if act.Err != nil && !errors.Is(act.Err, mandel.ErrDegenerateSelection) {
		c.logger.Printf("zoom rejected: %v", act.Err)
	}

	switch act.Kind {
	case Recolor:
		if next.Mode != prev.Mode {
			c.logger.Printf("coloring: %s", next.Mode)
		}
		if next.Colormap != prev.Colormap {
			c.logger.Printf("colormap: %s", render.ColormapName(next.Colormap))
		}
		c.recolor()
	case Recompute:
		if ev.Kind == Release {
			sel := image.Rectangle{Min: prev.Drag.Anchor, Max: image.Pt(ev.X, ev.Y)}.Canon()
			c.logger.Printf("selection: %v -> %v", sel.Min, sel.Max)
		}
		c.logRegion(next.Region)
		c.recompute(next.Region)
	case None:
		if next.Colormap != prev.Colormap {
			c.logger.Printf("colormap: %s", render.ColormapName(next.Colormap))
		}
	}
	return act
}

func (c *Controller) logRegion(r mandel.Region) {
	c.logger.Printf("Re = [%.17g, %.17g]", r.Xmin, r.Xmax)
	c.logger.Printf("Im = [%.17g, %.17g]", r.Ymin, r.Ymax)
}

func (c *Controller) newJob(r mandel.Region) *render.Job {
	opts := render.OptionsFrom(c.cfg)
	opts.Logger = c.logger
	job := render.NewJob(mandel.NewPlane(r, c.cfg.Grid()), opts)

	c.jobMu.Lock()
	c.job = job
	c.jobMu.Unlock()
	return job
}

func (c *Controller) recompute(r mandel.Region) {
	c.logger.Printf("recalculating...")
	job := c.newJob(r)
	go func() {
		c.ready <- job.Run()
	}()
}

func (c *Controller) recolor() {
	c.frame = render.Colorize(c.field, c.state.Mode, c.state.Colormap)
	c.version++
	c.state.Shown = true
}

// Ready delivers the field of a finished recompute. Pass it to Complete.
func (c *Controller) Ready() <-chan *render.Field {
	return c.ready
}

// Complete replaces the iteration field and recolors.
func (c *Controller) Complete(f *render.Field) {
	c.field = f
	c.state.Busy = false
	c.recolor()
}

// Poll completes a finished recompute if there is one. It reports whether
// the frame changed.
func (c *Controller) Poll() bool {
	select {
	case f := <-c.ready:
		c.Complete(f)
		return true
	default:
		return false
	}
}

// Wait blocks until a running recompute finishes.
func (c *Controller) Wait() {
	if c.state.Busy {
		c.Complete(<-c.ready)
	}
}

func (c *Controller) State() State          { return c.state }
func (c *Controller) Field() *render.Field  { return c.field }
func (c *Controller) Frame() *image.RGBA    { return c.frame }
func (c *Controller) Version() int          { return c.version }
func (c *Controller) Config() mandel.Config { return c.cfg }

// Progress is the finished fraction of the current or last recompute.
func (c *Controller) Progress() float32 {
	c.jobMu.Lock()
	defer c.jobMu.Unlock()
	if c.job == nil {
		return 1
	}
	return c.job.Finished()
}

// Status is a one-line summary for on-screen display.
func (c *Controller) Status() string {
	s := c.state
	line := fmt.Sprintf("%s | %s", s.Phase(), s.Mode)
	if s.Mode == render.ModeColormap {
		line += " " + render.ColormapName(s.Colormap)
	}
	dx, _ := mandel.NewPlane(s.Region, c.cfg.Grid()).Step()
	line += fmt.Sprintf(" | step %.3g", dx)
	if s.Busy {
		line += fmt.Sprintf(" | %3.0f%%", 100*c.Progress())
	}
	return line
}

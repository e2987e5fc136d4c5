// Package explore implements the interactive zoom and recolor loop. Displays
// translate their input into Events and hand them to a Controller; the
// Controller keeps the current region, coloring and frame.
package explore

import (
	"errors"
	"fmt"
	"image"

	mandel "github.com/justinthompson593/Mandelbrot"
	"github.com/justinthompson593/Mandelbrot/render"
)

// EventKind identifies an input event.
type EventKind int

const (
	Press EventKind = iota
	Move
	Release
	Key
	Quit
)

// Event is one input message from a display.
// X and Y are pixel coordinates for mouse events; Rune is set for Key.
type Event struct {
	Kind EventKind
	X, Y int
	Rune rune
}

// Key bindings
const (
	KeyBinary   = 'b'
	KeyColormap = 'c'
	KeyReset    = 'r'
	KeyQuit     = 'q'
)

// Phase is the coarse state of the interaction loop.
type Phase int

const (
	Idle Phase = iota
	Dragging
	Recomputing
	Display
)

func (p Phase) String() string {
	return [...]string{"idle", "dragging", "recomputing", "display"}[p]
}

// Selection is an in-progress drag in pixel coordinates.
type Selection struct {
	Anchor, Current image.Point
}

// Rect is the selection normalized to Min <= Max.
func (s Selection) Rect() image.Rectangle {
	return image.Rectangle{Min: s.Anchor, Max: s.Current}.Canon()
}

// State is everything the transition function reads and writes.
type State struct {
	Region   mandel.Region
	Start    mandel.Region // target of KeyReset
	Mode     render.Mode
	Colormap int
	Drag     *Selection
	Busy     bool // a field recompute is running
	Shown    bool // a frame for the current field has been produced
}

func (s State) Phase() Phase {
	switch {
	case s.Busy:
		return Recomputing
	case s.Drag != nil:
		return Dragging
	case s.Shown:
		return Display
	}
	return Idle
}

// ActionKind is what the controller has to do after a transition.
type ActionKind int

const (
	// None leaves the frame as it is.
	None ActionKind = iota
	// DrawSelection redraws only the selection outline.
	DrawSelection
	// Recolor recomputes the color field from the current iteration field.
	Recolor
	// Recompute recomputes the iteration field for State.Region.
	Recompute
	// Exit terminates the loop.
	Exit
)

func (a ActionKind) String() string {
	return [...]string{"none", "draw-selection", "recolor", "recompute", "exit"}[a]
}

// Action is the result of a transition. Err explains a rejected zoom.
type Action struct {
	Kind ActionKind
	Err  error
}

// Transition is the pure state machine of the interaction loop.
func Transition(s State, ev Event, g mandel.Grid) (State, Action) {
	switch ev.Kind {
	case Quit:
		return s, Action{Kind: Exit}

	case Press:
		if s.Drag != nil {
			return s, Action{}
		}
		p := image.Pt(ev.X, ev.Y)
		s.Drag = &Selection{Anchor: p, Current: p}
		return s, Action{Kind: DrawSelection}

	case Move:
		if s.Drag == nil {
			return s, Action{}
		}
		s.Drag = &Selection{Anchor: s.Drag.Anchor, Current: image.Pt(ev.X, ev.Y)}
		return s, Action{Kind: DrawSelection}

	case Release:
		if s.Drag == nil {
			return s, Action{}
		}
		anchor := s.Drag.Anchor
		s.Drag = nil
		if s.Busy {
			return s, Action{Kind: DrawSelection, Err: errBusy}
		}
		r, err := mandel.NewPlane(s.Region, g).Zoom(anchor, image.Pt(ev.X, ev.Y))
		if err != nil {
			return s, Action{Kind: DrawSelection, Err: err}
		}
		return startRecompute(s, r)

	case Key:
		return key(s, ev.Rune, g)
	}
	return s, Action{}
}

var errBusy = errors.New("recompute in progress")

func key(s State, k rune, g mandel.Grid) (State, Action) {
	switch {
	case k == KeyQuit:
		return s, Action{Kind: Exit}

	case k == KeyBinary:
		s.Mode = s.Mode.Toggle()
		return s, Action{Kind: Recolor}

	case k == KeyColormap:
		s.Colormap = render.NextColormap(s.Colormap)
		if s.Mode == render.ModeBinary {
			return s, Action{}
		}
		return s, Action{Kind: Recolor}

	case k == KeyReset:
		return jump(s, s.Start, g)

	case k >= '1' && k <= '9':
		_, r, ok := mandel.LandmarkAt(int(k - '1'))
		if !ok {
			return s, Action{}
		}
		return jump(s, r, g)
	}
	return s, Action{}
}

func jump(s State, r mandel.Region, g mandel.Grid) (State, Action) {
	if s.Busy {
		return s, Action{Err: errBusy}
	}
	fitted, err := mandel.NewPlane(s.Region, g).Fit(r)
	if err != nil {
		return s, Action{Err: fmt.Errorf("jump to %v: %w", r, err)}
	}
	return startRecompute(s, fitted)
}

func startRecompute(s State, r mandel.Region) (State, Action) {
	s.Region = r
	s.Busy = true
	s.Shown = false
	return s, Action{Kind: Recompute}
}

package web

import (
	"fmt"
	"unicode/utf8"

	"github.com/justinthompson593/Mandelbrot/explore"
	"github.com/justinthompson593/Mandelbrot/render"
)

// inputMsg is what the page sends for every mouse or key event.
type inputMsg struct {
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Key  string `json:"key,omitempty"`
}

func (m inputMsg) event() (explore.Event, error) {
	switch m.Type {
	case "press":
		return explore.Event{Kind: explore.Press, X: m.X, Y: m.Y}, nil
	case "move":
		return explore.Event{Kind: explore.Move, X: m.X, Y: m.Y}, nil
	case "release":
		return explore.Event{Kind: explore.Release, X: m.X, Y: m.Y}, nil
	case "quit":
		return explore.Event{Kind: explore.Quit}, nil
	case "key":
		r, n := utf8.DecodeRuneInString(m.Key)
		if r == utf8.RuneError || n != len(m.Key) {
			return explore.Event{}, fmt.Errorf("key %q: want a single character", m.Key)
		}
		return explore.Event{Kind: explore.Key, Rune: r}, nil
	}
	return explore.Event{}, fmt.Errorf("unknown message type %q", m.Type)
}

type regionMsg struct {
	Xmin float64 `json:"xmin"`
	Xmax float64 `json:"xmax"`
	Ymin float64 `json:"ymin"`
	Ymax float64 `json:"ymax"`
}

type selectionMsg struct {
	X0 int `json:"x0"`
	Y0 int `json:"y0"`
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
}

// statusMsg is sent after every handled event. Frames follow as binary
// PNG messages whenever the picture changes.
type statusMsg struct {
	Type      string        `json:"type"`
	Width     int           `json:"width"`
	Height    int           `json:"height"`
	Phase     string        `json:"phase"`
	Mode      string        `json:"mode"`
	Colormap  string        `json:"colormap"`
	Busy      bool          `json:"busy"`
	Progress  float32       `json:"progress"`
	Region    regionMsg     `json:"region"`
	Selection *selectionMsg `json:"selection"`
	Text      string        `json:"text"`
}

func newStatus(c *explore.Controller) statusMsg {
	s := c.State()
	cfg := c.Config()
	st := statusMsg{
		Type:     "status",
		Width:    cfg.Width,
		Height:   cfg.Height,
		Phase:    s.Phase().String(),
		Mode:     s.Mode.String(),
		Colormap: render.ColormapName(s.Colormap),
		Busy:     s.Busy,
		Progress: c.Progress(),
		Region:   regionMsg{Xmin: s.Region.Xmin, Xmax: s.Region.Xmax, Ymin: s.Region.Ymin, Ymax: s.Region.Ymax},
		Text:     c.Status(),
	}
	if s.Drag != nil {
		st.Selection = &selectionMsg{
			X0: s.Drag.Anchor.X, Y0: s.Drag.Anchor.Y,
			X1: s.Drag.Current.X, Y1: s.Drag.Current.Y,
		}
	}
	return st
}

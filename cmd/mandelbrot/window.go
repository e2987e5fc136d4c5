package main

import (
	"errors"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/justinthompson593/Mandelbrot/explore"
)

var selectionColor = color.RGBA{R: 0xff, G: 0x30, B: 0x30, A: 0xff}

// keys forwarded to the controller, checked in this order each frame
var boundKeys = []struct {
	key ebiten.Key
	ev  explore.Event
}{
	{ebiten.KeyB, explore.Event{Kind: explore.Key, Rune: explore.KeyBinary}},
	{ebiten.KeyC, explore.Event{Kind: explore.Key, Rune: explore.KeyColormap}},
	{ebiten.KeyR, explore.Event{Kind: explore.Key, Rune: explore.KeyReset}},
	{ebiten.Key1, explore.Event{Kind: explore.Key, Rune: '1'}},
	{ebiten.Key2, explore.Event{Kind: explore.Key, Rune: '2'}},
	{ebiten.Key3, explore.Event{Kind: explore.Key, Rune: '3'}},
	{ebiten.Key4, explore.Event{Kind: explore.Key, Rune: '4'}},
	{ebiten.Key5, explore.Event{Kind: explore.Key, Rune: '5'}},
	{ebiten.Key6, explore.Event{Kind: explore.Key, Rune: '6'}},
	{ebiten.KeyQ, explore.Event{Kind: explore.Key, Rune: explore.KeyQuit}},
	{ebiten.KeyEscape, explore.Event{Kind: explore.Quit}},
}

// window implements ebiten.Game on top of a Controller.
type window struct {
	ctl *explore.Controller

	offscreen    *ebiten.Image
	drawnVersion int
	lastX, lastY int
}

func runWindow(ctl *explore.Controller) error {
	cfg := ctl.Config()
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowTitle("Mandelbrot Set")
	ebiten.SetWindowClosingHandled(true)

	w := &window{
		ctl:          ctl,
		offscreen:    ebiten.NewImage(cfg.Width, cfg.Height),
		drawnVersion: -1,
	}
	err := ebiten.RunGame(w)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

func (w *window) events() []explore.Event {
	var evs []explore.Event

	if ebiten.IsWindowBeingClosed() {
		return append(evs, explore.Event{Kind: explore.Quit})
	}

	x, y := ebiten.CursorPosition()
	evs = append(evs, explore.MouseEvents(
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft),
		w.ctl.State().Drag != nil,
		x, y, w.lastX, w.lastY,
	)...)
	w.lastX, w.lastY = x, y

	for _, b := range boundKeys {
		if inpututil.IsKeyJustPressed(b.key) {
			evs = append(evs, b.ev)
		}
	}
	return evs
}

func (w *window) Update() error {
	w.ctl.Poll()

	for _, ev := range w.events() {
		if act := w.ctl.Handle(ev); act.Kind == explore.Exit {
			return ebiten.Termination
		}
	}

	if v := w.ctl.Version(); v != w.drawnVersion {
		w.offscreen.WritePixels(w.ctl.Frame().Pix)
		w.drawnVersion = v
	}
	return nil
}

func (w *window) Draw(screen *ebiten.Image) {
	screen.DrawImage(w.offscreen, nil)

	s := w.ctl.State()
	if s.Drag != nil {
		drawSelection(screen, s.Drag.Rect())
	}
	ebitenutil.DebugPrint(screen, w.ctl.Status())
}

func drawSelection(screen *ebiten.Image, r image.Rectangle) {
	vector.StrokeRect(screen,
		float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()),
		1, selectionColor, false)
}

func (w *window) Layout(outsideWidth, outsideHeight int) (int, int) {
	b := w.offscreen.Bounds()
	return b.Dx(), b.Dy()
}

package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	mandel "github.com/justinthompson593/Mandelbrot"
	"github.com/justinthompson593/Mandelbrot/explore"
)

var encoder = png.Encoder{CompressionLevel: png.BestSpeed}

// session is one browser viewer: a controller plus the websocket feeding it.
type session struct {
	conn   *websocket.Conn
	ctl    *explore.Controller
	logger *log.Logger

	sentVersion int
}

// serveSession runs a viewer over c until the peer quits or disconnects.
func serveSession(ctx context.Context, c *websocket.Conn, cfg mandel.Config, logger *log.Logger) error {
	defer c.CloseNow()

	logger.Printf("session started")
	defer logger.Printf("session ended")

	ctl, err := explore.New(cfg, logger)
	if err != nil {
		c.Close(websocket.StatusInternalError, "bad configuration")
		return fmt.Errorf("explore.New: %w", err)
	}
	s := &session{conn: c, ctl: ctl, logger: logger, sentVersion: -1}
	return s.run(ctx)
}

func (s *session) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan explore.Event)
	readErr := make(chan error, 1)
	go func() {
		readErr <- s.readLoop(ctx, events)
	}()

	if err := s.publish(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			act := s.ctl.Handle(ev)
			if act.Kind == explore.Exit {
				// the last recompute, if any, runs to completion unobserved
				return s.conn.Close(websocket.StatusNormalClosure, "bye")
			}
		case f := <-s.ctl.Ready():
			s.ctl.Complete(f)
		case <-ticker.C:
			if !s.ctl.State().Busy {
				continue
			}
		case err := <-readErr:
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure ||
				websocket.CloseStatus(err) == websocket.StatusGoingAway ||
				errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		case <-ctx.Done():
			return nil
		}

		if err := s.publish(ctx); err != nil {
			return err
		}
	}
}

func (s *session) readLoop(ctx context.Context, events chan<- explore.Event) error {
	for {
		var msg inputMsg
		if err := wsjson.Read(ctx, s.conn, &msg); err != nil {
			return err
		}
		ev, err := msg.event()
		if err != nil {
			s.logger.Printf("ignoring message: %v", err)
			continue
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// publish sends the status, and the frame if it changed since the last send.
func (s *session) publish(ctx context.Context) error {
	if err := wsjson.Write(ctx, s.conn, newStatus(s.ctl)); err != nil {
		return fmt.Errorf("write status: %w", err)
	}
	if s.ctl.Version() == s.sentVersion {
		return nil
	}
	buf, err := encodeFrame(s.ctl.Frame())
	if err != nil {
		return err
	}
	if err := s.conn.Write(ctx, websocket.MessageBinary, buf); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	s.sentVersion = s.ctl.Version()
	return nil
}

func encodeFrame(img *image.RGBA) ([]byte, error) {
	var buf bytes.Buffer
	if err := encoder.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("png encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Package web serves the viewer to a browser. The page draws frames on a
// canvas and sends mouse and key events back over a websocket; every
// websocket connection is an independent viewer session.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"

	mandel "github.com/justinthompson593/Mandelbrot"
)

//go:embed static
var static embed.FS

// Server is the HTTP side of the web viewer.
type Server struct {
	cfg    mandel.Config
	logger *log.Logger
	srv    *http.Server
	l      *SessionListener
}

func NewServer(cfg mandel.Config, addr string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{cfg: cfg, logger: logger}
	s.l = NewSessionListener()
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler serves the embedded page and the websocket endpoint.
func (s *Server) Handler() http.Handler {
	page, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", websocketHandler(s.l, s.logger))
	mux.Handle("/", http.FileServer(http.FS(page)))
	return mux
}

// ListenAndServe runs the HTTP server and one session per accepted
// websocket until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("net.Listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.logger.Printf("listening on http://%s", ln.Addr())

	errc := make(chan error, 1)
	go func() {
		errc <- s.srv.Serve(ln)
	}()
	go s.acceptLoop(ctx)

	select {
	case err := <-errc:
		s.l.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("httpServer: %w", err)
	case <-ctx.Done():
		s.l.Close()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		return s.srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) acceptLoop(ctx context.Context) {
	for {
		c, err := s.l.Accept(ctx)
		if err != nil {
			return
		}
		go func() {
			if err := serveSession(ctx, c, s.cfg, s.logger); err != nil {
				s.logger.Printf("session: %v", err)
			}
		}()
	}
}

// websocketHandler handles the http ws endpoint
// if websocket is succesfully initialized it is passed to SessionListener so it can be accepted
func websocketHandler(l *SessionListener, logger *log.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			logger.Println(err)
			return
		}

		select {
		case l.ch <- c:
		case <-l.done:
			c.Close(websocket.StatusGoingAway, "server shutting down")
		}
	}
}

// SessionListener hands accepted websockets to the session loop.
type SessionListener struct {
	ch   chan *websocket.Conn
	done chan struct{}
	once sync.Once
}

func NewSessionListener() *SessionListener {
	return &SessionListener{
		ch:   make(chan *websocket.Conn),
		done: make(chan struct{}),
	}
}

func (l *SessionListener) Accept(ctx context.Context) (*websocket.Conn, error) {
	select {
	case c := <-l.ch:
		return c, nil
	case <-ctx.Done():
		return nil, context.Cause(ctx)
	case <-l.done:
		return nil, net.ErrClosed
	}
}

func (l *SessionListener) Close() error {
	l.once.Do(func() { close(l.done) })
	return nil
}

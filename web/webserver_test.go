package web

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	mandel "github.com/justinthompson593/Mandelbrot"
	"github.com/justinthompson593/Mandelbrot/explore"
)

var quiet = log.New(io.Discard, "", 0)

func testConfig() mandel.Config {
	cfg := mandel.DefaultConfig()
	cfg.Width, cfg.Height = 40, 30
	cfg.MaxIter = 50
	cfg.Workers = 2
	return cfg
}

// startServer runs a Server on a loopback port and returns its address.
func startServer(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	srv := NewServer(testConfig(), ln.Addr().String(), quiet)

	done := make(chan struct{})
	go func() {
		defer close(done)
		srv.Serve(ctx, ln)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return ln.Addr().String()
}

func readStatus(t *testing.T, ctx context.Context, c *websocket.Conn) statusMsg {
	t.Helper()
	typ, data, err := c.Read(ctx)
	if err != nil {
		t.Fatalf("read status: %v", err)
	}
	if typ != websocket.MessageText {
		t.Fatalf("got %v message, want status text", typ)
	}
	var st statusMsg
	if err := json.Unmarshal(data, &st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	return st
}

func readFrame(t *testing.T, ctx context.Context, c *websocket.Conn) {
	t.Helper()
	typ, data, err := c.Read(ctx)
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	if typ != websocket.MessageBinary {
		t.Fatalf("got %v message, want binary frame", typ)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Fatalf("frame bounds %v", b)
	}
}

func TestSession(t *testing.T) {
	addr := startServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, _, err := websocket.Dial(ctx, "ws://"+addr+"/ws", nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.CloseNow()
	c.SetReadLimit(1 << 20)

	st := readStatus(t, ctx, c)
	if st.Width != 40 || st.Height != 30 || st.Mode != "colormap" || st.Busy {
		t.Fatalf("initial status %+v", st)
	}
	readFrame(t, ctx, c)

	if err := wsjson.Write(ctx, c, inputMsg{Type: "key", Key: "b"}); err != nil {
		t.Fatalf("write key: %v", err)
	}
	if st = readStatus(t, ctx, c); st.Mode != "binary" {
		t.Fatalf("mode after b = %q", st.Mode)
	}
	readFrame(t, ctx, c)

	if err := wsjson.Write(ctx, c, inputMsg{Type: "press", X: 5, Y: 5}); err != nil {
		t.Fatalf("write press: %v", err)
	}
	if st = readStatus(t, ctx, c); st.Selection == nil || st.Selection.X0 != 5 {
		t.Fatalf("selection after press = %+v", st.Selection)
	}

	if err := wsjson.Write(ctx, c, inputMsg{Type: "quit"}); err != nil {
		t.Fatalf("write quit: %v", err)
	}
	_, _, err = c.Read(ctx)
	if websocket.CloseStatus(err) != websocket.StatusNormalClosure {
		t.Fatalf("read after quit: %v, want normal closure", err)
	}
}

func TestIndexPage(t *testing.T) {
	addr := startServer(t)
	resp, err := http.Get("http://" + addr + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "<canvas") {
		t.Fatalf("GET / = %d\n%s", resp.StatusCode, body)
	}
}

func TestInputEvents(t *testing.T) {
	tests := []struct {
		msg  inputMsg
		want explore.Event
	}{
		{inputMsg{Type: "press", X: 1, Y: 2}, explore.Event{Kind: explore.Press, X: 1, Y: 2}},
		{inputMsg{Type: "move", X: 3, Y: 4}, explore.Event{Kind: explore.Move, X: 3, Y: 4}},
		{inputMsg{Type: "release", X: 5, Y: 6}, explore.Event{Kind: explore.Release, X: 5, Y: 6}},
		{inputMsg{Type: "key", Key: "c"}, explore.Event{Kind: explore.Key, Rune: 'c'}},
		{inputMsg{Type: "quit"}, explore.Event{Kind: explore.Quit}},
	}
	for _, tt := range tests {
		got, err := tt.msg.event()
		if err != nil || got != tt.want {
			t.Errorf("%+v.event() = %+v, %v; want %+v", tt.msg, got, err, tt.want)
		}
	}

	for _, bad := range []inputMsg{{Type: "jump"}, {Type: "key"}, {Type: "key", Key: "bc"}} {
		if _, err := bad.event(); err == nil {
			t.Errorf("%+v.event() succeeded", bad)
		}
	}
}

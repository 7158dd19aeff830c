package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"lightsout/engine"
	"lightsout/types"
)

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?" + query
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		t.Fatalf("dial %s: %v (status %d)", url, err, status)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMsg(t *testing.T, conn *websocket.Conn) ServerMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg ServerMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func at(row, col int) *types.BoardPos {
	return &types.BoardPos{Row: row, Col: col}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewServer(engine.DefaultConfig()).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestIndexPage(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "<title>Lights Out</title>") {
		t.Fatal("index page missing title")
	}
	if !strings.Contains(string(body), `name="rows" type="number" min="1" value="3" max="64"`) {
		t.Fatal("index page should prefill the default rows")
	}
	if !strings.Contains(string(body), "ws.onclose = null") {
		t.Fatal("replacing a connection should detach the old close handler")
	}

	resp, err = http.Get(srv.URL + "/nope")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestWebsocketPlaysToWin(t *testing.T) {
	srv := newTestServer(t)
	conn := dial(t, srv, "rows=1&cols=3&chance=1&seed=5")

	msg := readMsg(t, conn)
	if msg.Type != MsgState || msg.State.Lit != 3 || msg.Seed != 5 {
		t.Fatalf("unexpected initial message: %+v", msg)
	}

	if err := conn.WriteJSON(ClientMessage{Type: MsgFlip, Pos: at(0, 1)}); err != nil {
		t.Fatal(err)
	}
	msg = readMsg(t, conn)
	if msg.Type != MsgState || !msg.State.Won() || msg.State.Moves != 1 {
		t.Fatalf("expected won state, got %+v", msg.State)
	}

	if err := conn.WriteJSON(ClientMessage{Type: MsgFlip, Pos: at(0, 0)}); err != nil {
		t.Fatal(err)
	}
	msg = readMsg(t, conn)
	if msg.Type != MsgError || !strings.Contains(msg.Error, "already won") {
		t.Fatalf("expected game over error, got %+v", msg)
	}

	if err := conn.WriteJSON(ClientMessage{Type: MsgNew}); err != nil {
		t.Fatal(err)
	}
	msg = readMsg(t, conn)
	if msg.Type != MsgState || msg.State.Won() || msg.State.Moves != 0 || msg.State.Lit != 3 {
		t.Fatalf("expected fresh game, got %+v", msg.State)
	}
	if msg.Seed == 5 {
		t.Fatal("new game should not reuse the requested seed")
	}
}

func TestWebsocketRejectsBadMessages(t *testing.T) {
	srv := newTestServer(t)
	conn := dial(t, srv, "rows=2&cols=2&chance=1")
	readMsg(t, conn)

	if err := conn.WriteJSON(ClientMessage{Type: MsgFlip, Pos: at(9, 9)}); err != nil {
		t.Fatal(err)
	}
	if msg := readMsg(t, conn); msg.Type != MsgError || !strings.Contains(msg.Error, "not on the board") {
		t.Fatalf("expected out of bounds error, got %+v", msg)
	}

	if err := conn.WriteJSON(map[string]string{"type": "dance"}); err != nil {
		t.Fatal(err)
	}
	if msg := readMsg(t, conn); msg.Type != MsgError {
		t.Fatalf("expected unknown type error, got %+v", msg)
	}

	for _, raw := range []string{`{"type":"flip"}`, `{"type":"flip","pos":null}`, `{"type":"flip","pos":[0.5,1]}`} {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(raw)); err != nil {
			t.Fatal(err)
		}
		msg := readMsg(t, conn)
		if msg.Type != MsgError {
			t.Fatalf("%s: expected error, got %+v", raw, msg)
		}
	}

	// nothing above may have counted as a move
	if err := conn.WriteJSON(ClientMessage{Type: MsgFlip, Pos: at(1, 1)}); err != nil {
		t.Fatal(err)
	}
	if msg := readMsg(t, conn); msg.Type != MsgState || msg.State.Moves != 1 {
		t.Fatalf("expected first move to be counted once, got %+v", msg)
	}
}

func TestWebsocketClosesOnOversizedMessage(t *testing.T) {
	srv := newTestServer(t)
	conn := dial(t, srv, "rows=2&cols=2&chance=1")
	readMsg(t, conn)

	big := `{"type":"` + strings.Repeat("x", 4*maxMessageSize) + `"}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(big)); err != nil {
		t.Fatal(err)
	}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg ServerMessage
	if err := conn.ReadJSON(&msg); err == nil {
		t.Fatalf("expected the server to drop the connection, got %+v", msg)
	}
}

func TestWebsocketSessionsAreIndependent(t *testing.T) {
	srv := newTestServer(t)
	a := dial(t, srv, "rows=3&cols=3&chance=1&seed=1")
	b := dial(t, srv, "rows=3&cols=3&chance=1&seed=1")
	readMsg(t, a)
	readMsg(t, b)

	if err := a.WriteJSON(ClientMessage{Type: MsgFlip, Pos: at(1, 1)}); err != nil {
		t.Fatal(err)
	}
	if msg := readMsg(t, a); msg.State.Moves != 1 {
		t.Fatalf("expected 1 move on a, got %d", msg.State.Moves)
	}

	if err := b.WriteJSON(ClientMessage{Type: MsgFlip, Pos: at(0, 0)}); err != nil {
		t.Fatal(err)
	}
	msg := readMsg(t, b)
	if msg.State.Moves != 1 || msg.State.Lit != 6 {
		t.Fatalf("b should be unaffected by a, got %+v", msg.State)
	}
}

func TestWebsocketBadQuery(t *testing.T) {
	srv := newTestServer(t)
	for _, query := range []string{"rows=0", "rows=2000000000&cols=2000000000"} {
		url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?" + query
		_, resp, err := websocket.DefaultDialer.Dial(url, nil)
		if err == nil {
			t.Fatalf("%q: expected dial to fail", query)
		}
		if resp == nil || resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%q: expected 400, got %v", query, resp)
		}
	}
}

func TestConfigFromQuery(t *testing.T) {
	tests := []struct {
		query   string
		want    engine.GameConfig
		wantErr bool
	}{
		{"", engine.DefaultConfig(), false},
		{"rows=5&cols=4&chance=0.25&seed=8", engine.GameConfig{Rows: 5, Cols: 4, ChanceLightStartsOn: 0.25, Seed: 8}, false},
		{"rows=abc", engine.GameConfig{}, true},
		{"chance=2", engine.GameConfig{}, true},
		{"seed=-1", engine.GameConfig{}, true},
		{"rows=2000000000&cols=2000000000", engine.GameConfig{}, true},
		{"cols=65", engine.GameConfig{}, true},
		{"rows=64&cols=64", engine.GameConfig{Rows: 64, Cols: 64, ChanceLightStartsOn: 0.5}, false},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/ws?"+tt.query, nil)
		got, err := ConfigFromQuery(engine.DefaultConfig(), r)
		if (err != nil) != tt.wantErr {
			t.Fatalf("%q: unexpected error state %v", tt.query, err)
		}
		if !tt.wantErr && got != tt.want {
			t.Fatalf("%q: expected %+v, got %+v", tt.query, tt.want, got)
		}
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	s := NewServer(engine.DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

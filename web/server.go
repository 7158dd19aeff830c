// Package web serves Lights Out to a browser. Every websocket connection
// plays its own session; nothing is shared between connections.
package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"lightsout/board"
	"lightsout/engine"
	"lightsout/types"
)

// maxMessageSize bounds a single client message.
const maxMessageSize = 512

var errMissingPos = errors.New("flip needs a position")

//go:embed templates/index.html
var templates embed.FS

// Message types exchanged over the websocket.
const (
	MsgFlip  = "flip"
	MsgNew   = "new"
	MsgState = "state"
	MsgError = "error"
)

// ClientMessage is sent by the browser.
type ClientMessage struct {
	Type string          `json:"type"`
	Pos  *types.BoardPos `json:"pos,omitempty"`
}

// ServerMessage is pushed to the browser after every change.
type ServerMessage struct {
	Type  string            `json:"type"`
	State *types.BoardState `json:"state,omitempty"`
	Seed  uint64            `json:"seed,omitempty"`
	Error string            `json:"error,omitempty"`
}

type Server struct {
	defaults engine.GameConfig
	upgrader websocket.Upgrader
	tmpl     *template.Template
	mux      *http.ServeMux
}

// NewServer creates a server whose games default to cfg.
func NewServer(defaults engine.GameConfig) *Server {
	s := &Server{
		defaults: defaults,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		tmpl:     template.Must(template.ParseFS(templates, "templates/index.html")),
		mux:      http.NewServeMux(),
	}
	s.mux.HandleFunc("/", s.indexHandler)
	s.mux.HandleFunc("/ws", s.wsHandler)
	return s
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()
	logrus.WithField("addr", addr).Info("web server started")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	page := struct {
		engine.GameConfig
		MaxSize int
	}{s.defaults, board.MaxSize}
	if err := s.tmpl.Execute(w, page); err != nil {
		logrus.WithError(err).Error("template execute")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// ConfigFromQuery overlays rows, cols, chance and seed query parameters on defaults.
func ConfigFromQuery(defaults engine.GameConfig, r *http.Request) (engine.GameConfig, error) {
	cfg := defaults
	q := r.URL.Query()
	var err error
	if v := q.Get("rows"); v != "" {
		if cfg.Rows, err = strconv.Atoi(v); err != nil {
			return cfg, fmt.Errorf("invalid rows %q", v)
		}
	}
	if v := q.Get("cols"); v != "" {
		if cfg.Cols, err = strconv.Atoi(v); err != nil {
			return cfg, fmt.Errorf("invalid cols %q", v)
		}
	}
	if v := q.Get("chance"); v != "" {
		if cfg.ChanceLightStartsOn, err = strconv.ParseFloat(v, 64); err != nil {
			return cfg, fmt.Errorf("invalid chance %q", v)
		}
	}
	if v := q.Get("seed"); v != "" {
		if cfg.Seed, err = strconv.ParseUint(v, 10, 64); err != nil {
			return cfg, fmt.Errorf("invalid seed %q", v)
		}
	}
	return cfg, cfg.Validate()
}

func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	cfg, err := ConfigFromQuery(s.defaults, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).Warn("websocket upgrade")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	log := logrus.WithField("remote", r.RemoteAddr)
	log.Info("player connected")
	defer log.Info("player disconnected")

	c := &client{conn: conn, cfg: cfg, log: log}
	if err := c.newGame(); err != nil {
		log.WithError(err).Error("start game")
		return
	}
	c.serve()
}

// client is one browser tab and the session it is playing.
type client struct {
	conn    *websocket.Conn
	cfg     engine.GameConfig
	session *engine.Session
	log     *logrus.Entry
}

// newGame starts a fresh session; "new game" never reuses a won session.
func (c *client) newGame() error {
	session, err := engine.NewSession(c.cfg)
	if err != nil {
		return err
	}
	c.session = session
	c.cfg.Seed = 0 // only the first game replays a requested seed
	return c.sendState()
}

func (c *client) sendState() error {
	return c.conn.WriteJSON(ServerMessage{
		Type:  MsgState,
		State: c.session.GetBoardState(),
		Seed:  c.session.Config().Seed,
	})
}

func (c *client) sendError(err error) error {
	return c.conn.WriteJSON(ServerMessage{Type: MsgError, Error: err.Error()})
}

func (c *client) serve() {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.WithError(err).Warn("read")
			}
			return
		}

		var msg ClientMessage
		if jerr := json.Unmarshal(data, &msg); jerr != nil {
			err = c.sendError(fmt.Errorf("bad message: %w", jerr))
		} else {
			err = c.dispatch(msg)
		}
		if err != nil {
			c.log.WithError(err).Warn("write")
			return
		}
	}
}

func (c *client) dispatch(msg ClientMessage) error {
	switch msg.Type {
	case MsgFlip:
		if msg.Pos == nil {
			return c.sendError(errMissingPos)
		}
		if err := c.session.Flip(*msg.Pos); err != nil {
			return c.sendError(err)
		}
		return c.sendState()
	case MsgNew:
		return c.newGame()
	default:
		return c.sendError(fmt.Errorf("unknown message type %q", msg.Type))
	}
}

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vitalstat/lifelens/dataset"
	"github.com/vitalstat/lifelens/explore"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The UI is served from anywhere during development; tighten via a
	// reverse proxy in deployment.
	CheckOrigin: func(*http.Request) bool { return true },
}

// meta is the first frame on a new connection: what the client needs
// to build its input controls.
type meta struct {
	Kind      string        `json:"kind"`
	Session   string        `json:"session"`
	Countries []string      `json:"countries"`
	Bounds    dataset.Range `json:"bounds"`
}

type errorFrame struct {
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

// wsEmitter pushes render frames down the socket. Sinks call it
// synchronously during flush, on the connection goroutine, so no
// locking is needed.
type wsEmitter struct {
	conn *websocket.Conn
	err  error
}

func (e *wsEmitter) Emit(f explore.Frame) {
	if e.err != nil {
		return
	}
	e.err = e.conn.WriteJSON(f)
}

// serveWS runs one whole session on the handler goroutine: the graph
// is created here and every write, flush, and render happens here, so
// the graph's goroutine confinement holds by construction.
func (s *Server) serveWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	emitter := &wsEmitter{conn: conn}
	sess := explore.NewSession(s.table, emitter, s.log)
	defer sess.Close()

	log := s.log.With().Str("session", sess.ID).Logger()
	log.Info().Msg("session opened")
	defer log.Info().Msg("session closed")

	if err := conn.WriteJSON(meta{
		Kind:      "meta",
		Session:   sess.ID,
		Countries: s.table.Countries,
		Bounds:    sess.Bounds(),
	}); err != nil {
		return
	}

	// initial view
	if err := sess.Flush(); err != nil {
		log.Error().Err(err).Msg("initial flush failed")
		_ = conn.WriteJSON(errorFrame{Kind: "error", Error: err.Error()})
	}

	for {
		var in explore.Input
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn().Err(err).Msg("read failed")
			}
			return
		}

		if err := sess.Apply(in); err != nil {
			// a rejected input or a failed sink; the session stays up
			log.Debug().Err(err).Msg("input rejected")
			if werr := conn.WriteJSON(errorFrame{Kind: "error", Error: err.Error()}); werr != nil {
				return
			}
			continue
		}
		if emitter.err != nil {
			log.Warn().Err(emitter.err).Msg("emit failed")
			return
		}
	}
}

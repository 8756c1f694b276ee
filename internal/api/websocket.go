package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/PetterS/realtimechess/internal/fanout"
	"github.com/PetterS/realtimechess/internal/match"
)

type websocketUpgrader struct {
	upgrader websocket.Upgrader
}

// connWriter adapts a *websocket.Conn to fanout.Writer. gorilla/websocket
// forbids concurrent writers on one connection; connWriter itself has no
// lock of its own, and relies entirely on the owning Match's mutex (held
// across every broadcast path) to ensure WriteMessage is never called
// concurrently for the same connection.
type connWriter struct {
	conn *websocket.Conn
}

func (w *connWriter) WriteMessage(data []byte) error {
	return w.conn.WriteMessage(websocket.TextMessage, data)
}

// handleWebsocket upgrades the connection, joins the caller as an observer
// (or as black, if the seat is open -- Match.Join's main_page join logic
// applies here since a client may link straight to /ws), and then only
// recognizes an inbound "close" text frame, mirroring the teacher's own
// "register then pump until close" handleWS loop: moves never arrive over
// this socket, only over the HTTP routes.
func (s *Server) handleWebsocket(c *gin.Context) {
	m := s.lookupMatch(c)
	if m == nil {
		return
	}

	conn, err := s.upgrader.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Info("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	p := currentPlayer(c)
	m.Join(match.PlayerRef{ID: p.ID, Name: p.Name})

	w := &connWriter{conn: conn}
	handle := m.Observers().Subscribe(w)
	defer m.Observers().Unsubscribe(handle)

	s.log.Info("observer attached", zap.String("match", m.Key()), zap.String("handle", handle.ID.String()))

	m.Broadcast()

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			// A dropped or closed connection is an expected event (§7:
			// silently swallowed after logging), not surfaced as an error.
			s.log.Info("observer read failed, closing", zap.Error(err))
			return
		}
		if msgType == websocket.TextMessage && string(data) == "close" {
			return
		}
	}
}

func newUpgrader() websocketUpgrader {
	return websocketUpgrader{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

var _ fanout.Writer = (*connWriter)(nil)

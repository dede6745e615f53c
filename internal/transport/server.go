package transport

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Server upgrades HTTP requests to websocket connections and hands them to
// the hub.
type Server struct {
	hub      *Hub
	upgrader websocket.Upgrader
}

func NewServer(hub *Hub, allowedOrigins []string) *Server {
	return &Server{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// Hub exposes the underlying hub for wiring and debug listings.
func (s *Server) Hub() *Hub {
	return s.hub
}

// HandleWS upgrades the request and runs the connection's pumps. The
// connection is attached to the hub before the read loop starts, so the
// connect broadcast already reaches it.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) error {
	sock, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		return nil
	}

	c := newConn(uuid.NewString(), sock)
	s.hub.attach(c)

	go c.keepAlive()
	go c.writePump()
	go c.readPump(s.hub)

	return nil
}

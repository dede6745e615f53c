package endpoints

import (
	"net/http"
	"sort"

	"presence-relay-backend/internal/presence"
	"presence-relay-backend/internal/transport"
)

type RelayEndpoints interface {
	Websocket(http.ResponseWriter, *http.Request) error
	Rooms(http.ResponseWriter, *http.Request) error
}

type relayEndpoints struct {
	registry *presence.Registry
	ws       *transport.Server
}

func NewRelayEndpoints(registry *presence.Registry, ws *transport.Server) RelayEndpoints {
	return &relayEndpoints{
		registry: registry,
		ws:       ws,
	}
}

// Websocket upgrades the request and attaches the connection to the relay.
func (h *relayEndpoints) Websocket(w http.ResponseWriter, r *http.Request) error {
	return h.ws.HandleWS(w, r)
}

type RoomRes struct {
	Name    string            `json:"name"`
	Members []presence.Member `json:"members"`
}

// Rooms is a debug listing of current rooms and their members.
func (h *relayEndpoints) Rooms(w http.ResponseWriter, r *http.Request) error {
	return MethodHandler(w, r, map[string]func(http.ResponseWriter, *http.Request) error{
		http.MethodGet: h.handleListRooms,
	})
}

func (h *relayEndpoints) handleListRooms(w http.ResponseWriter, r *http.Request) error {
	names := h.registry.Rooms()
	sort.Strings(names)

	rooms := make([]RoomRes, 0, len(names))
	for _, name := range names {
		rooms = append(rooms, RoomRes{
			Name:    name,
			Members: h.registry.Members(name),
		})
	}

	return WriteJSON(w, http.StatusOK, rooms)
}

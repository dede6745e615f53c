// Package relay translates transport events into presence mutations and
// outbound broadcasts. It is the only writer of the presence registry.
package relay

import (
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"presence-relay-backend/internal/presence"
)

// Inbound and outbound event names. These are the wire contract.
const (
	EventJoinRoom    = "joinRoom"
	EventLeaveRoom   = "leaveRoom"
	EventChatMessage = "chat:message"
	EventUsersOnline = "usersOnline"
)

// Broadcaster is the transport surface the router drives.
type Broadcaster interface {
	JoinGroup(connID, group string)
	LeaveGroup(connID, group string)
	BroadcastToGroup(group, event string, payload any)
	BroadcastToAll(event string, payload any)
}

// Mirror republishes relayed chat traffic for external observers. Failures
// are logged and never surfaced to clients.
type Mirror interface {
	Publish(room string, payload any) error
}

// ChatMessage is the outbound relay payload. Never persisted.
type ChatMessage struct {
	UserID    string `json:"userId"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	ClientID  string `json:"clientId,omitempty"`
}

// session is the per-connection state the router keeps between events:
// the room the connection currently occupies and its declared identity.
// Created on connect, torn down on disconnect.
type session struct {
	room   string
	userID string
}

// Router owns the event handling for all connections. A single mutex
// serializes every registry mutation and its broadcasts, so each event is
// processed atomically with respect to every other event.
type Router struct {
	registry *presence.Registry
	bus      Broadcaster
	mirror   Mirror

	mu       sync.Mutex
	sessions map[string]*session
}

func NewRouter(registry *presence.Registry, bus Broadcaster, mirror Mirror) *Router {
	return &Router{
		registry: registry,
		bus:      bus,
		mirror:   mirror,
		sessions: make(map[string]*session),
	}
}

// Connect registers a new connection globally and announces the updated
// process-wide presence to everyone.
func (rt *Router) Connect(connID string) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.sessions[connID] = &session{}
	rt.registry.AddGlobal(connID)
	rt.bus.BroadcastToAll(EventUsersOnline, rt.registry.Global())
}

// Disconnect removes the connection from global presence and, when it was
// assigned to a room, from that room, broadcasting each updated list once.
func (rt *Router) Disconnect(connID string) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.registry.RemoveGlobal(connID)
	rt.bus.BroadcastToAll(EventUsersOnline, rt.registry.Global())

	s := rt.sessions[connID]
	delete(rt.sessions, connID)
	if s == nil || s.room == "" {
		return
	}

	members := rt.registry.LeaveRoom(s.room, connID)
	rt.bus.BroadcastToGroup(s.room, EventUsersOnline, members)
}

// HandleEvent dispatches a named event from a connection. Unknown events
// are ignored; clients are untrusted.
func (rt *Router) HandleEvent(connID, event string, data json.RawMessage) {
	switch event {
	case EventJoinRoom:
		rt.handleJoin(connID, data)
	case EventLeaveRoom:
		rt.handleLeave(connID, data)
	case EventChatMessage:
		rt.handleChat(connID, data)
	default:
		log.Printf("relay: ignoring unknown event %q from %s", event, connID)
	}
}

type joinPayload struct {
	Room     json.RawMessage `json:"room"`
	Identity json.RawMessage `json:"identity"`
}

func (rt *Router) handleJoin(connID string, data json.RawMessage) {
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		// A bare primitive payload is treated as the room name alone.
		p = joinPayload{Room: data}
	}

	room := normalizeRoom(p.Room)
	if room == "" {
		return
	}
	userID := resolveIdentity(p.Identity, connID)

	rt.mu.Lock()
	defer rt.mu.Unlock()

	s := rt.ensureSession(connID)

	// One room per connection: switching rooms leaves the old one first so
	// no ghost membership lingers until disconnect.
	if s.room != "" && s.room != room {
		remaining := rt.registry.LeaveRoom(s.room, connID)
		rt.bus.LeaveGroup(connID, s.room)
		rt.bus.BroadcastToGroup(s.room, EventUsersOnline, remaining)
	}

	members := rt.registry.JoinRoom(room, connID, userID)
	rt.bus.JoinGroup(connID, room)
	s.room = room
	s.userID = userID

	rt.bus.BroadcastToGroup(room, EventUsersOnline, members)
}

type leavePayload struct {
	Room json.RawMessage `json:"room"`
}

func (rt *Router) handleLeave(connID string, data json.RawMessage) {
	var p leavePayload
	if err := json.Unmarshal(data, &p); err != nil {
		p = leavePayload{Room: data}
	}

	room := normalizeRoom(p.Room)
	if room == "" {
		return
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()

	// Leaving a room the connection never joined is a no-op, without a
	// broadcast.
	if _, ok := rt.registry.Lookup(room, connID); !ok {
		return
	}

	members := rt.registry.LeaveRoom(room, connID)
	rt.bus.LeaveGroup(connID, room)
	rt.bus.BroadcastToGroup(room, EventUsersOnline, members)

	if s := rt.sessions[connID]; s != nil && s.room == room {
		s.room = ""
		s.userID = ""
	}
}

type chatPayload struct {
	UserID    json.RawMessage `json:"userId"`
	Message   json.RawMessage `json:"message"`
	Timestamp json.RawMessage `json:"timestamp"`
	ClientID  json.RawMessage `json:"clientId"`
	Room      json.RawMessage `json:"room"`
}

func (rt *Router) handleChat(connID string, data json.RawMessage) {
	var p chatPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return
	}

	message := strings.TrimSpace(rawString(p.Message))
	if message == "" {
		return
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()

	room := normalizeRoom(p.Room)
	if room == "" {
		if s := rt.sessions[connID]; s != nil {
			room = s.room
		}
	}
	if room == "" {
		log.Printf("relay: dropping chat message from %s: no room in payload or session", connID)
		return
	}

	userID := rawString(p.UserID)
	if userID == "" {
		if member, ok := rt.registry.Lookup(room, connID); ok {
			userID = member.UserID
		}
	}
	if userID == "" {
		userID = connID
	}

	timestamp := rawString(p.Timestamp)
	if timestamp == "" {
		timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	msg := ChatMessage{
		UserID:    userID,
		Message:   message,
		Timestamp: timestamp,
		ClientID:  rawString(p.ClientID),
	}

	rt.bus.BroadcastToGroup(room, EventChatMessage, msg)

	if rt.mirror != nil {
		if err := rt.mirror.Publish(room, msg); err != nil {
			log.Printf("relay: mirror publish for room %s failed: %v", room, err)
		}
	}
}

func (rt *Router) ensureSession(connID string) *session {
	s, ok := rt.sessions[connID]
	if !ok {
		s = &session{}
		rt.sessions[connID] = s
	}
	return s
}

// Package transport implements the websocket side of the relay: connection
// lifecycle, the event frame codec, and named broadcast groups. It knows
// nothing about rooms or presence; the event handler bound to the hub owns
// that.
package transport

import (
	"encoding/json"
	"log"
	"sync"
)

// EventHandler receives connection lifecycle and named events. The hub calls
// Connect after the connection is attached (so broadcasts already reach it)
// and Disconnect after it is detached (so broadcasts no longer do).
type EventHandler interface {
	Connect(connID string)
	Disconnect(connID string)
	HandleEvent(connID, event string, data json.RawMessage)
}

// Hub owns the set of live connections and their broadcast group membership.
// A single mutex serializes all membership mutations.
type Hub struct {
	mu      sync.RWMutex
	conns   map[string]*Conn
	groups  map[string]map[string]*Conn
	handler EventHandler
}

func NewHub() *Hub {
	return &Hub{
		conns:  make(map[string]*Conn),
		groups: make(map[string]map[string]*Conn),
	}
}

// Bind sets the event handler. Must be called before the hub accepts
// connections.
func (h *Hub) Bind(handler EventHandler) {
	h.handler = handler
}

func (h *Hub) attach(c *Conn) {
	h.mu.Lock()
	h.conns[c.id] = c
	h.mu.Unlock()
	incConnections()

	if h.handler != nil {
		h.handler.Connect(c.id)
	}
}

// Detach removes a connection from the hub and every group it joined, then
// notifies the handler. Safe to call more than once for the same connection.
func (h *Hub) Detach(c *Conn) {
	h.mu.Lock()
	if _, ok := h.conns[c.id]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.conns, c.id)
	for name, group := range h.groups {
		if _, ok := group[c.id]; ok {
			delete(group, c.id)
			if len(group) == 0 {
				delete(h.groups, name)
			}
		}
	}
	setGroups(len(h.groups))
	h.mu.Unlock()

	close(c.send)
	decConnections()

	if h.handler != nil {
		h.handler.Disconnect(c.id)
	}
}

// JoinGroup adds a connection to a named broadcast group, creating the group
// on first use. Unknown connections are ignored.
func (h *Hub) JoinGroup(connID, group string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.conns[connID]
	if !ok {
		return
	}
	members, ok := h.groups[group]
	if !ok {
		members = make(map[string]*Conn)
		h.groups[group] = members
		setGroups(len(h.groups))
	}
	members[connID] = c
}

// LeaveGroup removes a connection from a group. No-op when either is
// unknown.
func (h *Hub) LeaveGroup(connID, group string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.groups[group]
	if !ok {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(h.groups, group)
		setGroups(len(h.groups))
	}
}

// Emit sends one event to one connection.
func (h *Hub) Emit(connID, event string, payload any) {
	h.mu.RLock()
	c, ok := h.conns[connID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	if c.Emit(event, payload) {
		addDelivered(1)
	} else {
		// Eviction feeds back into the event handler; run it off the
		// caller's goroutine so a broadcast issued mid-event cannot
		// deadlock on the handler's own state.
		go h.evict(c)
	}
}

// BroadcastToGroup delivers an event to every connection in a group,
// including the sender when it is a member. Connections whose send buffer is
// full are evicted, matching how slow clients are shed elsewhere.
func (h *Hub) BroadcastToGroup(group, event string, payload any) {
	h.mu.RLock()
	targets := make([]*Conn, 0, len(h.groups[group]))
	for _, c := range h.groups[group] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	h.deliver(targets, event, payload)
}

// BroadcastToAll delivers an event to every live connection.
func (h *Hub) BroadcastToAll(event string, payload any) {
	h.mu.RLock()
	targets := make([]*Conn, 0, len(h.conns))
	for _, c := range h.conns {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	h.deliver(targets, event, payload)
}

func (h *Hub) deliver(targets []*Conn, event string, payload any) {
	frame, err := newFrame(event, payload)
	if err != nil {
		log.Printf("Dropping %q broadcast: %v", event, err)
		return
	}

	delivered := 0
	var stalled []*Conn
	for _, c := range targets {
		if c.push(frame) {
			delivered++
		} else {
			stalled = append(stalled, c)
		}
	}
	if delivered > 0 {
		addDelivered(delivered)
	}
	for _, c := range stalled {
		go h.evict(c)
	}
}

func (h *Hub) evict(c *Conn) {
	log.Printf("Client %s evicted: send buffer full", c.id)
	c.shutdown()
	h.Detach(c)
}

func (h *Hub) dispatch(c *Conn, frame *Frame) {
	if h.handler == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic handling %q from client %s: %v", frame.Event, c.id, r)
		}
	}()
	h.handler.HandleEvent(c.id, frame.Event, frame.Data)
}

// Groups returns the current group names, for the debug listing.
func (h *Hub) Groups() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	names := make([]string, 0, len(h.groups))
	for name := range h.groups {
		names = append(names, name)
	}
	return names
}

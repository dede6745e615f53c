// Package presence holds the authoritative in-memory view of which
// connections are online and which room each one occupies.
package presence

import "sync"

// Member is one connection's occupancy of a room. UserID falls back to the
// connection ID when the client never declared an identity.
type Member struct {
	SocketID string `json:"socketId"`
	UserID   string `json:"userId"`
}

// Registry tracks global presence and per-room membership. All methods are
// safe for concurrent use; every mutation happens under a single lock so
// concurrent joins and leaves on the same room never produce duplicates or
// lost updates.
type Registry struct {
	mu     sync.Mutex
	rooms  map[string][]Member
	global []string
}

func New() *Registry {
	return &Registry{
		rooms: make(map[string][]Member),
	}
}

// AddGlobal records a newly connected socket.
func (r *Registry) AddGlobal(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.global = append(r.global, connID)
}

// RemoveGlobal forgets a socket. Idempotent; removes every entry matching
// connID in case one slipped in twice.
func (r *Registry) RemoveGlobal(connID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.global[:0]
	for _, id := range r.global {
		if id != connID {
			kept = append(kept, id)
		}
	}
	r.global = kept
}

// Global returns the current process-wide presence list in connect order.
// At the global level there is no declared identity yet, so userId mirrors
// the socket ID.
func (r *Registry) Global() []Member {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Member, 0, len(r.global))
	for _, id := range r.global {
		out = append(out, Member{SocketID: id, UserID: id})
	}
	return out
}

// JoinRoom inserts or replaces the member for connID in room and returns a
// snapshot of the room's members. A replace keeps the member's original
// position so the join order stays stable across identity updates.
func (r *Registry) JoinRoom(room, connID, userID string) []Member {
	r.mu.Lock()
	defer r.mu.Unlock()

	members := r.rooms[room]
	replaced := false
	for i := range members {
		if members[i].SocketID == connID {
			members[i].UserID = userID
			replaced = true
			break
		}
	}
	if !replaced {
		members = append(members, Member{SocketID: connID, UserID: userID})
	}
	r.rooms[room] = members

	return snapshot(members)
}

// LeaveRoom removes connID from room. Idempotent; returns a snapshot of the
// remaining members, which may be empty.
func (r *Registry) LeaveRoom(room, connID string) []Member {
	r.mu.Lock()
	defer r.mu.Unlock()

	members := r.rooms[room]
	kept := members[:0]
	for _, m := range members {
		if m.SocketID != connID {
			kept = append(kept, m)
		}
	}
	r.rooms[room] = kept

	return snapshot(kept)
}

// Lookup resolves the member for connID in room, if any. Used to recover a
// sender's declared identity when a chat payload omits it.
func (r *Registry) Lookup(room, connID string) (Member, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.rooms[room] {
		if m.SocketID == connID {
			return m, true
		}
	}
	return Member{}, false
}

// Members returns a snapshot of a room's members in join order.
func (r *Registry) Members(room string) []Member {
	r.mu.Lock()
	defer r.mu.Unlock()
	return snapshot(r.rooms[room])
}

// Rooms lists the known room names, including rooms that have emptied out.
// Empty rooms are inert; they are kept only so the debug listing can show
// them.
func (r *Registry) Rooms() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.rooms))
	for name := range r.rooms {
		names = append(names, name)
	}
	return names
}

func snapshot(members []Member) []Member {
	out := make([]Member, len(members))
	copy(out, members)
	return out
}

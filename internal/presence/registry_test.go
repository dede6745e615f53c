package presence

import (
	"fmt"
	"sync"
	"testing"
)

func TestJoinRoomAppendsInJoinOrder(t *testing.T) {
	r := New()

	r.JoinRoom("lobby", "c1", "alice")
	r.JoinRoom("lobby", "c2", "bob")
	members := r.JoinRoom("lobby", "c3", "carol")

	if len(members) != 3 {
		t.Fatalf("expected 3 members, got %d", len(members))
	}
	want := []Member{
		{SocketID: "c1", UserID: "alice"},
		{SocketID: "c2", UserID: "bob"},
		{SocketID: "c3", UserID: "carol"},
	}
	for i, m := range members {
		if m != want[i] {
			t.Fatalf("member %d: got %+v, want %+v", i, m, want[i])
		}
	}
}

func TestJoinRoomReplacesInPlace(t *testing.T) {
	r := New()

	r.JoinRoom("lobby", "c1", "alice")
	r.JoinRoom("lobby", "c2", "bob")
	members := r.JoinRoom("lobby", "c1", "alice-renamed")

	if len(members) != 2 {
		t.Fatalf("re-join duplicated the member: %+v", members)
	}
	if members[0].SocketID != "c1" || members[0].UserID != "alice-renamed" {
		t.Fatalf("expected c1 first with updated identity, got %+v", members[0])
	}
	if members[1].SocketID != "c2" {
		t.Fatalf("expected c2 to keep second position, got %+v", members[1])
	}
}

func TestLeaveRoomIsIdempotent(t *testing.T) {
	r := New()

	r.JoinRoom("lobby", "c1", "alice")
	if members := r.LeaveRoom("lobby", "c1"); len(members) != 0 {
		t.Fatalf("expected empty room after leave, got %+v", members)
	}
	if members := r.LeaveRoom("lobby", "c1"); len(members) != 0 {
		t.Fatalf("second leave should be a no-op, got %+v", members)
	}
	if members := r.LeaveRoom("never-existed", "c1"); len(members) != 0 {
		t.Fatalf("leaving an unknown room should return empty, got %+v", members)
	}
}

func TestLookup(t *testing.T) {
	r := New()
	r.JoinRoom("lobby", "c1", "alice")

	m, ok := r.Lookup("lobby", "c1")
	if !ok || m.UserID != "alice" {
		t.Fatalf("expected alice, got %+v ok=%v", m, ok)
	}
	if _, ok := r.Lookup("lobby", "c2"); ok {
		t.Fatal("lookup of absent member should miss")
	}
	if _, ok := r.Lookup("other", "c1"); ok {
		t.Fatal("lookup in another room should miss")
	}
}

func TestGlobalPresenceLifecycle(t *testing.T) {
	r := New()

	r.AddGlobal("c1")
	r.AddGlobal("c2")

	global := r.Global()
	if len(global) != 2 || global[0].SocketID != "c1" || global[1].SocketID != "c2" {
		t.Fatalf("unexpected global presence: %+v", global)
	}
	if global[0].UserID != "c1" {
		t.Fatalf("global userId should mirror socket id, got %+v", global[0])
	}

	r.RemoveGlobal("c1")
	r.RemoveGlobal("c1")

	global = r.Global()
	if len(global) != 1 || global[0].SocketID != "c2" {
		t.Fatalf("expected only c2 after remove, got %+v", global)
	}
}

func TestSnapshotsAreIsolated(t *testing.T) {
	r := New()
	r.JoinRoom("lobby", "c1", "alice")

	members := r.Members("lobby")
	members[0].UserID = "mutated"

	if m, _ := r.Lookup("lobby", "c1"); m.UserID != "alice" {
		t.Fatalf("registry state leaked through snapshot: %+v", m)
	}
}

func TestConcurrentJoinsFromSameConnection(t *testing.T) {
	r := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			r.JoinRoom("lobby", "c1", fmt.Sprintf("identity-%d", n))
		}(i)
	}
	wg.Wait()

	members := r.Members("lobby")
	if len(members) != 1 {
		t.Fatalf("concurrent joins produced %d entries for one connection", len(members))
	}
}

func TestConcurrentJoinLeaveAcrossConnections(t *testing.T) {
	r := New()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("c%d", n)
			r.AddGlobal(id)
			r.JoinRoom("lobby", id, id)
			if n%2 == 0 {
				r.LeaveRoom("lobby", id)
				r.RemoveGlobal(id)
			}
		}(i)
	}
	wg.Wait()

	members := r.Members("lobby")
	if len(members) != 10 {
		t.Fatalf("expected 10 remaining members, got %d", len(members))
	}
	seen := make(map[string]bool)
	for _, m := range members {
		if seen[m.SocketID] {
			t.Fatalf("duplicate member %q in room", m.SocketID)
		}
		seen[m.SocketID] = true
	}
	if got := len(r.Global()); got != 10 {
		t.Fatalf("expected 10 global entries, got %d", got)
	}
}

package endpoints

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"presence-relay-backend/internal/api"
	"presence-relay-backend/internal/presence"
	"presence-relay-backend/internal/queue"
)

// Each test server needs a distinct listen address: the metrics collectors
// carry it as a constant label and re-registering an identical collector
// panics.
func newTestServer(addr string, registry *presence.Registry) *api.APIServer {
	queueManager := queue.NewRequestQueueManager(4, 1)
	return api.NewAPIServer(addr, queueManager, registry, nil, []string{"*"})
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(":health-test", presence.New())
	handler := server.MakeHTTPHandleFunc(NewUtilsEndpoints().Health)

	req := httptest.NewRequest(http.MethodGet, "/api/relay/v1/health", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRoomsEndpointListsMembership(t *testing.T) {
	registry := presence.New()
	registry.JoinRoom("lobby", "c1", "alice")
	registry.JoinRoom("lobby", "c2", "bob")
	registry.JoinRoom("attic", "c3", "carol")

	server := newTestServer(":rooms-test", registry)
	relayEndpoints := NewRelayEndpoints(server.Registry(), nil)
	handler := server.MakeHTTPHandleFunc(relayEndpoints.Rooms)

	req := httptest.NewRequest(http.MethodGet, "/api/relay/v1/rooms", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var rooms []RoomRes
	if err := json.NewDecoder(rec.Body).Decode(&rooms); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(rooms) != 2 {
		t.Fatalf("expected 2 rooms, got %+v", rooms)
	}
	if rooms[0].Name != "attic" || rooms[1].Name != "lobby" {
		t.Fatalf("rooms should be sorted by name, got %+v", rooms)
	}
	if len(rooms[1].Members) != 2 || rooms[1].Members[0].UserID != "alice" {
		t.Fatalf("lobby members wrong: %+v", rooms[1].Members)
	}
}

func TestRoomsEndpointRejectsPost(t *testing.T) {
	server := newTestServer(":rooms-post-test", presence.New())
	relayEndpoints := NewRelayEndpoints(server.Registry(), nil)
	handler := server.MakeHTTPHandleFunc(relayEndpoints.Rooms)

	req := httptest.NewRequest(http.MethodPost, "/api/relay/v1/rooms", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

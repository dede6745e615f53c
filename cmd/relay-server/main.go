package main

import (
	"log"
	"strings"

	"presence-relay-backend/internal/api"
	"presence-relay-backend/internal/api/router"
	"presence-relay-backend/internal/env"
	"presence-relay-backend/internal/mirror"
	"presence-relay-backend/internal/presence"
	"presence-relay-backend/internal/queue"
	"presence-relay-backend/internal/relay"
	"presence-relay-backend/internal/transport"
)

func main() {
	queueManager := queue.NewRequestQueueManager(10, 10)

	allowedOrigins := parseOrigins(env.Get(env.AllowedOrigins))

	registry := presence.New()
	hub := transport.NewHub()

	var chatMirror relay.Mirror
	if addr := env.Get(env.ChatRedisURL); addr != "" {
		chatMirror = mirror.NewRedisMirror(addr, env.Get(env.ChatRedisPass))
		log.Printf("Chat mirror enabled, publishing to redis at %s", addr)
	}

	hub.Bind(relay.NewRouter(registry, hub, chatMirror))
	ws := transport.NewServer(hub, allowedOrigins)

	server := api.NewAPIServer(
		listenAddr(env.GetOrDefault(env.RelayPort, ":8080")),
		queueManager,
		registry,
		ws,
		allowedOrigins,
		router.UtilsRoutes("/api/relay/v1"),
		router.RelayRoutes("/api/relay/v1"),
	)

	server.Run()
}

// listenAddr accepts either ":8080" or a bare port number.
func listenAddr(port string) string {
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

// parseOrigins splits the comma-separated ALLOWED_ORIGINS list. Empty means
// allow all, matching the websocket upgrader's default.
func parseOrigins(raw string) []string {
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

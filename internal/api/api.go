package api

import (
	"fmt"
	"net/http"

	"presence-relay-backend/internal/presence"
	"presence-relay-backend/internal/queue"
	"presence-relay-backend/internal/transport"

	"github.com/prometheus/client_golang/prometheus"
)

type RouteRegistrar func(mux *http.ServeMux, s *APIServer)

type APIServer struct {
	listenAddr          string
	requestQueueManager *queue.RequestQueueManager
	registry            *presence.Registry
	ws                  *transport.Server
	allowedOrigins      []string
	routeRegistrars     []RouteRegistrar
	metrics             *metrics
}

func NewAPIServer(
	listenAddr string,
	rqm *queue.RequestQueueManager,
	registry *presence.Registry,
	ws *transport.Server,
	allowedOrigins []string,
	registrars ...RouteRegistrar,
) *APIServer {
	return &APIServer{
		listenAddr:          listenAddr,
		requestQueueManager: rqm,
		registry:            registry,
		ws:                  ws,
		allowedOrigins:      allowedOrigins,
		routeRegistrars:     registrars,
		metrics:             newMetrics(prometheus.DefaultRegisterer, listenAddr, rqm),
	}
}

func (s *APIServer) Run() {
	mux := http.NewServeMux()

	for _, reg := range s.routeRegistrars {
		reg(mux, s)
	}

	mux.Handle("/metrics", s.metrics.metricsHandler())

	fmt.Printf("Server listening on http://localhost%s\n", s.listenAddr)

	if err := http.ListenAndServe(s.listenAddr, s.metrics.instrument(mux)); err != nil {
		fmt.Printf("server stopped: %v\n", err)
	}
}

func (s *APIServer) Registry() *presence.Registry {
	return s.registry
}

func (s *APIServer) Websocket() *transport.Server {
	return s.ws
}

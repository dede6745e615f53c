package router

import (
	"net/http"

	"presence-relay-backend/internal/api"
	"presence-relay-backend/internal/api/endpoints"
)

func RelayRoutes(prefix string) api.RouteRegistrar {
	return func(mux *http.ServeMux, s *api.APIServer) {
		relayEndpoints := endpoints.NewRelayEndpoints(s.Registry(), s.Websocket())

		mux.HandleFunc("/ws", s.MakeHTTPHandleFunc(relayEndpoints.Websocket))
		mux.HandleFunc(prefix+"/rooms", s.MakeHTTPHandleFunc(relayEndpoints.Rooms))
	}
}

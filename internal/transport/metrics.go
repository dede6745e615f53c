package transport

import "github.com/prometheus/client_golang/prometheus"

var (
	wsConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_ws_connections",
			Help: "Current number of active websocket connections.",
		},
	)
	wsGroups = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "relay_ws_groups",
			Help: "Current number of active broadcast groups.",
		},
	)
	wsFramesDelivered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_ws_frames_delivered_total",
			Help: "Total websocket frames delivered to clients.",
		},
	)
)

func init() {
	prometheus.MustRegister(wsConnections, wsGroups, wsFramesDelivered)
}

func incConnections() {
	wsConnections.Inc()
}

func decConnections() {
	wsConnections.Dec()
}

func setGroups(count int) {
	wsGroups.Set(float64(count))
}

func addDelivered(count int) {
	wsFramesDelivered.Add(float64(count))
}

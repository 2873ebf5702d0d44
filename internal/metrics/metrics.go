package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Transport metrics
	ConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "huddle_connections_active",
			Help: "Currently open signaling connections",
		},
	)

	RoomsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "huddle_rooms_active",
			Help: "Rooms with at least one member",
		},
	)

	// Protocol metrics
	EventsRelayed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "huddle_events_relayed_total",
			Help: "Negotiation payloads fanned out to peers",
		},
		[]string{"type"}, // "offer", "answer" or "ice-candidate"
	)

	JoinRequests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "huddle_join_requests_total",
			Help: "Guests that entered the approval flow",
		},
	)

	HostPromotions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "huddle_host_promotions_total",
			Help: "Hosts promoted after the previous host left",
		},
	)

	// Bridge metrics
	DialRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "huddle_dial_requests_total",
			Help: "Outgoing PSTN dial attempts",
		},
		[]string{"status"}, // "accepted" or "failed"
	)
)

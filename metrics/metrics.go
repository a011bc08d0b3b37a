package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Join results recorded by JoinsTotal.
const (
	JoinAdmitted   = "admitted"
	JoinBadRequest = "bad_request"
	JoinNotFound   = "room_not_found"
	JoinNameTaken  = "name_taken"
)

// Removal reasons recorded by RemovalsTotal.
const (
	RemovalLeave      = "leave"
	RemovalDisconnect = "disconnect"
	RemovalSwitch     = "switch"
	RemovalEvicted    = "evicted"
)

var (
	// Connection metrics
	Connections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pokervitoria_ws_connections",
			Help: "Currently connected realtime clients",
		},
	)

	// Registry metrics
	Rooms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pokervitoria_rooms",
			Help: "Rooms currently held in the registry",
		},
	)

	JoinsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokervitoria_joins_total",
			Help: "Realtime join intents by result",
		},
		[]string{"result"},
	)

	RemovalsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokervitoria_member_removals_total",
			Help: "Realtime membership removals by reason",
		},
		[]string{"reason"},
	)

	// Broadcast metrics
	SnapshotsPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pokervitoria_snapshots_published_total",
			Help: "Room member snapshots broadcast to a room group",
		},
	)

	FramesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pokervitoria_frames_dropped_total",
			Help: "Outbound frames dropped because a client queue was full",
		},
	)
)

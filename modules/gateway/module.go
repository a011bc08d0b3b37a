package gateway

import (
	"context"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"

	"github.com/jstihl01/pokervitoria/modules/broadcast"
	"github.com/jstihl01/pokervitoria/modules/room"
)

// Module owns the realtime gateway and tears down bindings of deleted rooms.
type Module struct {
	gateway *Gateway
	logger  types.Logger
}

// Compile-time interface checks
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new gateway module.
func NewModule(membership Membership, hub *broadcast.Hub, snapshots Snapshots, logger types.Logger) *Module {
	return &Module{
		gateway: New(membership, hub, snapshots, logger),
		logger:  logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "gateway"
}

// Notifier returns the membership observer that evicts the connections of a
// deleted room in the same call that deletes it, so no binding outlives its
// room. Only deletions are observed: admits and removals happen while the
// gateway lock is held.
func (m *Module) Notifier() room.Notifier {
	return room.NotifierFuncs{
		OnRoomDeleted: func(roomID string) {
			m.gateway.EvictRoom(roomID)
		},
	}
}

// Start initializes the module.
func (m *Module) Start(_ context.Context) error {
	m.logger.Info("Gateway module started")
	return nil
}

// Stop gracefully shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Gateway module stopped", "boundSessions", m.gateway.BoundCount())
	return nil
}

// Health reports the number of bound sessions.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"bound_sessions": m.gateway.BoundCount(),
		},
	}
}

// Gateway returns the realtime gateway.
func (m *Module) Gateway() *Gateway {
	return m.gateway
}

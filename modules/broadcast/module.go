package broadcast

import (
	"context"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

// BroadcastModule owns the connection hub and the snapshot publisher.
type BroadcastModule struct {
	hub       *Hub
	publisher *Publisher
	logger    types.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*BroadcastModule)(nil)
var _ mono.HealthCheckableModule = (*BroadcastModule)(nil)

// NewModule creates a new BroadcastModule publishing snapshots from source.
func NewModule(source SnapshotSource, queueSize int, logger types.Logger) *BroadcastModule {
	hub := NewHub(queueSize, logger)
	return &BroadcastModule{
		hub:       hub,
		publisher: NewPublisher(source, hub, logger),
		logger:    logger,
	}
}

// Name returns the module name.
func (m *BroadcastModule) Name() string {
	return "broadcast"
}

// Start initializes the module.
func (m *BroadcastModule) Start(_ context.Context) error {
	m.logger.Info("Broadcast module started", "queueSize", m.hub.queueSize)
	return nil
}

// Stop closes every client queue, which ends the connection writers.
func (m *BroadcastModule) Stop(_ context.Context) error {
	clientCount := m.hub.ClientCount()
	m.hub.Close()
	m.logger.Info("Broadcast module stopped", "clients", clientCount)
	return nil
}

// Health returns the health status.
func (m *BroadcastModule) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"connected_clients": m.hub.ClientCount(),
		},
	}
}

// Hub returns the connection hub.
func (m *BroadcastModule) Hub() *Hub {
	return m.hub
}

// Publisher returns the snapshot publisher.
func (m *BroadcastModule) Publisher() *Publisher {
	return m.publisher
}

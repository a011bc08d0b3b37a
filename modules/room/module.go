package room

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"

	domain "github.com/jstihl01/pokervitoria/domain/room"
	"github.com/jstihl01/pokervitoria/events"
	"github.com/jstihl01/pokervitoria/metrics"
)

// Module owns the room registry and exposes membership operations as
// request-reply services. Committed mutations are published as room events.
type Module struct {
	membership   *Membership
	eventBus     mono.EventBus
	observers    Notifiers
	defaultRooms []string
	logger       types.Logger
}

// Compile-time interface checks
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.EventBusAwareModule   = (*Module)(nil)
	_ mono.EventEmitterModule    = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
	_ Notifier                   = (*Module)(nil)
)

// NewModule creates a new room module. defaultRooms are created on Start.
func NewModule(defaultRooms []string, logger types.Logger) *Module {
	m := &Module{
		defaultRooms: defaultRooms,
		logger:       logger,
	}
	m.membership = NewMembership(NewRegistry(), m)
	return m
}

// Name returns the module name.
func (m *Module) Name() string {
	return "room"
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.RoomCreatedV1.ToBase(),
		events.RoomDeletedV1.ToBase(),
		events.PlayerJoinedV1.ToBase(),
		events.PlayerLeftV1.ToBase(),
	}
}

// RegisterServices registers the room request-reply services.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceCreateRoom, json.Unmarshal, json.Marshal, m.createRoom,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceCreateRoom, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceGetRoom, json.Unmarshal, json.Marshal, m.getRoom,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceGetRoom, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceDeleteRoom, json.Unmarshal, json.Marshal, m.deleteRoom,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceDeleteRoom, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceListRooms, json.Unmarshal, json.Marshal, m.listRooms,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceListRooms, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceAddPlayer, json.Unmarshal, json.Marshal, m.addPlayer,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceAddPlayer, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceListPlayers, json.Unmarshal, json.Marshal, m.listPlayers,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceListPlayers, err)
	}

	m.logger.Info("Registered room services",
		"services", []string{
			ServiceCreateRoom, ServiceGetRoom, ServiceDeleteRoom,
			ServiceListRooms, ServiceAddPlayer, ServiceListPlayers,
		})
	return nil
}

// Start seeds the configured default rooms.
func (m *Module) Start(_ context.Context) error {
	if m.eventBus == nil {
		m.logger.Warn("EventBus not set, room events will not be published")
	}
	for _, name := range m.defaultRooms {
		room, err := m.membership.CreateRoom(name)
		if err != nil {
			return fmt.Errorf("failed to create default room %q: %w", name, err)
		}
		m.logger.Info("Created default room", "roomID", room.ID, "name", room.Name)
	}
	m.logger.Info("Room module started", "rooms", m.membership.Registry().Len())
	return nil
}

// Stop gracefully shuts down the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Room module stopped")
	return nil
}

// Health reports the number of rooms held in the registry.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"rooms": m.membership.Registry().Len(),
		},
	}
}

// AddNotifier registers an in-process observer of committed mutations.
// Observers run synchronously, before the matching event is published.
// It must be called before the application starts.
func (m *Module) AddNotifier(n Notifier) {
	m.observers = append(m.observers, n)
}

// Membership returns the membership service used by realtime collaborators.
func (m *Module) Membership() *Membership {
	return m.membership
}

// RoomCreated implements Notifier.
func (m *Module) RoomCreated(room domain.Room) {
	metrics.Rooms.Inc()
	m.logger.Info("Room created", "roomID", room.ID, "name", room.Name)
	m.observers.RoomCreated(room)
	m.publish("RoomCreated", func(bus mono.EventBus) error {
		return events.RoomCreatedV1.Publish(bus, events.RoomCreatedEvent{
			RoomID:    room.ID,
			RoomName:  room.Name,
			Timestamp: room.CreatedAt,
		}, nil)
	})
}

// RoomDeleted implements Notifier.
func (m *Module) RoomDeleted(roomID string) {
	metrics.Rooms.Dec()
	m.logger.Info("Room deleted", "roomID", roomID)
	m.observers.RoomDeleted(roomID)
	m.publish("RoomDeleted", func(bus mono.EventBus) error {
		return events.RoomDeletedV1.Publish(bus, events.RoomDeletedEvent{
			RoomID:    roomID,
			Timestamp: time.Now(),
		}, nil)
	})
}

// PlayerJoined implements Notifier.
func (m *Module) PlayerJoined(roomID string, player domain.Participant) {
	m.logger.Info("Player joined", "roomID", roomID, "playerID", player.ID, "name", player.Name)
	m.observers.PlayerJoined(roomID, player)
	m.publish("PlayerJoined", func(bus mono.EventBus) error {
		return events.PlayerJoinedV1.Publish(bus, events.PlayerJoinedEvent{
			RoomID:     roomID,
			PlayerID:   player.ID,
			PlayerName: player.Name,
			Timestamp:  player.JoinedAt,
		}, nil)
	})
}

// PlayerLeft implements Notifier.
func (m *Module) PlayerLeft(roomID, playerID string) {
	m.logger.Info("Player left", "roomID", roomID, "playerID", playerID)
	m.observers.PlayerLeft(roomID, playerID)
	m.publish("PlayerLeft", func(bus mono.EventBus) error {
		return events.PlayerLeftV1.Publish(bus, events.PlayerLeftEvent{
			RoomID:    roomID,
			PlayerID:  playerID,
			Timestamp: time.Now(),
		}, nil)
	})
}

// publish runs fn against the event bus. Publishing is best-effort and
// never fails the mutation that triggered it.
func (m *Module) publish(event string, fn func(bus mono.EventBus) error) {
	if m.eventBus == nil {
		return
	}
	if err := fn(m.eventBus); err != nil {
		m.logger.Warn("Failed to publish event", "event", event, "error", err)
	}
}

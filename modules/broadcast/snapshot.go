package broadcast

import (
	"github.com/go-monolith/mono/pkg/types"

	domain "github.com/jstihl01/pokervitoria/domain/room"
	"github.com/jstihl01/pokervitoria/metrics"
)

// EventPlayers is the broadcast event carrying a room's full member list.
const EventPlayers = "room:players"

// PlayersPayload is the data of a room:players frame.
type PlayersPayload struct {
	RoomID  string          `json:"roomId"`
	Players []domain.Member `json:"players"`
}

// SnapshotSource provides the current ordered member list of a room.
type SnapshotSource interface {
	Members(roomID string) ([]domain.Member, error)
}

// Publisher sends full member snapshots to a room's broadcast group.
type Publisher struct {
	source SnapshotSource
	hub    *Hub
	logger types.Logger
}

// NewPublisher creates a snapshot publisher.
func NewPublisher(source SnapshotSource, hub *Hub, logger types.Logger) *Publisher {
	return &Publisher{
		source: source,
		hub:    hub,
		logger: logger,
	}
}

// Publish broadcasts the current member list of roomID to every client in
// its broadcast group. Nothing is sent for an unknown room.
func (p *Publisher) Publish(roomID string) bool {
	members, err := p.source.Members(roomID)
	if err != nil {
		p.logger.Debug("Skipping snapshot", "roomID", roomID, "error", err)
		return false
	}
	if members == nil {
		members = make([]domain.Member, 0)
	}

	delivered := p.hub.Broadcast(roomID, Envelope{
		Event: EventPlayers,
		Data: PlayersPayload{
			RoomID:  roomID,
			Players: members,
		},
	})
	metrics.SnapshotsPublished.Inc()
	p.logger.Debug("Published room snapshot",
		"roomID", roomID,
		"players", len(members),
		"clients", delivered)
	return true
}

package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-monolith/mono/pkg/types"

	domain "github.com/jstihl01/pokervitoria/domain/room"
	"github.com/jstihl01/pokervitoria/metrics"
	"github.com/jstihl01/pokervitoria/modules/broadcast"
	"github.com/jstihl01/pokervitoria/modules/room"
	"github.com/jstihl01/pokervitoria/modules/session"
)

// Membership is the subset of the membership service the gateway drives.
type Membership interface {
	Admit(roomID, rawName string) (domain.Participant, error)
	Remove(roomID, participantID string) bool
}

// Snapshots publishes a room's member list to its broadcast group.
type Snapshots interface {
	Publish(roomID string) bool
}

// OutcomeKind tags the result of a gateway transition.
type OutcomeKind int

const (
	OutcomeJoined OutcomeKind = iota + 1
	OutcomeLeft
	OutcomeRejected
	OutcomeIgnored
	OutcomeDisconnected
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeJoined:
		return "joined"
	case OutcomeLeft:
		return "left"
	case OutcomeRejected:
		return "rejected"
	case OutcomeIgnored:
		return "ignored"
	case OutcomeDisconnected:
		return "disconnected"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome is the result of a gateway transition.
type Outcome struct {
	Kind OutcomeKind
	// RoomID is the room the transition applied to, if any.
	RoomID string
	// Player is set for OutcomeJoined.
	Player domain.Member
	// Err is set for OutcomeRejected and OutcomeIgnored.
	Err error
}

// Gateway is the per-connection Idle/InRoom state machine. All transitions are
// serialized so a transition, including its broadcasts and binding changes,
// completes before the next one starts.
type Gateway struct {
	mu         sync.Mutex
	membership Membership
	bindings   *session.Bindings
	hub        *broadcast.Hub
	snapshots  Snapshots
	logger     types.Logger
}

// New creates a Gateway.
func New(membership Membership, hub *broadcast.Hub, snapshots Snapshots, logger types.Logger) *Gateway {
	return &Gateway{
		membership: membership,
		bindings:   session.NewBindings(),
		hub:        hub,
		snapshots:  snapshots,
		logger:     logger,
	}
}

// Connect registers a new connection in the Idle state and returns its
// outbound queue.
func (g *Gateway) Connect(connID string) *broadcast.Client {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.logger.Debug("Connection opened", "connID", connID)
	return g.hub.Register(connID)
}

// Dispatch applies an inbound intent for connID.
func (g *Gateway) Dispatch(connID, event string, payload json.RawMessage) Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch event {
	case EventJoin:
		return g.join(connID, payload)
	case EventLeave:
		return g.leave(connID)
	default:
		return g.reject(connID, "", fmt.Errorf("%w: unknown event %q", ErrBadRequest, event))
	}
}

// Reject sends a private error frame for a frame that could not be decoded.
func (g *Gateway) Reject(connID string, err error) Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.reject(connID, "", fmt.Errorf("%w: %v", ErrBadRequest, err))
}

// Disconnect tears down connID. A bound connection is removed from its room
// and the remaining members receive a snapshot; no private frame is sent.
// Repeated calls are a no-op.
func (g *Gateway) Disconnect(connID string) Outcome {
	g.mu.Lock()
	defer g.mu.Unlock()

	binding, bound := g.bindings.Unbind(connID)
	g.hub.Unregister(connID)

	if !bound {
		g.logger.Debug("Connection closed", "connID", connID)
		return Outcome{Kind: OutcomeDisconnected}
	}

	if g.membership.Remove(binding.RoomID, binding.ParticipantID) {
		metrics.RemovalsTotal.WithLabelValues(metrics.RemovalDisconnect).Inc()
	}
	g.snapshots.Publish(binding.RoomID)
	g.logger.Info("Connection closed while in room",
		"connID", connID,
		"roomID", binding.RoomID,
		"playerID", binding.ParticipantID)
	return Outcome{Kind: OutcomeDisconnected, RoomID: binding.RoomID}
}

// EvictRoom unbinds every connection bound to a deleted room and sends each a
// private room:left. It returns the number of connections evicted.
func (g *Gateway) EvictRoom(roomID string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	evicted := g.bindings.UnbindRoom(roomID)
	for connID := range evicted {
		g.hub.LeaveRoom(connID)
		g.hub.Send(connID, broadcast.Envelope{Event: EventLeft, Data: LeftPayload{RoomID: roomID}})
		metrics.RemovalsTotal.WithLabelValues(metrics.RemovalEvicted).Inc()
	}
	if len(evicted) > 0 {
		g.logger.Info("Evicted connections from deleted room", "roomID", roomID, "connections", len(evicted))
	}
	return len(evicted)
}

// State returns the binding of connID; false means the connection is Idle.
func (g *Gateway) State(connID string) (session.Binding, bool) {
	return g.bindings.Lookup(connID)
}

// BoundCount returns the number of connections in the InRoom state.
func (g *Gateway) BoundCount() int {
	return g.bindings.Len()
}

func (g *Gateway) join(connID string, payload json.RawMessage) Outcome {
	var req JoinPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		metrics.JoinsTotal.WithLabelValues(metrics.JoinBadRequest).Inc()
		return g.reject(connID, "", fmt.Errorf("%w: invalid join payload", ErrBadRequest))
	}
	roomID := strings.TrimSpace(req.RoomID)
	if roomID == "" {
		metrics.JoinsTotal.WithLabelValues(metrics.JoinBadRequest).Inc()
		return g.reject(connID, "", fmt.Errorf("%w: roomId is required", ErrBadRequest))
	}

	// Admit first so a failed join leaves any current membership untouched.
	player, err := g.membership.Admit(roomID, req.PlayerName)
	if err != nil {
		metrics.JoinsTotal.WithLabelValues(joinResult(err)).Inc()
		return g.reject(connID, roomID, err)
	}
	metrics.JoinsTotal.WithLabelValues(metrics.JoinAdmitted).Inc()

	prev, wasBound := g.bindings.Bind(connID, session.Binding{RoomID: roomID, ParticipantID: player.ID})
	g.hub.JoinRoom(connID, roomID)

	if wasBound {
		if g.membership.Remove(prev.RoomID, prev.ParticipantID) {
			metrics.RemovalsTotal.WithLabelValues(metrics.RemovalSwitch).Inc()
		}
		if prev.RoomID != roomID {
			g.snapshots.Publish(prev.RoomID)
		}
		g.logger.Info("Player switched rooms",
			"connID", connID,
			"fromRoomID", prev.RoomID,
			"toRoomID", roomID)
	}

	member := player.Member()
	g.hub.Send(connID, broadcast.Envelope{
		Event: EventJoined,
		Data:  JoinedPayload{RoomID: roomID, Player: member},
	})
	g.snapshots.Publish(roomID)

	g.logger.Info("Player joined room", "connID", connID, "roomID", roomID, "playerID", player.ID)
	return Outcome{Kind: OutcomeJoined, RoomID: roomID, Player: member}
}

func (g *Gateway) leave(connID string) Outcome {
	binding, ok := g.bindings.Unbind(connID)
	if !ok {
		return Outcome{Kind: OutcomeIgnored, Err: session.ErrNotBound}
	}

	if g.membership.Remove(binding.RoomID, binding.ParticipantID) {
		metrics.RemovalsTotal.WithLabelValues(metrics.RemovalLeave).Inc()
	}
	g.hub.LeaveRoom(connID)
	g.snapshots.Publish(binding.RoomID)
	g.hub.Send(connID, broadcast.Envelope{
		Event: EventLeft,
		Data:  LeftPayload{RoomID: binding.RoomID},
	})

	g.logger.Info("Player left room", "connID", connID, "roomID", binding.RoomID, "playerID", binding.ParticipantID)
	return Outcome{Kind: OutcomeLeft, RoomID: binding.RoomID}
}

func (g *Gateway) reject(connID, roomID string, err error) Outcome {
	g.hub.Send(connID, broadcast.Envelope{Event: EventError, Data: errorPayload(err)})
	g.logger.Debug("Rejected intent", "connID", connID, "roomID", roomID, "error", err)
	return Outcome{Kind: OutcomeRejected, RoomID: roomID, Err: err}
}

func joinResult(err error) string {
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		return metrics.JoinNotFound
	case errors.Is(err, room.ErrNameTaken):
		return metrics.JoinNameTaken
	default:
		return metrics.JoinBadRequest
	}
}

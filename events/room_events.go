package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// RoomCreatedEvent is emitted when a new room is created.
type RoomCreatedEvent struct {
	RoomID    string    `json:"room_id"`
	RoomName  string    `json:"room_name"`
	Timestamp time.Time `json:"timestamp"`
}

// RoomDeletedEvent is emitted when a room is deleted.
type RoomDeletedEvent struct {
	RoomID    string    `json:"room_id"`
	Timestamp time.Time `json:"timestamp"`
}

// PlayerJoinedEvent is emitted when a participant is admitted to a room.
type PlayerJoinedEvent struct {
	RoomID     string    `json:"room_id"`
	PlayerID   string    `json:"player_id"`
	PlayerName string    `json:"player_name"`
	Timestamp  time.Time `json:"timestamp"`
}

// PlayerLeftEvent is emitted when a participant is removed from a room.
type PlayerLeftEvent struct {
	RoomID    string    `json:"room_id"`
	PlayerID  string    `json:"player_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Event definitions for the room domain.
// Subjects: events.room.v1.<event-name>
var (
	RoomCreatedV1 = helper.EventDefinition[RoomCreatedEvent](
		"room",
		"RoomCreated",
		"v1",
	)

	RoomDeletedV1 = helper.EventDefinition[RoomDeletedEvent](
		"room",
		"RoomDeleted",
		"v1",
	)

	PlayerJoinedV1 = helper.EventDefinition[PlayerJoinedEvent](
		"room",
		"PlayerJoined",
		"v1",
	)

	PlayerLeftV1 = helper.EventDefinition[PlayerLeftEvent](
		"room",
		"PlayerLeft",
		"v1",
	)
)

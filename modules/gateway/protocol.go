package gateway

import (
	"errors"

	domain "github.com/jstihl01/pokervitoria/domain/room"
	"github.com/jstihl01/pokervitoria/modules/room"
)

// Realtime event names.
const (
	EventJoin   = "room:join"
	EventLeave  = "room:leave"
	EventJoined = "room:joined"
	EventLeft   = "room:left"
	EventError  = "error"
)

// Error reasons carried in error frames.
const (
	ReasonBadRequest   = "Bad Request"
	ReasonRoomNotFound = "Room not found"
	ReasonNameTaken    = "Name taken"
)

// ErrBadRequest is returned for malformed intents: unknown events, undecodable
// payloads or a missing room id.
var ErrBadRequest = errors.New("bad request")

// JoinPayload is the data of a room:join intent.
type JoinPayload struct {
	RoomID     string `json:"roomId"`
	PlayerName string `json:"playerName"`
}

// JoinedPayload is the data of a room:joined confirmation.
type JoinedPayload struct {
	RoomID string        `json:"roomId"`
	Player domain.Member `json:"player"`
}

// LeftPayload is the data of a room:left confirmation.
type LeftPayload struct {
	RoomID string `json:"roomId"`
}

// ErrorPayload is the data of an error frame.
type ErrorPayload struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// errorPayload maps a rejected intent to its wire reason.
func errorPayload(err error) ErrorPayload {
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		return ErrorPayload{Error: ReasonRoomNotFound}
	case errors.Is(err, room.ErrNameTaken):
		return ErrorPayload{Error: ReasonNameTaken}
	case errors.Is(err, room.ErrValidation), errors.Is(err, ErrBadRequest):
		return ErrorPayload{Error: ReasonBadRequest, Details: err.Error()}
	default:
		return ErrorPayload{Error: ReasonBadRequest}
	}
}

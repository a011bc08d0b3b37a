package room

import (
	"context"

	domain "github.com/jstihl01/pokervitoria/domain/room"
)

// Service names registered by the room module.
const (
	ServiceCreateRoom  = "create-room"
	ServiceGetRoom     = "get-room"
	ServiceDeleteRoom  = "delete-room"
	ServiceListRooms   = "list-rooms"
	ServiceAddPlayer   = "add-player"
	ServiceListPlayers = "list-players"
)

// Failure carries a domain error across the request-reply boundary.
// Error holds the code from ErrorCode, Message the error text.
type Failure struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Err rebuilds the domain error, or nil when the call succeeded.
func (f Failure) Err() error {
	return ErrorFromCode(f.Error, f.Message)
}

func failure(err error) Failure {
	return Failure{Error: ErrorCode(err), Message: err.Error()}
}

// CreateRoomRequest is the request for creating a room.
type CreateRoomRequest struct {
	Name string `json:"name"`
}

// RoomResponse is the response carrying a single room with its participants.
type RoomResponse struct {
	Failure
	Room *domain.Room `json:"room,omitempty"`
}

// GetRoomRequest is the request for getting a room.
type GetRoomRequest struct {
	RoomID string `json:"room_id"`
}

// DeleteRoomRequest is the request for deleting a room.
type DeleteRoomRequest struct {
	RoomID string `json:"room_id"`
}

// DeleteRoomResponse is the response for deleting a room.
type DeleteRoomResponse struct {
	Failure
	Deleted bool `json:"deleted"`
}

// ListRoomsRequest is the request for listing rooms.
type ListRoomsRequest struct{}

// ListRoomsResponse is the response for listing rooms.
type ListRoomsResponse struct {
	Rooms []domain.Summary `json:"rooms"`
	Total int              `json:"total"`
}

// AddPlayerRequest is the request for admitting a player to a room.
type AddPlayerRequest struct {
	RoomID string `json:"room_id"`
	Name   string `json:"name"`
}

// AddPlayerResponse is the response for admitting a player.
type AddPlayerResponse struct {
	Failure
	Room   *domain.Summary     `json:"room,omitempty"`
	Player *domain.Participant `json:"player,omitempty"`
}

// ListPlayersRequest is the request for listing a room's players.
type ListPlayersRequest struct {
	RoomID string `json:"room_id"`
}

// ListPlayersResponse is the response for listing a room's players.
type ListPlayersResponse struct {
	Failure
	Room    *domain.Summary      `json:"room,omitempty"`
	Players []domain.Participant `json:"players"`
}

// RoomPort defines the interface for room operations (hexagonal port).
// Driving adapters such as the HTTP API use it to reach the membership core.
type RoomPort interface {
	CreateRoom(ctx context.Context, name string) (domain.Room, error)
	GetRoom(ctx context.Context, roomID string) (domain.Room, error)
	DeleteRoom(ctx context.Context, roomID string) error
	ListRooms(ctx context.Context) ([]domain.Summary, error)
	AddPlayer(ctx context.Context, roomID, name string) (domain.Summary, domain.Participant, error)
	ListPlayers(ctx context.Context, roomID string) (domain.Summary, []domain.Participant, error)
}

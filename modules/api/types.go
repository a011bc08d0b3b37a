package api

import (
	"encoding/json"
	"time"

	domain "github.com/jstihl01/pokervitoria/domain/room"
)

// CreateRoomRequest is the API request to create a room.
type CreateRoomRequest struct {
	Name string `json:"name"`
}

// AddPlayerRequest is the API request to add a player to a room.
type AddPlayerRequest struct {
	Name string `json:"name"`
}

// PlayerResponse is the API response for a player.
type PlayerResponse struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	JoinedAt time.Time `json:"joined_at"`
}

// RoomResponse is the API response for a room with its players.
type RoomResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	CreatedAt time.Time        `json:"created_at"`
	Players   []PlayerResponse `json:"players"`
}

// RoomSummaryResponse is the API response for a room listing entry.
type RoomSummaryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	PlayerCount int       `json:"player_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// RoomListResponse is the API response for listing rooms.
type RoomListResponse struct {
	Rooms []RoomSummaryResponse `json:"rooms"`
	Total int                   `json:"total"`
}

// AddPlayerResponse is the API response for adding a player.
type AddPlayerResponse struct {
	Room   RoomSummaryResponse `json:"room"`
	Player PlayerResponse      `json:"player"`
}

// PlayerListResponse is the API response for listing a room's players.
type PlayerListResponse struct {
	Room    RoomSummaryResponse `json:"room"`
	Players []PlayerResponse    `json:"players"`
}

// ErrorResponse is the API error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse is the API health check response.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

// inboundFrame is a realtime frame received from a client.
type inboundFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func toPlayerResponse(p domain.Participant) PlayerResponse {
	return PlayerResponse{
		ID:       p.ID,
		Name:     p.Name,
		JoinedAt: p.JoinedAt,
	}
}

func toPlayerResponses(players []domain.Participant) []PlayerResponse {
	result := make([]PlayerResponse, 0, len(players))
	for _, p := range players {
		result = append(result, toPlayerResponse(p))
	}
	return result
}

func toRoomResponse(r domain.Room) RoomResponse {
	return RoomResponse{
		ID:        r.ID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
		Players:   toPlayerResponses(r.Participants),
	}
}

func toSummaryResponse(s domain.Summary) RoomSummaryResponse {
	return RoomSummaryResponse{
		ID:          s.ID,
		Name:        s.Name,
		PlayerCount: s.MemberCount,
		CreatedAt:   s.CreatedAt,
	}
}

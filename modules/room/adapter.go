package room

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	domain "github.com/jstihl01/pokervitoria/domain/room"
)

// RoomAdapter implements RoomPort using the service container.
type RoomAdapter struct {
	container mono.ServiceContainer
}

var _ RoomPort = (*RoomAdapter)(nil)

// NewRoomAdapter creates a new RoomAdapter.
func NewRoomAdapter(container mono.ServiceContainer) RoomPort {
	if container == nil {
		panic("room: ServiceContainer is nil")
	}
	return &RoomAdapter{container: container}
}

// CreateRoom creates a new room.
func (a *RoomAdapter) CreateRoom(ctx context.Context, name string) (domain.Room, error) {
	req := CreateRoomRequest{Name: name}
	var resp RoomResponse
	if err := call(ctx, a.container, ServiceCreateRoom, &req, &resp); err != nil {
		return domain.Room{}, err
	}
	if err := resp.Err(); err != nil {
		return domain.Room{}, err
	}
	return derefRoom(resp.Room), nil
}

// GetRoom retrieves a room with its participants.
func (a *RoomAdapter) GetRoom(ctx context.Context, roomID string) (domain.Room, error) {
	req := GetRoomRequest{RoomID: roomID}
	var resp RoomResponse
	if err := call(ctx, a.container, ServiceGetRoom, &req, &resp); err != nil {
		return domain.Room{}, err
	}
	if err := resp.Err(); err != nil {
		return domain.Room{}, err
	}
	return derefRoom(resp.Room), nil
}

// DeleteRoom deletes a room.
func (a *RoomAdapter) DeleteRoom(ctx context.Context, roomID string) error {
	req := DeleteRoomRequest{RoomID: roomID}
	var resp DeleteRoomResponse
	if err := call(ctx, a.container, ServiceDeleteRoom, &req, &resp); err != nil {
		return err
	}
	return resp.Err()
}

// ListRooms returns summaries of all rooms.
func (a *RoomAdapter) ListRooms(ctx context.Context) ([]domain.Summary, error) {
	req := ListRoomsRequest{}
	var resp ListRoomsResponse
	if err := call(ctx, a.container, ServiceListRooms, &req, &resp); err != nil {
		return nil, err
	}
	if resp.Rooms == nil {
		resp.Rooms = make([]domain.Summary, 0)
	}
	return resp.Rooms, nil
}

// AddPlayer admits a player to a room.
func (a *RoomAdapter) AddPlayer(ctx context.Context, roomID, name string) (domain.Summary, domain.Participant, error) {
	req := AddPlayerRequest{RoomID: roomID, Name: name}
	var resp AddPlayerResponse
	if err := call(ctx, a.container, ServiceAddPlayer, &req, &resp); err != nil {
		return domain.Summary{}, domain.Participant{}, err
	}
	if err := resp.Err(); err != nil {
		return domain.Summary{}, domain.Participant{}, err
	}

	var summary domain.Summary
	if resp.Room != nil {
		summary = *resp.Room
	}
	var player domain.Participant
	if resp.Player != nil {
		player = *resp.Player
	}
	return summary, player, nil
}

// ListPlayers returns a room's summary and participants in join order.
func (a *RoomAdapter) ListPlayers(ctx context.Context, roomID string) (domain.Summary, []domain.Participant, error) {
	req := ListPlayersRequest{RoomID: roomID}
	var resp ListPlayersResponse
	if err := call(ctx, a.container, ServiceListPlayers, &req, &resp); err != nil {
		return domain.Summary{}, nil, err
	}
	if err := resp.Err(); err != nil {
		return domain.Summary{}, nil, err
	}

	var summary domain.Summary
	if resp.Room != nil {
		summary = *resp.Room
	}
	if resp.Players == nil {
		resp.Players = make([]domain.Participant, 0)
	}
	return summary, resp.Players, nil
}

func call[Req, Resp any](ctx context.Context, container mono.ServiceContainer, service string, req *Req, resp *Resp) error {
	if err := helper.CallRequestReplyService(
		ctx,
		container,
		service,
		json.Marshal,
		json.Unmarshal,
		req,
		resp,
	); err != nil {
		return fmt.Errorf("failed to call %s: %w", service, err)
	}
	return nil
}

func derefRoom(room *domain.Room) domain.Room {
	if room == nil {
		return domain.Room{Participants: make([]domain.Participant, 0)}
	}
	if room.Participants == nil {
		room.Participants = make([]domain.Participant, 0)
	}
	return *room
}

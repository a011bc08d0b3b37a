package room

import (
	"context"

	"github.com/go-monolith/mono"
)

// Domain failures are returned in the response Failure rather than as a
// handler error, so the adapter can rebuild the sentinel on the caller side.

// createRoom handles the create-room service request.
func (m *Module) createRoom(_ context.Context, req CreateRoomRequest, _ *mono.Msg) (RoomResponse, error) {
	room, err := m.membership.CreateRoom(req.Name)
	if err != nil {
		return RoomResponse{Failure: failure(err)}, nil
	}
	return RoomResponse{Room: &room}, nil
}

// getRoom handles the get-room service request.
func (m *Module) getRoom(_ context.Context, req GetRoomRequest, _ *mono.Msg) (RoomResponse, error) {
	room, err := m.membership.GetRoom(req.RoomID)
	if err != nil {
		return RoomResponse{Failure: failure(err)}, nil
	}
	return RoomResponse{Room: &room}, nil
}

// deleteRoom handles the delete-room service request.
func (m *Module) deleteRoom(_ context.Context, req DeleteRoomRequest, _ *mono.Msg) (DeleteRoomResponse, error) {
	if !m.membership.DeleteRoom(req.RoomID) {
		return DeleteRoomResponse{Failure: failure(ErrRoomNotFound)}, nil
	}
	return DeleteRoomResponse{Deleted: true}, nil
}

// listRooms handles the list-rooms service request.
func (m *Module) listRooms(_ context.Context, _ ListRoomsRequest, _ *mono.Msg) (ListRoomsResponse, error) {
	rooms := m.membership.ListRooms()
	return ListRoomsResponse{Rooms: rooms, Total: len(rooms)}, nil
}

// addPlayer handles the add-player service request.
// REST admits have no connection, so nothing is bound or broadcast.
func (m *Module) addPlayer(_ context.Context, req AddPlayerRequest, _ *mono.Msg) (AddPlayerResponse, error) {
	summary, player, err := m.membership.AdmitWithSummary(req.RoomID, req.Name)
	if err != nil {
		return AddPlayerResponse{Failure: failure(err)}, nil
	}
	return AddPlayerResponse{Room: &summary, Player: &player}, nil
}

// listPlayers handles the list-players service request.
func (m *Module) listPlayers(_ context.Context, req ListPlayersRequest, _ *mono.Msg) (ListPlayersResponse, error) {
	room, err := m.membership.GetRoom(req.RoomID)
	if err != nil {
		return ListPlayersResponse{Failure: failure(err)}, nil
	}
	summary := room.Summary()
	return ListPlayersResponse{Room: &summary, Players: room.Participants}, nil
}

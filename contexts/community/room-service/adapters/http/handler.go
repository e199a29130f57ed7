package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"shopsync/contexts/community/room-service/application"
	"shopsync/contexts/community/room-service/ports"
	httptransport "shopsync/contexts/community/room-service/transport/http"
)

type Handler struct {
	Rooms  application.Service
	Logger *slog.Logger
}

func (h Handler) CreateRoomHandler(ctx context.Context, userID string, req httptransport.CreateRoomRequest) (httptransport.RoomResponse, error) {
	room, err := h.Rooms.CreateRoom(ctx, req.Name, userID)
	if err != nil {
		return httptransport.RoomResponse{}, err
	}
	return mapRoom(room), nil
}

func (h Handler) JoinRoomHandler(ctx context.Context, userID string, req httptransport.JoinRoomRequest) (httptransport.RoomResponse, error) {
	room, err := h.Rooms.JoinRoom(ctx, req.Code, userID)
	if err != nil {
		return httptransport.RoomResponse{}, err
	}
	return mapRoom(room), nil
}

func (h Handler) LeaveRoomHandler(ctx context.Context, roomID string, userID string) (httptransport.RoomResponse, error) {
	room, err := h.Rooms.LeaveRoom(ctx, roomID, userID)
	if err != nil {
		return httptransport.RoomResponse{}, err
	}
	return mapRoom(room), nil
}

func (h Handler) GetRoomHandler(ctx context.Context, roomID string) (httptransport.RoomResponse, error) {
	room, err := h.Rooms.GetRoom(ctx, roomID)
	if err != nil {
		return httptransport.RoomResponse{}, err
	}
	return mapRoom(room), nil
}

func (h Handler) ListRoomsHandler(ctx context.Context, userID string) (httptransport.RoomListResponse, error) {
	rooms, err := h.Rooms.ListRoomsForUser(ctx, userID)
	if err != nil {
		return httptransport.RoomListResponse{}, err
	}
	items := make([]httptransport.RoomResponse, 0, len(rooms))
	for _, room := range rooms {
		items = append(items, mapRoom(room))
	}
	return httptransport.RoomListResponse{Items: items}, nil
}

func mapRoom(room ports.Room) httptransport.RoomResponse {
	return httptransport.RoomResponse{
		RoomID:         room.RoomID,
		Code:           room.Code,
		Name:           room.Name,
		CreatedBy:      room.CreatedBy,
		MemberIDs:      room.MemberIDs,
		MemberCount:    len(room.MemberIDs),
		CreatedAt:      room.CreatedAt.UTC().Format(time.RFC3339),
		LastActivityAt: room.LastActivityAt.UTC().Format(time.RFC3339),
	}
}

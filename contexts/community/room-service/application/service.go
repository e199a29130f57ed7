package application

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	domainerrors "shopsync/contexts/community/room-service/domain/errors"
	"shopsync/contexts/community/room-service/domain/roomcode"
	"shopsync/contexts/community/room-service/ports"
)

const (
	maxRoomNameLength = 80
	codeRetries       = 5
)

type Service struct {
	Repo   ports.Repository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// CreateRoom mints a room with a fresh invite code; the creator is the first
// member. Code collisions are retried a bounded number of times.
func (s Service) CreateRoom(ctx context.Context, name string, creatorID string) (ports.Room, error) {
	name = strings.TrimSpace(name)
	creatorID = strings.TrimSpace(creatorID)
	if name == "" || creatorID == "" || len(name) > maxRoomNameLength {
		return ports.Room{}, domainerrors.ErrInvalidRequest
	}

	roomID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.Room{}, err
	}
	now := s.now()

	for attempt := 0; attempt < codeRetries; attempt++ {
		code, err := roomcode.New()
		if err != nil {
			return ports.Room{}, err
		}
		if _, err := s.Repo.GetRoomByCode(ctx, code); err == nil {
			continue
		} else if !errors.Is(err, domainerrors.ErrRoomNotFound) {
			return ports.Room{}, err
		}

		room, err := s.Repo.CreateRoom(ctx, ports.Room{
			RoomID:         roomID,
			Code:           code,
			Name:           name,
			CreatedBy:      creatorID,
			MemberIDs:      []string{creatorID},
			CreatedAt:      now,
			LastActivityAt: now,
		})
		if err != nil {
			return ports.Room{}, err
		}
		ResolveLogger(s.Logger).Info("room created",
			"event", "room_created",
			"module", "community/room-service",
			"layer", "application",
			"room_id", room.RoomID,
			"room_code", room.Code,
		)
		return room, nil
	}
	return ports.Room{}, domainerrors.ErrCodeExhausted
}

// JoinRoom is idempotent per user: joining a room you are already in returns
// the room unchanged.
func (s Service) JoinRoom(ctx context.Context, code string, userID string) (ports.Room, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	userID = strings.TrimSpace(userID)
	if userID == "" || !roomcode.Valid(code) {
		return ports.Room{}, domainerrors.ErrInvalidRequest
	}
	room, err := s.Repo.GetRoomByCode(ctx, code)
	if err != nil {
		return ports.Room{}, err
	}
	if slices.Contains(room.MemberIDs, userID) {
		return room, nil
	}
	members := append(slices.Clone(room.MemberIDs), userID)
	joined, err := s.Repo.SaveMembers(ctx, room.RoomID, members, s.now())
	if err != nil {
		return ports.Room{}, err
	}
	ResolveLogger(s.Logger).Info("room member joined",
		"event", "room_member_joined",
		"module", "community/room-service",
		"layer", "application",
		"room_id", joined.RoomID,
		"user_id", userID,
	)
	return joined, nil
}

func (s Service) LeaveRoom(ctx context.Context, roomID string, userID string) (ports.Room, error) {
	roomID = strings.TrimSpace(roomID)
	userID = strings.TrimSpace(userID)
	if roomID == "" || userID == "" {
		return ports.Room{}, domainerrors.ErrInvalidRequest
	}
	room, err := s.Repo.GetRoom(ctx, roomID)
	if err != nil {
		return ports.Room{}, err
	}
	if !slices.Contains(room.MemberIDs, userID) {
		return room, nil
	}
	members := slices.DeleteFunc(slices.Clone(room.MemberIDs), func(id string) bool {
		return id == userID
	})
	return s.Repo.SaveMembers(ctx, roomID, members, s.now())
}

func (s Service) GetRoom(ctx context.Context, roomID string) (ports.Room, error) {
	if strings.TrimSpace(roomID) == "" {
		return ports.Room{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.GetRoom(ctx, strings.TrimSpace(roomID))
}

func (s Service) GetRoomByCode(ctx context.Context, code string) (ports.Room, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !roomcode.Valid(code) {
		return ports.Room{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.GetRoomByCode(ctx, code)
}

// ListRoomsForUser returns the user's rooms, most recently active first.
func (s Service) ListRoomsForUser(ctx context.Context, userID string) ([]ports.Room, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	return s.Repo.ListRoomsForUser(ctx, strings.TrimSpace(userID))
}

// TouchActivity bumps the room's last-activity timestamp. Chat and cart
// mutations call this so the room list sorts by recency.
func (s Service) TouchActivity(ctx context.Context, roomID string) error {
	if strings.TrimSpace(roomID) == "" {
		return domainerrors.ErrInvalidRequest
	}
	return s.Repo.TouchActivity(ctx, strings.TrimSpace(roomID), s.now())
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

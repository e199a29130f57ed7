package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	domainerrors "shopsync/contexts/community/room-service/domain/errors"
	"shopsync/contexts/community/room-service/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu     sync.RWMutex
	rooms  map[string]ports.Room
	byCode map[string]string
	now    func() time.Time
}

func NewStore() *Store {
	return &Store{
		rooms:  make(map[string]ports.Room),
		byCode: make(map[string]string),
	}
}

func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) CreateRoom(_ context.Context, room ports.Room) (ports.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(room.RoomID) == "" {
		room.RoomID = uuid.NewString()
	}
	room.MemberIDs = slices.Clone(room.MemberIDs)
	s.rooms[room.RoomID] = room
	s.byCode[room.Code] = room.RoomID
	return cloneRoom(room), nil
}

func (s *Store) GetRoom(_ context.Context, roomID string) (ports.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[strings.TrimSpace(roomID)]
	if !ok {
		return ports.Room{}, domainerrors.ErrRoomNotFound
	}
	return cloneRoom(room), nil
}

func (s *Store) GetRoomByCode(_ context.Context, code string) (ports.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	roomID, ok := s.byCode[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return ports.Room{}, domainerrors.ErrRoomNotFound
	}
	return cloneRoom(s.rooms[roomID]), nil
}

func (s *Store) SaveMembers(_ context.Context, roomID string, memberIDs []string, now time.Time) (ports.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[strings.TrimSpace(roomID)]
	if !ok {
		return ports.Room{}, domainerrors.ErrRoomNotFound
	}
	room.MemberIDs = slices.Clone(memberIDs)
	room.LastActivityAt = now.UTC()
	s.rooms[room.RoomID] = room
	return cloneRoom(room), nil
}

func (s *Store) ListRoomsForUser(_ context.Context, userID string) ([]ports.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ports.Room, 0)
	for _, room := range s.rooms {
		if slices.Contains(room.MemberIDs, userID) {
			items = append(items, cloneRoom(room))
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].LastActivityAt.Equal(items[j].LastActivityAt) {
			return items[i].RoomID < items[j].RoomID
		}
		return items[i].LastActivityAt.After(items[j].LastActivityAt)
	})
	return items, nil
}

func (s *Store) TouchActivity(_ context.Context, roomID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[strings.TrimSpace(roomID)]
	if !ok {
		return domainerrors.ErrRoomNotFound
	}
	room.LastActivityAt = now.UTC()
	s.rooms[room.RoomID] = room
	return nil
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.now != nil {
		return s.now()
	}
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func cloneRoom(room ports.Room) ports.Room {
	room.MemberIDs = slices.Clone(room.MemberIDs)
	return room
}

var _ ports.Repository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)

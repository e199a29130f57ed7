package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainerrors "shopsync/contexts/community/room-service/domain/errors"
	"shopsync/contexts/community/room-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreateRoom(ctx context.Context, room ports.Room) (ports.Room, error) {
	if strings.TrimSpace(room.RoomID) == "" {
		room.RoomID = uuid.NewString()
	}
	row, err := roomModelFromRoom(room)
	if err != nil {
		return ports.Room{}, r.logError("room_repo_encode_failed", err, "room_id", room.RoomID)
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		// The invite code carries a unique index; the service retries a
		// collision with a fresh code.
		if isUniqueViolation(err) {
			return ports.Room{}, domainerrors.ErrCodeExhausted
		}
		return ports.Room{}, r.logError("room_repo_create_failed", err, "room_id", room.RoomID)
	}
	return row.toRoom()
}

func (r *Repository) GetRoom(ctx context.Context, roomID string) (ports.Room, error) {
	var row roomModel
	err := r.db.WithContext(ctx).Where("id = ?", strings.TrimSpace(roomID)).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Room{}, domainerrors.ErrRoomNotFound
		}
		return ports.Room{}, r.logError("room_repo_get_failed", err, "room_id", strings.TrimSpace(roomID))
	}
	return row.toRoom()
}

func (r *Repository) GetRoomByCode(ctx context.Context, code string) (ports.Room, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	var row roomModel
	err := r.db.WithContext(ctx).Where("code = ?", normalized).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Room{}, domainerrors.ErrRoomNotFound
		}
		return ports.Room{}, r.logError("room_repo_get_by_code_failed", err, "room_code", normalized)
	}
	return row.toRoom()
}

func (r *Repository) SaveMembers(ctx context.Context, roomID string, memberIDs []string, now time.Time) (ports.Room, error) {
	members, err := encodeMembers(memberIDs)
	if err != nil {
		return ports.Room{}, r.logError("room_repo_encode_failed", err, "room_id", strings.TrimSpace(roomID))
	}

	result := r.db.WithContext(ctx).
		Model(&roomModel{}).
		Where("id = ?", strings.TrimSpace(roomID)).
		Updates(map[string]any{
			"member_ids":       members,
			"last_activity_at": now.UTC(),
		})
	if result.Error != nil {
		return ports.Room{}, r.logError("room_repo_save_members_failed", result.Error, "room_id", strings.TrimSpace(roomID))
	}
	if result.RowsAffected == 0 {
		return ports.Room{}, domainerrors.ErrRoomNotFound
	}
	return r.GetRoom(ctx, roomID)
}

func (r *Repository) ListRoomsForUser(ctx context.Context, userID string) ([]ports.Room, error) {
	var rows []roomModel
	err := r.db.WithContext(ctx).
		Where("member_ids @> ?", memberFilter(userID)).
		Order("last_activity_at DESC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, r.logError("room_repo_list_for_user_failed", err, "user_id", strings.TrimSpace(userID))
	}

	items := make([]ports.Room, 0, len(rows))
	for _, row := range rows {
		room, err := row.toRoom()
		if err != nil {
			return nil, r.logError("room_repo_decode_failed", err, "room_id", row.ID)
		}
		items = append(items, room)
	}
	return items, nil
}

func (r *Repository) TouchActivity(ctx context.Context, roomID string, now time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&roomModel{}).
		Where("id = ?", strings.TrimSpace(roomID)).
		Update("last_activity_at", now.UTC())
	if result.Error != nil {
		return r.logError("room_repo_touch_activity_failed", result.Error, "room_id", strings.TrimSpace(roomID))
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrRoomNotFound
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "community/room-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("room repository operation failed", fields...)
	return err
}

type roomModel struct {
	ID             string    `gorm:"column:id;primaryKey"`
	Code           string    `gorm:"column:code"`
	Name           string    `gorm:"column:name"`
	CreatedBy      string    `gorm:"column:created_by"`
	MemberIDs      []byte    `gorm:"column:member_ids"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	LastActivityAt time.Time `gorm:"column:last_activity_at"`
}

func (roomModel) TableName() string {
	return "rooms"
}

func roomModelFromRoom(room ports.Room) (roomModel, error) {
	members, err := encodeMembers(room.MemberIDs)
	if err != nil {
		return roomModel{}, err
	}
	row := roomModel{
		ID:             strings.TrimSpace(room.RoomID),
		Code:           strings.ToUpper(strings.TrimSpace(room.Code)),
		Name:           strings.TrimSpace(room.Name),
		CreatedBy:      strings.TrimSpace(room.CreatedBy),
		MemberIDs:      members,
		CreatedAt:      room.CreatedAt.UTC(),
		LastActivityAt: room.LastActivityAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.LastActivityAt.IsZero() {
		row.LastActivityAt = row.CreatedAt
	}
	return row, nil
}

func (m roomModel) toRoom() (ports.Room, error) {
	members, err := decodeMembers(m.MemberIDs)
	if err != nil {
		return ports.Room{}, err
	}
	return ports.Room{
		RoomID:         m.ID,
		Code:           m.Code,
		Name:           m.Name,
		CreatedBy:      m.CreatedBy,
		MemberIDs:      members,
		CreatedAt:      m.CreatedAt.UTC(),
		LastActivityAt: m.LastActivityAt.UTC(),
	}, nil
}

func encodeMembers(memberIDs []string) ([]byte, error) {
	if len(memberIDs) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(memberIDs)
}

func decodeMembers(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var memberIDs []string
	if err := json.Unmarshal(raw, &memberIDs); err != nil {
		return nil, err
	}
	if len(memberIDs) == 0 {
		return nil, nil
	}
	return memberIDs, nil
}

func memberFilter(userID string) []byte {
	raw, _ := json.Marshal([]string{strings.TrimSpace(userID)})
	return raw
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.Repository = (*Repository)(nil)

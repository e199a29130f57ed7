package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainerrors "shopsync/contexts/identity/user-service/domain/errors"
	"shopsync/contexts/identity/user-service/ports"

	"github.com/google/uuid"
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

func (r *Repository) CreateUser(ctx context.Context, user ports.User) (ports.User, error) {
	if strings.TrimSpace(user.UserID) == "" {
		user.UserID = uuid.NewString()
	}
	row := userModelFromUser(user)

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return ports.User{}, r.logError("user_repo_create_failed", err, "user_id", user.UserID)
	}
	return row.toUser(), nil
}

func (r *Repository) GetUser(ctx context.Context, userID string) (ports.User, error) {
	var row userModel
	err := r.db.WithContext(ctx).Where("id = ?", strings.TrimSpace(userID)).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.User{}, domainerrors.ErrUserNotFound
		}
		return ports.User{}, r.logError("user_repo_get_failed", err, "user_id", strings.TrimSpace(userID))
	}
	return row.toUser(), nil
}

func (r *Repository) UpdateDisplayName(ctx context.Context, userID string, displayName string, now time.Time) (ports.User, error) {
	result := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("id = ?", strings.TrimSpace(userID)).
		Updates(map[string]any{
			"display_name": strings.TrimSpace(displayName),
			"updated_at":   now.UTC(),
		})
	if result.Error != nil {
		return ports.User{}, r.logError("user_repo_update_display_name_failed", result.Error, "user_id", strings.TrimSpace(userID))
	}
	if result.RowsAffected == 0 {
		return ports.User{}, domainerrors.ErrUserNotFound
	}
	return r.GetUser(ctx, userID)
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "identity/user-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("user repository operation failed", fields...)
	return err
}

type userModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	DisplayName string    `gorm:"column:display_name"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string {
	return "users"
}

func userModelFromUser(user ports.User) userModel {
	row := userModel{
		ID:          strings.TrimSpace(user.UserID),
		DisplayName: strings.TrimSpace(user.DisplayName),
		CreatedAt:   user.CreatedAt.UTC(),
		UpdatedAt:   user.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m userModel) toUser() ports.User {
	return ports.User{
		UserID:      m.ID,
		DisplayName: m.DisplayName,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

var _ ports.Repository = (*Repository)(nil)

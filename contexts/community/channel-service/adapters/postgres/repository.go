package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainerrors "shopsync/contexts/community/channel-service/domain/errors"
	"shopsync/contexts/community/channel-service/ports"

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

func (r *Repository) CreateChannel(ctx context.Context, channel ports.Channel) (ports.Channel, error) {
	if strings.TrimSpace(channel.ChannelID) == "" {
		channel.ChannelID = uuid.NewString()
	}
	row, err := channelModelFromChannel(channel)
	if err != nil {
		return ports.Channel{}, r.logError("channel_repo_encode_failed", err, "channel_id", channel.ChannelID)
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		// name_key carries a unique index on lower(name).
		if isUniqueViolation(err) {
			return ports.Channel{}, domainerrors.ErrChannelExists
		}
		return ports.Channel{}, r.logError("channel_repo_create_failed", err, "channel_id", channel.ChannelID)
	}
	return row.toChannel()
}

func (r *Repository) GetChannel(ctx context.Context, channelID string) (ports.Channel, error) {
	var row channelModel
	err := r.db.WithContext(ctx).Where("id = ?", strings.TrimSpace(channelID)).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Channel{}, domainerrors.ErrChannelNotFound
		}
		return ports.Channel{}, r.logError("channel_repo_get_failed", err, "channel_id", strings.TrimSpace(channelID))
	}
	return row.toChannel()
}

func (r *Repository) SaveMembers(ctx context.Context, channelID string, memberIDs []string, now time.Time) (ports.Channel, error) {
	members, err := encodeMembers(memberIDs)
	if err != nil {
		return ports.Channel{}, r.logError("channel_repo_encode_failed", err, "channel_id", strings.TrimSpace(channelID))
	}

	result := r.db.WithContext(ctx).
		Model(&channelModel{}).
		Where("id = ?", strings.TrimSpace(channelID)).
		Updates(map[string]any{
			"member_ids": members,
			"updated_at": now.UTC(),
		})
	if result.Error != nil {
		return ports.Channel{}, r.logError("channel_repo_save_members_failed", result.Error, "channel_id", strings.TrimSpace(channelID))
	}
	if result.RowsAffected == 0 {
		return ports.Channel{}, domainerrors.ErrChannelNotFound
	}
	return r.GetChannel(ctx, channelID)
}

func (r *Repository) ListChannels(ctx context.Context, category string) ([]ports.Channel, error) {
	tx := r.db.WithContext(ctx).Model(&channelModel{})
	if strings.TrimSpace(category) != "" {
		tx = tx.Where("category = ?", strings.TrimSpace(category))
	}

	var rows []channelModel
	if err := tx.Order("jsonb_array_length(member_ids) DESC, name ASC").Find(&rows).Error; err != nil {
		return nil, r.logError("channel_repo_list_failed", err, "category", strings.TrimSpace(category))
	}

	items := make([]ports.Channel, 0, len(rows))
	for _, row := range rows {
		channel, err := row.toChannel()
		if err != nil {
			return nil, r.logError("channel_repo_decode_failed", err, "channel_id", row.ID)
		}
		items = append(items, channel)
	}
	return items, nil
}

func (r *Repository) BumpTrending(ctx context.Context, channelID string, now time.Time) (ports.Channel, error) {
	result := r.db.WithContext(ctx).
		Model(&channelModel{}).
		Where("id = ?", strings.TrimSpace(channelID)).
		Updates(map[string]any{
			"trending_count": gorm.Expr("trending_count + 1"),
			"updated_at":     now.UTC(),
		})
	if result.Error != nil {
		return ports.Channel{}, r.logError("channel_repo_bump_trending_failed", result.Error, "channel_id", strings.TrimSpace(channelID))
	}
	if result.RowsAffected == 0 {
		return ports.Channel{}, domainerrors.ErrChannelNotFound
	}
	return r.GetChannel(ctx, channelID)
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "community/channel-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("channel repository operation failed", fields...)
	return err
}

type channelModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	Name          string    `gorm:"column:name"`
	NameKey       string    `gorm:"column:name_key"`
	Logo          string    `gorm:"column:logo"`
	Category      string    `gorm:"column:category"`
	Description   string    `gorm:"column:description"`
	MemberIDs     []byte    `gorm:"column:member_ids"`
	TrendingCount int       `gorm:"column:trending_count"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (channelModel) TableName() string {
	return "brand_channels"
}

func channelModelFromChannel(channel ports.Channel) (channelModel, error) {
	members, err := encodeMembers(channel.MemberIDs)
	if err != nil {
		return channelModel{}, err
	}
	name := strings.TrimSpace(channel.Name)
	row := channelModel{
		ID:            strings.TrimSpace(channel.ChannelID),
		Name:          name,
		NameKey:       strings.ToLower(name),
		Logo:          strings.TrimSpace(channel.Logo),
		Category:      strings.TrimSpace(channel.Category),
		Description:   strings.TrimSpace(channel.Description),
		MemberIDs:     members,
		TrendingCount: channel.TrendingCount,
		CreatedAt:     channel.CreatedAt.UTC(),
		UpdatedAt:     channel.UpdatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row, nil
}

func (m channelModel) toChannel() (ports.Channel, error) {
	members, err := decodeMembers(m.MemberIDs)
	if err != nil {
		return ports.Channel{}, err
	}
	return ports.Channel{
		ChannelID:     m.ID,
		Name:          m.Name,
		Logo:          m.Logo,
		Category:      m.Category,
		Description:   m.Description,
		MemberIDs:     members,
		TrendingCount: m.TrendingCount,
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
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

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.Repository = (*Repository)(nil)

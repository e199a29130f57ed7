package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainerrors "shopsync/contexts/community/chat-service/domain/errors"
	"shopsync/contexts/community/chat-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
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

// CreateMessage assigns the next per-scope sequence number under a row lock
// so concurrent posters cannot observe gaps or duplicates.
func (r *Repository) CreateMessage(ctx context.Context, input ports.CreateMessageInput, now time.Time) (ports.Message, error) {
	row := messageModel{
		ID:          uuid.NewString(),
		ScopeKey:    scopeKey(input.RoomID, input.ChannelID),
		UserID:      strings.TrimSpace(input.UserID),
		DisplayName: strings.TrimSpace(input.DisplayName),
		Kind:        string(input.Kind),
		Content:     input.Content,
		CreatedAt:   now.UTC(),
	}
	if strings.TrimSpace(input.RoomID) != "" {
		roomID := strings.TrimSpace(input.RoomID)
		row.RoomID = &roomID
	}
	if strings.TrimSpace(input.ChannelID) != "" {
		channelID := strings.TrimSpace(input.ChannelID)
		row.ChannelID = &channelID
	}
	if input.Product != nil {
		row.ProductID = strings.TrimSpace(input.Product.ProductID)
		row.ProductName = strings.TrimSpace(input.Product.Name)
		row.ProductBrand = strings.TrimSpace(input.Product.Brand)
		row.ProductPrice = input.Product.UnitPrice
		row.ProductImage = strings.TrimSpace(input.Product.ImageURL)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq sequenceModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("scope_key = ?", row.ScopeKey).
			First(&seq).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			seq = sequenceModel{ScopeKey: row.ScopeKey, NextSequence: 1}
			if err := tx.Create(&seq).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			seq.NextSequence++
			if err := tx.Save(&seq).Error; err != nil {
				return err
			}
		}

		row.SequenceNumber = seq.NextSequence
		return tx.Create(&row).Error
	})
	if err != nil {
		return ports.Message{}, r.logError("chat_repo_create_message_failed", err,
			"scope_key", row.ScopeKey,
			"message_kind", row.Kind,
		)
	}
	return row.toMessage(), nil
}

func (r *Repository) ListMessages(ctx context.Context, input ports.ListMessagesInput) ([]ports.Message, error) {
	key := scopeKey(input.RoomID, input.ChannelID)
	tx := r.db.WithContext(ctx).
		Where("scope_key = ?", key).
		Where("sequence_number > ?", input.AfterSequence).
		Order("sequence_number ASC")
	if input.Limit > 0 {
		tx = tx.Limit(input.Limit)
	}

	var rows []messageModel
	if err := tx.Find(&rows).Error; err != nil {
		return nil, r.logError("chat_repo_list_messages_failed", err, "scope_key", key)
	}

	items := make([]ports.Message, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toMessage())
	}
	return items, nil
}

func (r *Repository) AddReaction(ctx context.Context, messageID string, kind ports.ReactionKind) (ports.Message, error) {
	var column string
	switch kind {
	case ports.ReactionLike:
		column = "like_count"
	case ports.ReactionHeart:
		column = "heart_count"
	default:
		return ports.Message{}, domainerrors.ErrInvalidReaction
	}

	result := r.db.WithContext(ctx).
		Model(&messageModel{}).
		Where("id = ?", strings.TrimSpace(messageID)).
		Update(column, gorm.Expr(column+" + 1"))
	if result.Error != nil {
		return ports.Message{}, r.logError("chat_repo_add_reaction_failed", result.Error,
			"message_id", strings.TrimSpace(messageID),
		)
	}
	if result.RowsAffected == 0 {
		return ports.Message{}, domainerrors.ErrMessageNotFound
	}

	var row messageModel
	if err := r.db.WithContext(ctx).Where("id = ?", strings.TrimSpace(messageID)).First(&row).Error; err != nil {
		return ports.Message{}, r.logError("chat_repo_get_message_failed", err,
			"message_id", strings.TrimSpace(messageID),
		)
	}
	return row.toMessage(), nil
}

func (r *Repository) Get(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).Where("key = ?", strings.TrimSpace(key)).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, r.logError("chat_repo_idempotency_get_failed", err)
	}
	if !row.ExpiresAt.IsZero() && now.UTC().After(row.ExpiresAt.UTC()) {
		return ports.IdempotencyRecord{}, false, nil
	}
	return ports.IdempotencyRecord{
		Key:         row.Key,
		RequestHash: row.RequestHash,
		Payload:     append([]byte(nil), row.Payload...),
		ExpiresAt:   row.ExpiresAt.UTC(),
	}, true, nil
}

func (r *Repository) Put(ctx context.Context, record ports.IdempotencyRecord) error {
	row := idempotencyModel{
		Key:         strings.TrimSpace(record.Key),
		RequestHash: record.RequestHash,
		Payload:     record.Payload,
		ExpiresAt:   record.ExpiresAt.UTC(),
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]any{
			"request_hash": row.RequestHash,
			"payload":      row.Payload,
			"expires_at":   row.ExpiresAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("chat_repo_idempotency_put_failed", create.Error, "key", row.Key)
	}
	return nil
}

func (r *Repository) ReserveEvent(ctx context.Context, eventID string, expiresAt time.Time) (bool, error) {
	row := seenEventModel{
		EventID:   strings.TrimSpace(eventID),
		ExpiresAt: expiresAt.UTC(),
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		if isUniqueViolation(create.Error) {
			return true, nil
		}
		return false, r.logError("chat_repo_reserve_event_failed", create.Error, "event_id", row.EventID)
	}
	return create.RowsAffected == 0, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "community/chat-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("chat repository operation failed", fields...)
	return err
}

type messageModel struct {
	ID             string    `gorm:"column:id;primaryKey"`
	ScopeKey       string    `gorm:"column:scope_key"`
	RoomID         *string   `gorm:"column:room_id"`
	ChannelID      *string   `gorm:"column:channel_id"`
	UserID         string    `gorm:"column:user_id"`
	DisplayName    string    `gorm:"column:display_name"`
	Kind           string    `gorm:"column:kind"`
	Content        string    `gorm:"column:content"`
	ProductID      string    `gorm:"column:product_id"`
	ProductName    string    `gorm:"column:product_name"`
	ProductBrand   string    `gorm:"column:product_brand"`
	ProductPrice   int64     `gorm:"column:product_price"`
	ProductImage   string    `gorm:"column:product_image"`
	LikeCount      int       `gorm:"column:like_count"`
	HeartCount     int       `gorm:"column:heart_count"`
	SequenceNumber int64     `gorm:"column:sequence_number"`
	CreatedAt      time.Time `gorm:"column:created_at"`
}

func (messageModel) TableName() string {
	return "chat_messages"
}

func (m messageModel) toMessage() ports.Message {
	message := ports.Message{
		MessageID:      m.ID,
		UserID:         m.UserID,
		DisplayName:    m.DisplayName,
		Kind:           ports.MessageKind(m.Kind),
		Content:        m.Content,
		Likes:          m.LikeCount,
		Hearts:         m.HeartCount,
		SequenceNumber: m.SequenceNumber,
		CreatedAt:      m.CreatedAt.UTC(),
	}
	if m.RoomID != nil {
		message.RoomID = strings.TrimSpace(*m.RoomID)
	}
	if m.ChannelID != nil {
		message.ChannelID = strings.TrimSpace(*m.ChannelID)
	}
	if m.ProductID != "" || m.ProductName != "" {
		message.Product = &ports.ProductRef{
			ProductID: m.ProductID,
			Name:      m.ProductName,
			Brand:     m.ProductBrand,
			UnitPrice: m.ProductPrice,
			ImageURL:  m.ProductImage,
		}
	}
	return message
}

type sequenceModel struct {
	ScopeKey     string `gorm:"column:scope_key;primaryKey"`
	NextSequence int64  `gorm:"column:next_sequence"`
}

func (sequenceModel) TableName() string {
	return "chat_scope_sequences"
}

type idempotencyModel struct {
	Key         string    `gorm:"column:key;primaryKey"`
	RequestHash string    `gorm:"column:request_hash"`
	Payload     []byte    `gorm:"column:payload"`
	ExpiresAt   time.Time `gorm:"column:expires_at"`
}

func (idempotencyModel) TableName() string {
	return "chat_idempotency_keys"
}

type seenEventModel struct {
	EventID   string    `gorm:"column:event_id;primaryKey"`
	ExpiresAt time.Time `gorm:"column:expires_at"`
}

func (seenEventModel) TableName() string {
	return "chat_seen_events"
}

func scopeKey(roomID string, channelID string) string {
	if strings.TrimSpace(roomID) != "" {
		return "room:" + strings.TrimSpace(roomID)
	}
	return "channel:" + strings.TrimSpace(channelID)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.Repository = (*Repository)(nil)
var _ ports.IdempotencyStore = (*Repository)(nil)
var _ ports.EventDedupStore = (*Repository)(nil)

package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"shopsync/contexts/shopping/cart-service/domain/cart"
	domainerrors "shopsync/contexts/shopping/cart-service/domain/errors"
	"shopsync/contexts/shopping/cart-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
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

func (r *Repository) GetByScope(ctx context.Context, scope ports.Scope) (cart.Cart, bool, error) {
	tx := r.db.WithContext(ctx).Model(&cartModel{})
	if strings.TrimSpace(scope.RoomID) != "" {
		tx = tx.Where("room_id = ?", strings.TrimSpace(scope.RoomID))
	} else {
		tx = tx.Where("channel_id = ?", strings.TrimSpace(scope.ChannelID))
	}

	var row cartModel
	err := tx.First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return cart.Cart{}, false, nil
		}
		return cart.Cart{}, false, r.logError("cart_repo_get_by_scope_failed", err,
			"room_id", strings.TrimSpace(scope.RoomID),
			"channel_id", strings.TrimSpace(scope.ChannelID),
		)
	}

	var itemRows []cartItemModel
	if err := r.db.WithContext(ctx).
		Where("cart_id = ?", row.ID).
		Order("position ASC").
		Find(&itemRows).Error; err != nil {
		return cart.Cart{}, false, r.logError("cart_repo_list_items_failed", err, "cart_id", row.ID)
	}

	snapshot, err := row.toSnapshot(itemRows)
	if err != nil {
		return cart.Cart{}, false, r.logError("cart_repo_decode_failed", err, "cart_id", row.ID)
	}
	return snapshot, true, nil
}

// Save replaces the full cart snapshot. The engine is last-write-wins, so
// items absent from the snapshot are deleted rather than tombstoned.
func (r *Repository) Save(ctx context.Context, snapshot cart.Cart) (cart.Cart, error) {
	saved := snapshot.Clone()
	if strings.TrimSpace(saved.CartID) == "" {
		saved.CartID = uuid.NewString()
	}
	for i := range saved.Items {
		if strings.TrimSpace(saved.Items[i].ItemID) == "" {
			saved.Items[i].ItemID = uuid.NewString()
		}
	}

	row := cartModelFromSnapshot(saved)
	itemRows, err := cartItemModelsFromSnapshot(saved)
	if err != nil {
		return cart.Cart{}, r.logError("cart_repo_encode_failed", err, "cart_id", saved.CartID)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveSnapshotTx(tx, row, itemRows)
	})
	if err != nil {
		if isUniqueViolation(err) {
			return cart.Cart{}, domainerrors.ErrConflict
		}
		return cart.Cart{}, r.logError("cart_repo_save_failed", err,
			"cart_id", saved.CartID,
			"room_id", saved.RoomID,
			"channel_id", saved.ChannelID,
		)
	}
	return saved, nil
}

// SaveWithOutbox writes the snapshot and its outbox row in one database
// transaction, so the relay either sees the event with the saved cart or
// neither.
func (r *Repository) SaveWithOutbox(ctx context.Context, snapshot cart.Cart, envelope ports.EventEnvelope) (cart.Cart, error) {
	saved := snapshot.Clone()
	if strings.TrimSpace(saved.CartID) == "" {
		saved.CartID = uuid.NewString()
	}
	for i := range saved.Items {
		if strings.TrimSpace(saved.Items[i].ItemID) == "" {
			saved.Items[i].ItemID = uuid.NewString()
		}
	}

	row := cartModelFromSnapshot(saved)
	itemRows, err := cartItemModelsFromSnapshot(saved)
	if err != nil {
		return cart.Cart{}, r.logError("cart_repo_encode_failed", err, "cart_id", saved.CartID)
	}
	outboxRow, err := outboxRowFromEnvelope(envelope)
	if err != nil {
		return cart.Cart{}, r.logError("cart_repo_outbox_marshal_failed", err,
			"event_id", strings.TrimSpace(envelope.EventID),
			"event_type", strings.TrimSpace(envelope.EventType),
		)
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveSnapshotTx(tx, row, itemRows); err != nil {
			return err
		}
		create := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "outbox_id"}},
			DoNothing: true,
		}).Create(&outboxRow)
		return create.Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return cart.Cart{}, domainerrors.ErrConflict
		}
		return cart.Cart{}, r.logError("cart_repo_save_with_outbox_failed", err,
			"cart_id", saved.CartID,
			"outbox_id", outboxRow.OutboxID,
		)
	}
	return saved, nil
}

func saveSnapshotTx(tx *gorm.DB, row cartModel, itemRows []cartItemModel) error {
	create := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row)
	if create.Error != nil {
		return create.Error
	}

	keep := make([]string, 0, len(itemRows))
	for _, itemRow := range itemRows {
		keep = append(keep, itemRow.ID)
	}
	del := tx.Where("cart_id = ?", row.ID)
	if len(keep) > 0 {
		del = del.Where("id NOT IN ?", keep)
	}
	if err := del.Delete(&cartItemModel{}).Error; err != nil {
		return err
	}

	for _, itemRow := range itemRows {
		create := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":       itemRow.Quantity,
				"up_count":       itemRow.UpCount,
				"down_count":     itemRow.DownCount,
				"up_voters":      itemRow.UpVoters,
				"down_voters":    itemRow.DownVoters,
				"like_count":     itemRow.LikeCount,
				"heart_count":    itemRow.HeartCount,
				"fire_count":     itemRow.FireCount,
				"comment_count":  itemRow.CommentCount,
				"position":       itemRow.Position,
				"product_name":   itemRow.ProductName,
				"product_brand":  itemRow.ProductBrand,
				"unit_price":     itemRow.UnitPrice,
				"image_url":      itemRow.ImageURL,
				"purchase_url":   itemRow.PurchaseURL,
				"added_by_id":    itemRow.AddedByID,
				"added_by_name":  itemRow.AddedByName,
				"added_by_photo": itemRow.AddedByPhoto,
			}),
		}).Create(&itemRow)
		if create.Error != nil {
			return create.Error
		}
	}
	return nil
}

func outboxRowFromEnvelope(envelope ports.EventEnvelope) (outboxModel, error) {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return outboxModel{}, err
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row, nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("cart_repo_list_pending_outbox_failed", err, "limit", limit)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("cart_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrConflict
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "shopping/cart-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("cart repository operation failed", fields...)
	return err
}

type cartModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	RoomID    *string   `gorm:"column:room_id"`
	ChannelID *string   `gorm:"column:channel_id"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (cartModel) TableName() string {
	return "shared_carts"
}

func cartModelFromSnapshot(snapshot cart.Cart) cartModel {
	row := cartModel{
		ID:        strings.TrimSpace(snapshot.CartID),
		CreatedAt: snapshot.CreatedAt.UTC(),
		UpdatedAt: snapshot.UpdatedAt.UTC(),
	}
	if strings.TrimSpace(snapshot.RoomID) != "" {
		roomID := strings.TrimSpace(snapshot.RoomID)
		row.RoomID = &roomID
	}
	if strings.TrimSpace(snapshot.ChannelID) != "" {
		channelID := strings.TrimSpace(snapshot.ChannelID)
		row.ChannelID = &channelID
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m cartModel) toSnapshot(itemRows []cartItemModel) (cart.Cart, error) {
	snapshot := cart.Cart{
		CartID:    m.ID,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
		Items:     make([]cart.LineItem, 0, len(itemRows)),
	}
	if m.RoomID != nil {
		snapshot.RoomID = strings.TrimSpace(*m.RoomID)
	}
	if m.ChannelID != nil {
		snapshot.ChannelID = strings.TrimSpace(*m.ChannelID)
	}
	for _, row := range itemRows {
		item, err := row.toItem()
		if err != nil {
			return cart.Cart{}, err
		}
		snapshot.Items = append(snapshot.Items, item)
	}
	return snapshot, nil
}

type cartItemModel struct {
	ID           string    `gorm:"column:id;primaryKey"`
	CartID       string    `gorm:"column:cart_id"`
	Position     int       `gorm:"column:position"`
	ProductID    string    `gorm:"column:product_id"`
	ProductName  string    `gorm:"column:product_name"`
	ProductBrand string    `gorm:"column:product_brand"`
	UnitPrice    int64     `gorm:"column:unit_price"`
	ImageURL     string    `gorm:"column:image_url"`
	PurchaseURL  string    `gorm:"column:purchase_url"`
	Quantity     int       `gorm:"column:quantity"`
	AddedByID    *string   `gorm:"column:added_by_id"`
	AddedByName  string    `gorm:"column:added_by_name"`
	AddedByPhoto string    `gorm:"column:added_by_photo"`
	UpCount      int       `gorm:"column:up_count"`
	DownCount    int       `gorm:"column:down_count"`
	UpVoters     []byte    `gorm:"column:up_voters"`
	DownVoters   []byte    `gorm:"column:down_voters"`
	LikeCount    int       `gorm:"column:like_count"`
	HeartCount   int       `gorm:"column:heart_count"`
	FireCount    int       `gorm:"column:fire_count"`
	CommentCount int       `gorm:"column:comment_count"`
	AddedAt      time.Time `gorm:"column:added_at"`
}

func (cartItemModel) TableName() string {
	return "shared_cart_items"
}

func cartItemModelsFromSnapshot(snapshot cart.Cart) ([]cartItemModel, error) {
	rows := make([]cartItemModel, 0, len(snapshot.Items))
	for position, item := range snapshot.Items {
		upVoters, err := encodeVoters(item.Votes.UpVoters)
		if err != nil {
			return nil, err
		}
		downVoters, err := encodeVoters(item.Votes.DownVoters)
		if err != nil {
			return nil, err
		}
		row := cartItemModel{
			ID:           strings.TrimSpace(item.ItemID),
			CartID:       strings.TrimSpace(snapshot.CartID),
			Position:     position,
			ProductID:    strings.TrimSpace(item.Product.ProductID),
			ProductName:  strings.TrimSpace(item.Product.Name),
			ProductBrand: strings.TrimSpace(item.Product.Brand),
			UnitPrice:    item.Product.UnitPrice,
			ImageURL:     strings.TrimSpace(item.Product.ImageURL),
			PurchaseURL:  strings.TrimSpace(item.Product.PurchaseURL),
			Quantity:     item.Quantity,
			UpCount:      item.Votes.Up,
			DownCount:    item.Votes.Down,
			UpVoters:     upVoters,
			DownVoters:   downVoters,
			LikeCount:    item.Reactions.Like,
			HeartCount:   item.Reactions.Heart,
			FireCount:    item.Reactions.Fire,
			CommentCount: item.Reactions.Comments,
			AddedAt:      item.AddedAt.UTC(),
		}
		if item.AddedBy != nil {
			addedByID := strings.TrimSpace(item.AddedBy.UserID)
			row.AddedByID = &addedByID
			row.AddedByName = strings.TrimSpace(item.AddedBy.DisplayName)
			row.AddedByPhoto = strings.TrimSpace(item.AddedBy.Avatar)
		}
		if row.AddedAt.IsZero() {
			row.AddedAt = time.Now().UTC()
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (m cartItemModel) toItem() (cart.LineItem, error) {
	upVoters, err := decodeVoters(m.UpVoters)
	if err != nil {
		return cart.LineItem{}, err
	}
	downVoters, err := decodeVoters(m.DownVoters)
	if err != nil {
		return cart.LineItem{}, err
	}
	item := cart.LineItem{
		ItemID: m.ID,
		Product: cart.Product{
			ProductID:   m.ProductID,
			Name:        m.ProductName,
			Brand:       m.ProductBrand,
			UnitPrice:   m.UnitPrice,
			ImageURL:    m.ImageURL,
			PurchaseURL: m.PurchaseURL,
		},
		Quantity: m.Quantity,
		Votes: cart.Votes{
			Up:         m.UpCount,
			Down:       m.DownCount,
			UpVoters:   upVoters,
			DownVoters: downVoters,
		},
		Reactions: cart.Reactions{
			Like:     m.LikeCount,
			Heart:    m.HeartCount,
			Fire:     m.FireCount,
			Comments: m.CommentCount,
		},
		AddedAt: m.AddedAt.UTC(),
	}
	if m.AddedByID != nil {
		item.AddedBy = &cart.Contributor{
			UserID:      strings.TrimSpace(*m.AddedByID),
			DisplayName: m.AddedByName,
			Avatar:      m.AddedByPhoto,
		}
	}
	return item, nil
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "cart_outbox"
}

func encodeVoters(voters []string) ([]byte, error) {
	if len(voters) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(voters)
}

func decodeVoters(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var voters []string
	if err := json.Unmarshal(raw, &voters); err != nil {
		return nil, err
	}
	if len(voters) == 0 {
		return nil, nil
	}
	return voters, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.CartRepository = (*Repository)(nil)
var _ ports.OutboxWriter = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)

package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	domainerrors "shopsync/contexts/shopping/catalog-service/domain/errors"
	"shopsync/contexts/shopping/catalog-service/ports"

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

func (r *Repository) CreateProduct(ctx context.Context, product ports.Product) (ports.Product, error) {
	if strings.TrimSpace(product.ProductID) == "" {
		product.ProductID = uuid.NewString()
	}
	row := productModelFromProduct(product)

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return ports.Product{}, r.logError("catalog_repo_create_failed", err, "product_id", product.ProductID)
	}
	return row.toProduct(), nil
}

func (r *Repository) GetProduct(ctx context.Context, productID string) (ports.Product, error) {
	var row productModel
	err := r.db.WithContext(ctx).Where("id = ?", strings.TrimSpace(productID)).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Product{}, domainerrors.ErrProductNotFound
		}
		return ports.Product{}, r.logError("catalog_repo_get_failed", err, "product_id", strings.TrimSpace(productID))
	}
	return row.toProduct(), nil
}

func (r *Repository) ListProducts(ctx context.Context, input ports.ListProductsInput) ([]ports.Product, error) {
	tx := r.db.WithContext(ctx).Model(&productModel{})
	if strings.TrimSpace(input.Brand) != "" {
		tx = tx.Where("LOWER(brand) = LOWER(?)", strings.TrimSpace(input.Brand))
	}
	if strings.TrimSpace(input.Category) != "" {
		tx = tx.Where("LOWER(category) = LOWER(?)", strings.TrimSpace(input.Category))
	}
	if input.Limit > 0 {
		tx = tx.Limit(input.Limit)
	}

	var rows []productModel
	if err := tx.Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, r.logError("catalog_repo_list_failed", err,
			"brand", strings.TrimSpace(input.Brand),
			"category", strings.TrimSpace(input.Category),
		)
	}

	items := make([]ports.Product, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toProduct())
	}
	return items, nil
}

func (r *Repository) FindByPurchaseURL(ctx context.Context, rawURL string) (ports.Product, bool, error) {
	var row productModel
	err := r.db.WithContext(ctx).Where("purchase_url = ?", strings.TrimSpace(rawURL)).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Product{}, false, nil
		}
		return ports.Product{}, false, r.logError("catalog_repo_find_by_url_failed", err)
	}
	return row.toProduct(), true, nil
}

func (r *Repository) HostKnown(ctx context.Context, host string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&productModel{}).
		Where("purchase_host = ?", strings.ToLower(strings.TrimSpace(host))).
		Count(&count).Error
	if err != nil {
		return false, r.logError("catalog_repo_host_known_failed", err, "host", strings.TrimSpace(host))
	}
	return count > 0, nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "shopping/catalog-service",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("catalog repository operation failed", fields...)
	return err
}

type productModel struct {
	ID           string    `gorm:"column:id;primaryKey"`
	Name         string    `gorm:"column:name"`
	Brand        string    `gorm:"column:brand"`
	Category     string    `gorm:"column:category"`
	UnitPrice    int64     `gorm:"column:unit_price"`
	ImageURL     string    `gorm:"column:image_url"`
	PurchaseURL  string    `gorm:"column:purchase_url"`
	PurchaseHost string    `gorm:"column:purchase_host"`
	Rating       float64   `gorm:"column:rating"`
	ReviewCount  int       `gorm:"column:review_count"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (productModel) TableName() string {
	return "catalog_products"
}

func productModelFromProduct(product ports.Product) productModel {
	row := productModel{
		ID:          strings.TrimSpace(product.ProductID),
		Name:        strings.TrimSpace(product.Name),
		Brand:       strings.TrimSpace(product.Brand),
		Category:    strings.TrimSpace(product.Category),
		UnitPrice:   product.UnitPrice,
		ImageURL:    strings.TrimSpace(product.ImageURL),
		PurchaseURL: strings.TrimSpace(product.PurchaseURL),
		Rating:      product.Rating,
		ReviewCount: product.ReviewCount,
		CreatedAt:   product.CreatedAt.UTC(),
		UpdatedAt:   product.UpdatedAt.UTC(),
	}
	// purchase_host is denormalized so share-link resolution can tell an
	// unknown store from an unknown product without parsing every row.
	if row.PurchaseURL != "" {
		if parsed, err := url.Parse(row.PurchaseURL); err == nil && parsed.Host != "" {
			row.PurchaseHost = strings.ToLower(parsed.Host)
		}
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = row.CreatedAt
	}
	return row
}

func (m productModel) toProduct() ports.Product {
	return ports.Product{
		ProductID:   m.ID,
		Name:        m.Name,
		Brand:       m.Brand,
		Category:    m.Category,
		UnitPrice:   m.UnitPrice,
		ImageURL:    m.ImageURL,
		PurchaseURL: m.PurchaseURL,
		Rating:      m.Rating,
		ReviewCount: m.ReviewCount,
		CreatedAt:   m.CreatedAt.UTC(),
		UpdatedAt:   m.UpdatedAt.UTC(),
	}
}

var _ ports.Repository = (*Repository)(nil)

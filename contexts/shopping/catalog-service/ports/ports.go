package ports

import (
	"context"
	"time"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type Product struct {
	ProductID   string
	Name        string
	Brand       string
	Category    string
	UnitPrice   int64
	ImageURL    string
	PurchaseURL string
	Rating      float64
	ReviewCount int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ListProductsInput struct {
	Brand    string
	Category string
	Limit    int
}

type Repository interface {
	CreateProduct(ctx context.Context, product Product) (Product, error)
	GetProduct(ctx context.Context, productID string) (Product, error)
	ListProducts(ctx context.Context, input ListProductsInput) ([]Product, error)
	FindByPurchaseURL(ctx context.Context, url string) (Product, bool, error)
	HostKnown(ctx context.Context, host string) (bool, error)
}

package application

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	domainerrors "shopsync/contexts/shopping/catalog-service/domain/errors"
	"shopsync/contexts/shopping/catalog-service/domain/pricing"
	"shopsync/contexts/shopping/catalog-service/ports"
)

type Service struct {
	Repo   ports.Repository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

type CreateProductInput struct {
	Name         string
	Brand        string
	Category     string
	DisplayPrice string
	ImageURL     string
	PurchaseURL  string
	Rating       float64
	ReviewCount  int
}

// CreateProduct normalizes the display price into minor units before the
// product ever reaches storage. This is the only parse site.
func (s Service) CreateProduct(ctx context.Context, input CreateProductInput) (ports.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return ports.Product{}, domainerrors.ErrInvalidRequest
	}
	unitPrice, err := pricing.ParseDisplayPrice(input.DisplayPrice)
	if err != nil {
		resolveLogger(s.Logger).Warn("product price rejected",
			"event", "catalog_price_rejected",
			"module", "shopping/catalog-service",
			"layer", "application",
			"display_price", input.DisplayPrice,
		)
		return ports.Product{}, err
	}
	productID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.Product{}, err
	}
	now := s.now()
	product, err := s.Repo.CreateProduct(ctx, ports.Product{
		ProductID:   productID,
		Name:        name,
		Brand:       strings.TrimSpace(input.Brand),
		Category:    strings.TrimSpace(input.Category),
		UnitPrice:   unitPrice,
		ImageURL:    strings.TrimSpace(input.ImageURL),
		PurchaseURL: strings.TrimSpace(input.PurchaseURL),
		Rating:      input.Rating,
		ReviewCount: input.ReviewCount,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return ports.Product{}, err
	}
	resolveLogger(s.Logger).Info("product created",
		"event", "catalog_product_created",
		"module", "shopping/catalog-service",
		"layer", "application",
		"product_id", product.ProductID,
		"unit_price", product.UnitPrice,
	)
	return product, nil
}

func (s Service) GetProduct(ctx context.Context, productID string) (ports.Product, error) {
	if strings.TrimSpace(productID) == "" {
		return ports.Product{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.GetProduct(ctx, strings.TrimSpace(productID))
}

func (s Service) ListProducts(ctx context.Context, input ports.ListProductsInput) ([]ports.Product, error) {
	if input.Limit <= 0 {
		input.Limit = 50
	}
	if input.Limit > 200 {
		input.Limit = 200
	}
	return s.Repo.ListProducts(ctx, input)
}

// ResolveShareURL resolves a pasted product link into a catalog product, the
// chat share flow. Links from hosts the catalog has never seen are rejected
// outright; known hosts without a matching product report not-found.
func (s Service) ResolveShareURL(ctx context.Context, rawURL string) (ports.Product, error) {
	rawURL = strings.TrimSpace(rawURL)
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return ports.Product{}, domainerrors.ErrInvalidRequest
	}

	product, found, err := s.Repo.FindByPurchaseURL(ctx, rawURL)
	if err != nil {
		return ports.Product{}, err
	}
	if found {
		return product, nil
	}

	known, err := s.Repo.HostKnown(ctx, parsed.Host)
	if err != nil {
		return ports.Product{}, err
	}
	if !known {
		return ports.Product{}, domainerrors.ErrUnknownHost
	}
	return ports.Product{}, domainerrors.ErrProductNotFound
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

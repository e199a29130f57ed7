package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"shopsync/contexts/shopping/catalog-service/adapters/memory"
	domainerrors "shopsync/contexts/shopping/catalog-service/domain/errors"
	"shopsync/contexts/shopping/catalog-service/ports"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	store := memory.NewStore()
	store.SetNow(func() time.Time {
		return time.Date(2026, time.April, 10, 9, 0, 0, 0, time.UTC)
	})
	return Service{Repo: store, Clock: store, IDGen: store}
}

func TestCreateProductNormalizesPrice(t *testing.T) {
	service := newTestService(t)

	product, err := service.CreateProduct(context.Background(), CreateProductInput{
		Name:         "Air Max",
		Brand:        "Nike",
		DisplayPrice: "₹4,999",
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if product.UnitPrice != 499900 {
		t.Fatalf("expected 499900 paise, got %d", product.UnitPrice)
	}
}

func TestCreateProductRejectsMalformedPrice(t *testing.T) {
	service := newTestService(t)

	_, err := service.CreateProduct(context.Background(), CreateProductInput{
		Name:         "Air Max",
		DisplayPrice: "contact us",
	})
	if !errors.Is(err, domainerrors.ErrMalformedPrice) {
		t.Fatalf("expected ErrMalformedPrice, got %v", err)
	}
}

func TestListProductsFiltersByBrand(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	inputs := []CreateProductInput{
		{Name: "Air Max", Brand: "Nike", DisplayPrice: "₹4,999"},
		{Name: "Ultraboost", Brand: "Adidas", DisplayPrice: "₹9,999"},
		{Name: "Pegasus", Brand: "Nike", DisplayPrice: "₹7,499"},
	}
	for _, input := range inputs {
		if _, err := service.CreateProduct(ctx, input); err != nil {
			t.Fatalf("CreateProduct(%s): %v", input.Name, err)
		}
	}

	products, err := service.ListProducts(ctx, ports.ListProductsInput{Brand: "nike"})
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected two Nike products, got %d", len(products))
	}
}

func TestResolveShareURL(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	created, err := service.CreateProduct(ctx, CreateProductInput{
		Name:         "Air Max",
		Brand:        "Nike",
		DisplayPrice: "₹4,999",
		PurchaseURL:  "https://shop.example.com/air-max",
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}

	resolved, err := service.ResolveShareURL(ctx, "https://shop.example.com/air-max")
	if err != nil {
		t.Fatalf("ResolveShareURL: %v", err)
	}
	if resolved.ProductID != created.ProductID {
		t.Fatalf("expected product %q, got %q", created.ProductID, resolved.ProductID)
	}

	_, err = service.ResolveShareURL(ctx, "https://shop.example.com/unknown-item")
	if !errors.Is(err, domainerrors.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound for known host, got %v", err)
	}

	_, err = service.ResolveShareURL(ctx, "https://elsewhere.example.net/thing")
	if !errors.Is(err, domainerrors.ErrUnknownHost) {
		t.Fatalf("expected ErrUnknownHost, got %v", err)
	}

	_, err = service.ResolveShareURL(ctx, "not a url")
	if !errors.Is(err, domainerrors.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

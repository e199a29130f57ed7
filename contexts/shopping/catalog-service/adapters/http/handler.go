package httpadapter

import (
	"context"
	"log/slog"

	"shopsync/contexts/shopping/catalog-service/application"
	"shopsync/contexts/shopping/catalog-service/domain/pricing"
	"shopsync/contexts/shopping/catalog-service/ports"
	httptransport "shopsync/contexts/shopping/catalog-service/transport/http"
)

type Handler struct {
	Catalog application.Service
	Logger  *slog.Logger
}

func (h Handler) CreateProductHandler(ctx context.Context, req httptransport.CreateProductRequest) (httptransport.ProductResponse, error) {
	product, err := h.Catalog.CreateProduct(ctx, application.CreateProductInput{
		Name:         req.Name,
		Brand:        req.Brand,
		Category:     req.Category,
		DisplayPrice: req.DisplayPrice,
		ImageURL:     req.ImageURL,
		PurchaseURL:  req.PurchaseURL,
		Rating:       req.Rating,
		ReviewCount:  req.ReviewCount,
	})
	if err != nil {
		return httptransport.ProductResponse{}, err
	}
	return mapProduct(product), nil
}

func (h Handler) GetProductHandler(ctx context.Context, productID string) (httptransport.ProductResponse, error) {
	product, err := h.Catalog.GetProduct(ctx, productID)
	if err != nil {
		return httptransport.ProductResponse{}, err
	}
	return mapProduct(product), nil
}

func (h Handler) ListProductsHandler(ctx context.Context, brand string, category string, limit int) (httptransport.ProductListResponse, error) {
	products, err := h.Catalog.ListProducts(ctx, ports.ListProductsInput{
		Brand:    brand,
		Category: category,
		Limit:    limit,
	})
	if err != nil {
		return httptransport.ProductListResponse{}, err
	}
	items := make([]httptransport.ProductResponse, 0, len(products))
	for _, product := range products {
		items = append(items, mapProduct(product))
	}
	return httptransport.ProductListResponse{Items: items}, nil
}

func (h Handler) ResolveShareURLHandler(ctx context.Context, req httptransport.ResolveShareURLRequest) (httptransport.ProductResponse, error) {
	product, err := h.Catalog.ResolveShareURL(ctx, req.URL)
	if err != nil {
		return httptransport.ProductResponse{}, err
	}
	return mapProduct(product), nil
}

func mapProduct(product ports.Product) httptransport.ProductResponse {
	return httptransport.ProductResponse{
		ProductID:    product.ProductID,
		Name:         product.Name,
		Brand:        product.Brand,
		Category:     product.Category,
		UnitPrice:    product.UnitPrice,
		DisplayPrice: pricing.FormatMinorUnits(product.UnitPrice),
		ImageURL:     product.ImageURL,
		PurchaseURL:  product.PurchaseURL,
		Rating:       product.Rating,
		ReviewCount:  product.ReviewCount,
	}
}

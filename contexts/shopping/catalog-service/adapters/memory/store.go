package memory

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	domainerrors "shopsync/contexts/shopping/catalog-service/domain/errors"
	"shopsync/contexts/shopping/catalog-service/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu       sync.RWMutex
	products map[string]ports.Product
	byURL    map[string]string
	hosts    map[string]int
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		products: make(map[string]ports.Product),
		byURL:    make(map[string]string),
		hosts:    make(map[string]int),
	}
}

func (s *Store) SetNow(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) CreateProduct(_ context.Context, product ports.Product) (ports.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(product.ProductID) == "" {
		product.ProductID = uuid.NewString()
	}
	s.products[product.ProductID] = product
	if product.PurchaseURL != "" {
		s.byURL[product.PurchaseURL] = product.ProductID
		if parsed, err := url.Parse(product.PurchaseURL); err == nil && parsed.Host != "" {
			s.hosts[strings.ToLower(parsed.Host)]++
		}
	}
	return product, nil
}

func (s *Store) GetProduct(_ context.Context, productID string) (ports.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	product, ok := s.products[strings.TrimSpace(productID)]
	if !ok {
		return ports.Product{}, domainerrors.ErrProductNotFound
	}
	return product, nil
}

func (s *Store) ListProducts(_ context.Context, input ports.ListProductsInput) ([]ports.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ports.Product, 0)
	for _, product := range s.products {
		if input.Brand != "" && !strings.EqualFold(product.Brand, input.Brand) {
			continue
		}
		if input.Category != "" && !strings.EqualFold(product.Category, input.Category) {
			continue
		}
		items = append(items, product)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ProductID < items[j].ProductID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	if input.Limit > 0 && input.Limit < len(items) {
		items = items[:input.Limit]
	}
	return items, nil
}

func (s *Store) FindByPurchaseURL(_ context.Context, rawURL string) (ports.Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	productID, ok := s.byURL[strings.TrimSpace(rawURL)]
	if !ok {
		return ports.Product{}, false, nil
	}
	return s.products[productID], true, nil
}

func (s *Store) HostKnown(_ context.Context, host string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hosts[strings.ToLower(strings.TrimSpace(host))] > 0, nil
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.now != nil {
		return s.now()
	}
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

var _ ports.Repository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)

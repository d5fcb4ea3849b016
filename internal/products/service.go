package products

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Service exposes catalog reads and the lookup checks the prediction
// pipeline depends on.
type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// ValidateID checks the canonical identifier shape without touching storage.
func (s *Service) ValidateID(productID string) error {
	if _, err := uuid.Parse(productID); err != nil {
		return ErrInvalidID
	}
	return nil
}

// Get fetches a product by id. ErrNotFound is a caller mistake; any other
// error is a storage fault.
func (s *Service) Get(ctx context.Context, productID string) (Product, error) {
	if s == nil || s.Repo == nil {
		return Product{}, errors.New("products service not configured")
	}
	return s.Repo.GetByID(ctx, productID)
}

// AssertActive rejects usage of products that are switched off in the
// catalog. This is a client error distinct from "not found".
func (s *Service) AssertActive(product Product) error {
	if !product.IsActive {
		return ErrInactive
	}
	return nil
}

// ListSummaries returns the catalog listing projection.
func (s *Service) ListSummaries(ctx context.Context) ([]Summary, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("products service not configured")
	}
	all, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Summary, 0, len(all))
	for _, p := range all {
		out = append(out, p.summary())
	}
	return out, nil
}

// GetDetail returns the single-product projection.
func (s *Service) GetDetail(ctx context.Context, productID string) (Detail, error) {
	product, err := s.Get(ctx, productID)
	if err != nil {
		return Detail{}, err
	}
	return product.detail(), nil
}

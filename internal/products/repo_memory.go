package products

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo for dev and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Product
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Product)}
}

// Put stores or replaces a product.
func (r *MemoryRepo) Put(product Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[product.ID] = product
}

func (r *MemoryRepo) GetByID(ctx context.Context, productID string) (Product, error) {
	if err := ctx.Err(); err != nil {
		return Product{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.data[productID]
	if !ok {
		return Product{}, ErrNotFound
	}
	return product, nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Product, 0, len(r.data))
	for _, p := range r.data {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)

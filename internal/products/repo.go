package products

import "context"

// Repo defines persistence operations for the product catalog.
type Repo interface {
	GetByID(ctx context.Context, productID string) (Product, error)
	List(ctx context.Context) ([]Product, error)
}

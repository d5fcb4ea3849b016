package products

import "errors"

var (
	// ErrNotFound means no product exists for the given id.
	ErrNotFound = errors.New("product not found")
	// ErrInvalidID means the identifier does not have the canonical shape.
	ErrInvalidID = errors.New("invalid product id")
	// ErrInactive means the product exists but may not be used.
	ErrInactive = errors.New("product is inactive")
)

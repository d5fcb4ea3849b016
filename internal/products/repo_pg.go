package products

import (
	"context"
	"database/sql"
	"errors"
)

type PGRepo struct {
	DB *sql.DB
}

const productColumns = `
id, name, picture, short_description, full_description, usage_description,
is_active, predict_url, access_token_key, stores_photo, created_at, updated_at`

func (r *PGRepo) GetByID(ctx context.Context, productID string) (Product, error) {
	const query = `
SELECT ` + productColumns + `
FROM products
WHERE id = $1
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, productID)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return product, nil
}

func (r *PGRepo) List(ctx context.Context) ([]Product, error) {
	const query = `
SELECT ` + productColumns + `
FROM products
ORDER BY name`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, product)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var p Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Picture,
		&p.ShortDescription,
		&p.FullDescription,
		&p.UsageDescription,
		&p.IsActive,
		&p.Endpoint.PredictURL,
		&p.Endpoint.AccessTokenKey,
		&p.Endpoint.StoresPhoto,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

var _ Repo = (*PGRepo)(nil)

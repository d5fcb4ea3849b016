package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

type PGRepo struct {
	DB *sql.DB
}

// GetOrCreate upserts the record for the (product, user) pair in one
// statement. The no-op DO UPDATE makes RETURNING yield the existing row on
// conflict, so concurrent first uses cannot create duplicates.
func (r *PGRepo) GetOrCreate(ctx context.Context, productID, userID string) (Record, error) {
	const query = `
INSERT INTO histories (id, product_id, user_id, entries)
VALUES ($1, $2, $3, '[]'::jsonb)
ON CONFLICT (product_id, user_id) DO UPDATE SET updated_at = now()
RETURNING id, product_id, user_id, entries`

	var record Record
	var rawEntries []byte
	err := r.DB.QueryRowContext(ctx, query, uuid.NewString(), productID, userID).Scan(
		&record.ID,
		&record.ProductID,
		&record.UserID,
		&rawEntries,
	)
	if err != nil {
		return Record{}, fmt.Errorf("upsert history product=%s user=%s: %w", productID, userID, err)
	}
	if err := json.Unmarshal(rawEntries, &record.Entries); err != nil {
		return Record{}, fmt.Errorf("decode history entries: %w", err)
	}
	return record, nil
}

// AppendEntry appends one entry to the record's JSONB list atomically.
func (r *PGRepo) AppendEntry(ctx context.Context, recordID string, entry Entry) error {
	const query = `
UPDATE histories
SET entries = entries || $2::jsonb,
    updated_at = now()
WHERE id = $1`

	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode history entry: %w", err)
	}

	res, err := r.DB.ExecContext(ctx, query, recordID, raw)
	if err != nil {
		return fmt.Errorf("append history entry record=%s: %w", recordID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("append history entry record=%s: record does not exist", recordID)
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)

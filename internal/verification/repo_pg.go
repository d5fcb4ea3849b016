package verification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type PGRepo struct {
	DB *sql.DB
}

// GetOrCreateForUser upserts the row keyed by the unique user_id; the
// no-op DO UPDATE makes RETURNING yield the existing row on conflict.
func (r *PGRepo) GetOrCreateForUser(ctx context.Context, userID string) (Verification, error) {
	const query = `
INSERT INTO verifications (id, user_id)
VALUES ($1, $2)
ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
RETURNING id, user_id, created_at`

	var ver Verification
	err := r.DB.QueryRowContext(ctx, query, uuid.NewString(), userID).Scan(
		&ver.ID,
		&ver.UserID,
		&ver.CreatedAt,
	)
	if err != nil {
		return Verification{}, fmt.Errorf("upsert verification user=%s: %w", userID, err)
	}
	return ver, nil
}

func (r *PGRepo) GetByID(ctx context.Context, verificationID string) (Verification, error) {
	const query = `
SELECT id, user_id, created_at
FROM verifications
WHERE id = $1
LIMIT 1`
	var ver Verification
	err := r.DB.QueryRowContext(ctx, query, verificationID).Scan(&ver.ID, &ver.UserID, &ver.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Verification{}, ErrNotFound
		}
		return Verification{}, err
	}
	return ver, nil
}

var _ Repo = (*PGRepo)(nil)

package verification

import (
	"context"
	"errors"
)

// ErrNotFound means no verification exists for the given id.
var ErrNotFound = errors.New("verification not found")

// Repo defines persistence operations for verifications.
// GetOrCreateForUser must be atomic on the unique user_id.
type Repo interface {
	GetOrCreateForUser(ctx context.Context, userID string) (Verification, error)
	GetByID(ctx context.Context, verificationID string) (Verification, error)
}

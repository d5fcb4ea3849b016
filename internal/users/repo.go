package users

import (
	"context"
	"time"
)

// Repo defines persistence operations for accounts.
type Repo interface {
	Create(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	UpdateStatus(ctx context.Context, userID, status string) error
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
}

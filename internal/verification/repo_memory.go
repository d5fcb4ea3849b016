package verification

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory implementation of Repo for dev and tests.
type MemoryRepo struct {
	mu     sync.Mutex
	byUser map[string]Verification
	byID   map[string]Verification
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byUser: make(map[string]Verification),
		byID:   make(map[string]Verification),
	}
}

func (r *MemoryRepo) GetOrCreateForUser(ctx context.Context, userID string) (Verification, error) {
	if err := ctx.Err(); err != nil {
		return Verification{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if ver, ok := r.byUser[userID]; ok {
		return ver, nil
	}
	ver := Verification{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}
	r.byUser[userID] = ver
	r.byID[ver.ID] = ver
	return ver, nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, verificationID string) (Verification, error) {
	if err := ctx.Err(); err != nil {
		return Verification{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	ver, ok := r.byID[verificationID]
	if !ok {
		return Verification{}, ErrNotFound
	}
	return ver, nil
}

var _ Repo = (*MemoryRepo)(nil)

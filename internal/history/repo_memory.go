package history

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory implementation of Repo for dev and tests.
type MemoryRepo struct {
	mu      sync.Mutex
	byPair  map[string]*Record
	byID    map[string]*Record
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byPair: make(map[string]*Record),
		byID:   make(map[string]*Record),
	}
}

func pairKey(productID, userID string) string {
	return productID + "|" + userID
}

func (r *MemoryRepo) GetOrCreate(ctx context.Context, productID, userID string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pairKey(productID, userID)
	record, ok := r.byPair[key]
	if !ok {
		record = &Record{
			ID:        uuid.NewString(),
			ProductID: productID,
			UserID:    userID,
			Entries:   []Entry{},
		}
		r.byPair[key] = record
		r.byID[record.ID] = record
	}
	return snapshot(record), nil
}

func (r *MemoryRepo) AppendEntry(ctx context.Context, recordID string, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.byID[recordID]
	if !ok {
		return fmt.Errorf("append history entry record=%s: record does not exist", recordID)
	}
	record.Entries = append(record.Entries, entry)
	return nil
}

func snapshot(record *Record) Record {
	out := *record
	out.Entries = make([]Entry, len(record.Entries))
	copy(out.Entries, record.Entries)
	return out
}

var _ Repo = (*MemoryRepo)(nil)

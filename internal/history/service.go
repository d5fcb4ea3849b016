package history

import (
	"context"
	"errors"
)

// Service is the ledger facade: get-or-create a per-(product, user) record
// and append entries to it.
type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// GetOrCreate returns the record for the pair, creating it on first use.
func (s *Service) GetOrCreate(ctx context.Context, productID, userID string) (Record, error) {
	if s == nil || s.Repo == nil {
		return Record{}, errors.New("history service not configured")
	}
	if productID == "" || userID == "" {
		return Record{}, errors.New("product id and user id are required")
	}
	return s.Repo.GetOrCreate(ctx, productID, userID)
}

// Append records one entry. It never retries: by the time this runs the
// prediction has already happened, and a duplicate append would fabricate
// usage that never occurred.
func (s *Service) Append(ctx context.Context, recordID string, entry Entry) error {
	if s == nil || s.Repo == nil {
		return errors.New("history service not configured")
	}
	return s.Repo.AppendEntry(ctx, recordID, entry)
}

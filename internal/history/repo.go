package history

import "context"

// Repo defines persistence operations for the history ledger.
//
// GetOrCreate must be a single atomic upsert on the unique
// (productID, userID) pair: two concurrent first uses must converge on one
// record. AppendEntry must be an atomic append to the record's entry list.
type Repo interface {
	GetOrCreate(ctx context.Context, productID, userID string) (Record, error)
	AppendEntry(ctx context.Context, recordID string, entry Entry) error
}

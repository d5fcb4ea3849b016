package verification

import "time"

// Verification is a pending email-verification token for one user.
// At most one exists per user; the row id is the emailed secret.
type Verification struct {
	ID        string
	UserID    string
	CreatedAt time.Time
}

package verification

import (
	"context"
	"errors"
	"fmt"

	"medgateway-backend/internal/mail"
	"medgateway-backend/internal/shared/telemetry"
	"medgateway-backend/internal/users"
)

// Accounts is the slice of the users service the verification flow needs.
type Accounts interface {
	MarkVerified(ctx context.Context, userID string) error
	GetByEmail(ctx context.Context, email string) (users.User, error)
}

// Service creates verification tokens, emails their links, and flips
// accounts to verified when a link is used.
type Service struct {
	Repo     Repo
	Accounts Accounts
	Mailer   mail.Sender
	BaseURL  string
}

func NewService(repo Repo, accounts Accounts, mailer mail.Sender, baseURL string) *Service {
	return &Service{Repo: repo, Accounts: accounts, Mailer: mailer, BaseURL: baseURL}
}

// Begin upserts the verification for a freshly registered account and
// sends the link. Registration already committed; a mail failure here
// surfaces to the caller without undoing the account.
func (s *Service) Begin(ctx context.Context, userID, email string) error {
	if s == nil || s.Repo == nil || s.Mailer == nil {
		return errors.New("verification service not configured")
	}

	ver, err := s.Repo.GetOrCreateForUser(ctx, userID)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("%s/api/verify/%s", s.BaseURL, ver.ID)
	msg := mail.Message{
		To:      email,
		Subject: "Account verification",
		HTML:    fmt.Sprintf(`<h3>Welcome to MED-Gateway System!</h3>In order to verify the account please visit this <a href="%s">link</a>`, link),
		Text:    fmt.Sprintf("Welcome to MED-Gateway System!\n\nIn order to verify the account please visit this link: %s", link),
	}
	if err := s.Mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send verification email to %s: %w", email, err)
	}

	telemetry.Info("verification.email_sent", map[string]any{"user_id": userID})
	return nil
}

// Verify resolves the emailed token and marks the account verified.
// Unknown tokens return ErrNotFound.
func (s *Service) Verify(ctx context.Context, verificationID string) error {
	if s == nil || s.Repo == nil || s.Accounts == nil {
		return errors.New("verification service not configured")
	}

	ver, err := s.Repo.GetByID(ctx, verificationID)
	if err != nil {
		return err
	}
	if err := s.Accounts.MarkVerified(ctx, ver.UserID); err != nil {
		return fmt.Errorf("mark user %s verified: %w", ver.UserID, err)
	}

	telemetry.Info("verification.account_verified", map[string]any{"user_id": ver.UserID})
	return nil
}

// Resend looks up the account by email and sends the link again,
// reusing the existing token when one exists.
func (s *Service) Resend(ctx context.Context, email string) error {
	if s == nil || s.Accounts == nil {
		return errors.New("verification service not configured")
	}

	user, err := s.Accounts.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.Begin(ctx, user.ID, user.Email)
}

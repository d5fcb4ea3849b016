package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"medgateway-backend/internal/shared/auth"
)

// Service implements account registration, login, and profile reads.
type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// RegisterInput carries the required registration fields.
type RegisterInput struct {
	Name         string
	Surname      string
	Email        string
	Password     string
	Organization string
}

// Register hashes the password and creates an unverified account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	user := User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Surname:      strings.TrimSpace(in.Surname),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Password:     string(hashed),
		Organization: strings.TrimSpace(in.Organization),
		Status:       StatusUnverified,
		Permission:   PermissionUser,
		RegisteredAt: time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Login checks credentials and issues a token carrying the account status.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (User, string, error) {
	if s == nil || s.Repo == nil {
		return User{}, "", errors.New("users service not configured")
	}

	user, err := s.Repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, "", ErrInvalidCredentials
		}
		return User{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return User{}, "", ErrInvalidCredentials
	}

	token, err := auth.Sign(user.ID, user.Status)
	if err != nil {
		return User{}, "", err
	}

	now := time.Now().UTC()
	if err := s.Repo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return User{}, "", err
	}
	user.LastLogin = &now

	return user, token, nil
}

// GetProfile returns the user-facing projection of an account.
func (s *Service) GetProfile(ctx context.Context, userID string) (Profile, error) {
	if s == nil || s.Repo == nil {
		return Profile{}, errors.New("users service not configured")
	}
	user, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	return user.profile(), nil
}

// MarkVerified flips an account to verified after the emailed link is used.
func (s *Service) MarkVerified(ctx context.Context, userID string) error {
	if s == nil || s.Repo == nil {
		return errors.New("users service not configured")
	}
	return s.Repo.UpdateStatus(ctx, userID, StatusVerified)
}

// GetByEmail exposes account lookup for the verification resend flow.
func (s *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	return s.Repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

package account

import (
	"context"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Service implements registration, authentication and profile mutation.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a new account. The password is stored only as a bcrypt
// hash with a per-record salt. A duplicate email reports ErrEmailTaken, and
// so does an insert failure during registration: at that point the only
// plausible cause the service can name is the unique-email constraint.
func (s *Service) Register(ctx context.Context, email, password, name string) (Account, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Account{}, ErrInvalidInput
	}

	// If the account exists, fail fast (best-effort check)
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return Account{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, err
	}

	a, err := s.repo.Create(ctx, Account{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Theme:        "light",
		Preferences:  DefaultPreferences(),
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return Account{}, ErrEmailTaken
	}
	return a, nil
}

// Authenticate verifies credentials. The bcrypt comparison does not
// early-exit on mismatched prefixes, so response timing does not leak
// password content. Unknown email and wrong password are indistinguishable.
func (s *Service) Authenticate(ctx context.Context, email, password string) (Account, error) {
	a, err := s.repo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return Account{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return Account{}, ErrInvalidCredentials
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (Account, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProfile applies a partial update; unspecified fields retain prior
// values.
func (s *Service) UpdateProfile(ctx context.Context, id int64, u ProfileUpdate) error {
	if u.Theme != nil && *u.Theme != "light" && *u.Theme != "dark" {
		return ErrInvalidInput
	}
	return s.repo.UpdateProfile(ctx, id, u)
}

// SetAvatar persists the stored avatar reference on the account.
func (s *Service) SetAvatar(ctx context.Context, id int64, ref string) error {
	if ref == "" {
		return ErrInvalidInput
	}
	return s.repo.SetAvatar(ctx, id, ref)
}

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/tweeter-app/server/internal/store"
	"github.com/tweeter-app/server/internal/validate"
	"github.com/tweeter-app/server/types"
)

// ProfileRepository defines persistence operations for profiles.
type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (types.Profile, error)
	GetByUsername(ctx context.Context, username string) (types.Profile, error)
	GetByEmail(ctx context.Context, email string) (types.Profile, error)
	Create(ctx context.Context, profile types.Profile) (types.Profile, error)
	UpdateDisplay(ctx context.Context, id, bio, avatarURL string) error
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(encodedHash, password string) bool
}

// AuthService encapsulates signup and signin.
type AuthService struct {
	repo   ProfileRepository
	hasher PasswordHasher
}

func NewAuthService(repo ProfileRepository, hasher PasswordHasher) *AuthService {
	return &AuthService{repo: repo, hasher: hasher}
}

// Signup validates the input shape, checks username and email uniqueness,
// hashes the password, and inserts the profile. The pre-insert checks give
// friendly field errors; the table's unique constraints remain the
// authoritative guard, and a constraint violation surfaces as the same
// store.ErrUsernameTaken / store.ErrEmailTaken.
func (s *AuthService) Signup(ctx context.Context, username, email, password string) (types.Profile, error) {
	if fieldErrs := validate.Signup(username, email, password); fieldErrs.Any() {
		return types.Profile{}, &ValidationError{Fields: fieldErrs}
	}

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return types.Profile{}, store.ErrUsernameTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.Profile{}, fmt.Errorf("check username: %w", err)
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return types.Profile{}, store.ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.Profile{}, fmt.Errorf("check email: %w", err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return types.Profile{}, fmt.Errorf("hash password: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return types.Profile{}, fmt.Errorf("generate id: %w", err)
	}

	created, err := s.repo.Create(ctx, types.Profile{
		ID:           id.String(),
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
	})
	if err != nil {
		return types.Profile{}, err
	}
	return created.Public(), nil
}

// Signin looks up the profile by email and verifies the password. Every
// failure path yields ErrInvalidCredentials. An unknown email skips the
// verify entirely; uniform timing is not a goal here since the response
// itself carries no distinguishing signal.
func (s *AuthService) Signin(ctx context.Context, email, password string) (types.Profile, error) {
	if fieldErrs := validate.Signin(email, password); fieldErrs.Any() {
		return types.Profile{}, ErrInvalidCredentials
	}

	profile, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Profile{}, ErrInvalidCredentials
		}
		return types.Profile{}, fmt.Errorf("lookup profile: %w", err)
	}

	if !s.hasher.Verify(profile.PasswordHash, password) {
		return types.Profile{}, ErrInvalidCredentials
	}
	return profile.Public(), nil
}

// GetByID loads a profile for per-request identity resolution. The hash
// never leaves this layer.
func (s *AuthService) GetByID(ctx context.Context, id string) (types.Profile, error) {
	profile, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return types.Profile{}, err
	}
	return profile.Public(), nil
}

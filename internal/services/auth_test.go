package services

import (
	"context"
	"errors"
	"testing"

	"github.com/tweeter-app/server/internal/auth"
	"github.com/tweeter-app/server/internal/store"
)

func newTestAuthService() (*AuthService, *fakeProfileRepo) {
	repo := newFakeProfileRepo()
	return NewAuthService(repo, auth.NewPasswordHasher()), repo
}

func TestSignupSigninRoundtrip(t *testing.T) {
	service, _ := newTestAuthService()
	ctx := context.Background()

	created, err := service.Signup(ctx, "alice", "a@x.com", "password123")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected profile id to be set")
	}
	if created.PasswordHash != "" {
		t.Fatalf("expected password hash to be scrubbed from signup result")
	}

	signedIn, err := service.Signin(ctx, "a@x.com", "password123")
	if err != nil {
		t.Fatalf("signin: %v", err)
	}
	if signedIn.ID != created.ID {
		t.Fatalf("expected signin to yield the signed-up profile, got %q want %q", signedIn.ID, created.ID)
	}
	if signedIn.PasswordHash != "" {
		t.Fatalf("expected password hash to be scrubbed from signin result")
	}
}

func TestSignupValidatesBeforeStorage(t *testing.T) {
	repo := newFakeProfileRepo()
	service := NewAuthService(repo, auth.NewPasswordHasher())

	_, err := service.Signup(context.Background(), "a!", "nope", "x")
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"username", "email", "password"} {
		if validationErr.Fields[field] == "" {
			t.Fatalf("expected error for field %q, got %v", field, validationErr.Fields)
		}
	}
	if len(repo.profiles) != 0 {
		t.Fatalf("expected no profile to be stored")
	}
}

func TestSignupUniqueness(t *testing.T) {
	service, _ := newTestAuthService()
	ctx := context.Background()

	if _, err := service.Signup(ctx, "alice", "a@x.com", "password123"); err != nil {
		t.Fatalf("signup: %v", err)
	}

	// Same username, different email.
	if _, err := service.Signup(ctx, "alice", "b@x.com", "password123"); !errors.Is(err, store.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	// Same email, different username.
	if _, err := service.Signup(ctx, "bob", "a@x.com", "password123"); !errors.Is(err, store.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestSigninFailuresAreUniform(t *testing.T) {
	service, _ := newTestAuthService()
	ctx := context.Background()

	if _, err := service.Signup(ctx, "alice", "a@x.com", "password123"); err != nil {
		t.Fatalf("signup: %v", err)
	}

	_, wrongPassword := service.Signin(ctx, "a@x.com", "wrong")
	_, unknownEmail := service.Signin(ctx, "nobody@x.com", "password123")

	if !errors.Is(wrongPassword, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", wrongPassword)
	}
	if !errors.Is(unknownEmail, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", unknownEmail)
	}
	if wrongPassword.Error() != unknownEmail.Error() {
		t.Fatalf("expected indistinguishable signin failures, got %q vs %q", wrongPassword, unknownEmail)
	}
}

func TestGetByIDScrubsHash(t *testing.T) {
	service, _ := newTestAuthService()
	ctx := context.Background()

	created, err := service.Signup(ctx, "alice", "a@x.com", "password123")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	loaded, err := service.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if loaded.PasswordHash != "" {
		t.Fatalf("expected password hash to be scrubbed")
	}

	if _, err := service.GetByID(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

package store

import (
	"errors"

	"github.com/lib/pq"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrUsernameTaken is returned when a profile insert collides on username.
var ErrUsernameTaken = errors.New("username is already taken")

// ErrEmailTaken is returned when a profile insert collides on email.
var ErrEmailTaken = errors.New("email is already registered")

const uniqueViolationCode = "23505"

// mapProfileConflict translates Postgres unique-constraint violations on the
// profiles table into the typed errors callers branch on. The constraint is
// the authoritative guard against concurrent signups racing the pre-insert
// uniqueness checks.
func mapProfileConflict(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != uniqueViolationCode {
		return err
	}
	switch pqErr.Constraint {
	case "profiles_username_key":
		return ErrUsernameTaken
	case "profiles_email_key":
		return ErrEmailTaken
	}
	return err
}

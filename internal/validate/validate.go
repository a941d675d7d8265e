// Package validate checks the shape of user-submitted form values before
// anything touches storage. Failures come back keyed by field name so the
// client can highlight the offending input.
package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinUsernameLen = 3
	MaxUsernameLen = 20
	MinPasswordLen = 8
	MaxTweetLen    = 140
	MaxBioLen      = 160
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// FieldErrors maps a form field name to its validation message.
type FieldErrors map[string]string

// Any reports whether any field failed validation.
func (e FieldErrors) Any() bool { return len(e) > 0 }

// Signup validates the signup form. An empty result means all fields passed.
func Signup(username, email, password string) FieldErrors {
	errs := FieldErrors{}

	switch {
	case utf8.RuneCountInString(username) < MinUsernameLen:
		errs["username"] = "Username must be at least 3 characters"
	case utf8.RuneCountInString(username) > MaxUsernameLen:
		errs["username"] = "Username must be at most 20 characters"
	case !usernamePattern.MatchString(username):
		errs["username"] = "Username can only contain letters, numbers, and underscores"
	}

	if !emailPattern.MatchString(email) {
		errs["email"] = "Invalid email address"
	}

	if utf8.RuneCountInString(password) < MinPasswordLen {
		errs["password"] = "Password must be at least 8 characters"
	}

	return errs
}

// Signin validates the signin form shape only; it says nothing about
// whether the credentials are correct.
func Signin(email, password string) FieldErrors {
	errs := FieldErrors{}
	if !emailPattern.MatchString(email) {
		errs["email"] = "Invalid email address"
	}
	if password == "" {
		errs["password"] = "Password is required"
	}
	return errs
}

// TweetContent trims the content and validates its length, returning the
// trimmed text alongside any field error.
func TweetContent(content string) (string, FieldErrors) {
	errs := FieldErrors{}
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		errs["content"] = "Tweet cannot be empty"
	} else if utf8.RuneCountInString(trimmed) > MaxTweetLen {
		errs["content"] = "Tweet must be 140 characters or fewer"
	}
	return trimmed, errs
}

// Bio validates an optional profile bio.
func Bio(bio string) FieldErrors {
	errs := FieldErrors{}
	if utf8.RuneCountInString(bio) > MaxBioLen {
		errs["bio"] = "Bio must be 160 characters or fewer"
	}
	return errs
}

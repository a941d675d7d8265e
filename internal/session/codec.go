// Package session implements the signed cookie that carries the one
// session claim: the authenticated profile id. The codec is stateless;
// it never touches storage, and a cookie that fails verification is
// indistinguishable from no cookie at all.
package session

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MaxAge is how long an issued session stays valid.
const MaxAge = 30 * 24 * time.Hour

// Codec signs and verifies session cookie values.
//
// It holds a list of secrets so the signing secret can be rotated without
// invalidating every outstanding session at once: new sessions are signed
// with the first secret, and verification is attempted against each secret
// in order.
type Codec struct {
	secrets [][]byte
	maxAge  time.Duration
}

// NewCodec constructs a Codec from one or more secrets. At least one
// non-empty secret is required.
func NewCodec(secrets []string) (*Codec, error) {
	keys := make([][]byte, 0, len(secrets))
	for _, s := range secrets {
		if strings.TrimSpace(s) == "" {
			continue
		}
		keys = append(keys, []byte(s))
	}
	if len(keys) == 0 {
		return nil, errors.New("session: at least one secret is required")
	}
	return &Codec{secrets: keys, maxAge: MaxAge}, nil
}

// Encode produces a signed cookie value whose subject is the profile id.
func (c *Codec) Encode(profileID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   profileID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.maxAge)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secrets[0])
}

// Decode extracts the profile id from a cookie value. It returns ok=false
// for any value that is missing, tampered with, expired, or signed with an
// unknown secret; callers treat all of those the same as anonymous.
func (c *Codec) Decode(value string) (string, bool) {
	if strings.TrimSpace(value) == "" {
		return "", false
	}
	for _, secret := range c.secrets {
		subject, err := parseSubject(value, secret)
		if err == nil {
			return subject, true
		}
	}
	return "", false
}

func parseSubject(value string, secret []byte) (string, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(value, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return secret, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}
	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return "", errors.New("missing subject")
	}
	return subject, nil
}

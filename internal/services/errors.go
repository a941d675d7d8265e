package services

import (
	"errors"

	"github.com/tweeter-app/server/internal/validate"
)

// ErrInvalidCredentials is returned for every signin failure. An unknown
// email and a wrong password are deliberately indistinguishable so the
// response cannot be used to enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrForbidden is returned when an authenticated profile attempts to mutate
// a resource it does not own. The mutation is rejected before any write.
var ErrForbidden = errors.New("not authorized")

// ValidationError carries field-keyed validation failures back to the
// handler layer for inline display.
type ValidationError struct {
	Fields validate.FieldErrors
}

func (e *ValidationError) Error() string { return "validation failed" }

// canMutate is the ownership check gating every mutation of an owned
// resource: only the owner may change or delete it.
func canMutate(actorID, ownerID string) bool {
	return actorID == ownerID
}

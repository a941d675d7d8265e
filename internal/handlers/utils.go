package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tweeter-app/server/internal/validate"
	"github.com/tweeter-app/server/types"
)

type contextKey string

const contextProfileKey contextKey = "profile"

// ErrorResponse is the generic error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FieldErrorResponse carries per-field validation messages for inline display.
type FieldErrorResponse struct {
	Errors validate.FieldErrors `json:"errors"`
}

func profileFromContext(ctx context.Context) (types.Profile, bool) {
	profile, ok := ctx.Value(contextProfileKey).(types.Profile)
	return profile, ok
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

func writeFieldErrors(w http.ResponseWriter, status int, fieldErrs validate.FieldErrors) {
	writeJSON(w, status, FieldErrorResponse{Errors: fieldErrs})
}

// Healthz reports liveness.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

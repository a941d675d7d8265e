package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/tweeter-app/server/internal/services"
	"github.com/tweeter-app/server/internal/session"
	"github.com/tweeter-app/server/internal/store"
	"github.com/tweeter-app/server/internal/validate"
)

const signinPath = "/signin"

// AuthHandler provides the signup, signin, and signout endpoints plus the
// per-request identity resolution middleware.
type AuthHandler struct {
	authService   *services.AuthService
	codec         *session.Codec
	secureCookies bool
}

// NewAuthHandler constructs an AuthHandler with the provided dependencies.
func NewAuthHandler(authService *services.AuthService, codec *session.Codec, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		codec:         codec,
		secureCookies: secureCookies,
	}
}

// AuthRouter registers the auth routes on the given router.
func AuthRouter(r chi.Router, handler *AuthHandler) {
	r.Post("/signup", handler.Signup)
	r.Post("/signin", handler.Signin)
	r.Post("/signout", handler.SignOut)
}

// RequireAuth resolves the session cookie into a profile and injects it into
// the request context. A request with no session, a tampered session, or a
// session referencing a deleted profile never reaches the next handler; it
// is redirected to the signin page instead. The stale-profile case also
// clears the cookie so the next request arrives anonymous.
func (h *AuthHandler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := h.codec.Decode(session.FromRequest(r))
		if !ok {
			http.Redirect(w, r, signinPath, http.StatusSeeOther)
			return
		}

		profile, err := h.authService.GetByID(r.Context(), profileID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				session.ClearCookie(w, h.secureCookies)
				http.Redirect(w, r, signinPath, http.StatusSeeOther)
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to load profile")
			return
		}

		ctx := context.WithValue(r.Context(), contextProfileKey, profile)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithOptionalProfile resolves the session like RequireAuth but lets
// anonymous requests through without a redirect, for pages that render
// differently for signed-out visitors.
func (h *AuthHandler) WithOptionalProfile(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profileID, ok := h.codec.Decode(session.FromRequest(r))
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		profile, err := h.authService.GetByID(r.Context(), profileID)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), contextProfileKey, profile)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Signup creates a new profile and signs the browser in.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	username := strings.TrimSpace(r.PostFormValue("username"))
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	profile, err := h.authService.Signup(r.Context(), username, email, password)
	if err != nil {
		var validationErr *services.ValidationError
		switch {
		case errors.As(err, &validationErr):
			writeFieldErrors(w, http.StatusBadRequest, validationErr.Fields)
		case errors.Is(err, store.ErrUsernameTaken):
			writeFieldErrors(w, http.StatusBadRequest, validate.FieldErrors{"username": "Username is already taken"})
		case errors.Is(err, store.ErrEmailTaken):
			writeFieldErrors(w, http.StatusBadRequest, validate.FieldErrors{"email": "Email is already registered"})
		default:
			writeError(w, http.StatusInternalServerError, "failed to create account")
		}
		return
	}

	h.createUserSession(w, r, profile.ID, "/")
}

// Signin verifies credentials and signs the browser in. Unknown email and
// wrong password produce the same response.
func (h *AuthHandler) Signin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	profile, err := h.authService.Signin(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			writeError(w, http.StatusBadRequest, "Invalid email or password")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to sign in")
		return
	}

	h.createUserSession(w, r, profile.ID, "/")
}

// SignOut clears the session cookie, whether or not it was valid, and sends
// the browser home.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	session.ClearCookie(w, h.secureCookies)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// createUserSession issues a fresh session cookie bound to the profile id
// and redirects to the destination path.
func (h *AuthHandler) createUserSession(w http.ResponseWriter, r *http.Request, profileID, redirectTo string) {
	value, err := h.codec.Encode(profileID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}
	session.SetCookie(w, value, h.secureCookies)
	http.Redirect(w, r, redirectTo, http.StatusSeeOther)
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tweeter-app/server/internal/services"
	"github.com/tweeter-app/server/internal/store"
)

const maxMultipartMemory = 4 << 20

// ProfileHandler provides the profile page and profile edit endpoints.
type ProfileHandler struct {
	profileService *services.ProfileService
}

// NewProfileHandler constructs a ProfileHandler with the provided dependencies.
func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// ProfileRouter registers profile routes on the given router. All of them
// require an authenticated viewer.
func ProfileRouter(r chi.Router, handler *ProfileHandler, auth *AuthHandler) {
	r.Route("/profile", func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Post("/edit", handler.Edit)
		r.Get("/{username}", handler.Show)
	})
}

// Show renders a profile page by username with that profile's tweets.
func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	viewer, ok := profileFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	username := chi.URLParam(r, "username")
	page, err := h.profileService.Page(r.Context(), username, viewer.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// Edit updates the authenticated profile's bio and, when a file is attached,
// its avatar. On success the browser is sent back to the profile page.
func (h *ProfileHandler) Edit(w http.ResponseWriter, r *http.Request) {
	viewer, ok := profileFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		if !errors.Is(err, http.ErrNotMultipart) {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
	}

	var avatar *services.AvatarUpload
	if file, header, err := r.FormFile("avatar"); err == nil && header.Size > 0 {
		defer file.Close()
		avatar = &services.AvatarUpload{
			Reader:      file,
			Size:        header.Size,
			ContentType: header.Header.Get("Content-Type"),
		}
	}

	bio := r.FormValue("bio")
	updated, err := h.profileService.UpdateDisplay(r.Context(), viewer.ID, viewer.ID, bio, avatar)
	if err != nil {
		var validationErr *services.ValidationError
		switch {
		case errors.As(err, &validationErr):
			writeFieldErrors(w, http.StatusBadRequest, validationErr.Fields)
		case errors.Is(err, services.ErrForbidden):
			writeError(w, http.StatusForbidden, "not authorized")
		default:
			writeError(w, http.StatusInternalServerError, "failed to update profile")
		}
		return
	}

	http.Redirect(w, r, "/profile/"+updated.Username, http.StatusSeeOther)
}

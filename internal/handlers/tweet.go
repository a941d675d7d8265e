package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tweeter-app/server/internal/services"
	"github.com/tweeter-app/server/internal/store"
	"github.com/tweeter-app/server/types"
)

// TweetHandler provides the timeline and tweet mutation endpoints.
type TweetHandler struct {
	tweetService *services.TweetService
}

// NewTweetHandler constructs a TweetHandler with the provided dependencies.
func NewTweetHandler(tweetService *services.TweetService) *TweetHandler {
	return &TweetHandler{tweetService: tweetService}
}

// TweetRouter registers timeline and tweet routes on the given router.
func TweetRouter(r chi.Router, handler *TweetHandler, auth *AuthHandler) {
	r.With(auth.WithOptionalProfile).Get("/", handler.Timeline)
	r.Route("/tweets", func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Post("/", handler.Create)
		r.Post("/{tweetID}/like", handler.ToggleLike)
		r.Post("/{tweetID}/delete", handler.Delete)
	})
}

// TimelineResponse is the home feed payload. User is null for anonymous
// visitors, who get the landing page and no tweets.
type TimelineResponse struct {
	User   *types.Profile        `json:"user"`
	Tweets []types.TimelineTweet `json:"tweets"`
}

// Timeline renders the home feed for the current viewer.
func (h *TweetHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	profile, ok := profileFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, TimelineResponse{Tweets: []types.TimelineTweet{}})
		return
	}

	tweets, err := h.tweetService.Timeline(r.Context(), profile.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load timeline")
		return
	}

	writeJSON(w, http.StatusOK, TimelineResponse{User: &profile, Tweets: tweets})
}

// Create posts a new tweet for the authenticated profile.
func (h *TweetHandler) Create(w http.ResponseWriter, r *http.Request) {
	profile, ok := profileFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	if _, err := h.tweetService.Post(r.Context(), profile.ID, r.PostFormValue("content")); err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			writeFieldErrors(w, http.StatusBadRequest, validationErr.Fields)
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to post tweet")
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ToggleLike likes or unlikes a tweet for the authenticated profile.
func (h *TweetHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	profile, ok := profileFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	tweetID := chi.URLParam(r, "tweetID")
	liked, err := h.tweetService.ToggleLike(r.Context(), profile.ID, tweetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "tweet not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to toggle like")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"liked": liked})
}

// Delete removes one of the authenticated profile's own tweets. Attempting
// to delete someone else's tweet is rejected before anything changes.
func (h *TweetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	profile, ok := profileFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	tweetID := chi.URLParam(r, "tweetID")
	if err := h.tweetService.Delete(r.Context(), profile.ID, tweetID); err != nil {
		switch {
		case errors.Is(err, services.ErrForbidden):
			writeError(w, http.StatusForbidden, "not authorized")
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "tweet not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to delete tweet")
		}
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

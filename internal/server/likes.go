// ABOUTME: HTTP handlers for the like toggle, like status, and the likers list
// ABOUTME: Shared between article and project routes

package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/kaede/portfolio-api/internal/auth"
	"github.com/kaede/portfolio-api/internal/store"
)

// LikeToggleResponse is the JSON response for POST .../{id}/like.
type LikeToggleResponse struct {
	LikeCount int  `json:"likeCount"`
	IsLiked   bool `json:"isLiked"`
}

// LikeStatusResponse is the JSON response for GET .../{id}/like-status.
type LikeStatusResponse struct {
	IsLiked bool `json:"isLiked"`
}

// LikerResponse is one entry in the likers list.
type LikerResponse struct {
	Username string `json:"username"`
	LikedAt  string `json:"likedAt"`
}

// handleToggleLike handles POST .../{id}/like requests. The policy guarantees
// an identity is attached by the time this runs.
func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request, resourceType string, id int64) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	identity := auth.FromContext(r.Context())
	if identity == nil {
		s.sendJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	count, liked, err := s.store.ToggleLike(r.Context(), resourceType, id, identity.Subject)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			s.sendJSONError(w, http.StatusNotFound, "resource not found")
		case errors.Is(err, store.ErrDuplicateLike):
			// A concurrent toggle from the same user won the race.
			s.sendJSONError(w, http.StatusConflict, "like already recorded")
		default:
			s.logger.Error("failed to toggle like", "error", err)
			s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	s.writeJSON(w, http.StatusOK, LikeToggleResponse{LikeCount: count, IsLiked: liked})
}

// handleLikeStatus handles GET .../{id}/like-status requests.
// Anonymous callers always get false.
func (s *Server) handleLikeStatus(w http.ResponseWriter, r *http.Request, resourceType string, id int64) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	identity := auth.FromContext(r.Context())
	if identity == nil {
		s.writeJSON(w, http.StatusOK, LikeStatusResponse{IsLiked: false})
		return
	}

	liked, err := s.store.LikeStatus(r.Context(), resourceType, id, identity.Subject)
	if err != nil {
		s.logger.Error("failed to query like status", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.writeJSON(w, http.StatusOK, LikeStatusResponse{IsLiked: liked})
}

// handleListLikers handles GET .../{id}/likes-list requests. Admin only by
// policy.
func (s *Server) handleListLikers(w http.ResponseWriter, r *http.Request, resourceType string, id int64) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	records, err := s.store.ListLikers(r.Context(), resourceType, id)
	if err != nil {
		s.logger.Error("failed to list likers", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	response := make([]LikerResponse, 0, len(records))
	for _, rec := range records {
		response = append(response, LikerResponse{
			Username: rec.Subject,
			LikedAt:  rec.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	s.writeJSON(w, http.StatusOK, response)
}

// ABOUTME: HTTP handlers for article comments
// ABOUTME: Deletion is gated to admins at the policy layer

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kaede/portfolio-api/internal/auth"
	"github.com/kaede/portfolio-api/internal/store"
)

// CommentResponse is the JSON shape for a comment.
type CommentResponse struct {
	ID             int64  `json:"id"`
	Content        string `json:"content"`
	ArticleID      int64  `json:"articleId"`
	ParentID       *int64 `json:"parentId,omitempty"`
	Username       string `json:"username"`
	ParentUsername string `json:"parentUsername,omitempty"`
	CreatedAt      string `json:"createdAt"`
}

// SaveCommentRequest is the JSON request body for POST /api/comments/save.
type SaveCommentRequest struct {
	Content   string `json:"content"`
	ArticleID int64  `json:"articleId"`
	ParentID  *int64 `json:"parentId,omitempty"`
}

// handleCommentRoutes dispatches /api/comments/* subroutes.
func (s *Server) handleCommentRoutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/comments/")

	if rest == "save" {
		s.handleSaveComment(w, r)
		return
	}

	if articleIDStr, ok := strings.CutPrefix(rest, "article/"); ok {
		articleID, err := strconv.ParseInt(articleIDStr, 10, 64)
		if err != nil {
			s.sendJSONError(w, http.StatusBadRequest, "invalid article id")
			return
		}
		s.handleListComments(w, r, articleID)
		return
	}

	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid comment id")
		return
	}
	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.handleDeleteComment(w, r, id)
}

// handleListComments handles GET /api/comments/article/{id} requests.
func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request, articleID int64) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	comments, err := s.store.ListCommentsByArticle(r.Context(), articleID)
	if err != nil {
		s.logger.Error("failed to list comments", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	response := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		response = append(response, CommentResponse{
			ID:             c.ID,
			Content:        c.Content,
			ArticleID:      c.ArticleID,
			ParentID:       c.ParentID,
			Username:       c.Username,
			ParentUsername: c.ParentUsername,
			CreatedAt:      c.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	s.writeJSON(w, http.StatusOK, response)
}

// handleSaveComment handles POST /api/comments/save requests. The policy
// guarantees an identity; the comment is attributed to it, never to a
// client-supplied user field.
func (s *Server) handleSaveComment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	identity := auth.FromContext(r.Context())
	if identity == nil {
		s.sendJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req SaveCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Content == "" || req.ArticleID == 0 {
		s.sendJSONError(w, http.StatusBadRequest, "content and articleId are required")
		return
	}

	user, err := s.store.GetUserByUsername(r.Context(), identity.Subject)
	if err != nil {
		// The token outlived the account.
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusUnauthorized, "unknown user")
			return
		}
		s.logger.Error("failed to look up commenter", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if _, err := s.store.GetArticle(r.Context(), req.ArticleID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "article not found")
			return
		}
		s.logger.Error("failed to check article", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	c := &store.Comment{
		Content:   req.Content,
		ArticleID: req.ArticleID,
		UserID:    user.ID,
		ParentID:  req.ParentID,
	}
	if err := s.store.CreateComment(r.Context(), c); err != nil {
		s.logger.Error("failed to create comment", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.logger.Info("comment created", "comment_id", c.ID, "article_id", c.ArticleID, "username", user.Username)
	s.writeJSON(w, http.StatusCreated, CommentResponse{
		ID:        c.ID,
		Content:   c.Content,
		ArticleID: c.ArticleID,
		ParentID:  c.ParentID,
		Username:  user.Username,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// handleDeleteComment handles DELETE /api/comments/{id} requests.
// The policy admits only admins; the handler additionally accepts the
// comment's author so the check holds even without the policy in front.
func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request, id int64) {
	identity := auth.FromContext(r.Context())
	if identity == nil {
		s.sendJSONError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	c, err := s.store.GetComment(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "comment not found")
			return
		}
		s.logger.Error("failed to get comment", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if !identity.IsAdmin() {
		author, err := s.store.GetUserByUsername(r.Context(), identity.Subject)
		if err != nil || author.ID != c.UserID {
			s.sendJSONError(w, http.StatusForbidden, "not the comment author")
			return
		}
	}

	if err := s.store.DeleteComment(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "comment not found")
			return
		}
		s.logger.Error("failed to delete comment", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.logger.Info("comment deleted", "comment_id", id, "by", identity.Subject)
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

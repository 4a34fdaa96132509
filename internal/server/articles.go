// ABOUTME: HTTP handlers for article listing, detail, and management
// ABOUTME: Detail reads render markdown to HTML; list responses carry the summary only

package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kaede/portfolio-api/internal/store"
)

// ArticleSummaryResponse is the JSON shape for an article in list responses.
type ArticleSummaryResponse struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Category  string `json:"category"`
	CoverURL  string `json:"coverUrl"`
	ViewCount int    `json:"viewCount"`
	LikeCount int    `json:"likeCount"`
	CreatedAt string `json:"createdAt"`
}

// ArticleDetailResponse is the JSON shape for a single article. Content is the
// markdown source; ContentHTML is the rendered form.
type ArticleDetailResponse struct {
	ArticleSummaryResponse
	Content     string `json:"content"`
	ContentHTML string `json:"contentHtml"`
	UpdatedAt   string `json:"updatedAt"`
}

// SaveArticleRequest is the JSON request body for POST /api/articles/save.
// A zero ID creates; a non-zero ID updates.
type SaveArticleRequest struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
	Content  string `json:"content"`
	Category string `json:"category"`
	CoverURL string `json:"coverUrl"`
}

func articleSummary(a *store.Article) ArticleSummaryResponse {
	return ArticleSummaryResponse{
		ID:        a.ID,
		Title:     a.Title,
		Summary:   a.Summary,
		Category:  a.Category,
		CoverURL:  a.CoverURL,
		ViewCount: a.ViewCount,
		LikeCount: a.LikeCount,
		CreatedAt: a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// handleListArticles handles GET /api/articles requests.
func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	articles, err := s.store.ListArticles(r.Context())
	if err != nil {
		s.logger.Error("failed to list articles", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	response := make([]ArticleSummaryResponse, 0, len(articles))
	for _, a := range articles {
		response = append(response, articleSummary(a))
	}
	s.writeJSON(w, http.StatusOK, response)
}

// handleArticleRoutes dispatches /api/articles/* subroutes.
func (s *Server) handleArticleRoutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/articles/")

	if rest == "save" {
		s.handleSaveArticle(w, r)
		return
	}

	parts := strings.Split(rest, "/")
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid article id")
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			s.handleGetArticle(w, r, id)
		case http.MethodDelete:
			s.handleDeleteArticle(w, r, id)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	if len(parts) == 2 {
		switch parts[1] {
		case "like":
			s.handleToggleLike(w, r, store.ResourceArticle, id)
			return
		case "like-status":
			s.handleLikeStatus(w, r, store.ResourceArticle, id)
			return
		case "likes-list":
			s.handleListLikers(w, r, store.ResourceArticle, id)
			return
		}
	}

	s.sendJSONError(w, http.StatusNotFound, "not found")
}

// handleGetArticle handles GET /api/articles/{id} requests.
// The markdown content is rendered to HTML per request; articles are small
// enough that caching would buy nothing.
func (s *Server) handleGetArticle(w http.ResponseWriter, r *http.Request, id int64) {
	a, err := s.store.GetArticle(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "article not found")
			return
		}
		s.logger.Error("failed to get article", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	var html bytes.Buffer
	if err := s.markdown.Convert([]byte(a.Content), &html); err != nil {
		s.logger.Error("failed to render article markdown", "article_id", id, "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.writeJSON(w, http.StatusOK, ArticleDetailResponse{
		ArticleSummaryResponse: articleSummary(a),
		Content:                a.Content,
		ContentHTML:            html.String(),
		UpdatedAt:              a.UpdatedAt.UTC().Format(time.RFC3339),
	})
}

// handleSaveArticle handles POST /api/articles/save requests.
func (s *Server) handleSaveArticle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req SaveArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Title == "" {
		s.sendJSONError(w, http.StatusBadRequest, "title is required")
		return
	}

	a := &store.Article{
		ID:       req.ID,
		Title:    req.Title,
		Summary:  req.Summary,
		Content:  req.Content,
		Category: req.Category,
		CoverURL: req.CoverURL,
	}

	if a.ID == 0 {
		if err := s.store.CreateArticle(r.Context(), a); err != nil {
			s.logger.Error("failed to create article", "error", err)
			s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		s.logger.Info("article created", "article_id", a.ID, "title", a.Title)
		s.writeJSON(w, http.StatusCreated, articleSummary(a))
		return
	}

	if err := s.store.UpdateArticle(r.Context(), a); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "article not found")
			return
		}
		s.logger.Error("failed to update article", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	s.logger.Info("article updated", "article_id", a.ID)
	s.writeJSON(w, http.StatusOK, articleSummary(a))
}

// handleDeleteArticle handles DELETE /api/articles/{id} requests.
func (s *Server) handleDeleteArticle(w http.ResponseWriter, r *http.Request, id int64) {
	if err := s.store.DeleteArticle(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "article not found")
			return
		}
		s.logger.Error("failed to delete article", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	s.logger.Info("article deleted", "article_id", id)
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ABOUTME: HTTP handlers for project listing, search, detail, and management
// ABOUTME: Detail reads bump the view counter; writes are admin-gated by policy

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kaede/portfolio-api/internal/store"
)

// ProjectResponse is the JSON shape for a project.
type ProjectResponse struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	CoverURL      string `json:"coverUrl"`
	MediaURL      string `json:"mediaUrl"`
	MediaType     string `json:"mediaType"`
	AttachmentURL string `json:"attachmentUrl"`
	ViewCount     int    `json:"viewCount"`
	LikeCount     int    `json:"likeCount"`
	CreatedAt     string `json:"createdAt"`
}

// SaveProjectRequest is the JSON request body for POST /api/projects/save.
// A zero ID creates; a non-zero ID updates.
type SaveProjectRequest struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	CoverURL      string `json:"coverUrl"`
	MediaURL      string `json:"mediaUrl"`
	MediaType     string `json:"mediaType"`
	AttachmentURL string `json:"attachmentUrl"`
}

func projectResponse(p *store.Project) ProjectResponse {
	return ProjectResponse{
		ID:            p.ID,
		Title:         p.Title,
		Description:   p.Description,
		Category:      p.Category,
		CoverURL:      p.CoverURL,
		MediaURL:      p.MediaURL,
		MediaType:     p.MediaType,
		AttachmentURL: p.AttachmentURL,
		ViewCount:     p.ViewCount,
		LikeCount:     p.LikeCount,
		CreatedAt:     p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// handleListProjects handles GET /api/projects requests.
// Supports ?sort=likes to order by like count instead of recency.
func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	sortByLikes := r.URL.Query().Get("sort") == "likes"
	projects, err := s.store.ListProjects(r.Context(), sortByLikes)
	if err != nil {
		s.logger.Error("failed to list projects", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	response := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		response = append(response, projectResponse(p))
	}
	s.writeJSON(w, http.StatusOK, response)
}

// handleProjectRoutes dispatches /api/projects/* subroutes.
func (s *Server) handleProjectRoutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/projects/")

	switch {
	case rest == "search":
		s.handleSearchProjects(w, r)
		return
	case rest == "save":
		s.handleSaveProject(w, r)
		return
	}

	parts := strings.Split(rest, "/")
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			s.handleGetProject(w, r, id)
		case http.MethodDelete:
			s.handleDeleteProject(w, r, id)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	if len(parts) == 2 {
		switch parts[1] {
		case "like":
			s.handleToggleLike(w, r, store.ResourceProject, id)
			return
		case "like-status":
			s.handleLikeStatus(w, r, store.ResourceProject, id)
			return
		case "likes-list":
			s.handleListLikers(w, r, store.ResourceProject, id)
			return
		}
	}

	s.sendJSONError(w, http.StatusNotFound, "not found")
}

// handleSearchProjects handles GET /api/projects/search?keyword=X requests.
func (s *Server) handleSearchProjects(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	keyword := r.URL.Query().Get("keyword")
	if keyword == "" {
		s.sendJSONError(w, http.StatusBadRequest, "keyword is required")
		return
	}

	projects, err := s.store.SearchProjects(r.Context(), keyword)
	if err != nil {
		s.logger.Error("failed to search projects", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	response := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		response = append(response, projectResponse(p))
	}
	s.writeJSON(w, http.StatusOK, response)
}

// handleGetProject handles GET /api/projects/{id} requests.
// Every successful read counts as a view.
func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request, id int64) {
	p, err := s.store.GetProject(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "project not found")
			return
		}
		s.logger.Error("failed to get project", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := s.store.IncrementProjectViews(r.Context(), id); err != nil {
		// View counting is best effort; the read still succeeds.
		s.logger.Warn("failed to count project view", "project_id", id, "error", err)
	} else {
		p.ViewCount++
	}

	s.writeJSON(w, http.StatusOK, projectResponse(p))
}

// handleSaveProject handles POST /api/projects/save requests.
func (s *Server) handleSaveProject(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req SaveProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Title == "" {
		s.sendJSONError(w, http.StatusBadRequest, "title is required")
		return
	}

	p := &store.Project{
		ID:            req.ID,
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		CoverURL:      req.CoverURL,
		MediaURL:      req.MediaURL,
		MediaType:     req.MediaType,
		AttachmentURL: req.AttachmentURL,
	}

	if p.ID == 0 {
		if err := s.store.CreateProject(r.Context(), p); err != nil {
			s.logger.Error("failed to create project", "error", err)
			s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		s.logger.Info("project created", "project_id", p.ID, "title", p.Title)
		s.writeJSON(w, http.StatusCreated, projectResponse(p))
		return
	}

	if err := s.store.UpdateProject(r.Context(), p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "project not found")
			return
		}
		s.logger.Error("failed to update project", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	s.logger.Info("project updated", "project_id", p.ID)
	s.writeJSON(w, http.StatusOK, projectResponse(p))
}

// handleDeleteProject handles DELETE /api/projects/{id} requests.
func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request, id int64) {
	if err := s.store.DeleteProject(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "project not found")
			return
		}
		s.logger.Error("failed to delete project", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	s.logger.Info("project deleted", "project_id", id)
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ABOUTME: HTTP handlers for the career timeline
// ABOUTME: Listing is public; save and delete are admin-gated by policy

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/kaede/portfolio-api/internal/store"
)

// CareerResponse is the JSON shape for a career entry.
type CareerResponse struct {
	ID          int64  `json:"id"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	IsCurrent   bool   `json:"isCurrent"`
	Period      string `json:"period"`
	Company     string `json:"company"`
	Position    string `json:"position"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
}

// SaveCareerRequest is the JSON request body for POST /api/career/save.
type SaveCareerRequest struct {
	ID          int64  `json:"id"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	IsCurrent   bool   `json:"isCurrent"`
	Period      string `json:"period"`
	Company     string `json:"company"`
	Position    string `json:"position"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
}

func careerResponse(c *store.Career) CareerResponse {
	return CareerResponse{
		ID:          c.ID,
		StartDate:   c.StartDate,
		EndDate:     c.EndDate,
		IsCurrent:   c.IsCurrent,
		Period:      c.Period,
		Company:     c.Company,
		Position:    c.Position,
		Description: c.Description,
		Tags:        c.Tags,
	}
}

// handleCareerRoutes dispatches /api/career/* subroutes.
func (s *Server) handleCareerRoutes(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/career/")

	switch rest {
	case "list":
		s.handleListCareers(w, r)
		return
	case "save":
		s.handleSaveCareer(w, r)
		return
	}

	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid career id")
		return
	}
	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.handleDeleteCareer(w, r, id)
}

// handleListCareers handles GET /api/career/list requests.
func (s *Server) handleListCareers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	careers, err := s.store.ListCareers(r.Context())
	if err != nil {
		s.logger.Error("failed to list careers", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	response := make([]CareerResponse, 0, len(careers))
	for _, c := range careers {
		response = append(response, careerResponse(c))
	}
	s.writeJSON(w, http.StatusOK, response)
}

// handleSaveCareer handles POST /api/career/save requests.
func (s *Server) handleSaveCareer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req SaveCareerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Company == "" || req.Position == "" {
		s.sendJSONError(w, http.StatusBadRequest, "company and position are required")
		return
	}

	c := &store.Career{
		ID:          req.ID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		IsCurrent:   req.IsCurrent,
		Period:      req.Period,
		Company:     req.Company,
		Position:    req.Position,
		Description: req.Description,
		Tags:        req.Tags,
	}

	created := c.ID == 0
	if err := s.store.SaveCareer(r.Context(), c); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "career entry not found")
			return
		}
		s.logger.Error("failed to save career entry", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	s.logger.Info("career entry saved", "career_id", c.ID, "company", c.Company)
	s.writeJSON(w, status, careerResponse(c))
}

// handleDeleteCareer handles DELETE /api/career/{id} requests.
func (s *Server) handleDeleteCareer(w http.ResponseWriter, r *http.Request, id int64) {
	if err := s.store.DeleteCareer(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "career entry not found")
			return
		}
		s.logger.Error("failed to delete career entry", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	s.logger.Info("career entry deleted", "career_id", id)
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

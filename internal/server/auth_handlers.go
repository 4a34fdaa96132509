// ABOUTME: HTTP handlers for captcha issuance, registration, and login
// ABOUTME: Registration burns a challenge before touching the credential store

package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/kaede/portfolio-api/internal/auth"
	"github.com/kaede/portfolio-api/internal/store"
)

// CaptchaResponse is the JSON response for GET /api/auth/captcha.
type CaptchaResponse struct {
	UUID string `json:"uuid"`
	Img  string `json:"img"`
}

// RegisterRequest is the JSON request body for POST /api/auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	UUID     string `json:"uuid"`
	Answer   string `json:"answer"`
}

// LoginRequest is the JSON request body for POST /api/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the JSON response for a successful login.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// handleCaptcha handles GET /api/auth/captcha requests.
// It returns a fresh challenge id and the rendered image as a data URL.
func (s *Server) handleCaptcha(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	id, img, err := s.challenges.Issue()
	if err != nil {
		s.logger.Error("failed to issue challenge", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.writeJSON(w, http.StatusOK, CaptchaResponse{UUID: id, Img: img})
}

// handleRegister handles POST /api/auth/register requests.
// The captcha is consumed before any credential work, so a failed registration
// always costs the caller a fresh challenge.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	req, err := parseRegisterRequest(r.Body)
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !s.challenges.Consume(req.UUID, req.Answer) {
		s.sendJSONError(w, http.StatusBadRequest, "captcha verification failed")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	user := &store.User{
		Username:     req.Username,
		PasswordHash: hash,
		Role:         auth.RoleUser,
		CreatedAt:    time.Now(),
	}
	if err := s.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicateUser) {
			s.sendJSONError(w, http.StatusBadRequest, "username already exists")
			return
		}
		s.logger.Error("failed to create user", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.logger.Info("user registered", "username", user.Username)
	s.writeJSON(w, http.StatusCreated, map[string]string{"username": user.Username})
}

// handleLogin handles POST /api/auth/login requests.
// Unknown usernames and wrong passwords produce the same response.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Username == "" || req.Password == "" {
		s.sendJSONError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := s.store.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Error("failed to look up user", "error", err)
			s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		s.sendJSONError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.sendJSONError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}

	token, err := s.codec.Issue(user.Username, user.Role)
	if err != nil {
		s.logger.Error("failed to issue token", "error", err)
		s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.logger.Info("user logged in", "username", user.Username)
	s.writeJSON(w, http.StatusOK, LoginResponse{
		Token:    token,
		Username: user.Username,
		Role:     user.Role,
	})
}

// parseRegisterRequest parses and validates a RegisterRequest from the given reader.
func parseRegisterRequest(r io.Reader) (*RegisterRequest, error) {
	var req RegisterRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, errors.New("invalid JSON body")
	}
	if req.Username == "" || req.Password == "" {
		return nil, errors.New("username and password are required")
	}
	if req.UUID == "" || req.Answer == "" {
		return nil, errors.New("captcha uuid and answer are required")
	}
	return &req, nil
}

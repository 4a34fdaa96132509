// ABOUTME: HTTP server wiring for the portfolio API
// ABOUTME: Builds the middleware chain (CORS, auth gateway, access policy) and routes

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/kaede/portfolio-api/internal/auth"
	"github.com/kaede/portfolio-api/internal/captcha"
	"github.com/kaede/portfolio-api/internal/config"
	"github.com/kaede/portfolio-api/internal/store"
)

// ChallengeService issues and consumes one-shot human-verification
// challenges. Satisfied by *captcha.Service.
type ChallengeService interface {
	Issue() (id, imageB64 string, err error)
	Consume(id, attempt string) bool
	Close()
}

var _ ChallengeService = (*captcha.Service)(nil)

// Server is the portfolio API HTTP server. All request handling flows through
// the same chain: CORS, then the identity-enriching auth gateway, then the
// access policy, then the route handlers.
type Server struct {
	config     *config.Config
	store      store.Store
	codec      *auth.Codec
	challenges ChallengeService
	policy     *auth.Policy
	markdown   goldmark.Markdown
	logger     *slog.Logger
	httpServer *http.Server
}

// New creates a server wired to the given store and services.
func New(cfg *config.Config, st store.Store, codec *auth.Codec, challenges ChallengeService, logger *slog.Logger) *Server {
	s := &Server{
		config:     cfg,
		store:      st,
		codec:      codec,
		challenges: challenges,
		policy:     auth.NewPolicy(auth.DefaultRules()),
		markdown:   goldmark.New(goldmark.WithExtensions(extension.GFM)),
		logger:     logger.With("component", "server"),
	}

	mux := http.NewServeMux()

	// Health endpoints
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/health/ready", s.handleReady)

	// Auth endpoints
	mux.HandleFunc("/api/auth/captcha", s.handleCaptcha)
	mux.HandleFunc("/api/auth/register", s.handleRegister)
	mux.HandleFunc("/api/auth/login", s.handleLogin)

	// Content endpoints
	mux.HandleFunc("/api/projects", s.handleListProjects)
	mux.HandleFunc("/api/projects/", s.handleProjectRoutes)
	mux.HandleFunc("/api/articles", s.handleListArticles)
	mux.HandleFunc("/api/articles/", s.handleArticleRoutes)
	mux.HandleFunc("/api/career/", s.handleCareerRoutes)
	mux.HandleFunc("/api/comments/", s.handleCommentRoutes)

	// File endpoints
	mux.HandleFunc("/api/upload", s.handleUpload)
	mux.HandleFunc("/api/upload/", s.handleUpload)
	mux.HandleFunc("/api/download", s.handleDownload)
	mux.Handle("/uploads/", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(cfg.Uploads.Path))))

	// The auth gateway must run before the policy so identities are attached
	// when rules are evaluated.
	handler := corsMiddleware(cfg.CORS.AllowedOrigins)(
		auth.Middleware(codec)(
			s.policy.Middleware()(mux)))

	s.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Handler returns the fully wired HTTP handler. Used by tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run starts the HTTP server and blocks until the context is canceled.
// Returns nil on graceful shutdown, or an error if the server fails.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Server.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listening on HTTP address: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	var serverErr error
	select {
	case <-ctx.Done():
		s.logger.Info("context canceled, initiating shutdown")
	case serverErr = <-errCh:
		s.logger.Error("server error", "error", serverErr)
	}

	shutdownErr := s.gracefulShutdown()
	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// gracefulShutdown performs shutdown with a fresh context and timeout.
// Uses context.Background() intentionally since the original context is already canceled.
func (s *Server) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}

// Shutdown stops the HTTP server and releases held services.
func (s *Server) Shutdown(ctx context.Context) error {
	s.challenges.Close()
	return s.httpServer.Shutdown(ctx)
}

// handleHealth handles GET /health requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady handles GET /health/ready requests. Ready means the store
// answers queries.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.CountUsers(r.Context()); err != nil {
		s.logger.Error("readiness check failed", "error", err)
		s.sendJSONError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// writeJSON writes a JSON response with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// sendJSONError writes a JSON error response.
func (s *Server) sendJSONError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

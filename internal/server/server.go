// Package server provides the HTTP REST API for the class reporter.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonathan/class-reporter/internal/config"
	"github.com/jonathan/class-reporter/internal/db"
	"github.com/jonathan/class-reporter/internal/llm"
	"github.com/jonathan/class-reporter/internal/publish"
	"github.com/jonathan/class-reporter/internal/server/middleware"
	"github.com/jonathan/class-reporter/internal/types"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	archive    *db.DB
	llmClient  llm.Client
	publishers map[types.Destination]publish.Publisher
	limits     types.Limits
	precheck   bool
	jwtService *JWTService
}

// Config holds server configuration
type Config struct {
	Port              int
	APIKey            string
	DatabaseURL       string
	WorkspaceToken    string
	WorkspaceParentID string
	StaticDir         string
	StaticBaseURL     string
	Limits            types.Limits
	Precheck          bool
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := llm.NewClient(context.Background(), llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	s := &Server{
		llmClient:  client,
		publishers: make(map[types.Destination]publish.Publisher),
		limits:     cfg.Limits,
		precheck:   cfg.Precheck,
	}
	if (s.limits == types.Limits{}) {
		s.limits = types.DefaultLimits()
	}

	// Archive is optional; list/get endpoints report unavailable without it.
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(context.Background(), cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := database.Migrate(context.Background()); err != nil {
			database.Close()
			return nil, err
		}
		s.archive = database
	}

	if cfg.WorkspaceToken != "" && cfg.WorkspaceParentID != "" {
		pub, err := publish.NewWorkspacePublisher(cfg.WorkspaceToken, cfg.WorkspaceParentID)
		if err != nil {
			return nil, err
		}
		s.publishers[types.DestinationWorkspace] = pub
	}
	if cfg.StaticDir != "" {
		store := &publish.FSStore{Dir: cfg.StaticDir, BaseURL: cfg.StaticBaseURL}
		pub, err := publish.NewStaticPagePublisher(store)
		if err != nil {
			return nil, err
		}
		s.publishers[types.DestinationStaticPage] = pub
	}

	// Token auth is enabled when a JWT secret is configured.
	if os.Getenv("JWT_SECRET") != "" {
		jwtConfig, err := config.NewJWTConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create JWT config: %w", err)
		}
		s.jwtService = NewJWTService(jwtConfig)
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(s.routes())),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Generation and publishing can be slow
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the request router. Mutating report endpoints require auth
// when a JWT service is configured; reads and health stay open.
func (s *Server) routes() http.Handler {
	authed := func(h http.HandlerFunc) http.Handler {
		if s.jwtService == nil {
			return h
		}
		return middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(h)
	}

	mux := http.NewServeMux()
	mux.Handle("POST /reports", authed(s.handleCreateReport))
	mux.Handle("POST /reports/preview", authed(s.handlePreview))
	mux.HandleFunc("GET /reports", s.handleListReports)
	mux.HandleFunc("GET /reports/{id}", s.handleGetReport)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.archive != nil {
		s.archive.Close()
	}
	if s.llmClient != nil {
		_ = s.llmClient.Close()
	}
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// errorFor writes the response for a typed handler error
func (s *Server) errorFor(w http.ResponseWriter, err error) {
	s.errorResponse(w, HTTPStatus(err), err.Error())
}

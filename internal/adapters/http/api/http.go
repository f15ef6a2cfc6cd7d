// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/optiwork/internal/adapters/http/swagger"
	"github.com/okian/optiwork/internal/adapters/repository"
	"github.com/okian/optiwork/pkg/logger"
	"github.com/okian/optiwork/pkg/metrics"
)

// Error codes carried in errorResponse.Code.
const (
	codeBadRequest    = "bad_request"
	codeUnauthorized  = "unauthorized"
	codeNotFound      = "not_found"
	codeInternalError = "internal_error"
)

const (
	defaultVersion = "1.0.0"
	corsMaxAge     = 300
)

// Dependencies required by HTTP handlers.
type Dependencies = repository.Store

// Server wires HTTP routes for the business API.
type Server struct {
	store       Dependencies
	version     string
	corsOrigins []string
	liveFeed    http.Handler
	now         func() time.Time
	logger      logger.Logger
}

// NewServer creates a new API server backed by store.
func NewServer(store Dependencies, opts ...Option) *Server {
	s := &Server{
		store:   store,
		version: defaultVersion,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("api")
	}
	return s
}

// Handler builds the complete router: CORS and metrics middleware, every
// business route, the docs and the live feed.
func (s *Server) Handler(ctx context.Context) http.Handler {
	r := chi.NewRouter()
	r.Use(s.corsMiddleware())
	r.Use(MetricsMiddleware)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	})

	s.Register(ctx, r)
	swagger.Register(ctx, r)
	return r
}

func (s *Server) corsMiddleware() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions, http.MethodHead},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           corsMaxAge,
	})
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Post("/reset", s.handleReset)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	if s.liveFeed != nil {
		r.Method(http.MethodGet, "/ws", s.liveFeed)
	}

	r.Get("/users", s.handleListUsers)
	r.Get("/users/{id}", s.handleGetUser)
	r.Post("/login", s.handleLogin)

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", s.handleListTasks)
		r.Post("/", s.handleCreateTask)
		r.Get("/{id}", s.handleGetTask)
		r.Patch("/{id}", s.handleUpdateTask)
		r.Delete("/{id}", s.handleDeleteTask)
	})

	r.Get("/skills", s.handleListSkills)
	r.Get("/skills/{id}", s.handleGetSkill)
	r.Get("/reports", s.handleListReports)
	r.Get("/reports/{date}", s.handleGetReport)
	r.Get("/performance", s.handleListPerformance)
	r.Get("/performance/{employeeId}", s.handleGetPerformance)
	r.Get("/analytics", s.handleAnalytics)
	r.Get("/training-suggestions", s.handleListTraining)
	r.Get("/training-suggestions/{employeeId}", s.handleTrainingFor)
	r.Get("/skill-gaps", s.handleListSkillGaps)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type okResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeStoreError maps a store or handler error to its status code.
// Unauthorized responses never reveal which credential was wrong.
func (s *Server) writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, err)
	case errors.Is(err, repository.ErrUnauthorized), errors.Is(err, ErrUnauthorized):
		s.logger.Info(r.Context(), "login rejected", logger.Error(err))
		writeError(w, http.StatusUnauthorized, codeUnauthorized, ErrUnauthorized)
	case errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
	default:
		s.logger.Error(r.Context(), "request failed", logger.String("path", r.URL.Path), logger.Error(err))
		writeError(w, http.StatusInternalServerError, codeInternalError, err)
	}
}

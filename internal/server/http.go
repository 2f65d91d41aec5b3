package server

import (
	"context"
	"time"

	"careerfit/internal/ai"
	"careerfit/internal/career"
	"careerfit/internal/config"
	"careerfit/internal/errors"
	"careerfit/internal/observability"
	"careerfit/internal/store"
	"careerfit/internal/types"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// ProfileRequest is the body of PUT /profiles/{id}
type ProfileRequest struct {
	Skills []string `json:"skills" validate:"dive,required"`
}

// SelectionRequest is the body of POST /profiles/{id}/selections
type SelectionRequest struct {
	Role    string `json:"role" validate:"required"`
	Kind    string `json:"kind" validate:"required,oneof=career_path courses learning_path quiz"`
	Payload any    `json:"payload" validate:"required"`
}

// PlanRequest is the body of POST /plan
type PlanRequest struct {
	Role          string   `json:"role" validate:"required"`
	UserSkills    []string `json:"userSkills"`
	MissingSkills []string `json:"missingSkills" validate:"required,min=1,dive,required"`
}

// OracleStatus reports oracle health, implemented by ai.Service
type OracleStatus interface {
	GetModelInfo(ctx context.Context) map[string]*ai.ModelInfo
	Stats() map[string]any
}

// ProfileStore is the persistence used by the profile endpoints,
// implemented by store.Store
type ProfileStore interface {
	SaveSkills(ctx context.Context, userID string, skills []string) error
	LoadSkills(ctx context.Context, userID string) (types.Profile, error)
	SaveSelection(ctx context.Context, userID, role, kind string, payload any) (types.Selection, error)
	ListSelections(ctx context.Context, userID, kind string) ([]types.Selection, error)
}

var _ ProfileStore = (*store.Store)(nil)

// Deps are the services behind the HTTP API
type Deps struct {
	Scorer  *career.Scorer
	Oracle  career.Oracle
	Grader  *career.Grader
	Tracker *career.Tracker
	// Status is optional; health reports no model info without it.
	Status OracleStatus
	// Store is optional; profile endpoints answer 503 without it.
	Store ProfileStore
	Obs   *observability.ObservabilityManager
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	AppConfig *config.Config

	TLSConfig          config.TLSConfig
	CertificateManager *CertificateManager

	APIKeys map[string]bool

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	MaxRequestSize int64

	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	deps Deps

	Logger *errors.Logger
}

// NewServer creates a new Server from the application configuration
func NewServer(appCfg *config.Config, version string, deps Deps, logger *errors.Logger) *Server {
	cfg := appCfg.Server

	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	rateLimit := cfg.RateLimit
	var rateLimiter *RateLimiter
	if rateLimit.Enabled {
		rateLimiter = NewRateLimiter(rateLimit, logger)
	}

	if deps.Tracker == nil {
		deps.Tracker = career.NewTracker(0)
	}
	if deps.Grader == nil {
		deps.Grader = career.NewGrader(appCfg.Quiz, deps.Obs)
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        version,
		AppConfig:      appCfg,
		TLSConfig:      cfg.TLS,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      &rateLimit,
		RateLimiter:    rateLimiter,
		deps:           deps,
		Logger:         logger,
	}
}

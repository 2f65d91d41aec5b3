package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"careerfit/internal/common"
	"careerfit/internal/errors"
)

const healthCheckTimeout = 5 * time.Second

// healthHandler reports service health including oracle model status
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"status":  "healthy",
		"service": "careerfit",
		"version": s.Version,
	}
	overallHealthy := true

	if s.deps.Status != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		models := s.deps.Status.GetModelInfo(ctx)
		response["ai_models"] = models
		response["circuit_breakers"] = s.deps.Status.Stats()
		for _, info := range models {
			if info == nil || !info.Available {
				overallHealthy = false
			}
		}
	}

	if certStatus := s.checkCertificateHealth(); certStatus != nil {
		response["certificates"] = certStatus
		if healthy, _ := certStatus["healthy"].(bool); !healthy {
			overallHealthy = false
		}
	}

	status := http.StatusOK
	if !overallHealthy {
		response["status"] = "degraded"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, response)
}

// checkCertificateHealth checks the health of TLS certificates
func (s *Server) checkCertificateHealth() map[string]any {
	if s.CertificateManager == nil {
		return nil
	}

	certStatus := make(map[string]any)

	timeToExpiry, err := s.CertificateManager.CheckExpiry()
	if err != nil {
		certStatus["healthy"] = false
		certStatus["error"] = fmt.Sprintf("Failed to check certificate expiry: %v", err)
		return certStatus
	}

	const (
		criticalThreshold = 24 * time.Hour
		warningThreshold  = 7 * 24 * time.Hour
	)

	certStatus["time_to_expiry_hours"] = int(timeToExpiry.Hours())
	certStatus["time_to_expiry"] = timeToExpiry.String()

	switch {
	case timeToExpiry <= 0:
		certStatus["healthy"] = false
		certStatus["status"] = "expired"
	case timeToExpiry <= criticalThreshold:
		certStatus["healthy"] = false
		certStatus["status"] = "critical"
	case timeToExpiry <= warningThreshold:
		certStatus["healthy"] = true
		certStatus["status"] = "warning"
	default:
		certStatus["healthy"] = true
		certStatus["status"] = "ok"
	}

	certStatus["auto_reload"] = s.CertificateManager.Watching()
	certStatus["metrics"] = s.CertificateManager.GetMetrics()
	return certStatus
}

// statsHandler provides server statistics including rate limiting info
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"service": "careerfit",
		"version": s.Version,
		"server": map[string]any{
			"max_request_size_bytes": s.MaxRequestSize,
			"sessions":               s.deps.Tracker.Sessions(),
		},
	}

	if s.deps.Scorer != nil {
		response["weight_cache"] = s.deps.Scorer.CacheStats()
	}
	if s.deps.Status != nil {
		response["circuit_breakers"] = s.deps.Status.Stats()
	}

	if s.RateLimiter != nil {
		response["rate_limiting"] = s.RateLimiter.GetStats()
	} else {
		response["rate_limiting"] = map[string]any{"enabled": false}
	}

	if s.RateLimit != nil {
		response["rate_limit_config"] = map[string]any{
			"enabled":          s.RateLimit.Enabled,
			"requests_per_min": s.RateLimit.RequestsPerMin,
			"burst_capacity":   s.RateLimit.BurstCapacity,
			"by_ip":            s.RateLimit.ByIP,
			"by_api_key":       s.RateLimit.ByAPIKey,
		}
	}

	writeJSON(w, http.StatusOK, response)
}

// cacheBustHandler drops memoized oracle weights
func (s *Server) cacheBustHandler(w http.ResponseWriter, r *http.Request) {
	s.deps.Scorer.Bust()
	writeJSON(w, http.StatusOK, s.deps.Scorer.CacheStats())
}

// parseJSONRequest decodes the body into v, rejecting unknown fields, and
// checks v's validate tags
func parseJSONRequest(r *http.Request, v any) error {
	if r.Header.Get("Content-Type") != "application/json" {
		return errors.NewInvalidInputError("content-type must be application/json", nil)
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			return errors.NewInvalidInputError(
				fmt.Sprintf("request body too large (limit is %d bytes)", maxBytesErr.Limit), err)
		}
		return errors.NewIOError(errors.ErrCodeFileNotReadable, "failed to read request body", err)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.NewInvalidInputError("failed to parse JSON", err)
	}

	return common.ValidateStruct(v)
}

// statusForError maps the error taxonomy onto HTTP status codes
func statusForError(err error) int {
	switch {
	case errors.IsInvalidInput(err):
		return http.StatusBadRequest
	case errors.IsStaleResult(err):
		return http.StatusConflict
	case errors.HasCode(err, errors.ErrCodeNotFound):
		return http.StatusNotFound
	case errors.IsOracleUnavailable(err):
		return http.StatusServiceUnavailable
	case errors.IsUnparsable(err):
		return http.StatusBadGateway
	case stderrors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// writeAppError writes err with the status of its taxonomy
func (s *Server) writeAppError(w http.ResponseWriter, r *http.Request, title string, err error) {
	status := statusForError(err)
	code := ""
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		code = appErr.Code
	}

	if status >= http.StatusInternalServerError {
		s.Logger.LogError(err, title, "endpoint", r.URL.Path)
	} else {
		s.Logger.Debug(title, "endpoint", r.URL.Path, "error", err.Error())
	}
	writeErrorResponse(w, title, code, err.Error(), status)
}

// writeErrorResponse writes a standardized error response
func writeErrorResponse(w http.ResponseWriter, title, code, message string, statusCode int) {
	writeJSON(w, statusCode, ErrorResponse{Error: title, Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

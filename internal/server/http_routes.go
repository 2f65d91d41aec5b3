package server

import (
	"crypto/subtle"
	"net/http"
)

// route is one API endpoint. Public routes skip auth, rate and size limits.
type route struct {
	pattern string
	handler http.HandlerFunc
	public  bool
	summary string
}

func (s *Server) routes() []route {
	return []route{
		{"GET /health", s.healthHandler, true, "Health check"},
		{"GET /stats", s.statsHandler, true, "Server statistics"},

		{"POST /weights", s.weightsHandler(), false, "Assign skill weights to a role"},
		{"POST /match", s.matchHandler(), false, "Rank career paths for a skill set"},
		{"POST /courses", s.coursesHandler(), false, "Recommend courses for missing skills"},
		{"POST /learning-path", s.learningPathHandler(), false, "Generate a learning path"},
		{"POST /plan", s.planHandler(), false, "Courses and learning path together"},
		{"POST /quiz/grade", s.quizHandler, false, "Grade a quiz"},
		{"POST /cache/bust", s.cacheBustHandler, false, "Drop memoized skill weights"},

		{"GET /profiles/{id}", s.getProfileHandler, false, "Load saved skills"},
		{"PUT /profiles/{id}", s.putProfileHandler, false, "Save skills"},
		{"GET /profiles/{id}/selections", s.listSelectionsHandler, false, "List saved results"},
		{"POST /profiles/{id}/selections", s.saveSelectionHandler, false, "Save a result"},
	}
}

// setupRoutes registers every route, wrapping the protected ones as
// rate limit, then auth, then request size limit.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	rateLimit := s.rateLimitMiddleware()
	sizeLimit := s.requestSizeLimitMiddleware()

	for _, rt := range s.routes() {
		h := rt.handler
		if !rt.public {
			h = rateLimit(s.authMiddleware(sizeLimit(h)))
		}
		mux.HandleFunc(rt.pattern, h)
	}
	return mux
}

// Handler returns the routed handler wrapped in HTTP instrumentation
func (s *Server) Handler() http.Handler {
	return s.deps.Obs.HTTPMiddleware()(s.setupRoutes())
}

// authMiddleware accepts X-API-Key or a bearer token when keys are configured
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(s.APIKeys) == 0 {
			next(w, r)
			return
		}

		apiKey := requestAPIKey(r)
		if apiKey == "" {
			s.Logger.Info("Authentication failed: missing API key",
				"endpoint", r.URL.Path,
				"client_ip", clientIP(r))
			writeErrorResponse(w, "Missing API key", "", "X-API-Key header or Authorization Bearer token required", http.StatusUnauthorized)
			return
		}

		if !s.knownAPIKey(apiKey) {
			s.Logger.Info("Authentication failed: invalid API key",
				"endpoint", r.URL.Path,
				"client_ip", clientIP(r),
				"api_key_prefix", maskAPIKey(apiKey))
			writeErrorResponse(w, "Invalid API key", "", "Unauthorized access", http.StatusUnauthorized)
			return
		}

		next(w, r)
	}
}

func (s *Server) knownAPIKey(candidate string) bool {
	found := 0
	for key := range s.APIKeys {
		found |= subtle.ConstantTimeCompare([]byte(key), []byte(candidate))
	}
	return found == 1
}

// requestSizeLimitMiddleware caps request bodies at MaxRequestSize
func (s *Server) requestSizeLimitMiddleware() func(http.HandlerFunc) http.HandlerFunc {
	if s.MaxRequestSize <= 0 {
		return func(next http.HandlerFunc) http.HandlerFunc { return next }
	}
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, s.MaxRequestSize)
			next(w, r)
		}
	}
}

// maskAPIKey keeps the first 8 characters of a key for logs
func maskAPIKey(apiKey string) string {
	if len(apiKey) <= 8 {
		return "****"
	}
	return apiKey[:8] + "****"
}

package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"careerfit/internal/ai"
	"careerfit/internal/career"
	"careerfit/internal/config"
	"careerfit/internal/errors"
	"careerfit/internal/scoring"
	"careerfit/internal/store"
	"careerfit/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOracle struct {
	mu        sync.Mutex
	calls     int
	entered   chan struct{}
	release   chan struct{}
	pathErr   error
	available bool
}

func (f *fakeOracle) AssignWeights(_ context.Context, role string, skills []string) (types.RoleWeights, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return types.RoleWeights{Role: role, Skills: scoring.EqualWeights(skills)}, nil
}

func (f *fakeOracle) RecommendCourses(ctx context.Context, in types.CourseInput) (types.CourseRecommendationSet, error) {
	if in.Role == "slow" {
		f.entered <- struct{}{}
		<-f.release
	}
	set := types.EmptyCourseRecommendations()
	set.Beginner = []types.Course{{Title: "Intro to " + in.MissingSkills[0], Skill: in.MissingSkills[0]}}
	return set, nil
}

func (f *fakeOracle) GenerateLearningPath(_ context.Context, in types.LearningPathInput) (types.LearningPath, error) {
	f.mu.Lock()
	err := f.pathErr
	f.mu.Unlock()
	if err != nil {
		return types.LearningPath{}, err
	}
	return types.LearningPath{Timeline: []types.Phase{{Phase: "Basics", Skills: in.MissingSkills}}}, nil
}

func (f *fakeOracle) GetModelInfo(context.Context) map[string]*ai.ModelInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return map[string]*ai.ModelInfo{"weights": {Name: "fake", Available: f.available}}
}

func (f *fakeOracle) set(fn func(*fakeOracle)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeOracle) weightCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeOracle) Stats() map[string]any {
	return map[string]any{"weights": map[string]any{"enabled": false}}
}

type testEnv struct {
	srv    *Server
	oracle *fakeOracle
	http   *httptest.Server
}

func newTestEnv(t *testing.T, mutate func(*config.Config, *Deps)) *testEnv {
	t.Helper()

	logger := errors.NewLoggerWithHandler(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		Server: config.ServerConfig{MaxRequestSize: 1 << 20},
		Quiz:   config.QuizConfig{CourseThreshold: 70, ApplicationThreshold: 60},
	}

	oracle := &fakeOracle{
		entered:   make(chan struct{}, 1),
		release:   make(chan struct{}),
		available: true,
	}
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	deps := Deps{
		Scorer: career.NewScorer(oracle, career.Options{Concurrency: 2, NormalizeCase: true, CacheEnabled: true}, logger, nil),
		Oracle: oracle,
		Status: oracle,
		Store:  st,
	}
	if mutate != nil {
		mutate(cfg, &deps)
	}

	srv := NewServer(cfg, "test", deps, logger)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		if srv.RateLimiter != nil {
			srv.RateLimiter.Close()
		}
	})
	return &testEnv{srv: srv, oracle: oracle, http: ts}
}

func (e *testEnv) do(t *testing.T, method, path, body string, headers map[string]string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, e.http.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := e.http.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)
	resp, body := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"healthy"`)

	env.oracle.set(func(f *fakeOracle) { f.available = false })
	resp, body = env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"degraded"`)
}

func TestMatchEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)
	body := `{"userSkills":["go","SQL"],"roles":[
		{"role":"Data","skills":["Python","SQL"]},
		{"role":"Backend","skills":["Go","SQL"]}]}`

	resp, data := env.do(t, http.MethodPost, "/match", body, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	assert.NotEmpty(t, resp.Header.Get(SessionHeader))

	var report types.CareerPathReport
	require.NoError(t, json.Unmarshal(data, &report))
	require.Len(t, report.CareerPaths, 2)
	assert.Equal(t, "Backend", report.TopMatch.Role)
	assert.Equal(t, 100, report.TopMatch.MatchPercentage)
	assert.Equal(t, []string{"Go", "SQL"}, report.TopMatch.MatchedSkills)
	assert.Equal(t, 50, report.CareerPaths[1].MatchPercentage)

	// Weights are memoized across requests.
	env.do(t, http.MethodPost, "/match", body, nil)
	assert.Equal(t, 2, env.oracle.weightCalls())

	resp, _ = env.do(t, http.MethodPost, "/cache/bust", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	env.do(t, http.MethodPost, "/match", body, nil)
	assert.Equal(t, 4, env.oracle.weightCalls())
}

func TestValidationErrors(t *testing.T) {
	env := newTestEnv(t, nil)

	tests := []struct {
		name string
		path string
		body string
	}{
		{"duplicate roles", "/match", `{"userSkills":[],"roles":[{"role":"A","skills":["x"]},{"role":"A","skills":["y"]}]}`},
		{"no roles", "/match", `{"userSkills":["x"],"roles":[]}`},
		{"empty missing skills", "/courses", `{"role":"Backend","missingSkills":[]}`},
		{"unknown field", "/weights", `{"role":"Backend","skills":["Go"],"bogus":true}`},
		{"empty quiz", "/quiz/grade", `{"questions":[],"answers":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, data := env.do(t, http.MethodPost, tt.path, tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(data))
			assert.Contains(t, string(data), errors.ErrCodeInvalidInput)
		})
	}

	resp, _ := env.do(t, http.MethodPost, "/weights", `{"role":"Backend","skills":["Go"]}`, map[string]string{"Content-Type": "text/plain"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLearningPathErrorsPropagate(t *testing.T) {
	env := newTestEnv(t, nil)
	env.oracle.set(func(f *fakeOracle) { f.pathErr = errors.NewOracleUnavailableError("breaker open", nil) })

	resp, data := env.do(t, http.MethodPost, "/learning-path", `{"role":"Backend","missingSkills":["SQL"]}`, nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, string(data), errors.ErrCodeOracleUnavailable)

	env.oracle.set(func(f *fakeOracle) { f.pathErr = errors.NewUnparsableResponseError("no object", nil) })
	resp, _ = env.do(t, http.MethodPost, "/plan", `{"role":"Backend","missingSkills":["SQL"]}`, nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestStaleResultIsRejected(t *testing.T) {
	env := newTestEnv(t, nil)
	headers := map[string]string{SessionHeader: "session-1"}

	type result struct {
		status int
		body   string
		err    error
	}
	slow := make(chan result, 1)
	go func() {
		req, _ := http.NewRequest(http.MethodPost, env.http.URL+"/courses", strings.NewReader(`{"role":"slow","missingSkills":["Go"]}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(SessionHeader, "session-1")
		resp, err := env.http.Client().Do(req)
		if err != nil {
			slow <- result{err: err}
			return
		}
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		slow <- result{status: resp.StatusCode, body: string(data), err: err}
	}()

	<-env.oracle.entered
	resp, data := env.do(t, http.MethodPost, "/courses", `{"role":"fast","missingSkills":["SQL"]}`, headers)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), "Intro to SQL")
	assert.Equal(t, "session-1", resp.Header.Get(SessionHeader))

	close(env.oracle.release)
	first := <-slow
	require.NoError(t, first.err)
	assert.Equal(t, http.StatusConflict, first.status)
	assert.Contains(t, first.body, errors.ErrCodeStaleResult)
}

func TestCoursesAndLearningPathShareSession(t *testing.T) {
	env := newTestEnv(t, nil)
	headers := map[string]string{SessionHeader: "session-1"}

	type result struct {
		status int
		err    error
	}
	courses := make(chan result, 1)
	go func() {
		req, _ := http.NewRequest(http.MethodPost, env.http.URL+"/courses", strings.NewReader(`{"role":"slow","missingSkills":["Go"]}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(SessionHeader, "session-1")
		resp, err := env.http.Client().Do(req)
		if err != nil {
			courses <- result{err: err}
			return
		}
		resp.Body.Close()
		courses <- result{status: resp.StatusCode}
	}()

	<-env.oracle.entered
	resp, data := env.do(t, http.MethodPost, "/learning-path", `{"role":"slow","missingSkills":["Go"]}`, headers)
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	close(env.oracle.release)
	first := <-courses
	require.NoError(t, first.err)
	assert.Equal(t, http.StatusOK, first.status, "another operation in the session does not supersede courses")
}

func TestQuizGrade(t *testing.T) {
	env := newTestEnv(t, nil)
	body := `{"questions":[{"correctAnswerIndex":0},{"correctAnswerIndex":1},{"correctAnswerIndex":2}],
		"answers":{"0":0,"1":1},"kind":"application"}`

	resp, data := env.do(t, http.MethodPost, "/quiz/grade", body, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))

	var result types.QuizResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.Equal(t, 67, result.Percentage)
	assert.Equal(t, 60, result.Threshold)
	assert.True(t, result.Passed)
}

func TestProfiles(t *testing.T) {
	env := newTestEnv(t, nil)

	resp, _ := env.do(t, http.MethodGet, "/profiles/u1", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPut, "/profiles/u1", `{"skills":["Go","SQL"]}`, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, data := env.do(t, http.MethodGet, "/profiles/u1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"userId":"u1","skills":["Go","SQL"]}`, string(data))

	resp, data = env.do(t, http.MethodPost, "/profiles/u1/selections",
		`{"role":"Backend","kind":"career_path","payload":{"role":"Backend","matchPercentage":80}}`, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))

	resp, _ = env.do(t, http.MethodPost, "/profiles/u1/selections", `{"role":"Backend","kind":"other","payload":{}}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, data = env.do(t, http.MethodGet, "/profiles/u1/selections?kind=career_path", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var sels []types.Selection
	require.NoError(t, json.Unmarshal(data, &sels))
	require.Len(t, sels, 1)
	assert.JSONEq(t, `{"role":"Backend","matchPercentage":80}`, string(sels[0].Payload))
}

func TestProfilesWithoutStore(t *testing.T) {
	env := newTestEnv(t, func(_ *config.Config, d *Deps) { d.Store = nil })
	resp, _ := env.do(t, http.MethodGet, "/profiles/u1", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestAuthMiddleware(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config, _ *Deps) {
		c.Server.APIKeys = []string{"secret-key-123"}
	})
	body := `{"role":"Backend","skills":["Go"]}`

	resp, _ := env.do(t, http.MethodPost, "/weights", body, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/weights", body, map[string]string{"X-API-Key": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.do(t, http.MethodPost, "/weights", body, map[string]string{"Authorization": "Bearer secret-key-123"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRateLimit(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config, _ *Deps) {
		c.Server.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerMin: 1, BurstCapacity: 1, ByIP: true}
	})
	body := `{"role":"Backend","skills":["Go"]}`

	resp, _ := env.do(t, http.MethodPost, "/weights", body, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = env.do(t, http.MethodPost, "/weights", body, nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestRequestSizeLimit(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config, _ *Deps) { c.Server.MaxRequestSize = 16 })
	resp, data := env.do(t, http.MethodPost, "/weights", `{"role":"Backend","skills":["Go","SQL","Rust"]}`, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(data), "too large")
}

func TestStatusForError(t *testing.T) {
	assert.Equal(t, http.StatusConflict, statusForError(errors.NewStaleResultError("old")))
	assert.Equal(t, http.StatusNotFound, statusForError(errors.NewStorageError(errors.ErrCodeNotFound, "x", nil)))
	assert.Equal(t, http.StatusInternalServerError, statusForError(io.EOF))
	assert.Equal(t, http.StatusGatewayTimeout, statusForError(context.DeadlineExceeded))
}

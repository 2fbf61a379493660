package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotcommander/atscore/internal/config"
	"github.com/dotcommander/atscore/internal/scoring"
)

func testConfig() config.ServeConfig {
	return config.ServeConfig{
		Addr:           "127.0.0.1:8080",
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   5 * time.Second,
		MaxRequestSize: 1 << 16,
		RateLimit:      config.RateLimitConfig{Enabled: false},
	}
}

func newTestServer(t *testing.T, cfg config.ServeConfig) *Server {
	t.Helper()
	s, err := New(cfg, "1.0.0-test", nil)
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.RemoteAddr = "192.0.2.1:1234"
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

const contactOnly = `{"personalInfo":{"fullName":"Jane Doe","email":"jane@example.com","phone":"555-0100",
"location":"Austin, TX","linkedin":"https://linkedin.com/in/jane","portfolio":"https://jane.dev"}}`

func TestNewValidatesConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.ServeConfig)
	}{
		{"missing addr", func(c *config.ServeConfig) { c.Addr = "" }},
		{"addr without port", func(c *config.ServeConfig) { c.Addr = "localhost" }},
		{"zero read timeout", func(c *config.ServeConfig) { c.ReadTimeout = 0 }},
		{"zero request size", func(c *config.ServeConfig) { c.MaxRequestSize = 0 }},
		{"rate limit without rate", func(c *config.ServeConfig) {
			c.RateLimit = config.RateLimitConfig{Enabled: true, Burst: 5}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			_, err := New(cfg, "dev", nil)
			assert.Error(t, err)
		})
	}

	_, err := New(testConfig(), "dev", nil)
	assert.NoError(t, err)
}

func TestScoreHandler(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(t, s, http.MethodPost, "/score", contactOnly)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var report scoring.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 15, report.Overall)
	assert.Equal(t, 15, report.Breakdown.ContactInfo)
	assert.Equal(t, scoring.RatingNeedsImprovement, report.Rating)
	assert.Equal(t, []string{
		scoring.RecAddSummary,
		scoring.RecAddExperience,
		scoring.RecAddEducation,
		scoring.RecAddSkills,
		scoring.RecAddProjects,
	}, report.Recommendations)
}

func TestScoreHandlerNullBody(t *testing.T) {
	s := newTestServer(t, testConfig())

	for _, body := range []string{"null", "", "  \n"} {
		rec := do(t, s, http.MethodPost, "/score", body)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()), "body %q", body)
	}
}

func TestScoreHandlerEmptyObject(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(t, s, http.MethodPost, "/score", `{}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var report scoring.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 0, report.Overall)
	assert.Len(t, report.Recommendations, scoring.MaxRecommendations)
}

func TestScoreHandlerErrors(t *testing.T) {
	cfg := testConfig()
	cfg.MaxRequestSize = 64
	s := newTestServer(t, cfg)

	tests := []struct {
		name      string
		body      string
		wantCode  int
		wantError string
	}{
		{"invalid json", `{"personalInfo":`, http.StatusBadRequest, "Invalid JSON"},
		{"top-level array", `[1,2]`, http.StatusBadRequest, "Invalid JSON"},
		{"too large", `{"personalInfo":{"summary":"` + strings.Repeat("x", 100) + `"}}`, http.StatusRequestEntityTooLarge, "Request too large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/score", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantError, resp.Error)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestScoreHandlerMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, testConfig())
	rec := do(t, s, http.MethodGet, "/score", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(t, s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, HealthResponse{Status: "healthy", Service: "atscore", Version: "1.0.0-test"}, health)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t, testConfig())

	do(t, s, http.MethodPost, "/score", contactOnly)
	do(t, s, http.MethodPost, "/score", "null")

	rec := do(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `atscore_scores_total{rating="Needs Improvement"} 1`)
	assert.Contains(t, body, "atscore_overall_score_count 1")
	assert.Contains(t, body, `atscore_http_request_duration_seconds_count{method="POST",path="POST /score",status="200"} 2`)
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t, testConfig())

	rec := do(t, s, http.MethodGet, "/health", "")
	generated := rec.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err, "generated request id should be a uuid")

	existing := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, existing)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, existing, rec.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "not a uuid")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.NotEqual(t, "not a uuid", rec.Header().Get(RequestIDHeader))
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerMin: 1, Burst: 2}
	s := newTestServer(t, cfg)

	assert.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/score", "null").Code)
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodPost, "/score", "null").Code)

	rec := do(t, s, http.MethodPost, "/score", "null")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Other endpoints are not throttled
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/health", "").Code)
}

func TestServeGracefulShutdown(t *testing.T) {
	s := newTestServer(t, testConfig())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/health"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studentcatalog/catalog-web/internal/config"
	"github.com/studentcatalog/catalog-web/internal/graphql/graphqltest"
	"github.com/studentcatalog/catalog-web/internal/session"
)

func testConfig(endpoint string) *config.Config {
	cfg := &config.Config{}
	cfg.Server.Environment = "test"
	cfg.GraphQL.URL = endpoint
	cfg.GraphQL.Timeout = 5 * time.Second
	cfg.Redis.PageTTL = time.Hour
	cfg.Session.Secret = "server-test-secret"
	cfg.Session.TTL = time.Hour
	return cfg
}

func serve(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestServer_Routes(t *testing.T) {
	fake, endpoint := graphqltest.Start(t)
	fake.SeedCourse("Logic")
	s, err := New(testConfig(endpoint), Deps{})
	require.NoError(t, err)
	h := s.Handler()

	w := serve(t, h, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "healthy", w.Body.String())

	w = serve(t, h, http.MethodGet, "/ready")
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(t, h, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Logic")
	var sawCookie bool
	for _, c := range w.Result().Cookies() {
		sawCookie = sawCookie || c.Name == session.CookieName
	}
	assert.True(t, sawCookie)

	w = serve(t, h, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "catalog_graphql_requests_total")

	w = serve(t, h, http.MethodGet, "/swagger/doc.json")
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(t, h, http.MethodGet, "/static/catalog.js")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestServer_ReadyReportsRedis(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	client := redis.NewClient(&redis.Options{Addr: m.Addr(), MaxRetries: -1})

	cfg := testConfig("http://127.0.0.1:1/graphql")
	cfg.Redis.Host = "127.0.0.1"
	s, err := New(cfg, Deps{Redis: client})
	require.NoError(t, err)

	w := serve(t, s.Handler(), http.MethodGet, "/ready")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Status string          `json:"status"`
		Deps   map[string]bool `json:"deps"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ready", body.Status)
	assert.True(t, body.Deps["redis"])

	m.Close()
	w = serve(t, s.Handler(), http.MethodGet, "/ready")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestServer_ReadyWithoutEndpoint(t *testing.T) {
	s, err := New(testConfig(""), Deps{})
	require.NoError(t, err)
	w := serve(t, s.Handler(), http.MethodGet, "/ready")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestServer_RateLimitsPageRoutes(t *testing.T) {
	_, endpoint := graphqltest.Start(t)
	cfg := testConfig(endpoint)
	cfg.RateLimit.Enabled = true
	cfg.RateLimit.RPS = 0.01
	cfg.RateLimit.Burst = 1
	s, err := New(cfg, Deps{})
	require.NoError(t, err)
	h := s.Handler()

	first := serve(t, h, http.MethodGet, "/static/catalog.js")
	require.Equal(t, http.StatusOK, first.Code)
	cookies := first.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/static/catalog.js", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	// probes are not limited
	require.Equal(t, http.StatusOK, serve(t, h, http.MethodGet, "/health").Code)
}

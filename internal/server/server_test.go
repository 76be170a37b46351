package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techhorizon/blog/internal/config"
	"github.com/techhorizon/blog/internal/model"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Addr: ":0", ShutdownTimeout: time.Second},
		Storage: config.StorageConfig{
			Backend: "memory",
		},
		Auth: config.AuthConfig{
			Mode:      "mock",
			JWTSecret: "test-secret-at-least-16-chars",
		},
		Logging: config.LoggingConfig{Level: "info", Format: "text"},
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s, err := New(testConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

// login signs in as the seeded admin and returns the session cookie.
func login(t *testing.T, srv *httptest.Server) *http.Cookie {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/auth/login", "application/json",
		strings.NewReader(`{"email":"admin@techhorizon.com","password":"admin123"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, c := range resp.Cookies() {
		if c.Name == "token" {
			return c
		}
	}
	t.Fatal("login response carried no session cookie")
	return nil
}

func TestPublicArticleRoutes(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/articles")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []model.Article
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	assert.Len(t, list, 4)

	detail, err := http.Get(srv.URL + "/api/articles/" + list[0].Slug)
	require.NoError(t, err)
	defer detail.Body.Close()
	assert.Equal(t, http.StatusOK, detail.StatusCode)
}

func TestAdminRoutesRequireAuth(t *testing.T) {
	srv := newTestServer(t)

	// Anonymous requests bounce off every admin route.
	resp, err := http.Get(srv.URL + "/api/admin/articles")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/api/admin/sync", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminArticleLifecycle(t *testing.T) {
	srv := newTestServer(t)
	cookie := login(t, srv)

	do := func(method, path, body string) *http.Response {
		t.Helper()
		req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(cookie)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		return resp
	}

	// Create.
	resp := do(http.MethodPost, "/api/admin/articles",
		`{"title":"Integration Test Article","content":"Body.","category":"finance"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created model.Article
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	require.NotEmpty(t, created.ID)

	// It shows up on the public side immediately.
	public, err := http.Get(srv.URL + "/api/articles/integration-test-article")
	require.NoError(t, err)
	public.Body.Close()
	assert.Equal(t, http.StatusOK, public.StatusCode)

	// Update.
	resp = do(http.MethodPut, "/api/admin/articles/"+created.ID, `{"featured":true}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Delete.
	resp = do(http.MethodDelete, "/api/admin/articles/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	gone, err := http.Get(srv.URL + "/api/articles/integration-test-article")
	require.NoError(t, err)
	gone.Body.Close()
	assert.Equal(t, http.StatusNotFound, gone.StatusCode)
}

func TestSessionRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	cookie := login(t, srv)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/auth/me", nil)
	require.NoError(t, err)
	req.AddCookie(cookie)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var me struct {
		Email   string `json:"email"`
		IsAdmin bool   `json:"isAdmin"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&me))
	assert.Equal(t, "admin@techhorizon.com", me.Email)
	assert.True(t, me.IsAdmin)
}

func TestRemoteModeMountsItsOwnRoutes(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.Mode = "remote"
	cfg.Auth.Remote = config.RemoteAuthConfig{URL: "http://localhost:9999", APIKey: "anon"}

	s, err := New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	// Signup exists in remote mode...
	resp, err := http.Post(srv.URL+"/api/auth/signup", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEqual(t, http.StatusNotFound, resp.StatusCode)

	// ...and the local admin surface does not.
	resp, err = http.Get(srv.URL + "/api/admin/articles")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/bloggingapp/internal/blogservice"
	"github.com/sushihentaime/bloggingapp/internal/common"
	"github.com/sushihentaime/bloggingapp/internal/userservice"
)

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func newTestConfig() *Config {
	return &Config{
		Port:           "4000",
		Environment:    "testing",
		Version:        "1.0.0",
		TrustedOrigins: []string{"http://example.com"},
		AuthConfig: AuthConfig{
			JWTSecret:       "test-secret",
			AccessTokenTTL:  time.Minute,
			RefreshTokenTTL: time.Hour,
			CacheTTL:        time.Minute,
		},
	}
}

func newTestApplication(t *testing.T) (*application, *sql.DB, *common.RecordingProducer) {
	db := common.TestDB("file://../../migrations", t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mb := &common.RecordingProducer{}
	cfg := newTestConfig()

	cache := common.NewCache(cfg.CacheTTL, 2*cfg.CacheTTL)
	tokens := userservice.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	app := &application{
		config:      cfg,
		logger:      logger,
		metrics:     newMetrics(),
		userService: userservice.NewUserService(db, mb, cache, tokens, logger),
		blogService: blogservice.NewBlogService(db, mb, logger),
	}

	return app, db, mb
}

func (ts *testServer) do(t *testing.T, method, path, token string, payload any) (int, http.Header, []byte) {
	var body io.Reader
	if payload != nil {
		jsonPayload, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(jsonPayload)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	require.NoError(t, err)

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	return res.StatusCode, res.Header, responseBody
}

func (ts *testServer) post(t *testing.T, path, token string, payload any) (int, http.Header, []byte) {
	return ts.do(t, http.MethodPost, path, token, payload)
}

func (ts *testServer) get(t *testing.T, path, token string) (int, http.Header, []byte) {
	return ts.do(t, http.MethodGet, path, token, nil)
}

func (ts *testServer) put(t *testing.T, path, token string, payload any) (int, http.Header, []byte) {
	return ts.do(t, http.MethodPut, path, token, payload)
}

func (ts *testServer) patch(t *testing.T, path, token string, payload any) (int, http.Header, []byte) {
	return ts.do(t, http.MethodPatch, path, token, payload)
}

func (ts *testServer) delete(t *testing.T, path, token string) (int, http.Header, []byte) {
	return ts.do(t, http.MethodDelete, path, token, nil)
}

func decode[T any](t *testing.T, body []byte) T {
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}

// registerAndLogin creates a user through the API and returns its id and access token.
func (ts *testServer) registerAndLogin(t *testing.T, username, password string) (int64, string) {
	status, _, body := ts.post(t, "/api/user/register/", "", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusCreated, status, string(body))

	status, _, body = ts.post(t, "/api/token/", "", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, status, string(body))

	token := decode[userservice.AuthToken](t, body)
	return token.User.ID, token.Access
}

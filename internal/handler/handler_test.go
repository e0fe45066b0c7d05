package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/contentdee/contentdee/internal/config"
	"github.com/contentdee/contentdee/internal/db"
	"github.com/contentdee/contentdee/internal/metrics"
	"github.com/contentdee/contentdee/internal/middleware"
	"github.com/contentdee/contentdee/internal/repository"
	"github.com/contentdee/contentdee/internal/service"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// stubGenerator returns canned copy so generation tests need no API key.
type stubGenerator struct {
	err error
}

func (g stubGenerator) Generate(_ context.Context, req service.GenerationRequest) (*service.GeneratedCopy, error) {
	if g.err != nil {
		return nil, g.err
	}
	return &service.GeneratedCopy{
		Title:   "Generated: " + req.ContentType,
		Content: "Copy for " + req.BusinessType,
	}, nil
}

// testEnv wires the real services onto an in-memory database and exposes
// the routed handler, minus the per-IP rate limiter.
type testEnv struct {
	handler     http.Handler
	authService *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	conn, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })

	err = db.RunMigrations(conn.DB, "sqlite")
	require.NoError(t, err)

	userRepository := repository.NewUserRepository(conn)
	sessionRepository := repository.NewSessionRepository(conn)
	contentRepository := repository.NewContentRepository(conn)

	emailService := service.NewEmailService("", "noreply@test.local", "ContentDee", "http://localhost:8090", true)
	authService := service.NewAuthService(userRepository, sessionRepository, emailService, false, time.Hour)
	oauthService := service.NewOAuthService(userRepository, authService)
	contentService := service.NewContentService(contentRepository, stubGenerator{})

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	cfg := &config.Config{
		AppName: "ContentDee",
		AppEnv:  "development",
		AppURL:  "http://localhost:8090",
	}

	auth := NewAuthHandler(authService, collector)
	oauth := NewOAuthHandler(oauthService, authService, collector, cfg)
	subdomain := NewSubdomainHandler(userRepository)
	content := NewContentHandler(contentService, collector)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register", auth.Register)
	mux.HandleFunc("POST /api/auth/login", auth.Login)
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)
	mux.HandleFunc("GET /api/auth/me", auth.Me)
	mux.HandleFunc("POST /api/auth/oauth", oauth.OAuthLogin)
	mux.HandleFunc("POST /api/subdomain/validate", subdomain.Validate)
	mux.HandleFunc("POST /api/content/generate", middleware.RequireAuth(content.Generate))
	mux.HandleFunc("POST /api/content/save", middleware.RequireAuth(content.Save))
	mux.HandleFunc("GET /api/content/items", middleware.RequireAuth(content.List))
	mux.HandleFunc("GET /api/content/item/{id}", middleware.RequireAuth(content.Get))
	mux.HandleFunc("PATCH /api/content/item/{id}", middleware.RequireAuth(content.Patch))
	mux.HandleFunc("DELETE /api/content/item/{id}", middleware.RequireAuth(content.Delete))

	handler := middleware.Chain(
		mux,
		middleware.Config(cfg),
		middleware.SessionMiddleware(authService),
	)

	return &testEnv{handler: handler, authService: authService}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == service.SessionCookieName && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func registerPayload(username string) map[string]any {
	return map[string]any{
		"username":     username,
		"password":     "secret123",
		"email":        username + "@example.com",
		"businessName": username + " Coffee",
		"subdomain":    username + "coffee",
	}
}

// register creates an account and logs it in, returning the session cookie.
func (e *testEnv) register(t *testing.T, username string) *http.Cookie {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/auth/register", registerPayload(username))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = e.do(t, http.MethodPost, "/api/auth/login", map[string]any{
		"username": username,
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return sessionCookie(t, rec)
}

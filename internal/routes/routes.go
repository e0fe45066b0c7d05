package routes

import (
	"net/http"

	"github.com/contentdee/contentdee/internal/app"
	"github.com/contentdee/contentdee/internal/handler"
	"github.com/contentdee/contentdee/internal/metrics"
	"github.com/contentdee/contentdee/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService, app.Metrics)
	oauth := handler.NewOAuthHandler(app.OAuthService, app.AuthService, app.Metrics, app.Cfg)
	subdomain := handler.NewSubdomainHandler(app.UserRepository)
	content := handler.NewContentHandler(app.ContentService, app.Metrics)
	health := handler.NewHealthHandler(app.DB)

	mux := http.NewServeMux()

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth()

	mux.HandleFunc("POST /api/auth/register", rateLimiter(auth.Register))
	mux.HandleFunc("POST /api/auth/login", rateLimiter(auth.Login))
	mux.HandleFunc("POST /api/auth/logout", auth.Logout)
	mux.HandleFunc("GET /api/auth/me", auth.Me)

	// OAuth
	mux.HandleFunc("POST /api/auth/oauth", rateLimiter(oauth.OAuthLogin))
	mux.HandleFunc("GET /api/auth/google", rateLimiter(oauth.GoogleAuth))
	mux.HandleFunc("GET /api/auth/google/callback", rateLimiter(oauth.GoogleCallback))
	mux.HandleFunc("GET /api/auth/facebook", rateLimiter(oauth.FacebookAuth))
	mux.HandleFunc("GET /api/auth/facebook/callback", rateLimiter(oauth.FacebookCallback))

	// Subdomain availability
	mux.HandleFunc("POST /api/subdomain/validate", subdomain.Validate)

	// Content library (authenticated)
	mux.HandleFunc("POST /api/content/generate", middleware.RequireAuth(content.Generate))
	mux.HandleFunc("POST /api/content/save", middleware.RequireAuth(content.Save))
	mux.HandleFunc("GET /api/content/items", middleware.RequireAuth(content.List))
	mux.HandleFunc("GET /api/content/item/{id}", middleware.RequireAuth(content.Get))
	mux.HandleFunc("PATCH /api/content/item/{id}", middleware.RequireAuth(content.Patch))
	mux.HandleFunc("DELETE /api/content/item/{id}", middleware.RequireAuth(content.Delete))

	// Operational endpoints
	mux.HandleFunc("GET /healthz", health.Health)
	mux.Handle("GET /metrics", metrics.Handler(app.Registry))

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.Config(app.Cfg),
		middleware.RequestLogging,
		middleware.Metrics(app.Metrics),
		middleware.SessionMiddleware(app.AuthService),
	)
}

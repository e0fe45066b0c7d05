package middleware

import (
	"net/http"

	"github.com/contentdee/contentdee/internal/config"
	"github.com/contentdee/contentdee/internal/ctxkeys"
)

// Config injects the application config into the request context so
// handlers can read environment-dependent settings (cookie security,
// base URL) without holding their own reference.
func Config(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(ctxkeys.WithConfig(r.Context(), cfg)))
		})
	}
}

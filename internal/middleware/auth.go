package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/contentdee/contentdee/internal/ctxkeys"
	"github.com/contentdee/contentdee/internal/service"
)

// SessionMiddleware resolves the session cookie and adds session + user to
// the request context when the session is live. Requests without a valid
// session continue anonymously; RequireAuth draws the line.
func SessionMiddleware(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(service.SessionCookieName)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			session, err := authService.SessionByID(cookie.Value)
			if err != nil {
				// Dead or unknown session, clear cookie and continue
				authService.ClearSessionCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			user, err := authService.CurrentUser(session.ID)
			if err != nil {
				authService.ClearSessionCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			ctx := ctxkeys.WithSession(r.Context(), session)
			ctx = ctxkeys.WithUser(ctx, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests with a 401 JSON body.
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxkeys.User(r.Context()) == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Authentication required"})
			return
		}
		next.ServeHTTP(w, r)
	}
}

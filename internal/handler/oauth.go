package handler

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/contentdee/contentdee/internal/config"
	"github.com/contentdee/contentdee/internal/ctxkeys"
	"github.com/contentdee/contentdee/internal/metrics"
	"github.com/contentdee/contentdee/internal/model"
	"github.com/contentdee/contentdee/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"
)

const (
	googleUserInfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
	facebookUserInfoURL = "https://graph.facebook.com/me?fields=id,name,email,picture.type(large)"
)

type oauthHandler struct {
	oauthService   *service.OAuthService
	authService    *service.AuthService
	collector      *metrics.Collector
	googleConfig   *oauth2.Config
	facebookConfig *oauth2.Config
}

func NewOAuthHandler(oauthService *service.OAuthService, authService *service.AuthService, collector *metrics.Collector, cfg *config.Config) *oauthHandler {
	return &oauthHandler{
		oauthService: oauthService,
		authService:  authService,
		collector:    collector,
		googleConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.AppURL + "/api/auth/google/callback",
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		facebookConfig: &oauth2.Config{
			ClientID:     cfg.FacebookClientID,
			ClientSecret: cfg.FacebookClientSecret,
			RedirectURL:  cfg.AppURL + "/api/auth/facebook/callback",
			Scopes:       []string{"email", "public_profile"},
			Endpoint:     facebook.Endpoint,
		},
	}
}

// OAuthLogin accepts an already-verified external identity and turns it
// into a session. The provider value is checked against the closed set
// before the linking service ever sees it.
// POST /api/auth/oauth
func (h *oauthHandler) OAuthLogin(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email        string `json:"email" validate:"required,email"`
		DisplayName  string `json:"displayName"`
		AuthProvider string `json:"authProvider" validate:"required"`
		ProviderID   string `json:"providerId" validate:"required"`
		PhotoURL     string `json:"photoURL" validate:"omitempty,url"`
	}
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	provider, err := model.ParseProvider(payload.AuthProvider)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Unsupported auth provider")
		return
	}

	session, err := h.oauthService.Login(service.OAuthInput{
		Email:       payload.Email,
		DisplayName: payload.DisplayName,
		Provider:    provider,
		ProviderID:  payload.ProviderID,
		PhotoURL:    payload.PhotoURL,
	})
	if err != nil {
		h.collector.RecordLogin(provider.String(), false)
		if errors.Is(err, service.ErrEmailAlreadyLinked) {
			writeMessage(w, http.StatusConflict, "Email already associated with another account")
			return
		}
		slog.Error("oauth login failed", "error", err, "provider", provider)
		writeMessage(w, http.StatusUnauthorized, "OAuth login failed")
		return
	}

	h.collector.RecordLogin(provider.String(), true)
	h.authService.SetSessionCookie(w, session)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "OAuth login successful"})
}

// GoogleAuth redirects to the Google consent screen.
// GET /api/auth/google
func (h *oauthHandler) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	h.redirectToProvider(w, r, h.googleConfig)
}

// GoogleCallback finishes the Google authorization-code flow.
// GET /api/auth/google/callback
func (h *oauthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	token, ok := h.exchangeCallback(w, r, h.googleConfig)
	if !ok {
		return
	}

	var info struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if !h.fetchUserInfo(w, r, h.googleConfig, token, googleUserInfoURL, &info) {
		return
	}

	h.finishProviderLogin(w, r, service.OAuthInput{
		Email:       info.Email,
		DisplayName: info.Name,
		Provider:    model.ProviderGoogle,
		ProviderID:  info.ID,
		PhotoURL:    info.Picture,
	})
}

// FacebookAuth redirects to the Facebook consent screen.
// GET /api/auth/facebook
func (h *oauthHandler) FacebookAuth(w http.ResponseWriter, r *http.Request) {
	h.redirectToProvider(w, r, h.facebookConfig)
}

// FacebookCallback finishes the Facebook authorization-code flow.
// GET /api/auth/facebook/callback
func (h *oauthHandler) FacebookCallback(w http.ResponseWriter, r *http.Request) {
	token, ok := h.exchangeCallback(w, r, h.facebookConfig)
	if !ok {
		return
	}

	var info struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	}
	if !h.fetchUserInfo(w, r, h.facebookConfig, token, facebookUserInfoURL, &info) {
		return
	}

	h.finishProviderLogin(w, r, service.OAuthInput{
		Email:       info.Email,
		DisplayName: info.Name,
		Provider:    model.ProviderFacebook,
		ProviderID:  info.ID,
		PhotoURL:    info.Picture.Data.URL,
	})
}

func (h *oauthHandler) redirectToProvider(w http.ResponseWriter, r *http.Request, oauthConfig *oauth2.Config) {
	// Generate secure state token for CSRF protection
	state := generateOAuthState()

	cfg := ctxkeys.Config(r.Context())
	isProduction := cfg != nil && cfg.IsProduction()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})

	url := oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (h *oauthHandler) exchangeCallback(w http.ResponseWriter, r *http.Request, oauthConfig *oauth2.Config) (*oauth2.Token, bool) {
	// Validate state parameter for CSRF protection
	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie("oauth_state")
	if err != nil || cookie.Value != state || state == "" {
		slog.Warn("oauth state validation failed", "error", err)
		writeMessage(w, http.StatusUnauthorized, "OAuth login failed")
		return nil, false
	}

	// Clear state cookie
	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		slog.Warn("oauth callback missing code")
		writeMessage(w, http.StatusUnauthorized, "OAuth login failed")
		return nil, false
	}

	token, err := oauthConfig.Exchange(r.Context(), code)
	if err != nil {
		slog.Error("oauth token exchange failed", "error", err)
		writeMessage(w, http.StatusUnauthorized, "OAuth login failed")
		return nil, false
	}

	return token, true
}

func (h *oauthHandler) fetchUserInfo(w http.ResponseWriter, r *http.Request, oauthConfig *oauth2.Config, token *oauth2.Token, url string, dst any) bool {
	client := oauthConfig.Client(r.Context(), token)
	resp, err := client.Get(url)
	if err != nil {
		slog.Error("failed to get oauth user info", "error", err)
		writeMessage(w, http.StatusUnauthorized, "OAuth login failed")
		return false
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close response body", "error", closeErr)
		}
	}()

	err = json.NewDecoder(resp.Body).Decode(dst)
	if err != nil {
		slog.Error("failed to decode oauth user info", "error", err)
		writeMessage(w, http.StatusUnauthorized, "OAuth login failed")
		return false
	}

	return true
}

func (h *oauthHandler) finishProviderLogin(w http.ResponseWriter, r *http.Request, input service.OAuthInput) {
	session, err := h.oauthService.Login(input)
	if err != nil {
		h.collector.RecordLogin(input.Provider.String(), false)
		if errors.Is(err, service.ErrEmailAlreadyLinked) {
			writeMessage(w, http.StatusConflict, "Email already associated with another account")
			return
		}
		slog.Error("oauth authentication failed", "error", err, "provider", input.Provider)
		writeMessage(w, http.StatusUnauthorized, "OAuth login failed")
		return
	}

	h.collector.RecordLogin(input.Provider.String(), true)
	h.authService.SetSessionCookie(w, session)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func generateOAuthState() string {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		// crypto/rand failures are not recoverable at this level
		panic("failed to generate oauth state: " + err.Error())
	}
	return base64.URLEncoding.EncodeToString(b)
}

package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/contentdee/contentdee/internal/model"
	"github.com/contentdee/contentdee/internal/repository"
	"github.com/contentdee/contentdee/internal/subdomain"
	"github.com/contentdee/contentdee/internal/validation"
	"github.com/google/uuid"
)

var ErrEmailAlreadyLinked = errors.New("email already associated with another account")

// usernameMaxLen caps usernames derived from OAuth display names.
const usernameMaxLen = 15

// OAuthInput is a verified external identity. Provider validity is checked
// at the boundary; by the time it reaches this service the identity is
// trusted.
type OAuthInput struct {
	Email       string
	DisplayName string
	Provider    model.Provider
	ProviderID  string
	PhotoURL    string
}

type OAuthService struct {
	userRepository repository.UserRepository
	authService    *AuthService
}

func NewOAuthService(userRepository repository.UserRepository, authService *AuthService) *OAuthService {
	return &OAuthService{
		userRepository: userRepository,
		authService:    authService,
	}
}

// Login handles both sign-in and first-time sign-up for an OAuth identity.
//
// A known (provider, providerId) pair is a plain login; no profile fields
// are refreshed. An unknown pair whose email already belongs to another
// account fails with ErrEmailAlreadyLinked and leaves the store untouched;
// accounts are never merged or converted across identity methods. Anything
// else provisions a fresh account. A provisioning race that slips past
// both lookups is stopped by the store's uniqueness constraints and
// surfaces as a duplicate error; the caller may simply retry.
func (s *OAuthService) Login(input OAuthInput) (*model.Session, error) {
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))

	if err := validation.ValidateEmail(input.Email); err != nil {
		return nil, err
	}

	user, err := s.userRepository.ByProvider(input.Provider, input.ProviderID)
	if err == nil {
		session, err := s.authService.CreateSession(user)
		if err != nil {
			return nil, err
		}
		slog.Info("oauth user logged in", "user_id", user.ID, "provider", input.Provider)
		return session, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up provider identity: %w", err)
	}

	_, err = s.userRepository.ByEmail(input.Email)
	if err == nil {
		return nil, ErrEmailAlreadyLinked
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}

	user, err = s.provision(input)
	if err != nil {
		return nil, err
	}

	session, err := s.authService.CreateSession(user)
	if err != nil {
		return nil, err
	}

	slog.Info("new oauth user created",
		"user_id", user.ID,
		"provider", input.Provider,
		"username", user.Username,
		"subdomain", user.Subdomain,
	)
	return session, nil
}

func (s *OAuthService) provision(input OAuthInput) (*model.User, error) {
	username := deriveUsername(input.Email, input.DisplayName)

	base := input.DisplayName
	if base == "" {
		base = username
	}
	slug, err := subdomain.AllocateUnique(subdomain.Normalize(base), s.userRepository.SubdomainExists)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate subdomain: %w", err)
	}

	businessName := input.DisplayName
	if businessName == "" {
		businessName = username
	}

	provider := input.Provider.String()
	user := &model.User{
		ID:                uuid.New().String(),
		Username:          username,
		Email:             input.Email,
		BusinessName:      businessName,
		Subdomain:         slug,
		CreatedAt:         time.Now(),
		PreferredLanguage: "th",
		AuthProvider:      &provider,
		ProviderID:        &input.ProviderID,
	}
	if input.DisplayName != "" {
		user.DisplayName = &input.DisplayName
	}
	if input.PhotoURL != "" {
		user.PhotoURL = &input.PhotoURL
	}

	err = s.userRepository.Create(user)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth user: %w", err)
	}

	return user, nil
}

// deriveUsername builds a username from the display name, or the email
// local-part when no display name is available. Either way it is
// lowercased, stripped to ASCII alphanumerics and capped.
func deriveUsername(email, displayName string) string {
	if displayName != "" {
		var b strings.Builder
		for _, r := range strings.ToLower(displayName) {
			if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
				b.WriteRune(r)
			}
		}
		return truncate(b.String(), usernameMaxLen)
	}

	local, _, _ := strings.Cut(email, "@")
	return truncate(local, usernameMaxLen)
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

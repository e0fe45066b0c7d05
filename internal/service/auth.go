package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/contentdee/contentdee/internal/model"
	"github.com/contentdee/contentdee/internal/repository"
	"github.com/contentdee/contentdee/internal/subdomain"
	"github.com/contentdee/contentdee/internal/validation"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const SessionCookieName = "session_id"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrDuplicateSubdomain = errors.New("subdomain already exists")
	ErrUserNotFound       = errors.New("user not found")
)

type AuthService struct {
	userRepository    repository.UserRepository
	sessionRepository repository.SessionRepository
	emailService      *EmailService
	isProduction      bool
	sessionExpiry     time.Duration
}

func NewAuthService(
	userRepository repository.UserRepository,
	sessionRepository repository.SessionRepository,
	emailService *EmailService,
	isProduction bool,
	sessionExpiry time.Duration,
) *AuthService {
	return &AuthService{
		userRepository:    userRepository,
		sessionRepository: sessionRepository,
		emailService:      emailService,
		isProduction:      isProduction,
		sessionExpiry:     sessionExpiry,
	}
}

type RegisterInput struct {
	Username          string `json:"username" validate:"required,min=3,max=30"`
	Password          string `json:"password" validate:"required,min=6"`
	Email             string `json:"email" validate:"required,email"`
	BusinessName      string `json:"businessName" validate:"required"`
	Subdomain         string `json:"subdomain" validate:"required"`
	PreferredLanguage string `json:"preferredLanguage" validate:"omitempty,bcp47_language_tag"`
}

// Register creates a credential-based account. Username, email and
// subdomain are three independent uniqueness constraints; the first one
// that collides decides the error. The database enforces the same
// constraints again at insert time, so a lost race between check and write
// still yields the proper duplicate error instead of a second account.
func (s *AuthService) Register(input RegisterInput) (*model.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))

	if err := validation.ValidateUsername(input.Username); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	if err := validation.ValidateEmail(input.Email); err != nil {
		return nil, err
	}

	_, err := s.userRepository.ByUsername(input.Username)
	if err == nil {
		return nil, ErrDuplicateUsername
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	_, err = s.userRepository.ByEmail(input.Email)
	if err == nil {
		return nil, ErrDuplicateEmail
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	err = subdomain.Validate(input.Subdomain, s.userRepository.SubdomainExists)
	if err != nil {
		if errors.Is(err, subdomain.ErrTaken) {
			return nil, ErrDuplicateSubdomain
		}
		return nil, err
	}

	hashed, err := s.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	language := input.PreferredLanguage
	if language == "" {
		language = "th"
	}

	user := &model.User{
		ID:                uuid.New().String(),
		Username:          input.Username,
		PasswordHash:      &hashed,
		Email:             input.Email,
		BusinessName:      input.BusinessName,
		Subdomain:         input.Subdomain,
		CreatedAt:         time.Now(),
		PreferredLanguage: language,
	}

	err = s.userRepository.Create(user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			return nil, ErrDuplicateUsername
		case errors.Is(err, repository.ErrDuplicateEmail):
			return nil, ErrDuplicateEmail
		case errors.Is(err, repository.ErrDuplicateSubdomain):
			return nil, ErrDuplicateSubdomain
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID, "username", user.Username, "subdomain", user.Subdomain)

	if s.emailService != nil {
		err = s.emailService.SendWelcomeEmail(user.Email, user.BusinessName)
		if err != nil {
			slog.Warn("failed to send welcome email", "error", err, "user_id", user.ID)
		}
	}

	return user.Public(), nil
}

// Login checks credentials and issues a session. Unknown username and
// wrong password produce the same error so accounts cannot be enumerated.
func (s *AuthService) Login(username, password string) (*model.Session, error) {
	username = strings.TrimSpace(username)

	user, err := s.userRepository.ByUsername(username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.HasPassword() {
		return nil, ErrInvalidCredentials
	}

	err = s.ComparePassword(password, *user.PasswordHash)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	session, err := s.CreateSession(user)
	if err != nil {
		return nil, err
	}

	slog.Info("user logged in", "user_id", user.ID, "username", user.Username)
	return session, nil
}

// Logout destroys the session. Teardown problems are logged and swallowed;
// from the caller's perspective logout always succeeds.
func (s *AuthService) Logout(sessionID string) {
	if sessionID == "" {
		return
	}

	err := s.sessionRepository.Delete(sessionID)
	if err != nil && !errors.Is(err, repository.ErrSessionNotFound) {
		slog.Error("failed to destroy session", "error", err, "session_id", sessionID)
	}
}

// CurrentUser resolves the session to its user. A session pointing at a
// user that no longer exists reports ErrUserNotFound.
func (s *AuthService) CurrentUser(sessionID string) (*model.User, error) {
	session, err := s.SessionByID(sessionID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepository.ByID(session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user.Public(), nil
}

// PurgeExpiredSessions removes sessions past their expiry. Expired
// sessions are already refused at lookup; this keeps the table from
// accumulating dead rows.
func (s *AuthService) PurgeExpiredSessions() {
	n, err := s.sessionRepository.DeleteExpired()
	if err != nil {
		slog.Error("failed to purge expired sessions", "error", err)
		return
	}
	if n > 0 {
		slog.Info("expired sessions purged", "count", n)
	}
}

func (s *AuthService) SessionByID(sessionID string) (*model.Session, error) {
	if sessionID == "" {
		return nil, repository.ErrSessionNotFound
	}
	return s.sessionRepository.ByID(sessionID)
}

func (s *AuthService) CreateSession(user *model.User) (*model.Session, error) {
	id, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	session := &model.Session{
		ID:        id,
		UserID:    user.ID,
		Username:  user.Username,
		ExpiresAt: time.Now().Add(s.sessionExpiry),
		CreatedAt: time.Now(),
	}

	err = s.sessionRepository.Create(session)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) SetSessionCookie(w http.ResponseWriter, session *model.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.ID,
		Expires:  session.ExpiresAt,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func generateSessionID() (string, error) {
	bytes := make([]byte, 32)
	_, err := rand.Read(bytes)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

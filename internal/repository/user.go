package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/contentdee/contentdee/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrUserNotFound              = errors.New("user not found")
	ErrDuplicateUsername         = errors.New("username already exists")
	ErrDuplicateEmail            = errors.New("email already exists")
	ErrDuplicateSubdomain        = errors.New("subdomain already exists")
	ErrDuplicateProviderIdentity = errors.New("provider identity already linked")
)

type UserRepository interface {
	Create(user *model.User) error
	ByID(id string) (*model.User, error)
	ByUsername(username string) (*model.User, error)
	ByEmail(email string) (*model.User, error)
	BySubdomain(subdomain string) (*model.User, error)
	ByProvider(provider model.Provider, providerID string) (*model.User, error)
	SubdomainExists(subdomain string) (bool, error)
	All() ([]*model.User, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	query := `INSERT INTO users (id, username, password_hash, email, business_name, subdomain,
	          created_at, is_verified, preferred_language, auth_provider, provider_id, display_name, photo_url)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.Exec(query,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.Email,
		user.BusinessName,
		user.Subdomain,
		user.CreatedAt,
		user.IsVerified,
		user.PreferredLanguage,
		user.AuthProvider,
		user.ProviderID,
		user.DisplayName,
		user.PhotoURL,
	)
	if err != nil {
		return mapUniqueViolation(err)
	}

	return nil
}

// mapUniqueViolation turns a driver UNIQUE violation into the sentinel for
// the column that collided. PostgreSQL names the violated index; SQLite
// names the index only for expression indexes and lists the bare columns
// for plain-column ones, so both spellings are matched.
func mapUniqueViolation(err error) error {
	errStr := err.Error()
	if !strings.Contains(errStr, "UNIQUE constraint failed") && !strings.Contains(errStr, "duplicate key value") {
		return err
	}

	switch {
	case strings.Contains(errStr, "idx_users_username"), strings.Contains(errStr, "users.username"):
		return ErrDuplicateUsername
	case strings.Contains(errStr, "idx_users_email"), strings.Contains(errStr, "users.email"):
		return ErrDuplicateEmail
	case strings.Contains(errStr, "idx_users_subdomain"), strings.Contains(errStr, "users.subdomain"):
		return ErrDuplicateSubdomain
	case strings.Contains(errStr, "idx_users_provider_identity"), strings.Contains(errStr, "users.auth_provider"):
		return ErrDuplicateProviderIdentity
	}
	return err
}

func (r *userRepository) ByID(id string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE id = $1`

	err := r.db.Get(user, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) ByUsername(username string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE LOWER(username) = LOWER($1)`

	err := r.db.Get(user, query, username)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) ByEmail(email string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE LOWER(email) = LOWER($1)`

	err := r.db.Get(user, query, email)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) BySubdomain(subdomain string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE LOWER(subdomain) = LOWER($1)`

	err := r.db.Get(user, query, subdomain)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) ByProvider(provider model.Provider, providerID string) (*model.User, error) {
	user := &model.User{}
	query := `SELECT * FROM users WHERE auth_provider = $1 AND provider_id = $2`

	err := r.db.Get(user, query, provider.String(), providerID)
	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}

	return user, err
}

func (r *userRepository) SubdomainExists(subdomain string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM users WHERE LOWER(subdomain) = LOWER($1)`

	err := r.db.QueryRow(query, subdomain).Scan(&count)
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *userRepository) All() ([]*model.User, error) {
	var users []*model.User
	query := `SELECT * FROM users ORDER BY created_at ASC`

	err := r.db.Select(&users, query)
	if err != nil {
		return nil, err
	}

	return users, nil
}

package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/contentdee/contentdee/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrSessionNotFound = errors.New("session not found")
)

type SessionRepository interface {
	Create(session *model.Session) error
	ByID(id string) (*model.Session, error)
	Delete(id string) error
	DeleteExpired() (int64, error)
}

type sessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(session *model.Session) error {
	query := `INSERT INTO sessions (id, user_id, username, expires_at, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query,
		session.ID,
		session.UserID,
		session.Username,
		session.ExpiresAt,
		session.CreatedAt,
	)

	return err
}

// ByID returns the session only while it is still live. Expired rows are
// treated as absent; DeleteExpired reaps them.
func (r *sessionRepository) ByID(id string) (*model.Session, error) {
	session := &model.Session{}
	query := `SELECT * FROM sessions WHERE id = $1`

	err := r.db.Get(session, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	if session.Expired(time.Now()) {
		return nil, ErrSessionNotFound
	}

	return session, nil
}

func (r *sessionRepository) Delete(id string) error {
	query := `DELETE FROM sessions WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrSessionNotFound
	}

	return nil
}

func (r *sessionRepository) DeleteExpired() (int64, error) {
	query := `DELETE FROM sessions WHERE expires_at < $1`

	result, err := r.db.Exec(query, time.Now())
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

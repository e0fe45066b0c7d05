package repository

import (
	"database/sql"
	"errors"

	"github.com/contentdee/contentdee/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrContentNotFound = errors.New("content item not found")
)

type ContentRepository interface {
	Create(item *model.ContentItem) error
	ByID(id string) (*model.ContentItem, error)
	ByUserID(userID string) ([]*model.ContentItem, error)
	Update(item *model.ContentItem) error
	Delete(id string) (bool, error)
}

type contentRepository struct {
	db *sqlx.DB
}

func NewContentRepository(db *sqlx.DB) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) Create(item *model.ContentItem) error {
	query := `INSERT INTO content_items (id, user_id, title, content_type, content, prompt, language, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(query,
		item.ID,
		item.UserID,
		item.Title,
		item.ContentType,
		item.Content,
		item.Prompt,
		item.Language,
		item.CreatedAt,
	)

	return err
}

func (r *contentRepository) ByID(id string) (*model.ContentItem, error) {
	item := &model.ContentItem{}
	query := `SELECT * FROM content_items WHERE id = $1`

	err := r.db.Get(item, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrContentNotFound
	}

	return item, err
}

func (r *contentRepository) ByUserID(userID string) ([]*model.ContentItem, error) {
	var items []*model.ContentItem
	query := `SELECT * FROM content_items WHERE user_id = $1 ORDER BY created_at DESC`

	err := r.db.Select(&items, query, userID)
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *contentRepository) Update(item *model.ContentItem) error {
	query := `UPDATE content_items
	          SET title = $1, content_type = $2, content = $3, prompt = $4, language = $5
	          WHERE id = $6`

	result, err := r.db.Exec(query,
		item.Title,
		item.ContentType,
		item.Content,
		item.Prompt,
		item.Language,
		item.ID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrContentNotFound
	}

	return nil
}

func (r *contentRepository) Delete(id string) (bool, error) {
	query := `DELETE FROM content_items WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

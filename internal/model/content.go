package model

import (
	"time"
)

// ContentItem is one saved piece of generated marketing copy. Ownership is
// fixed at creation and never transferred.
type ContentItem struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"userId"`
	Title       string    `db:"title" json:"title"`
	ContentType string    `db:"content_type" json:"contentType"`
	Content     string    `db:"content" json:"content"`
	Prompt      string    `db:"prompt" json:"prompt"`
	Language    string    `db:"language" json:"language"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}

// ContentPatch is a partial update for a ContentItem. Nil fields are left
// untouched; id, owner and created_at are never patchable.
type ContentPatch struct {
	Title       *string `json:"title,omitempty"`
	ContentType *string `json:"contentType,omitempty"`
	Content     *string `json:"content,omitempty"`
	Prompt      *string `json:"prompt,omitempty"`
	Language    *string `json:"language,omitempty"`
}

// Apply merges the patch into item in place.
func (p *ContentPatch) Apply(item *ContentItem) {
	if p.Title != nil {
		item.Title = *p.Title
	}
	if p.ContentType != nil {
		item.ContentType = *p.ContentType
	}
	if p.Content != nil {
		item.Content = *p.Content
	}
	if p.Prompt != nil {
		item.Prompt = *p.Prompt
	}
	if p.Language != nil {
		item.Language = *p.Language
	}
}

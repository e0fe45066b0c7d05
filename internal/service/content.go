package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/contentdee/contentdee/internal/model"
	"github.com/contentdee/contentdee/internal/repository"
	"github.com/google/uuid"
)

var (
	ErrContentNotFound  = errors.New("content item not found")
	ErrContentForbidden = errors.New("unauthorized access to content")
)

// Generator produces marketing copy from a generation request. The LLM
// backend lives behind this interface so tests can swap it out.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (*GeneratedCopy, error)
}

type ContentService struct {
	contentRepository repository.ContentRepository
	generator         Generator
}

func NewContentService(contentRepository repository.ContentRepository, generator Generator) *ContentService {
	return &ContentService{
		contentRepository: contentRepository,
		generator:         generator,
	}
}

type SaveContentInput struct {
	Title       string `json:"title" validate:"required"`
	ContentType string `json:"contentType" validate:"required"`
	Content     string `json:"content" validate:"required"`
	Prompt      string `json:"prompt"`
	Language    string `json:"language"`
}

func (s *ContentService) Save(userID string, input SaveContentInput) (*model.ContentItem, error) {
	language := input.Language
	if language == "" {
		language = "th"
	}

	item := &model.ContentItem{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       input.Title,
		ContentType: input.ContentType,
		Content:     input.Content,
		Prompt:      input.Prompt,
		Language:    language,
		CreatedAt:   time.Now(),
	}

	err := s.contentRepository.Create(item)
	if err != nil {
		return nil, fmt.Errorf("failed to save content item: %w", err)
	}

	slog.Info("content item saved", "item_id", item.ID, "user_id", userID, "content_type", item.ContentType)
	return item, nil
}

// List returns the user's library, newest first.
func (s *ContentService) List(userID string) ([]*model.ContentItem, error) {
	items, err := s.contentRepository.ByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list content items: %w", err)
	}
	return items, nil
}

// Get returns one item, refusing items owned by someone else.
func (s *ContentService) Get(userID, itemID string) (*model.ContentItem, error) {
	item, err := s.contentRepository.ByID(itemID)
	if err != nil {
		if errors.Is(err, repository.ErrContentNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to get content item: %w", err)
	}

	if item.UserID != userID {
		return nil, ErrContentForbidden
	}

	return item, nil
}

// Patch applies a partial update to an owned item.
func (s *ContentService) Patch(userID, itemID string, patch model.ContentPatch) (*model.ContentItem, error) {
	item, err := s.Get(userID, itemID)
	if err != nil {
		return nil, err
	}

	patch.Apply(item)

	err = s.contentRepository.Update(item)
	if err != nil {
		if errors.Is(err, repository.ErrContentNotFound) {
			return nil, ErrContentNotFound
		}
		return nil, fmt.Errorf("failed to update content item: %w", err)
	}

	return item, nil
}

func (s *ContentService) Delete(userID, itemID string) error {
	_, err := s.Get(userID, itemID)
	if err != nil {
		return err
	}

	removed, err := s.contentRepository.Delete(itemID)
	if err != nil {
		return fmt.Errorf("failed to delete content item: %w", err)
	}
	if !removed {
		return ErrContentNotFound
	}

	slog.Info("content item deleted", "item_id", itemID, "user_id", userID)
	return nil
}

func (s *ContentService) Generate(ctx context.Context, req GenerationRequest) (*GeneratedCopy, error) {
	if req.Language == "" {
		req.Language = "th"
	}
	return s.generator.Generate(ctx, req)
}

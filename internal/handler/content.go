package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/contentdee/contentdee/internal/ctxkeys"
	"github.com/contentdee/contentdee/internal/metrics"
	"github.com/contentdee/contentdee/internal/model"
	"github.com/contentdee/contentdee/internal/service"
)

type contentHandler struct {
	contentService *service.ContentService
	collector      *metrics.Collector
}

func NewContentHandler(contentService *service.ContentService, collector *metrics.Collector) *contentHandler {
	return &contentHandler{contentService: contentService, collector: collector}
}

// Generate produces marketing copy without persisting it. Saving is a
// separate, explicit step.
// POST /api/content/generate
func (h *contentHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req service.GenerationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	copyOut, err := h.contentService.Generate(r.Context(), req)
	if err != nil {
		h.collector.RecordGeneration(false)
		if errors.Is(err, service.ErrGeneratorNotConfigured) {
			writeMessage(w, http.StatusServiceUnavailable, "Content generation is not available")
			return
		}
		slog.Error("content generation failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Failed to generate content")
		return
	}

	h.collector.RecordGeneration(true)
	writeJSON(w, http.StatusOK, copyOut)
}

// Save stores a piece of copy in the caller's library.
// POST /api/content/save
func (h *contentHandler) Save(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var input service.SaveContentInput
	if !decodeAndValidate(w, r, &input) {
		return
	}

	item, err := h.contentService.Save(user.ID, input)
	if err != nil {
		slog.Error("failed to save content", "error", err, "user_id", user.ID)
		writeMessage(w, http.StatusInternalServerError, "Failed to save content")
		return
	}

	writeJSON(w, http.StatusCreated, item)
}

// List returns the caller's library, newest first.
// GET /api/content/items
func (h *contentHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	items, err := h.contentService.List(user.ID)
	if err != nil {
		slog.Error("failed to list content", "error", err, "user_id", user.ID)
		writeMessage(w, http.StatusInternalServerError, "Failed to load content items")
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// Get returns one owned item.
// GET /api/content/item/{id}
func (h *contentHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	itemID := r.PathValue("id")

	item, err := h.contentService.Get(user.ID, itemID)
	if err != nil {
		h.writeContentError(w, err, user.ID, itemID)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// Patch applies a partial update to an owned item.
// PATCH /api/content/item/{id}
func (h *contentHandler) Patch(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	itemID := r.PathValue("id")

	var patch model.ContentPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	item, err := h.contentService.Patch(user.ID, itemID, patch)
	if err != nil {
		h.writeContentError(w, err, user.ID, itemID)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// Delete removes an owned item.
// DELETE /api/content/item/{id}
func (h *contentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	itemID := r.PathValue("id")

	err := h.contentService.Delete(user.ID, itemID)
	if err != nil {
		h.writeContentError(w, err, user.ID, itemID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *contentHandler) writeContentError(w http.ResponseWriter, err error, userID, itemID string) {
	switch {
	case errors.Is(err, service.ErrContentNotFound):
		writeMessage(w, http.StatusNotFound, "Content item not found")
	case errors.Is(err, service.ErrContentForbidden):
		writeMessage(w, http.StatusForbidden, "Unauthorized access to content")
	default:
		slog.Error("content operation failed", "error", err, "user_id", userID, "item_id", itemID)
		writeMessage(w, http.StatusInternalServerError, "Content operation failed")
	}
}

package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func savePayload(title string) map[string]any {
	return map[string]any{
		"title":       title,
		"contentType": "facebook_post",
		"content":     "Fresh beans, roasted daily.",
		"prompt":      "coffee shop promo",
		"language":    "en",
	}
}

func TestContentRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/content/generate"},
		{http.MethodPost, "/api/content/save"},
		{http.MethodGet, "/api/content/items"},
		{http.MethodGet, "/api/content/item/some-id"},
		{http.MethodPatch, "/api/content/item/some-id"},
		{http.MethodDelete, "/api/content/item/some-id"},
	}
	for _, p := range paths {
		rec := env.do(t, p.method, p.path, map[string]any{})
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", p.method, p.path)
		assert.Equal(t, "Authentication required", decodeBody(t, rec)["message"])
	}
}

func TestContentSaveListGet(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.register(t, "grace")

	rec := env.do(t, http.MethodPost, "/api/content/save", savePayload("Morning promo"), cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	saved := decodeBody(t, rec)
	itemID := saved["id"].(string)
	require.NotEmpty(t, itemID)
	assert.Equal(t, "en", saved["language"])

	rec = env.do(t, http.MethodPost, "/api/content/save", savePayload("Evening promo"), cookie)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/content/items", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Morning promo")
	assert.Contains(t, rec.Body.String(), "Evening promo")

	rec = env.do(t, http.MethodGet, "/api/content/item/"+itemID, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Morning promo", decodeBody(t, rec)["title"])
}

func TestContentSaveDefaultsLanguage(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.register(t, "henry")

	payload := savePayload("Thai default")
	delete(payload, "language")
	rec := env.do(t, http.MethodPost, "/api/content/save", payload, cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "th", decodeBody(t, rec)["language"])
}

func TestContentSaveValidation(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.register(t, "iris")

	payload := savePayload("No body")
	delete(payload, "content")
	rec := env.do(t, http.MethodPost, "/api/content/save", payload, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContentOwnership(t *testing.T) {
	env := newTestEnv(t)
	owner := env.register(t, "jack")
	intruder := env.register(t, "kate")

	rec := env.do(t, http.MethodPost, "/api/content/save", savePayload("Private"), owner)
	require.Equal(t, http.StatusCreated, rec.Code)
	itemID := decodeBody(t, rec)["id"].(string)

	rec = env.do(t, http.MethodGet, "/api/content/item/"+itemID, nil, intruder)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Unauthorized access to content", decodeBody(t, rec)["message"])

	rec = env.do(t, http.MethodDelete, "/api/content/item/"+itemID, nil, intruder)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// Owner still sees it
	rec = env.do(t, http.MethodGet, "/api/content/item/"+itemID, nil, owner)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestContentPatchAndDelete(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.register(t, "liam")

	rec := env.do(t, http.MethodPost, "/api/content/save", savePayload("Draft"), cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	itemID := decodeBody(t, rec)["id"].(string)

	rec = env.do(t, http.MethodPatch, "/api/content/item/"+itemID, map[string]any{"title": "Final"}, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	patched := decodeBody(t, rec)
	assert.Equal(t, "Final", patched["title"])
	assert.Equal(t, "Fresh beans, roasted daily.", patched["content"])

	rec = env.do(t, http.MethodDelete, "/api/content/item/"+itemID, nil, cookie)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/content/item/"+itemID, nil, cookie)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Content item not found", decodeBody(t, rec)["message"])
}

func TestContentGenerate(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.register(t, "maya")

	rec := env.do(t, http.MethodPost, "/api/content/generate", map[string]any{
		"contentType":  "facebook_post",
		"businessType": "coffee shop",
		"tone":         "friendly",
		"length":       "short",
		"details":      "weekend discount on lattes",
	}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, "Generated: facebook_post", body["title"])
	assert.Equal(t, "Copy for coffee shop", body["content"])
}

func TestContentGenerateValidation(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.register(t, "nina")

	rec := env.do(t, http.MethodPost, "/api/content/generate", map[string]any{
		"contentType": "facebook_post",
	}, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

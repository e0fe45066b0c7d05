package handler

import (
	"net/http"

	"github.com/contentdee/contentdee/internal/repository"
	"github.com/contentdee/contentdee/internal/subdomain"
)

type subdomainHandler struct {
	userRepository repository.UserRepository
}

func NewSubdomainHandler(userRepository repository.UserRepository) *subdomainHandler {
	return &subdomainHandler{userRepository: userRepository}
}

// Validate checks whether a subdomain is well-formed and available.
// POST /api/subdomain/validate
func (h *subdomainHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Subdomain string `json:"subdomain"`
	}
	if !decodeJSON(w, r, &payload) {
		return
	}
	if payload.Subdomain == "" {
		writeMessage(w, http.StatusBadRequest, "Subdomain is required")
		return
	}

	err := subdomain.Validate(payload.Subdomain, h.userRepository.SubdomainExists)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"valid": false, "message": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"valid": true})
}

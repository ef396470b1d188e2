package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/saas-starter/internal/apperror"
	"github.com/sakif/saas-starter/internal/model"
	"github.com/sakif/saas-starter/internal/service"
)

// ContactHandler accepts contact-form submissions.
type ContactHandler struct {
	contacts *service.ContactService
	logger   *slog.Logger
}

func NewContactHandler(contacts *service.ContactService, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{contacts: contacts, logger: logger}
}

// HandleSubmit stores one submission.
//
// HTTP: POST /api/contact
// BODY: {"name": "...", "email": "...", "subject": "...", "message": "..."}
//
// 200 → {"status": "ok"}
func (h *ContactHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var msg model.ContactMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		writeError(w, apperror.ValidationFailed("body", "request body must be valid JSON"))
		return
	}

	if err := h.contacts.Submit(r.Context(), &msg); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

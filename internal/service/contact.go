package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/sakif/saas-starter/internal/apperror"
	"github.com/sakif/saas-starter/internal/model"
	"github.com/sakif/saas-starter/internal/repository"
)

// ContactService accepts contact-form submissions.
type ContactService struct {
	contacts repository.ContactRepository
	logger   *slog.Logger
}

func NewContactService(contacts repository.ContactRepository, logger *slog.Logger) *ContactService {
	return &ContactService{contacts: contacts, logger: logger}
}

// Submit validates and stores one submission. The sender's email is kept
// as-is apart from trimming — it is a reply-to address, not a lookup key,
// so it is not forced to lower case.
func (s *ContactService) Submit(ctx context.Context, msg *model.ContactMessage) error {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Message = strings.TrimSpace(msg.Message)

	if msg.Name == "" {
		return apperror.ValidationFailed("name", "name is required")
	}
	if msg.Email == "" {
		return apperror.ValidationFailed("email", "email is required")
	}
	if _, err := mail.ParseAddress(msg.Email); err != nil {
		return apperror.ValidationFailed("email", "email is not a valid address")
	}
	if msg.Message == "" {
		return apperror.ValidationFailed("message", "message is required")
	}

	if err := s.contacts.Insert(ctx, msg); err != nil {
		return fmt.Errorf("service/contact: storing message: %w", err)
	}

	s.logger.Info("contact message received", slog.String("id", msg.ID))
	return nil
}

// Package contact принимает обращения из формы контактов и ведёт их статусы.
package contact

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/junimo-store/internal/lib/sl"
	"github.com/magabrotheeeer/junimo-store/internal/models"
)

// Acknowledgement текст подтверждения, который получает отправитель.
const Acknowledgement = "¡Gracias por contactarnos! Te responderemos a la brevedad."

// Repository хранилище обращений.
type Repository interface {
	CreateContactMessage(ctx context.Context, m models.ContactMessage) (*models.ContactMessage, error)
	ListContactMessages(ctx context.Context, status string) ([]*models.ContactMessage, error)
	UpdateContactStatus(ctx context.Context, id int, status string) error
}

// Publisher публикует события уведомлений.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Service операции с обращениями.
type Service struct {
	repo      Repository
	publisher Publisher
	log       *slog.Logger
}

// New создаёт сервис обращений.
func New(repo Repository, publisher Publisher, log *slog.Logger) *Service {
	return &Service{repo: repo, publisher: publisher, log: log}
}

// Submit сохраняет обращение со статусом pendiente и ставит в очередь письмо
// с подтверждением. Ошибка публикации не отменяет сохранение.
func (s *Service) Submit(ctx context.Context, req models.DummyContact) (*models.ContactMessage, string, error) {
	const op = "contact.Submit"
	msg, err := s.repo.CreateContactMessage(ctx, models.ContactMessage{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:   strings.TrimSpace(req.Phone),
		Subject: strings.TrimSpace(req.Subject),
		Message: strings.TrimSpace(req.Message),
		Status:  models.ContactPending,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}

	event := models.ContactReceivedEvent{Email: msg.Email, Name: msg.Name, Subject: msg.Subject}
	if err := s.publisher.Publish(ctx, models.EventContactReceived, event); err != nil {
		s.log.Error("failed to publish contact notification", slog.Int("id", msg.ID), sl.Err(err))
	}
	return msg, Acknowledgement, nil
}

// List возвращает обращения. Пустой статус означает все.
func (s *Service) List(ctx context.Context, status string) ([]*models.ContactMessage, error) {
	const op = "contact.List"
	if status != "" && !models.IsValidContactStatus(status) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidStatus)
	}
	out, err := s.repo.ListContactMessages(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if out == nil {
		out = []*models.ContactMessage{}
	}
	return out, nil
}

// UpdateStatus меняет статус обращения.
func (s *Service) UpdateStatus(ctx context.Context, id int, status string) error {
	const op = "contact.UpdateStatus"
	if !models.IsValidContactStatus(status) {
		return fmt.Errorf("%s: %w", op, models.ErrInvalidStatus)
	}
	if err := s.repo.UpdateContactStatus(ctx, id, status); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

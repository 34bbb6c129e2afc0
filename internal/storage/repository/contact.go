package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/junimo-store/internal/models"
)

// CreateContactMessage сохраняет обращение и возвращает его с ID и датами.
func (s *Storage) CreateContactMessage(ctx context.Context, m models.ContactMessage) (*models.ContactMessage, error) {
	const op = "storage.CreateContactMessage"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `INSERT INTO contact_messages (name, email, phone, subject, message, status)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id, created_at, updated_at`
	if err := s.DB.QueryRowContext(ctx, query, m.Name, m.Email, m.Phone, m.Subject, m.Message, m.Status).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &m, nil
}

// ListContactMessages возвращает обращения, новые первыми. Пустой status не фильтрует.
func (s *Storage) ListContactMessages(ctx context.Context, status string) ([]*models.ContactMessage, error) {
	const op = "storage.ListContactMessages"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, name, email, phone, subject, message, status, created_at, updated_at
			  FROM contact_messages`
	var args []any
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []*models.ContactMessage
	for rows.Next() {
		m := &models.ContactMessage{}
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Subject, &m.Message,
			&m.Status, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// UpdateContactStatus меняет статус обращения.
func (s *Storage) UpdateContactStatus(ctx context.Context, id int, status string) error {
	const op = "storage.UpdateContactStatus"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE contact_messages SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return affected(op, res)
}

package models

import "time"

// Статусы обращения.
const (
	ContactPending    = "pendiente"
	ContactInProgress = "en_proceso"
	ContactResolved   = "resuelto"
)

// IsValidContactStatus проверяет статус обращения.
func IsValidContactStatus(status string) bool {
	switch status {
	case ContactPending, ContactInProgress, ContactResolved:
		return true
	}
	return false
}

// ContactMessage обращение, отправленное через форму контактов.
type ContactMessage struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DummyContact используется для приёма обращения из JSON-запроса.
type DummyContact struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone,omitempty" validate:"omitempty,phone"`
	Subject string `json:"subject" validate:"required,max=150"`
	Message string `json:"message" validate:"required,max=5000"`
}

// DummyContactStatus новый статус обращения.
type DummyContactStatus struct {
	Status string `json:"status" validate:"required,oneof=pendiente en_proceso resuelto"`
}

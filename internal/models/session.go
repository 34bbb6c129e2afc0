package models

import "time"

// Session данные текущей сессии, извлечённые из токена.
type Session struct {
	ID        string    `json:"-"`
	RUN       string    `json:"run"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expires_at"`
}

// LoginResult ответ на успешный вход.
type LoginResult struct {
	Token      string    `json:"token"`
	ExpiresAt  time.Time `json:"expires_at"`
	Role       string    `json:"role"`
	RedirectTo string    `json:"redirect_to"`
	User       User      `json:"user"`
}

// SessionStatus оставшееся время сессии.
type SessionStatus struct {
	Session
	MinutesLeft  int  `json:"minutes_left"`
	ExpiringSoon bool `json:"expiring_soon"`
}

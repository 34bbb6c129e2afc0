package models

import "time"

// User представляет зарегистрированного пользователя магазина. Ключом служит RUN.
type User struct {
	RUN          string     `json:"run"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Phone        string     `json:"phone,omitempty"`
	Role         string     `json:"role"`
	Region       string     `json:"region,omitempty"`
	Commune      string     `json:"commune,omitempty"`
	Address      string     `json:"address,omitempty"`
	BirthDate    *time.Time `json:"birth_date,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// FullName возвращает имя и фамилию пользователя.
func (u User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// UserSummary пользователь вместе с показателями покупок, используется в отчётах.
type UserSummary struct {
	User
	TotalPurchases int   `json:"total_purchases"`
	TotalSpent     int64 `json:"total_spent"`
}

// DummyUser используется для приёма данных пользователя из JSON-запроса.
type DummyUser struct {
	RUN       string `json:"run" validate:"required,run"`
	FirstName string `json:"first_name" validate:"required,max=60"`
	LastName  string `json:"last_name" validate:"required,max=80"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=4,max=72"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,phone"`
	Role      string `json:"role,omitempty" validate:"omitempty,role"`
	Region    string `json:"region,omitempty"`
	Commune   string `json:"commune,omitempty"`
	Address   string `json:"address,omitempty"`
	BirthDate string `json:"birth_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// UserUpdate частичное обновление пользователя. Пустые поля не меняются.
type UserUpdate struct {
	FirstName string `json:"first_name,omitempty" validate:"omitempty,max=60"`
	LastName  string `json:"last_name,omitempty" validate:"omitempty,max=80"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Password  string `json:"password,omitempty" validate:"omitempty,min=4,max=72"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,phone"`
	Role      string `json:"role,omitempty" validate:"omitempty,role"`
	Region    string `json:"region,omitempty"`
	Commune   string `json:"commune,omitempty"`
	Address   string `json:"address,omitempty"`
	BirthDate string `json:"birth_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// LoginRequest данные для входа.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

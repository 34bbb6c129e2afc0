package models

import "errors"

// Доменные ошибки, которые HTTP-слой переводит в коды ответов.
var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrCategoryInUse      = errors.New("category has products")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidInput       = errors.New("invalid input")
	ErrDeliveredOrder     = errors.New("delivered order cannot be deleted")
	ErrUserHasOrders      = errors.New("user has delivered orders")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidRUN         = errors.New("invalid run")
	ErrEmptyReport        = errors.New("no data for report")
	ErrUnknownReport      = errors.New("unknown report kind or format")
)

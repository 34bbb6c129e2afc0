// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Пакет упрощает возврат
// успешных ответов, ошибок и сообщений валидации в едином формате.
package response

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/junimo-store/internal/lib/validate"
	"github.com/magabrotheeeer/junimo-store/internal/models"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
// Поле Status - статус запроса ("OK" или "Error").
// Поле Error - текст ошибки (опционально, при неуспехе).
// Поле Data - данные ответа (опционально, при успехе).
type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse - структура ошибки для Swagger-документации.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

const (
	// StatusOK - значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError - значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// OKWithData возвращает успешный Response с переданными данными.
func OKWithData(data any) Response {
	return Response{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError формирует Response со статусом Error на основе ошибок валидации.
func ValidationError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  validate.Message(err),
	}
}

type mapping struct {
	target error
	status int
	msg    string
}

var mappings = []mapping{
	{models.ErrNotFound, http.StatusNotFound, "not found"},
	{models.ErrAlreadyExists, http.StatusConflict, "already exists"},
	{models.ErrCategoryInUse, http.StatusConflict, "category has products"},
	{models.ErrInsufficientStock, http.StatusConflict, "insufficient stock"},
	{models.ErrDeliveredOrder, http.StatusConflict, "delivered orders cannot be deleted"},
	{models.ErrUserHasOrders, http.StatusConflict, "user has delivered orders"},
	{models.ErrEmptyCart, http.StatusUnprocessableEntity, "cart is empty"},
	{models.ErrInvalidStatus, http.StatusUnprocessableEntity, "invalid status"},
	{models.ErrInvalidInput, http.StatusUnprocessableEntity, "invalid input"},
	{models.ErrInvalidRUN, http.StatusUnprocessableEntity, "invalid RUN"},
	{models.ErrEmptyReport, http.StatusUnprocessableEntity, "no data available for this report"},
	{models.ErrUnknownReport, http.StatusBadRequest, "unknown report kind or format"},
	{models.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
	{models.ErrForbidden, http.StatusForbidden, "forbidden"},
}

// StatusFor переводит доменную ошибку в HTTP-код и сообщение для клиента.
// Неизвестные ошибки считаются внутренними.
func StatusFor(err error) (int, string) {
	for _, m := range mappings {
		if errors.Is(err, m.target) {
			return m.status, m.msg
		}
	}
	return http.StatusInternalServerError, "internal error"
}

// Fail пишет ответ с ошибкой и заданным кодом.
func Fail(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, Error(msg))
}

// FailWith пишет ответ с кодом и сообщением, соответствующими доменной ошибке.
func FailWith(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := StatusFor(err)
	Fail(w, r, status, msg)
}

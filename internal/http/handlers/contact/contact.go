// Package contact реализует HTTP-обработчики формы обратной связи.
package contact

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/junimo-store/internal/http/request"
	"github.com/magabrotheeeer/junimo-store/internal/http/response"
	"github.com/magabrotheeeer/junimo-store/internal/lib/sl"
	"github.com/magabrotheeeer/junimo-store/internal/lib/validate"
	"github.com/magabrotheeeer/junimo-store/internal/models"
)

// Service описывает операции с обращениями.
type Service interface {
	Submit(ctx context.Context, req models.DummyContact) (*models.ContactMessage, string, error)
	List(ctx context.Context, status string) ([]*models.ContactMessage, error)
	UpdateStatus(ctx context.Context, id int, status string) error
}

// Handler обрабатывает HTTP-запросы к обращениям.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validate.New(),
	}
}

// SubmitResponse ответ на отправку формы.
type SubmitResponse struct {
	Message string                 `json:"message"`
	Contact *models.ContactMessage `json:"contact"`
}

// Submit godoc
// @Summary Отправка формы контактов
// @Tags Contact
// @Accept  json
// @Produce  json
// @Param request body models.DummyContact true "Обращение"
// @Success 201 {object} SubmitResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /contact [post]
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contact.Submit"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyContact
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	msg, ack, err := h.service.Submit(r.Context(), req)
	if err != nil {
		log.Error("failed to save contact message", sl.Err(err))
		response.FailWith(w, r, err)
		return
	}

	log.Info("contact message received", slog.Int("id", msg.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(SubmitResponse{Message: ack, Contact: msg}))
}

// List godoc
// @Summary Список обращений
// @Tags Contact
// @Produce  json
// @Security BearerAuth
// @Param status query string false "pendiente, en_proceso или resuelto"
// @Success 200 {array} models.ContactMessage
// @Failure 422 {object} response.ErrorResponse
// @Router /admin/contact [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contact.List"

	messages, err := h.service.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.log.Warn("failed to list contact messages", slog.String("op", op), sl.Err(err))
		response.FailWith(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(messages))
}

// UpdateStatus godoc
// @Summary Смена статуса обращения
// @Tags Contact
// @Accept  json
// @Security BearerAuth
// @Param id path int true "ID обращения"
// @Param request body models.DummyContactStatus true "Новый статус"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /admin/contact/{id}/status [put]
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contact.UpdateStatus"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, ok := request.IntParam(w, r, "id")
	if !ok {
		return
	}
	var req models.DummyContactStatus
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}
	if err := h.service.UpdateStatus(r.Context(), id, req.Status); err != nil {
		log.Warn("failed to update contact status", slog.Int("id", id), sl.Err(err))
		response.FailWith(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

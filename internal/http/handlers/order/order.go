// Package order реализует HTTP-обработчики заказов: история покупателя и
// управление заказами в back-office.
package order

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/junimo-store/internal/http/middlewarectx"
	"github.com/magabrotheeeer/junimo-store/internal/http/request"
	"github.com/magabrotheeeer/junimo-store/internal/http/response"
	"github.com/magabrotheeeer/junimo-store/internal/lib/sl"
	"github.com/magabrotheeeer/junimo-store/internal/lib/validate"
	"github.com/magabrotheeeer/junimo-store/internal/models"
)

// Service описывает операции с заказами.
type Service interface {
	ListOrders(ctx context.Context, f models.OrderFilter) ([]*models.Order, error)
	GetOrder(ctx context.Context, session models.Session, number string) (*models.Order, error)
	OrdersForUser(ctx context.Context, run string) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, number, status string) (*models.Order, error)
	DeleteOrder(ctx context.Context, number string) error
	Stats(ctx context.Context) (models.OrderStats, error)
}

// Handler обрабатывает HTTP-запросы к заказам.
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

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// List godoc
// @Summary Поиск заказов
// @Description Фильтры по номеру, RUN, статусу и дате (YYYY-MM-DD).
// @Tags Orders
// @Produce  json
// @Security BearerAuth
// @Param number query string false "Часть номера заказа"
// @Param run query string false "RUN покупателя"
// @Param status query string false "Статус"
// @Param date query string false "Дата оформления"
// @Success 200 {array} models.Order
// @Failure 422 {object} response.ErrorResponse
// @Router /admin/orders [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.List"
	log := h.logger(r, op)

	q := r.URL.Query()
	f := models.OrderFilter{
		Number: strings.TrimSpace(q.Get("number")),
		RUN:    strings.TrimSpace(q.Get("run")),
		Status: q.Get("status"),
		Date:   q.Get("date"),
	}
	orders, err := h.service.ListOrders(r.Context(), f)
	if err != nil {
		log.Warn("failed to list orders", sl.Err(err))
		response.FailWith(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(orders))
}

// Stats godoc
// @Summary Сводка по заказам
// @Tags Orders
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} models.OrderStats
// @Router /admin/orders/stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.Stats"

	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.logger(r, op).Error("failed to compute stats", sl.Err(err))
		response.FailWith(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(stats))
}

// Get godoc
// @Summary Заказ по номеру
// @Description Покупатель видит только свои заказы.
// @Tags Orders
// @Produce  json
// @Security BearerAuth
// @Param number path string true "Номер заказа"
// @Success 200 {object} models.Order
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/orders/{number} [get]
// @Router /me/orders/{number} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.Get"
	log := h.logger(r, op)

	session, ok := middlewarectx.SessionFrom(r.Context())
	if !ok {
		response.Fail(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}
	number := chi.URLParam(r, "number")
	o, err := h.service.GetOrder(r.Context(), session, number)
	if err != nil {
		log.Warn("failed to get order", slog.String("number", number), sl.Err(err))
		response.FailWith(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(o))
}

// Mine godoc
// @Summary Мои заказы
// @Tags Orders
// @Produce  json
// @Security BearerAuth
// @Success 200 {array} models.Order
// @Router /me/orders [get]
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.Mine"
	log := h.logger(r, op)

	session, ok := middlewarectx.SessionFrom(r.Context())
	if !ok {
		response.Fail(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}
	orders, err := h.service.OrdersForUser(r.Context(), session.RUN)
	if err != nil {
		log.Error("failed to list user orders", slog.String("run", session.RUN), sl.Err(err))
		response.FailWith(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(orders))
}

// UpdateStatus godoc
// @Summary Смена статуса заказа
// @Tags Orders
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param number path string true "Номер заказа"
// @Param request body models.DummyStatus true "Новый статус"
// @Success 200 {object} models.Order
// @Failure 404 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /admin/orders/{number}/status [put]
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.UpdateStatus"
	log := h.logger(r, op)

	var req models.DummyStatus
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}
	number := chi.URLParam(r, "number")
	o, err := h.service.UpdateStatus(r.Context(), number, req.Status)
	if err != nil {
		log.Error("failed to update status", slog.String("number", number), sl.Err(err))
		response.FailWith(w, r, err)
		return
	}
	log.Info("order status changed", slog.String("number", number), slog.String("status", req.Status))
	render.JSON(w, r, response.OKWithData(o))
}

// Delete godoc
// @Summary Удаление заказа
// @Description Доставленный заказ удалить нельзя. Остатки не восстанавливаются.
// @Tags Orders
// @Security BearerAuth
// @Param number path string true "Номер заказа"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /admin/orders/{number} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.Delete"
	log := h.logger(r, op)

	number := chi.URLParam(r, "number")
	if err := h.service.DeleteOrder(r.Context(), number); err != nil {
		log.Warn("failed to delete order", slog.String("number", number), sl.Err(err))
		response.FailWith(w, r, err)
		return
	}
	log.Info("order deleted", slog.String("number", number))
	w.WriteHeader(http.StatusNoContent)
}

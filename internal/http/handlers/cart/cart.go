// Package cart реализует HTTP-обработчики корзины текущего пользователя и оформления заказа.
package cart

import (
	"context"
	"log/slog"
	"net/http"

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

// Service описывает операции корзины.
type Service interface {
	Get(ctx context.Context, run string) (*models.Cart, error)
	AddItem(ctx context.Context, run, code string, quantity int) (*models.Cart, error)
	UpdateItem(ctx context.Context, run, code string, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, run, code string) (*models.Cart, error)
	Clear(ctx context.Context, run string) error
}

// Checkout оформляет заказ из корзины.
type Checkout interface {
	Checkout(ctx context.Context, run string) (*models.Order, error)
}

// Handler обрабатывает HTTP-запросы к корзине.
type Handler struct {
	log      *slog.Logger
	service  Service
	orders   Checkout
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, service Service, orders Checkout) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		orders:   orders,
		validate: validate.New(),
	}
}

// session достаёт сессию и готовит логгер. При отсутствии сессии пишет 401.
func (h *Handler) session(w http.ResponseWriter, r *http.Request, op string) (models.Session, *slog.Logger, bool) {
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	s, ok := middlewarectx.SessionFrom(r.Context())
	if !ok {
		log.Error("user not found in context")
		response.Fail(w, r, http.StatusUnauthorized, "unauthorized")
		return s, log, false
	}
	return s, log.With(slog.String("run", s.RUN)), true
}

// Get godoc
// @Summary Корзина
// @Tags Cart
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} models.Cart
// @Router /cart [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	s, log, ok := h.session(w, r, "handlers.cart.Get")
	if !ok {
		return
	}
	c, err := h.service.Get(r.Context(), s.RUN)
	if err != nil {
		log.Error("failed to load cart", sl.Err(err))
		response.FailWith(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(c))
}

// Add godoc
// @Summary Добавление товара в корзину
// @Description Количество складывается с уже лежащим в корзине и не может превышать остаток.
// @Tags Cart
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyCartItem true "Товар и количество"
// @Success 200 {object} models.Cart
// @Failure 404 {object} response.ErrorResponse "Товар не найден"
// @Failure 409 {object} response.ErrorResponse "Недостаточно товара"
// @Router /cart/items [post]
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	s, log, ok := h.session(w, r, "handlers.cart.Add")
	if !ok {
		return
	}
	var req models.DummyCartItem
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}
	c, err := h.service.AddItem(r.Context(), s.RUN, req.Code, req.Quantity)
	if err != nil {
		log.Warn("failed to add item", slog.String("code", req.Code), sl.Err(err))
		response.FailWith(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(c))
}

// Update godoc
// @Summary Изменение количества
// @Description Количество ноль или меньше удаляет позицию.
// @Tags Cart
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param code path string true "Код товара"
// @Param request body models.DummyQuantity true "Новое количество"
// @Success 200 {object} models.Cart
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /cart/items/{code} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	s, log, ok := h.session(w, r, "handlers.cart.Update")
	if !ok {
		return
	}
	var req models.DummyQuantity
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}
	code := chi.URLParam(r, "code")
	c, err := h.service.UpdateItem(r.Context(), s.RUN, code, req.Quantity)
	if err != nil {
		log.Warn("failed to update item", slog.String("code", code), sl.Err(err))
		response.FailWith(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(c))
}

// Remove godoc
// @Summary Удаление позиции
// @Tags Cart
// @Produce  json
// @Security BearerAuth
// @Param code path string true "Код товара"
// @Success 200 {object} models.Cart
// @Router /cart/items/{code} [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	s, log, ok := h.session(w, r, "handlers.cart.Remove")
	if !ok {
		return
	}
	code := chi.URLParam(r, "code")
	c, err := h.service.RemoveItem(r.Context(), s.RUN, code)
	if err != nil {
		log.Error("failed to remove item", slog.String("code", code), sl.Err(err))
		response.FailWith(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(c))
}

// Clear godoc
// @Summary Очистка корзины
// @Tags Cart
// @Security BearerAuth
// @Success 204
// @Router /cart [delete]
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	s, log, ok := h.session(w, r, "handlers.cart.Clear")
	if !ok {
		return
	}
	if err := h.service.Clear(r.Context(), s.RUN); err != nil {
		log.Error("failed to clear cart", sl.Err(err))
		response.FailWith(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Checkout godoc
// @Summary Оформление заказа
// @Description Создаёт заказ со статусом Pendiente, списывает остатки и очищает корзину.
// @Tags Cart
// @Produce  json
// @Security BearerAuth
// @Success 201 {object} models.Order
// @Failure 409 {object} response.ErrorResponse "Недостаточно товара"
// @Failure 422 {object} response.ErrorResponse "Корзина пуста"
// @Router /cart/checkout [post]
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	s, log, ok := h.session(w, r, "handlers.cart.Checkout")
	if !ok {
		return
	}
	o, err := h.orders.Checkout(r.Context(), s.RUN)
	if err != nil {
		log.Warn("checkout failed", sl.Err(err))
		response.FailWith(w, r, err)
		return
	}
	log.Info("order placed", slog.String("number", o.Number), slog.Int64("total", o.Total))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(o))
}

// Package category реализует HTTP-обработчики категорий каталога.
package category

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

// Service описывает операции с категориями.
type Service interface {
	ListCategories(ctx context.Context) ([]*models.Category, error)
	GetCategory(ctx context.Context, id int) (*models.Category, error)
	CreateCategory(ctx context.Context, name string) (*models.Category, error)
	UpdateCategory(ctx context.Context, id int, name string) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int) error
}

// Handler обрабатывает HTTP-запросы к категориям.
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

// List godoc
// @Summary Список категорий
// @Tags Categories
// @Produce  json
// @Success 200 {array} models.Category
// @Router /categories [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.category.List"

	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		h.log.Error("failed to list categories", slog.String("op", op), sl.Err(err))
		response.FailWith(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(categories))
}

// Get godoc
// @Summary Категория по ID
// @Tags Categories
// @Produce  json
// @Param id path int true "ID категории"
// @Success 200 {object} models.Category
// @Failure 404 {object} response.ErrorResponse
// @Router /categories/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.category.Get"

	id, ok := request.IntParam(w, r, "id")
	if !ok {
		return
	}
	c, err := h.service.GetCategory(r.Context(), id)
	if err != nil {
		h.log.Warn("failed to get category", slog.String("op", op), slog.Int("id", id), sl.Err(err))
		response.FailWith(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(c))
}

// Create godoc
// @Summary Создание категории
// @Description Префикс кода товаров вычисляется из названия.
// @Tags Categories
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyCategory true "Название"
// @Success 201 {object} models.Category
// @Failure 409 {object} response.ErrorResponse "Категория уже существует"
// @Failure 422 {object} response.ErrorResponse
// @Router /admin/categories [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.category.Create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyCategory
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	c, err := h.service.CreateCategory(r.Context(), req.Name)
	if err != nil {
		log.Error("failed to create category", sl.Err(err))
		response.FailWith(w, r, err)
		return
	}

	log.Info("category created", slog.Int("id", c.ID), slog.String("prefix", c.CodePrefix))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(c))
}

// Update godoc
// @Summary Переименование категории
// @Tags Categories
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path int true "ID категории"
// @Param request body models.DummyCategory true "Название"
// @Success 200 {object} models.Category
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /admin/categories/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.category.Update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, ok := request.IntParam(w, r, "id")
	if !ok {
		return
	}
	var req models.DummyCategory
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	c, err := h.service.UpdateCategory(r.Context(), id, req.Name)
	if err != nil {
		log.Error("failed to update category", slog.Int("id", id), sl.Err(err))
		response.FailWith(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(c))
}

// Delete godoc
// @Summary Удаление категории
// @Description Категорию с товарами удалить нельзя.
// @Tags Categories
// @Security BearerAuth
// @Param id path int true "ID категории"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "В категории есть товары"
// @Router /admin/categories/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.category.Delete"

	id, ok := request.IntParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		h.log.Error("failed to delete category", slog.String("op", op), slog.Int("id", id), sl.Err(err))
		response.FailWith(w, r, err)
		return
	}
	h.log.Info("category deleted", slog.String("op", op), slog.Int("id", id))
	w.WriteHeader(http.StatusNoContent)
}

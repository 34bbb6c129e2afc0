// Package user реализует HTTP-обработчики профиля текущего пользователя
// и управления учётными записями администратором.
package user

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

// Service описывает операции с пользователями.
type Service interface {
	CreateUser(ctx context.Context, req models.DummyUser) (*models.User, error)
	GetUser(ctx context.Context, run string) (*models.User, error)
	ListUsers(ctx context.Context, role string) ([]*models.User, error)
	UpdateUser(ctx context.Context, session models.Session, run string, req models.UserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, session models.Session, run string) error
}

// Handler обрабатывает HTTP-запросы к пользователям.
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

func (h *Handler) prepare(w http.ResponseWriter, r *http.Request, op string) (models.Session, *slog.Logger, bool) {
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	session, ok := middlewarectx.SessionFrom(r.Context())
	if !ok {
		log.Error("user not found in context")
		response.Fail(w, r, http.StatusUnauthorized, "unauthorized")
	}
	return session, log, ok
}

// Me godoc
// @Summary Мой профиль
// @Tags Users
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Router /me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	session, log, ok := h.prepare(w, r, "handlers.user.Me")
	if !ok {
		return
	}
	u, err := h.service.GetUser(r.Context(), session.RUN)
	if err != nil {
		log.Error("failed to load profile", sl.Err(err))
		response.FailWith(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(u))
}

// UpdateMe godoc
// @Summary Изменение профиля
// @Description Роль через этот метод поменять нельзя.
// @Tags Users
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.UserUpdate true "Изменяемые поля"
// @Success 200 {object} models.User
// @Failure 403 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Email уже занят"
// @Router /me [put]
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	session, log, ok := h.prepare(w, r, "handlers.user.UpdateMe")
	if !ok {
		return
	}
	h.update(w, r, log, session, session.RUN)
}

// List godoc
// @Summary Список пользователей
// @Tags Users
// @Produce  json
// @Security BearerAuth
// @Param role query string false "Роль"
// @Success 200 {array} models.User
// @Router /admin/users [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.List"

	users, err := h.service.ListUsers(r.Context(), r.URL.Query().Get("role"))
	if err != nil {
		h.log.Error("failed to list users", slog.String("op", op), sl.Err(err))
		response.FailWith(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(users))
}

// Get godoc
// @Summary Пользователь по RUN
// @Tags Users
// @Produce  json
// @Security BearerAuth
// @Param run path string true "RUN"
// @Success 200 {object} models.User
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/users/{run} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.Get"

	runID := chi.URLParam(r, "run")
	u, err := h.service.GetUser(r.Context(), runID)
	if err != nil {
		h.log.Warn("failed to get user", slog.String("op", op), slog.String("run", runID), sl.Err(err))
		response.FailWith(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(u))
}

// Create godoc
// @Summary Создание пользователя
// @Description Администратор может задать любую роль. Без роли создаётся клиент.
// @Tags Users
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyUser true "Данные пользователя"
// @Success 201 {object} models.User
// @Failure 409 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /admin/users [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	_, log, ok := h.prepare(w, r, "handlers.user.Create")
	if !ok {
		return
	}
	var req models.DummyUser
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}
	u, err := h.service.CreateUser(r.Context(), req)
	if err != nil {
		log.Error("failed to create user", sl.Err(err))
		response.FailWith(w, r, err)
		return
	}
	log.Info("user created", slog.String("run", u.RUN), slog.String("role", u.Role))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(u))
}

// Update godoc
// @Summary Изменение пользователя
// @Tags Users
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param run path string true "RUN"
// @Param request body models.UserUpdate true "Изменяемые поля"
// @Success 200 {object} models.User
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/users/{run} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	session, log, ok := h.prepare(w, r, "handlers.user.Update")
	if !ok {
		return
	}
	h.update(w, r, log, session, chi.URLParam(r, "run"))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, log *slog.Logger, session models.Session, runID string) {
	var req models.UserUpdate
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}
	u, err := h.service.UpdateUser(r.Context(), session, runID, req)
	if err != nil {
		log.Warn("failed to update user", slog.String("run", runID), sl.Err(err))
		response.FailWith(w, r, err)
		return
	}
	log.Info("user updated", slog.String("run", runID))
	render.JSON(w, r, response.OKWithData(u))
}

// Delete godoc
// @Summary Удаление пользователя
// @Description Удалить собственную учётную запись нельзя, как и владельца доставленных заказов.
// @Tags Users
// @Security BearerAuth
// @Param run path string true "RUN"
// @Success 204
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /admin/users/{run} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	session, log, ok := h.prepare(w, r, "handlers.user.Delete")
	if !ok {
		return
	}
	runID := chi.URLParam(r, "run")
	if err := h.service.DeleteUser(r.Context(), session, runID); err != nil {
		log.Warn("failed to delete user", slog.String("run", runID), sl.Err(err))
		response.FailWith(w, r, err)
		return
	}
	log.Info("user deleted", slog.String("run", runID))
	w.WriteHeader(http.StatusNoContent)
}

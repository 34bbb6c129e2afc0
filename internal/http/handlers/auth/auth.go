// Package auth реализует HTTP-обработчики входа, регистрации и управления сессией.
//
// Вход возвращает JWT с временем жизни, зависящим от роли, и путь, на который
// клиенту следует перейти. Выход отзывает токен до истечения его срока.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

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

// Service описывает интерфейс бизнес-логики сессий.
type Service interface {
	Login(ctx context.Context, email, password string) (*models.LoginResult, error)
	Logout(ctx context.Context, token string) error
	Remaining(session models.Session) models.SessionStatus
}

// Registrar создаёт учётную запись клиента.
type Registrar interface {
	Register(ctx context.Context, req models.DummyUser) (*models.User, error)
}

// Handler обрабатывает HTTP-запросы аутентификации.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис сессий
	users    Registrar           // Сервис пользователей для регистрации
	validate *validator.Validate // Валидатор для проверки входных данных
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, users Registrar) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		users:    users,
		validate: validate.New(),
	}
}

// Login godoc
// @Summary Вход в магазин
// @Description Проверяет email и пароль. Возвращает JWT, срок его действия и путь домашней страницы роли.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.LoginRequest true "Учетные данные пользователя"
// @Success 200 {object} models.LoginResult "Успешная авторизация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 429 {object} response.ErrorResponse "Слишком много попыток"
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.Login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.LoginRequest
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	res, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			log.Warn("login failed", slog.String("email", req.Email))
		} else {
			log.Error("login failed", sl.Err(err))
		}
		response.FailWith(w, r, err)
		return
	}

	log.Info("login success", slog.String("run", res.User.RUN), slog.String("role", res.Role))
	render.JSON(w, r, response.OKWithData(res))
}

// Register godoc
// @Summary Регистрация клиента
// @Description Создаёт учётную запись с ролью Cliente.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.DummyUser true "Данные пользователя"
// @Success 201 {object} models.User
// @Failure 409 {object} response.ErrorResponse "Email или RUN уже заняты"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.Register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyUser
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), req)
	if err != nil {
		log.Error("register failed", sl.Err(err))
		response.FailWith(w, r, err)
		return
	}

	log.Info("user registered", slog.String("run", user.RUN))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(user))
}

// Session godoc
// @Summary Состояние сессии
// @Description Возвращает данные сессии и число оставшихся минут.
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} models.SessionStatus
// @Failure 401 {object} response.ErrorResponse
// @Router /auth/session [get]
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	session, ok := middlewarectx.SessionFrom(r.Context())
	if !ok {
		response.Fail(w, r, http.StatusUnauthorized, "unauthorized")
		return
	}
	render.JSON(w, r, response.OKWithData(h.service.Remaining(session)))
}

// Logout godoc
// @Summary Выход
// @Description Отзывает текущий токен.
// @Tags Auth
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} response.ErrorResponse
// @Router /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.Logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.service.Logout(r.Context(), middlewarectx.TokenFrom(r.Context())); err != nil {
		log.Error("logout failed", sl.Err(err))
		response.FailWith(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Package middlewarectx содержит HTTP middleware магазина: проверку JWT токена,
// разграничение доступа по ролям, ограничение частоты запросов и сбор метрик.
//
// JWTMiddleware проверяет наличие и валидность JWT токена в заголовке Authorization
// и в случае успеха добавляет в контекст сессию пользователя и сам токен
// для дальнейшего использования в обработчиках.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/junimo-store/internal/http/response"
	"github.com/magabrotheeeer/junimo-store/internal/lib/sl"
	"github.com/magabrotheeeer/junimo-store/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// SessionKey - ключ для сессии пользователя в контексте
	SessionKey Key = "session"
	// TokenKey - ключ для исходного токена в контексте
	TokenKey Key = "token"
)

// Service описывает интерфейс сервиса для проверки JWT токена.
type Service interface {
	Validate(ctx context.Context, token string) (*models.Session, error)
}

// JWTMiddleware возвращает HTTP middleware, который проверяет JWT в заголовке Authorization.
//
// Отсутствующий, поддельный, просроченный или отозванный токен даёт 401 Unauthorized.
func JWTMiddleware(authClient Service, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Warn("missing or invalid authorization header")
				response.Fail(w, r, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			session, err := authClient.Validate(r.Context(), tokenStr)
			if err != nil {
				log.Warn("invalid or expired token", sl.Err(err))
				response.Fail(w, r, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), SessionKey, *session)
			ctx = context.WithValue(ctx, TokenKey, tokenStr)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFrom достаёт сессию, положенную JWTMiddleware.
func SessionFrom(ctx context.Context) (models.Session, bool) {
	s, ok := ctx.Value(SessionKey).(models.Session)
	return s, ok
}

// TokenFrom достаёт исходный токен запроса.
func TokenFrom(ctx context.Context) string {
	t, _ := ctx.Value(TokenKey).(string)
	return t
}

// WithSession кладёт сессию в контекст. Используется в тестах обработчиков.
func WithSession(ctx context.Context, s models.Session) context.Context {
	return context.WithValue(ctx, SessionKey, s)
}

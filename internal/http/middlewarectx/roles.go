package middlewarectx

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/junimo-store/internal/http/response"
)

// RequireRoles пропускает запрос только для перечисленных ролей.
// Должен стоять после JWTMiddleware: без сессии отвечает 401, при чужой роли 403.
func RequireRoles(log *slog.Logger, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireRoles"

			session, ok := SessionFrom(r.Context())
			if !ok {
				response.Fail(w, r, http.StatusUnauthorized, "unauthorized")
				return
			}
			if !slices.Contains(roles, session.Role) {
				log.Warn("role is not allowed",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("role", session.Role),
					slog.String("path", r.URL.Path),
				)
				response.Fail(w, r, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

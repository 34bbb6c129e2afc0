// Package dashboard отдаёт сводку для главной страницы back-office.
package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/junimo-store/internal/http/response"
	"github.com/magabrotheeeer/junimo-store/internal/lib/sl"
	"github.com/magabrotheeeer/junimo-store/internal/services/dashboard"
)

// Service считает сводку.
type Service interface {
	Summary(ctx context.Context) (*dashboard.Summary, error)
}

// Handler обрабатывает запрос сводки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Сводка back-office
// @Description Товары по состоянию остатка, стоимость склада, заказы, пользователи и новые обращения.
// @Tags Dashboard
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} dashboard.Summary
// @Router /admin/dashboard [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard"

	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.log.Error("failed to build dashboard", slog.String("op", op), sl.Err(err))
		response.FailWith(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(summary))
}

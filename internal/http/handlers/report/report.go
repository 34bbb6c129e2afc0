// Package report отдаёт выгрузки back-office файлом для скачивания.
package report

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/junimo-store/internal/http/middlewarectx"
	"github.com/magabrotheeeer/junimo-store/internal/http/response"
	"github.com/magabrotheeeer/junimo-store/internal/lib/sl"
	"github.com/magabrotheeeer/junimo-store/internal/models"
	"github.com/magabrotheeeer/junimo-store/internal/services/report"
)

// Service строит отчёты.
type Service interface {
	Build(ctx context.Context, kind, format string) (*report.Report, error)
}

// Handler обрабатывает запросы на выгрузку.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Выгрузка отчёта
// @Description Виды products, categories, orders и users (только администратор). Форматы csv, csv-excel и json.
// @Tags Reports
// @Produce  text/csv
// @Produce  json
// @Security BearerAuth
// @Param kind path string true "Вид отчёта"
// @Param format query string false "Формат, по умолчанию csv"
// @Success 200 {file} file
// @Failure 400 {object} response.ErrorResponse "Неизвестный вид или формат"
// @Failure 403 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse "Нет данных"
// @Router /admin/reports/{kind} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	kind := chi.URLParam(r, "kind")
	format := r.URL.Query().Get("format")
	if format == "" {
		format = report.FormatCSV
	}

	session, _ := middlewarectx.SessionFrom(r.Context())
	if kind == report.KindUsers && session.Role != models.RoleAdmin {
		log.Warn("users report denied", slog.String("role", session.Role))
		response.Fail(w, r, http.StatusForbidden, "forbidden")
		return
	}

	rep, err := h.service.Build(r.Context(), kind, format)
	if err != nil {
		log.Warn("failed to build report", slog.String("kind", kind), slog.String("format", format), sl.Err(err))
		response.FailWith(w, r, err)
		return
	}

	w.Header().Set("Content-Type", rep.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+rep.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(rep.Body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(rep.Body); err != nil {
		log.Error("failed to write report", sl.Err(err))
	}
}

// Package product реализует HTTP-обработчики каталога товаров: публичный
// просмотр и управление товарами из back-office.
package product

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/junimo-store/internal/http/request"
	"github.com/magabrotheeeer/junimo-store/internal/http/response"
	"github.com/magabrotheeeer/junimo-store/internal/lib/imagefile"
	"github.com/magabrotheeeer/junimo-store/internal/lib/sl"
	"github.com/magabrotheeeer/junimo-store/internal/lib/validate"
	"github.com/magabrotheeeer/junimo-store/internal/models"
)

// Service описывает операции каталога, нужные обработчикам.
type Service interface {
	ListProducts(ctx context.Context, f models.ProductFilter) ([]*models.Product, error)
	GetProduct(ctx context.Context, code string) (*models.Product, error)
	CreateProduct(ctx context.Context, req models.DummyProduct) (*models.Product, error)
	UpdateProduct(ctx context.Context, code string, req models.DummyProduct) (*models.Product, error)
	DeleteProduct(ctx context.Context, code string) error
	CriticalStock(ctx context.Context) ([]*models.Product, error)
	NextCode(ctx context.Context, categoryID int) (string, error)
	AttachImage(ctx context.Context, code, filename string, r io.Reader) (*models.Product, error)
}

// Handler обрабатывает HTTP-запросы к товарам.
type Handler struct {
	log            *slog.Logger
	service        Service
	validate       *validator.Validate
	maxUploadBytes int64
}

// New создает Handler. maxUploadBytes ограничивает размер загружаемого изображения.
func New(log *slog.Logger, service Service, maxUploadBytes int64) *Handler {
	return &Handler{
		log:            log,
		service:        service,
		validate:       validate.New(),
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// List godoc
// @Summary Список товаров
// @Description Возвращает товары каталога с фильтрами по названию, категории и диапазону цен.
// @Tags Products
// @Produce  json
// @Param name query string false "Часть названия"
// @Param category query int false "ID категории"
// @Param min_price query int false "Минимальная цена, CLP"
// @Param max_price query int false "Максимальная цена, CLP"
// @Success 200 {array} models.Product
// @Failure 400 {object} response.ErrorResponse "Некорректные параметры"
// @Router /products [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.List"
	log := h.logger(r, op)

	f, err := parseFilter(r)
	if err != nil {
		log.Warn("invalid filter", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "invalid query parameters")
		return
	}

	products, err := h.service.ListProducts(r.Context(), f)
	if err != nil {
		log.Error("failed to list products", sl.Err(err))
		response.FailWith(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(products))
}

func parseFilter(r *http.Request) (models.ProductFilter, error) {
	q := r.URL.Query()
	f := models.ProductFilter{Name: strings.TrimSpace(q.Get("name"))}
	var err error
	if v := q.Get("category"); v != "" {
		if f.CategoryID, err = strconv.Atoi(v); err != nil {
			return f, err
		}
	}
	if v := q.Get("min_price"); v != "" {
		if f.MinPrice, err = strconv.ParseInt(v, 10, 64); err != nil {
			return f, err
		}
	}
	if v := q.Get("max_price"); v != "" {
		if f.MaxPrice, err = strconv.ParseInt(v, 10, 64); err != nil {
			return f, err
		}
	}
	return f, nil
}

// Get godoc
// @Summary Карточка товара
// @Tags Products
// @Produce  json
// @Param code path string true "Код товара"
// @Success 200 {object} models.Product
// @Failure 404 {object} response.ErrorResponse
// @Router /products/{code} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.Get"
	log := h.logger(r, op)

	code := chi.URLParam(r, "code")
	p, err := h.service.GetProduct(r.Context(), code)
	if err != nil {
		log.Warn("failed to get product", slog.String("code", code), sl.Err(err))
		response.FailWith(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(p))
}

// Create godoc
// @Summary Создание товара
// @Description Код товара генерируется из префикса категории. Если передано new_category, категория создаётся.
// @Tags Products
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyProduct true "Данные товара"
// @Success 201 {object} models.Product
// @Failure 409 {object} response.ErrorResponse
// @Failure 422 {object} response.ErrorResponse
// @Router /admin/products [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.Create"
	log := h.logger(r, op)

	var req models.DummyProduct
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	p, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		log.Error("failed to create product", sl.Err(err))
		response.FailWith(w, r, err)
		return
	}

	log.Info("product created", slog.String("code", p.Code))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(p))
}

// Update godoc
// @Summary Изменение товара
// @Tags Products
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param code path string true "Код товара"
// @Param request body models.DummyProduct true "Данные товара"
// @Success 200 {object} models.Product
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/products/{code} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.Update"
	log := h.logger(r, op)

	var req models.DummyProduct
	if !request.Decode(w, r, log, h.validate, &req) {
		return
	}

	code := chi.URLParam(r, "code")
	p, err := h.service.UpdateProduct(r.Context(), code, req)
	if err != nil {
		log.Error("failed to update product", slog.String("code", code), sl.Err(err))
		response.FailWith(w, r, err)
		return
	}

	log.Info("product updated", slog.String("code", code))
	render.JSON(w, r, response.OKWithData(p))
}

// Delete godoc
// @Summary Удаление товара
// @Tags Products
// @Security BearerAuth
// @Param code path string true "Код товара"
// @Success 204
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/products/{code} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.Delete"
	log := h.logger(r, op)

	code := chi.URLParam(r, "code")
	if err := h.service.DeleteProduct(r.Context(), code); err != nil {
		log.Error("failed to delete product", slog.String("code", code), sl.Err(err))
		response.FailWith(w, r, err)
		return
	}

	log.Info("product deleted", slog.String("code", code))
	w.WriteHeader(http.StatusNoContent)
}

// Critical godoc
// @Summary Товары с критическим остатком
// @Tags Products
// @Produce  json
// @Security BearerAuth
// @Success 200 {array} models.Product
// @Router /admin/products/critical [get]
func (h *Handler) Critical(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.Critical"
	log := h.logger(r, op)

	products, err := h.service.CriticalStock(r.Context())
	if err != nil {
		log.Error("failed to list critical stock", sl.Err(err))
		response.FailWith(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(products))
}

// NextCode godoc
// @Summary Следующий код товара категории
// @Tags Products
// @Produce  json
// @Security BearerAuth
// @Param category_id query int true "ID категории"
// @Success 200 {object} map[string]string
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /admin/products/next-code [get]
func (h *Handler) NextCode(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.NextCode"
	log := h.logger(r, op)

	categoryID, err := strconv.Atoi(r.URL.Query().Get("category_id"))
	if err != nil || categoryID <= 0 {
		response.Fail(w, r, http.StatusBadRequest, "invalid category_id")
		return
	}

	code, err := h.service.NextCode(r.Context(), categoryID)
	if err != nil {
		log.Error("failed to compute next code", slog.Int("category_id", categoryID), sl.Err(err))
		response.FailWith(w, r, err)
		return
	}
	render.JSON(w, r, response.OKWithData(map[string]string{"code": code}))
}

// UploadImage godoc
// @Summary Загрузка изображения товара
// @Description Принимает multipart-поле image (JPEG, PNG или GIF) и строит миниатюру.
// @Tags Products
// @Accept  mpfd
// @Produce  json
// @Security BearerAuth
// @Param code path string true "Код товара"
// @Param image formData file true "Изображение"
// @Success 200 {object} models.Product
// @Failure 400 {object} response.ErrorResponse
// @Failure 415 {object} response.ErrorResponse
// @Router /admin/products/{code}/image [post]
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.UploadImage"
	log := h.logger(r, op)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	file, header, err := r.FormFile("image")
	if err != nil {
		log.Warn("failed to read image", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	code := chi.URLParam(r, "code")
	p, err := h.service.AttachImage(r.Context(), code, header.Filename, file)
	if err != nil {
		if errors.Is(err, imagefile.ErrUnsupportedFormat) {
			log.Warn("unsupported image", slog.String("filename", header.Filename))
			response.Fail(w, r, http.StatusUnsupportedMediaType, "unsupported image format")
			return
		}
		log.Error("failed to attach image", slog.String("code", code), sl.Err(err))
		response.FailWith(w, r, err)
		return
	}

	log.Info("image attached", slog.String("code", code))
	render.JSON(w, r, response.OKWithData(p))
}

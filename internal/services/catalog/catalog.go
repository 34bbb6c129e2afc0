// Package catalog содержит бизнес-логику каталога: товары, категории,
// генерацию кодов и изображения товаров. Карточки товаров кешируются в Redis.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/junimo-store/internal/lib/sl"
	"github.com/magabrotheeeer/junimo-store/internal/models"
)

const (
	productCacheTTL = time.Hour
	maxCodeAttempts = 3
)

// ProductRepository хранилище товаров.
type ProductRepository interface {
	CreateProduct(ctx context.Context, p models.Product) (*models.Product, error)
	GetProduct(ctx context.Context, code string) (*models.Product, error)
	ListProducts(ctx context.Context, f models.ProductFilter) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, p models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, code string) error
	ListProductCodesByPrefix(ctx context.Context, prefix string) ([]string, error)
	SetProductImage(ctx context.Context, code, imageURL, thumbnailURL string) error
}

// CategoryRepository хранилище категорий.
type CategoryRepository interface {
	CreateCategory(ctx context.Context, c models.Category) (*models.Category, error)
	GetCategory(ctx context.Context, id int) (*models.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
	ListCategoryPrefixes(ctx context.Context) (map[string]bool, error)
	UpdateCategory(ctx context.Context, c models.Category) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int) error
}

// Cache кеш карточек товаров.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// ImageStore сохраняет изображения и возвращает ссылки на оригинал и миниатюру.
type ImageStore interface {
	Save(name, filename string, r io.Reader) (string, string, error)
}

// Service реализует операции каталога.
type Service struct {
	products   ProductRepository
	categories CategoryRepository
	cache      Cache
	images     ImageStore
	log        *slog.Logger
}

// New создаёт сервис каталога.
func New(products ProductRepository, categories CategoryRepository, cache Cache, images ImageStore, log *slog.Logger) *Service {
	return &Service{
		products:   products,
		categories: categories,
		cache:      cache,
		images:     images,
		log:        log,
	}
}

func productKey(code string) string {
	return "product:" + code
}

// ListProducts возвращает товары по фильтру.
func (s *Service) ListProducts(ctx context.Context, f models.ProductFilter) ([]*models.Product, error) {
	const op = "catalog.ListProducts"
	products, err := s.products.ListProducts(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if products == nil {
		products = []*models.Product{}
	}
	return products, nil
}

// GetProduct возвращает товар, сначала ищет его в кеше.
func (s *Service) GetProduct(ctx context.Context, code string) (*models.Product, error) {
	const op = "catalog.GetProduct"
	var cached models.Product
	found, err := s.cache.Get(ctx, productKey(code), &cached)
	if err != nil {
		s.log.Warn("product cache read failed", slog.String("code", code), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	p, err := s.products.GetProduct(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(ctx, productKey(code), p, productCacheTTL); err != nil {
		s.log.Warn("product cache write failed", slog.String("code", code), sl.Err(err))
	}
	return p, nil
}

// CreateProduct создаёт товар. Категория берётся по ID либо создаётся по
// NewCategory. Код всегда генерируется по префиксу категории.
func (s *Service) CreateProduct(ctx context.Context, req models.DummyProduct) (*models.Product, error) {
	const op = "catalog.CreateProduct"
	category, err := s.resolveCategory(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p := models.Product{
		Name:          strings.TrimSpace(req.Name),
		Description:   strings.TrimSpace(req.Description),
		Price:         req.Price,
		Stock:         req.Stock,
		CriticalStock: req.CriticalStock,
		CategoryID:    category.ID,
	}
	for attempt := 1; ; attempt++ {
		p.Code, err = s.codeForPrefix(ctx, category.CodePrefix)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		created, err := s.products.CreateProduct(ctx, p)
		if err == nil {
			s.log.Info("product created", slog.String("code", created.Code), slog.String("category", category.Name))
			return created, nil
		}
		if !errors.Is(err, models.ErrAlreadyExists) || attempt >= maxCodeAttempts {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
}

// UpdateProduct обновляет товар и сбрасывает его кеш.
func (s *Service) UpdateProduct(ctx context.Context, code string, req models.DummyProduct) (*models.Product, error) {
	const op = "catalog.UpdateProduct"
	if _, err := s.products.GetProduct(ctx, code); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	category, err := s.resolveCategory(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	updated, err := s.products.UpdateProduct(ctx, models.Product{
		Code:          code,
		Name:          strings.TrimSpace(req.Name),
		Description:   strings.TrimSpace(req.Description),
		Price:         req.Price,
		Stock:         req.Stock,
		CriticalStock: req.CriticalStock,
		CategoryID:    category.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.Invalidate(ctx, code)
	return updated, nil
}

// DeleteProduct удаляет товар и сбрасывает его кеш.
func (s *Service) DeleteProduct(ctx context.Context, code string) error {
	const op = "catalog.DeleteProduct"
	if err := s.products.DeleteProduct(ctx, code); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.Invalidate(ctx, code)
	return nil
}

// CriticalStock возвращает товары, остаток которых не выше критического.
func (s *Service) CriticalStock(ctx context.Context) ([]*models.Product, error) {
	const op = "catalog.CriticalStock"
	products, err := s.ListProducts(ctx, models.ProductFilter{CriticalOnly: true})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

// NextCode возвращает код, который получит следующий товар категории.
func (s *Service) NextCode(ctx context.Context, categoryID int) (string, error) {
	const op = "catalog.NextCode"
	category, err := s.categories.GetCategory(ctx, categoryID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	code, err := s.codeForPrefix(ctx, category.CodePrefix)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return code, nil
}

// AttachImage сохраняет изображение товара с миниатюрой и обновляет ссылки.
func (s *Service) AttachImage(ctx context.Context, code, filename string, r io.Reader) (*models.Product, error) {
	const op = "catalog.AttachImage"
	if _, err := s.products.GetProduct(ctx, code); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	imageURL, thumbURL, err := s.images.Save(code, filename, r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.products.SetProductImage(ctx, code, imageURL, thumbURL); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.Invalidate(ctx, code)

	p, err := s.products.GetProduct(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (s *Service) codeForPrefix(ctx context.Context, prefix string) (string, error) {
	codes, err := s.products.ListProductCodesByPrefix(ctx, prefix)
	if err != nil {
		return "", err
	}
	return nextCode(prefix, codes), nil
}

func (s *Service) resolveCategory(ctx context.Context, req models.DummyProduct) (*models.Category, error) {
	if name := strings.TrimSpace(req.NewCategory); name != "" {
		existing, err := s.categories.GetCategoryByName(ctx, name)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return s.CreateCategory(ctx, name)
	}
	return s.categories.GetCategory(ctx, req.CategoryID)
}

// Invalidate сбрасывает кешированную карточку товара. Ошибка кеша только логируется.
func (s *Service) Invalidate(ctx context.Context, code string) {
	if err := s.cache.Invalidate(ctx, productKey(code)); err != nil {
		s.log.Warn("product cache invalidate failed", slog.String("code", code), sl.Err(err))
	}
}

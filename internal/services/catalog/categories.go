package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/junimo-store/internal/models"
)

// ListCategories возвращает все категории.
func (s *Service) ListCategories(ctx context.Context) ([]*models.Category, error) {
	const op = "catalog.ListCategories"
	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if categories == nil {
		categories = []*models.Category{}
	}
	return categories, nil
}

// GetCategory возвращает категорию по ID.
func (s *Service) GetCategory(ctx context.Context, id int) (*models.Category, error) {
	const op = "catalog.GetCategory"
	c, err := s.categories.GetCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// CreateCategory создаёт категорию с уникальным названием и подбирает ей префикс кодов.
func (s *Service) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	const op = "catalog.CreateCategory"
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return nil, fmt.Errorf("%s: empty name: %w", op, models.ErrInvalidInput)
	}
	if err := s.ensureNameFree(ctx, name, 0); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	used, err := s.categories.ListCategoryPrefixes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c, err := s.categories.CreateCategory(ctx, models.Category{Name: name, CodePrefix: prefixFor(name, used)})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("category created", slog.Int("id", c.ID), slog.String("prefix", c.CodePrefix))
	return c, nil
}

// UpdateCategory переименовывает категорию. Название не должно совпадать с другой категорией.
func (s *Service) UpdateCategory(ctx context.Context, id int, name string) (*models.Category, error) {
	const op = "catalog.UpdateCategory"
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return nil, fmt.Errorf("%s: empty name: %w", op, models.ErrInvalidInput)
	}
	if err := s.ensureNameFree(ctx, name, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c, err := s.categories.UpdateCategory(ctx, models.Category{ID: id, Name: name})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// DeleteCategory удаляет категорию без товаров.
func (s *Service) DeleteCategory(ctx context.Context, id int) error {
	const op = "catalog.DeleteCategory"
	if err := s.categories.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) ensureNameFree(ctx context.Context, name string, selfID int) error {
	existing, err := s.categories.GetCategoryByName(ctx, name)
	switch {
	case errors.Is(err, models.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return fmt.Errorf("category %q: %w", existing.Name, models.ErrAlreadyExists)
	}
	return nil
}

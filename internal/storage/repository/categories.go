package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/junimo-store/internal/models"
)

// CreateCategory сохраняет категорию и возвращает её с присвоенным ID.
func (s *Storage) CreateCategory(ctx context.Context, c models.Category) (*models.Category, error) {
	const op = "storage.CreateCategory"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `INSERT INTO categories (name, code_prefix) VALUES ($1, $2) RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query, c.Name, c.CodePrefix).Scan(&c.ID); err != nil {
		return nil, mapErr(op, err)
	}
	return &c, nil
}

// GetCategory возвращает категорию по ID.
func (s *Storage) GetCategory(ctx context.Context, id int) (*models.Category, error) {
	const op = "storage.GetCategory"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	c := &models.Category{}
	err := s.DB.QueryRowContext(ctx, `SELECT id, name, code_prefix FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.CodePrefix)
	if err != nil {
		return nil, mapErr(op, err)
	}
	return c, nil
}

// GetCategoryByName ищет категорию по названию без учёта регистра и пробелов по краям.
func (s *Storage) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	const op = "storage.GetCategoryByName"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	c := &models.Category{}
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, name, code_prefix FROM categories WHERE lower(name) = lower(trim($1))`, name).
		Scan(&c.ID, &c.Name, &c.CodePrefix)
	if err != nil {
		return nil, mapErr(op, err)
	}
	return c, nil
}

// ListCategories возвращает все категории по возрастанию ID.
func (s *Storage) ListCategories(ctx context.Context) ([]*models.Category, error) {
	const op = "storage.ListCategories"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT id, name, code_prefix FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var categories []*models.Category
	for rows.Next() {
		c := &models.Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.CodePrefix); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return categories, nil
}

// ListCategoryPrefixes возвращает множество занятых префиксов.
func (s *Storage) ListCategoryPrefixes(ctx context.Context) (map[string]bool, error) {
	const op = "storage.ListCategoryPrefixes"
	categories, err := s.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	used := make(map[string]bool, len(categories))
	for _, c := range categories {
		used[c.CodePrefix] = true
	}
	return used, nil
}

// UpdateCategory меняет название категории. Префикс остаётся прежним.
func (s *Storage) UpdateCategory(ctx context.Context, c models.Category) (*models.Category, error) {
	const op = "storage.UpdateCategory"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE categories SET name = $1 WHERE id = $2`, c.Name, c.ID)
	if err != nil {
		return nil, mapErr(op, err)
	}
	if err := affected(op, res); err != nil {
		return nil, err
	}
	return s.GetCategory(ctx, c.ID)
}

// DeleteCategory удаляет категорию. Категорию с товарами удалить нельзя.
func (s *Storage) DeleteCategory(ctx context.Context, id int) error {
	const op = "storage.DeleteCategory"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return fmt.Errorf("%s: %w", op, models.ErrCategoryInUse)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return affected(op, res)
}

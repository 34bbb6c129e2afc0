package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/magabrotheeeer/junimo-store/internal/models"
)

const productColumns = `p.code, p.name, p.description, p.price, p.stock, p.critical_stock,
	p.category_id, c.name, p.image_url, p.thumbnail_url, p.created_at, p.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*models.Product, error) {
	p := &models.Product{}
	err := row.Scan(&p.Code, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CriticalStock,
		&p.CategoryID, &p.Category, &p.ImageURL, &p.ThumbnailURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// CreateProduct сохраняет новый товар.
func (s *Storage) CreateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	const op = "storage.CreateProduct"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `INSERT INTO products (code, name, description, price, stock, critical_stock, category_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := s.DB.ExecContext(ctx, query,
		p.Code, p.Name, p.Description, p.Price, p.Stock, p.CriticalStock, p.CategoryID); err != nil {
		return nil, mapErr(op, err)
	}
	return s.GetProduct(ctx, p.Code)
}

// GetProduct возвращает товар по коду вместе с названием категории.
func (s *Storage) GetProduct(ctx context.Context, code string) (*models.Product, error) {
	const op = "storage.GetProduct"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + productColumns + `
			  FROM products p
			  JOIN categories c ON c.id = p.category_id
			  WHERE p.code = $1`
	p, err := scanProduct(s.DB.QueryRowContext(ctx, query, code))
	if err != nil {
		return nil, mapErr(op, err)
	}
	return p, nil
}

// ListProducts возвращает товары по фильтру, упорядоченные по коду.
func (s *Storage) ListProducts(ctx context.Context, f models.ProductFilter) ([]*models.Product, error) {
	const op = "storage.ListProducts"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var (
		where []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.Name != "" {
		add("p.name ILIKE $%d", "%"+f.Name+"%")
	}
	if f.CategoryID > 0 {
		add("p.category_id = $%d", f.CategoryID)
	}
	if f.MinPrice > 0 {
		add("p.price >= $%d", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		add("p.price <= $%d", f.MaxPrice)
	}
	if f.CriticalOnly {
		where = append(where, "p.stock <= p.critical_stock")
	}

	query := `SELECT ` + productColumns + `
			  FROM products p
			  JOIN categories c ON c.id = p.category_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY p.code"

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

// UpdateProduct обновляет данные товара. Код и изображения не меняются.
func (s *Storage) UpdateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	const op = "storage.UpdateProduct"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `UPDATE products
			  SET name = $1, description = $2, price = $3, stock = $4,
			      critical_stock = $5, category_id = $6, updated_at = NOW()
			  WHERE code = $7`
	res, err := s.DB.ExecContext(ctx, query,
		p.Name, p.Description, p.Price, p.Stock, p.CriticalStock, p.CategoryID, p.Code)
	if err != nil {
		return nil, mapErr(op, err)
	}
	if err := affected(op, res); err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, p.Code)
}

// DeleteProduct удаляет товар.
func (s *Storage) DeleteProduct(ctx context.Context, code string) error {
	const op = "storage.DeleteProduct"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM products WHERE code = $1`, code)
	if err != nil {
		return mapErr(op, err)
	}
	return affected(op, res)
}

// ListProductCodesByPrefix возвращает коды товаров, начинающиеся с prefix.
func (s *Storage) ListProductCodesByPrefix(ctx context.Context, prefix string) ([]string, error) {
	const op = "storage.ListProductCodesByPrefix"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT code FROM products WHERE code LIKE $1 ORDER BY code`, prefix+"%")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		codes = append(codes, code)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return codes, nil
}

// SetProductImage сохраняет ссылки на изображение и миниатюру.
func (s *Storage) SetProductImage(ctx context.Context, code, imageURL, thumbnailURL string) error {
	const op = "storage.SetProductImage"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE products SET image_url = $1, thumbnail_url = $2, updated_at = NOW() WHERE code = $3`,
		imageURL, thumbnailURL, code)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return affected(op, res)
}

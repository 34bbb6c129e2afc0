package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/magabrotheeeer/junimo-store/internal/models"
)

// CreateOrder в одной транзакции блокирует строки товаров, проверяет и
// списывает остатки и сохраняет заказ с позициями по текущим ценам каталога.
// Поля Number, RUN, Status и адрес доставки берутся из order.
func (s *Storage) CreateOrder(ctx context.Context, order models.Order, lines []models.OrderLine) (*models.Order, error) {
	const op = "storage.CreateOrder"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	lines = mergeLines(lines)
	if len(lines) == 0 {
		return nil, fmt.Errorf("%s: %w", op, models.ErrEmptyCart)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	items := make([]models.OrderItem, 0, len(lines))
	var total int64
	for _, line := range lines {
		var (
			name  string
			price int64
			stock int
		)
		err := tx.QueryRowContext(ctx,
			`SELECT name, price, stock FROM products WHERE code = $1 FOR UPDATE`, line.ProductCode).
			Scan(&name, &price, &stock)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: product %s: %w", op, line.ProductCode, models.ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if stock < line.Quantity {
			return nil, fmt.Errorf("%s: product %s has %d, requested %d: %w",
				op, line.ProductCode, stock, line.Quantity, models.ErrInsufficientStock)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE products SET stock = stock - $1, updated_at = NOW() WHERE code = $2`,
			line.Quantity, line.ProductCode); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		subtotal := price * int64(line.Quantity)
		total += subtotal
		items = append(items, models.OrderItem{
			OrderNumber: order.Number,
			ProductCode: line.ProductCode,
			ProductName: name,
			UnitPrice:   price,
			Quantity:    line.Quantity,
			Subtotal:    subtotal,
		})
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO orders (number, run, status, total, region, commune, address)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		order.Number, order.RUN, order.Status, total, order.Region, order.Commune, order.Address); err != nil {
		return nil, mapErr(op, err)
	}
	for _, it := range items {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (order_number, product_code, product_name, unit_price, quantity, subtotal)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			it.OrderNumber, it.ProductCode, it.ProductName, it.UnitPrice, it.Quantity, it.Subtotal); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.GetOrder(ctx, order.Number)
}

// mergeLines объединяет повторяющиеся коды и сортирует позиции, чтобы
// блокировки строк брались в одном порядке.
func mergeLines(lines []models.OrderLine) []models.OrderLine {
	qty := make(map[string]int, len(lines))
	for _, l := range lines {
		if l.Quantity > 0 {
			qty[l.ProductCode] += l.Quantity
		}
	}
	out := make([]models.OrderLine, 0, len(qty))
	for code, q := range qty {
		out = append(out, models.OrderLine{ProductCode: code, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductCode < out[j].ProductCode })
	return out
}

const orderColumns = `number, run, status, total, region, commune, address, created_at`

func scanOrder(row rowScanner) (*models.Order, error) {
	o := &models.Order{}
	if err := row.Scan(&o.Number, &o.RUN, &o.Status, &o.Total, &o.Region, &o.Commune, &o.Address, &o.CreatedAt); err != nil {
		return nil, err
	}
	o.Items = []models.OrderItem{}
	return o, nil
}

// GetOrder возвращает заказ с позициями.
func (s *Storage) GetOrder(ctx context.Context, number string) (*models.Order, error) {
	const op = "storage.GetOrder"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	o, err := scanOrder(s.DB.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE number = $1`, number))
	if err != nil {
		return nil, mapErr(op, err)
	}
	if err := s.attachItems(ctx, []*models.Order{o}); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return o, nil
}

// ListOrders возвращает заказы по фильтру, новые первыми. Number и RUN ищутся
// по вхождению подстроки, Status по точному совпадению, Date по дню создания.
func (s *Storage) ListOrders(ctx context.Context, f models.OrderFilter) ([]*models.Order, error) {
	const op = "storage.ListOrders"
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
	if f.Number != "" {
		add("number ILIKE $%d", "%"+f.Number+"%")
	}
	if f.RUN != "" {
		add("run ILIKE $%d", "%"+f.RUN+"%")
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.Date != "" {
		day, err := time.Parse(time.DateOnly, f.Date)
		if err != nil {
			return nil, fmt.Errorf("%s: bad date %q: %w", op, f.Date, err)
		}
		add("created_at::date = $%d::date", day.Format(time.DateOnly))
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, number DESC"
	return s.queryOrders(ctx, op, query, args...)
}

// ListOrdersByRUN возвращает заказы пользователя, новые первыми.
func (s *Storage) ListOrdersByRUN(ctx context.Context, run string) ([]*models.Order, error) {
	const op = "storage.ListOrdersByRUN"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	return s.queryOrders(ctx, op,
		`SELECT `+orderColumns+` FROM orders WHERE run = $1 ORDER BY created_at DESC, number DESC`, run)
}

func (s *Storage) queryOrders(ctx context.Context, op, query string, args ...any) ([]*models.Order, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.attachItems(ctx, orders); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

func (s *Storage) attachItems(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}
	byNumber := make(map[string]*models.Order, len(orders))
	numbers := make([]string, 0, len(orders))
	for _, o := range orders {
		byNumber[o.Number] = o
		numbers = append(numbers, o.Number)
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, order_number, product_code, product_name, unit_price, quantity, subtotal
		 FROM order_items WHERE order_number = ANY($1) ORDER BY id`, numbers)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderNumber, &it.ProductCode, &it.ProductName,
			&it.UnitPrice, &it.Quantity, &it.Subtotal); err != nil {
			return err
		}
		if o, ok := byNumber[it.OrderNumber]; ok {
			o.Items = append(o.Items, it)
		}
	}
	return rows.Err()
}

// UpdateOrderStatus меняет статус заказа.
func (s *Storage) UpdateOrderStatus(ctx context.Context, number, status string) error {
	const op = "storage.UpdateOrderStatus"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE orders SET status = $1 WHERE number = $2`, status, number)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return affected(op, res)
}

// DeleteOrder удаляет заказ и его позиции.
func (s *Storage) DeleteOrder(ctx context.Context, number string) error {
	const op = "storage.DeleteOrder"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM orders WHERE number = $1`, number)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return affected(op, res)
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/magabrotheeeer/junimo-store/internal/models"
)

const userColumns = `run, first_name, last_name, email, password_hash, phone, role,
	region, commune, address, birth_date, created_at`

func scanUser(row rowScanner, extra ...any) (*models.User, error) {
	u := &models.User{}
	var birth sql.NullTime
	dest := append([]any{&u.RUN, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Phone,
		&u.Role, &u.Region, &u.Commune, &u.Address, &birth, &u.CreatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if birth.Valid {
		u.BirthDate = &birth.Time
	}
	return u, nil
}

// CreateUser сохраняет пользователя. Email хранится как передан, уникальность
// проверяется без учёта регистра.
func (s *Storage) CreateUser(ctx context.Context, u models.User) (*models.User, error) {
	const op = "storage.CreateUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `INSERT INTO users (run, first_name, last_name, email, password_hash, phone, role,
			      region, commune, address, birth_date)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	if _, err := s.DB.ExecContext(ctx, query,
		u.RUN, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Phone, u.Role,
		u.Region, u.Commune, u.Address, u.BirthDate); err != nil {
		return nil, mapErr(op, err)
	}
	return s.GetUserByRUN(ctx, u.RUN)
}

// GetUserByRUN возвращает пользователя по RUN.
func (s *Storage) GetUserByRUN(ctx context.Context, run string) (*models.User, error) {
	const op = "storage.GetUserByRUN"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	u, err := scanUser(s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE run = $1`, run))
	if err != nil {
		return nil, mapErr(op, err)
	}
	return u, nil
}

// GetUserByEmail ищет пользователя по email без учёта регистра.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	u, err := scanUser(s.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email))
	if err != nil {
		return nil, mapErr(op, err)
	}
	return u, nil
}

// ListUsers возвращает пользователей, при непустом role только с этой ролью.
func (s *Storage) ListUsers(ctx context.Context, role string) ([]*models.User, error) {
	const op = "storage.ListUsers"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users`
	var args []any
	if role != "" {
		query += ` WHERE role = $1`
		args = append(args, role)
	}
	query += ` ORDER BY created_at, run`

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// ListUserSummaries возвращает пользователей с числом заказов и суммой покупок.
// Отменённые заказы не учитываются.
func (s *Storage) ListUserSummaries(ctx context.Context) ([]*models.UserSummary, error) {
	const op = "storage.ListUserSummaries"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT u.run, u.first_name, u.last_name, u.email, u.password_hash, u.phone, u.role,
			      u.region, u.commune, u.address, u.birth_date, u.created_at,
			      COUNT(o.number), COALESCE(SUM(o.total), 0)
			  FROM users u
			  LEFT JOIN orders o ON o.run = u.run AND o.status <> $1
			  GROUP BY u.run
			  ORDER BY u.created_at, u.run`
	rows, err := s.DB.QueryContext(ctx, query, models.StatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []*models.UserSummary
	for rows.Next() {
		var purchases int
		var spent int64
		u, err := scanUser(rows, &purchases, &spent)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, &models.UserSummary{User: *u, TotalPurchases: purchases, TotalSpent: spent})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}

// UpdateUser обновляет профиль пользователя. Пароль меняется через UpdatePasswordHash.
func (s *Storage) UpdateUser(ctx context.Context, u models.User) (*models.User, error) {
	const op = "storage.UpdateUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `UPDATE users
			  SET first_name = $1, last_name = $2, email = $3, phone = $4, role = $5,
			      region = $6, commune = $7, address = $8, birth_date = $9
			  WHERE run = $10`
	res, err := s.DB.ExecContext(ctx, query,
		u.FirstName, u.LastName, u.Email, u.Phone, u.Role,
		u.Region, u.Commune, u.Address, u.BirthDate, u.RUN)
	if err != nil {
		return nil, mapErr(op, err)
	}
	if err := affected(op, res); err != nil {
		return nil, err
	}
	return s.GetUserByRUN(ctx, u.RUN)
}

// UpdatePasswordHash заменяет хеш пароля.
func (s *Storage) UpdatePasswordHash(ctx context.Context, run, hash string) error {
	const op = "storage.UpdatePasswordHash"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE users SET password_hash = $1 WHERE run = $2`, hash, run)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return affected(op, res)
}

// DeleteUser удаляет пользователя вместе с незавершёнными и отменёнными
// заказами. Доставленные заказы остаются в истории продаж, поэтому их
// владельца удалить нельзя (ErrUserHasOrders).
func (s *Storage) DeleteUser(ctx context.Context, run string) error {
	const op = "storage.DeleteUser"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = tx.Rollback() }()

	var delivered bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE run = $1 AND status = $2)`,
		run, models.StatusDelivered).Scan(&delivered)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if delivered {
		return fmt.Errorf("%s: %w", op, models.ErrUserHasOrders)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE run = $1`, run); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE run = $1`, run)
	if err != nil {
		var pgErr *pgconn.PgError
		// заказ, созданный параллельно, держит строку пользователя
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return fmt.Errorf("%s: %w", op, models.ErrUserHasOrders)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := affected(op, res); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

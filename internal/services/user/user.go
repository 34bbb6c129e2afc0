// Package user реализует регистрацию и управление пользователями.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/junimo-store/internal/lib/password"
	"github.com/magabrotheeeer/junimo-store/internal/lib/run"
	"github.com/magabrotheeeer/junimo-store/internal/models"
)

// Repository хранилище пользователей.
type Repository interface {
	CreateUser(ctx context.Context, u models.User) (*models.User, error)
	GetUserByRUN(ctx context.Context, run string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context, role string) ([]*models.User, error)
	ListUserSummaries(ctx context.Context) ([]*models.UserSummary, error)
	UpdateUser(ctx context.Context, u models.User) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, run, hash string) error
	DeleteUser(ctx context.Context, run string) error
}

// Service операции с пользователями.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создаёт сервис пользователей.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Register регистрирует покупателя. Роль из запроса игнорируется.
func (s *Service) Register(ctx context.Context, req models.DummyUser) (*models.User, error) {
	const op = "user.Register"
	req.Role = models.RoleClient
	u, err := s.create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// CreateUser создаёт пользователя с любой ролью.
func (s *Service) CreateUser(ctx context.Context, req models.DummyUser) (*models.User, error) {
	const op = "user.CreateUser"
	if req.Role == "" {
		req.Role = models.RoleClient
	}
	u, err := s.create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func (s *Service) create(ctx context.Context, req models.DummyUser) (*models.User, error) {
	runID := run.Normalize(req.RUN)
	if !run.Validate(runID) {
		return nil, models.ErrInvalidRUN
	}
	if !models.IsValidRole(req.Role) {
		return nil, fmt.Errorf("role %q: %w", req.Role, models.ErrInvalidInput)
	}
	email := normalizeEmail(req.Email)
	if err := s.ensureEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}
	birth, err := parseBirthDate(req.BirthDate)
	if err != nil {
		return nil, err
	}
	hash, err := password.GetHash(req.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.CreateUser(ctx, models.User{
		RUN:          runID,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		PasswordHash: hash,
		Phone:        strings.TrimSpace(req.Phone),
		Role:         req.Role,
		Region:       strings.TrimSpace(req.Region),
		Commune:      strings.TrimSpace(req.Commune),
		Address:      strings.TrimSpace(req.Address),
		BirthDate:    birth,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("user created", slog.String("run", u.RUN), slog.String("role", u.Role))
	return u, nil
}

// GetUser возвращает пользователя по RUN.
func (s *Service) GetUser(ctx context.Context, runID string) (*models.User, error) {
	const op = "user.GetUser"
	u, err := s.repo.GetUserByRUN(ctx, run.Normalize(runID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// FindByEmail возвращает пользователя по email без учёта регистра.
func (s *Service) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "user.FindByEmail"
	u, err := s.repo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ListUsers возвращает пользователей. Пустая роль означает всех.
func (s *Service) ListUsers(ctx context.Context, role string) ([]*models.User, error) {
	const op = "user.ListUsers"
	if role != "" {
		role = models.NormalizeRole(role)
	}
	users, err := s.repo.ListUsers(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if users == nil {
		users = []*models.User{}
	}
	return users, nil
}

// Summaries возвращает пользователей с показателями покупок.
func (s *Service) Summaries(ctx context.Context) ([]*models.UserSummary, error) {
	const op = "user.Summaries"
	out, err := s.repo.ListUserSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if out == nil {
		out = []*models.UserSummary{}
	}
	return out, nil
}

// UpdateUser частично обновляет пользователя runID от имени session.
// Клиент может менять только свой профиль и не может менять роль.
func (s *Service) UpdateUser(ctx context.Context, session models.Session, runID string, req models.UserUpdate) (*models.User, error) {
	const op = "user.UpdateUser"
	runID = run.Normalize(runID)
	isAdmin := session.Role == models.RoleAdmin
	if !isAdmin && session.RUN != runID {
		return nil, fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}

	u, err := s.repo.GetUserByRUN(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if req.Role != "" && req.Role != u.Role {
		if !isAdmin {
			return nil, fmt.Errorf("%s: role change: %w", op, models.ErrForbidden)
		}
		if !models.IsValidRole(req.Role) {
			return nil, fmt.Errorf("%s: role %q: %w", op, req.Role, models.ErrInvalidInput)
		}
		u.Role = req.Role
	}
	if req.Email != "" {
		email := normalizeEmail(req.Email)
		if email != u.Email {
			if err := s.ensureEmailFree(ctx, email, u.RUN); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			u.Email = email
		}
	}
	if req.BirthDate != "" {
		if u.BirthDate, err = parseBirthDate(req.BirthDate); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	setIfPresent(&u.FirstName, req.FirstName)
	setIfPresent(&u.LastName, req.LastName)
	setIfPresent(&u.Phone, req.Phone)
	setIfPresent(&u.Region, req.Region)
	setIfPresent(&u.Commune, req.Commune)
	setIfPresent(&u.Address, req.Address)

	updated, err := s.repo.UpdateUser(ctx, *u)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if req.Password != "" {
		hash, err := password.GetHash(req.Password)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := s.repo.UpdatePasswordHash(ctx, runID, hash); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return updated, nil
}

// DeleteUser удаляет пользователя вместе с его недоставленными заказами.
// Администратор не может удалить собственную учётную запись.
func (s *Service) DeleteUser(ctx context.Context, session models.Session, runID string) error {
	const op = "user.DeleteUser"
	runID = run.Normalize(runID)
	if session.RUN == runID {
		return fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}
	if err := s.repo.DeleteUser(ctx, runID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user deleted", slog.String("run", runID), slog.String("by", session.RUN))
	return nil
}

func (s *Service) ensureEmailFree(ctx context.Context, email, ownerRUN string) error {
	existing, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.RUN == ownerRUN {
		return nil
	}
	return fmt.Errorf("email %s: %w", email, models.ErrAlreadyExists)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func parseBirthDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return nil, fmt.Errorf("birth date %q: %w", raw, models.ErrInvalidInput)
	}
	return &t, nil
}

func setIfPresent(dst *string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*dst = v
	}
}

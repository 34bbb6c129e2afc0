// Package auth отвечает за вход, проверку и завершение сессий.
//
// Сессия представлена JWT с временем жизни по роли. При выходе идентификатор
// токена (jti) попадает в denylist Redis до истечения срока токена, поэтому
// отозванный токен перестаёт действовать сразу.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/junimo-store/internal/lib/jwt"
	"github.com/magabrotheeeer/junimo-store/internal/lib/password"
	"github.com/magabrotheeeer/junimo-store/internal/lib/sl"
	"github.com/magabrotheeeer/junimo-store/internal/models"
)

const expiringSoonMinutes = 2

// UserRepository описывает доступ к учётным записям, нужный для входа.
type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, run, hash string) error
}

// Denylist хранит отозванные токены.
type Denylist interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Service реализует вход, проверку и отзыв сессий.
type Service struct {
	users    UserRepository
	jwtMaker jwt.TokenMaker
	denylist Denylist
	log      *slog.Logger
	now      func() time.Time
}

// New создаёт сервис сессий.
func New(users UserRepository, jwtMaker jwt.TokenMaker, denylist Denylist, log *slog.Logger) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
		denylist: denylist,
		log:      log,
		now:      time.Now,
	}
}

func revokedKey(jti string) string {
	return "revoked:" + jti
}

// Login проверяет email и пароль и выпускает токен. Неверный email и неверный
// пароль неразличимы для вызывающего. Пароль в старом формате после успешной
// проверки перехешируется в bcrypt.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (*models.LoginResult, error) {
	const op = "auth.Login"
	user, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}
	if password.IsLegacy(user.PasswordHash) {
		s.upgradeHash(ctx, user.RUN, rawPassword)
	}

	token, expiresAt, err := s.jwtMaker.GenerateToken(jwt.SessionUser{
		RUN:   user.RUN,
		Email: user.Email,
		Role:  user.Role,
		Name:  user.FullName(),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user logged in", slog.String("run", user.RUN), slog.String("role", user.Role))
	return &models.LoginResult{
		Token:      token,
		ExpiresAt:  expiresAt,
		Role:       user.Role,
		RedirectTo: models.HomePath(user.Role),
		User:       *user,
	}, nil
}

func (s *Service) upgradeHash(ctx context.Context, run, rawPassword string) {
	hash, err := password.GetHash(rawPassword)
	if err != nil {
		s.log.Error("failed to hash password for upgrade", slog.String("run", run), sl.Err(err))
		return
	}
	if err := s.users.UpdatePasswordHash(ctx, run, hash); err != nil {
		s.log.Error("failed to upgrade legacy password hash", slog.String("run", run), sl.Err(err))
		return
	}
	s.log.Info("legacy password hash upgraded", slog.String("run", run))
}

// Validate разбирает токен и проверяет, что он не отозван.
func (s *Service) Validate(ctx context.Context, token string) (*models.Session, error) {
	const op = "auth.Validate"
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if claims.ID != "" {
		revoked, err := s.denylist.Exists(ctx, revokedKey(claims.ID))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if revoked {
			return nil, fmt.Errorf("%s: token revoked", op)
		}
	}
	session := claims.Session()
	return &session, nil
}

// Logout отзывает токен до окончания его срока действия.
func (s *Service) Logout(ctx context.Context, token string) error {
	const op = "auth.Logout"
	session, err := s.Validate(ctx, token)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 || session.ID == "" {
		return nil
	}
	if err := s.denylist.Set(ctx, revokedKey(session.ID), session.RUN, ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("session revoked", slog.String("run", session.RUN))
	return nil
}

// Remaining возвращает оставшееся время сессии в минутах.
func (s *Service) Remaining(session models.Session) models.SessionStatus {
	minutes := int(session.ExpiresAt.Sub(s.now()).Minutes())
	if minutes < 0 {
		minutes = 0
	}
	return models.SessionStatus{
		Session:      session,
		MinutesLeft:  minutes,
		ExpiringSoon: minutes > 0 && minutes <= expiringSoonMinutes,
	}
}

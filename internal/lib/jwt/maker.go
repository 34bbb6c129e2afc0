// Package jwt реализует генерацию и проверку сессионных JWT токенов магазина.
//
// Время жизни токена зависит от роли пользователя: сессия администратора
// короче клиентской. Просроченный токен не проходит проверку.
package jwt

import (
	"time"

	"github.com/magabrotheeeer/junimo-store/internal/models"
)

// SessionUser данные пользователя, которые попадают в токен.
type SessionUser struct {
	RUN   string
	Email string
	Role  string
	Name  string
}

// TokenMaker описывает генерацию и разбор токенов.
type TokenMaker interface {
	GenerateToken(user SessionUser) (string, time.Time, error)
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// Maker подписывает токены секретным ключом. ttlByRole задаёт срок по роли.
type Maker struct {
	secretKey string
	ttlByRole map[string]time.Duration
	now       func() time.Time
}

// NewMaker создаёт Maker со сроками жизни для клиента, продавца и администратора.
func NewMaker(secretKey string, clientTTL, vendorTTL, adminTTL time.Duration) *Maker {
	return &Maker{
		secretKey: secretKey,
		ttlByRole: map[string]time.Duration{
			models.RoleClient: clientTTL,
			models.RoleVendor: vendorTTL,
			models.RoleAdmin:  adminTTL,
		},
		now: time.Now,
	}
}

// TTLForRole возвращает время жизни сессии для роли. Для неизвестной роли
// используется клиентский срок.
func (m *Maker) TTLForRole(role string) time.Duration {
	if ttl, ok := m.ttlByRole[role]; ok {
		return ttl
	}
	return m.ttlByRole[models.RoleClient]
}

package models

import "strings"

// Роли пользователей магазина.
const (
	RoleAdmin  = "Administrador"
	RoleVendor = "Vendedor"
	RoleClient = "Cliente"
)

// Roles возвращает все допустимые роли.
func Roles() []string {
	return []string{RoleAdmin, RoleVendor, RoleClient}
}

// NormalizeRole приводит произвольное написание роли к каноническому.
// Неизвестные значения считаются клиентом.
func NormalizeRole(role string) string {
	r := strings.ToLower(strings.TrimSpace(role))
	switch {
	case strings.Contains(r, "admin"):
		return RoleAdmin
	case strings.Contains(r, "vendedor"):
		return RoleVendor
	default:
		return RoleClient
	}
}

// IsValidRole проверяет, что роль записана в каноническом виде.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleVendor, RoleClient:
		return true
	}
	return false
}

// HomePath возвращает раздел SPA, куда направляется пользователь после входа.
func HomePath(role string) string {
	switch role {
	case RoleAdmin:
		return "/admin/dashboard"
	case RoleVendor:
		return "/vendedor"
	default:
		return "/index"
	}
}

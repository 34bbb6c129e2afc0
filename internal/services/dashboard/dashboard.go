// Package dashboard собирает сводку для главной страницы back-office.
package dashboard

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/junimo-store/internal/lib/money"
	"github.com/magabrotheeeer/junimo-store/internal/models"
	"github.com/magabrotheeeer/junimo-store/internal/services/order"
)

// Products источник товаров.
type Products interface {
	ListProducts(ctx context.Context, f models.ProductFilter) ([]*models.Product, error)
}

// Categories источник категорий.
type Categories interface {
	ListCategories(ctx context.Context) ([]*models.Category, error)
}

// Orders источник заказов.
type Orders interface {
	ListOrders(ctx context.Context, f models.OrderFilter) ([]*models.Order, error)
}

// Users источник пользователей.
type Users interface {
	ListUsers(ctx context.Context, role string) ([]*models.User, error)
}

// Contacts источник обращений.
type Contacts interface {
	List(ctx context.Context, status string) ([]*models.ContactMessage, error)
}

// ProductStats показатели каталога.
type ProductStats struct {
	Total                   int    `json:"total"`
	OutOfStock              int    `json:"out_of_stock"`
	Critical                int    `json:"critical"`
	Normal                  int    `json:"normal"`
	Categories              int    `json:"categories"`
	InventoryValue          int64  `json:"inventory_value"`
	InventoryValueFormatted string `json:"inventory_value_formatted"`
}

// UserStats количество пользователей по ролям.
type UserStats struct {
	Total   int `json:"total"`
	Admins  int `json:"admins"`
	Vendors int `json:"vendors"`
	Clients int `json:"clients"`
}

// Summary сводка back-office.
type Summary struct {
	Products        ProductStats      `json:"products"`
	Orders          models.OrderStats `json:"orders"`
	Users           UserStats         `json:"users"`
	PendingMessages int               `json:"pending_messages"`
}

// Service строит сводку.
type Service struct {
	products   Products
	categories Categories
	orders     Orders
	users      Users
	contacts   Contacts
}

// New создаёт сервис сводки.
func New(products Products, categories Categories, orders Orders, users Users, contacts Contacts) *Service {
	return &Service{
		products:   products,
		categories: categories,
		orders:     orders,
		users:      users,
		contacts:   contacts,
	}
}

// Summary возвращает показатели каталога, заказов, пользователей и обращений.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	const op = "dashboard.Summary"
	products, err := s.products.ListProducts(ctx, models.ProductFilter{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	orders, err := s.orders.ListOrders(ctx, models.OrderFilter{})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	users, err := s.users.ListUsers(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	pending, err := s.contacts.List(ctx, models.ContactPending)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Summary{
		Products:        productStats(products, len(categories)),
		Orders:          order.Stats(orders),
		Users:           userStats(users),
		PendingMessages: len(pending),
	}, nil
}

func productStats(products []*models.Product, categories int) ProductStats {
	st := ProductStats{Total: len(products), Categories: categories}
	for _, p := range products {
		switch p.StockState() {
		case models.StockOut:
			st.OutOfStock++
		case models.StockCritical:
			st.Critical++
		default:
			st.Normal++
		}
		st.InventoryValue += p.Price * int64(p.Stock)
	}
	st.InventoryValueFormatted = money.FormatCLP(st.InventoryValue)
	return st
}

func userStats(users []*models.User) UserStats {
	st := UserStats{Total: len(users)}
	for _, u := range users {
		switch u.Role {
		case models.RoleAdmin:
			st.Admins++
		case models.RoleVendor:
			st.Vendors++
		default:
			st.Clients++
		}
	}
	return st
}

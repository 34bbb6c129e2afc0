// Package order реализует оформление и сопровождение заказов.
package order

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/junimo-store/internal/lib/money"
	"github.com/magabrotheeeer/junimo-store/internal/lib/sl"
	"github.com/magabrotheeeer/junimo-store/internal/models"
)

// Repository хранилище заказов.
type Repository interface {
	CreateOrder(ctx context.Context, order models.Order, lines []models.OrderLine) (*models.Order, error)
	GetOrder(ctx context.Context, number string) (*models.Order, error)
	ListOrders(ctx context.Context, f models.OrderFilter) ([]*models.Order, error)
	ListOrdersByRUN(ctx context.Context, run string) ([]*models.Order, error)
	UpdateOrderStatus(ctx context.Context, number, status string) error
	DeleteOrder(ctx context.Context, number string) error
}

// UserRepository источник данных покупателя для доставки.
type UserRepository interface {
	GetUserByRUN(ctx context.Context, run string) (*models.User, error)
}

// Cart корзина, из которой оформляется заказ.
type Cart interface {
	Get(ctx context.Context, run string) (*models.Cart, error)
	Clear(ctx context.Context, run string) error
}

// ProductCache сбрасывает карточки товаров, остаток которых изменился.
type ProductCache interface {
	Invalidate(ctx context.Context, code string)
}

// Publisher публикует события уведомлений.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Recorder учитывает оформленные заказы.
type Recorder interface {
	OrderCreated(total int64)
}

// Service операции с заказами.
type Service struct {
	orders    Repository
	users     UserRepository
	cart      Cart
	products  ProductCache
	publisher Publisher
	metrics   Recorder
	log       *slog.Logger
	now       func() time.Time
}

// New создаёт сервис заказов.
func New(orders Repository, users UserRepository, cart Cart, products ProductCache, publisher Publisher, metrics Recorder, log *slog.Logger) *Service {
	return &Service{
		orders:    orders,
		users:     users,
		cart:      cart,
		products:  products,
		publisher: publisher,
		metrics:   metrics,
		log:       log,
		now:       time.Now,
	}
}

// Checkout оформляет заказ из корзины пользователя run. Цены фиксируются по
// каталогу на момент оформления, остатки списываются в той же транзакции.
func (s *Service) Checkout(ctx context.Context, run string) (*models.Order, error) {
	const op = "order.Checkout"
	c, err := s.cart.Get(ctx, run)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(c.Items) == 0 {
		return nil, fmt.Errorf("%s: %w", op, models.ErrEmptyCart)
	}
	user, err := s.users.GetUserByRUN(ctx, run)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lines := make([]models.OrderLine, 0, len(c.Items))
	for _, it := range c.Items {
		lines = append(lines, models.OrderLine{ProductCode: it.Code, Quantity: it.Quantity})
	}
	created, err := s.orders.CreateOrder(ctx, models.Order{
		Number:  s.newNumber(),
		RUN:     user.RUN,
		Status:  models.StatusPending,
		Region:  user.Region,
		Commune: user.Commune,
		Address: user.Address,
	}, lines)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log := s.log.With(slog.String("op", op), slog.String("number", created.Number))

	// остатки уже списаны в БД, кешированные карточки устарели
	for _, l := range lines {
		s.products.Invalidate(ctx, l.ProductCode)
	}

	if err := s.cart.Clear(ctx, run); err != nil {
		log.Error("failed to clear cart after checkout", sl.Err(err))
	}
	s.metrics.OrderCreated(created.Total)

	event := models.OrderCreatedEvent{Email: user.Email, Name: user.FullName(), Order: *created}
	if err := s.publisher.Publish(ctx, models.EventOrderCreated, event); err != nil {
		log.Error("failed to publish order notification", sl.Err(err))
	}
	log.Info("order created", slog.String("run", run), slog.Int64("total", created.Total))
	return created, nil
}

func (s *Service) newNumber() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("JM-%s-%s", s.now().Format("20060102"), strings.ToUpper(id[:8]))
}

// ListOrders возвращает заказы по фильтру, новые первыми.
func (s *Service) ListOrders(ctx context.Context, f models.OrderFilter) ([]*models.Order, error) {
	const op = "order.ListOrders"
	if f.Status != "" && !models.IsValidOrderStatus(f.Status) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidStatus)
	}
	if f.Date != "" {
		if _, err := time.Parse(time.DateOnly, f.Date); err != nil {
			return nil, fmt.Errorf("%s: date %q: %w", op, f.Date, models.ErrInvalidInput)
		}
	}
	orders, err := s.orders.ListOrders(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return orders, nil
}

// GetOrder возвращает заказ. Клиент видит только свои заказы.
func (s *Service) GetOrder(ctx context.Context, session models.Session, number string) (*models.Order, error) {
	const op = "order.GetOrder"
	o, err := s.orders.GetOrder(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if session.Role == models.RoleClient && o.RUN != session.RUN {
		return nil, fmt.Errorf("%s: %w", op, models.ErrForbidden)
	}
	return o, nil
}

// OrdersForUser возвращает историю заказов пользователя.
func (s *Service) OrdersForUser(ctx context.Context, run string) ([]*models.Order, error) {
	const op = "order.OrdersForUser"
	orders, err := s.orders.ListOrdersByRUN(ctx, run)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if orders == nil {
		orders = []*models.Order{}
	}
	return orders, nil
}

// UpdateStatus меняет статус доставки заказа.
func (s *Service) UpdateStatus(ctx context.Context, number, status string) (*models.Order, error) {
	const op = "order.UpdateStatus"
	if !models.IsValidOrderStatus(status) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidStatus)
	}
	if err := s.orders.UpdateOrderStatus(ctx, number, status); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	o, err := s.orders.GetOrder(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("order status updated", slog.String("number", number), slog.String("status", status))
	return o, nil
}

// DeleteOrder удаляет заказ. Доставленный заказ удалить нельзя.
func (s *Service) DeleteOrder(ctx context.Context, number string) error {
	const op = "order.DeleteOrder"
	o, err := s.orders.GetOrder(ctx, number)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if o.Status == models.StatusDelivered {
		return fmt.Errorf("%s: %w", op, models.ErrDeliveredOrder)
	}
	if err := s.orders.DeleteOrder(ctx, number); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Stats считает сводку по заказам. Выручка учитывает только доставленные
// заказы, доля доставки округляется до целого процента.
func Stats(orders []*models.Order) models.OrderStats {
	var st models.OrderStats
	st.Total = len(orders)
	for _, o := range orders {
		switch o.Status {
		case models.StatusPending:
			st.Pending++
		case models.StatusShipped:
			st.Shipped++
		case models.StatusDelivered:
			st.Delivered++
			st.Revenue += o.Total
		case models.StatusCancelled:
			st.Cancelled++
		}
	}
	if st.Total > 0 {
		st.DeliveryRate = int(math.Round(float64(st.Delivered) / float64(st.Total) * 100))
	}
	st.RevenueFormatted = money.FormatCLP(st.Revenue)
	return st
}

// Stats возвращает сводку по всем заказам.
func (s *Service) Stats(ctx context.Context) (models.OrderStats, error) {
	const op = "order.Stats"
	orders, err := s.orders.ListOrders(ctx, models.OrderFilter{})
	if err != nil {
		return models.OrderStats{}, fmt.Errorf("%s: %w", op, err)
	}
	return Stats(orders), nil
}

// Package cart реализует корзину покупателя, которая хранится в Redis под
// ключом cart:<run>. Цены и остатки всегда берутся из каталога.
package cart

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/junimo-store/internal/models"
)

// Store хранилище корзин.
type Store interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Catalog источник актуальных данных о товаре.
type Catalog interface {
	GetProduct(ctx context.Context, code string) (*models.Product, error)
}

// Recorder учитывает операции с корзиной.
type Recorder interface {
	CartOperation(op string)
}

// Service операции корзины.
type Service struct {
	store   Store
	catalog Catalog
	metrics Recorder
	ttl     time.Duration
	log     *slog.Logger
}

// New создаёт сервис корзины. ttl задаёт время жизни корзины без изменений.
func New(store Store, catalog Catalog, metrics Recorder, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{
		store:   store,
		catalog: catalog,
		metrics: metrics,
		ttl:     ttl,
		log:     log,
	}
}

func cartKey(run string) string {
	return "cart:" + run
}

// Get возвращает корзину пользователя. Отсутствующая корзина считается пустой.
func (s *Service) Get(ctx context.Context, run string) (*models.Cart, error) {
	const op = "cart.Get"
	c, err := s.load(ctx, run)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// AddItem добавляет товар или увеличивает количество уже добавленного.
func (s *Service) AddItem(ctx context.Context, run, code string, quantity int) (*models.Cart, error) {
	const op = "cart.AddItem"
	if quantity < 1 {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidInput)
	}
	p, err := s.catalog.GetProduct(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c, err := s.load(ctx, run)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	idx := find(c, code)
	merged := quantity
	if idx >= 0 {
		merged += c.Items[idx].Quantity
	}
	if p.Stock == 0 || merged > p.Stock {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInsufficientStock)
	}

	item := itemFromProduct(p, merged)
	if idx >= 0 {
		c.Items[idx] = item
	} else {
		c.Items = append(c.Items, item)
	}
	if err := s.save(ctx, run, c); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.CartOperation("add")
	s.log.Debug("cart item added", slog.String("run", run), slog.String("code", code), slog.Int("quantity", merged))
	return c, nil
}

// UpdateItem задаёт количество позиции. Ноль и меньше удаляют её.
func (s *Service) UpdateItem(ctx context.Context, run, code string, quantity int) (*models.Cart, error) {
	const op = "cart.UpdateItem"
	c, err := s.load(ctx, run)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	idx := find(c, code)
	if idx < 0 {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}

	if quantity <= 0 {
		c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	} else {
		p, err := s.catalog.GetProduct(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if quantity > p.Stock {
			return nil, fmt.Errorf("%s: %w", op, models.ErrInsufficientStock)
		}
		c.Items[idx] = itemFromProduct(p, quantity)
	}
	if err := s.save(ctx, run, c); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.CartOperation("update")
	return c, nil
}

// RemoveItem удаляет позицию из корзины.
func (s *Service) RemoveItem(ctx context.Context, run, code string) (*models.Cart, error) {
	const op = "cart.RemoveItem"
	c, err := s.load(ctx, run)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	idx := find(c, code)
	if idx < 0 {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	if err := s.save(ctx, run, c); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.CartOperation("remove")
	return c, nil
}

// Clear очищает корзину.
func (s *Service) Clear(ctx context.Context, run string) error {
	const op = "cart.Clear"
	if err := s.store.Invalidate(ctx, cartKey(run)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.CartOperation("clear")
	return nil
}

func (s *Service) load(ctx context.Context, run string) (*models.Cart, error) {
	var c models.Cart
	if _, err := s.store.Get(ctx, cartKey(run), &c); err != nil {
		return nil, err
	}
	c.Recalculate()
	return &c, nil
}

func (s *Service) save(ctx context.Context, run string, c *models.Cart) error {
	c.Recalculate()
	if len(c.Items) == 0 {
		return s.store.Invalidate(ctx, cartKey(run))
	}
	return s.store.Set(ctx, cartKey(run), c, s.ttl)
}

func find(c *models.Cart, code string) int {
	for i := range c.Items {
		if c.Items[i].Code == code {
			return i
		}
	}
	return -1
}

func itemFromProduct(p *models.Product, quantity int) models.CartItem {
	return models.CartItem{
		Code:          p.Code,
		Name:          p.Name,
		Price:         p.Price,
		Quantity:      quantity,
		Stock:         p.Stock,
		CriticalStock: p.CriticalStock,
	}
}

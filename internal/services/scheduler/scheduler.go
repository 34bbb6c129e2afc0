// Package scheduler периодически проверяет остатки и публикует сводку
// товаров с критическим остатком.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/junimo-store/internal/lib/sl"
	"github.com/magabrotheeeer/junimo-store/internal/models"
)

// StockSource возвращает товары с критическим остатком.
type StockSource interface {
	CriticalStock(ctx context.Context) ([]*models.Product, error)
}

// Publisher публикует события уведомлений.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Service планировщик проверки остатков.
type Service struct {
	stock     StockSource
	publisher Publisher
	recipient string
	interval  time.Duration
	log       *slog.Logger
}

// New создаёт планировщик. recipient получает сводку, interval задаёт период проверки.
func New(stock StockSource, publisher Publisher, recipient string, interval time.Duration, log *slog.Logger) *Service {
	return &Service{
		stock:     stock,
		publisher: publisher,
		recipient: recipient,
		interval:  interval,
		log:       log,
	}
}

// Run выполняет проверку сразу и затем каждые interval до отмены ctx.
func (s *Service) Run(ctx context.Context) {
	s.CheckStock(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("stock scheduler stopped")
			return
		case <-ticker.C:
			s.CheckStock(ctx)
		}
	}
}

// CheckStock публикует одну сводку, если есть товары с критическим остатком.
func (s *Service) CheckStock(ctx context.Context) {
	s.log.Info("starting critical stock check")
	products, err := s.stock.CriticalStock(ctx)
	if err != nil {
		s.log.Error("failed to find critical stock", sl.Err(err))
		return
	}
	if len(products) == 0 {
		s.log.Info("no critical stock found")
		return
	}
	s.log.Info("found critical stock", slog.Int("count", len(products)))

	event := models.StockCriticalEvent{Recipient: s.recipient, Products: make([]models.Product, 0, len(products))}
	for _, p := range products {
		event.Products = append(event.Products, *p)
	}
	if err := s.publisher.Publish(ctx, models.EventStockCritical, event); err != nil {
		s.log.Error("failed to publish message", sl.Err(err))
	}
}

package order

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/junimo-store/internal/cache"
	"github.com/magabrotheeeer/junimo-store/internal/config"
	"github.com/magabrotheeeer/junimo-store/internal/models"
	"github.com/magabrotheeeer/junimo-store/internal/services/catalog"
)

// memProducts хранилище товаров в памяти, достаточное для GetProduct.
type memProducts struct {
	mu    sync.Mutex
	items map[string]models.Product
}

func (m *memProducts) CreateProduct(_ context.Context, p models.Product) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[p.Code] = p
	return &p, nil
}

func (m *memProducts) GetProduct(_ context.Context, code string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.items[code]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &p, nil
}

func (m *memProducts) ListProducts(context.Context, models.ProductFilter) ([]*models.Product, error) {
	return nil, nil
}

func (m *memProducts) UpdateProduct(_ context.Context, p models.Product) (*models.Product, error) {
	return m.CreateProduct(context.Background(), p)
}

func (m *memProducts) DeleteProduct(context.Context, string) error { return nil }

func (m *memProducts) ListProductCodesByPrefix(context.Context, string) ([]string, error) {
	return nil, nil
}

func (m *memProducts) SetProductImage(context.Context, string, string, string) error { return nil }

func (m *memProducts) decrement(code string, qty int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.items[code]
	p.Stock -= qty
	m.items[code] = p
}

func TestService_Checkout_RefreshesCachedStock(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	ctx := context.Background()
	redisCache, err := cache.InitServer(ctx, config.RedisConnection{AddressRedis: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = redisCache.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	products := &memProducts{items: map[string]models.Product{
		"PE001": {Code: "PE001", Name: "Peluche Junimo", Price: 12990, Stock: 1},
	}}
	catalogService := catalog.New(products, nil, redisCache, nil, log)

	cached, err := catalogService.GetProduct(ctx, "PE001")
	require.NoError(t, err)
	require.Equal(t, 1, cached.Stock)
	require.True(t, mr.Exists("product:PE001"))

	f := newFixture()
	f.svc.products = catalogService
	f.cart.On("Get", ctx, run).Return(&models.Cart{Items: []models.CartItem{{Code: "PE001", Quantity: 1, Price: 12990}}}, nil)
	f.users.On("GetUserByRUN", ctx, run).Return(buyer, nil)
	f.orders.On("CreateOrder", ctx, mock.Anything, []models.OrderLine{{ProductCode: "PE001", Quantity: 1}}).
		Run(func(mock.Arguments) { products.decrement("PE001", 1) }).
		Return(&models.Order{Number: "JM-20250314-ABCDEF12", Total: 12990}, nil)
	f.cart.On("Clear", ctx, run).Return(nil)
	f.metrics.On("OrderCreated", int64(12990)).Return()
	f.publisher.On("Publish", ctx, models.EventOrderCreated, mock.Anything).Return(nil)

	_, err = f.svc.Checkout(ctx, run)
	require.NoError(t, err)

	assert.False(t, mr.Exists("product:PE001"))
	fresh, err := catalogService.GetProduct(ctx, "PE001")
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.Stock)
}

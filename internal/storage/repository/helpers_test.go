package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/junimo-store/internal/migrations"
	"github.com/magabrotheeeer/junimo-store/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("junimo"),
		postgres.WithUsername("junimo"),
		postgres.WithPassword("junimo"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	require.NoError(t, migrations.Run(storage.DB))
	return storage
}

// testDataFactory создаёт тестовые записи напрямую через хранилище.
type testDataFactory struct {
	t       *testing.T
	storage *Storage
}

func newTestDataFactory(t *testing.T, storage *Storage) *testDataFactory {
	return &testDataFactory{t: t, storage: storage}
}

func (f *testDataFactory) category(name string) *models.Category {
	f.t.Helper()
	c, err := f.storage.GetCategoryByName(context.Background(), name)
	require.NoError(f.t, err)
	return c
}

func (f *testDataFactory) product(code, name string, price int64, stock, critical int, categoryID int) *models.Product {
	f.t.Helper()
	p, err := f.storage.CreateProduct(context.Background(), models.Product{
		Code:          code,
		Name:          name,
		Description:   "descripción " + name,
		Price:         price,
		Stock:         stock,
		CriticalStock: critical,
		CategoryID:    categoryID,
	})
	require.NoError(f.t, err)
	return p
}

func (f *testDataFactory) user(run, email, role string) *models.User {
	f.t.Helper()
	u, err := f.storage.CreateUser(context.Background(), models.User{
		RUN:          run,
		FirstName:    "Nombre",
		LastName:     "Apellido",
		Email:        email,
		PasswordHash: "hash",
		Role:         role,
		Region:       "Valparaíso",
		Commune:      "Viña del Mar",
		Address:      "Calle Falsa 123",
	})
	require.NoError(f.t, err)
	return u
}

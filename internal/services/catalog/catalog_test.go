package catalog

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/junimo-store/internal/models"
)

var plush = &models.Category{ID: 6, Name: "Peluches", CodePrefix: "PE"}

func TestService_GetProduct_UsesCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := &models.Product{Code: "PE001", Name: "Junimo", Price: 9990}

	f.products.On("GetProduct", mock.Anything, "PE001").Return(p, nil).Once()

	got, err := f.svc.GetProduct(ctx, "PE001")
	require.NoError(t, err)
	assert.Equal(t, "Junimo", got.Name)

	again, err := f.svc.GetProduct(ctx, "PE001")
	require.NoError(t, err)
	assert.Equal(t, p.Code, again.Code)
	f.products.AssertExpectations(t)
}

func TestService_GetProduct_NotFound(t *testing.T) {
	f := newFixture(t)
	f.products.On("GetProduct", mock.Anything, "XX001").Return(nil, models.ErrNotFound)

	_, err := f.svc.GetProduct(context.Background(), "XX001")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestService_CreateProduct_GeneratesCode(t *testing.T) {
	f := newFixture(t)
	req := models.DummyProduct{Name: " Peluche Pollo ", Price: 12990, Stock: 5, CriticalStock: 2, CategoryID: plush.ID}

	f.categories.On("GetCategory", mock.Anything, plush.ID).Return(plush, nil)
	f.products.On("ListProductCodesByPrefix", mock.Anything, "PE").Return([]string{"PE001", "PE004"}, nil)
	f.products.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p models.Product) bool {
		return p.Code == "PE005" && p.Name == "Peluche Pollo" && p.CategoryID == plush.ID
	})).Return(&models.Product{Code: "PE005", Name: "Peluche Pollo"}, nil)

	got, err := f.svc.CreateProduct(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "PE005", got.Code)
	f.products.AssertExpectations(t)
}

func TestService_CreateProduct_RetriesOnCodeConflict(t *testing.T) {
	f := newFixture(t)

	f.categories.On("GetCategory", mock.Anything, plush.ID).Return(plush, nil)
	f.products.On("ListProductCodesByPrefix", mock.Anything, "PE").Return([]string{"PE001"}, nil).Once()
	f.products.On("ListProductCodesByPrefix", mock.Anything, "PE").Return([]string{"PE001", "PE002"}, nil).Once()
	f.products.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p models.Product) bool { return p.Code == "PE002" })).
		Return(nil, models.ErrAlreadyExists).Once()
	f.products.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p models.Product) bool { return p.Code == "PE003" })).
		Return(&models.Product{Code: "PE003"}, nil).Once()

	got, err := f.svc.CreateProduct(context.Background(), models.DummyProduct{Name: "x", Price: 1, CategoryID: plush.ID})
	require.NoError(t, err)
	assert.Equal(t, "PE003", got.Code)
}

func TestService_CreateProduct_WithNewCategory(t *testing.T) {
	f := newFixture(t)
	seeds := &models.Category{ID: 8, Name: "Semillas", CodePrefix: "SE"}

	f.categories.On("GetCategoryByName", mock.Anything, "Semillas").Return(nil, models.ErrNotFound)
	f.categories.On("ListCategoryPrefixes", mock.Anything).Return(map[string]bool{"PE": true}, nil)
	f.categories.On("CreateCategory", mock.Anything, models.Category{Name: "Semillas", CodePrefix: "SE"}).Return(seeds, nil)
	f.products.On("ListProductCodesByPrefix", mock.Anything, "SE").Return([]string{}, nil)
	f.products.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p models.Product) bool {
		return p.Code == "SE001" && p.CategoryID == 8
	})).Return(&models.Product{Code: "SE001", CategoryID: 8}, nil)

	got, err := f.svc.CreateProduct(context.Background(), models.DummyProduct{Name: "Semilla", Price: 500, NewCategory: "Semillas"})
	require.NoError(t, err)
	assert.Equal(t, "SE001", got.Code)
	f.categories.AssertExpectations(t)
}

func TestService_UpdateProduct_InvalidatesCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	old := &models.Product{Code: "PE001", Name: "Viejo", Price: 1000, CategoryID: plush.ID}
	require.NoError(t, f.cache.Set(ctx, productKey("PE001"), old, productCacheTTL))

	f.products.On("GetProduct", mock.Anything, "PE001").Return(old, nil)
	f.categories.On("GetCategory", mock.Anything, plush.ID).Return(plush, nil)
	f.products.On("UpdateProduct", mock.Anything, mock.Anything).Return(&models.Product{Code: "PE001", Name: "Nuevo"}, nil)

	got, err := f.svc.UpdateProduct(ctx, "PE001", models.DummyProduct{Name: "Nuevo", Price: 2000, CategoryID: plush.ID})
	require.NoError(t, err)
	assert.Equal(t, "Nuevo", got.Name)

	ok, err := f.cache.Exists(ctx, productKey("PE001"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestService_DeleteProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.cache.Set(ctx, productKey("PE001"), models.Product{Code: "PE001"}, productCacheTTL))

	f.products.On("DeleteProduct", mock.Anything, "PE001").Return(nil).Once()
	f.products.On("DeleteProduct", mock.Anything, "PE404").Return(models.ErrNotFound).Once()

	require.NoError(t, f.svc.DeleteProduct(ctx, "PE001"))
	ok, err := f.cache.Exists(ctx, productKey("PE001"))
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, f.svc.DeleteProduct(ctx, "PE404"), models.ErrNotFound)
}

func TestService_NextCode(t *testing.T) {
	f := newFixture(t)
	f.categories.On("GetCategory", mock.Anything, plush.ID).Return(plush, nil)
	f.categories.On("GetCategory", mock.Anything, 99).Return(nil, models.ErrNotFound)
	f.products.On("ListProductCodesByPrefix", mock.Anything, "PE").Return([]string{"PE007"}, nil)

	code, err := f.svc.NextCode(context.Background(), plush.ID)
	require.NoError(t, err)
	assert.Equal(t, "PE008", code)

	_, err = f.svc.NextCode(context.Background(), 99)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestService_AttachImage(t *testing.T) {
	f := newFixture(t)
	body := bytes.NewReader([]byte("img"))
	p := &models.Product{Code: "PE001"}

	f.products.On("GetProduct", mock.Anything, "PE001").Return(p, nil).Once()
	f.images.On("Save", "PE001", "foto.png", body).Return("/uploads/PE001.png", "/uploads/PE001_thumb.png", nil)
	f.products.On("SetProductImage", mock.Anything, "PE001", "/uploads/PE001.png", "/uploads/PE001_thumb.png").Return(nil)
	f.products.On("GetProduct", mock.Anything, "PE001").
		Return(&models.Product{Code: "PE001", ImageURL: "/uploads/PE001.png", ThumbnailURL: "/uploads/PE001_thumb.png"}, nil).Once()

	got, err := f.svc.AttachImage(context.Background(), "PE001", "foto.png", body)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/PE001_thumb.png", got.ThumbnailURL)
}

func TestService_AttachImage_SaveFails(t *testing.T) {
	f := newFixture(t)
	saveErr := errors.New("disk full")

	f.products.On("GetProduct", mock.Anything, "PE001").Return(&models.Product{Code: "PE001"}, nil)
	f.images.On("Save", "PE001", "foto.png", mock.Anything).Return("", "", saveErr)

	_, err := f.svc.AttachImage(context.Background(), "PE001", "foto.png", bytes.NewReader(nil))
	assert.ErrorIs(t, err, saveErr)
	f.products.AssertNotCalled(t, "SetProductImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_CriticalStock(t *testing.T) {
	f := newFixture(t)
	f.products.On("ListProducts", mock.Anything, models.ProductFilter{CriticalOnly: true}).Return(nil, nil)

	got, err := f.svc.CriticalStock(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestService_CreateCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.categories.On("GetCategoryByName", mock.Anything, "Peluches").Return(plush, nil)
	_, err := f.svc.CreateCategory(ctx, "  Peluches ")
	assert.ErrorIs(t, err, models.ErrAlreadyExists)

	f.categories.On("GetCategoryByName", mock.Anything, "Semillas Raras").Return(nil, models.ErrNotFound)
	f.categories.On("ListCategoryPrefixes", mock.Anything).Return(map[string]bool{"SE": true}, nil)
	f.categories.On("CreateCategory", mock.Anything, models.Category{Name: "Semillas Raras", CodePrefix: "SM"}).
		Return(&models.Category{ID: 9, Name: "Semillas Raras", CodePrefix: "SM"}, nil)

	c, err := f.svc.CreateCategory(ctx, "Semillas   Raras")
	require.NoError(t, err)
	assert.Equal(t, "SM", c.CodePrefix)

	_, err = f.svc.CreateCategory(ctx, "   ")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
}

func TestService_UpdateCategory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.categories.On("GetCategoryByName", mock.Anything, "Peluches").Return(plush, nil)
	f.categories.On("UpdateCategory", mock.Anything, models.Category{ID: plush.ID, Name: "Peluches"}).Return(plush, nil)

	_, err := f.svc.UpdateCategory(ctx, plush.ID, "Peluches")
	require.NoError(t, err)

	_, err = f.svc.UpdateCategory(ctx, 1, "Peluches")
	assert.ErrorIs(t, err, models.ErrAlreadyExists)
}

func TestService_UpdateCategory_EmptyName(t *testing.T) {
	f := newFixture(t)

	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := f.svc.UpdateCategory(context.Background(), plush.ID, name)
		assert.ErrorIs(t, err, models.ErrInvalidInput, "name %q", name)
	}
	f.categories.AssertNotCalled(t, "GetCategoryByName", mock.Anything, mock.Anything)
	f.categories.AssertNotCalled(t, "UpdateCategory", mock.Anything, mock.Anything)
}

func TestService_DeleteCategory_InUse(t *testing.T) {
	f := newFixture(t)
	f.categories.On("DeleteCategory", mock.Anything, plush.ID).Return(models.ErrCategoryInUse)

	assert.ErrorIs(t, f.svc.DeleteCategory(context.Background(), plush.ID), models.ErrCategoryInUse)
}

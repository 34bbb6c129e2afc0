package category

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/junimo-store/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *MockService) GetCategory(ctx context.Context, id int) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockService) UpdateCategory(ctx context.Context, id int, name string) (*models.Category, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockService) DeleteCategory(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func withID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestHandler_List(t *testing.T) {
	svc := new(MockService)
	svc.On("ListCategories", mock.Anything).Return([]*models.Category{{ID: 1, Name: "Accesorios", CodePrefix: "AC"}}, nil)
	h := New(newNoopLogger(), svc)

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/categories", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"code_prefix":"AC"`)
}

func TestHandler_Get(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		setupMock      func(m *MockService)
		expectedStatus int
	}{
		{
			name: "found",
			id:   "1",
			setupMock: func(m *MockService) {
				m.On("GetCategory", mock.Anything, 1).Return(&models.Category{ID: 1}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "missing",
			id:   "9",
			setupMock: func(m *MockService) {
				m.On("GetCategory", mock.Anything, 9).Return(nil, models.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "not a number",
			id:             "peluches",
			setupMock:      func(m *MockService) {},
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)
			h := New(newNoopLogger(), svc)

			rr := httptest.NewRecorder()
			h.Get(rr, withID(httptest.NewRequest(http.MethodGet, "/categories/"+tt.id, nil), tt.id))

			assert.Equal(t, tt.expectedStatus, rr.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(m *MockService)
		expectedStatus int
	}{
		{
			name: "created",
			body: `{"name":"Peluches"}`,
			setupMock: func(m *MockService) {
				m.On("CreateCategory", mock.Anything, "Peluches").Return(&models.Category{ID: 4, Name: "Peluches", CodePrefix: "PE"}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "duplicate",
			body: `{"name":"Peluches"}`,
			setupMock: func(m *MockService) {
				m.On("CreateCategory", mock.Anything, "Peluches").Return(nil, models.ErrAlreadyExists)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "empty name",
			body:           `{"name":""}`,
			setupMock:      func(m *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)
			h := New(newNoopLogger(), svc)

			rr := httptest.NewRecorder()
			h.Create(rr, httptest.NewRequest(http.MethodPost, "/admin/categories", strings.NewReader(tt.body)))

			assert.Equal(t, tt.expectedStatus, rr.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_UpdateAndDelete(t *testing.T) {
	svc := new(MockService)
	svc.On("UpdateCategory", mock.Anything, 2, "Decoración").Return(&models.Category{ID: 2, Name: "Decoración"}, nil)
	svc.On("DeleteCategory", mock.Anything, 2).Return(models.ErrCategoryInUse)
	svc.On("DeleteCategory", mock.Anything, 3).Return(nil)
	h := New(newNoopLogger(), svc)

	rr := httptest.NewRecorder()
	h.Update(rr, withID(httptest.NewRequest(http.MethodPut, "/admin/categories/2", strings.NewReader(`{"name":"Decoración"}`)), "2"))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.Delete(rr, withID(httptest.NewRequest(http.MethodDelete, "/admin/categories/2", nil), "2"))
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = httptest.NewRecorder()
	h.Delete(rr, withID(httptest.NewRequest(http.MethodDelete, "/admin/categories/3", nil), "3"))
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

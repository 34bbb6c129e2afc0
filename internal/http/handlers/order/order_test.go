package order

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

	"github.com/magabrotheeeer/junimo-store/internal/http/middlewarectx"
	"github.com/magabrotheeeer/junimo-store/internal/models"
)

type MockService struct {
	mock.Mock
}

func orders(args mock.Arguments) ([]*models.Order, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

func single(args mock.Arguments) (*models.Order, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockService) ListOrders(ctx context.Context, f models.OrderFilter) ([]*models.Order, error) {
	return orders(m.Called(ctx, f))
}

func (m *MockService) GetOrder(ctx context.Context, session models.Session, number string) (*models.Order, error) {
	return single(m.Called(ctx, session, number))
}

func (m *MockService) OrdersForUser(ctx context.Context, run string) ([]*models.Order, error) {
	return orders(m.Called(ctx, run))
}

func (m *MockService) UpdateStatus(ctx context.Context, number, status string) (*models.Order, error) {
	return single(m.Called(ctx, number, status))
}

func (m *MockService) DeleteOrder(ctx context.Context, number string) error {
	return m.Called(ctx, number).Error(0)
}

func (m *MockService) Stats(ctx context.Context) (models.OrderStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.OrderStats), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func withNumber(req *http.Request, session *models.Session, number string) *http.Request {
	ctx := req.Context()
	if session != nil {
		ctx = middlewarectx.WithSession(ctx, *session)
	}
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("number", number)
	return req.WithContext(context.WithValue(ctx, chi.RouteCtxKey, rctx))
}

func TestHandler_List(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setupMock      func(m *MockService)
		expectedStatus int
	}{
		{
			name:  "filtered",
			query: "?status=Enviado&date=2025-03-14&run=12.345.678-5",
			setupMock: func(m *MockService) {
				m.On("ListOrders", mock.Anything, models.OrderFilter{Status: "Enviado", Date: "2025-03-14", RUN: "12.345.678-5"}).
					Return([]*models.Order{{Number: "JM-1"}}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "bad status",
			query: "?status=perdido",
			setupMock: func(m *MockService) {
				m.On("ListOrders", mock.Anything, models.OrderFilter{Status: "perdido"}).Return(nil, models.ErrInvalidStatus)
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)
			h := New(newNoopLogger(), svc)

			rr := httptest.NewRecorder()
			h.List(rr, httptest.NewRequest(http.MethodGet, "/admin/orders"+tt.query, nil))

			assert.Equal(t, tt.expectedStatus, rr.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_Get(t *testing.T) {
	client := models.Session{RUN: "1.234.567-4", Role: models.RoleClient}

	svc := new(MockService)
	svc.On("GetOrder", mock.Anything, client, "JM-1").Return(nil, models.ErrForbidden)
	svc.On("GetOrder", mock.Anything, client, "JM-2").Return(&models.Order{Number: "JM-2", RUN: client.RUN}, nil)
	h := New(newNoopLogger(), svc)

	rr := httptest.NewRecorder()
	h.Get(rr, withNumber(httptest.NewRequest(http.MethodGet, "/me/orders/JM-1", nil), &client, "JM-1"))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = httptest.NewRecorder()
	h.Get(rr, withNumber(httptest.NewRequest(http.MethodGet, "/me/orders/JM-2", nil), &client, "JM-2"))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.Get(rr, withNumber(httptest.NewRequest(http.MethodGet, "/me/orders/JM-2", nil), nil, "JM-2"))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandler_Mine(t *testing.T) {
	session := models.Session{RUN: "12.345.678-5", Role: models.RoleClient}
	svc := new(MockService)
	svc.On("OrdersForUser", mock.Anything, session.RUN).Return([]*models.Order{{Number: "JM-1"}, {Number: "JM-2"}}, nil)
	h := New(newNoopLogger(), svc)

	req := httptest.NewRequest(http.MethodGet, "/me/orders", nil)
	req = req.WithContext(middlewarectx.WithSession(req.Context(), session))
	rr := httptest.NewRecorder()
	h.Mine(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "JM-2")
}

func TestHandler_UpdateStatus(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(m *MockService)
		expectedStatus int
	}{
		{
			name: "shipped",
			body: `{"status":"Enviado"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, "JM-1", models.StatusShipped).Return(&models.Order{Number: "JM-1", Status: models.StatusShipped}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown status",
			body:           `{"status":"Extraviado"}`,
			setupMock:      func(m *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "missing order",
			body: `{"status":"Entregado"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateStatus", mock.Anything, "JM-1", models.StatusDelivered).Return(nil, models.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)
			h := New(newNoopLogger(), svc)

			rr := httptest.NewRecorder()
			h.UpdateStatus(rr, withNumber(httptest.NewRequest(http.MethodPut, "/admin/orders/JM-1/status", strings.NewReader(tt.body)), nil, "JM-1"))

			assert.Equal(t, tt.expectedStatus, rr.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_DeleteAndStats(t *testing.T) {
	svc := new(MockService)
	svc.On("DeleteOrder", mock.Anything, "JM-1").Return(models.ErrDeliveredOrder)
	svc.On("DeleteOrder", mock.Anything, "JM-2").Return(nil)
	svc.On("Stats", mock.Anything).Return(models.OrderStats{Total: 4, Delivered: 1, DeliveryRate: 25, RevenueFormatted: "$15.990"}, nil)
	h := New(newNoopLogger(), svc)

	rr := httptest.NewRecorder()
	h.Delete(rr, withNumber(httptest.NewRequest(http.MethodDelete, "/admin/orders/JM-1", nil), nil, "JM-1"))
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = httptest.NewRecorder()
	h.Delete(rr, withNumber(httptest.NewRequest(http.MethodDelete, "/admin/orders/JM-2", nil), nil, "JM-2"))
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = httptest.NewRecorder()
	h.Stats(rr, httptest.NewRequest(http.MethodGet, "/admin/orders/stats", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"delivery_rate":25`)
}

package contact

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

func (m *MockService) Submit(ctx context.Context, req models.DummyContact) (*models.ContactMessage, string, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.ContactMessage), args.String(1), args.Error(2)
}

func (m *MockService) List(ctx context.Context, status string) ([]*models.ContactMessage, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ContactMessage), args.Error(1)
}

func (m *MockService) UpdateStatus(ctx context.Context, id int, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestHandler_Submit(t *testing.T) {
	req := models.DummyContact{Name: "Leah", Email: "leah@gmail.com", Subject: "Pedido", Message: "¿Tienen tallas?"}

	tests := []struct {
		name           string
		body           string
		setupMock      func(m *MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "accepted",
			body: `{"name":"Leah","email":"leah@gmail.com","subject":"Pedido","message":"¿Tienen tallas?"}`,
			setupMock: func(m *MockService) {
				m.On("Submit", mock.Anything, req).Return(&models.ContactMessage{ID: 7, Status: models.ContactPending}, "¡Gracias!", nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"message":"¡Gracias!"`,
		},
		{
			name:           "missing message",
			body:           `{"name":"Leah","email":"leah@gmail.com","subject":"Pedido"}`,
			setupMock:      func(m *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   "field message is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)
			h := New(newNoopLogger(), svc)

			rr := httptest.NewRecorder()
			h.Submit(rr, httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(tt.body)))

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandler_ListAndUpdate(t *testing.T) {
	svc := new(MockService)
	svc.On("List", mock.Anything, "pendiente").Return([]*models.ContactMessage{{ID: 1}}, nil)
	svc.On("List", mock.Anything, "olvidado").Return(nil, models.ErrInvalidStatus)
	svc.On("UpdateStatus", mock.Anything, 1, models.ContactResolved).Return(nil)
	h := New(newNoopLogger(), svc)

	rr := httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/admin/contact?status=pendiente", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.List(rr, httptest.NewRequest(http.MethodGet, "/admin/contact?status=olvidado", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "1")
	req := httptest.NewRequest(http.MethodPut, "/admin/contact/1/status", strings.NewReader(`{"status":"resuelto"}`))
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rr = httptest.NewRecorder()
	h.UpdateStatus(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	svc.AssertExpectations(t)
}

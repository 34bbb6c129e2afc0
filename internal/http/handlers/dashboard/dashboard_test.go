package dashboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/junimo-store/internal/models"
	"github.com/magabrotheeeer/junimo-store/internal/services/dashboard"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Summary(ctx context.Context) (*dashboard.Summary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dashboard.Summary), args.Error(1)
}

func TestHandler_ServeHTTP(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("summary", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Summary", mock.Anything).Return(&dashboard.Summary{
			Products:        dashboard.ProductStats{Total: 12, Critical: 2},
			Orders:          models.OrderStats{Total: 3},
			PendingMessages: 1,
		}, nil)

		rr := httptest.NewRecorder()
		New(log, svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"pending_messages":1`)
	})

	t.Run("failure", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Summary", mock.Anything).Return(nil, errors.New("db down"))

		rr := httptest.NewRecorder()
		New(log, svc).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

package contact

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/junimo-store/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateContactMessage(ctx context.Context, msg models.ContactMessage) (*models.ContactMessage, error) {
	args := m.Called(ctx, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ContactMessage), args.Error(1)
}

func (m *MockRepository) ListContactMessages(ctx context.Context, status string) ([]*models.ContactMessage, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ContactMessage), args.Error(1)
}

func (m *MockRepository) UpdateContactStatus(ctx context.Context, id int, status string) error {
	return m.Called(ctx, id, status).Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, message any) error {
	return m.Called(ctx, routingKey, message).Error(0)
}

func newService() (*Service, *MockRepository, *MockPublisher) {
	repo := new(MockRepository)
	pub := new(MockPublisher)
	return New(repo, pub, slog.New(slog.NewTextHandler(io.Discard, nil))), repo, pub
}

func TestService_Submit(t *testing.T) {
	svc, repo, pub := newService()
	req := models.DummyContact{Name: " Emily ", Email: "Emily@Pelican.Town", Subject: "Pedido", Message: "¿Hay peluches?"}

	repo.On("CreateContactMessage", mock.Anything, models.ContactMessage{
		Name: "Emily", Email: "emily@pelican.town", Subject: "Pedido", Message: "¿Hay peluches?", Status: models.ContactPending,
	}).Return(&models.ContactMessage{ID: 7, Name: "Emily", Email: "emily@pelican.town", Subject: "Pedido", Status: models.ContactPending}, nil)
	pub.On("Publish", mock.Anything, models.EventContactReceived, models.ContactReceivedEvent{
		Email: "emily@pelican.town", Name: "Emily", Subject: "Pedido",
	}).Return(errors.New("broker down"))

	msg, ack, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 7, msg.ID)
	assert.Equal(t, "¡Gracias por contactarnos! Te responderemos a la brevedad.", ack)
	pub.AssertExpectations(t)
}

func TestService_List(t *testing.T) {
	svc, repo, _ := newService()
	_, err := svc.List(context.Background(), "cerrado")
	assert.ErrorIs(t, err, models.ErrInvalidStatus)

	repo.On("ListContactMessages", mock.Anything, models.ContactPending).Return(nil, nil)
	got, err := svc.List(context.Background(), models.ContactPending)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestService_UpdateStatus(t *testing.T) {
	svc, repo, _ := newService()
	assert.ErrorIs(t, svc.UpdateStatus(context.Background(), 1, "Pendiente"), models.ErrInvalidStatus)

	repo.On("UpdateContactStatus", mock.Anything, 1, models.ContactResolved).Return(nil)
	repo.On("UpdateContactStatus", mock.Anything, 2, models.ContactResolved).Return(models.ErrNotFound)
	assert.NoError(t, svc.UpdateStatus(context.Background(), 1, models.ContactResolved))
	assert.ErrorIs(t, svc.UpdateStatus(context.Background(), 2, models.ContactResolved), models.ErrNotFound)
}

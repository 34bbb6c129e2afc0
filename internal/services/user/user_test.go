package user

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/junimo-store/internal/lib/password"
	"github.com/magabrotheeeer/junimo-store/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateUser(ctx context.Context, u models.User) (*models.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockRepository) GetUserByRUN(ctx context.Context, run string) (*models.User, error) {
	args := m.Called(ctx, run)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockRepository) ListUsers(ctx context.Context, role string) ([]*models.User, error) {
	args := m.Called(ctx, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockRepository) ListUserSummaries(ctx context.Context) ([]*models.UserSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.UserSummary), args.Error(1)
}

func (m *MockRepository) UpdateUser(ctx context.Context, u models.User) (*models.User, error) {
	args := m.Called(ctx, u)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockRepository) UpdatePasswordHash(ctx context.Context, run, hash string) error {
	return m.Called(ctx, run, hash).Error(0)
}

func (m *MockRepository) DeleteUser(ctx context.Context, run string) error {
	return m.Called(ctx, run).Error(0)
}

func newService() (*Service, *MockRepository) {
	repo := new(MockRepository)
	return New(repo, slog.New(slog.NewTextHandler(io.Discard, nil))), repo
}

func validRequest() models.DummyUser {
	return models.DummyUser{
		RUN:       "12345678-5",
		FirstName: "Leah",
		LastName:  "Artista",
		Email:     " Leah@Cindersap.CL ",
		Password:  "secreta",
		Role:      models.RoleAdmin,
		BirthDate: "1995-02-14",
	}
}

func TestService_Register_NormalizesAndForcesClient(t *testing.T) {
	svc, repo := newService()
	repo.On("GetUserByEmail", mock.Anything, "leah@cindersap.cl").Return(nil, models.ErrNotFound)
	repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.RUN == "12.345.678-5" &&
			u.Email == "leah@cindersap.cl" &&
			u.Role == models.RoleClient &&
			u.BirthDate != nil && u.BirthDate.Day() == 14 &&
			password.CompareHash(u.PasswordHash, "secreta") == nil
	})).Return(&models.User{RUN: "12.345.678-5", Role: models.RoleClient}, nil)

	u, err := svc.Register(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, models.RoleClient, u.Role)
	repo.AssertExpectations(t)
}

func TestService_Register_InvalidRUN(t *testing.T) {
	svc, repo := newService()
	req := validRequest()
	req.RUN = "12.345.678-9"

	_, err := svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, models.ErrInvalidRUN)
	repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	svc, repo := newService()
	repo.On("GetUserByEmail", mock.Anything, "leah@cindersap.cl").Return(&models.User{RUN: "1.234.567-4"}, nil)

	_, err := svc.Register(context.Background(), validRequest())
	assert.ErrorIs(t, err, models.ErrAlreadyExists)
}

func TestService_CreateUser_KeepsRole(t *testing.T) {
	svc, repo := newService()
	repo.On("GetUserByEmail", mock.Anything, mock.Anything).Return(nil, models.ErrNotFound)
	repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Role == models.RoleAdmin
	})).Return(&models.User{Role: models.RoleAdmin}, nil)

	u, err := svc.CreateUser(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
}

func TestService_UpdateUser_ClientRules(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()
	self := models.Session{RUN: "12.345.678-5", Role: models.RoleClient}
	current := &models.User{RUN: "12.345.678-5", Email: "leah@cindersap.cl", Role: models.RoleClient, FirstName: "Leah"}

	_, err := svc.UpdateUser(ctx, self, "1.234.567-4", models.UserUpdate{FirstName: "X"})
	assert.ErrorIs(t, err, models.ErrForbidden)

	repo.On("GetUserByRUN", mock.Anything, "12.345.678-5").Return(current, nil)
	_, err = svc.UpdateUser(ctx, self, "12.345.678-5", models.UserUpdate{Role: models.RoleAdmin})
	assert.ErrorIs(t, err, models.ErrForbidden)

	repo.On("UpdateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Commune == "Pueblo Pelícano" && u.FirstName == "Leah"
	})).Return(&models.User{RUN: "12.345.678-5", Commune: "Pueblo Pelícano"}, nil)
	repo.On("UpdatePasswordHash", mock.Anything, "12.345.678-5", mock.AnythingOfType("string")).Return(nil)

	u, err := svc.UpdateUser(ctx, self, "12345678-5", models.UserUpdate{Commune: "Pueblo Pelícano", Password: "nueva1"})
	require.NoError(t, err)
	assert.Equal(t, "Pueblo Pelícano", u.Commune)
	repo.AssertCalled(t, "UpdatePasswordHash", mock.Anything, "12.345.678-5", mock.AnythingOfType("string"))
}

func TestService_UpdateUser_AdminChangesRole(t *testing.T) {
	svc, repo := newService()
	admin := models.Session{RUN: "11.111.111-1", Role: models.RoleAdmin}
	repo.On("GetUserByRUN", mock.Anything, "12.345.678-5").
		Return(&models.User{RUN: "12.345.678-5", Role: models.RoleClient}, nil)
	repo.On("UpdateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Role == models.RoleVendor
	})).Return(&models.User{RUN: "12.345.678-5", Role: models.RoleVendor}, nil)

	u, err := svc.UpdateUser(context.Background(), admin, "12.345.678-5", models.UserUpdate{Role: models.RoleVendor})
	require.NoError(t, err)
	assert.Equal(t, models.RoleVendor, u.Role)
	repo.AssertNotCalled(t, "UpdatePasswordHash", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_UpdateUser_EmailTaken(t *testing.T) {
	svc, repo := newService()
	self := models.Session{RUN: "12.345.678-5", Role: models.RoleClient}
	repo.On("GetUserByRUN", mock.Anything, "12.345.678-5").
		Return(&models.User{RUN: "12.345.678-5", Email: "leah@cindersap.cl"}, nil)
	repo.On("GetUserByEmail", mock.Anything, "haley@pelican.town").Return(&models.User{RUN: "1.234.567-4"}, nil)

	_, err := svc.UpdateUser(context.Background(), self, "12.345.678-5", models.UserUpdate{Email: "Haley@Pelican.Town"})
	assert.ErrorIs(t, err, models.ErrAlreadyExists)
}

func TestService_DeleteUser(t *testing.T) {
	svc, repo := newService()
	admin := models.Session{RUN: "11.111.111-1", Role: models.RoleAdmin}

	assert.ErrorIs(t, svc.DeleteUser(context.Background(), admin, "11111111-1"), models.ErrForbidden)

	repo.On("DeleteUser", mock.Anything, "12.345.678-5").Return(nil)
	assert.NoError(t, svc.DeleteUser(context.Background(), admin, "12.345.678-5"))
}

func TestService_ListUsers_NormalizesRole(t *testing.T) {
	svc, repo := newService()
	repo.On("ListUsers", mock.Anything, models.RoleVendor).Return([]*models.User{{RUN: "1"}}, nil)
	repo.On("ListUsers", mock.Anything, "").Return(nil, nil)

	got, err := svc.ListUsers(context.Background(), "vendedor")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	all, err := svc.ListUsers(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, all)
}

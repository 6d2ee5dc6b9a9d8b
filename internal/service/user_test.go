package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	domainauth "github.com/algocare/ops-console/internal/domain/auth"
	"github.com/algocare/ops-console/internal/domain/model"
	"github.com/algocare/ops-console/internal/mocks"
)

func TestNewUserService_RequiredDependency(t *testing.T) {
	assert.Panics(t, func() {
		NewUserService(UserServiceOptions{})
	})
}

func TestUserService_Upsert_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(UserServiceOptions{Repo: repo})

	req := &model.UpsertUserRequest{
		Email: "someone@algocarelab.com",
		Role:  domainauth.RoleViewer,
	}
	repo.EXPECT().Upsert(gomock.Any(), req).Return(&model.User{
		ID:    "user-1",
		Email: req.Email,
		Role:  req.Role,
	}, nil)

	user, err := svc.Upsert(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
}

func TestUserService_Upsert_NilRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := NewUserService(UserServiceOptions{Repo: mocks.NewMockUserRepository(ctrl)})

	_, err := svc.Upsert(context.Background(), nil)
	require.Error(t, err)
}

func TestUserService_SetRole_InvalidRole(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := NewUserService(UserServiceOptions{Repo: mocks.NewMockUserRepository(ctrl)})

	_, err := svc.SetRole(context.Background(), "user-1", domainauth.Role("superuser"))
	require.Error(t, err)
}

func TestUserService_SetRole_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(UserServiceOptions{Repo: repo})

	repo.EXPECT().SetRole(gomock.Any(), "user-1", domainauth.RoleReadWrite).
		Return(&model.User{ID: "user-1", Role: domainauth.RoleReadWrite}, nil)

	user, err := svc.SetRole(context.Background(), "user-1", domainauth.RoleReadWrite)

	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleReadWrite, user.Role)
}

func TestUserService_SetPassword_TooShort(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := NewUserService(UserServiceOptions{Repo: mocks.NewMockUserRepository(ctrl)})

	err := svc.SetPassword(context.Background(), "user-1", "short")
	require.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestUserService_SetPassword_StoresBcryptHash(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(UserServiceOptions{Repo: repo})

	var storedHash string
	repo.EXPECT().
		SetPasswordHash(gomock.Any(), "user-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _, hash string) error {
			storedHash = hash
			return nil
		})

	require.NoError(t, svc.SetPassword(context.Background(), "user-1", "long-enough-password"))
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("long-enough-password")))
}

func TestUserService_Delete_PropagatesResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(UserServiceOptions{Repo: repo})

	repo.EXPECT().Delete(gomock.Any(), "user-1").Return(true, nil)
	deleted, err := svc.Delete(context.Background(), "user-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	repo.EXPECT().Delete(gomock.Any(), "user-2").Return(false, nil)
	deleted, err = svc.Delete(context.Background(), "user-2")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestUserService_Count_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockUserRepository(ctrl)
	svc := NewUserService(UserServiceOptions{Repo: repo})

	repo.EXPECT().Count(gomock.Any()).Return(0, errors.New("db down"))

	_, err := svc.Count(context.Background())
	require.Error(t, err)
}

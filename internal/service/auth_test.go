package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/workpulse/workpulse/internal/domain"
	"github.com/workpulse/workpulse/internal/security"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(users *MockUserRepository) *AuthService {
	jwtManager := security.NewJWTManager("test-secret", 15*time.Minute, 7*24*time.Hour)
	return NewAuthService(users, jwtManager)
}

func TestRegister(t *testing.T) {
	users := new(MockUserRepository)
	users.On("EmailExists", mock.Anything, "ana@example.com").Return(false, nil)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "ana@example.com" && u.PasswordHash != "" && u.PasswordHash != "s3cretpass"
	})).Return(nil)

	svc := newTestAuthService(users)
	user, err := svc.Register(context.Background(), domain.UserCreate{
		Email:    "ana@example.com",
		FullName: "Ana Example",
		Password: "s3cretpass",
	})

	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cretpass")))
	users.AssertExpectations(t)
}

func TestRegister_EmailTaken(t *testing.T) {
	users := new(MockUserRepository)
	users.On("EmailExists", mock.Anything, "ana@example.com").Return(true, nil)

	svc := newTestAuthService(users)
	_, err := svc.Register(context.Background(), domain.UserCreate{
		Email:    "ana@example.com",
		FullName: "Ana Example",
		Password: "s3cretpass",
	})

	assert.ErrorIs(t, err, domain.ErrEmailTaken)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cretpass"), bcrypt.MinCost)
	require.NoError(t, err)

	users := new(MockUserRepository)
	users.On("GetByEmail", mock.Anything, "ana@example.com").Return(&domain.User{
		ID:           testUserID,
		Email:        "ana@example.com",
		PasswordHash: string(hash),
	}, nil)

	svc := newTestAuthService(users)
	pair, err := svc.Login(context.Background(), domain.UserLogin{
		Email:    "ana@example.com",
		Password: "s3cretpass",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, int64(900), pair.ExpiresIn)
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cretpass"), bcrypt.MinCost)
	require.NoError(t, err)

	users := new(MockUserRepository)
	users.On("GetByEmail", mock.Anything, "ana@example.com").Return(&domain.User{
		ID:           testUserID,
		Email:        "ana@example.com",
		PasswordHash: string(hash),
	}, nil)

	svc := newTestAuthService(users)
	_, err = svc.Login(context.Background(), domain.UserLogin{
		Email:    "ana@example.com",
		Password: "wrongpass",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidLogin)
}

func TestLogin_UnknownEmail(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, nil)

	svc := newTestAuthService(users)
	_, err := svc.Login(context.Background(), domain.UserLogin{
		Email:    "ghost@example.com",
		Password: "whatever1",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidLogin)
}

func TestRefresh(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByID", mock.Anything, testUserID).Return(&domain.User{
		ID:    testUserID,
		Email: "ana@example.com",
	}, nil)

	svc := newTestAuthService(users)
	refreshToken, err := security.NewJWTManager("test-secret", 15*time.Minute, 7*24*time.Hour).
		GenerateRefreshToken(testUserID)
	require.NoError(t, err)

	pair, err := svc.Refresh(context.Background(), refreshToken)

	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
}

func TestRefresh_InvalidToken(t *testing.T) {
	users := new(MockUserRepository)

	svc := newTestAuthService(users)
	_, err := svc.Refresh(context.Background(), "not-a-token")

	assert.ErrorIs(t, err, domain.ErrInvalidLogin)
}

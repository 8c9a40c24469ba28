package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"tokostore/internal/apperrors"
	"tokostore/internal/models"
	"tokostore/internal/repositories"
	"tokostore/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test_jwt_secret"

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Stats(ctx context.Context) (models.UserStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.UserStats), args.Error(1)
}

// MockTokenRepository is a mock implementation of repositories.TokenRepository
type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) Create(ctx context.Context, token *models.AuthToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenRepository) GetByUserID(ctx context.Context, userID string) (*models.AuthToken, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthToken), args.Error(1)
}

func (m *MockTokenRepository) GetByToken(ctx context.Context, token string) (*models.AuthToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthToken), args.Error(1)
}

func (m *MockTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockTokenRepository) DeleteByUserID(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func newAuthService() (*services.AuthService, *MockUserRepository, *MockTokenRepository) {
	users := new(MockUserRepository)
	tokens := new(MockTokenRepository)
	return services.NewAuthService(users, tokens, testJWTSecret, time.Hour, zap.NewNop()), users, tokens
}

func signedToken(t *testing.T, userID string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  userID,
		"username": "testuser",
		"exp":      exp.Unix(),
	})
	s, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return s
}

func TestAuthService_Register(t *testing.T) {
	authService, users, tokens := newAuthService()
	ctx := context.Background()

	users.On("GetByUsername", ctx, "testuser").Return(nil, repositories.ErrNotFound).Once()
	users.On("Create", ctx, mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).ID = "user-123"
	}).Return(nil).Once()
	tokens.On("GetByUserID", ctx, "user-123").Return(nil, repositories.ErrNotFound).Once()
	tokens.On("Create", ctx, mock.AnythingOfType("*models.AuthToken")).Return(nil).Once()

	user, token, err := authService.Register(ctx, services.RegisterInput{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "user-123", user.ID)
	assert.True(t, user.IsActive)
	assert.False(t, user.IsStaff)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")))

	claims, err := authService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims["user_id"])
	users.AssertExpectations(t)
	tokens.AssertExpectations(t)

	// Test username already taken
	users.On("GetByUsername", ctx, "testuser").Return(&models.User{ID: "1"}, nil).Once()
	_, _, err = authService.Register(ctx, services.RegisterInput{Username: "testuser", Password: "password123"})
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "already exists")
	users.AssertExpectations(t)

	// Test missing password
	_, _, err = authService.Register(ctx, services.RegisterInput{Username: "other"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestAuthService_Login(t *testing.T) {
	authService, users, tokens := newAuthService()
	ctx := context.Background()

	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &models.User{ID: "user-123", Username: "testuser", Password: string(hashedPassword), IsActive: true}
	live := &models.AuthToken{UserID: "user-123", Token: "live-token", ExpiresAt: time.Now().Add(time.Hour)}

	// An unexpired token is reused
	users.On("GetByUsername", ctx, "testuser").Return(user, nil).Once()
	tokens.On("GetByUserID", ctx, "user-123").Return(live, nil).Once()
	_, token, err := authService.Login(ctx, "testuser", "password123")
	require.NoError(t, err)
	assert.Equal(t, "live-token", token)

	// An expired token is replaced
	expired := &models.AuthToken{UserID: "user-123", Token: "old-token", ExpiresAt: time.Now().Add(-time.Minute)}
	users.On("GetByUsername", ctx, "testuser").Return(user, nil).Once()
	tokens.On("GetByUserID", ctx, "user-123").Return(expired, nil).Once()
	tokens.On("DeleteByUserID", ctx, "user-123").Return(nil).Once()
	tokens.On("Create", ctx, mock.AnythingOfType("*models.AuthToken")).Return(nil).Once()
	_, token, err = authService.Login(ctx, "testuser", "password123")
	require.NoError(t, err)
	assert.NotEqual(t, "old-token", token)
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	assert.True(t, ok)
	assert.Equal(t, "testuser", claims["username"])

	// Test invalid credentials (wrong password)
	users.On("GetByUsername", ctx, "testuser").Return(user, nil).Once()
	_, _, err = authService.Login(ctx, "testuser", "wrongpassword")
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "Invalid credentials")

	// Test invalid credentials (user not found)
	users.On("GetByUsername", ctx, "ghost").Return(nil, repositories.ErrNotFound).Once()
	_, _, err = authService.Login(ctx, "ghost", "password123")
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))

	// Inactive users cannot log in
	inactive := *user
	inactive.IsActive = false
	users.On("GetByUsername", ctx, "testuser").Return(&inactive, nil).Once()
	_, _, err = authService.Login(ctx, "testuser", "password123")
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))

	users.AssertExpectations(t)
	tokens.AssertExpectations(t)
}

func TestAuthService_Logout(t *testing.T) {
	authService, _, tokens := newAuthService()
	ctx := context.Background()

	tokens.On("DeleteByToken", ctx, "abc").Return(nil).Once()
	assert.NoError(t, authService.Logout(ctx, "abc"))

	tokens.On("DeleteByToken", ctx, "abc").Return(repositories.ErrNotFound).Once()
	err := authService.Logout(ctx, "abc")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	tokens.On("DeleteByToken", ctx, "boom").Return(errors.New("db down")).Once()
	err = authService.Logout(ctx, "boom")
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
	tokens.AssertExpectations(t)
}

func TestAuthService_Authenticate(t *testing.T) {
	authService, users, tokens := newAuthService()
	ctx := context.Background()
	token := signedToken(t, "user-123", time.Now().Add(time.Hour))
	user := &models.User{ID: "user-123", Username: "testuser", IsActive: true}

	tokens.On("GetByToken", ctx, token).Return(&models.AuthToken{UserID: "user-123", Token: token}, nil).Once()
	users.On("GetByID", ctx, "user-123").Return(user, nil).Once()
	got, err := authService.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", got.ID)

	// A revoked token has no row
	tokens.On("GetByToken", ctx, token).Return(nil, repositories.ErrNotFound).Once()
	_, err = authService.Authenticate(ctx, token)
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))

	// A row owned by someone else does not match the claims
	tokens.On("GetByToken", ctx, token).Return(&models.AuthToken{UserID: "user-999", Token: token}, nil).Once()
	_, err = authService.Authenticate(ctx, token)
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))

	// Disabled accounts are rejected
	tokens.On("GetByToken", ctx, token).Return(&models.AuthToken{UserID: "user-123", Token: token}, nil).Once()
	users.On("GetByID", ctx, "user-123").Return(&models.User{ID: "user-123"}, nil).Once()
	_, err = authService.Authenticate(ctx, token)
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))

	// Garbage never reaches the repositories
	_, err = authService.Authenticate(ctx, "invalid.token.string")
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))

	users.AssertExpectations(t)
	tokens.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	authService, _, _ := newAuthService()

	claims, err := authService.ValidateToken(signedToken(t, "user-123", time.Now().Add(time.Hour)))
	assert.NoError(t, err)
	assert.Equal(t, "user-123", claims["user_id"])
	assert.Equal(t, "testuser", claims["username"])

	_, err = authService.ValidateToken("invalid.token.string")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")

	_, err = authService.ValidateToken(signedToken(t, "user-123", time.Now().Add(-time.Hour)))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid token")
}

func TestAuthService_EnsureAdmin(t *testing.T) {
	authService, users, _ := newAuthService()
	ctx := context.Background()

	users.On("GetByUsername", ctx, "admin").Return(nil, repositories.ErrNotFound).Once()
	users.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Username == "admin" && u.IsStaff && u.IsActive
	})).Return(nil).Once()
	require.NoError(t, authService.EnsureAdmin(ctx, "admin", "s3cret", "admin@example.com"))

	existing := &models.User{ID: "u1", Username: "admin", Email: "old@example.com"}
	users.On("GetByUsername", ctx, "admin").Return(existing, nil).Once()
	users.On("Update", ctx, existing).Return(nil).Once()
	require.NoError(t, authService.EnsureAdmin(ctx, "admin", "s3cret", ""))
	assert.True(t, existing.IsStaff)
	assert.Equal(t, "old@example.com", existing.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(existing.Password), []byte("s3cret")))

	users.AssertExpectations(t)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tokostore/internal/apperrors"
	"tokostore/internal/models"
	"tokostore/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles registration, login and bearer token resolution.
type AuthService struct {
	userRepo  repositories.UserRepository
	tokenRepo repositories.TokenRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	log       *zap.Logger
	now       func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, tokenRepo repositories.TokenRepository, jwtSecret string, tokenTTL time.Duration, log *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		log:       log,
		now:       time.Now,
	}
}

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates a user with a hashed password and issues their first token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return nil, "", apperrors.Validation("username and password are required")
	}

	_, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err == nil {
		return nil, "", apperrors.Validation("A user with username '%s' already exists", in.Username)
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, "", err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:  in.Username,
		Email:     in.Email,
		Password:  string(hashedPassword),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		IsActive:  true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to register user: %w", err)
	}

	token, err := s.tokenFor(ctx, user)
	if err != nil {
		return nil, "", err
	}
	s.log.Info("user registered", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return user, token, nil
}

// Login verifies credentials and returns the user's live token, issuing one if needed.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, "", apperrors.Unauthorized("Invalid credentials")
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", apperrors.Unauthorized("Invalid credentials")
	}
	if !user.IsActive {
		return nil, "", apperrors.Unauthorized("Invalid credentials")
	}

	token, err := s.tokenFor(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Logout revokes the given token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.tokenRepo.DeleteByToken(ctx, token); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.Validation("Token is already invalid")
		}
		return err
	}
	return nil
}

// Authenticate resolves a bearer token to its active user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid or expired token")
	}

	stored, err := s.tokenRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.Unauthorized("Invalid or expired token")
		}
		return nil, err
	}
	if userID, _ := claims["user_id"].(string); userID != stored.UserID {
		return nil, apperrors.Unauthorized("Invalid or expired token")
	}

	user, err := s.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.Unauthorized("Invalid or expired token")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.Unauthorized("User account is disabled")
	}
	return user, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		s.log.Debug("token validation failed", zap.Error(err))
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// EnsureAdmin creates the staff account, or promotes and re-keys an existing user of that name.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password, email string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	switch {
	case err == nil:
		user.IsStaff = true
		user.IsActive = true
		user.Password = string(hashedPassword)
		if email != "" {
			user.Email = email
		}
		if err := s.userRepo.Update(ctx, user); err != nil {
			return err
		}
	case errors.Is(err, repositories.ErrNotFound):
		user = &models.User{Username: username, Email: email, Password: string(hashedPassword), IsStaff: true, IsActive: true}
		if err := s.userRepo.Create(ctx, user); err != nil {
			return err
		}
	default:
		return err
	}
	s.log.Info("admin account ensured", zap.String("username", username))
	return nil
}

// tokenFor returns the user's unexpired token or replaces it with a new one.
func (s *AuthService) tokenFor(ctx context.Context, user *models.User) (string, error) {
	existing, err := s.tokenRepo.GetByUserID(ctx, user.ID)
	switch {
	case err == nil && existing.ExpiresAt.After(s.now()):
		return existing.Token, nil
	case err == nil:
		if err := s.tokenRepo.DeleteByUserID(ctx, user.ID); err != nil {
			return "", err
		}
	case !errors.Is(err, repositories.ErrNotFound):
		return "", err
	}

	now := s.now()
	expiresAt := now.Add(s.tokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"jti":      uuid.New().String(),
		"exp":      expiresAt.Unix(),
		"iat":      now.Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	if err := s.tokenRepo.Create(ctx, &models.AuthToken{UserID: user.ID, Token: tokenString, ExpiresAt: expiresAt}); err != nil {
		// lost a race with a concurrent login of the same user
		if existing, getErr := s.tokenRepo.GetByUserID(ctx, user.ID); getErr == nil {
			return existing.Token, nil
		}
		return "", err
	}
	return tokenString, nil
}

package repositories

import (
	"context"

	"tokostore/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Stats(ctx context.Context) (models.UserStats, error)
}

// TokenRepository stores issued bearer tokens.
type TokenRepository interface {
	Create(ctx context.Context, token *models.AuthToken) error
	GetByUserID(ctx context.Context, userID string) (*models.AuthToken, error)
	GetByToken(ctx context.Context, token string) (*models.AuthToken, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUserID(ctx context.Context, userID string) error
}

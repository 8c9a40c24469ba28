package repositories

import (
	"context"
	"fmt"

	"tokostore/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Update saves every column of an existing user.
func (r *GORMUserRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// GetByUsername retrieves a user by their username from the database.
func (r *GORMUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		return nil, notFoundOr(err, "get user by username", fmt.Sprintf("user with username %s", username))
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "get user by ID", fmt.Sprintf("user with ID %s", id))
	}
	return &user, nil
}

// List returns all users, newest first.
func (r *GORMUserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).Order("created_at DESC, id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Stats counts users by role and activity.
func (r *GORMUserRepository) Stats(ctx context.Context) (models.UserStats, error) {
	var stats models.UserStats
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return stats, fmt.Errorf("failed to count users: %w", err)
	}
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("is_staff = ?", true).Count(&stats.AdminUsers).Error; err != nil {
		return stats, fmt.Errorf("failed to count admin users: %w", err)
	}
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("is_active = ?", true).Count(&stats.ActiveUsers).Error; err != nil {
		return stats, fmt.Errorf("failed to count active users: %w", err)
	}
	stats.RegularUsers = stats.TotalUsers - stats.AdminUsers
	return stats, nil
}

// GORMTokenRepository is a GORM implementation of TokenRepository.
type GORMTokenRepository struct {
	db *gorm.DB
}

// NewGORMTokenRepository creates a new instance of GORMTokenRepository.
func NewGORMTokenRepository(db *gorm.DB) *GORMTokenRepository {
	return &GORMTokenRepository{db: db}
}

func (r *GORMTokenRepository) Create(ctx context.Context, token *models.AuthToken) error {
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

func (r *GORMTokenRepository) GetByUserID(ctx context.Context, userID string) (*models.AuthToken, error) {
	var token models.AuthToken
	if err := r.db.WithContext(ctx).First(&token, "user_id = ?", userID).Error; err != nil {
		return nil, notFoundOr(err, "get token by user", "token")
	}
	return &token, nil
}

func (r *GORMTokenRepository) GetByToken(ctx context.Context, value string) (*models.AuthToken, error) {
	var token models.AuthToken
	if err := r.db.WithContext(ctx).First(&token, "token = ?", value).Error; err != nil {
		return nil, notFoundOr(err, "get token", "token")
	}
	return &token, nil
}

func (r *GORMTokenRepository) DeleteByToken(ctx context.Context, value string) error {
	res := r.db.WithContext(ctx).Delete(&models.AuthToken{}, "token = ?", value)
	if res.Error != nil {
		return fmt.Errorf("failed to delete token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("token not found for deletion: %w", ErrNotFound)
	}
	return nil
}

func (r *GORMTokenRepository) DeleteByUserID(ctx context.Context, userID string) error {
	if err := r.db.WithContext(ctx).Delete(&models.AuthToken{}, "user_id = ?", userID).Error; err != nil {
		return fmt.Errorf("failed to delete tokens of user %s: %w", userID, err)
	}
	return nil
}

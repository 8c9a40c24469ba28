// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"tokostore/internal/config"
	"tokostore/internal/database"
	"tokostore/internal/models"
	"tokostore/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB opens a migrated in-memory sqlite database private to the test.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// NewStore returns a Store over a fresh test database.
func NewStore(t *testing.T) (*repositories.Store, *gorm.DB) {
	t.Helper()
	db := NewDB(t)
	return repositories.NewStore(db), db
}

// Price parses a decimal literal and fails the test on bad input.
func Price(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

// CreateUser inserts a user with a throwaway password hash.
func CreateUser(t *testing.T, store *repositories.Store, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", Password: "x", IsActive: true}
	require.NoError(t, store.Users.Create(context.Background(), user))
	return user
}

// CreateProduct inserts a product with the given price and stock.
func CreateProduct(t *testing.T, store *repositories.Store, name, price string, stock int) *models.Product {
	t.Helper()
	product := &models.Product{Name: name, Price: Price(price), Stock: stock}
	require.NoError(t, store.Products.Create(context.Background(), product))
	return product
}

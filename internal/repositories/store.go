package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store groups every repository over one database handle.
type Store struct {
	Users      UserRepository
	Tokens     TokenRepository
	Categories CategoryRepository
	Products   ProductRepository
	Carts      CartRepository
	Orders     OrderRepository

	db *gorm.DB
}

// NewStore creates GORM repositories bound to db.
func NewStore(db *gorm.DB) *Store {
	return &Store{
		Users:      NewGORMUserRepository(db),
		Tokens:     NewGORMTokenRepository(db),
		Categories: NewGORMCategoryRepository(db),
		Products:   NewGORMProductRepository(db),
		Carts:      NewGORMCartRepository(db),
		Orders:     NewGORMOrderRepository(db),
		db:         db,
	}
}

// Transaction runs fn with a Store whose repositories all share one transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

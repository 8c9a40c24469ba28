package repositories

import (
	"context"
	"fmt"
	"strings"

	"tokostore/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves the products matching filter, newest first.
func (r *GORMProductRepository) GetAll(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Preload("Category")
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.FeaturedOnly {
		query = query.Where("is_featured = ?", true)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(filter.Search)+"%")
	}

	var products []models.Product
	if err := query.Order("created_at DESC, id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, fmt.Sprintf("get product by ID %s", id), fmt.Sprintf("product with ID %s", id))
	}
	return &product, nil
}

// Create creates a new product in the database.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update saves every column of an existing product. Callers check existence first.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(product).Error; err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

// Delete deletes a product and the cart items that reference it.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.CartItem{}, "product_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to remove product %s from carts: %w", id, err)
		}
		res := tx.Delete(&models.Product{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product with ID %s not found for deletion: %w", id, ErrNotFound)
		}
		return nil
	})
}

// LockByIDs selects the products FOR UPDATE in id order so concurrent
// checkouts acquire locks in the same sequence. sqlite ignores the clause.
func (r *GORMProductRepository) LockByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to lock products: %w", err)
	}
	return products, nil
}

// DecrementStock performs a compare-and-swap on the stock column.
func (r *GORMProductRepository) DecrementStock(ctx context.Context, id string, quantity int) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("failed to decrement stock of product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product %s: %w", id, ErrInsufficientStock)
	}
	return nil
}

// Stats counts products for the admin summary.
func (r *GORMProductRepository) Stats(ctx context.Context, lowStockThreshold int) (models.ProductStats, error) {
	var stats models.ProductStats
	counts := []struct {
		dest  *int64
		query string
		args  []any
	}{
		{&stats.TotalProducts, "", nil},
		{&stats.LowStock, "stock < ?", []any{lowStockThreshold}},
		{&stats.OutOfStock, "stock = ?", []any{0}},
		{&stats.FeaturedProducts, "is_featured = ?", []any{true}},
	}
	for _, c := range counts {
		q := r.db.WithContext(ctx).Model(&models.Product{})
		if c.query != "" {
			q = q.Where(c.query, c.args...)
		}
		if err := q.Count(c.dest).Error; err != nil {
			return stats, fmt.Errorf("failed to count products: %w", err)
		}
	}
	return stats, nil
}

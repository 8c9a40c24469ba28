package services

import (
	"context"
	"errors"
	"strings"

	"tokostore/internal/apperrors"
	"tokostore/internal/models"
	"tokostore/internal/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogService handles business logic related to categories and products.
type CatalogService struct {
	categories repositories.CategoryRepository
	products   repositories.ProductRepository
	orders     repositories.OrderRepository
	log        *zap.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(categories repositories.CategoryRepository, products repositories.ProductRepository, orders repositories.OrderRepository, log *zap.Logger) *CatalogService {
	return &CatalogService{
		categories: categories,
		products:   products,
		orders:     orders,
		log:        log,
	}
}

// CategoryInput carries the writable fields of a category.
type CategoryInput struct {
	Name        string
	Description string
}

// ProductInput carries the writable fields of a product.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	CategoryID  *string
	ImageURL    string
	Stock       int
	Size        string
	Brand       string
	IsFeatured  bool
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.GetAll(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Category not found")
	}
	return category, nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if err := s.checkCategoryName(ctx, in.Name, ""); err != nil {
		return nil, err
	}
	category := &models.Category{Name: strings.TrimSpace(in.Name), Description: in.Description}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id string, in CategoryInput) (*models.Category, error) {
	category, err := s.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkCategoryName(ctx, in.Name, id); err != nil {
		return nil, err
	}
	category.Name = strings.TrimSpace(in.Name)
	category.Description = in.Description
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes the category; its products stay in the catalog uncategorized.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return notFound(err, "Category not found")
	}
	return nil
}

func (s *CatalogService) checkCategoryName(ctx context.Context, name, selfID string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperrors.Validation("Category name is required")
	}
	existing, err := s.categories.GetByName(ctx, name)
	switch {
	case err == nil && existing.ID != selfID:
		return apperrors.Validation("Category '%s' already exists", name)
	case err != nil && !errors.Is(err, repositories.ErrNotFound):
		return err
	}
	return nil
}

// ListProducts returns the products matching filter, newest first.
func (s *CatalogService) ListProducts(ctx context.Context, filter repositories.ProductFilter) ([]models.Product, error) {
	return s.products.GetAll(ctx, filter)
}

// FeaturedProducts returns the featured products only.
func (s *CatalogService) FeaturedProducts(ctx context.Context) ([]models.Product, error) {
	return s.products.GetAll(ctx, repositories.ProductFilter{FeaturedOnly: true})
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Product not found")
	}
	return product, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	product := &models.Product{}
	if err := s.applyProductInput(ctx, product, in); err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	s.log.Info("product created", zap.String("product_id", product.ID), zap.String("name", product.Name))
	return s.GetProduct(ctx, product.ID)
}

// UpdateProduct replaces every writable field of the product.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyProductInput(ctx, product, in); err != nil {
		return nil, err
	}
	product.Category = nil
	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, id)
}

// DeleteProduct removes a product that no order references.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	count, err := s.orders.CountItemsForProduct(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.Conflict("Product is part of %d order item(s) and cannot be deleted; set its stock to 0 instead", count)
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return notFound(err, "Product not found")
	}
	s.log.Info("product deleted", zap.String("product_id", id))
	return nil
}

func (s *CatalogService) applyProductInput(ctx context.Context, product *models.Product, in ProductInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return apperrors.Validation("Product name is required")
	}
	if !in.Price.IsPositive() {
		return apperrors.Validation("Price must be greater than 0")
	}
	if in.Stock < 0 {
		return apperrors.Validation("Stock cannot be negative")
	}

	var categoryID *string
	if in.CategoryID != nil && *in.CategoryID != "" {
		if _, err := s.categories.GetByID(ctx, *in.CategoryID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return apperrors.Validation("Category %s does not exist", *in.CategoryID)
			}
			return err
		}
		id := *in.CategoryID
		categoryID = &id
	}

	product.Name = name
	product.Description = in.Description
	product.Price = in.Price.Round(2)
	product.CategoryID = categoryID
	product.ImageURL = in.ImageURL
	product.Stock = in.Stock
	product.Size = in.Size
	product.Brand = in.Brand
	product.IsFeatured = in.IsFeatured
	return nil
}

// notFound turns a repository miss into a client-facing not-found error and
// passes any other failure through.
func notFound(err error, message string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return apperrors.NotFound("%s", message)
	}
	return err
}

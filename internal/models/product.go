package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Category groups products in the catalog.
type Category struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"uniqueIndex;type:varchar(100);not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

// Product represents a product in the store.
type Product struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string          `json:"name" gorm:"type:varchar(200);not null"`
	Description string          `json:"description" gorm:"type:text"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	CategoryID  *string         `json:"category" gorm:"type:varchar(36);index"`
	Category    *Category       `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	ImageURL    string          `json:"image_url" gorm:"type:varchar(500)"`
	Stock       int             `json:"stock" gorm:"not null;default:0;check:stock >= 0"`
	Size        string          `json:"size" gorm:"type:varchar(50)"`
	Brand       string          `json:"brand" gorm:"type:varchar(100)"`
	IsFeatured  bool            `json:"is_featured" gorm:"not null;default:false;index"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	CategoryName string `json:"category_name" gorm:"-"`
}

// AfterFind fills the read-only category name when the category was preloaded.
func (p *Product) AfterFind(_ *gorm.DB) error {
	if p.Category != nil {
		p.CategoryName = p.Category.Name
	}
	return nil
}

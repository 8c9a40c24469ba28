package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the per-user collection of items waiting for checkout.
// It is created lazily and survives checkout for reuse.
type Cart struct {
	ID        string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string     `json:"user" gorm:"uniqueIndex;type:varchar(36);not null"`
	Items     []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	TotalPrice decimal.Decimal `json:"total_price" gorm:"-"`
}

// CartItem is a product and quantity held in a cart. Quantity is always positive.
type CartItem struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartID    string    `json:"-" gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_product"`
	ProductID string    `json:"product_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_product"`
	Product   *Product  `json:"product,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Quantity  int       `json:"quantity" gorm:"not null;check:quantity > 0"`
	AddedAt   time.Time `json:"added_at" gorm:"autoCreateTime"`

	Subtotal decimal.Decimal `json:"subtotal" gorm:"-"`
}

// ComputeTotals refreshes the derived subtotal of every item and the cart total.
// Items without a loaded product contribute nothing.
func (c *Cart) ComputeTotals() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Items {
		item := &c.Items[i]
		item.Subtotal = decimal.Zero
		if item.Product != nil {
			item.Subtotal = item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		}
		total = total.Add(item.Subtotal)
	}
	c.TotalPrice = total
	return total
}

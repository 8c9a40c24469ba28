package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every status an administrator may set.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Order represents a placed customer order. Only Status changes after creation.
type Order struct {
	ID              string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID          string          `json:"user" gorm:"type:varchar(36);not null;index"`
	User            *User           `json:"-"`
	TotalAmount     decimal.Decimal `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	Status          OrderStatus     `json:"status" gorm:"type:varchar(20);not null;default:pending;index"`
	ShippingAddress string          `json:"shipping_address" gorm:"type:text;not null"`
	PhoneNumber     string          `json:"phone_number" gorm:"type:varchar(15);not null"`
	Items           []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	UserName string `json:"user_name" gorm:"-"`
}

// OrderItem is a line of an order. Price is the product price at purchase time.
type OrderItem struct {
	ID        string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string          `json:"-" gorm:"type:varchar(36);not null;index"`
	ProductID string          `json:"product" gorm:"type:varchar(36);not null;index"`
	Product   *Product        `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`

	ProductName  string          `json:"product_name" gorm:"-"`
	ProductImage string          `json:"product_image" gorm:"-"`
	Subtotal     decimal.Decimal `json:"subtotal" gorm:"-"`
}

// FillDerived sets the read-only presentation fields from loaded associations.
func (o *Order) FillDerived() {
	if o.User != nil {
		o.UserName = o.User.Username
	}
	for i := range o.Items {
		item := &o.Items[i]
		item.Subtotal = item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		if item.Product != nil {
			item.ProductName = item.Product.Name
			item.ProductImage = item.Product.ImageURL
		}
	}
}

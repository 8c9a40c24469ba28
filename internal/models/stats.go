package models

import "github.com/shopspring/decimal"

// ProductStats is the admin summary of the catalog.
type ProductStats struct {
	TotalProducts    int64 `json:"total_products"`
	LowStock         int64 `json:"low_stock"`
	OutOfStock       int64 `json:"out_of_stock"`
	FeaturedProducts int64 `json:"featured_products"`
}

// OrderStats is the admin summary of orders. Revenue counts delivered orders only.
type OrderStats struct {
	TotalOrders      int64           `json:"total_orders"`
	PendingOrders    int64           `json:"pending_orders"`
	ProcessingOrders int64           `json:"processing_orders"`
	CompletedOrders  int64           `json:"completed_orders"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
}

// UserStats is the admin summary of accounts.
type UserStats struct {
	TotalUsers   int64 `json:"total_users"`
	AdminUsers   int64 `json:"admin_users"`
	ActiveUsers  int64 `json:"active_users"`
	RegularUsers int64 `json:"regular_users"`
}

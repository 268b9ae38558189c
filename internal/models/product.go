package models

import "github.com/shopspring/decimal"

// Product represents a stocked catalog item row.
type Product struct {
	ProductID     string          `db:"product_id"`
	TenantID      string          `db:"tenant_id"`
	SKU           string          `db:"sku"`
	Name          string          `db:"name"`
	Unit          string          `db:"unit"`
	CostPrice     decimal.Decimal `db:"cost_price"`
	SellPrice     decimal.Decimal `db:"sell_price"`
	StockQuantity decimal.Decimal `db:"stock_quantity"`
	IsActive      bool            `db:"is_active"`
	AuditFields
}

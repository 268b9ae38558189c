package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale represents a realized sale header row.
type Sale struct {
	SaleID        string          `db:"sale_id"`
	TenantID      string          `db:"tenant_id"`
	OrderID       string          `db:"order_id"`
	CustomerID    *string         `db:"customer_id"`
	SalespersonID string          `db:"salesperson_id"`
	PaymentMethod string          `db:"payment_method"`
	Total         decimal.Decimal `db:"total"`
	DueDate       *time.Time      `db:"due_date"` // Credit sales only
	Status        string          `db:"status"`
	SaleDate      time.Time       `db:"sale_date"`
	AuditFields
}

// SaleLine represents one sale line row with its cost snapshot.
type SaleLine struct {
	SaleLineID      string          `db:"sale_line_id"`
	SaleID          string          `db:"sale_id"`
	ProductID       *string         `db:"product_id"` // NULL for free-text lines
	ProductName     string          `db:"product_name"`
	CostPriceAtSale decimal.Decimal `db:"cost_price_at_sale"`
	SellPrice       decimal.Decimal `db:"sell_price"`
	Quantity        decimal.Decimal `db:"quantity"`
	Subtotal        decimal.Decimal `db:"subtotal"`
	MarginPotential decimal.Decimal `db:"margin_potential"`
}

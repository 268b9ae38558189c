package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order represents a sales order header row.
type Order struct {
	OrderID        string          `db:"order_id"`
	TenantID       string          `db:"tenant_id"`
	SalespersonID  string          `db:"salesperson_id"`
	CustomerID     *string         `db:"customer_id"` // Nullable for walk-in cash sales
	PaymentMethod  string          `db:"payment_method"`
	CreditTermDays int             `db:"credit_term_days"`
	Status         string          `db:"status"`
	Total          decimal.Decimal `db:"total"`
	OrderDate      time.Time       `db:"order_date"`
	AuditFields
}

// OrderLine represents one order line row. Kind distinguishes catalog lines
// (product_id set) from free-text lines (product_id NULL).
type OrderLine struct {
	LineID      string          `db:"line_id"`
	OrderID     string          `db:"order_id"`
	Kind        string          `db:"kind"`
	ProductID   *string         `db:"product_id"`
	ProductName string          `db:"product_name"`
	UnitPrice   decimal.Decimal `db:"unit_price"`
	Quantity    decimal.Decimal `db:"quantity"`
	Subtotal    decimal.Decimal `db:"subtotal"`
}

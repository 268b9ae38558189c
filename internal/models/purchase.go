package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase represents a received purchase header row.
type Purchase struct {
	PurchaseID     string          `db:"purchase_id"`
	TenantID       string          `db:"tenant_id"`
	SupplierID     string          `db:"supplier_id"`
	PaymentMethod  string          `db:"payment_method"`
	CreditTermDays int             `db:"credit_term_days"`
	Total          decimal.Decimal `db:"total"`
	DueDate        *time.Time      `db:"due_date"` // Credit purchases only
	Status         string          `db:"status"`
	PurchaseDate   time.Time       `db:"purchase_date"`
	AuditFields
}

// PurchaseLine represents one received product line row.
type PurchaseLine struct {
	PurchaseLineID string          `db:"purchase_line_id"`
	PurchaseID     string          `db:"purchase_id"`
	ProductID      string          `db:"product_id"`
	ProductName    string          `db:"product_name"`
	UnitCost       decimal.Decimal `db:"unit_cost"`
	Quantity       decimal.Decimal `db:"quantity"`
	Subtotal       decimal.Decimal `db:"subtotal"`
}

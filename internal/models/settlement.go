package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Receivable represents an amount owed to the business by a customer.
type Receivable struct {
	ReceivableID    string          `db:"receivable_id"`
	TenantID        string          `db:"tenant_id"`
	SaleID          string          `db:"sale_id"`
	CustomerID      *string         `db:"customer_id"`
	TotalAmount     decimal.Decimal `db:"total_amount"`
	RemainingAmount decimal.Decimal `db:"remaining_amount"`
	DueDate         time.Time       `db:"due_date"`
	Status          string          `db:"status"`
	AuditFields
}

// Payable represents an amount the business owes a supplier.
type Payable struct {
	PayableID       string          `db:"payable_id"`
	TenantID        string          `db:"tenant_id"`
	PurchaseID      string          `db:"purchase_id"`
	SupplierID      string          `db:"supplier_id"`
	TotalAmount     decimal.Decimal `db:"total_amount"`
	RemainingAmount decimal.Decimal `db:"remaining_amount"`
	DueDate         time.Time       `db:"due_date"`
	Status          string          `db:"status"`
	AuditFields
}

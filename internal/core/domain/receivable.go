package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementStatus is shared by receivables and payables.
type SettlementStatus string

const (
	SettlementOpen SettlementStatus = "OPEN"
	SettlementPaid SettlementStatus = "PAID"
)

// Receivable is an amount owed to the business by a customer, created only
// for credit sales. RemainingAmount decreases monotonically through payment
// events and is never negative.
type Receivable struct {
	ReceivableID    string           `json:"receivableID"` // Primary Key (UUID)
	TenantID        string           `json:"tenantID"`     // FK -> tenants.tenant_id (NON-NULL)
	SaleID          string           `json:"saleID"`       // Back-reference, lookup only
	CustomerID      *string          `json:"customerID,omitempty"`
	TotalAmount     decimal.Decimal  `json:"totalAmount"`
	RemainingAmount decimal.Decimal  `json:"remainingAmount"`
	DueDate         time.Time        `json:"dueDate"`
	Status          SettlementStatus `json:"status"`
	AuditFields
}

// Payable is the supplier-side mirror of Receivable, created for credit
// purchases.
type Payable struct {
	PayableID       string           `json:"payableID"`  // Primary Key (UUID)
	TenantID        string           `json:"tenantID"`   // FK -> tenants.tenant_id (NON-NULL)
	PurchaseID      string           `json:"purchaseID"` // Back-reference, lookup only
	SupplierID      string           `json:"supplierID"`
	TotalAmount     decimal.Decimal  `json:"totalAmount"`
	RemainingAmount decimal.Decimal  `json:"remainingAmount"`
	DueDate         time.Time        `json:"dueDate"`
	Status          SettlementStatus `json:"status"`
	AuditFields
}

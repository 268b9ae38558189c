package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseStatus is the settlement state of a recorded purchase receipt.
type PurchaseStatus string

const (
	PurchasePaid   PurchaseStatus = "PAID"
	PurchaseUnpaid PurchaseStatus = "UNPAID"
)

// Purchase is a received stock purchase from a supplier. Recording one
// atomically increments stock per line and either records a cash OUT ledger
// entry or opens a payable, mirroring the sales ship flow.
type Purchase struct {
	PurchaseID     string          `json:"purchaseID"` // Primary Key (UUID)
	TenantID       string          `json:"tenantID"`   // FK -> tenants.tenant_id (NON-NULL)
	SupplierID     string          `json:"supplierID"`
	PaymentMethod  PaymentMethod   `json:"paymentMethod"`
	CreditTermDays int             `json:"creditTermDays"`
	Total          decimal.Decimal `json:"total"`
	DueDate        *time.Time      `json:"dueDate,omitempty"` // Credit purchases only
	Status         PurchaseStatus  `json:"status"`
	PurchaseDate   time.Time       `json:"purchaseDate"`
	Lines          []PurchaseLine  `json:"lines,omitempty"`
	AuditFields
}

// PurchaseLine is one received product line at its purchase cost.
type PurchaseLine struct {
	PurchaseLineID string          `json:"purchaseLineID"` // Primary Key (UUID)
	PurchaseID     string          `json:"purchaseID"`     // FK -> purchases.purchase_id (NON-NULL)
	ProductID      string          `json:"productID"`
	ProductName    string          `json:"productName"`
	UnitCost       decimal.Decimal `json:"unitCost"`
	Quantity       decimal.Decimal `json:"quantity"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

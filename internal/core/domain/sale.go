package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleStatus is the settlement state of a realized sale.
type SaleStatus string

const (
	SalePaid   SaleStatus = "PAID"
	SaleUnpaid SaleStatus = "UNPAID"
	SaleVoid   SaleStatus = "VOID" // Fully returned
)

// Sale is created exactly once, when an order transitions to SHIPPED. The
// header is immutable except for return adjustments to Total/Status.
type Sale struct {
	SaleID        string          `json:"saleID"`   // Primary Key (UUID)
	TenantID      string          `json:"tenantID"` // FK -> tenants.tenant_id (NON-NULL)
	OrderID       string          `json:"orderID"`  // FK -> orders.order_id (NON-NULL)
	CustomerID    *string         `json:"customerID,omitempty"`
	SalespersonID string          `json:"salespersonID"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Total         decimal.Decimal `json:"total"`
	DueDate       *time.Time      `json:"dueDate,omitempty"` // Credit sales only
	Status        SaleStatus      `json:"status"`
	SaleDate      time.Time       `json:"saleDate"`
	Lines         []SaleLine      `json:"lines,omitempty"`
	AuditFields
}

// SaleLine snapshots the product's cost price at sale time. CostPriceAtSale
// never changes afterwards, even if the product's cost does.
type SaleLine struct {
	SaleLineID      string          `json:"saleLineID"`          // Primary Key (UUID)
	SaleID          string          `json:"saleID"`              // FK -> sales.sale_id (NON-NULL)
	ProductID       *string         `json:"productID,omitempty"` // Nil for free-text lines
	ProductName     string          `json:"productName"`
	CostPriceAtSale decimal.Decimal `json:"costPriceAtSale"`
	SellPrice       decimal.Decimal `json:"sellPrice"`
	Quantity        decimal.Decimal `json:"quantity"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	MarginPotential decimal.Decimal `json:"marginPotential"` // (sellPrice - costAtSale) * quantity
}

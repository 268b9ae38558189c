package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of a sales order.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderApproved  OrderStatus = "APPROVED"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// PaymentMethod distinguishes cash sales (settled immediately against a cash
// account) from credit sales (settled later through a receivable).
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentCredit PaymentMethod = "CREDIT"
)

// CanTransitionTo reports whether the state machine permits moving from s to
// target. SHIPPED and CANCELLED are terminal.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderPending:
		return target == OrderApproved || target == OrderCancelled
	case OrderApproved:
		return target == OrderShipped || target == OrderCancelled
	default:
		return false
	}
}

// Terminal reports whether no transitions are permitted out of s.
func (s OrderStatus) Terminal() bool {
	return s == OrderShipped || s == OrderCancelled
}

// Order is a sales order drafted by a salesperson. It owns its lines
// exclusively; the invariant total == sum of line subtotals holds after
// every mutation.
type Order struct {
	OrderID        string          `json:"orderID"`  // Primary Key (UUID)
	TenantID       string          `json:"tenantID"` // FK -> tenants.tenant_id (NON-NULL)
	SalespersonID  string          `json:"salespersonID"`
	CustomerID     *string         `json:"customerID,omitempty"` // Nullable for walk-in cash sales
	PaymentMethod  PaymentMethod   `json:"paymentMethod"`
	CreditTermDays int             `json:"creditTermDays"` // 0 for cash sales
	Status         OrderStatus     `json:"status"`
	Total          decimal.Decimal `json:"total"`
	OrderDate      time.Time       `json:"orderDate"`
	Lines          []OrderLine     `json:"lines,omitempty"`
	AuditFields
}

// OrderLineKind tags the line variant: a catalog line references a product,
// a free-text line carries only a name and price (no stock movement, no cost
// snapshot at ship time).
type OrderLineKind string

const (
	LineCatalog  OrderLineKind = "CATALOG"
	LineFreeText OrderLineKind = "FREE_TEXT"
)

// OrderLine is one line of an order. Kind makes the "may or may not have a
// product" case explicit instead of an implicit nullable foreign key.
type OrderLine struct {
	LineID      string          `json:"lineID"`  // Primary Key (UUID)
	OrderID     string          `json:"orderID"` // FK -> orders.order_id (NON-NULL)
	Kind        OrderLineKind   `json:"kind"`
	ProductID   *string         `json:"productID,omitempty"` // Set iff Kind == CATALOG
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    decimal.Decimal `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// NewCatalogLine builds a catalog order line with its subtotal computed.
func NewCatalogLine(lineID, orderID, productID, productName string, unitPrice, quantity decimal.Decimal) OrderLine {
	return OrderLine{
		LineID:      lineID,
		OrderID:     orderID,
		Kind:        LineCatalog,
		ProductID:   &productID,
		ProductName: productName,
		UnitPrice:   unitPrice,
		Quantity:    quantity,
		Subtotal:    unitPrice.Mul(quantity),
	}
}

// NewFreeTextLine builds a free-text order line with its subtotal computed.
func NewFreeTextLine(lineID, orderID, name string, unitPrice, quantity decimal.Decimal) OrderLine {
	return OrderLine{
		LineID:      lineID,
		OrderID:     orderID,
		Kind:        LineFreeText,
		ProductName: name,
		UnitPrice:   unitPrice,
		Quantity:    quantity,
		Subtotal:    unitPrice.Mul(quantity),
	}
}

// LinesTotal sums the subtotals of the given lines.
func LinesTotal(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal)
	}
	return total
}

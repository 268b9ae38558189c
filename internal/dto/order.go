package dto

import (
	"time"

	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// OrderLineRequest is one requested order line. LineID is only meaningful for
// the approve reconciliation, where a known ID updates the existing line.
type OrderLineRequest struct {
	LineID      *string         `json:"lineID,omitempty"`
	Kind        string          `json:"kind" binding:"required,oneof=CATALOG FREE_TEXT"`
	ProductID   *string         `json:"productID,omitempty"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
}

// CreateOrderRequest creates a PENDING order with the supplied lines.
type CreateOrderRequest struct {
	CustomerID     *string            `json:"customerID,omitempty"`
	PaymentMethod  string             `json:"paymentMethod" binding:"required,oneof=CASH CREDIT"`
	CreditTermDays int                `json:"creditTermDays" binding:"gte=0"`
	Lines          []OrderLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// EditOrderRequest replaces all lines of a PENDING order wholesale.
type EditOrderRequest struct {
	Lines []OrderLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ApproveOrderRequest reconciles the line set against the admin-supplied target.
type ApproveOrderRequest struct {
	Lines []OrderLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ShipOrderRequest triggers the composite ship transition. CashAccountID is
// required for cash orders.
type ShipOrderRequest struct {
	CashAccountID *string `json:"cashAccountID,omitempty"`
}

// ReturnLineAdjustment restores stock for one returned catalog line.
type ReturnLineAdjustment struct {
	ProductID string          `json:"productID" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// ReturnRequest reverses part or all of a shipped sale. CashAccountID names
// the cash account the refund reversal is recorded against; it is required
// for every return, credit sales included.
type ReturnRequest struct {
	ReturnedAmount  decimal.Decimal        `json:"returnedAmount" binding:"required"`
	CashAccountID   *string                `json:"cashAccountID,omitempty"`
	LineAdjustments []ReturnLineAdjustment `json:"lineAdjustments" binding:"dive"`
}

// ListOrdersParams holds filters for listing orders.
type ListOrdersParams struct {
	Status    *string `form:"status" binding:"omitempty,oneof=PENDING APPROVED SHIPPED CANCELLED"`
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// OrderLineResponse is the API shape of one order line.
type OrderLineResponse struct {
	LineID      string          `json:"lineID"`
	Kind        string          `json:"kind"`
	ProductID   *string         `json:"productID,omitempty"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    decimal.Decimal `json:"quantity"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderResponse is the API shape of an order.
type OrderResponse struct {
	OrderID        string              `json:"orderID"`
	TenantID       string              `json:"tenantID"`
	SalespersonID  string              `json:"salespersonID"`
	CustomerID     *string             `json:"customerID,omitempty"`
	PaymentMethod  string              `json:"paymentMethod"`
	CreditTermDays int                 `json:"creditTermDays"`
	Status         string              `json:"status"`
	Total          decimal.Decimal     `json:"total"`
	OrderDate      time.Time           `json:"orderDate"`
	Lines          []OrderLineResponse `json:"lines,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
}

// ListOrdersResponse wraps a page of orders and the next pagination token.
type ListOrdersResponse struct {
	Orders    []OrderResponse `json:"orders"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToOrderLineResponse converts a domain order line to its API shape.
func ToOrderLineResponse(l domain.OrderLine) OrderLineResponse {
	return OrderLineResponse{
		LineID:      l.LineID,
		Kind:        string(l.Kind),
		ProductID:   l.ProductID,
		ProductName: l.ProductName,
		UnitPrice:   l.UnitPrice,
		Quantity:    l.Quantity,
		Subtotal:    l.Subtotal,
	}
}

// ToOrderResponse converts a domain order to its API shape.
func ToOrderResponse(o *domain.Order) OrderResponse {
	resp := OrderResponse{
		OrderID:        o.OrderID,
		TenantID:       o.TenantID,
		SalespersonID:  o.SalespersonID,
		CustomerID:     o.CustomerID,
		PaymentMethod:  string(o.PaymentMethod),
		CreditTermDays: o.CreditTermDays,
		Status:         string(o.Status),
		Total:          o.Total,
		OrderDate:      o.OrderDate,
		CreatedAt:      o.CreatedAt,
	}
	for _, l := range o.Lines {
		resp.Lines = append(resp.Lines, ToOrderLineResponse(l))
	}
	return resp
}

// SaleLineResponse is the API shape of one sale line.
type SaleLineResponse struct {
	SaleLineID      string          `json:"saleLineID"`
	ProductID       *string         `json:"productID,omitempty"`
	ProductName     string          `json:"productName"`
	CostPriceAtSale decimal.Decimal `json:"costPriceAtSale"`
	SellPrice       decimal.Decimal `json:"sellPrice"`
	Quantity        decimal.Decimal `json:"quantity"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	MarginPotential decimal.Decimal `json:"marginPotential"`
}

// SaleResponse is the API shape of a realized sale.
type SaleResponse struct {
	SaleID        string             `json:"saleID"`
	OrderID       string             `json:"orderID"`
	CustomerID    *string            `json:"customerID,omitempty"`
	SalespersonID string             `json:"salespersonID"`
	PaymentMethod string             `json:"paymentMethod"`
	Total         decimal.Decimal    `json:"total"`
	DueDate       *time.Time         `json:"dueDate,omitempty"`
	Status        string             `json:"status"`
	SaleDate      time.Time          `json:"saleDate"`
	Lines         []SaleLineResponse `json:"lines,omitempty"`
}

// ToSaleResponse converts a domain sale to its API shape.
func ToSaleResponse(s *domain.Sale) SaleResponse {
	resp := SaleResponse{
		SaleID:        s.SaleID,
		OrderID:       s.OrderID,
		CustomerID:    s.CustomerID,
		SalespersonID: s.SalespersonID,
		PaymentMethod: string(s.PaymentMethod),
		Total:         s.Total,
		DueDate:       s.DueDate,
		Status:        string(s.Status),
		SaleDate:      s.SaleDate,
	}
	for _, l := range s.Lines {
		resp.Lines = append(resp.Lines, SaleLineResponse{
			SaleLineID:      l.SaleLineID,
			ProductID:       l.ProductID,
			ProductName:     l.ProductName,
			CostPriceAtSale: l.CostPriceAtSale,
			SellPrice:       l.SellPrice,
			Quantity:        l.Quantity,
			Subtotal:        l.Subtotal,
			MarginPotential: l.MarginPotential,
		})
	}
	return resp
}

package dto

import (
	"time"

	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PurchaseLineRequest is one received product line.
type PurchaseLineRequest struct {
	ProductID string          `json:"productID" binding:"required"`
	UnitCost  decimal.Decimal `json:"unitCost" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
}

// CreatePurchaseRequest records a received purchase. CashAccountID is
// required for cash purchases.
type CreatePurchaseRequest struct {
	SupplierID     string                `json:"supplierID" binding:"required"`
	PaymentMethod  string                `json:"paymentMethod" binding:"required,oneof=CASH CREDIT"`
	CreditTermDays int                   `json:"creditTermDays" binding:"gte=0"`
	CashAccountID  *string               `json:"cashAccountID,omitempty"`
	Lines          []PurchaseLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ListPurchasesParams holds pagination parameters for listing purchases.
type ListPurchasesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// PurchaseLineResponse is the API shape of one purchase line.
type PurchaseLineResponse struct {
	PurchaseLineID string          `json:"purchaseLineID"`
	ProductID      string          `json:"productID"`
	ProductName    string          `json:"productName"`
	UnitCost       decimal.Decimal `json:"unitCost"`
	Quantity       decimal.Decimal `json:"quantity"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

// PurchaseResponse is the API shape of a purchase.
type PurchaseResponse struct {
	PurchaseID     string                 `json:"purchaseID"`
	TenantID       string                 `json:"tenantID"`
	SupplierID     string                 `json:"supplierID"`
	PaymentMethod  string                 `json:"paymentMethod"`
	CreditTermDays int                    `json:"creditTermDays"`
	Total          decimal.Decimal        `json:"total"`
	DueDate        *time.Time             `json:"dueDate,omitempty"`
	Status         string                 `json:"status"`
	PurchaseDate   time.Time              `json:"purchaseDate"`
	Lines          []PurchaseLineResponse `json:"lines,omitempty"`
}

// ListPurchasesResponse wraps a page of purchases and the next pagination token.
type ListPurchasesResponse struct {
	Purchases []PurchaseResponse `json:"purchases"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ToPurchaseResponse converts a domain purchase to its API shape.
func ToPurchaseResponse(p *domain.Purchase) PurchaseResponse {
	resp := PurchaseResponse{
		PurchaseID:     p.PurchaseID,
		TenantID:       p.TenantID,
		SupplierID:     p.SupplierID,
		PaymentMethod:  string(p.PaymentMethod),
		CreditTermDays: p.CreditTermDays,
		Total:          p.Total,
		DueDate:        p.DueDate,
		Status:         string(p.Status),
		PurchaseDate:   p.PurchaseDate,
	}
	for _, l := range p.Lines {
		resp.Lines = append(resp.Lines, PurchaseLineResponse{
			PurchaseLineID: l.PurchaseLineID,
			ProductID:      l.ProductID,
			ProductName:    l.ProductName,
			UnitCost:       l.UnitCost,
			Quantity:       l.Quantity,
			Subtotal:       l.Subtotal,
		})
	}
	return resp
}

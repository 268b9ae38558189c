package dto

import (
	"time"

	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ApplyPaymentRequest amortizes a receivable or payable by the given amount,
// moving the cash through the named cash account.
type ApplyPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	CashAccountID string          `json:"cashAccountID" binding:"required"`
}

// ListSettlementsParams holds filters for listing receivables or payables.
type ListSettlementsParams struct {
	Status *string `form:"status" binding:"omitempty,oneof=OPEN PAID"`
	Limit  int     `form:"limit"`
	Offset int     `form:"offset"`
}

// ReceivableResponse is the API shape of a receivable.
type ReceivableResponse struct {
	ReceivableID    string          `json:"receivableID"`
	SaleID          string          `json:"saleID"`
	CustomerID      *string         `json:"customerID,omitempty"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	DueDate         time.Time       `json:"dueDate"`
	Status          string          `json:"status"`
}

// PayableResponse is the API shape of a payable.
type PayableResponse struct {
	PayableID       string          `json:"payableID"`
	PurchaseID      string          `json:"purchaseID"`
	SupplierID      string          `json:"supplierID"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	DueDate         time.Time       `json:"dueDate"`
	Status          string          `json:"status"`
}

// ToReceivableResponse converts a domain receivable to its API shape.
func ToReceivableResponse(r *domain.Receivable) ReceivableResponse {
	return ReceivableResponse{
		ReceivableID:    r.ReceivableID,
		SaleID:          r.SaleID,
		CustomerID:      r.CustomerID,
		TotalAmount:     r.TotalAmount,
		RemainingAmount: r.RemainingAmount,
		DueDate:         r.DueDate,
		Status:          string(r.Status),
	}
}

// ToPayableResponse converts a domain payable to its API shape.
func ToPayableResponse(p *domain.Payable) PayableResponse {
	return PayableResponse{
		PayableID:       p.PayableID,
		PurchaseID:      p.PurchaseID,
		SupplierID:      p.SupplierID,
		TotalAmount:     p.TotalAmount,
		RemainingAmount: p.RemainingAmount,
		DueDate:         p.DueDate,
		Status:          string(p.Status),
	}
}

// CommissionResponse is the API shape of a commission.
type CommissionResponse struct {
	CommissionID  string          `json:"commissionID"`
	SaleID        string          `json:"saleID"`
	SalespersonID string          `json:"salespersonID"`
	RatePercent   decimal.Decimal `json:"ratePercent"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
}

// ListCommissionsParams holds filters for listing commissions.
type ListCommissionsParams struct {
	SalespersonID *string `form:"salespersonID"`
	Status        *string `form:"status" binding:"omitempty,oneof=PENDING PAID VOID"`
	Limit         int     `form:"limit"`
	Offset        int     `form:"offset"`
}

// ToCommissionResponse converts a domain commission to its API shape.
func ToCommissionResponse(c *domain.Commission) CommissionResponse {
	return CommissionResponse{
		CommissionID:  c.CommissionID,
		SaleID:        c.SaleID,
		SalespersonID: c.SalespersonID,
		RatePercent:   c.RatePercent,
		Amount:        c.Amount,
		Status:        string(c.Status),
	}
}

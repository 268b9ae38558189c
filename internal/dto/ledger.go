package dto

import (
	"time"

	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateCashAccountRequest creates a named cash account with zero balance.
type CreateCashAccountRequest struct {
	Name string `json:"name" binding:"required"`
}

// RecordEntryRequest appends one cash movement to a cash account.
type RecordEntryRequest struct {
	CashAccountID string          `json:"cashAccountID" binding:"required"`
	OccurredAt    *time.Time      `json:"occurredAt,omitempty"` // defaults to now
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Direction     string          `json:"direction" binding:"required"`
	Memo          string          `json:"memo"`
}

// ListEntriesParams holds pagination parameters for listing ledger entries.
type ListEntriesParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// CashAccountResponse is the API shape of a cash account.
type CashAccountResponse struct {
	CashAccountID string          `json:"cashAccountID"`
	TenantID      string          `json:"tenantID"`
	Name          string          `json:"name"`
	Balance       decimal.Decimal `json:"balance"`
	IsActive      bool            `json:"isActive"`
}

// LedgerEntryResponse is the API shape of one ledger entry.
type LedgerEntryResponse struct {
	EntryID       string          `json:"entryID"`
	CashAccountID string          `json:"cashAccountID"`
	OccurredAt    time.Time       `json:"occurredAt"`
	Amount        decimal.Decimal `json:"amount"`
	Direction     string          `json:"direction"`
	Memo          string          `json:"memo"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ListEntriesResponse wraps a page of entries and the next pagination token.
type ListEntriesResponse struct {
	Entries   []LedgerEntryResponse `json:"entries"`
	NextToken *string               `json:"nextToken,omitempty"`
}

// ToCashAccountResponse converts a domain cash account to its API shape.
func ToCashAccountResponse(a *domain.CashAccount) CashAccountResponse {
	return CashAccountResponse{
		CashAccountID: a.CashAccountID,
		TenantID:      a.TenantID,
		Name:          a.Name,
		Balance:       a.Balance,
		IsActive:      a.IsActive,
	}
}

// ToLedgerEntryResponse converts a domain ledger entry to its API shape.
func ToLedgerEntryResponse(e domain.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		EntryID:       e.EntryID,
		CashAccountID: e.CashAccountID,
		OccurredAt:    e.OccurredAt,
		Amount:        e.Amount,
		Direction:     string(e.Direction),
		Memo:          e.Memo,
		CreatedAt:     e.CreatedAt,
	}
}

// ToLedgerEntryResponses converts a slice of domain entries.
func ToLedgerEntryResponses(entries []domain.LedgerEntry) []LedgerEntryResponse {
	out := make([]LedgerEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = ToLedgerEntryResponse(e)
	}
	return out
}

package services

import (
	"context"

	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	"github.com/mitrakasir/retail_backend_app/internal/dto"
)

// LedgerSvcFacade exposes cash accounts and the append-only cash ledger.
// RecordEntry is also invoked directly by purchase/expense/capital flows.
type LedgerSvcFacade interface {
	CreateCashAccount(ctx context.Context, tenantID string, req dto.CreateCashAccountRequest, actorUserID string) (*domain.CashAccount, error)
	GetCashAccountByID(ctx context.Context, tenantID string, cashAccountID string, requestingUserID string) (*domain.CashAccount, error)
	ListCashAccounts(ctx context.Context, tenantID string, requestingUserID string) ([]domain.CashAccount, error)

	// RecordEntry validates and appends one cash movement, mutating the account
	// balance in the same atomic unit.
	RecordEntry(ctx context.Context, tenantID string, req dto.RecordEntryRequest, actorUserID string) (*domain.LedgerEntry, error)

	ListEntries(ctx context.Context, tenantID string, cashAccountID string, requestingUserID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)
}

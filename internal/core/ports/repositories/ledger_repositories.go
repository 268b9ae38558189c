package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
)

// CashAccountReader defines read operations for cash account data
type CashAccountReader interface {
	// FindCashAccountByID retrieves a specific cash account by its unique identifier.
	FindCashAccountByID(ctx context.Context, cashAccountID string) (*domain.CashAccount, error)

	// ListCashAccounts retrieves all cash accounts for a given tenant.
	ListCashAccounts(ctx context.Context, tenantID string) ([]domain.CashAccount, error)
}

// CashAccountWriter defines write operations for cash account data
type CashAccountWriter interface {
	// SaveCashAccount persists a new cash account.
	SaveCashAccount(ctx context.Context, account domain.CashAccount) error
}

// LedgerEntryReader defines read operations for ledger entries
type LedgerEntryReader interface {
	// ListEntriesByCashAccount retrieves a paginated list of entries for a cash
	// account using token-based pagination. Returns entries, next token, error.
	ListEntriesByCashAccount(ctx context.Context, tenantID, cashAccountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
}

// LedgerWriter defines the append-only write operation for ledger entries.
type LedgerWriter interface {
	// AppendEntry inserts one ledger entry and applies its signed amount to the
	// cash account balance in a single database transaction. The account row is
	// locked for update so concurrent writers serialize on it.
	AppendEntry(ctx context.Context, entry domain.LedgerEntry) error
}

// LedgerTxSupport defines entry operations that participate in a caller-owned
// database transaction (shipment, return, purchase, payment commits).
type LedgerTxSupport interface {
	// AppendEntryInTx inserts a ledger entry and mutates the locked account
	// balance within the given transaction.
	AppendEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces
type LedgerRepositoryFacade interface {
	CashAccountReader
	CashAccountWriter
	LedgerEntryReader
	LedgerWriter
	LedgerTxSupport
}

package repositories

import (
	"context"
	"time"

	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PurchaseCommit carries a purchase receipt persisted in one database
// transaction: header+lines, stock increments, and either a cash OUT ledger
// entry or a payable.
type PurchaseCommit struct {
	Purchase    domain.Purchase
	Lines       []domain.PurchaseLine
	StockDeltas map[string]decimal.Decimal // productID -> positive delta
	LedgerEntry *domain.LedgerEntry        // cash purchases only
	Payable     *domain.Payable            // credit purchases only
	ActorID     string
	Now         time.Time
}

// PurchaseReader defines read operations for purchase data
type PurchaseReader interface {
	FindPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error)
	FindPurchaseLines(ctx context.Context, purchaseID string) ([]domain.PurchaseLine, error)
	ListPurchasesByTenant(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.Purchase, *string, error)
}

// PurchaseWriter defines the composite purchase receipt write.
type PurchaseWriter interface {
	// CommitPurchase persists the purchase and all side effects atomically.
	CommitPurchase(ctx context.Context, commit PurchaseCommit) error
}

// PurchaseRepositoryFacade combines all purchase-related repository interfaces
type PurchaseRepositoryFacade interface {
	PurchaseReader
	PurchaseWriter
}

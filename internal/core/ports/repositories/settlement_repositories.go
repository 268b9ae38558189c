package repositories

import (
	"context"
	"time"

	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PaymentCommit carries one amortization payment against a receivable or
// payable, applied together with its ledger entry in one transaction.
type PaymentCommit struct {
	TenantID    string
	TargetID    string // receivable or payable ID
	Amount      decimal.Decimal
	LedgerEntry domain.LedgerEntry // IN for receivable, OUT for payable
	ActorID     string
	Now         time.Time
}

// ReceivableReader defines read operations for receivables
type ReceivableReader interface {
	FindReceivableByID(ctx context.Context, receivableID string) (*domain.Receivable, error)
	FindReceivableBySaleID(ctx context.Context, saleID string) (*domain.Receivable, error)
	ListReceivables(ctx context.Context, tenantID string, status *domain.SettlementStatus, limit int, offset int) ([]domain.Receivable, error)
}

// PayableReader defines read operations for payables
type PayableReader interface {
	FindPayableByID(ctx context.Context, payableID string) (*domain.Payable, error)
	FindPayableByPurchaseID(ctx context.Context, purchaseID string) (*domain.Payable, error)
	ListPayables(ctx context.Context, tenantID string, status *domain.SettlementStatus, limit int, offset int) ([]domain.Payable, error)
}

// SettlementWriter defines the atomic payment applications.
type SettlementWriter interface {
	// ApplyReceivablePayment locks the receivable, rejects overpayment, reduces
	// the remaining amount, flips status to PAID exactly at zero (also settling
	// the linked sale), and appends the ledger entry, all in one transaction.
	ApplyReceivablePayment(ctx context.Context, commit PaymentCommit) (*domain.Receivable, error)

	// ApplyPayablePayment is the supplier-side mirror of ApplyReceivablePayment.
	ApplyPayablePayment(ctx context.Context, commit PaymentCommit) (*domain.Payable, error)
}

// SettlementRepositoryFacade combines receivable and payable repository interfaces
type SettlementRepositoryFacade interface {
	ReceivableReader
	PayableReader
	SettlementWriter
}

// CommissionReader defines read operations for commissions
type CommissionReader interface {
	FindCommissionByID(ctx context.Context, commissionID string) (*domain.Commission, error)
	FindCommissionBySaleID(ctx context.Context, saleID string) (*domain.Commission, error)
	ListCommissions(ctx context.Context, tenantID string, salespersonID *string, status *domain.CommissionStatus, limit int, offset int) ([]domain.Commission, error)
}

// CommissionWriter defines write operations for commissions
type CommissionWriter interface {
	// UpdateCommissionStatus flips a commission's status (e.g. PENDING -> PAID
	// once the underlying receivable is collected).
	UpdateCommissionStatus(ctx context.Context, commissionID string, status domain.CommissionStatus, userID string, now time.Time) error
}

// CommissionRepositoryFacade combines all commission-related repository interfaces
type CommissionRepositoryFacade interface {
	CommissionReader
	CommissionWriter
}

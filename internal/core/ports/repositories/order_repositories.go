package repositories

import (
	"context"
	"time"

	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ShipmentCommit carries everything the ship transition persists in one
// database transaction. The repository re-checks the order status under lock;
// any failure rolls back the entire commit.
type ShipmentCommit struct {
	OrderID            string
	TenantID           string
	Sale               domain.Sale
	SaleLines          []domain.SaleLine
	StockDeltas        map[string]decimal.Decimal // productID -> negative delta
	AllowNegativeStock bool
	LedgerEntry        *domain.LedgerEntry // cash sales only
	Receivable         *domain.Receivable  // credit sales only
	Commission         *domain.Commission  // only when computed amount > 0
	ActorID            string
	Now                time.Time
}

// ReturnCommit carries a sale return/void. All five effects (sale total,
// receivable remaining, ledger reversal, commission reduction, stock restore)
// are applied in one database transaction.
type ReturnCommit struct {
	TenantID            string
	SaleID              string
	ReturnedAmount      decimal.Decimal
	CommissionReduction decimal.Decimal            // returnedAmount * ratePercent / 100
	StockDeltas         map[string]decimal.Decimal // productID -> positive restore
	LedgerEntry         *domain.LedgerEntry        // cash refund, cash-sale returns only
	ActorID             string
	Now                 time.Time
}

// OrderReader defines read operations for order data
type OrderReader interface {
	// FindOrderByID retrieves an order header by its unique identifier.
	FindOrderByID(ctx context.Context, orderID string) (*domain.Order, error)

	// FindOrderLines retrieves all lines of an order.
	FindOrderLines(ctx context.Context, orderID string) ([]domain.OrderLine, error)

	// ListOrdersByTenant retrieves a paginated list of orders using token-based
	// pagination, optionally filtered by status.
	ListOrdersByTenant(ctx context.Context, tenantID string, status *domain.OrderStatus, limit int, nextToken *string) ([]domain.Order, *string, error)
}

// OrderWriter defines write operations for order data
type OrderWriter interface {
	// SaveOrder persists a new order header together with its lines.
	SaveOrder(ctx context.Context, order domain.Order) error

	// ReplaceOrderLines deletes all existing lines of the order and inserts the
	// given ones, updating the header total, in one transaction.
	ReplaceOrderLines(ctx context.Context, order domain.Order) error

	// ReconcileOrderLines deletes lines absent from order.Lines, upserts the
	// present ones, and updates the header total and status, in one transaction.
	ReconcileOrderLines(ctx context.Context, order domain.Order) error

	// UpdateOrderStatus updates only the lifecycle status of an order.
	UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus, userID string, now time.Time) error
}

// SaleReader defines read operations for realized sales
type SaleReader interface {
	// FindSaleByID retrieves a sale header by its unique identifier.
	FindSaleByID(ctx context.Context, saleID string) (*domain.Sale, error)

	// FindSaleLines retrieves all lines of a sale.
	FindSaleLines(ctx context.Context, saleID string) ([]domain.SaleLine, error)

	// ListSalesByTenant retrieves a paginated list of sales using token-based pagination.
	ListSalesByTenant(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.Sale, *string, error)
}

// ShipmentWriter defines the composite order-to-cash write operations.
type ShipmentWriter interface {
	// CommitShipment executes the full ship transition atomically and flips the
	// order to SHIPPED. Fails with ErrInvalidState if the order is no longer
	// APPROVED, ErrInsufficientStock on a floor violation, ErrNotFound on a
	// missing cash account.
	CommitShipment(ctx context.Context, commit ShipmentCommit) error

	// CommitReturn applies a return/void of a previously shipped sale atomically.
	CommitReturn(ctx context.Context, commit ReturnCommit) error
}

// OrderRepositoryFacade combines all order-related repository interfaces
type OrderRepositoryFacade interface {
	OrderReader
	OrderWriter
	SaleReader
	ShipmentWriter
}

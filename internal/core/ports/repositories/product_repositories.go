package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ProductReader defines read operations for product data
type ProductReader interface {
	// FindProductByID retrieves a specific product by its unique identifier.
	FindProductByID(ctx context.Context, productID string) (*domain.Product, error)

	// FindProductsByIDs retrieves multiple products by their IDs.
	FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error)

	// ListProducts retrieves a paginated list of products for a given tenant.
	ListProducts(ctx context.Context, tenantID string, limit int, offset int) ([]domain.Product, error)
}

// ProductWriter defines write operations for product data
type ProductWriter interface {
	// SaveProduct persists a new product.
	SaveProduct(ctx context.Context, product domain.Product) error

	// UpdateProduct updates an existing product's details (not stock).
	UpdateProduct(ctx context.Context, product domain.Product) error

	// DeactivateProduct marks a product as inactive.
	DeactivateProduct(ctx context.Context, productID string, userID string, now time.Time) error

	// AdjustStock applies a signed stock delta to one product atomically.
	// When enforceFloor is true the adjustment fails with ErrInsufficientStock
	// rather than driving the quantity below zero.
	AdjustStock(ctx context.Context, productID string, delta decimal.Decimal, enforceFloor bool, userID string, now time.Time) (*domain.Product, error)
}

// ProductTxSupport defines stock operations that participate in a caller-owned
// database transaction (shipment, return, purchase commits).
type ProductTxSupport interface {
	// FindProductsByIDsForUpdate selects products and locks them for update within a transaction.
	FindProductsByIDsForUpdate(ctx context.Context, tx pgx.Tx, productIDs []string) (map[string]domain.Product, error)

	// ApplyStockDeltasInTx applies signed stock deltas to multiple products within a transaction.
	ApplyStockDeltasInTx(ctx context.Context, tx pgx.Tx, deltas map[string]decimal.Decimal, enforceFloor bool, userID string, now time.Time) error
}

// ProductRepositoryFacade combines all product-related repository interfaces
type ProductRepositoryFacade interface {
	ProductReader
	ProductWriter
	ProductTxSupport
}

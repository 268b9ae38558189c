package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mitrakasir/retail_backend_app/internal/apperrors"
	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	portsrepo "github.com/mitrakasir/retail_backend_app/internal/core/ports/repositories"
	"github.com/mitrakasir/retail_backend_app/internal/models"
	"github.com/mitrakasir/retail_backend_app/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

type PgxProductRepository struct {
	BaseRepository
}

// newPgxProductRepository creates a new repository for product and stock data.
func newPgxProductRepository(pool *pgxpool.Pool) portsrepo.ProductRepositoryFacade {
	return &PgxProductRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxProductRepository implements portsrepo.ProductRepositoryFacade
var _ portsrepo.ProductRepositoryFacade = (*PgxProductRepository)(nil)

const productColumns = `product_id, tenant_id, sku, name, unit, cost_price, sell_price, stock_quantity, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanProduct(row pgx.Row) (*models.Product, error) {
	var m models.Product
	err := row.Scan(
		&m.ProductID,
		&m.TenantID,
		&m.SKU,
		&m.Name,
		&m.Unit,
		&m.CostPrice,
		&m.SellPrice,
		&m.StockQuantity,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveProduct inserts a new product.
func (r *PgxProductRepository) SaveProduct(ctx context.Context, product domain.Product) error {
	m := mapping.ToModelProduct(product)

	query := `
		INSERT INTO products (product_id, tenant_id, sku, name, unit, cost_price, sell_price, stock_quantity, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ProductID,
		m.TenantID,
		m.SKU,
		m.Name,
		m.Unit,
		m.CostPrice,
		m.SellPrice,
		m.StockQuantity,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: SKU %s already exists in this tenant", apperrors.ErrDuplicate, m.SKU)
		}
		return fmt.Errorf("failed to save product %s: %w", m.ProductID, err)
	}
	return nil
}

// FindProductByID retrieves a product by its ID.
func (r *PgxProductRepository) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1;`

	m, err := scanProduct(r.Pool.QueryRow(ctx, query, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID %s: %w", productID, err)
	}

	d := mapping.ToDomainProduct(*m)
	return &d, nil
}

// FindProductsByIDs retrieves multiple products by their IDs. Missing IDs are
// simply absent from the returned map; the caller decides whether that is an
// error.
func (r *PgxProductRepository) FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error) {
	if len(productIDs) == 0 {
		return map[string]domain.Product{}, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = ANY($1);`

	rows, err := r.Pool.Query(ctx, query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query products by IDs: %w", err)
	}
	defer rows.Close()

	productsMap := make(map[string]domain.Product)
	for rows.Next() {
		m, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product row during batch fetch: %w", err)
		}
		productsMap[m.ProductID] = mapping.ToDomainProduct(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product rows during batch fetch: %w", err)
	}

	return productsMap, nil
}

// ListProducts retrieves a paginated list of active products for a tenant.
func (r *PgxProductRepository) ListProducts(ctx context.Context, tenantID string, limit int, offset int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE tenant_id = $1 AND is_active = TRUE
		ORDER BY name
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query products for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		m, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product row for tenant %s: %w", tenantID, err)
		}
		products = append(products, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product rows for tenant %s: %w", tenantID, err)
	}

	return mapping.ToDomainProductSlice(products), nil
}

// UpdateProduct updates an existing product's details. Stock is adjusted only
// through AdjustStock / ApplyStockDeltasInTx.
func (r *PgxProductRepository) UpdateProduct(ctx context.Context, product domain.Product) error {
	m := mapping.ToModelProduct(product)

	query := `
		UPDATE products
		SET sku = $2, name = $3, unit = $4, cost_price = $5, sell_price = $6, is_active = $7, last_updated_at = $8, last_updated_by = $9
		WHERE product_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.ProductID,
		m.SKU,
		m.Name,
		m.Unit,
		m.CostPrice,
		m.SellPrice,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to execute update product %s: %w", m.ProductID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateProduct marks a product as inactive.
func (r *PgxProductRepository) DeactivateProduct(ctx context.Context, productID string, userID string, now time.Time) error {
	query := `
		UPDATE products
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE product_id = $1 AND is_active = TRUE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, productID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to execute deactivate product %s: %w", productID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindProductByID(ctx, productID); errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		} else if findErr != nil {
			return fmt.Errorf("failed to check product status after deactivation attempt for %s: %w", productID, findErr)
		}
		// Exists but already inactive.
		return apperrors.ErrValidation
	}
	return nil
}

// AdjustStock applies a signed stock delta to one product atomically, locking
// the row so concurrent adjustments serialize.
func (r *PgxProductRepository) AdjustStock(ctx context.Context, productID string, delta decimal.Decimal, enforceFloor bool, userID string, now time.Time) (*domain.Product, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	deltas := map[string]decimal.Decimal{productID: delta}
	if err := r.ApplyStockDeltasInTx(ctx, tx, deltas, enforceFloor, userID, now); err != nil {
		return nil, err
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1;`
	m, err := scanProduct(tx.QueryRow(ctx, query, productID))
	if err != nil {
		return nil, fmt.Errorf("failed to re-read product %s after stock adjustment: %w", productID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	d := mapping.ToDomainProduct(*m)
	return &d, nil
}

// FindProductsByIDsForUpdate selects products and locks them for update within
// a transaction. All requested IDs must be found.
func (r *PgxProductRepository) FindProductsByIDsForUpdate(ctx context.Context, tx pgx.Tx, productIDs []string) (map[string]domain.Product, error) {
	if len(productIDs) == 0 {
		return map[string]domain.Product{}, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = ANY($1) FOR UPDATE;`

	rows, err := tx.Query(ctx, query, productIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query products by IDs for update: %w", err)
	}
	defer rows.Close()

	productsMap := make(map[string]domain.Product)
	for rows.Next() {
		m, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked product row: %w", err)
		}
		productsMap[m.ProductID] = mapping.ToDomainProduct(*m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked product rows: %w", err)
	}

	if len(productsMap) != len(productIDs) {
		missing := []string{}
		for _, id := range productIDs {
			if _, found := productsMap[id]; !found {
				missing = append(missing, id)
			}
		}
		return nil, fmt.Errorf("%w: could not find or lock all requested products, missing: %v", apperrors.ErrNotFound, missing)
	}

	return productsMap, nil
}

// ApplyStockDeltasInTx applies signed stock deltas to multiple products within
// a transaction. With enforceFloor, an adjustment that would drive a quantity
// below zero affects no rows and the whole batch fails with
// ErrInsufficientStock.
func (r *PgxProductRepository) ApplyStockDeltasInTx(ctx context.Context, tx pgx.Tx, deltas map[string]decimal.Decimal, enforceFloor bool, userID string, now time.Time) error {
	if len(deltas) == 0 {
		return nil
	}

	query := `
		UPDATE products
		SET stock_quantity = stock_quantity + $2, last_updated_at = $3, last_updated_by = $4
		WHERE product_id = $1 AND (NOT $5 OR stock_quantity + $2 >= 0);
	`

	batch := &pgx.Batch{}
	productIDs := make([]string, 0, len(deltas))
	for productID, delta := range deltas {
		if delta.IsZero() {
			continue
		}
		batch.Queue(query, productID, delta, now, userID, enforceFloor)
		productIDs = append(productIDs, productID)
	}
	if batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to adjust stock for product %s: %w", productIDs[i], err)
			}
		} else if ct.RowsAffected() == 0 && batchErr == nil {
			if enforceFloor {
				batchErr = fmt.Errorf("%w: product %s", apperrors.ErrInsufficientStock, productIDs[i])
			} else {
				batchErr = fmt.Errorf("%w: product %s not found during stock adjustment", apperrors.ErrNotFound, productIDs[i])
			}
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close stock adjustment batch: %w", err)
	}

	return batchErr
}

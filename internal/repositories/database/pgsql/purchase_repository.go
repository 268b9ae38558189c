package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mitrakasir/retail_backend_app/internal/apperrors"
	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	portsrepo "github.com/mitrakasir/retail_backend_app/internal/core/ports/repositories"
	"github.com/mitrakasir/retail_backend_app/internal/models"
	"github.com/mitrakasir/retail_backend_app/internal/utils/mapping"
	"github.com/mitrakasir/retail_backend_app/internal/utils/pagination"
)

type PgxPurchaseRepository struct {
	BaseRepository
	productRepo portsrepo.ProductRepositoryFacade
	ledgerRepo  portsrepo.LedgerRepositoryFacade
}

// newPgxPurchaseRepository creates a new repository for purchase receipts.
func newPgxPurchaseRepository(pool *pgxpool.Pool, productRepo portsrepo.ProductRepositoryFacade, ledgerRepo portsrepo.LedgerRepositoryFacade) portsrepo.PurchaseRepositoryFacade {
	return &PgxPurchaseRepository{
		BaseRepository: BaseRepository{Pool: pool},
		productRepo:    productRepo,
		ledgerRepo:     ledgerRepo,
	}
}

// Ensure PgxPurchaseRepository implements portsrepo.PurchaseRepositoryFacade
var _ portsrepo.PurchaseRepositoryFacade = (*PgxPurchaseRepository)(nil)

const purchaseColumns = `purchase_id, tenant_id, supplier_id, payment_method, credit_term_days, total, due_date, status, purchase_date, created_at, created_by, last_updated_at, last_updated_by`
const purchaseLineColumns = `purchase_line_id, purchase_id, product_id, product_name, unit_cost, quantity, subtotal`

func scanPurchase(row pgx.Row) (*models.Purchase, error) {
	var m models.Purchase
	err := row.Scan(
		&m.PurchaseID,
		&m.TenantID,
		&m.SupplierID,
		&m.PaymentMethod,
		&m.CreditTermDays,
		&m.Total,
		&m.DueDate,
		&m.Status,
		&m.PurchaseDate,
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

// CommitPurchase persists the purchase header with its lines, increments
// stock per line, and records the cash OUT entry or opens the payable, all in
// one transaction.
func (r *PgxPurchaseRepository) CommitPurchase(ctx context.Context, commit portsrepo.PurchaseCommit) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelPurchase(commit.Purchase)
	headerQuery := `
		INSERT INTO purchases (purchase_id, tenant_id, supplier_id, payment_method, credit_term_days, total, due_date, status, purchase_date, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, headerQuery,
		m.PurchaseID,
		m.TenantID,
		m.SupplierID,
		m.PaymentMethod,
		m.CreditTermDays,
		m.Total,
		m.DueDate,
		m.Status,
		m.PurchaseDate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert purchase %s: %w", m.PurchaseID, err)
	}

	lineQuery := `
		INSERT INTO purchase_lines (purchase_line_id, purchase_id, product_id, product_name, unit_cost, quantity, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	batch := &pgx.Batch{}
	for _, line := range commit.Lines {
		lm := mapping.ToModelPurchaseLine(line)
		batch.Queue(lineQuery,
			lm.PurchaseLineID,
			lm.PurchaseID,
			lm.ProductID,
			lm.ProductName,
			lm.UnitCost,
			lm.Quantity,
			lm.Subtotal,
		)
	}
	if batch.Len() > 0 {
		br := tx.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return fmt.Errorf("failed to insert lines for purchase %s: %w", m.PurchaseID, err)
		}
	}

	// Stock flows in; the floor never applies to increments.
	if len(commit.StockDeltas) > 0 {
		productIDs := make([]string, 0, len(commit.StockDeltas))
		for id := range commit.StockDeltas {
			productIDs = append(productIDs, id)
		}
		if _, err := r.productRepo.FindProductsByIDsForUpdate(ctx, tx, productIDs); err != nil {
			return fmt.Errorf("failed to lock products for purchase %s: %w", m.PurchaseID, err)
		}
		if err := r.productRepo.ApplyStockDeltasInTx(ctx, tx, commit.StockDeltas, false, commit.ActorID, commit.Now); err != nil {
			return err
		}
	}

	if commit.LedgerEntry != nil {
		if err := r.ledgerRepo.AppendEntryInTx(ctx, tx, *commit.LedgerEntry); err != nil {
			return err
		}
	}
	if commit.Payable != nil {
		pm := mapping.ToModelPayable(*commit.Payable)
		payableQuery := `
			INSERT INTO payables (payable_id, tenant_id, purchase_id, supplier_id, total_amount, remaining_amount, due_date, status, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
		`
		_, err := tx.Exec(ctx, payableQuery,
			pm.PayableID,
			pm.TenantID,
			pm.PurchaseID,
			pm.SupplierID,
			pm.TotalAmount,
			pm.RemainingAmount,
			pm.DueDate,
			pm.Status,
			pm.CreatedAt,
			pm.CreatedBy,
			pm.LastUpdatedAt,
			pm.LastUpdatedBy,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payable %s: %w", pm.PayableID, err)
		}
	}

	return r.Commit(ctx, tx)
}

// FindPurchaseByID retrieves a purchase header by its ID.
func (r *PgxPurchaseRepository) FindPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchases WHERE purchase_id = $1;`

	m, err := scanPurchase(r.Pool.QueryRow(ctx, query, purchaseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find purchase by ID %s: %w", purchaseID, err)
	}

	d := mapping.ToDomainPurchase(*m)
	return &d, nil
}

// FindPurchaseLines retrieves all lines of a purchase.
func (r *PgxPurchaseRepository) FindPurchaseLines(ctx context.Context, purchaseID string) ([]domain.PurchaseLine, error) {
	query := `SELECT ` + purchaseLineColumns + ` FROM purchase_lines WHERE purchase_id = $1 ORDER BY purchase_line_id;`

	rows, err := r.Pool.Query(ctx, query, purchaseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for purchase %s: %w", purchaseID, err)
	}
	defer rows.Close()

	lines := []models.PurchaseLine{}
	for rows.Next() {
		var m models.PurchaseLine
		err := rows.Scan(
			&m.PurchaseLineID,
			&m.PurchaseID,
			&m.ProductID,
			&m.ProductName,
			&m.UnitCost,
			&m.Quantity,
			&m.Subtotal,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line row for purchase %s: %w", purchaseID, err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows for purchase %s: %w", purchaseID, err)
	}

	return mapping.ToDomainPurchaseLineSlice(lines), nil
}

// ListPurchasesByTenant retrieves a paginated list of purchases using
// token-based keyset pagination.
func (r *PgxPurchaseRepository) ListPurchasesByTenant(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.Purchase, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + purchaseColumns + ` FROM purchases WHERE tenant_id = $1`
	orderByClause := `ORDER BY purchase_date DESC, created_at DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{tenantID}

	if nextToken != nil && *nextToken != "" {
		lastPurchaseDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		cursorClause := `AND (purchase_date, created_at) < ($2, $3)`
		args = append(args, lastPurchaseDate, lastCreatedAt)

		query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}

	if err != nil {
		return nil, nil, fmt.Errorf("failed to query purchases for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	purchases := make([]models.Purchase, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanPurchase(rows)
		if scanErr != nil {
			return nil, nil, fmt.Errorf("failed to scan purchase row for tenant %s: %w", tenantID, scanErr)
		}
		purchases = append(purchases, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating purchase rows for tenant %s: %w", tenantID, err)
	}

	var nextTokenVal *string
	results := purchases
	if len(purchases) > limit {
		last := purchases[limit-1]
		token := pagination.EncodeToken(last.PurchaseDate, last.CreatedAt)
		nextTokenVal = &token
		results = purchases[:limit]
	}

	domainPurchases := make([]domain.Purchase, len(results))
	for i, m := range results {
		domainPurchases[i] = mapping.ToDomainPurchase(m)
	}
	return domainPurchases, nextTokenVal, nil
}

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
)

type PgxSettlementRepository struct {
	BaseRepository
	ledgerRepo portsrepo.LedgerRepositoryFacade
}

// newPgxSettlementRepository creates a new repository for receivables,
// payables and payment applications.
func newPgxSettlementRepository(pool *pgxpool.Pool, ledgerRepo portsrepo.LedgerRepositoryFacade) portsrepo.SettlementRepositoryFacade {
	return &PgxSettlementRepository{
		BaseRepository: BaseRepository{Pool: pool},
		ledgerRepo:     ledgerRepo,
	}
}

// Ensure PgxSettlementRepository implements portsrepo.SettlementRepositoryFacade
var _ portsrepo.SettlementRepositoryFacade = (*PgxSettlementRepository)(nil)

const receivableColumns = `receivable_id, tenant_id, sale_id, customer_id, total_amount, remaining_amount, due_date, status, created_at, created_by, last_updated_at, last_updated_by`
const payableColumns = `payable_id, tenant_id, purchase_id, supplier_id, total_amount, remaining_amount, due_date, status, created_at, created_by, last_updated_at, last_updated_by`

func scanReceivable(row pgx.Row) (*models.Receivable, error) {
	var m models.Receivable
	err := row.Scan(
		&m.ReceivableID,
		&m.TenantID,
		&m.SaleID,
		&m.CustomerID,
		&m.TotalAmount,
		&m.RemainingAmount,
		&m.DueDate,
		&m.Status,
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

func scanPayable(row pgx.Row) (*models.Payable, error) {
	var m models.Payable
	err := row.Scan(
		&m.PayableID,
		&m.TenantID,
		&m.PurchaseID,
		&m.SupplierID,
		&m.TotalAmount,
		&m.RemainingAmount,
		&m.DueDate,
		&m.Status,
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

// FindReceivableByID retrieves a receivable by its ID.
func (r *PgxSettlementRepository) FindReceivableByID(ctx context.Context, receivableID string) (*domain.Receivable, error) {
	query := `SELECT ` + receivableColumns + ` FROM receivables WHERE receivable_id = $1;`

	m, err := scanReceivable(r.Pool.QueryRow(ctx, query, receivableID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find receivable by ID %s: %w", receivableID, err)
	}

	d := mapping.ToDomainReceivable(*m)
	return &d, nil
}

// FindReceivableBySaleID retrieves the receivable opened for a credit sale.
func (r *PgxSettlementRepository) FindReceivableBySaleID(ctx context.Context, saleID string) (*domain.Receivable, error) {
	query := `SELECT ` + receivableColumns + ` FROM receivables WHERE sale_id = $1;`

	m, err := scanReceivable(r.Pool.QueryRow(ctx, query, saleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find receivable for sale %s: %w", saleID, err)
	}

	d := mapping.ToDomainReceivable(*m)
	return &d, nil
}

// ListReceivables retrieves receivables for a tenant, optionally filtered by
// status, ordered by due date.
func (r *PgxSettlementRepository) ListReceivables(ctx context.Context, tenantID string, status *domain.SettlementStatus, limit int, offset int) ([]domain.Receivable, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + receivableColumns + ` FROM receivables WHERE tenant_id = $1`
	args := []interface{}{tenantID}
	if status != nil {
		args = append(args, string(*status))
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	args = append(args, limit, offset)
	query += ` ORDER BY due_date LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query receivables for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	receivables := []models.Receivable{}
	for rows.Next() {
		m, err := scanReceivable(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan receivable row for tenant %s: %w", tenantID, err)
		}
		receivables = append(receivables, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating receivable rows for tenant %s: %w", tenantID, err)
	}

	return mapping.ToDomainReceivableSlice(receivables), nil
}

// FindPayableByID retrieves a payable by its ID.
func (r *PgxSettlementRepository) FindPayableByID(ctx context.Context, payableID string) (*domain.Payable, error) {
	query := `SELECT ` + payableColumns + ` FROM payables WHERE payable_id = $1;`

	m, err := scanPayable(r.Pool.QueryRow(ctx, query, payableID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payable by ID %s: %w", payableID, err)
	}

	d := mapping.ToDomainPayable(*m)
	return &d, nil
}

// FindPayableByPurchaseID retrieves the payable opened for a credit purchase.
func (r *PgxSettlementRepository) FindPayableByPurchaseID(ctx context.Context, purchaseID string) (*domain.Payable, error) {
	query := `SELECT ` + payableColumns + ` FROM payables WHERE purchase_id = $1;`

	m, err := scanPayable(r.Pool.QueryRow(ctx, query, purchaseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find payable for purchase %s: %w", purchaseID, err)
	}

	d := mapping.ToDomainPayable(*m)
	return &d, nil
}

// ListPayables retrieves payables for a tenant, optionally filtered by
// status, ordered by due date.
func (r *PgxSettlementRepository) ListPayables(ctx context.Context, tenantID string, status *domain.SettlementStatus, limit int, offset int) ([]domain.Payable, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + payableColumns + ` FROM payables WHERE tenant_id = $1`
	args := []interface{}{tenantID}
	if status != nil {
		args = append(args, string(*status))
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	args = append(args, limit, offset)
	query += ` ORDER BY due_date LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payables for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	payables := []models.Payable{}
	for rows.Next() {
		m, err := scanPayable(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payable row for tenant %s: %w", tenantID, err)
		}
		payables = append(payables, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payable rows for tenant %s: %w", tenantID, err)
	}

	return mapping.ToDomainPayableSlice(payables), nil
}

// ApplyReceivablePayment locks the receivable, re-checks the state and amount
// under lock, reduces the remaining amount, flips the status to PAID exactly
// at zero (settling the linked sale and realizing any pending commission),
// and appends the cash IN entry, all in one transaction.
func (r *PgxSettlementRepository) ApplyReceivablePayment(ctx context.Context, commit portsrepo.PaymentCommit) (*domain.Receivable, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	lockQuery := `SELECT ` + receivableColumns + ` FROM receivables WHERE receivable_id = $1 AND tenant_id = $2 FOR UPDATE;`
	m, err := scanReceivable(tx.QueryRow(ctx, lockQuery, commit.TargetID, commit.TenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: receivable %s", apperrors.ErrNotFound, commit.TargetID)
		}
		return nil, fmt.Errorf("failed to lock receivable %s: %w", commit.TargetID, err)
	}

	if domain.SettlementStatus(m.Status) != domain.SettlementOpen {
		return nil, fmt.Errorf("%w: receivable %s is %s", apperrors.ErrInvalidState, commit.TargetID, m.Status)
	}
	if commit.Amount.GreaterThan(m.RemainingAmount) {
		return nil, fmt.Errorf("%w: payment %s exceeds remaining %s", apperrors.ErrOverPayment, commit.Amount.String(), m.RemainingAmount.String())
	}

	newRemaining := m.RemainingAmount.Sub(commit.Amount)
	newStatus := domain.SettlementOpen
	if newRemaining.IsZero() {
		newStatus = domain.SettlementPaid
	}

	updateQuery := `
		UPDATE receivables
		SET remaining_amount = $2, status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE receivable_id = $1;
	`
	if _, err := tx.Exec(ctx, updateQuery, commit.TargetID, newRemaining, newStatus, commit.Now, commit.ActorID); err != nil {
		return nil, fmt.Errorf("failed to update receivable %s: %w", commit.TargetID, err)
	}

	// Full collection settles the linked sale and realizes a pending
	// commission for it.
	if newStatus == domain.SettlementPaid {
		saleQuery := `
			UPDATE sales
			SET status = $2, last_updated_at = $3, last_updated_by = $4
			WHERE sale_id = $1 AND status = $5;
		`
		if _, err := tx.Exec(ctx, saleQuery, m.SaleID, domain.SalePaid, commit.Now, commit.ActorID, domain.SaleUnpaid); err != nil {
			return nil, fmt.Errorf("failed to settle sale %s: %w", m.SaleID, err)
		}

		commissionQuery := `
			UPDATE commissions
			SET status = $2, last_updated_at = $3, last_updated_by = $4
			WHERE sale_id = $1 AND status = $5;
		`
		if _, err := tx.Exec(ctx, commissionQuery, m.SaleID, domain.CommissionPaid, commit.Now, commit.ActorID, domain.CommissionPending); err != nil {
			return nil, fmt.Errorf("failed to realize commission for sale %s: %w", m.SaleID, err)
		}
	}

	if err := r.ledgerRepo.AppendEntryInTx(ctx, tx, commit.LedgerEntry); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	m.RemainingAmount = newRemaining
	m.Status = string(newStatus)
	m.LastUpdatedAt = commit.Now
	m.LastUpdatedBy = commit.ActorID
	d := mapping.ToDomainReceivable(*m)
	return &d, nil
}

// ApplyPayablePayment is the supplier-side mirror of ApplyReceivablePayment:
// cash flows OUT and the purchase flips to PAID when the payable hits zero.
func (r *PgxSettlementRepository) ApplyPayablePayment(ctx context.Context, commit portsrepo.PaymentCommit) (*domain.Payable, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	lockQuery := `SELECT ` + payableColumns + ` FROM payables WHERE payable_id = $1 AND tenant_id = $2 FOR UPDATE;`
	m, err := scanPayable(tx.QueryRow(ctx, lockQuery, commit.TargetID, commit.TenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: payable %s", apperrors.ErrNotFound, commit.TargetID)
		}
		return nil, fmt.Errorf("failed to lock payable %s: %w", commit.TargetID, err)
	}

	if domain.SettlementStatus(m.Status) != domain.SettlementOpen {
		return nil, fmt.Errorf("%w: payable %s is %s", apperrors.ErrInvalidState, commit.TargetID, m.Status)
	}
	if commit.Amount.GreaterThan(m.RemainingAmount) {
		return nil, fmt.Errorf("%w: payment %s exceeds remaining %s", apperrors.ErrOverPayment, commit.Amount.String(), m.RemainingAmount.String())
	}

	newRemaining := m.RemainingAmount.Sub(commit.Amount)
	newStatus := domain.SettlementOpen
	if newRemaining.IsZero() {
		newStatus = domain.SettlementPaid
	}

	updateQuery := `
		UPDATE payables
		SET remaining_amount = $2, status = $3, last_updated_at = $4, last_updated_by = $5
		WHERE payable_id = $1;
	`
	if _, err := tx.Exec(ctx, updateQuery, commit.TargetID, newRemaining, newStatus, commit.Now, commit.ActorID); err != nil {
		return nil, fmt.Errorf("failed to update payable %s: %w", commit.TargetID, err)
	}

	if newStatus == domain.SettlementPaid {
		purchaseQuery := `
			UPDATE purchases
			SET status = $2, last_updated_at = $3, last_updated_by = $4
			WHERE purchase_id = $1 AND status = $5;
		`
		if _, err := tx.Exec(ctx, purchaseQuery, m.PurchaseID, domain.PurchasePaid, commit.Now, commit.ActorID, domain.PurchaseUnpaid); err != nil {
			return nil, fmt.Errorf("failed to settle purchase %s: %w", m.PurchaseID, err)
		}
	}

	if err := r.ledgerRepo.AppendEntryInTx(ctx, tx, commit.LedgerEntry); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	m.RemainingAmount = newRemaining
	m.Status = string(newStatus)
	m.LastUpdatedAt = commit.Now
	m.LastUpdatedBy = commit.ActorID
	d := mapping.ToDomainPayable(*m)
	return &d, nil
}

package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mitrakasir/retail_backend_app/internal/apperrors"
	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	portsrepo "github.com/mitrakasir/retail_backend_app/internal/core/ports/repositories"
	"github.com/mitrakasir/retail_backend_app/internal/models"
	"github.com/mitrakasir/retail_backend_app/internal/utils/mapping"
)

type PgxCommissionRepository struct {
	BaseRepository
}

// newPgxCommissionRepository creates a new repository for commission data.
// Commissions are inserted by the shipment commit; this repository only reads
// and flips statuses.
func newPgxCommissionRepository(pool *pgxpool.Pool) portsrepo.CommissionRepositoryFacade {
	return &PgxCommissionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxCommissionRepository implements portsrepo.CommissionRepositoryFacade
var _ portsrepo.CommissionRepositoryFacade = (*PgxCommissionRepository)(nil)

const commissionColumns = `commission_id, tenant_id, sale_id, salesperson_id, rate_percent, amount, status, created_at, created_by, last_updated_at, last_updated_by`

func scanCommission(row pgx.Row) (*models.Commission, error) {
	var m models.Commission
	err := row.Scan(
		&m.CommissionID,
		&m.TenantID,
		&m.SaleID,
		&m.SalespersonID,
		&m.RatePercent,
		&m.Amount,
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

// FindCommissionByID retrieves a commission by its ID.
func (r *PgxCommissionRepository) FindCommissionByID(ctx context.Context, commissionID string) (*domain.Commission, error) {
	query := `SELECT ` + commissionColumns + ` FROM commissions WHERE commission_id = $1;`

	m, err := scanCommission(r.Pool.QueryRow(ctx, query, commissionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find commission by ID %s: %w", commissionID, err)
	}

	d := mapping.ToDomainCommission(*m)
	return &d, nil
}

// FindCommissionBySaleID retrieves the commission created for a sale, if any.
func (r *PgxCommissionRepository) FindCommissionBySaleID(ctx context.Context, saleID string) (*domain.Commission, error) {
	query := `SELECT ` + commissionColumns + ` FROM commissions WHERE sale_id = $1;`

	m, err := scanCommission(r.Pool.QueryRow(ctx, query, saleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find commission for sale %s: %w", saleID, err)
	}

	d := mapping.ToDomainCommission(*m)
	return &d, nil
}

// ListCommissions retrieves commissions for a tenant, optionally filtered by
// salesperson and status.
func (r *PgxCommissionRepository) ListCommissions(ctx context.Context, tenantID string, salespersonID *string, status *domain.CommissionStatus, limit int, offset int) ([]domain.Commission, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + commissionColumns + ` FROM commissions WHERE tenant_id = $1`
	args := []interface{}{tenantID}
	if salespersonID != nil {
		args = append(args, *salespersonID)
		query += ` AND salesperson_id = $` + strconv.Itoa(len(args))
	}
	if status != nil {
		args = append(args, string(*status))
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	args = append(args, limit, offset)
	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query commissions for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	commissions := []models.Commission{}
	for rows.Next() {
		m, err := scanCommission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan commission row for tenant %s: %w", tenantID, err)
		}
		commissions = append(commissions, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating commission rows for tenant %s: %w", tenantID, err)
	}

	return mapping.ToDomainCommissionSlice(commissions), nil
}

// UpdateCommissionStatus flips a commission's status.
func (r *PgxCommissionRepository) UpdateCommissionStatus(ctx context.Context, commissionID string, status domain.CommissionStatus, userID string, now time.Time) error {
	query := `
		UPDATE commissions
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE commission_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, commissionID, status, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update status for commission %s: %w", commissionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mitrakasir/retail_backend_app/internal/apperrors"
	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	portsrepo "github.com/mitrakasir/retail_backend_app/internal/core/ports/repositories"
	"github.com/mitrakasir/retail_backend_app/internal/models"
	"github.com/mitrakasir/retail_backend_app/internal/utils/mapping"
)

type PgxTenantRepository struct {
	BaseRepository
}

// newPgxTenantRepository creates a new repository for tenant and membership data.
func newPgxTenantRepository(pool *pgxpool.Pool) portsrepo.TenantRepositoryFacade {
	return &PgxTenantRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxTenantRepository implements portsrepo.TenantRepositoryFacade
var _ portsrepo.TenantRepositoryFacade = (*PgxTenantRepository)(nil)

const tenantColumns = `tenant_id, name, address, phone, is_active, created_at, created_by, last_updated_at, last_updated_by`

func scanTenant(row pgx.Row) (*models.Tenant, error) {
	var m models.Tenant
	err := row.Scan(
		&m.TenantID,
		&m.Name,
		&m.Address,
		&m.Phone,
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

// SaveTenant persists a new tenant together with its creator's admin
// membership in a single transaction. A tenant without at least one admin
// would be unreachable, so the two inserts stand or fall together.
func (r *PgxTenantRepository) SaveTenant(ctx context.Context, tenant domain.Tenant, creatorMembership domain.UserTenant) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelTenant(tenant)
	tenantQuery := `
		INSERT INTO tenants (tenant_id, name, address, phone, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.Exec(ctx, tenantQuery,
		m.TenantID,
		m.Name,
		m.Address,
		m.Phone,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: tenant with ID %s already exists", apperrors.ErrDuplicate, m.TenantID)
		}
		return fmt.Errorf("failed to insert tenant %s: %w", m.TenantID, err)
	}

	if err := insertMembership(ctx, tx, creatorMembership); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func insertMembership(ctx context.Context, tx pgx.Tx, membership domain.UserTenant) error {
	m := mapping.ToModelUserTenant(membership)
	query := `
		INSERT INTO user_tenants (user_id, tenant_id, role, cash_commission_rate, credit_commission_rate, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, tenant_id) DO UPDATE
		SET role = EXCLUDED.role,
		    cash_commission_rate = EXCLUDED.cash_commission_rate,
		    credit_commission_rate = EXCLUDED.credit_commission_rate;
	`
	_, err := tx.Exec(ctx, query,
		m.UserID,
		m.TenantID,
		m.Role,
		m.CashCommissionRate,
		m.CreditCommissionRate,
		m.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert membership for user %s in tenant %s: %w", m.UserID, m.TenantID, err)
	}
	return nil
}

// SaveMembership inserts or updates a user's membership.
func (r *PgxTenantRepository) SaveMembership(ctx context.Context, membership domain.UserTenant) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertMembership(ctx, tx, membership); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// FindTenantByID retrieves a tenant by its ID.
func (r *PgxTenantRepository) FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE tenant_id = $1;`

	m, err := scanTenant(r.Pool.QueryRow(ctx, query, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find tenant by ID %s: %w", tenantID, err)
	}

	d := mapping.ToDomainTenant(*m)
	return &d, nil
}

// FindUserTenant retrieves the membership of a user in a tenant, joined with
// the user's display name.
func (r *PgxTenantRepository) FindUserTenant(ctx context.Context, userID string, tenantID string) (*domain.UserTenant, error) {
	query := `
		SELECT ut.user_id, ut.tenant_id, ut.role, ut.cash_commission_rate, ut.credit_commission_rate, ut.joined_at, u.name
		FROM user_tenants ut
		JOIN users u ON ut.user_id = u.user_id
		WHERE ut.user_id = $1 AND ut.tenant_id = $2;
	`
	var m models.UserTenant
	var userName string
	err := r.Pool.QueryRow(ctx, query, userID, tenantID).Scan(
		&m.UserID,
		&m.TenantID,
		&m.Role,
		&m.CashCommissionRate,
		&m.CreditCommissionRate,
		&m.JoinedAt,
		&userName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find membership for user %s in tenant %s: %w", userID, tenantID, err)
	}

	d := mapping.ToDomainUserTenant(m)
	d.UserName = userName
	return &d, nil
}

// ListTenantsByUser retrieves all tenants the user is a member of.
func (r *PgxTenantRepository) ListTenantsByUser(ctx context.Context, userID string) ([]domain.Tenant, error) {
	query := `
		SELECT t.tenant_id, t.name, t.address, t.phone, t.is_active, t.created_at, t.created_by, t.last_updated_at, t.last_updated_by
		FROM tenants t
		JOIN user_tenants ut ON t.tenant_id = ut.tenant_id
		WHERE ut.user_id = $1 AND ut.role != 'REMOVED'
		ORDER BY t.name;
	`
	rows, err := r.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tenants for user %s: %w", userID, err)
	}
	defer rows.Close()

	tenants := []models.Tenant{}
	for rows.Next() {
		m, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant row for user %s: %w", userID, err)
		}
		tenants = append(tenants, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tenant rows for user %s: %w", userID, err)
	}

	return mapping.ToDomainTenantSlice(tenants), nil
}

// ListMembers retrieves all memberships of a tenant.
func (r *PgxTenantRepository) ListMembers(ctx context.Context, tenantID string) ([]domain.UserTenant, error) {
	query := `
		SELECT ut.user_id, ut.tenant_id, ut.role, ut.cash_commission_rate, ut.credit_commission_rate, ut.joined_at, u.name
		FROM user_tenants ut
		JOIN users u ON ut.user_id = u.user_id
		WHERE ut.tenant_id = $1 AND ut.role != 'REMOVED'
		ORDER BY u.name;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query members for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	members := []domain.UserTenant{}
	for rows.Next() {
		var m models.UserTenant
		var userName string
		err := rows.Scan(
			&m.UserID,
			&m.TenantID,
			&m.Role,
			&m.CashCommissionRate,
			&m.CreditCommissionRate,
			&m.JoinedAt,
			&userName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan membership row for tenant %s: %w", tenantID, err)
		}
		d := mapping.ToDomainUserTenant(m)
		d.UserName = userName
		members = append(members, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating membership rows for tenant %s: %w", tenantID, err)
	}

	return members, nil
}

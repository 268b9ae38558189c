package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mitrakasir/retail_backend_app/internal/apperrors"
	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	portsrepo "github.com/mitrakasir/retail_backend_app/internal/core/ports/repositories"
	"github.com/mitrakasir/retail_backend_app/internal/models"
	"github.com/mitrakasir/retail_backend_app/internal/utils/mapping"
	"github.com/mitrakasir/retail_backend_app/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for cash accounts and the
// append-only entry ledger.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

const cashAccountColumns = `cash_account_id, tenant_id, name, balance, is_active, created_at, created_by, last_updated_at, last_updated_by`
const ledgerEntryColumns = `entry_id, tenant_id, cash_account_id, occurred_at, amount, direction, memo, created_at, created_by, last_updated_at, last_updated_by`

func scanCashAccount(row pgx.Row) (*models.CashAccount, error) {
	var m models.CashAccount
	err := row.Scan(
		&m.CashAccountID,
		&m.TenantID,
		&m.Name,
		&m.Balance,
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

func scanLedgerEntry(row pgx.Row) (*models.LedgerEntry, error) {
	var m models.LedgerEntry
	err := row.Scan(
		&m.EntryID,
		&m.TenantID,
		&m.CashAccountID,
		&m.OccurredAt,
		&m.Amount,
		&m.Direction,
		&m.Memo,
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

// SaveCashAccount inserts a new cash account.
func (r *PgxLedgerRepository) SaveCashAccount(ctx context.Context, account domain.CashAccount) error {
	m := mapping.ToModelCashAccount(account)

	query := `
		INSERT INTO cash_accounts (cash_account_id, tenant_id, name, balance, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CashAccountID,
		m.TenantID,
		m.Name,
		m.Balance,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: cash account with ID %s already exists", apperrors.ErrDuplicate, m.CashAccountID)
		}
		return fmt.Errorf("failed to save cash account %s: %w", m.CashAccountID, err)
	}
	return nil
}

// FindCashAccountByID retrieves a cash account by its ID.
func (r *PgxLedgerRepository) FindCashAccountByID(ctx context.Context, cashAccountID string) (*domain.CashAccount, error) {
	query := `SELECT ` + cashAccountColumns + ` FROM cash_accounts WHERE cash_account_id = $1;`

	m, err := scanCashAccount(r.Pool.QueryRow(ctx, query, cashAccountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find cash account by ID %s: %w", cashAccountID, err)
	}

	d := mapping.ToDomainCashAccount(*m)
	return &d, nil
}

// ListCashAccounts retrieves all cash accounts for a tenant.
func (r *PgxLedgerRepository) ListCashAccounts(ctx context.Context, tenantID string) ([]domain.CashAccount, error) {
	query := `
		SELECT ` + cashAccountColumns + `
		FROM cash_accounts
		WHERE tenant_id = $1
		ORDER BY name;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cash accounts for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	accounts := []models.CashAccount{}
	for rows.Next() {
		m, err := scanCashAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cash account row for tenant %s: %w", tenantID, err)
		}
		accounts = append(accounts, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash account rows for tenant %s: %w", tenantID, err)
	}

	return mapping.ToDomainCashAccountSlice(accounts), nil
}

// AppendEntryInTx inserts a ledger entry and applies its signed amount to the
// locked cash account balance within the given transaction. The balance
// invariant (balance == signed sum of entries) holds because no other code
// path mutates the balance column.
func (r *PgxLedgerRepository) AppendEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.LedgerEntry) error {
	lockQuery := `SELECT balance FROM cash_accounts WHERE cash_account_id = $1 FOR UPDATE;`
	var balance decimal.Decimal
	if err := tx.QueryRow(ctx, lockQuery, entry.CashAccountID).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: cash account %s", apperrors.ErrNotFound, entry.CashAccountID)
		}
		return fmt.Errorf("failed to lock cash account %s: %w", entry.CashAccountID, err)
	}

	m := mapping.ToModelLedgerEntry(entry)
	insertQuery := `
		INSERT INTO ledger_entries (entry_id, tenant_id, cash_account_id, occurred_at, amount, direction, memo, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := tx.Exec(ctx, insertQuery,
		m.EntryID,
		m.TenantID,
		m.CashAccountID,
		m.OccurredAt,
		m.Amount,
		m.Direction,
		m.Memo,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert ledger entry %s: %w", m.EntryID, err)
	}

	updateQuery := `
		UPDATE cash_accounts
		SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE cash_account_id = $1;
	`
	if _, err := tx.Exec(ctx, updateQuery, entry.CashAccountID, entry.SignedAmount(), entry.CreatedAt, entry.CreatedBy); err != nil {
		return fmt.Errorf("failed to apply entry %s to cash account balance: %w", m.EntryID, err)
	}

	return nil
}

// AppendEntry inserts one ledger entry and applies it to the account balance
// in its own transaction.
func (r *PgxLedgerRepository) AppendEntry(ctx context.Context, entry domain.LedgerEntry) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := r.AppendEntryInTx(ctx, tx, entry); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// ListEntriesByCashAccount retrieves a paginated list of entries for a cash
// account using token-based keyset pagination ordered by occurrence time.
func (r *PgxLedgerRepository) ListEntriesByCashAccount(ctx context.Context, tenantID, cashAccountID string, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `
		SELECT ` + ledgerEntryColumns + `
		FROM ledger_entries
		WHERE cash_account_id = $1 AND tenant_id = $2
	`
	orderByClause := `ORDER BY occurred_at DESC, created_at DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{cashAccountID, tenantID}

	if nextToken != nil && *nextToken != "" {
		lastOccurredAt, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}

		cursorClause := `AND (occurred_at, created_at) < ($3, $4)`
		args = append(args, lastOccurredAt, lastCreatedAt)

		query := baseQuery + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}

	if err != nil {
		return nil, nil, fmt.Errorf("failed to query ledger entries for account %s: %w", cashAccountID, err)
	}
	defer rows.Close()

	entries := make([]models.LedgerEntry, 0, fetchLimit)
	for rows.Next() {
		m, err := scanLedgerEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan ledger entry row for account %s: %w", cashAccountID, err)
		}
		entries = append(entries, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating ledger entry rows for account %s: %w", cashAccountID, err)
	}

	var nextTokenVal *string
	results := entries
	if len(entries) > limit {
		last := entries[limit-1]
		token := pagination.EncodeToken(last.OccurredAt, last.CreatedAt)
		nextTokenVal = &token
		results = entries[:limit]
	}

	return mapping.ToDomainLedgerEntrySlice(results), nextTokenVal, nil
}

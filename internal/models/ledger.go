package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashAccount represents a cash account row with its persisted running balance.
type CashAccount struct {
	CashAccountID string          `db:"cash_account_id"`
	TenantID      string          `db:"tenant_id"`
	Name          string          `db:"name"`
	Balance       decimal.Decimal `db:"balance"`
	IsActive      bool            `db:"is_active"`
	AuditFields
}

// LedgerEntry represents one append-only cash movement row.
type LedgerEntry struct {
	EntryID       string          `db:"entry_id"`
	TenantID      string          `db:"tenant_id"`
	CashAccountID string          `db:"cash_account_id"`
	OccurredAt    time.Time       `db:"occurred_at"`
	Amount        decimal.Decimal `db:"amount"`
	Direction     string          `db:"direction"`
	Memo          string          `db:"memo"`
	AuditFields
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryDirection indicates whether a ledger entry adds to or subtracts from a cash account.
type EntryDirection string

const (
	DirectionIn  EntryDirection = "IN"
	DirectionOut EntryDirection = "OUT"
)

// CashAccount is a named pool of funds with a running balance. The balance
// equals the signed sum of all ledger entries recorded against it, enforced
// by construction: it is only ever mutated in the same transaction that
// appends an entry.
type CashAccount struct {
	CashAccountID string          `json:"cashAccountID"` // Primary Key (UUID)
	TenantID      string          `json:"tenantID"`      // FK -> tenants.tenant_id (NON-NULL)
	Name          string          `json:"name"`
	Balance       decimal.Decimal `json:"balance"`
	IsActive      bool            `json:"isActive"`
	AuditFields
}

// LedgerEntry is one append-only cash movement. Entries are created once and
// never mutated or deleted; corrections are new entries in the opposite
// direction with a memo referencing the original event.
type LedgerEntry struct {
	EntryID       string          `json:"entryID"`       // Primary Key (UUID)
	TenantID      string          `json:"tenantID"`      // FK -> tenants.tenant_id (NON-NULL)
	CashAccountID string          `json:"cashAccountID"` // FK -> cash_accounts.cash_account_id (NON-NULL)
	OccurredAt    time.Time       `json:"occurredAt"`
	Amount        decimal.Decimal `json:"amount"` // Always positive; sign carried by Direction
	Direction     EntryDirection  `json:"direction"`
	Memo          string          `json:"memo"`
	AuditFields
}

// SignedAmount returns the entry amount with the direction applied.
func (e LedgerEntry) SignedAmount() decimal.Decimal {
	if e.Direction == DirectionOut {
		return e.Amount.Neg()
	}
	return e.Amount
}

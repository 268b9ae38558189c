package mapping

import (
	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	"github.com/mitrakasir/retail_backend_app/internal/models"
)

// ToModelCashAccount converts a domain CashAccount to a model CashAccount
func ToModelCashAccount(d domain.CashAccount) models.CashAccount {
	return models.CashAccount{
		CashAccountID: d.CashAccountID,
		TenantID:      d.TenantID,
		Name:          d.Name,
		Balance:       d.Balance,
		IsActive:      d.IsActive,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCashAccount converts a model CashAccount to a domain CashAccount
func ToDomainCashAccount(m models.CashAccount) domain.CashAccount {
	return domain.CashAccount{
		CashAccountID: m.CashAccountID,
		TenantID:      m.TenantID,
		Name:          m.Name,
		Balance:       m.Balance,
		IsActive:      m.IsActive,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCashAccountSlice converts a slice of model CashAccounts to a slice of domain CashAccounts
func ToDomainCashAccountSlice(ms []models.CashAccount) []domain.CashAccount {
	ds := make([]domain.CashAccount, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCashAccount(m)
	}
	return ds
}

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	return models.LedgerEntry{
		EntryID:       d.EntryID,
		TenantID:      d.TenantID,
		CashAccountID: d.CashAccountID,
		OccurredAt:    d.OccurredAt,
		Amount:        d.Amount,
		Direction:     string(d.Direction),
		Memo:          d.Memo,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:       m.EntryID,
		TenantID:      m.TenantID,
		CashAccountID: m.CashAccountID,
		OccurredAt:    m.OccurredAt,
		Amount:        m.Amount,
		Direction:     domain.EntryDirection(m.Direction),
		Memo:          m.Memo,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLedgerEntrySlice converts a slice of model LedgerEntries to a slice of domain LedgerEntries
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}

package models

import "github.com/shopspring/decimal"

// Commission represents a commission row owed to a salesperson for one sale.
type Commission struct {
	CommissionID  string          `db:"commission_id"`
	TenantID      string          `db:"tenant_id"`
	SaleID        string          `db:"sale_id"`
	SalespersonID string          `db:"salesperson_id"`
	RatePercent   decimal.Decimal `db:"rate_percent"`
	Amount        decimal.Decimal `db:"amount"`
	Status        string          `db:"status"`
	AuditFields
}

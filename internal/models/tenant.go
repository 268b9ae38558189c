package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tenant represents a tenant (one business) row.
type Tenant struct {
	TenantID    string `db:"tenant_id"`
	Name        string `db:"name"`
	Address     string `db:"address"`
	Phone       string `db:"phone"`
	IsActive    bool   `db:"is_active"`
	AuditFields        // Embed common audit fields
}

// UserTenant represents a user's membership row within a tenant, including
// the per-payment-method commission rate table.
type UserTenant struct {
	UserID               string          `db:"user_id"`
	TenantID             string          `db:"tenant_id"`
	Role                 string          `db:"role"`
	CashCommissionRate   decimal.Decimal `db:"cash_commission_rate"`
	CreditCommissionRate decimal.Decimal `db:"credit_commission_rate"`
	JoinedAt             time.Time       `db:"joined_at"`
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tenant is the isolation boundary: every business entity below belongs to
// exactly one tenant and all queries are scoped by its ID.
type Tenant struct {
	TenantID    string `json:"tenantID"` // Primary Key (UUID)
	Name        string `json:"name"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	IsActive    bool   `json:"isActive"`
	AuditFields        // Embed common audit fields
}

// UserTenantRole defines the possible roles a user can have within a tenant.
type UserTenantRole string

const (
	RoleAdmin       UserTenantRole = "ADMIN"
	RoleSalesperson UserTenantRole = "SALESPERSON"
	RoleReadOnly    UserTenantRole = "READONLY"
	RoleRemoved     UserTenantRole = "REMOVED" // For users who have been removed from the tenant
)

// AtLeast reports whether this role satisfies the given minimum role.
// Ordering: ADMIN > SALESPERSON > READONLY. REMOVED satisfies nothing.
func (r UserTenantRole) AtLeast(min UserTenantRole) bool {
	rank := map[UserTenantRole]int{
		RoleReadOnly:    1,
		RoleSalesperson: 2,
		RoleAdmin:       3,
	}
	rr, ok := rank[r]
	if !ok {
		return false
	}
	mr, ok := rank[min]
	if !ok {
		return false
	}
	return rr >= mr
}

// UserTenant represents the membership of a User in a Tenant.
// Salesperson memberships carry the commission rate table used at ship time.
type UserTenant struct {
	UserID   string         `json:"userID"`   // FK -> users.user_id
	UserName string         `json:"userName"` // Name of the user
	TenantID string         `json:"tenantID"` // FK -> tenants.tenant_id
	Role     UserTenantRole `json:"role"`
	// Commission rates in percent, keyed by payment method at lookup time.
	CashCommissionRate   decimal.Decimal `json:"cashCommissionRate"`
	CreditCommissionRate decimal.Decimal `json:"creditCommissionRate"`
	JoinedAt             time.Time       `json:"joinedAt"`
}

// CommissionRateFor returns the commission rate for the given payment method.
// The rate table is a small strategy map rather than per-method field picking.
func (m UserTenant) CommissionRateFor(method PaymentMethod) decimal.Decimal {
	rates := map[PaymentMethod]decimal.Decimal{
		PaymentCash:   m.CashCommissionRate,
		PaymentCredit: m.CreditCommissionRate,
	}
	return rates[method]
}

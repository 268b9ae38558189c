package dto

import (
	"time"

	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTenantRequest creates a tenant; the creator becomes its admin.
type CreateTenantRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// AddMemberRequest adds or updates a user's membership in a tenant.
// Commission rates only matter for salesperson memberships.
type AddMemberRequest struct {
	UserID               string          `json:"userID" binding:"required"`
	Role                 string          `json:"role" binding:"required,oneof=ADMIN SALESPERSON READONLY REMOVED"`
	CashCommissionRate   decimal.Decimal `json:"cashCommissionRate"`
	CreditCommissionRate decimal.Decimal `json:"creditCommissionRate"`
}

// TenantResponse is the API shape of a tenant.
type TenantResponse struct {
	TenantID string `json:"tenantID"`
	Name     string `json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	IsActive bool   `json:"isActive"`
}

// MemberResponse is the API shape of a tenant membership.
type MemberResponse struct {
	UserID               string          `json:"userID"`
	UserName             string          `json:"userName"`
	Role                 string          `json:"role"`
	CashCommissionRate   decimal.Decimal `json:"cashCommissionRate"`
	CreditCommissionRate decimal.Decimal `json:"creditCommissionRate"`
	JoinedAt             time.Time       `json:"joinedAt"`
}

// ToTenantResponse converts a domain tenant to its API shape.
func ToTenantResponse(t *domain.Tenant) TenantResponse {
	return TenantResponse{
		TenantID: t.TenantID,
		Name:     t.Name,
		Address:  t.Address,
		Phone:    t.Phone,
		IsActive: t.IsActive,
	}
}

// ToMemberResponse converts a domain membership to its API shape.
func ToMemberResponse(m domain.UserTenant) MemberResponse {
	return MemberResponse{
		UserID:               m.UserID,
		UserName:             m.UserName,
		Role:                 string(m.Role),
		CashCommissionRate:   m.CashCommissionRate,
		CreditCommissionRate: m.CreditCommissionRate,
		JoinedAt:             m.JoinedAt,
	}
}

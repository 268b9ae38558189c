package mapping

import (
	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	"github.com/mitrakasir/retail_backend_app/internal/models"
)

// ToModelTenant converts a domain Tenant to a model Tenant
func ToModelTenant(d domain.Tenant) models.Tenant {
	return models.Tenant{
		TenantID:    d.TenantID,
		Name:        d.Name,
		Address:     d.Address,
		Phone:       d.Phone,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTenant converts a model Tenant to a domain Tenant
func ToDomainTenant(m models.Tenant) domain.Tenant {
	return domain.Tenant{
		TenantID:    m.TenantID,
		Name:        m.Name,
		Address:     m.Address,
		Phone:       m.Phone,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTenantSlice converts a slice of model Tenants to a slice of domain Tenants
func ToDomainTenantSlice(ms []models.Tenant) []domain.Tenant {
	ds := make([]domain.Tenant, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTenant(m)
	}
	return ds
}

// ToModelUserTenant converts a domain UserTenant membership to its model form.
// The domain UserName field is a join product and has no column of its own.
func ToModelUserTenant(d domain.UserTenant) models.UserTenant {
	return models.UserTenant{
		UserID:               d.UserID,
		TenantID:             d.TenantID,
		Role:                 string(d.Role),
		CashCommissionRate:   d.CashCommissionRate,
		CreditCommissionRate: d.CreditCommissionRate,
		JoinedAt:             d.JoinedAt,
	}
}

// ToDomainUserTenant converts a model UserTenant to a domain UserTenant
func ToDomainUserTenant(m models.UserTenant) domain.UserTenant {
	return domain.UserTenant{
		UserID:               m.UserID,
		TenantID:             m.TenantID,
		Role:                 domain.UserTenantRole(m.Role),
		CashCommissionRate:   m.CashCommissionRate,
		CreditCommissionRate: m.CreditCommissionRate,
		JoinedAt:             m.JoinedAt,
	}
}

package mapping

import (
	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	"github.com/mitrakasir/retail_backend_app/internal/models"
)

// ToModelCommission converts a domain Commission to a model Commission
func ToModelCommission(d domain.Commission) models.Commission {
	return models.Commission{
		CommissionID:  d.CommissionID,
		TenantID:      d.TenantID,
		SaleID:        d.SaleID,
		SalespersonID: d.SalespersonID,
		RatePercent:   d.RatePercent,
		Amount:        d.Amount,
		Status:        string(d.Status),
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCommission converts a model Commission to a domain Commission
func ToDomainCommission(m models.Commission) domain.Commission {
	return domain.Commission{
		CommissionID:  m.CommissionID,
		TenantID:      m.TenantID,
		SaleID:        m.SaleID,
		SalespersonID: m.SalespersonID,
		RatePercent:   m.RatePercent,
		Amount:        m.Amount,
		Status:        domain.CommissionStatus(m.Status),
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainCommissionSlice converts a slice of model Commissions to a slice of domain Commissions
func ToDomainCommissionSlice(ms []models.Commission) []domain.Commission {
	ds := make([]domain.Commission, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCommission(m)
	}
	return ds
}

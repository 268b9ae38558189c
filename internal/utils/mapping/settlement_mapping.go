package mapping

import (
	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	"github.com/mitrakasir/retail_backend_app/internal/models"
)

// ToModelReceivable converts a domain Receivable to a model Receivable
func ToModelReceivable(d domain.Receivable) models.Receivable {
	return models.Receivable{
		ReceivableID:    d.ReceivableID,
		TenantID:        d.TenantID,
		SaleID:          d.SaleID,
		CustomerID:      d.CustomerID,
		TotalAmount:     d.TotalAmount,
		RemainingAmount: d.RemainingAmount,
		DueDate:         d.DueDate,
		Status:          string(d.Status),
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainReceivable converts a model Receivable to a domain Receivable
func ToDomainReceivable(m models.Receivable) domain.Receivable {
	return domain.Receivable{
		ReceivableID:    m.ReceivableID,
		TenantID:        m.TenantID,
		SaleID:          m.SaleID,
		CustomerID:      m.CustomerID,
		TotalAmount:     m.TotalAmount,
		RemainingAmount: m.RemainingAmount,
		DueDate:         m.DueDate,
		Status:          domain.SettlementStatus(m.Status),
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainReceivableSlice converts a slice of model Receivables to a slice of domain Receivables
func ToDomainReceivableSlice(ms []models.Receivable) []domain.Receivable {
	ds := make([]domain.Receivable, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainReceivable(m)
	}
	return ds
}

// ToModelPayable converts a domain Payable to a model Payable
func ToModelPayable(d domain.Payable) models.Payable {
	return models.Payable{
		PayableID:       d.PayableID,
		TenantID:        d.TenantID,
		PurchaseID:      d.PurchaseID,
		SupplierID:      d.SupplierID,
		TotalAmount:     d.TotalAmount,
		RemainingAmount: d.RemainingAmount,
		DueDate:         d.DueDate,
		Status:          string(d.Status),
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayable converts a model Payable to a domain Payable
func ToDomainPayable(m models.Payable) domain.Payable {
	return domain.Payable{
		PayableID:       m.PayableID,
		TenantID:        m.TenantID,
		PurchaseID:      m.PurchaseID,
		SupplierID:      m.SupplierID,
		TotalAmount:     m.TotalAmount,
		RemainingAmount: m.RemainingAmount,
		DueDate:         m.DueDate,
		Status:          domain.SettlementStatus(m.Status),
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPayableSlice converts a slice of model Payables to a slice of domain Payables
func ToDomainPayableSlice(ms []models.Payable) []domain.Payable {
	ds := make([]domain.Payable, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPayable(m)
	}
	return ds
}

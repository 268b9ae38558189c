package mapping

import (
	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	"github.com/mitrakasir/retail_backend_app/internal/models"
)

// ToModelPurchase converts a domain Purchase to a model Purchase (header only).
func ToModelPurchase(d domain.Purchase) models.Purchase {
	return models.Purchase{
		PurchaseID:     d.PurchaseID,
		TenantID:       d.TenantID,
		SupplierID:     d.SupplierID,
		PaymentMethod:  string(d.PaymentMethod),
		CreditTermDays: d.CreditTermDays,
		Total:          d.Total,
		DueDate:        d.DueDate,
		Status:         string(d.Status),
		PurchaseDate:   d.PurchaseDate,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPurchase converts a model Purchase to a domain Purchase
func ToDomainPurchase(m models.Purchase) domain.Purchase {
	return domain.Purchase{
		PurchaseID:     m.PurchaseID,
		TenantID:       m.TenantID,
		SupplierID:     m.SupplierID,
		PaymentMethod:  domain.PaymentMethod(m.PaymentMethod),
		CreditTermDays: m.CreditTermDays,
		Total:          m.Total,
		DueDate:        m.DueDate,
		Status:         domain.PurchaseStatus(m.Status),
		PurchaseDate:   m.PurchaseDate,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelPurchaseLine converts a domain PurchaseLine to a model PurchaseLine
func ToModelPurchaseLine(d domain.PurchaseLine) models.PurchaseLine {
	return models.PurchaseLine{
		PurchaseLineID: d.PurchaseLineID,
		PurchaseID:     d.PurchaseID,
		ProductID:      d.ProductID,
		ProductName:    d.ProductName,
		UnitCost:       d.UnitCost,
		Quantity:       d.Quantity,
		Subtotal:       d.Subtotal,
	}
}

// ToDomainPurchaseLine converts a model PurchaseLine to a domain PurchaseLine
func ToDomainPurchaseLine(m models.PurchaseLine) domain.PurchaseLine {
	return domain.PurchaseLine{
		PurchaseLineID: m.PurchaseLineID,
		PurchaseID:     m.PurchaseID,
		ProductID:      m.ProductID,
		ProductName:    m.ProductName,
		UnitCost:       m.UnitCost,
		Quantity:       m.Quantity,
		Subtotal:       m.Subtotal,
	}
}

// ToDomainPurchaseLineSlice converts a slice of model PurchaseLines to a slice of domain PurchaseLines
func ToDomainPurchaseLineSlice(ms []models.PurchaseLine) []domain.PurchaseLine {
	ds := make([]domain.PurchaseLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPurchaseLine(m)
	}
	return ds
}

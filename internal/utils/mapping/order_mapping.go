package mapping

import (
	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	"github.com/mitrakasir/retail_backend_app/internal/models"
)

// ToModelOrder converts a domain Order to a model Order (header only; lines
// are mapped separately).
func ToModelOrder(d domain.Order) models.Order {
	return models.Order{
		OrderID:        d.OrderID,
		TenantID:       d.TenantID,
		SalespersonID:  d.SalespersonID,
		CustomerID:     d.CustomerID,
		PaymentMethod:  string(d.PaymentMethod),
		CreditTermDays: d.CreditTermDays,
		Status:         string(d.Status),
		Total:          d.Total,
		OrderDate:      d.OrderDate,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainOrder converts a model Order to a domain Order
func ToDomainOrder(m models.Order) domain.Order {
	return domain.Order{
		OrderID:        m.OrderID,
		TenantID:       m.TenantID,
		SalespersonID:  m.SalespersonID,
		CustomerID:     m.CustomerID,
		PaymentMethod:  domain.PaymentMethod(m.PaymentMethod),
		CreditTermDays: m.CreditTermDays,
		Status:         domain.OrderStatus(m.Status),
		Total:          m.Total,
		OrderDate:      m.OrderDate,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelOrderLine converts a domain OrderLine to a model OrderLine
func ToModelOrderLine(d domain.OrderLine) models.OrderLine {
	return models.OrderLine{
		LineID:      d.LineID,
		OrderID:     d.OrderID,
		Kind:        string(d.Kind),
		ProductID:   d.ProductID,
		ProductName: d.ProductName,
		UnitPrice:   d.UnitPrice,
		Quantity:    d.Quantity,
		Subtotal:    d.Subtotal,
	}
}

// ToDomainOrderLine converts a model OrderLine to a domain OrderLine
func ToDomainOrderLine(m models.OrderLine) domain.OrderLine {
	return domain.OrderLine{
		LineID:      m.LineID,
		OrderID:     m.OrderID,
		Kind:        domain.OrderLineKind(m.Kind),
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
		UnitPrice:   m.UnitPrice,
		Quantity:    m.Quantity,
		Subtotal:    m.Subtotal,
	}
}

// ToDomainOrderLineSlice converts a slice of model OrderLines to a slice of domain OrderLines
func ToDomainOrderLineSlice(ms []models.OrderLine) []domain.OrderLine {
	ds := make([]domain.OrderLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainOrderLine(m)
	}
	return ds
}

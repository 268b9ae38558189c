package mapping

import (
	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	"github.com/mitrakasir/retail_backend_app/internal/models"
)

// ToModelSale converts a domain Sale to a model Sale (header only).
func ToModelSale(d domain.Sale) models.Sale {
	return models.Sale{
		SaleID:        d.SaleID,
		TenantID:      d.TenantID,
		OrderID:       d.OrderID,
		CustomerID:    d.CustomerID,
		SalespersonID: d.SalespersonID,
		PaymentMethod: string(d.PaymentMethod),
		Total:         d.Total,
		DueDate:       d.DueDate,
		Status:        string(d.Status),
		SaleDate:      d.SaleDate,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainSale converts a model Sale to a domain Sale
func ToDomainSale(m models.Sale) domain.Sale {
	return domain.Sale{
		SaleID:        m.SaleID,
		TenantID:      m.TenantID,
		OrderID:       m.OrderID,
		CustomerID:    m.CustomerID,
		SalespersonID: m.SalespersonID,
		PaymentMethod: domain.PaymentMethod(m.PaymentMethod),
		Total:         m.Total,
		DueDate:       m.DueDate,
		Status:        domain.SaleStatus(m.Status),
		SaleDate:      m.SaleDate,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelSaleLine converts a domain SaleLine to a model SaleLine
func ToModelSaleLine(d domain.SaleLine) models.SaleLine {
	return models.SaleLine{
		SaleLineID:      d.SaleLineID,
		SaleID:          d.SaleID,
		ProductID:       d.ProductID,
		ProductName:     d.ProductName,
		CostPriceAtSale: d.CostPriceAtSale,
		SellPrice:       d.SellPrice,
		Quantity:        d.Quantity,
		Subtotal:        d.Subtotal,
		MarginPotential: d.MarginPotential,
	}
}

// ToDomainSaleLine converts a model SaleLine to a domain SaleLine
func ToDomainSaleLine(m models.SaleLine) domain.SaleLine {
	return domain.SaleLine{
		SaleLineID:      m.SaleLineID,
		SaleID:          m.SaleID,
		ProductID:       m.ProductID,
		ProductName:     m.ProductName,
		CostPriceAtSale: m.CostPriceAtSale,
		SellPrice:       m.SellPrice,
		Quantity:        m.Quantity,
		Subtotal:        m.Subtotal,
		MarginPotential: m.MarginPotential,
	}
}

// ToDomainSaleLineSlice converts a slice of model SaleLines to a slice of domain SaleLines
func ToDomainSaleLineSlice(ms []models.SaleLine) []domain.SaleLine {
	ds := make([]domain.SaleLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainSaleLine(m)
	}
	return ds
}

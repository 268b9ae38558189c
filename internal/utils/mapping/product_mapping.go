package mapping

import (
	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	"github.com/mitrakasir/retail_backend_app/internal/models"
)

// ToModelProduct converts a domain Product to a model Product
func ToModelProduct(d domain.Product) models.Product {
	return models.Product{
		ProductID:     d.ProductID,
		TenantID:      d.TenantID,
		SKU:           d.SKU,
		Name:          d.Name,
		Unit:          d.Unit,
		CostPrice:     d.CostPrice,
		SellPrice:     d.SellPrice,
		StockQuantity: d.StockQuantity,
		IsActive:      d.IsActive,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainProduct converts a model Product to a domain Product
func ToDomainProduct(m models.Product) domain.Product {
	return domain.Product{
		ProductID:     m.ProductID,
		TenantID:      m.TenantID,
		SKU:           m.SKU,
		Name:          m.Name,
		Unit:          m.Unit,
		CostPrice:     m.CostPrice,
		SellPrice:     m.SellPrice,
		StockQuantity: m.StockQuantity,
		IsActive:      m.IsActive,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainProductSlice converts a slice of model Products to a slice of domain Products
func ToDomainProductSlice(ms []models.Product) []domain.Product {
	ds := make([]domain.Product, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainProduct(m)
	}
	return ds
}

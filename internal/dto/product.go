package dto

import (
	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateProductRequest creates a catalog product.
type CreateProductRequest struct {
	SKU          string          `json:"sku" binding:"required"`
	Name         string          `json:"name" binding:"required"`
	Unit         string          `json:"unit"`
	CostPrice    decimal.Decimal `json:"costPrice"`
	SellPrice    decimal.Decimal `json:"sellPrice"`
	InitialStock decimal.Decimal `json:"initialStock"`
}

// UpdateProductRequest updates product master data (not stock).
type UpdateProductRequest struct {
	Name      *string          `json:"name,omitempty"`
	Unit      *string          `json:"unit,omitempty"`
	CostPrice *decimal.Decimal `json:"costPrice,omitempty"`
	SellPrice *decimal.Decimal `json:"sellPrice,omitempty"`
}

// AdjustStockRequest applies a signed manual stock correction.
type AdjustStockRequest struct {
	Delta         decimal.Decimal `json:"delta" binding:"required"`
	AllowNegative bool            `json:"allowNegative"`
	Reason        string          `json:"reason"`
}

// ProductResponse is the API shape of a product.
type ProductResponse struct {
	ProductID     string          `json:"productID"`
	TenantID      string          `json:"tenantID"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Unit          string          `json:"unit"`
	CostPrice     decimal.Decimal `json:"costPrice"`
	SellPrice     decimal.Decimal `json:"sellPrice"`
	StockQuantity decimal.Decimal `json:"stockQuantity"`
	IsActive      bool            `json:"isActive"`
}

// ToProductResponse converts a domain product to its API shape.
func ToProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ProductID:     p.ProductID,
		TenantID:      p.TenantID,
		SKU:           p.SKU,
		Name:          p.Name,
		Unit:          p.Unit,
		CostPrice:     p.CostPrice,
		SellPrice:     p.SellPrice,
		StockQuantity: p.StockQuantity,
		IsActive:      p.IsActive,
	}
}

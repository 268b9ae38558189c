package services

import (
	"context"

	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	"github.com/mitrakasir/retail_backend_app/internal/dto"
	"github.com/shopspring/decimal"
)

// ProductSvcFacade exposes product master data and the inventory adjuster.
type ProductSvcFacade interface {
	CreateProduct(ctx context.Context, tenantID string, req dto.CreateProductRequest, actorUserID string) (*domain.Product, error)
	GetProductByID(ctx context.Context, tenantID string, productID string, requestingUserID string) (*domain.Product, error)
	ListProducts(ctx context.Context, tenantID string, requestingUserID string, limit, offset int) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, tenantID string, productID string, req dto.UpdateProductRequest, actorUserID string) (*domain.Product, error)
	DeactivateProduct(ctx context.Context, tenantID string, productID string, actorUserID string) error

	// AdjustStock applies a signed stock delta. Decrements that would drive the
	// quantity negative fail with ErrInsufficientStock unless allowNegative is
	// set or the global allow-negative-stock policy is enabled.
	AdjustStock(ctx context.Context, tenantID string, productID string, delta decimal.Decimal, allowNegative bool, actorUserID string) (*domain.Product, error)
}

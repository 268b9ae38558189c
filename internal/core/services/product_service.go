package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mitrakasir/retail_backend_app/internal/apperrors"
	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	portsrepo "github.com/mitrakasir/retail_backend_app/internal/core/ports/repositories"
	portssvc "github.com/mitrakasir/retail_backend_app/internal/core/ports/services"
	"github.com/mitrakasir/retail_backend_app/internal/dto"
)

// productService implements the ProductSvcFacade interface
type productService struct {
	BaseService
	productRepo portsrepo.ProductRepositoryFacade
	tenantSvc   portssvc.TenantAuthorizerSvc
	// allowNegativeStock relaxes the stock floor globally (config driven);
	// individual adjustments can still opt in per call.
	allowNegativeStock bool
}

// NewProductService creates a new product service with the provided dependencies
func NewProductService(productRepo portsrepo.ProductRepositoryFacade, tenantSvc portssvc.TenantAuthorizerSvc, allowNegativeStock bool) portssvc.ProductSvcFacade {
	return &productService{
		productRepo:        productRepo,
		tenantSvc:          tenantSvc,
		allowNegativeStock: allowNegativeStock,
	}
}

// Ensure productService implements the ProductSvcFacade interface
var _ portssvc.ProductSvcFacade = (*productService)(nil)

// findTenantProduct fetches a product and verifies tenant ownership.
// Cross-tenant access is reported as NotFound to obscure existence.
func (s *productService) findTenantProduct(ctx context.Context, tenantID, productID string) (*domain.Product, error) {
	product, err := s.productRepo.FindProductByID(ctx, productID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find product by ID",
				slog.String("product_id", productID))
		}
		return nil, err
	}
	if product.TenantID != tenantID {
		s.LogWarn(ctx, "Product belongs to different tenant",
			slog.String("product_id", productID),
			slog.String("product_tenant", product.TenantID),
			slog.String("requested_tenant", tenantID))
		return nil, apperrors.ErrNotFound
	}
	return product, nil
}

// CreateProduct creates a new catalog product. Requires at least salesperson role.
func (s *productService) CreateProduct(ctx context.Context, tenantID string, req dto.CreateProductRequest, actorUserID string) (*domain.Product, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, actorUserID, tenantID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	if req.CostPrice.IsNegative() || req.SellPrice.IsNegative() {
		return nil, fmt.Errorf("%w: prices must not be negative", apperrors.ErrValidation)
	}
	if req.InitialStock.IsNegative() && !s.allowNegativeStock {
		return nil, fmt.Errorf("%w: initial stock must not be negative", apperrors.ErrValidation)
	}

	now := time.Now()
	product := domain.Product{
		ProductID:     uuid.NewString(),
		TenantID:      tenantID,
		SKU:           req.SKU,
		Name:          req.Name,
		Unit:          req.Unit,
		CostPrice:     req.CostPrice,
		SellPrice:     req.SellPrice,
		StockQuantity: req.InitialStock,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorUserID,
		},
	}

	if err := s.productRepo.SaveProduct(ctx, product); err != nil {
		s.LogError(ctx, err, "Failed to save product",
			slog.String("tenant_id", tenantID),
			slog.String("sku", req.SKU))
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	s.LogInfo(ctx, "Product created successfully",
		slog.String("product_id", product.ProductID),
		slog.String("tenant_id", tenantID))
	return &product, nil
}

// GetProductByID retrieves a single product.
func (s *productService) GetProductByID(ctx context.Context, tenantID string, productID string, requestingUserID string) (*domain.Product, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.findTenantProduct(ctx, tenantID, productID)
}

// ListProducts retrieves a paginated list of products for a tenant.
func (s *productService) ListProducts(ctx context.Context, tenantID string, requestingUserID string, limit, offset int) ([]domain.Product, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 20
	}
	products, err := s.productRepo.ListProducts(ctx, tenantID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list products",
			slog.String("tenant_id", tenantID))
		return nil, err
	}
	if products == nil {
		return []domain.Product{}, nil
	}
	return products, nil
}

// UpdateProduct updates product master data. Stock is never touched here; use
// AdjustStock for that.
func (s *productService) UpdateProduct(ctx context.Context, tenantID string, productID string, req dto.UpdateProductRequest, actorUserID string) (*domain.Product, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, actorUserID, tenantID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	product, err := s.findTenantProduct(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		product.Name = *req.Name
		updated = true
	}
	if req.Unit != nil {
		product.Unit = *req.Unit
		updated = true
	}
	if req.CostPrice != nil {
		if req.CostPrice.IsNegative() {
			return nil, fmt.Errorf("%w: cost price must not be negative", apperrors.ErrValidation)
		}
		product.CostPrice = *req.CostPrice
		updated = true
	}
	if req.SellPrice != nil {
		if req.SellPrice.IsNegative() {
			return nil, fmt.Errorf("%w: sell price must not be negative", apperrors.ErrValidation)
		}
		product.SellPrice = *req.SellPrice
		updated = true
	}

	if !updated {
		return product, nil
	}

	now := time.Now()
	product.LastUpdatedAt = now
	product.LastUpdatedBy = actorUserID

	if err := s.productRepo.UpdateProduct(ctx, *product); err != nil {
		s.LogError(ctx, err, "Failed to update product",
			slog.String("product_id", productID))
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.LogInfo(ctx, "Product updated successfully",
		slog.String("product_id", productID))
	return product, nil
}

// DeactivateProduct marks a product inactive. Inactive products cannot appear
// on new order lines but history referencing them stays intact.
func (s *productService) DeactivateProduct(ctx context.Context, tenantID string, productID string, actorUserID string) error {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, actorUserID, tenantID, domain.RoleAdmin); err != nil {
		return err
	}

	if _, err := s.findTenantProduct(ctx, tenantID, productID); err != nil {
		return err
	}

	if err := s.productRepo.DeactivateProduct(ctx, productID, actorUserID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to deactivate product",
			slog.String("product_id", productID))
		return fmt.Errorf("failed to deactivate product: %w", err)
	}

	s.LogInfo(ctx, "Product deactivated",
		slog.String("product_id", productID))
	return nil
}

// AdjustStock applies a signed manual stock correction atomically. The floor
// check is enforced unless the caller or global config allows negative stock.
func (s *productService) AdjustStock(ctx context.Context, tenantID string, productID string, delta decimal.Decimal, allowNegative bool, actorUserID string) (*domain.Product, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, actorUserID, tenantID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	if delta.IsZero() {
		return nil, fmt.Errorf("%w: stock delta must not be zero", apperrors.ErrValidation)
	}

	if _, err := s.findTenantProduct(ctx, tenantID, productID); err != nil {
		return nil, err
	}

	enforceFloor := !(allowNegative || s.allowNegativeStock)
	product, err := s.productRepo.AdjustStock(ctx, productID, delta, enforceFloor, actorUserID, time.Now())
	if err != nil {
		if errors.Is(err, apperrors.ErrInsufficientStock) {
			s.LogDebug(ctx, "Stock adjustment rejected by floor check",
				slog.String("product_id", productID),
				slog.String("delta", delta.String()))
			return nil, err
		}
		s.LogError(ctx, err, "Failed to adjust stock",
			slog.String("product_id", productID))
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}

	s.LogInfo(ctx, "Stock adjusted",
		slog.String("product_id", productID),
		slog.String("delta", delta.String()),
		slog.String("new_quantity", product.StockQuantity.String()))
	return product, nil
}

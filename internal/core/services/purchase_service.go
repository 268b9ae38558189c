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

// purchaseService records received purchases: the mirror of the ship flow,
// with stock flowing in and cash flowing out (or a payable opening).
type purchaseService struct {
	BaseService
	purchaseRepo portsrepo.PurchaseRepositoryFacade
	supplierRepo portsrepo.SupplierReader
	productRepo  portsrepo.ProductReader
	ledgerRepo   portsrepo.CashAccountReader
	tenantSvc    portssvc.TenantAuthorizerSvc
}

// NewPurchaseService creates a new purchase service with the provided dependencies
func NewPurchaseService(
	purchaseRepo portsrepo.PurchaseRepositoryFacade,
	supplierRepo portsrepo.SupplierReader,
	productRepo portsrepo.ProductReader,
	ledgerRepo portsrepo.CashAccountReader,
	tenantSvc portssvc.TenantAuthorizerSvc,
) portssvc.PurchaseSvcFacade {
	return &purchaseService{
		purchaseRepo: purchaseRepo,
		supplierRepo: supplierRepo,
		productRepo:  productRepo,
		ledgerRepo:   ledgerRepo,
		tenantSvc:    tenantSvc,
	}
}

// Ensure purchaseService implements the PurchaseSvcFacade interface
var _ portssvc.PurchaseSvcFacade = (*purchaseService)(nil)

// CreatePurchase validates and commits a received purchase atomically:
// header plus lines, per-line stock increments, and either a cash OUT ledger
// entry (cash purchase, status PAID) or a payable (credit purchase, UNPAID).
func (s *purchaseService) CreatePurchase(ctx context.Context, tenantID string, req dto.CreatePurchaseRequest, actorUserID string) (*domain.Purchase, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, actorUserID, tenantID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	supplier, err := s.supplierRepo.FindSupplierByID(ctx, req.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to find supplier %s: %w", req.SupplierID, err)
	}
	if supplier.TenantID != tenantID {
		return nil, apperrors.ErrNotFound
	}

	productIDs := make([]string, 0, len(req.Lines))
	for _, lr := range req.Lines {
		if !lr.Quantity.IsPositive() {
			return nil, fmt.Errorf("%w: line quantity must be positive", apperrors.ErrValidation)
		}
		if lr.UnitCost.IsNegative() {
			return nil, fmt.Errorf("%w: unit cost must not be negative", apperrors.ErrValidation)
		}
		productIDs = append(productIDs, lr.ProductID)
	}

	products, err := s.productRepo.FindProductsByIDs(ctx, productIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch products for purchase",
			slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	now := time.Now()
	purchaseID := uuid.NewString()

	lines := make([]domain.PurchaseLine, 0, len(req.Lines))
	stockDeltas := make(map[string]decimal.Decimal)
	total := decimal.Zero
	for _, lr := range req.Lines {
		product, found := products[lr.ProductID]
		if !found || product.TenantID != tenantID {
			return nil, fmt.Errorf("%w: ID %s", apperrors.ErrProductNotFound, lr.ProductID)
		}
		subtotal := lr.UnitCost.Mul(lr.Quantity)
		lines = append(lines, domain.PurchaseLine{
			PurchaseLineID: uuid.NewString(),
			PurchaseID:     purchaseID,
			ProductID:      lr.ProductID,
			ProductName:    product.Name,
			UnitCost:       lr.UnitCost,
			Quantity:       lr.Quantity,
			Subtotal:       subtotal,
		})
		stockDeltas[lr.ProductID] = stockDeltas[lr.ProductID].Add(lr.Quantity)
		total = total.Add(subtotal)
	}

	purchase := domain.Purchase{
		PurchaseID:     purchaseID,
		TenantID:       tenantID,
		SupplierID:     req.SupplierID,
		PaymentMethod:  domain.PaymentMethod(req.PaymentMethod),
		CreditTermDays: req.CreditTermDays,
		Total:          total,
		PurchaseDate:   now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorUserID,
		},
	}

	commit := portsrepo.PurchaseCommit{
		Lines:       lines,
		StockDeltas: stockDeltas,
		ActorID:     actorUserID,
		Now:         now,
	}

	switch purchase.PaymentMethod {
	case domain.PaymentCash:
		if req.CashAccountID == nil || *req.CashAccountID == "" {
			return nil, apperrors.ErrMissingCashAccount
		}
		account, err := s.ledgerRepo.FindCashAccountByID(ctx, *req.CashAccountID)
		if err != nil {
			return nil, fmt.Errorf("failed to find cash account %s: %w", *req.CashAccountID, err)
		}
		if account.TenantID != tenantID {
			return nil, apperrors.ErrTenantMismatch
		}

		purchase.Status = domain.PurchasePaid
		if total.IsPositive() {
			commit.LedgerEntry = &domain.LedgerEntry{
				EntryID:       uuid.NewString(),
				TenantID:      tenantID,
				CashAccountID: account.CashAccountID,
				OccurredAt:    now,
				Amount:        total,
				Direction:     domain.DirectionOut,
				Memo:          fmt.Sprintf("Purchase %s from %s", purchaseID, supplier.Name),
				AuditFields: domain.AuditFields{
					CreatedAt:     now,
					CreatedBy:     actorUserID,
					LastUpdatedAt: now,
					LastUpdatedBy: actorUserID,
				},
			}
		}

	case domain.PaymentCredit:
		dueDate := now.AddDate(0, 0, req.CreditTermDays)
		purchase.Status = domain.PurchaseUnpaid
		purchase.DueDate = &dueDate
		commit.Payable = &domain.Payable{
			PayableID:       uuid.NewString(),
			TenantID:        tenantID,
			PurchaseID:      purchaseID,
			SupplierID:      req.SupplierID,
			TotalAmount:     total,
			RemainingAmount: total,
			DueDate:         dueDate,
			Status:          domain.SettlementOpen,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorUserID,
			},
		}

	default:
		return nil, fmt.Errorf("%w: unknown payment method %q", apperrors.ErrValidation, req.PaymentMethod)
	}

	commit.Purchase = purchase

	if err := s.purchaseRepo.CommitPurchase(ctx, commit); err != nil {
		s.LogError(ctx, err, "Failed to commit purchase",
			slog.String("purchase_id", purchaseID))
		return nil, fmt.Errorf("failed to commit purchase: %w", err)
	}

	purchase.Lines = lines
	s.LogInfo(ctx, "Purchase recorded",
		slog.String("purchase_id", purchaseID),
		slog.String("supplier_id", req.SupplierID),
		slog.String("total", total.String()))
	return &purchase, nil
}

// GetPurchase retrieves a purchase with its lines.
func (s *purchaseService) GetPurchase(ctx context.Context, tenantID string, purchaseID string, requestingUserID string) (*domain.Purchase, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	purchase, err := s.purchaseRepo.FindPurchaseByID(ctx, purchaseID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find purchase by ID",
				slog.String("purchase_id", purchaseID))
		}
		return nil, err
	}
	if purchase.TenantID != tenantID {
		s.LogWarn(ctx, "Purchase belongs to different tenant",
			slog.String("purchase_id", purchaseID),
			slog.String("requested_tenant", tenantID))
		return nil, apperrors.ErrNotFound
	}

	lines, err := s.purchaseRepo.FindPurchaseLines(ctx, purchaseID)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch purchase lines",
			slog.String("purchase_id", purchaseID))
		return nil, fmt.Errorf("failed to retrieve purchase lines: %w", err)
	}
	purchase.Lines = lines
	return purchase, nil
}

// ListPurchases retrieves a page of purchases using token pagination.
func (s *purchaseService) ListPurchases(ctx context.Context, tenantID string, requestingUserID string, params dto.ListPurchasesParams) (*dto.ListPurchasesResponse, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	purchases, nextToken, err := s.purchaseRepo.ListPurchasesByTenant(ctx, tenantID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list purchases",
			slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to retrieve purchases: %w", err)
	}

	responses := make([]dto.PurchaseResponse, len(purchases))
	for i := range purchases {
		responses[i] = dto.ToPurchaseResponse(&purchases[i])
	}

	return &dto.ListPurchasesResponse{
		Purchases: responses,
		NextToken: nextToken,
	}, nil
}

package services

import (
	"context"

	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	"github.com/mitrakasir/retail_backend_app/internal/dto"
)

// PurchaseSvcFacade records received purchases (the mirror of the ship flow:
// stock in, cash out or payable opened).
type PurchaseSvcFacade interface {
	CreatePurchase(ctx context.Context, tenantID string, req dto.CreatePurchaseRequest, actorUserID string) (*domain.Purchase, error)
	GetPurchase(ctx context.Context, tenantID string, purchaseID string, requestingUserID string) (*domain.Purchase, error)
	ListPurchases(ctx context.Context, tenantID string, requestingUserID string, params dto.ListPurchasesParams) (*dto.ListPurchasesResponse, error)
}

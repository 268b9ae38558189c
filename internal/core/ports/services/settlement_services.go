package services

import (
	"context"

	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	"github.com/mitrakasir/retail_backend_app/internal/dto"
)

// SettlementSvcFacade amortizes receivables and payables.
type SettlementSvcFacade interface {
	GetReceivable(ctx context.Context, tenantID string, receivableID string, requestingUserID string) (*domain.Receivable, error)
	ListReceivables(ctx context.Context, tenantID string, requestingUserID string, params dto.ListSettlementsParams) ([]domain.Receivable, error)
	ApplyReceivablePayment(ctx context.Context, tenantID string, receivableID string, req dto.ApplyPaymentRequest, actorUserID string) (*domain.Receivable, error)

	GetPayable(ctx context.Context, tenantID string, payableID string, requestingUserID string) (*domain.Payable, error)
	ListPayables(ctx context.Context, tenantID string, requestingUserID string, params dto.ListSettlementsParams) ([]domain.Payable, error)
	ApplyPayablePayment(ctx context.Context, tenantID string, payableID string, req dto.ApplyPaymentRequest, actorUserID string) (*domain.Payable, error)
}

// CommissionSvcFacade exposes recorded commissions.
type CommissionSvcFacade interface {
	GetCommission(ctx context.Context, tenantID string, commissionID string, requestingUserID string) (*domain.Commission, error)
	ListCommissions(ctx context.Context, tenantID string, requestingUserID string, params dto.ListCommissionsParams) ([]domain.Commission, error)
	MarkCommissionPaid(ctx context.Context, tenantID string, commissionID string, adminUserID string) error
}

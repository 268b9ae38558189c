package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mitrakasir/retail_backend_app/internal/apperrors"
	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	portsrepo "github.com/mitrakasir/retail_backend_app/internal/core/ports/repositories"
	portssvc "github.com/mitrakasir/retail_backend_app/internal/core/ports/services"
	"github.com/mitrakasir/retail_backend_app/internal/dto"
)

// settlementService amortizes receivables and payables through payment events.
type settlementService struct {
	BaseService
	settlementRepo portsrepo.SettlementRepositoryFacade
	ledgerRepo     portsrepo.CashAccountReader
	tenantSvc      portssvc.TenantAuthorizerSvc
}

// NewSettlementService creates a new settlement service with the provided dependencies
func NewSettlementService(
	settlementRepo portsrepo.SettlementRepositoryFacade,
	ledgerRepo portsrepo.CashAccountReader,
	tenantSvc portssvc.TenantAuthorizerSvc,
) portssvc.SettlementSvcFacade {
	return &settlementService{
		settlementRepo: settlementRepo,
		ledgerRepo:     ledgerRepo,
		tenantSvc:      tenantSvc,
	}
}

// Ensure settlementService implements the SettlementSvcFacade interface
var _ portssvc.SettlementSvcFacade = (*settlementService)(nil)

// validateCashAccount fetches the target cash account and checks tenant ownership.
func (s *settlementService) validateCashAccount(ctx context.Context, tenantID, cashAccountID string) (*domain.CashAccount, error) {
	account, err := s.ledgerRepo.FindCashAccountByID(ctx, cashAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find cash account %s: %w", cashAccountID, err)
	}
	if account.TenantID != tenantID {
		return nil, apperrors.ErrTenantMismatch
	}
	return account, nil
}

// GetReceivable retrieves a receivable.
func (s *settlementService) GetReceivable(ctx context.Context, tenantID string, receivableID string, requestingUserID string) (*domain.Receivable, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	receivable, err := s.settlementRepo.FindReceivableByID(ctx, receivableID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find receivable by ID",
				slog.String("receivable_id", receivableID))
		}
		return nil, err
	}
	if receivable.TenantID != tenantID {
		s.LogWarn(ctx, "Receivable belongs to different tenant",
			slog.String("receivable_id", receivableID),
			slog.String("requested_tenant", tenantID))
		return nil, apperrors.ErrNotFound
	}
	return receivable, nil
}

// ListReceivables retrieves receivables, optionally filtered by status.
func (s *settlementService) ListReceivables(ctx context.Context, tenantID string, requestingUserID string, params dto.ListSettlementsParams) ([]domain.Receivable, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	var status *domain.SettlementStatus
	if params.Status != nil {
		st := domain.SettlementStatus(*params.Status)
		status = &st
	}

	receivables, err := s.settlementRepo.ListReceivables(ctx, tenantID, status, limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list receivables",
			slog.String("tenant_id", tenantID))
		return nil, err
	}
	if receivables == nil {
		return []domain.Receivable{}, nil
	}
	return receivables, nil
}

// ApplyReceivablePayment applies one amortization payment against an open
// receivable. The amount must be positive and within the remaining balance;
// the payment, balance reduction, PAID flip at exactly zero (settling the
// linked sale and realizing any pending commission) and the cash IN entry
// happen in a single transaction.
func (s *settlementService) ApplyReceivablePayment(ctx context.Context, tenantID string, receivableID string, req dto.ApplyPaymentRequest, actorUserID string) (*domain.Receivable, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, actorUserID, tenantID, domain.RoleSalesperson); err != nil {
		return nil, err
	}

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", apperrors.ErrInvalidAmount, req.Amount.String())
	}

	receivable, err := s.GetReceivable(ctx, tenantID, receivableID, actorUserID)
	if err != nil {
		return nil, err
	}

	if receivable.Status != domain.SettlementOpen {
		return nil, fmt.Errorf("%w: receivable is %s", apperrors.ErrInvalidState, receivable.Status)
	}
	if req.Amount.GreaterThan(receivable.RemainingAmount) {
		return nil, fmt.Errorf("%w: payment %s exceeds remaining %s", apperrors.ErrOverPayment, req.Amount.String(), receivable.RemainingAmount.String())
	}

	account, err := s.validateCashAccount(ctx, tenantID, req.CashAccountID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	commit := portsrepo.PaymentCommit{
		TenantID: tenantID,
		TargetID: receivableID,
		Amount:   req.Amount,
		LedgerEntry: domain.LedgerEntry{
			EntryID:       uuid.NewString(),
			TenantID:      tenantID,
			CashAccountID: account.CashAccountID,
			OccurredAt:    now,
			Amount:        req.Amount,
			Direction:     domain.DirectionIn,
			Memo:          fmt.Sprintf("Receivable payment %s", receivableID),
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorUserID,
			},
		},
		ActorID: actorUserID,
		Now:     now,
	}

	updated, err := s.settlementRepo.ApplyReceivablePayment(ctx, commit)
	if err != nil {
		if errors.Is(err, apperrors.ErrOverPayment) || errors.Is(err, apperrors.ErrInvalidState) {
			// Lost a race against a concurrent payment; the locked re-check wins.
			return nil, err
		}
		s.LogError(ctx, err, "Failed to apply receivable payment",
			slog.String("receivable_id", receivableID))
		return nil, fmt.Errorf("failed to apply receivable payment: %w", err)
	}

	s.LogInfo(ctx, "Receivable payment applied",
		slog.String("receivable_id", receivableID),
		slog.String("amount", req.Amount.String()),
		slog.String("remaining", updated.RemainingAmount.String()))
	return updated, nil
}

// GetPayable retrieves a payable.
func (s *settlementService) GetPayable(ctx context.Context, tenantID string, payableID string, requestingUserID string) (*domain.Payable, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	payable, err := s.settlementRepo.FindPayableByID(ctx, payableID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find payable by ID",
				slog.String("payable_id", payableID))
		}
		return nil, err
	}
	if payable.TenantID != tenantID {
		s.LogWarn(ctx, "Payable belongs to different tenant",
			slog.String("payable_id", payableID),
			slog.String("requested_tenant", tenantID))
		return nil, apperrors.ErrNotFound
	}
	return payable, nil
}

// ListPayables retrieves payables, optionally filtered by status.
func (s *settlementService) ListPayables(ctx context.Context, tenantID string, requestingUserID string, params dto.ListSettlementsParams) ([]domain.Payable, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	var status *domain.SettlementStatus
	if params.Status != nil {
		st := domain.SettlementStatus(*params.Status)
		status = &st
	}

	payables, err := s.settlementRepo.ListPayables(ctx, tenantID, status, limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list payables",
			slog.String("tenant_id", tenantID))
		return nil, err
	}
	if payables == nil {
		return []domain.Payable{}, nil
	}
	return payables, nil
}

// ApplyPayablePayment is the supplier-side mirror of ApplyReceivablePayment:
// cash flows OUT and the purchase flips to PAID when the payable hits zero.
func (s *settlementService) ApplyPayablePayment(ctx context.Context, tenantID string, payableID string, req dto.ApplyPaymentRequest, actorUserID string) (*domain.Payable, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, actorUserID, tenantID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", apperrors.ErrInvalidAmount, req.Amount.String())
	}

	payable, err := s.GetPayable(ctx, tenantID, payableID, actorUserID)
	if err != nil {
		return nil, err
	}

	if payable.Status != domain.SettlementOpen {
		return nil, fmt.Errorf("%w: payable is %s", apperrors.ErrInvalidState, payable.Status)
	}
	if req.Amount.GreaterThan(payable.RemainingAmount) {
		return nil, fmt.Errorf("%w: payment %s exceeds remaining %s", apperrors.ErrOverPayment, req.Amount.String(), payable.RemainingAmount.String())
	}

	account, err := s.validateCashAccount(ctx, tenantID, req.CashAccountID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	commit := portsrepo.PaymentCommit{
		TenantID: tenantID,
		TargetID: payableID,
		Amount:   req.Amount,
		LedgerEntry: domain.LedgerEntry{
			EntryID:       uuid.NewString(),
			TenantID:      tenantID,
			CashAccountID: account.CashAccountID,
			OccurredAt:    now,
			Amount:        req.Amount,
			Direction:     domain.DirectionOut,
			Memo:          fmt.Sprintf("Payable payment %s", payableID),
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actorUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: actorUserID,
			},
		},
		ActorID: actorUserID,
		Now:     now,
	}

	updated, err := s.settlementRepo.ApplyPayablePayment(ctx, commit)
	if err != nil {
		if errors.Is(err, apperrors.ErrOverPayment) || errors.Is(err, apperrors.ErrInvalidState) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to apply payable payment",
			slog.String("payable_id", payableID))
		return nil, fmt.Errorf("failed to apply payable payment: %w", err)
	}

	s.LogInfo(ctx, "Payable payment applied",
		slog.String("payable_id", payableID),
		slog.String("amount", req.Amount.String()),
		slog.String("remaining", updated.RemainingAmount.String()))
	return updated, nil
}

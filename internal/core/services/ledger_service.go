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

// ledgerService implements the LedgerSvcFacade interface
type ledgerService struct {
	BaseService
	ledgerRepo portsrepo.LedgerRepositoryFacade
	tenantSvc  portssvc.TenantAuthorizerSvc
}

// NewLedgerService creates a new ledger service with the provided dependencies
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade, tenantSvc portssvc.TenantAuthorizerSvc) portssvc.LedgerSvcFacade {
	return &ledgerService{
		ledgerRepo: ledgerRepo,
		tenantSvc:  tenantSvc,
	}
}

// Ensure ledgerService implements the LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// CreateCashAccount creates a named cash account with a zero opening balance.
func (s *ledgerService) CreateCashAccount(ctx context.Context, tenantID string, req dto.CreateCashAccountRequest, actorUserID string) (*domain.CashAccount, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, actorUserID, tenantID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	now := time.Now()
	account := domain.CashAccount{
		CashAccountID: uuid.NewString(),
		TenantID:      tenantID,
		Name:          req.Name,
		IsActive:      true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorUserID,
		},
	}

	if err := s.ledgerRepo.SaveCashAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save cash account",
			slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save cash account: %w", err)
	}

	s.LogInfo(ctx, "Cash account created successfully",
		slog.String("cash_account_id", account.CashAccountID),
		slog.String("tenant_id", tenantID))
	return &account, nil
}

// GetCashAccountByID retrieves a cash account. Cross-tenant access is reported
// as NotFound to obscure existence.
func (s *ledgerService) GetCashAccountByID(ctx context.Context, tenantID string, cashAccountID string, requestingUserID string) (*domain.CashAccount, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	account, err := s.ledgerRepo.FindCashAccountByID(ctx, cashAccountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find cash account by ID",
				slog.String("cash_account_id", cashAccountID))
		}
		return nil, err
	}
	if account.TenantID != tenantID {
		s.LogWarn(ctx, "Cash account belongs to different tenant",
			slog.String("cash_account_id", cashAccountID),
			slog.String("requested_tenant", tenantID))
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

// ListCashAccounts retrieves all cash accounts of a tenant.
func (s *ledgerService) ListCashAccounts(ctx context.Context, tenantID string, requestingUserID string) ([]domain.CashAccount, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	accounts, err := s.ledgerRepo.ListCashAccounts(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list cash accounts",
			slog.String("tenant_id", tenantID))
		return nil, err
	}
	if accounts == nil {
		return []domain.CashAccount{}, nil
	}
	return accounts, nil
}

// RecordEntry validates and appends one cash movement. Validation order is
// fixed: amount, then direction, then account existence, then tenant match.
// The entry insert and balance mutation happen in one transaction.
func (s *ledgerService) RecordEntry(ctx context.Context, tenantID string, req dto.RecordEntryRequest, actorUserID string) (*domain.LedgerEntry, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, actorUserID, tenantID, domain.RoleSalesperson); err != nil {
		return nil, err
	}

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", apperrors.ErrInvalidAmount, req.Amount.String())
	}

	direction := domain.EntryDirection(req.Direction)
	if direction != domain.DirectionIn && direction != domain.DirectionOut {
		return nil, fmt.Errorf("%w: got %q", apperrors.ErrInvalidDirection, req.Direction)
	}

	account, err := s.ledgerRepo.FindCashAccountByID(ctx, req.CashAccountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find cash account for entry",
				slog.String("cash_account_id", req.CashAccountID))
		}
		return nil, err
	}
	if account.TenantID != tenantID {
		s.LogWarn(ctx, "Entry targets cash account of different tenant",
			slog.String("cash_account_id", req.CashAccountID),
			slog.String("account_tenant", account.TenantID),
			slog.String("requested_tenant", tenantID))
		return nil, apperrors.ErrTenantMismatch
	}

	now := time.Now()
	occurredAt := now
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	entry := domain.LedgerEntry{
		EntryID:       uuid.NewString(),
		TenantID:      tenantID,
		CashAccountID: req.CashAccountID,
		OccurredAt:    occurredAt,
		Amount:        req.Amount,
		Direction:     direction,
		Memo:          req.Memo,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorUserID,
		},
	}

	if err := s.ledgerRepo.AppendEntry(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to append ledger entry",
			slog.String("cash_account_id", req.CashAccountID))
		return nil, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	s.LogInfo(ctx, "Ledger entry recorded",
		slog.String("entry_id", entry.EntryID),
		slog.String("cash_account_id", req.CashAccountID),
		slog.String("direction", string(direction)),
		slog.String("amount", req.Amount.String()))
	return &entry, nil
}

// ListEntries retrieves a paginated page of entries for one cash account.
func (s *ledgerService) ListEntries(ctx context.Context, tenantID string, cashAccountID string, requestingUserID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	// Verify the account is visible to this tenant before listing.
	if _, err := s.GetCashAccountByID(ctx, tenantID, cashAccountID, requestingUserID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.ledgerRepo.ListEntriesByCashAccount(ctx, tenantID, cashAccountID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list ledger entries",
			slog.String("cash_account_id", cashAccountID))
		return nil, fmt.Errorf("failed to retrieve ledger entries: %w", err)
	}

	resp := &dto.ListEntriesResponse{
		Entries:   dto.ToLedgerEntryResponses(entries),
		NextToken: nextToken,
	}

	s.LogDebug(ctx, "Ledger entries listed",
		slog.Int("count", len(entries)),
		slog.String("cash_account_id", cashAccountID))
	return resp, nil
}

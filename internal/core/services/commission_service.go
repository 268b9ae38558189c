package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mitrakasir/retail_backend_app/internal/apperrors"
	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	portsrepo "github.com/mitrakasir/retail_backend_app/internal/core/ports/repositories"
	portssvc "github.com/mitrakasir/retail_backend_app/internal/core/ports/services"
	"github.com/mitrakasir/retail_backend_app/internal/dto"
)

// commissionService exposes recorded commissions. Commissions are created by
// the ship transition and reduced by returns; this service only reads them
// and handles the payout flip.
type commissionService struct {
	BaseService
	commissionRepo portsrepo.CommissionRepositoryFacade
	tenantSvc      portssvc.TenantAuthorizerSvc
}

// NewCommissionService creates a new commission service with the provided dependencies
func NewCommissionService(commissionRepo portsrepo.CommissionRepositoryFacade, tenantSvc portssvc.TenantAuthorizerSvc) portssvc.CommissionSvcFacade {
	return &commissionService{
		commissionRepo: commissionRepo,
		tenantSvc:      tenantSvc,
	}
}

// Ensure commissionService implements the CommissionSvcFacade interface
var _ portssvc.CommissionSvcFacade = (*commissionService)(nil)

func (s *commissionService) findTenantCommission(ctx context.Context, tenantID, commissionID string) (*domain.Commission, error) {
	comm, err := s.commissionRepo.FindCommissionByID(ctx, commissionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find commission by ID",
				slog.String("commission_id", commissionID))
		}
		return nil, err
	}
	if comm.TenantID != tenantID {
		s.LogWarn(ctx, "Commission belongs to different tenant",
			slog.String("commission_id", commissionID),
			slog.String("requested_tenant", tenantID))
		return nil, apperrors.ErrNotFound
	}
	return comm, nil
}

// GetCommission retrieves a single commission.
func (s *commissionService) GetCommission(ctx context.Context, tenantID string, commissionID string, requestingUserID string) (*domain.Commission, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.findTenantCommission(ctx, tenantID, commissionID)
}

// ListCommissions retrieves commissions, optionally filtered by salesperson
// and status.
func (s *commissionService) ListCommissions(ctx context.Context, tenantID string, requestingUserID string, params dto.ListCommissionsParams) ([]domain.Commission, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	var status *domain.CommissionStatus
	if params.Status != nil {
		st := domain.CommissionStatus(*params.Status)
		status = &st
	}

	commissions, err := s.commissionRepo.ListCommissions(ctx, tenantID, params.SalespersonID, status, limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list commissions",
			slog.String("tenant_id", tenantID))
		return nil, err
	}
	if commissions == nil {
		return []domain.Commission{}, nil
	}
	return commissions, nil
}

// MarkCommissionPaid flips a PENDING commission to PAID once the payout is
// made to the salesperson.
func (s *commissionService) MarkCommissionPaid(ctx context.Context, tenantID string, commissionID string, adminUserID string) error {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, adminUserID, tenantID, domain.RoleAdmin); err != nil {
		return err
	}

	comm, err := s.findTenantCommission(ctx, tenantID, commissionID)
	if err != nil {
		return err
	}

	if comm.Status != domain.CommissionPending {
		return fmt.Errorf("%w: commission is %s", apperrors.ErrInvalidState, comm.Status)
	}

	if err := s.commissionRepo.UpdateCommissionStatus(ctx, commissionID, domain.CommissionPaid, adminUserID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to mark commission paid",
			slog.String("commission_id", commissionID))
		return fmt.Errorf("failed to mark commission paid: %w", err)
	}

	s.LogInfo(ctx, "Commission marked paid",
		slog.String("commission_id", commissionID))
	return nil
}

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

// supplierService implements the SupplierSvcFacade interface
type supplierService struct {
	BaseService
	supplierRepo portsrepo.SupplierRepositoryFacade
	tenantSvc    portssvc.TenantAuthorizerSvc
}

// NewSupplierService creates a new supplier service with the provided dependencies
func NewSupplierService(supplierRepo portsrepo.SupplierRepositoryFacade, tenantSvc portssvc.TenantAuthorizerSvc) portssvc.SupplierSvcFacade {
	return &supplierService{
		supplierRepo: supplierRepo,
		tenantSvc:    tenantSvc,
	}
}

// Ensure supplierService implements the SupplierSvcFacade interface
var _ portssvc.SupplierSvcFacade = (*supplierService)(nil)

func (s *supplierService) findTenantSupplier(ctx context.Context, tenantID, supplierID string) (*domain.Supplier, error) {
	supplier, err := s.supplierRepo.FindSupplierByID(ctx, supplierID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find supplier by ID",
				slog.String("supplier_id", supplierID))
		}
		return nil, err
	}
	if supplier.TenantID != tenantID {
		s.LogWarn(ctx, "Supplier belongs to different tenant",
			slog.String("supplier_id", supplierID),
			slog.String("requested_tenant", tenantID))
		return nil, apperrors.ErrNotFound
	}
	return supplier, nil
}

// CreateSupplier creates a new supplier. Suppliers are admin-managed.
func (s *supplierService) CreateSupplier(ctx context.Context, tenantID string, req dto.CreatePartyRequest, actorUserID string) (*domain.Supplier, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, actorUserID, tenantID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	now := time.Now()
	supplier := domain.Supplier{
		SupplierID: uuid.NewString(),
		TenantID:   tenantID,
		Name:       req.Name,
		Phone:      req.Phone,
		Address:    req.Address,
		Notes:      req.Notes,
		IsActive:   true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorUserID,
		},
	}

	if err := s.supplierRepo.SaveSupplier(ctx, supplier); err != nil {
		s.LogError(ctx, err, "Failed to save supplier",
			slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save supplier: %w", err)
	}

	s.LogInfo(ctx, "Supplier created successfully",
		slog.String("supplier_id", supplier.SupplierID))
	return &supplier, nil
}

// GetSupplierByID retrieves a single supplier.
func (s *supplierService) GetSupplierByID(ctx context.Context, tenantID string, supplierID string, requestingUserID string) (*domain.Supplier, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.findTenantSupplier(ctx, tenantID, supplierID)
}

// ListSuppliers retrieves a paginated list of suppliers for a tenant.
func (s *supplierService) ListSuppliers(ctx context.Context, tenantID string, requestingUserID string, limit, offset int) ([]domain.Supplier, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 20
	}
	suppliers, err := s.supplierRepo.ListSuppliers(ctx, tenantID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list suppliers",
			slog.String("tenant_id", tenantID))
		return nil, err
	}
	if suppliers == nil {
		return []domain.Supplier{}, nil
	}
	return suppliers, nil
}

// UpdateSupplier updates supplier master data.
func (s *supplierService) UpdateSupplier(ctx context.Context, tenantID string, supplierID string, req dto.UpdatePartyRequest, actorUserID string) (*domain.Supplier, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, actorUserID, tenantID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	supplier, err := s.findTenantSupplier(ctx, tenantID, supplierID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		supplier.Name = *req.Name
		updated = true
	}
	if req.Phone != nil {
		supplier.Phone = *req.Phone
		updated = true
	}
	if req.Address != nil {
		supplier.Address = *req.Address
		updated = true
	}
	if req.Notes != nil {
		supplier.Notes = *req.Notes
		updated = true
	}

	if !updated {
		return supplier, nil
	}

	supplier.LastUpdatedAt = time.Now()
	supplier.LastUpdatedBy = actorUserID

	if err := s.supplierRepo.UpdateSupplier(ctx, *supplier); err != nil {
		s.LogError(ctx, err, "Failed to update supplier",
			slog.String("supplier_id", supplierID))
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}

	return supplier, nil
}

// DeactivateSupplier marks a supplier inactive.
func (s *supplierService) DeactivateSupplier(ctx context.Context, tenantID string, supplierID string, actorUserID string) error {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, actorUserID, tenantID, domain.RoleAdmin); err != nil {
		return err
	}

	if _, err := s.findTenantSupplier(ctx, tenantID, supplierID); err != nil {
		return err
	}

	if err := s.supplierRepo.DeactivateSupplier(ctx, supplierID, actorUserID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to deactivate supplier",
			slog.String("supplier_id", supplierID))
		return fmt.Errorf("failed to deactivate supplier: %w", err)
	}

	s.LogInfo(ctx, "Supplier deactivated",
		slog.String("supplier_id", supplierID))
	return nil
}

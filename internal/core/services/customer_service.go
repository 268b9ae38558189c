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

// customerService implements the CustomerSvcFacade interface
type customerService struct {
	BaseService
	customerRepo portsrepo.CustomerRepositoryFacade
	tenantSvc    portssvc.TenantAuthorizerSvc
}

// NewCustomerService creates a new customer service with the provided dependencies
func NewCustomerService(customerRepo portsrepo.CustomerRepositoryFacade, tenantSvc portssvc.TenantAuthorizerSvc) portssvc.CustomerSvcFacade {
	return &customerService{
		customerRepo: customerRepo,
		tenantSvc:    tenantSvc,
	}
}

// Ensure customerService implements the CustomerSvcFacade interface
var _ portssvc.CustomerSvcFacade = (*customerService)(nil)

func (s *customerService) findTenantCustomer(ctx context.Context, tenantID, customerID string) (*domain.Customer, error) {
	customer, err := s.customerRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find customer by ID",
				slog.String("customer_id", customerID))
		}
		return nil, err
	}
	if customer.TenantID != tenantID {
		s.LogWarn(ctx, "Customer belongs to different tenant",
			slog.String("customer_id", customerID),
			slog.String("requested_tenant", tenantID))
		return nil, apperrors.ErrNotFound
	}
	return customer, nil
}

// CreateCustomer creates a new customer. Salespeople may register customers.
func (s *customerService) CreateCustomer(ctx context.Context, tenantID string, req dto.CreatePartyRequest, actorUserID string) (*domain.Customer, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, actorUserID, tenantID, domain.RoleSalesperson); err != nil {
		return nil, err
	}

	now := time.Now()
	customer := domain.Customer{
		CustomerID: uuid.NewString(),
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

	if err := s.customerRepo.SaveCustomer(ctx, customer); err != nil {
		s.LogError(ctx, err, "Failed to save customer",
			slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}

	s.LogInfo(ctx, "Customer created successfully",
		slog.String("customer_id", customer.CustomerID))
	return &customer, nil
}

// GetCustomerByID retrieves a single customer.
func (s *customerService) GetCustomerByID(ctx context.Context, tenantID string, customerID string, requestingUserID string) (*domain.Customer, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}
	return s.findTenantCustomer(ctx, tenantID, customerID)
}

// ListCustomers retrieves a paginated list of customers for a tenant.
func (s *customerService) ListCustomers(ctx context.Context, tenantID string, requestingUserID string, limit, offset int) ([]domain.Customer, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = 20
	}
	customers, err := s.customerRepo.ListCustomers(ctx, tenantID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list customers",
			slog.String("tenant_id", tenantID))
		return nil, err
	}
	if customers == nil {
		return []domain.Customer{}, nil
	}
	return customers, nil
}

// UpdateCustomer updates customer master data.
func (s *customerService) UpdateCustomer(ctx context.Context, tenantID string, customerID string, req dto.UpdatePartyRequest, actorUserID string) (*domain.Customer, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, actorUserID, tenantID, domain.RoleSalesperson); err != nil {
		return nil, err
	}

	customer, err := s.findTenantCustomer(ctx, tenantID, customerID)
	if err != nil {
		return nil, err
	}

	updated := false
	if req.Name != nil {
		customer.Name = *req.Name
		updated = true
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
		updated = true
	}
	if req.Address != nil {
		customer.Address = *req.Address
		updated = true
	}
	if req.Notes != nil {
		customer.Notes = *req.Notes
		updated = true
	}

	if !updated {
		return customer, nil
	}

	customer.LastUpdatedAt = time.Now()
	customer.LastUpdatedBy = actorUserID

	if err := s.customerRepo.UpdateCustomer(ctx, *customer); err != nil {
		s.LogError(ctx, err, "Failed to update customer",
			slog.String("customer_id", customerID))
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	return customer, nil
}

// DeactivateCustomer marks a customer inactive.
func (s *customerService) DeactivateCustomer(ctx context.Context, tenantID string, customerID string, actorUserID string) error {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, actorUserID, tenantID, domain.RoleAdmin); err != nil {
		return err
	}

	if _, err := s.findTenantCustomer(ctx, tenantID, customerID); err != nil {
		return err
	}

	if err := s.customerRepo.DeactivateCustomer(ctx, customerID, actorUserID, time.Now()); err != nil {
		s.LogError(ctx, err, "Failed to deactivate customer",
			slog.String("customer_id", customerID))
		return fmt.Errorf("failed to deactivate customer: %w", err)
	}

	s.LogInfo(ctx, "Customer deactivated",
		slog.String("customer_id", customerID))
	return nil
}

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

// tenantService implements the TenantSvcFacade interface
type tenantService struct {
	BaseService
	tenantRepo portsrepo.TenantRepositoryFacade
	userRepo   portsrepo.UserReader
}

// NewTenantService creates a new tenant service with the provided dependencies
func NewTenantService(tenantRepo portsrepo.TenantRepositoryFacade, userRepo portsrepo.UserReader) portssvc.TenantSvcFacade {
	return &tenantService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
	}
}

// Ensure tenantService implements the TenantSvcFacade interface
var _ portssvc.TenantSvcFacade = (*tenantService)(nil)

// AuthorizeUserAction checks that the user holds at least minRole in the
// tenant and returns the membership. Non-members and removed members get
// ErrForbidden regardless of whether the tenant exists.
func (s *tenantService) AuthorizeUserAction(ctx context.Context, userID string, tenantID string, minRole domain.UserTenantRole) (*domain.UserTenant, error) {
	membership, err := s.tenantRepo.FindUserTenant(ctx, userID, tenantID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogDebug(ctx, "User not a member of tenant",
				slog.String("user_id", userID),
				slog.String("tenant_id", tenantID))
			return nil, apperrors.ErrForbidden
		}
		s.LogError(ctx, err, "Failed to find tenant membership",
			slog.String("user_id", userID),
			slog.String("tenant_id", tenantID))
		return nil, err
	}

	if !membership.Role.AtLeast(minRole) {
		s.LogDebug(ctx, "User does not have required role",
			slog.String("user_id", userID),
			slog.String("tenant_id", tenantID),
			slog.String("user_role", string(membership.Role)),
			slog.String("required_role", string(minRole)))
		return nil, apperrors.ErrForbidden
	}

	return membership, nil
}

// CreateTenant creates a new tenant and makes the creator its admin, atomically.
func (s *tenantService) CreateTenant(ctx context.Context, req dto.CreateTenantRequest, creatorUserID string) (*domain.Tenant, error) {
	creator, err := s.userRepo.FindUserByID(ctx, creatorUserID)
	if err != nil {
		s.LogError(ctx, err, "Failed to find creator for new tenant",
			slog.String("user_id", creatorUserID))
		return nil, err
	}

	now := time.Now()
	tenant := domain.Tenant{
		TenantID: uuid.NewString(),
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
		IsActive: true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	creatorMembership := domain.UserTenant{
		UserID:   creatorUserID,
		UserName: creator.Name,
		TenantID: tenant.TenantID,
		Role:     domain.RoleAdmin,
		JoinedAt: now,
	}

	if err := s.tenantRepo.SaveTenant(ctx, tenant, creatorMembership); err != nil {
		s.LogError(ctx, err, "Failed to save tenant",
			slog.String("tenant_id", tenant.TenantID))
		return nil, fmt.Errorf("failed to save tenant: %w", err)
	}

	s.LogInfo(ctx, "Tenant created successfully",
		slog.String("tenant_id", tenant.TenantID),
		slog.String("creator_id", creatorUserID))
	return &tenant, nil
}

// GetTenantByID retrieves a tenant; the requester must be at least a read-only member.
func (s *tenantService) GetTenantByID(ctx context.Context, tenantID string, requestingUserID string) (*domain.Tenant, error) {
	if _, err := s.AuthorizeUserAction(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	tenant, err := s.tenantRepo.FindTenantByID(ctx, tenantID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find tenant by ID",
				slog.String("tenant_id", tenantID))
		}
		return nil, err
	}
	return tenant, nil
}

// ListTenantsByUser retrieves all tenants the user belongs to.
func (s *tenantService) ListTenantsByUser(ctx context.Context, userID string) ([]domain.Tenant, error) {
	tenants, err := s.tenantRepo.ListTenantsByUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list tenants for user",
			slog.String("user_id", userID))
		return nil, err
	}
	if tenants == nil {
		return []domain.Tenant{}, nil
	}
	return tenants, nil
}

// AddMember adds or updates a user's membership. Only admins may manage members.
func (s *tenantService) AddMember(ctx context.Context, tenantID string, req dto.AddMemberRequest, actorUserID string) (*domain.UserTenant, error) {
	if _, err := s.AuthorizeUserAction(ctx, actorUserID, tenantID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	target, err := s.userRepo.FindUserByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogWarn(ctx, "Target user not found for membership",
				slog.String("target_user_id", req.UserID))
		}
		return nil, err
	}

	membership := domain.UserTenant{
		UserID:               target.UserID,
		UserName:             target.Name,
		TenantID:             tenantID,
		Role:                 domain.UserTenantRole(req.Role),
		CashCommissionRate:   req.CashCommissionRate,
		CreditCommissionRate: req.CreditCommissionRate,
		JoinedAt:             time.Now(),
	}

	if err := s.tenantRepo.SaveMembership(ctx, membership); err != nil {
		s.LogError(ctx, err, "Failed to save membership",
			slog.String("tenant_id", tenantID),
			slog.String("target_user_id", req.UserID))
		return nil, fmt.Errorf("failed to save membership: %w", err)
	}

	s.LogInfo(ctx, "Membership saved successfully",
		slog.String("tenant_id", tenantID),
		slog.String("target_user_id", req.UserID),
		slog.String("role", req.Role))
	return &membership, nil
}

// ListMembers retrieves all memberships of a tenant.
func (s *tenantService) ListMembers(ctx context.Context, tenantID string, requestingUserID string) ([]domain.UserTenant, error) {
	if _, err := s.AuthorizeUserAction(ctx, requestingUserID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	members, err := s.tenantRepo.ListMembers(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list tenant members",
			slog.String("tenant_id", tenantID))
		return nil, err
	}
	if members == nil {
		return []domain.UserTenant{}, nil
	}
	return members, nil
}

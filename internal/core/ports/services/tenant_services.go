package services

import (
	"context"

	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	"github.com/mitrakasir/retail_backend_app/internal/dto"
)

// TenantAuthorizerSvc is the narrow authorization dependency other services
// take: it checks that a user holds at least the given role in a tenant and
// returns the membership (which carries commission rates).
type TenantAuthorizerSvc interface {
	AuthorizeUserAction(ctx context.Context, userID string, tenantID string, minRole domain.UserTenantRole) (*domain.UserTenant, error)
}

// TenantSvcFacade exposes tenant and membership management.
type TenantSvcFacade interface {
	TenantAuthorizerSvc

	CreateTenant(ctx context.Context, req dto.CreateTenantRequest, creatorUserID string) (*domain.Tenant, error)
	GetTenantByID(ctx context.Context, tenantID string, requestingUserID string) (*domain.Tenant, error)
	ListTenantsByUser(ctx context.Context, userID string) ([]domain.Tenant, error)
	AddMember(ctx context.Context, tenantID string, req dto.AddMemberRequest, actorUserID string) (*domain.UserTenant, error)
	ListMembers(ctx context.Context, tenantID string, requestingUserID string) ([]domain.UserTenant, error)
}

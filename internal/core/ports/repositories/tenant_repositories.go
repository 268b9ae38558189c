package repositories

import (
	"context"

	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
)

// TenantReader defines read operations for tenant data
type TenantReader interface {
	// FindTenantByID retrieves a specific tenant by its unique identifier.
	FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error)

	// FindUserTenant retrieves the membership of a user in a tenant, if any.
	FindUserTenant(ctx context.Context, userID string, tenantID string) (*domain.UserTenant, error)

	// ListTenantsByUser retrieves all tenants the user is a member of.
	ListTenantsByUser(ctx context.Context, userID string) ([]domain.Tenant, error)

	// ListMembers retrieves all memberships of a tenant.
	ListMembers(ctx context.Context, tenantID string) ([]domain.UserTenant, error)
}

// TenantWriter defines write operations for tenant data
type TenantWriter interface {
	// SaveTenant persists a new tenant together with its creator's admin membership, atomically.
	SaveTenant(ctx context.Context, tenant domain.Tenant, creatorMembership domain.UserTenant) error

	// SaveMembership inserts or updates a user's membership (role, commission rates).
	SaveMembership(ctx context.Context, membership domain.UserTenant) error
}

// TenantRepositoryFacade combines all tenant-related repository interfaces
type TenantRepositoryFacade interface {
	TenantReader
	TenantWriter
}

package services

import (
	"context"

	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	"github.com/mitrakasir/retail_backend_app/internal/dto"
)

// CustomerSvcFacade exposes customer master data operations.
type CustomerSvcFacade interface {
	CreateCustomer(ctx context.Context, tenantID string, req dto.CreatePartyRequest, actorUserID string) (*domain.Customer, error)
	GetCustomerByID(ctx context.Context, tenantID string, customerID string, requestingUserID string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, tenantID string, requestingUserID string, limit, offset int) ([]domain.Customer, error)
	UpdateCustomer(ctx context.Context, tenantID string, customerID string, req dto.UpdatePartyRequest, actorUserID string) (*domain.Customer, error)
	DeactivateCustomer(ctx context.Context, tenantID string, customerID string, actorUserID string) error
}

// SupplierSvcFacade exposes supplier master data operations.
type SupplierSvcFacade interface {
	CreateSupplier(ctx context.Context, tenantID string, req dto.CreatePartyRequest, actorUserID string) (*domain.Supplier, error)
	GetSupplierByID(ctx context.Context, tenantID string, supplierID string, requestingUserID string) (*domain.Supplier, error)
	ListSuppliers(ctx context.Context, tenantID string, requestingUserID string, limit, offset int) ([]domain.Supplier, error)
	UpdateSupplier(ctx context.Context, tenantID string, supplierID string, req dto.UpdatePartyRequest, actorUserID string) (*domain.Supplier, error)
	DeactivateSupplier(ctx context.Context, tenantID string, supplierID string, actorUserID string) error
}

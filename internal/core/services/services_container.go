package services

import (
	portsrepo "github.com/mitrakasir/retail_backend_app/internal/core/ports/repositories"
	portssvc "github.com/mitrakasir/retail_backend_app/internal/core/ports/services"
	"github.com/mitrakasir/retail_backend_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Initialize tenant service first since every other service authorizes
	// through it.
	container.Tenant = NewTenantService(repos.TenantRepo, repos.UserRepo)
	tenantAuthorizer := container.Tenant.(portssvc.TenantAuthorizerSvc)

	container.User = NewUserService(repos.UserRepo)
	container.Token = NewTokenService(cfg)

	container.Product = NewProductService(repos.ProductRepo, tenantAuthorizer, cfg.AllowNegativeStock)
	container.Customer = NewCustomerService(repos.CustomerRepo, tenantAuthorizer)
	container.Supplier = NewSupplierService(repos.SupplierRepo, tenantAuthorizer)
	container.Ledger = NewLedgerService(repos.LedgerRepo, tenantAuthorizer)

	container.Order = NewOrderService(
		repos.OrderRepo,
		repos.ProductRepo,
		repos.CustomerRepo,
		repos.LedgerRepo,
		repos.CommissionRepo,
		repos.TenantRepo,
		tenantAuthorizer,
		cfg.AllowNegativeStock,
	)
	container.Purchase = NewPurchaseService(
		repos.PurchaseRepo,
		repos.SupplierRepo,
		repos.ProductRepo,
		repos.LedgerRepo,
		tenantAuthorizer,
	)
	container.Settlement = NewSettlementService(repos.SettlementRepo, repos.LedgerRepo, tenantAuthorizer)
	container.Commission = NewCommissionService(repos.CommissionRepo, tenantAuthorizer)
	container.Attendance = NewAttendanceService(repos.AttendanceRepo, tenantAuthorizer)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.TenantSvcFacade = (*tenantService)(nil)
	_ portssvc.OrderSvcFacade  = (*orderService)(nil)
	_ portssvc.LedgerSvcFacade = (*ledgerService)(nil)
)

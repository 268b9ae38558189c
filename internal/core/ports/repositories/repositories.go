package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TenantRepo     TenantRepositoryFacade
	UserRepo       UserRepositoryFacade
	ProductRepo    ProductRepositoryFacade
	CustomerRepo   CustomerRepositoryFacade
	SupplierRepo   SupplierRepositoryFacade
	LedgerRepo     LedgerRepositoryFacade
	OrderRepo      OrderRepositoryFacade
	PurchaseRepo   PurchaseRepositoryFacade
	SettlementRepo SettlementRepositoryFacade
	CommissionRepo CommissionRepositoryFacade
	AttendanceRepo AttendanceRepositoryFacade
}

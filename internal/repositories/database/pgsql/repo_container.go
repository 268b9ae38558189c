package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/mitrakasir/retail_backend_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	tenantRepo := newPgxTenantRepository(dbPool)
	userRepo := newPgxUserRepository(dbPool)
	productRepo := newPgxProductRepository(dbPool)
	customerRepo := newPgxCustomerRepository(dbPool)
	supplierRepo := newPgxSupplierRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool)
	orderRepo := newPgxOrderRepository(dbPool, productRepo, ledgerRepo)
	purchaseRepo := newPgxPurchaseRepository(dbPool, productRepo, ledgerRepo)
	settlementRepo := newPgxSettlementRepository(dbPool, ledgerRepo)
	commissionRepo := newPgxCommissionRepository(dbPool)
	attendanceRepo := newPgxAttendanceRepository(dbPool)

	return portsrepo.RepositoryProvider{
		TenantRepo:     tenantRepo,
		UserRepo:       userRepo,
		ProductRepo:    productRepo,
		CustomerRepo:   customerRepo,
		SupplierRepo:   supplierRepo,
		LedgerRepo:     ledgerRepo,
		OrderRepo:      orderRepo,
		PurchaseRepo:   purchaseRepo,
		SettlementRepo: settlementRepo,
		CommissionRepo: commissionRepo,
		AttendanceRepo: attendanceRepo,
	}
}

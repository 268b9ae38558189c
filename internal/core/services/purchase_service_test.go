package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mitrakasir/retail_backend_app/internal/apperrors"
	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	portsrepo "github.com/mitrakasir/retail_backend_app/internal/core/ports/repositories"
	portssvc "github.com/mitrakasir/retail_backend_app/internal/core/ports/services"
	"github.com/mitrakasir/retail_backend_app/internal/core/services"
	"github.com/mitrakasir/retail_backend_app/internal/dto"
)

// --- Mock PurchaseRepository ---
type MockPurchaseRepository struct {
	mock.Mock
}

// Ensure MockPurchaseRepository implements portsrepo.PurchaseRepositoryFacade
var _ portsrepo.PurchaseRepositoryFacade = (*MockPurchaseRepository)(nil)

func (m *MockPurchaseRepository) FindPurchaseByID(ctx context.Context, purchaseID string) (*domain.Purchase, error) {
	args := m.Called(ctx, purchaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) FindPurchaseLines(ctx context.Context, purchaseID string) ([]domain.PurchaseLine, error) {
	args := m.Called(ctx, purchaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PurchaseLine), args.Error(1)
}

func (m *MockPurchaseRepository) ListPurchasesByTenant(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.Purchase, *string, error) {
	args := m.Called(ctx, tenantID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Purchase), returnedNextToken, args.Error(2)
}

func (m *MockPurchaseRepository) CommitPurchase(ctx context.Context, commit portsrepo.PurchaseCommit) error {
	args := m.Called(ctx, commit)
	return args.Error(0)
}

// --- Mock SupplierReader ---
type MockSupplierReader struct {
	mock.Mock
}

var _ portsrepo.SupplierReader = (*MockSupplierReader)(nil)

func (m *MockSupplierReader) FindSupplierByID(ctx context.Context, supplierID string) (*domain.Supplier, error) {
	args := m.Called(ctx, supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Supplier), args.Error(1)
}

func (m *MockSupplierReader) ListSuppliers(ctx context.Context, tenantID string, limit int, offset int) ([]domain.Supplier, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Supplier), args.Error(1)
}

// --- Test Suite Setup ---
type PurchaseServiceTestSuite struct {
	suite.Suite
	mockPurchaseRepo *MockPurchaseRepository
	mockSupplierRepo *MockSupplierReader
	mockProductRepo  *MockProductReader
	mockLedgerRepo   *MockCashAccountReader
	mockTenantSvc    *MockTenantAuthorizer
	service          portssvc.PurchaseSvcFacade
	tenantID         string
	adminID          string
	supplier         domain.Supplier
	product          domain.Product
	cashAccount      domain.CashAccount
	membership       *domain.UserTenant
}

func (suite *PurchaseServiceTestSuite) SetupTest() {
	suite.mockPurchaseRepo = new(MockPurchaseRepository)
	suite.mockSupplierRepo = new(MockSupplierReader)
	suite.mockProductRepo = new(MockProductReader)
	suite.mockLedgerRepo = new(MockCashAccountReader)
	suite.mockTenantSvc = new(MockTenantAuthorizer)
	suite.service = services.NewPurchaseService(
		suite.mockPurchaseRepo,
		suite.mockSupplierRepo,
		suite.mockProductRepo,
		suite.mockLedgerRepo,
		suite.mockTenantSvc,
	)

	suite.tenantID = uuid.NewString()
	suite.adminID = uuid.NewString()
	suite.supplier = domain.Supplier{
		SupplierID: uuid.NewString(),
		TenantID:   suite.tenantID,
		Name:       "CV Sumber Rejeki",
		IsActive:   true,
	}
	suite.product = domain.Product{
		ProductID:     uuid.NewString(),
		TenantID:      suite.tenantID,
		SKU:           "SKU-007",
		Name:          "Flour 1kg",
		CostPrice:     decimal.NewFromInt(9),
		SellPrice:     decimal.NewFromInt(13),
		StockQuantity: decimal.NewFromInt(10),
		IsActive:      true,
	}
	suite.cashAccount = domain.CashAccount{
		CashAccountID: uuid.NewString(),
		TenantID:      suite.tenantID,
		Name:          "Register",
		IsActive:      true,
	}
	suite.membership = &domain.UserTenant{
		UserID:   suite.adminID,
		TenantID: suite.tenantID,
		Role:     domain.RoleAdmin,
	}
}

// --- Test Cases ---

func (suite *PurchaseServiceTestSuite) TestCreatePurchase_CashSuccess() {
	ctx := context.Background()
	req := dto.CreatePurchaseRequest{
		SupplierID:    suite.supplier.SupplierID,
		PaymentMethod: string(domain.PaymentCash),
		CashAccountID: &suite.cashAccount.CashAccountID,
		Lines: []dto.PurchaseLineRequest{
			{ProductID: suite.product.ProductID, UnitCost: decimal.NewFromInt(9), Quantity: decimal.NewFromInt(20)},
		},
	}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.tenantID, domain.RoleAdmin).Return(suite.membership, nil).Once()
	suite.mockSupplierRepo.On("FindSupplierByID", ctx, suite.supplier.SupplierID).Return(&suite.supplier, nil).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.product.ProductID}).Return(map[string]domain.Product{suite.product.ProductID: suite.product}, nil).Once()
	suite.mockLedgerRepo.On("FindCashAccountByID", ctx, suite.cashAccount.CashAccountID).Return(&suite.cashAccount, nil).Once()

	suite.mockPurchaseRepo.On("CommitPurchase", ctx, mock.MatchedBy(func(commit portsrepo.PurchaseCommit) bool {
		if commit.Purchase.Status != domain.PurchasePaid || !commit.Purchase.Total.Equal(decimal.NewFromInt(180)) {
			return false
		}
		// Cash purchase: payment flows out, no payable opens.
		if commit.LedgerEntry == nil || commit.Payable != nil {
			return false
		}
		if commit.LedgerEntry.Direction != domain.DirectionOut || !commit.LedgerEntry.Amount.Equal(decimal.NewFromInt(180)) {
			return false
		}
		// Received stock flows in.
		return commit.StockDeltas[suite.product.ProductID].Equal(decimal.NewFromInt(20))
	})).Return(nil).Once()

	purchase, err := suite.service.CreatePurchase(ctx, suite.tenantID, req, suite.adminID)

	suite.Require().NoError(err)
	suite.Require().NotNil(purchase)
	suite.Equal(domain.PurchasePaid, purchase.Status)
	suite.Len(purchase.Lines, 1)
	suite.mockPurchaseRepo.AssertExpectations(suite.T())
}

func (suite *PurchaseServiceTestSuite) TestCreatePurchase_CreditOpensPayable() {
	ctx := context.Background()
	req := dto.CreatePurchaseRequest{
		SupplierID:     suite.supplier.SupplierID,
		PaymentMethod:  string(domain.PaymentCredit),
		CreditTermDays: 30,
		Lines: []dto.PurchaseLineRequest{
			{ProductID: suite.product.ProductID, UnitCost: decimal.NewFromInt(10), Quantity: decimal.NewFromInt(5)},
		},
	}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.tenantID, domain.RoleAdmin).Return(suite.membership, nil).Once()
	suite.mockSupplierRepo.On("FindSupplierByID", ctx, suite.supplier.SupplierID).Return(&suite.supplier, nil).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.product.ProductID}).Return(map[string]domain.Product{suite.product.ProductID: suite.product}, nil).Once()

	suite.mockPurchaseRepo.On("CommitPurchase", ctx, mock.MatchedBy(func(commit portsrepo.PurchaseCommit) bool {
		if commit.Purchase.Status != domain.PurchaseUnpaid || commit.Purchase.DueDate == nil {
			return false
		}
		if commit.LedgerEntry != nil || commit.Payable == nil {
			return false
		}
		return commit.Payable.Status == domain.SettlementOpen &&
			commit.Payable.RemainingAmount.Equal(decimal.NewFromInt(50)) &&
			commit.Payable.SupplierID == suite.supplier.SupplierID
	})).Return(nil).Once()

	purchase, err := suite.service.CreatePurchase(ctx, suite.tenantID, req, suite.adminID)

	suite.Require().NoError(err)
	suite.Equal(domain.PurchaseUnpaid, purchase.Status)
	suite.Require().NotNil(purchase.DueDate)
	suite.WithinDuration(time.Now().AddDate(0, 0, 30), *purchase.DueDate, time.Minute)
	suite.mockPurchaseRepo.AssertExpectations(suite.T())
}

func (suite *PurchaseServiceTestSuite) TestCreatePurchase_SupplierWrongTenant() {
	ctx := context.Background()
	foreign := suite.supplier
	foreign.TenantID = uuid.NewString()
	req := dto.CreatePurchaseRequest{
		SupplierID:    foreign.SupplierID,
		PaymentMethod: string(domain.PaymentCash),
		CashAccountID: &suite.cashAccount.CashAccountID,
		Lines: []dto.PurchaseLineRequest{
			{ProductID: suite.product.ProductID, UnitCost: decimal.NewFromInt(9), Quantity: decimal.NewFromInt(1)},
		},
	}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.tenantID, domain.RoleAdmin).Return(suite.membership, nil).Once()
	suite.mockSupplierRepo.On("FindSupplierByID", ctx, foreign.SupplierID).Return(&foreign, nil).Once()

	_, err := suite.service.CreatePurchase(ctx, suite.tenantID, req, suite.adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockPurchaseRepo.AssertNotCalled(suite.T(), "CommitPurchase", mock.Anything, mock.Anything)
}

func (suite *PurchaseServiceTestSuite) TestCreatePurchase_MissingCashAccount() {
	ctx := context.Background()
	req := dto.CreatePurchaseRequest{
		SupplierID:    suite.supplier.SupplierID,
		PaymentMethod: string(domain.PaymentCash),
		Lines: []dto.PurchaseLineRequest{
			{ProductID: suite.product.ProductID, UnitCost: decimal.NewFromInt(9), Quantity: decimal.NewFromInt(1)},
		},
	}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.tenantID, domain.RoleAdmin).Return(suite.membership, nil).Once()
	suite.mockSupplierRepo.On("FindSupplierByID", ctx, suite.supplier.SupplierID).Return(&suite.supplier, nil).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.product.ProductID}).Return(map[string]domain.Product{suite.product.ProductID: suite.product}, nil).Once()

	_, err := suite.service.CreatePurchase(ctx, suite.tenantID, req, suite.adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrMissingCashAccount)
	suite.mockPurchaseRepo.AssertNotCalled(suite.T(), "CommitPurchase", mock.Anything, mock.Anything)
}

func (suite *PurchaseServiceTestSuite) TestCreatePurchase_NonPositiveQuantity() {
	ctx := context.Background()
	req := dto.CreatePurchaseRequest{
		SupplierID:    suite.supplier.SupplierID,
		PaymentMethod: string(domain.PaymentCash),
		CashAccountID: &suite.cashAccount.CashAccountID,
		Lines: []dto.PurchaseLineRequest{
			{ProductID: suite.product.ProductID, UnitCost: decimal.NewFromInt(9), Quantity: decimal.Zero},
		},
	}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.tenantID, domain.RoleAdmin).Return(suite.membership, nil).Once()
	suite.mockSupplierRepo.On("FindSupplierByID", ctx, suite.supplier.SupplierID).Return(&suite.supplier, nil).Once()

	_, err := suite.service.CreatePurchase(ctx, suite.tenantID, req, suite.adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockProductRepo.AssertNotCalled(suite.T(), "FindProductsByIDs", mock.Anything, mock.Anything)
}

func TestPurchaseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PurchaseServiceTestSuite))
}

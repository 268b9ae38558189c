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

// --- Mock OrderRepository ---
type MockOrderRepository struct {
	mock.Mock
}

// Ensure MockOrderRepository implements portsrepo.OrderRepositoryFacade
var _ portsrepo.OrderRepositoryFacade = (*MockOrderRepository)(nil)

func (m *MockOrderRepository) FindOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindOrderLines(ctx context.Context, orderID string) ([]domain.OrderLine, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrderLine), args.Error(1)
}

func (m *MockOrderRepository) ListOrdersByTenant(ctx context.Context, tenantID string, status *domain.OrderStatus, limit int, nextToken *string) ([]domain.Order, *string, error) {
	args := m.Called(ctx, tenantID, status, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Order), returnedNextToken, args.Error(2)
}

func (m *MockOrderRepository) SaveOrder(ctx context.Context, order domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) ReplaceOrderLines(ctx context.Context, order domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) ReconcileOrderLines(ctx context.Context, order domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateOrderStatus(ctx context.Context, orderID string, status domain.OrderStatus, userID string, now time.Time) error {
	args := m.Called(ctx, orderID, status, userID, now)
	return args.Error(0)
}

func (m *MockOrderRepository) FindSaleByID(ctx context.Context, saleID string) (*domain.Sale, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Sale), args.Error(1)
}

func (m *MockOrderRepository) FindSaleLines(ctx context.Context, saleID string) ([]domain.SaleLine, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SaleLine), args.Error(1)
}

func (m *MockOrderRepository) ListSalesByTenant(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.Sale, *string, error) {
	args := m.Called(ctx, tenantID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.Sale), returnedNextToken, args.Error(2)
}

func (m *MockOrderRepository) CommitShipment(ctx context.Context, commit portsrepo.ShipmentCommit) error {
	args := m.Called(ctx, commit)
	return args.Error(0)
}

func (m *MockOrderRepository) CommitReturn(ctx context.Context, commit portsrepo.ReturnCommit) error {
	args := m.Called(ctx, commit)
	return args.Error(0)
}

// --- Mock ProductReader ---
type MockProductReader struct {
	mock.Mock
}

var _ portsrepo.ProductReader = (*MockProductReader)(nil)

func (m *MockProductReader) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductReader) FindProductsByIDs(ctx context.Context, productIDs []string) (map[string]domain.Product, error) {
	args := m.Called(ctx, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Product), args.Error(1)
}

func (m *MockProductReader) ListProducts(ctx context.Context, tenantID string, limit int, offset int) ([]domain.Product, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

// --- Mock CustomerReader ---
type MockCustomerReader struct {
	mock.Mock
}

var _ portsrepo.CustomerReader = (*MockCustomerReader)(nil)

func (m *MockCustomerReader) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockCustomerReader) ListCustomers(ctx context.Context, tenantID string, limit int, offset int) ([]domain.Customer, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Customer), args.Error(1)
}

// --- Mock CashAccountReader ---
type MockCashAccountReader struct {
	mock.Mock
}

var _ portsrepo.CashAccountReader = (*MockCashAccountReader)(nil)

func (m *MockCashAccountReader) FindCashAccountByID(ctx context.Context, cashAccountID string) (*domain.CashAccount, error) {
	args := m.Called(ctx, cashAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CashAccount), args.Error(1)
}

func (m *MockCashAccountReader) ListCashAccounts(ctx context.Context, tenantID string) ([]domain.CashAccount, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CashAccount), args.Error(1)
}

// --- Mock CommissionReader ---
type MockCommissionReader struct {
	mock.Mock
}

var _ portsrepo.CommissionReader = (*MockCommissionReader)(nil)

func (m *MockCommissionReader) FindCommissionByID(ctx context.Context, commissionID string) (*domain.Commission, error) {
	args := m.Called(ctx, commissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Commission), args.Error(1)
}

func (m *MockCommissionReader) FindCommissionBySaleID(ctx context.Context, saleID string) (*domain.Commission, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Commission), args.Error(1)
}

func (m *MockCommissionReader) ListCommissions(ctx context.Context, tenantID string, salespersonID *string, status *domain.CommissionStatus, limit int, offset int) ([]domain.Commission, error) {
	args := m.Called(ctx, tenantID, salespersonID, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Commission), args.Error(1)
}

// --- Mock TenantReader ---
type MockTenantReader struct {
	mock.Mock
}

var _ portsrepo.TenantReader = (*MockTenantReader)(nil)

func (m *MockTenantReader) FindTenantByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Tenant), args.Error(1)
}

func (m *MockTenantReader) FindUserTenant(ctx context.Context, userID string, tenantID string) (*domain.UserTenant, error) {
	args := m.Called(ctx, userID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserTenant), args.Error(1)
}

func (m *MockTenantReader) ListTenantsByUser(ctx context.Context, userID string) ([]domain.Tenant, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tenant), args.Error(1)
}

func (m *MockTenantReader) ListMembers(ctx context.Context, tenantID string) ([]domain.UserTenant, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.UserTenant), args.Error(1)
}

// --- Mock TenantAuthorizer (as used by the other services) ---
type MockTenantAuthorizer struct {
	mock.Mock
}

var _ portssvc.TenantAuthorizerSvc = (*MockTenantAuthorizer)(nil)

func (m *MockTenantAuthorizer) AuthorizeUserAction(ctx context.Context, userID string, tenantID string, minRole domain.UserTenantRole) (*domain.UserTenant, error) {
	args := m.Called(ctx, userID, tenantID, minRole)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserTenant), args.Error(1)
}

// --- Test Suite Setup ---
type OrderServiceTestSuite struct {
	suite.Suite
	mockOrderRepo      *MockOrderRepository
	mockProductRepo    *MockProductReader
	mockCustomerRepo   *MockCustomerReader
	mockLedgerRepo     *MockCashAccountReader
	mockCommissionRepo *MockCommissionReader
	mockTenantRepo     *MockTenantReader
	mockTenantSvc      *MockTenantAuthorizer
	service            portssvc.OrderSvcFacade
	tenantID           string
	adminID            string
	salespersonID      string
	product            domain.Product
	cashAccount        domain.CashAccount
	adminMembership    *domain.UserTenant
	salesMembership    *domain.UserTenant
}

func (suite *OrderServiceTestSuite) SetupTest() {
	suite.mockOrderRepo = new(MockOrderRepository)
	suite.mockProductRepo = new(MockProductReader)
	suite.mockCustomerRepo = new(MockCustomerReader)
	suite.mockLedgerRepo = new(MockCashAccountReader)
	suite.mockCommissionRepo = new(MockCommissionReader)
	suite.mockTenantRepo = new(MockTenantReader)
	suite.mockTenantSvc = new(MockTenantAuthorizer)
	suite.service = services.NewOrderService(
		suite.mockOrderRepo,
		suite.mockProductRepo,
		suite.mockCustomerRepo,
		suite.mockLedgerRepo,
		suite.mockCommissionRepo,
		suite.mockTenantRepo,
		suite.mockTenantSvc,
		false,
	)

	suite.tenantID = uuid.NewString()
	suite.adminID = uuid.NewString()
	suite.salespersonID = uuid.NewString()

	suite.product = domain.Product{
		ProductID:     uuid.NewString(),
		TenantID:      suite.tenantID,
		SKU:           "SKU-001",
		Name:          "Rice 5kg",
		Unit:          "pcs",
		CostPrice:     decimal.NewFromInt(60),
		SellPrice:     decimal.NewFromInt(100),
		StockQuantity: decimal.NewFromInt(50),
		IsActive:      true,
	}
	suite.cashAccount = domain.CashAccount{
		CashAccountID: uuid.NewString(),
		TenantID:      suite.tenantID,
		Name:          "Register",
		Balance:       decimal.NewFromInt(1000),
		IsActive:      true,
	}
	suite.adminMembership = &domain.UserTenant{
		UserID:   suite.adminID,
		TenantID: suite.tenantID,
		Role:     domain.RoleAdmin,
	}
	suite.salesMembership = &domain.UserTenant{
		UserID:               suite.salespersonID,
		TenantID:             suite.tenantID,
		Role:                 domain.RoleSalesperson,
		CashCommissionRate:   decimal.NewFromInt(10),
		CreditCommissionRate: decimal.NewFromInt(5),
	}
}

// approvedOrder builds an APPROVED order with one catalog line ready to ship.
func (suite *OrderServiceTestSuite) approvedOrder(method domain.PaymentMethod) (*domain.Order, []domain.OrderLine) {
	orderID := uuid.NewString()
	line := domain.NewCatalogLine(uuid.NewString(), orderID, suite.product.ProductID, suite.product.Name, decimal.NewFromInt(100), decimal.NewFromInt(2))
	order := &domain.Order{
		OrderID:       orderID,
		TenantID:      suite.tenantID,
		SalespersonID: suite.salespersonID,
		PaymentMethod: method,
		Status:        domain.OrderApproved,
		Total:         line.Subtotal,
		OrderDate:     time.Now(),
	}
	return order, []domain.OrderLine{line}
}

// --- Test Cases ---

func (suite *OrderServiceTestSuite) TestCreateOrder_Success() {
	ctx := context.Background()
	req := dto.CreateOrderRequest{
		PaymentMethod: string(domain.PaymentCash),
		Lines: []dto.OrderLineRequest{
			{Kind: string(domain.LineCatalog), ProductID: &suite.product.ProductID, UnitPrice: decimal.NewFromInt(100), Quantity: decimal.NewFromInt(3)},
		},
	}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.salespersonID, suite.tenantID, domain.RoleSalesperson).Return(suite.salesMembership, nil).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.product.ProductID}).Return(map[string]domain.Product{suite.product.ProductID: suite.product}, nil).Once()
	suite.mockOrderRepo.On("SaveOrder", ctx, mock.AnythingOfType("domain.Order")).Return(nil).Once()

	order, err := suite.service.CreateOrder(ctx, suite.tenantID, req, suite.salespersonID)

	suite.Require().NoError(err)
	suite.Require().NotNil(order)
	suite.NotEmpty(order.OrderID)
	suite.Equal(domain.OrderPending, order.Status)
	suite.Equal(suite.salespersonID, order.SalespersonID)
	suite.True(decimal.NewFromInt(300).Equal(order.Total))
	suite.Len(order.Lines, 1)

	suite.mockTenantSvc.AssertExpectations(suite.T())
	suite.mockOrderRepo.AssertExpectations(suite.T())
}

func (suite *OrderServiceTestSuite) TestCreateOrder_CreditWithoutCustomer() {
	ctx := context.Background()
	req := dto.CreateOrderRequest{
		PaymentMethod: string(domain.PaymentCredit),
		Lines: []dto.OrderLineRequest{
			{Kind: string(domain.LineFreeText), ProductName: "Delivery fee", UnitPrice: decimal.NewFromInt(10), Quantity: decimal.NewFromInt(1)},
		},
	}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.salespersonID, suite.tenantID, domain.RoleSalesperson).Return(suite.salesMembership, nil).Once()

	_, err := suite.service.CreateOrder(ctx, suite.tenantID, req, suite.salespersonID)

	suite.Require().Error(err)
	suite.ErrorIs(err, services.ErrCreditNeedsCustomer)
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "SaveOrder", mock.Anything, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestCreateOrder_InactiveProduct() {
	ctx := context.Background()
	inactive := suite.product
	inactive.IsActive = false
	req := dto.CreateOrderRequest{
		PaymentMethod: string(domain.PaymentCash),
		Lines: []dto.OrderLineRequest{
			{Kind: string(domain.LineCatalog), ProductID: &inactive.ProductID, UnitPrice: decimal.NewFromInt(100), Quantity: decimal.NewFromInt(1)},
		},
	}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.salespersonID, suite.tenantID, domain.RoleSalesperson).Return(suite.salesMembership, nil).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{inactive.ProductID}).Return(map[string]domain.Product{inactive.ProductID: inactive}, nil).Once()

	_, err := suite.service.CreateOrder(ctx, suite.tenantID, req, suite.salespersonID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "SaveOrder", mock.Anything, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestEditOrder_NotPending() {
	ctx := context.Background()
	order, _ := suite.approvedOrder(domain.PaymentCash)
	req := dto.EditOrderRequest{
		Lines: []dto.OrderLineRequest{
			{Kind: string(domain.LineFreeText), ProductName: "Misc", UnitPrice: decimal.NewFromInt(5), Quantity: decimal.NewFromInt(1)},
		},
	}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.salespersonID, suite.tenantID, domain.RoleSalesperson).Return(suite.salesMembership, nil).Once()
	suite.mockOrderRepo.On("FindOrderByID", ctx, order.OrderID).Return(order, nil).Once()

	_, err := suite.service.EditOrder(ctx, suite.tenantID, order.OrderID, req, suite.salespersonID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "ReplaceOrderLines", mock.Anything, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestEditOrder_NotOwner() {
	ctx := context.Background()
	otherSalesperson := uuid.NewString()
	order := &domain.Order{
		OrderID:       uuid.NewString(),
		TenantID:      suite.tenantID,
		SalespersonID: otherSalesperson,
		PaymentMethod: domain.PaymentCash,
		Status:        domain.OrderPending,
	}
	req := dto.EditOrderRequest{
		Lines: []dto.OrderLineRequest{
			{Kind: string(domain.LineFreeText), ProductName: "Misc", UnitPrice: decimal.NewFromInt(5), Quantity: decimal.NewFromInt(1)},
		},
	}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.salespersonID, suite.tenantID, domain.RoleSalesperson).Return(suite.salesMembership, nil).Once()
	suite.mockOrderRepo.On("FindOrderByID", ctx, order.OrderID).Return(order, nil).Once()

	_, err := suite.service.EditOrder(ctx, suite.tenantID, order.OrderID, req, suite.salespersonID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.ErrorIs(err, services.ErrNotOrderOwner)
}

func (suite *OrderServiceTestSuite) TestEditOrder_AdminMayEditAnyOrder() {
	ctx := context.Background()
	order := &domain.Order{
		OrderID:       uuid.NewString(),
		TenantID:      suite.tenantID,
		SalespersonID: suite.salespersonID,
		PaymentMethod: domain.PaymentCash,
		Status:        domain.OrderPending,
	}
	req := dto.EditOrderRequest{
		Lines: []dto.OrderLineRequest{
			{Kind: string(domain.LineFreeText), ProductName: "Misc", UnitPrice: decimal.NewFromInt(5), Quantity: decimal.NewFromInt(2)},
		},
	}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.tenantID, domain.RoleSalesperson).Return(suite.adminMembership, nil).Once()
	suite.mockOrderRepo.On("FindOrderByID", ctx, order.OrderID).Return(order, nil).Once()
	suite.mockOrderRepo.On("ReplaceOrderLines", ctx, mock.AnythingOfType("domain.Order")).Return(nil).Once()

	updated, err := suite.service.EditOrder(ctx, suite.tenantID, order.OrderID, req, suite.adminID)

	suite.Require().NoError(err)
	suite.True(decimal.NewFromInt(10).Equal(updated.Total))
	suite.mockOrderRepo.AssertExpectations(suite.T())
}

func (suite *OrderServiceTestSuite) TestApproveOrder_Idempotent() {
	ctx := context.Background()
	order, lines := suite.approvedOrder(domain.PaymentCash)
	req := dto.ApproveOrderRequest{
		Lines: []dto.OrderLineRequest{
			{LineID: &lines[0].LineID, Kind: string(domain.LineCatalog), ProductID: &suite.product.ProductID, UnitPrice: decimal.NewFromInt(100), Quantity: decimal.NewFromInt(2)},
		},
	}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.tenantID, domain.RoleAdmin).Return(suite.adminMembership, nil).Once()
	suite.mockOrderRepo.On("FindOrderByID", ctx, order.OrderID).Return(order, nil).Once()
	suite.mockOrderRepo.On("FindOrderLines", ctx, order.OrderID).Return(lines, nil).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.product.ProductID}).Return(map[string]domain.Product{suite.product.ProductID: suite.product}, nil).Once()
	suite.mockOrderRepo.On("ReconcileOrderLines", ctx, mock.AnythingOfType("domain.Order")).Return(nil).Once()

	approved, err := suite.service.ApproveOrder(ctx, suite.tenantID, order.OrderID, req, suite.adminID)

	suite.Require().NoError(err)
	suite.Equal(domain.OrderApproved, approved.Status)
	// The supplied line ID survives reconciliation.
	suite.Equal(lines[0].LineID, approved.Lines[0].LineID)
	suite.mockOrderRepo.AssertExpectations(suite.T())
}

func (suite *OrderServiceTestSuite) TestApproveOrder_ForeignLineIDRejected() {
	ctx := context.Background()
	order, lines := suite.approvedOrder(domain.PaymentCash)
	order.Status = domain.OrderPending
	// A line ID belonging to some other order must not be accepted, or the
	// reconciliation upsert could rewrite that order's line.
	foreignLineID := uuid.NewString()
	req := dto.ApproveOrderRequest{
		Lines: []dto.OrderLineRequest{
			{LineID: &foreignLineID, Kind: string(domain.LineCatalog), ProductID: &suite.product.ProductID, UnitPrice: decimal.NewFromInt(100), Quantity: decimal.NewFromInt(2)},
		},
	}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.tenantID, domain.RoleAdmin).Return(suite.adminMembership, nil).Once()
	suite.mockOrderRepo.On("FindOrderByID", ctx, order.OrderID).Return(order, nil).Once()
	suite.mockOrderRepo.On("FindOrderLines", ctx, order.OrderID).Return(lines, nil).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.product.ProductID}).Return(map[string]domain.Product{suite.product.ProductID: suite.product}, nil).Once()

	_, err := suite.service.ApproveOrder(ctx, suite.tenantID, order.OrderID, req, suite.adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "ReconcileOrderLines", mock.Anything, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestRejectOrder_ShippedIsTerminal() {
	ctx := context.Background()
	order := &domain.Order{
		OrderID:  uuid.NewString(),
		TenantID: suite.tenantID,
		Status:   domain.OrderShipped,
	}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.tenantID, domain.RoleAdmin).Return(suite.adminMembership, nil).Once()
	suite.mockOrderRepo.On("FindOrderByID", ctx, order.OrderID).Return(order, nil).Once()

	err := suite.service.RejectOrder(ctx, suite.tenantID, order.OrderID, suite.adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "UpdateOrderStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestShipOrder_CashSuccess() {
	ctx := context.Background()
	order, lines := suite.approvedOrder(domain.PaymentCash)
	req := dto.ShipOrderRequest{CashAccountID: &suite.cashAccount.CashAccountID}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.tenantID, domain.RoleAdmin).Return(suite.adminMembership, nil).Once()
	suite.mockOrderRepo.On("FindOrderByID", ctx, order.OrderID).Return(order, nil).Once()
	suite.mockOrderRepo.On("FindOrderLines", ctx, order.OrderID).Return(lines, nil).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.product.ProductID}).Return(map[string]domain.Product{suite.product.ProductID: suite.product}, nil).Once()
	suite.mockLedgerRepo.On("FindCashAccountByID", ctx, suite.cashAccount.CashAccountID).Return(&suite.cashAccount, nil).Once()
	suite.mockTenantRepo.On("FindUserTenant", ctx, suite.salespersonID, suite.tenantID).Return(suite.salesMembership, nil).Once()

	suite.mockOrderRepo.On("CommitShipment", ctx, mock.MatchedBy(func(commit portsrepo.ShipmentCommit) bool {
		if commit.OrderID != order.OrderID || commit.TenantID != suite.tenantID {
			return false
		}
		if commit.Sale.Status != domain.SalePaid || !commit.Sale.Total.Equal(order.Total) {
			return false
		}
		// Cash sale: ledger entry IN for the full total, no receivable.
		if commit.LedgerEntry == nil || commit.Receivable != nil {
			return false
		}
		if commit.LedgerEntry.Direction != domain.DirectionIn || !commit.LedgerEntry.Amount.Equal(order.Total) {
			return false
		}
		// Stock decrements by the shipped quantity.
		if !commit.StockDeltas[suite.product.ProductID].Equal(decimal.NewFromInt(-2)) {
			return false
		}
		// Margin (100-60)*2 = 80 at 10% cash rate -> 8, realized immediately.
		if commit.Commission == nil || commit.Commission.Status != domain.CommissionPaid {
			return false
		}
		return commit.Commission.Amount.Equal(decimal.NewFromInt(8))
	})).Return(nil).Once()

	saleID, err := suite.service.ShipOrder(ctx, suite.tenantID, order.OrderID, req, suite.adminID)

	suite.Require().NoError(err)
	suite.NotEmpty(saleID)
	suite.mockOrderRepo.AssertExpectations(suite.T())
	suite.mockLedgerRepo.AssertExpectations(suite.T())
}

func (suite *OrderServiceTestSuite) TestShipOrder_CreditCreatesReceivable() {
	ctx := context.Background()
	customerID := uuid.NewString()
	order, lines := suite.approvedOrder(domain.PaymentCredit)
	order.CustomerID = &customerID
	order.CreditTermDays = 30
	req := dto.ShipOrderRequest{}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.tenantID, domain.RoleAdmin).Return(suite.adminMembership, nil).Once()
	suite.mockOrderRepo.On("FindOrderByID", ctx, order.OrderID).Return(order, nil).Once()
	suite.mockOrderRepo.On("FindOrderLines", ctx, order.OrderID).Return(lines, nil).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.product.ProductID}).Return(map[string]domain.Product{suite.product.ProductID: suite.product}, nil).Once()
	suite.mockTenantRepo.On("FindUserTenant", ctx, suite.salespersonID, suite.tenantID).Return(suite.salesMembership, nil).Once()

	suite.mockOrderRepo.On("CommitShipment", ctx, mock.MatchedBy(func(commit portsrepo.ShipmentCommit) bool {
		if commit.Sale.Status != domain.SaleUnpaid || commit.Sale.DueDate == nil {
			return false
		}
		// Credit sale: receivable for the full total, no cash movement.
		if commit.LedgerEntry != nil || commit.Receivable == nil {
			return false
		}
		if commit.Receivable.Status != domain.SettlementOpen || !commit.Receivable.RemainingAmount.Equal(order.Total) {
			return false
		}
		// Margin 80 at 5% credit rate -> 4, pending until collected.
		if commit.Commission == nil || commit.Commission.Status != domain.CommissionPending {
			return false
		}
		return commit.Commission.Amount.Equal(decimal.NewFromInt(4))
	})).Return(nil).Once()

	saleID, err := suite.service.ShipOrder(ctx, suite.tenantID, order.OrderID, req, suite.adminID)

	suite.Require().NoError(err)
	suite.NotEmpty(saleID)
	suite.mockOrderRepo.AssertExpectations(suite.T())
}

func (suite *OrderServiceTestSuite) TestShipOrder_NotApproved() {
	ctx := context.Background()
	order, _ := suite.approvedOrder(domain.PaymentCash)
	order.Status = domain.OrderPending

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.tenantID, domain.RoleAdmin).Return(suite.adminMembership, nil).Once()
	suite.mockOrderRepo.On("FindOrderByID", ctx, order.OrderID).Return(order, nil).Once()

	_, err := suite.service.ShipOrder(ctx, suite.tenantID, order.OrderID, dto.ShipOrderRequest{CashAccountID: &suite.cashAccount.CashAccountID}, suite.adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "CommitShipment", mock.Anything, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestShipOrder_MissingCashAccount() {
	ctx := context.Background()
	order, lines := suite.approvedOrder(domain.PaymentCash)

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.tenantID, domain.RoleAdmin).Return(suite.adminMembership, nil).Once()
	suite.mockOrderRepo.On("FindOrderByID", ctx, order.OrderID).Return(order, nil).Once()
	suite.mockOrderRepo.On("FindOrderLines", ctx, order.OrderID).Return(lines, nil).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.product.ProductID}).Return(map[string]domain.Product{suite.product.ProductID: suite.product}, nil).Once()

	_, err := suite.service.ShipOrder(ctx, suite.tenantID, order.OrderID, dto.ShipOrderRequest{}, suite.adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrMissingCashAccount)
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "CommitShipment", mock.Anything, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestShipOrder_CashAccountWrongTenant() {
	ctx := context.Background()
	order, lines := suite.approvedOrder(domain.PaymentCash)
	foreignAccount := suite.cashAccount
	foreignAccount.TenantID = uuid.NewString()

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.tenantID, domain.RoleAdmin).Return(suite.adminMembership, nil).Once()
	suite.mockOrderRepo.On("FindOrderByID", ctx, order.OrderID).Return(order, nil).Once()
	suite.mockOrderRepo.On("FindOrderLines", ctx, order.OrderID).Return(lines, nil).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{suite.product.ProductID}).Return(map[string]domain.Product{suite.product.ProductID: suite.product}, nil).Once()
	suite.mockLedgerRepo.On("FindCashAccountByID", ctx, foreignAccount.CashAccountID).Return(&foreignAccount, nil).Once()

	_, err := suite.service.ShipOrder(ctx, suite.tenantID, order.OrderID, dto.ShipOrderRequest{CashAccountID: &foreignAccount.CashAccountID}, suite.adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrTenantMismatch)
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "CommitShipment", mock.Anything, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestShipOrder_NoCommissionWhenMarginZero() {
	ctx := context.Background()
	atCost := suite.product
	atCost.CostPrice = decimal.NewFromInt(100) // sold exactly at cost

	orderID := uuid.NewString()
	line := domain.NewCatalogLine(uuid.NewString(), orderID, atCost.ProductID, atCost.Name, decimal.NewFromInt(100), decimal.NewFromInt(2))
	order := &domain.Order{
		OrderID:       orderID,
		TenantID:      suite.tenantID,
		SalespersonID: suite.salespersonID,
		PaymentMethod: domain.PaymentCash,
		Status:        domain.OrderApproved,
		Total:         line.Subtotal,
	}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.tenantID, domain.RoleAdmin).Return(suite.adminMembership, nil).Once()
	suite.mockOrderRepo.On("FindOrderByID", ctx, orderID).Return(order, nil).Once()
	suite.mockOrderRepo.On("FindOrderLines", ctx, orderID).Return([]domain.OrderLine{line}, nil).Once()
	suite.mockProductRepo.On("FindProductsByIDs", ctx, []string{atCost.ProductID}).Return(map[string]domain.Product{atCost.ProductID: atCost}, nil).Once()
	suite.mockLedgerRepo.On("FindCashAccountByID", ctx, suite.cashAccount.CashAccountID).Return(&suite.cashAccount, nil).Once()
	suite.mockTenantRepo.On("FindUserTenant", ctx, suite.salespersonID, suite.tenantID).Return(suite.salesMembership, nil).Once()

	suite.mockOrderRepo.On("CommitShipment", ctx, mock.MatchedBy(func(commit portsrepo.ShipmentCommit) bool {
		return commit.Commission == nil
	})).Return(nil).Once()

	_, err := suite.service.ShipOrder(ctx, suite.tenantID, orderID, dto.ShipOrderRequest{CashAccountID: &suite.cashAccount.CashAccountID}, suite.adminID)

	suite.Require().NoError(err)
	suite.mockOrderRepo.AssertExpectations(suite.T())
}

func (suite *OrderServiceTestSuite) TestReverseForReturn_CashRefund() {
	ctx := context.Background()
	saleID := uuid.NewString()
	sale := &domain.Sale{
		SaleID:        saleID,
		TenantID:      suite.tenantID,
		SalespersonID: suite.salespersonID,
		PaymentMethod: domain.PaymentCash,
		Total:         decimal.NewFromInt(200),
		Status:        domain.SalePaid,
	}
	comm := &domain.Commission{
		CommissionID: uuid.NewString(),
		TenantID:     suite.tenantID,
		SaleID:       saleID,
		RatePercent:  decimal.NewFromInt(10),
		Amount:       decimal.NewFromInt(8),
		Status:       domain.CommissionPaid,
	}
	req := dto.ReturnRequest{
		ReturnedAmount: decimal.NewFromInt(50),
		CashAccountID:  &suite.cashAccount.CashAccountID,
		LineAdjustments: []dto.ReturnLineAdjustment{
			{ProductID: suite.product.ProductID, Quantity: decimal.NewFromInt(1)},
		},
	}

	saleLines := []domain.SaleLine{
		{
			SaleLineID: uuid.NewString(),
			SaleID:     saleID,
			ProductID:  &suite.product.ProductID,
			Quantity:   decimal.NewFromInt(2),
		},
	}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.tenantID, domain.RoleAdmin).Return(suite.adminMembership, nil).Once()
	suite.mockOrderRepo.On("FindSaleByID", ctx, saleID).Return(sale, nil).Once()
	suite.mockOrderRepo.On("FindSaleLines", ctx, saleID).Return(saleLines, nil).Once()
	suite.mockLedgerRepo.On("FindCashAccountByID", ctx, suite.cashAccount.CashAccountID).Return(&suite.cashAccount, nil).Once()
	suite.mockCommissionRepo.On("FindCommissionBySaleID", ctx, saleID).Return(comm, nil).Once()

	suite.mockOrderRepo.On("CommitReturn", ctx, mock.MatchedBy(func(commit portsrepo.ReturnCommit) bool {
		if commit.SaleID != saleID || !commit.ReturnedAmount.Equal(decimal.NewFromInt(50)) {
			return false
		}
		// Refund flows out of the cash account.
		if commit.LedgerEntry == nil || commit.LedgerEntry.Direction != domain.DirectionOut {
			return false
		}
		if !commit.LedgerEntry.Amount.Equal(decimal.NewFromInt(50)) {
			return false
		}
		// Returned stock is restored.
		if !commit.StockDeltas[suite.product.ProductID].Equal(decimal.NewFromInt(1)) {
			return false
		}
		// Commission shrinks by 50 * 10% = 5.
		return commit.CommissionReduction.Equal(decimal.NewFromInt(5))
	})).Return(nil).Once()

	err := suite.service.ReverseForReturn(ctx, suite.tenantID, saleID, req, suite.adminID)

	suite.Require().NoError(err)
	suite.mockOrderRepo.AssertExpectations(suite.T())
}

func (suite *OrderServiceTestSuite) TestReverseForReturn_CreditRecordsLedgerAdjustment() {
	ctx := context.Background()
	saleID := uuid.NewString()
	sale := &domain.Sale{
		SaleID:        saleID,
		TenantID:      suite.tenantID,
		PaymentMethod: domain.PaymentCredit,
		Total:         decimal.NewFromInt(200),
		Status:        domain.SaleUnpaid,
	}
	req := dto.ReturnRequest{
		ReturnedAmount: decimal.NewFromInt(50),
		CashAccountID:  &suite.cashAccount.CashAccountID,
	}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.tenantID, domain.RoleAdmin).Return(suite.adminMembership, nil).Once()
	suite.mockOrderRepo.On("FindSaleByID", ctx, saleID).Return(sale, nil).Once()
	suite.mockLedgerRepo.On("FindCashAccountByID", ctx, suite.cashAccount.CashAccountID).Return(&suite.cashAccount, nil).Once()
	suite.mockCommissionRepo.On("FindCommissionBySaleID", ctx, saleID).Return(nil, apperrors.ErrNotFound).Once()

	suite.mockOrderRepo.On("CommitReturn", ctx, mock.MatchedBy(func(commit portsrepo.ReturnCommit) bool {
		// A credit-sale return still hits the cash trail with an OUT reversal,
		// alongside the receivable reduction applied inside the commit.
		if commit.LedgerEntry == nil || commit.LedgerEntry.Direction != domain.DirectionOut {
			return false
		}
		if !commit.LedgerEntry.Amount.Equal(decimal.NewFromInt(50)) {
			return false
		}
		// No commission was recorded for this sale, so nothing is reduced.
		return commit.CommissionReduction.IsZero()
	})).Return(nil).Once()

	err := suite.service.ReverseForReturn(ctx, suite.tenantID, saleID, req, suite.adminID)

	suite.Require().NoError(err)
	suite.mockOrderRepo.AssertExpectations(suite.T())
}

func (suite *OrderServiceTestSuite) TestReverseForReturn_MissingCashAccount() {
	ctx := context.Background()
	saleID := uuid.NewString()
	sale := &domain.Sale{
		SaleID:        saleID,
		TenantID:      suite.tenantID,
		PaymentMethod: domain.PaymentCredit,
		Total:         decimal.NewFromInt(200),
		Status:        domain.SaleUnpaid,
	}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.tenantID, domain.RoleAdmin).Return(suite.adminMembership, nil).Once()
	suite.mockOrderRepo.On("FindSaleByID", ctx, saleID).Return(sale, nil).Once()

	err := suite.service.ReverseForReturn(ctx, suite.tenantID, saleID, dto.ReturnRequest{ReturnedAmount: decimal.NewFromInt(50)}, suite.adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrMissingCashAccount)
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "CommitReturn", mock.Anything, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestReverseForReturn_OverReturnQuantity() {
	ctx := context.Background()
	saleID := uuid.NewString()
	sale := &domain.Sale{
		SaleID:        saleID,
		TenantID:      suite.tenantID,
		PaymentMethod: domain.PaymentCash,
		Total:         decimal.NewFromInt(200),
		Status:        domain.SalePaid,
	}
	saleLines := []domain.SaleLine{
		{
			SaleLineID: uuid.NewString(),
			SaleID:     saleID,
			ProductID:  &suite.product.ProductID,
			Quantity:   decimal.NewFromInt(2),
		},
	}
	req := dto.ReturnRequest{
		ReturnedAmount: decimal.NewFromInt(50),
		CashAccountID:  &suite.cashAccount.CashAccountID,
		LineAdjustments: []dto.ReturnLineAdjustment{
			{ProductID: suite.product.ProductID, Quantity: decimal.NewFromInt(3)},
		},
	}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.tenantID, domain.RoleAdmin).Return(suite.adminMembership, nil).Once()
	suite.mockOrderRepo.On("FindSaleByID", ctx, saleID).Return(sale, nil).Once()
	suite.mockOrderRepo.On("FindSaleLines", ctx, saleID).Return(saleLines, nil).Once()

	err := suite.service.ReverseForReturn(ctx, suite.tenantID, saleID, req, suite.adminID)

	// Restoring more than the sale shipped would inflate inventory.
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "CommitReturn", mock.Anything, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestReverseForReturn_ProductNotInSale() {
	ctx := context.Background()
	saleID := uuid.NewString()
	sale := &domain.Sale{
		SaleID:        saleID,
		TenantID:      suite.tenantID,
		PaymentMethod: domain.PaymentCash,
		Total:         decimal.NewFromInt(200),
		Status:        domain.SalePaid,
	}
	saleLines := []domain.SaleLine{
		{
			SaleLineID: uuid.NewString(),
			SaleID:     saleID,
			ProductID:  &suite.product.ProductID,
			Quantity:   decimal.NewFromInt(2),
		},
	}
	otherProductID := uuid.NewString()
	req := dto.ReturnRequest{
		ReturnedAmount: decimal.NewFromInt(50),
		CashAccountID:  &suite.cashAccount.CashAccountID,
		LineAdjustments: []dto.ReturnLineAdjustment{
			{ProductID: otherProductID, Quantity: decimal.NewFromInt(1)},
		},
	}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.tenantID, domain.RoleAdmin).Return(suite.adminMembership, nil).Once()
	suite.mockOrderRepo.On("FindSaleByID", ctx, saleID).Return(sale, nil).Once()
	suite.mockOrderRepo.On("FindSaleLines", ctx, saleID).Return(saleLines, nil).Once()

	err := suite.service.ReverseForReturn(ctx, suite.tenantID, saleID, req, suite.adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "CommitReturn", mock.Anything, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestReverseForReturn_AmountExceedsTotal() {
	ctx := context.Background()
	saleID := uuid.NewString()
	sale := &domain.Sale{
		SaleID:        saleID,
		TenantID:      suite.tenantID,
		PaymentMethod: domain.PaymentCash,
		Total:         decimal.NewFromInt(100),
		Status:        domain.SalePaid,
	}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.tenantID, domain.RoleAdmin).Return(suite.adminMembership, nil).Once()
	suite.mockOrderRepo.On("FindSaleByID", ctx, saleID).Return(sale, nil).Once()

	err := suite.service.ReverseForReturn(ctx, suite.tenantID, saleID, dto.ReturnRequest{ReturnedAmount: decimal.NewFromInt(150)}, suite.adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "CommitReturn", mock.Anything, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestReverseForReturn_AlreadyVoid() {
	ctx := context.Background()
	saleID := uuid.NewString()
	sale := &domain.Sale{
		SaleID:        saleID,
		TenantID:      suite.tenantID,
		PaymentMethod: domain.PaymentCash,
		Total:         decimal.Zero,
		Status:        domain.SaleVoid,
	}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.tenantID, domain.RoleAdmin).Return(suite.adminMembership, nil).Once()
	suite.mockOrderRepo.On("FindSaleByID", ctx, saleID).Return(sale, nil).Once()

	err := suite.service.ReverseForReturn(ctx, suite.tenantID, saleID, dto.ReturnRequest{ReturnedAmount: decimal.NewFromInt(10)}, suite.adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "CommitReturn", mock.Anything, mock.Anything)
}

func (suite *OrderServiceTestSuite) TestGetOrder_WrongTenant() {
	ctx := context.Background()
	order := &domain.Order{
		OrderID:  uuid.NewString(),
		TenantID: uuid.NewString(), // different tenant
		Status:   domain.OrderPending,
	}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.salespersonID, suite.tenantID, domain.RoleReadOnly).Return(suite.salesMembership, nil).Once()
	suite.mockOrderRepo.On("FindOrderByID", ctx, order.OrderID).Return(order, nil).Once()

	_, err := suite.service.GetOrder(ctx, suite.tenantID, order.OrderID, suite.salespersonID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "FindOrderLines", mock.Anything, mock.Anything)
}

func TestOrderServiceTestSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

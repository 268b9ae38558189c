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

// --- Mock SettlementRepository ---
type MockSettlementRepository struct {
	mock.Mock
}

// Ensure MockSettlementRepository implements portsrepo.SettlementRepositoryFacade
var _ portsrepo.SettlementRepositoryFacade = (*MockSettlementRepository)(nil)

func (m *MockSettlementRepository) FindReceivableByID(ctx context.Context, receivableID string) (*domain.Receivable, error) {
	args := m.Called(ctx, receivableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receivable), args.Error(1)
}

func (m *MockSettlementRepository) FindReceivableBySaleID(ctx context.Context, saleID string) (*domain.Receivable, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receivable), args.Error(1)
}

func (m *MockSettlementRepository) ListReceivables(ctx context.Context, tenantID string, status *domain.SettlementStatus, limit int, offset int) ([]domain.Receivable, error) {
	args := m.Called(ctx, tenantID, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Receivable), args.Error(1)
}

func (m *MockSettlementRepository) FindPayableByID(ctx context.Context, payableID string) (*domain.Payable, error) {
	args := m.Called(ctx, payableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payable), args.Error(1)
}

func (m *MockSettlementRepository) FindPayableByPurchaseID(ctx context.Context, purchaseID string) (*domain.Payable, error) {
	args := m.Called(ctx, purchaseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payable), args.Error(1)
}

func (m *MockSettlementRepository) ListPayables(ctx context.Context, tenantID string, status *domain.SettlementStatus, limit int, offset int) ([]domain.Payable, error) {
	args := m.Called(ctx, tenantID, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payable), args.Error(1)
}

func (m *MockSettlementRepository) ApplyReceivablePayment(ctx context.Context, commit portsrepo.PaymentCommit) (*domain.Receivable, error) {
	args := m.Called(ctx, commit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receivable), args.Error(1)
}

func (m *MockSettlementRepository) ApplyPayablePayment(ctx context.Context, commit portsrepo.PaymentCommit) (*domain.Payable, error) {
	args := m.Called(ctx, commit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payable), args.Error(1)
}

// --- Test Suite Setup ---
type SettlementServiceTestSuite struct {
	suite.Suite
	mockSettlementRepo *MockSettlementRepository
	mockLedgerRepo     *MockCashAccountReader
	mockTenantSvc      *MockTenantAuthorizer
	service            portssvc.SettlementSvcFacade
	tenantID           string
	userID             string
	account            domain.CashAccount
	membership         *domain.UserTenant
	receivable         domain.Receivable
	payable            domain.Payable
}

func (suite *SettlementServiceTestSuite) SetupTest() {
	suite.mockSettlementRepo = new(MockSettlementRepository)
	suite.mockLedgerRepo = new(MockCashAccountReader)
	suite.mockTenantSvc = new(MockTenantAuthorizer)
	suite.service = services.NewSettlementService(suite.mockSettlementRepo, suite.mockLedgerRepo, suite.mockTenantSvc)

	suite.tenantID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.account = domain.CashAccount{
		CashAccountID: uuid.NewString(),
		TenantID:      suite.tenantID,
		Name:          "Register",
		IsActive:      true,
	}
	suite.membership = &domain.UserTenant{
		UserID:   suite.userID,
		TenantID: suite.tenantID,
		Role:     domain.RoleAdmin,
	}
	suite.receivable = domain.Receivable{
		ReceivableID:    uuid.NewString(),
		TenantID:        suite.tenantID,
		SaleID:          uuid.NewString(),
		TotalAmount:     decimal.NewFromInt(300),
		RemainingAmount: decimal.NewFromInt(200),
		DueDate:         time.Now().AddDate(0, 0, 14),
		Status:          domain.SettlementOpen,
	}
	suite.payable = domain.Payable{
		PayableID:       uuid.NewString(),
		TenantID:        suite.tenantID,
		PurchaseID:      uuid.NewString(),
		SupplierID:      uuid.NewString(),
		TotalAmount:     decimal.NewFromInt(500),
		RemainingAmount: decimal.NewFromInt(500),
		DueDate:         time.Now().AddDate(0, 0, 30),
		Status:          domain.SettlementOpen,
	}
}

// --- Test Cases ---

func (suite *SettlementServiceTestSuite) TestApplyReceivablePayment_Success() {
	ctx := context.Background()
	req := dto.ApplyPaymentRequest{
		Amount:        decimal.NewFromInt(150),
		CashAccountID: suite.account.CashAccountID,
	}
	updated := suite.receivable
	updated.RemainingAmount = decimal.NewFromInt(50)

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.tenantID, domain.RoleSalesperson).Return(suite.membership, nil).Once()
	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.tenantID, domain.RoleReadOnly).Return(suite.membership, nil).Once()
	suite.mockSettlementRepo.On("FindReceivableByID", ctx, suite.receivable.ReceivableID).Return(&suite.receivable, nil).Once()
	suite.mockLedgerRepo.On("FindCashAccountByID", ctx, suite.account.CashAccountID).Return(&suite.account, nil).Once()

	suite.mockSettlementRepo.On("ApplyReceivablePayment", ctx, mock.MatchedBy(func(commit portsrepo.PaymentCommit) bool {
		if commit.TargetID != suite.receivable.ReceivableID || !commit.Amount.Equal(decimal.NewFromInt(150)) {
			return false
		}
		// Collection flows into the cash account.
		return commit.LedgerEntry.Direction == domain.DirectionIn &&
			commit.LedgerEntry.Amount.Equal(decimal.NewFromInt(150)) &&
			commit.LedgerEntry.CashAccountID == suite.account.CashAccountID
	})).Return(&updated, nil).Once()

	result, err := suite.service.ApplyReceivablePayment(ctx, suite.tenantID, suite.receivable.ReceivableID, req, suite.userID)

	suite.Require().NoError(err)
	suite.True(decimal.NewFromInt(50).Equal(result.RemainingAmount))
	suite.mockSettlementRepo.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestApplyReceivablePayment_Overpayment() {
	ctx := context.Background()
	req := dto.ApplyPaymentRequest{
		Amount:        decimal.NewFromInt(250), // remaining is 200
		CashAccountID: suite.account.CashAccountID,
	}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.tenantID, domain.RoleSalesperson).Return(suite.membership, nil).Once()
	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.tenantID, domain.RoleReadOnly).Return(suite.membership, nil).Once()
	suite.mockSettlementRepo.On("FindReceivableByID", ctx, suite.receivable.ReceivableID).Return(&suite.receivable, nil).Once()

	_, err := suite.service.ApplyReceivablePayment(ctx, suite.tenantID, suite.receivable.ReceivableID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrOverPayment)
	suite.mockSettlementRepo.AssertNotCalled(suite.T(), "ApplyReceivablePayment", mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestApplyReceivablePayment_AlreadyPaid() {
	ctx := context.Background()
	paid := suite.receivable
	paid.RemainingAmount = decimal.Zero
	paid.Status = domain.SettlementPaid
	req := dto.ApplyPaymentRequest{
		Amount:        decimal.NewFromInt(10),
		CashAccountID: suite.account.CashAccountID,
	}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.tenantID, domain.RoleSalesperson).Return(suite.membership, nil).Once()
	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.tenantID, domain.RoleReadOnly).Return(suite.membership, nil).Once()
	suite.mockSettlementRepo.On("FindReceivableByID", ctx, paid.ReceivableID).Return(&paid, nil).Once()

	_, err := suite.service.ApplyReceivablePayment(ctx, suite.tenantID, paid.ReceivableID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockSettlementRepo.AssertNotCalled(suite.T(), "ApplyReceivablePayment", mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestApplyReceivablePayment_NonPositiveAmount() {
	ctx := context.Background()
	req := dto.ApplyPaymentRequest{
		Amount:        decimal.Zero,
		CashAccountID: suite.account.CashAccountID,
	}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.tenantID, domain.RoleSalesperson).Return(suite.membership, nil).Once()

	_, err := suite.service.ApplyReceivablePayment(ctx, suite.tenantID, suite.receivable.ReceivableID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidAmount)
	suite.mockSettlementRepo.AssertNotCalled(suite.T(), "FindReceivableByID", mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestApplyReceivablePayment_AccountWrongTenant() {
	ctx := context.Background()
	foreignAccount := suite.account
	foreignAccount.TenantID = uuid.NewString()
	req := dto.ApplyPaymentRequest{
		Amount:        decimal.NewFromInt(50),
		CashAccountID: foreignAccount.CashAccountID,
	}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.tenantID, domain.RoleSalesperson).Return(suite.membership, nil).Once()
	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.tenantID, domain.RoleReadOnly).Return(suite.membership, nil).Once()
	suite.mockSettlementRepo.On("FindReceivableByID", ctx, suite.receivable.ReceivableID).Return(&suite.receivable, nil).Once()
	suite.mockLedgerRepo.On("FindCashAccountByID", ctx, foreignAccount.CashAccountID).Return(&foreignAccount, nil).Once()

	_, err := suite.service.ApplyReceivablePayment(ctx, suite.tenantID, suite.receivable.ReceivableID, req, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrTenantMismatch)
	suite.mockSettlementRepo.AssertNotCalled(suite.T(), "ApplyReceivablePayment", mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestApplyPayablePayment_Success() {
	ctx := context.Background()
	req := dto.ApplyPaymentRequest{
		Amount:        decimal.NewFromInt(500),
		CashAccountID: suite.account.CashAccountID,
	}
	updated := suite.payable
	updated.RemainingAmount = decimal.Zero
	updated.Status = domain.SettlementPaid

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.tenantID, domain.RoleAdmin).Return(suite.membership, nil).Once()
	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.tenantID, domain.RoleReadOnly).Return(suite.membership, nil).Once()
	suite.mockSettlementRepo.On("FindPayableByID", ctx, suite.payable.PayableID).Return(&suite.payable, nil).Once()
	suite.mockLedgerRepo.On("FindCashAccountByID", ctx, suite.account.CashAccountID).Return(&suite.account, nil).Once()

	suite.mockSettlementRepo.On("ApplyPayablePayment", ctx, mock.MatchedBy(func(commit portsrepo.PaymentCommit) bool {
		// Supplier payment flows out of the cash account.
		return commit.TargetID == suite.payable.PayableID &&
			commit.LedgerEntry.Direction == domain.DirectionOut &&
			commit.LedgerEntry.Amount.Equal(decimal.NewFromInt(500))
	})).Return(&updated, nil).Once()

	result, err := suite.service.ApplyPayablePayment(ctx, suite.tenantID, suite.payable.PayableID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(domain.SettlementPaid, result.Status)
	suite.True(result.RemainingAmount.IsZero())
	suite.mockSettlementRepo.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestGetReceivable_WrongTenant() {
	ctx := context.Background()
	foreign := suite.receivable
	foreign.TenantID = uuid.NewString()

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.tenantID, domain.RoleReadOnly).Return(suite.membership, nil).Once()
	suite.mockSettlementRepo.On("FindReceivableByID", ctx, foreign.ReceivableID).Return(&foreign, nil).Once()

	_, err := suite.service.GetReceivable(ctx, suite.tenantID, foreign.ReceivableID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *SettlementServiceTestSuite) TestListReceivables_StatusFilter() {
	ctx := context.Background()
	open := domain.SettlementOpen
	statusStr := string(open)

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.tenantID, domain.RoleReadOnly).Return(suite.membership, nil).Once()
	suite.mockSettlementRepo.On("ListReceivables", ctx, suite.tenantID, &open, 20, 0).Return([]domain.Receivable{suite.receivable}, nil).Once()

	receivables, err := suite.service.ListReceivables(ctx, suite.tenantID, suite.userID, dto.ListSettlementsParams{Status: &statusStr})

	suite.Require().NoError(err)
	suite.Len(receivables, 1)
	suite.mockSettlementRepo.AssertExpectations(suite.T())
}

func TestSettlementServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SettlementServiceTestSuite))
}

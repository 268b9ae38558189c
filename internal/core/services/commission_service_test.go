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

// --- Mock CommissionRepository ---
type MockCommissionRepository struct {
	mock.Mock
}

// Ensure MockCommissionRepository implements portsrepo.CommissionRepositoryFacade
var _ portsrepo.CommissionRepositoryFacade = (*MockCommissionRepository)(nil)

func (m *MockCommissionRepository) FindCommissionByID(ctx context.Context, commissionID string) (*domain.Commission, error) {
	args := m.Called(ctx, commissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Commission), args.Error(1)
}

func (m *MockCommissionRepository) FindCommissionBySaleID(ctx context.Context, saleID string) (*domain.Commission, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Commission), args.Error(1)
}

func (m *MockCommissionRepository) ListCommissions(ctx context.Context, tenantID string, salespersonID *string, status *domain.CommissionStatus, limit int, offset int) ([]domain.Commission, error) {
	args := m.Called(ctx, tenantID, salespersonID, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Commission), args.Error(1)
}

func (m *MockCommissionRepository) UpdateCommissionStatus(ctx context.Context, commissionID string, status domain.CommissionStatus, userID string, now time.Time) error {
	args := m.Called(ctx, commissionID, status, userID, now)
	return args.Error(0)
}

// --- Test Suite Setup ---
type CommissionServiceTestSuite struct {
	suite.Suite
	mockCommissionRepo *MockCommissionRepository
	mockTenantSvc      *MockTenantAuthorizer
	service            portssvc.CommissionSvcFacade
	tenantID           string
	adminID            string
	salespersonID      string
	adminMembership    *domain.UserTenant
}

func (suite *CommissionServiceTestSuite) SetupTest() {
	suite.mockCommissionRepo = new(MockCommissionRepository)
	suite.mockTenantSvc = new(MockTenantAuthorizer)
	suite.service = services.NewCommissionService(suite.mockCommissionRepo, suite.mockTenantSvc)

	suite.tenantID = uuid.NewString()
	suite.adminID = uuid.NewString()
	suite.salespersonID = uuid.NewString()
	suite.adminMembership = &domain.UserTenant{
		UserID:   suite.adminID,
		TenantID: suite.tenantID,
		Role:     domain.RoleAdmin,
	}
}

func (suite *CommissionServiceTestSuite) pendingCommission() *domain.Commission {
	return &domain.Commission{
		CommissionID:  uuid.NewString(),
		TenantID:      suite.tenantID,
		SaleID:        uuid.NewString(),
		SalespersonID: suite.salespersonID,
		Amount:        decimal.NewFromInt(8),
		Status:        domain.CommissionPending,
	}
}

// --- Test Cases ---

func (suite *CommissionServiceTestSuite) TestMarkCommissionPaid_Success() {
	ctx := context.Background()
	comm := suite.pendingCommission()

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.tenantID, domain.RoleAdmin).Return(suite.adminMembership, nil).Once()
	suite.mockCommissionRepo.On("FindCommissionByID", ctx, comm.CommissionID).Return(comm, nil).Once()
	suite.mockCommissionRepo.On("UpdateCommissionStatus", ctx, comm.CommissionID, domain.CommissionPaid, suite.adminID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.MarkCommissionPaid(ctx, suite.tenantID, comm.CommissionID, suite.adminID)

	suite.Require().NoError(err)
	suite.mockCommissionRepo.AssertExpectations(suite.T())
}

func (suite *CommissionServiceTestSuite) TestMarkCommissionPaid_AlreadyPaid() {
	ctx := context.Background()
	comm := suite.pendingCommission()
	comm.Status = domain.CommissionPaid

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.tenantID, domain.RoleAdmin).Return(suite.adminMembership, nil).Once()
	suite.mockCommissionRepo.On("FindCommissionByID", ctx, comm.CommissionID).Return(comm, nil).Once()

	err := suite.service.MarkCommissionPaid(ctx, suite.tenantID, comm.CommissionID, suite.adminID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidState)
	suite.mockCommissionRepo.AssertNotCalled(suite.T(), "UpdateCommissionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *CommissionServiceTestSuite) TestMarkCommissionPaid_NotAdmin() {
	ctx := context.Background()
	comm := suite.pendingCommission()

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.salespersonID, suite.tenantID, domain.RoleAdmin).Return(nil, apperrors.ErrForbidden).Once()

	err := suite.service.MarkCommissionPaid(ctx, suite.tenantID, comm.CommissionID, suite.salespersonID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockCommissionRepo.AssertNotCalled(suite.T(), "FindCommissionByID", mock.Anything, mock.Anything)
}

func (suite *CommissionServiceTestSuite) TestGetCommission_WrongTenant() {
	ctx := context.Background()
	comm := suite.pendingCommission()
	comm.TenantID = uuid.NewString()

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.tenantID, domain.RoleReadOnly).Return(suite.adminMembership, nil).Once()
	suite.mockCommissionRepo.On("FindCommissionByID", ctx, comm.CommissionID).Return(comm, nil).Once()

	_, err := suite.service.GetCommission(ctx, suite.tenantID, comm.CommissionID, suite.adminID)

	suite.Require().Error(err)
	// Cross-tenant reads look like missing records.
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *CommissionServiceTestSuite) TestListCommissions_Filters() {
	ctx := context.Background()
	pending := string(domain.CommissionPending)
	pendingStatus := domain.CommissionPending
	params := dto.ListCommissionsParams{
		SalespersonID: &suite.salespersonID,
		Status:        &pending,
	}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.adminID, suite.tenantID, domain.RoleReadOnly).Return(suite.adminMembership, nil).Once()
	suite.mockCommissionRepo.On("ListCommissions", ctx, suite.tenantID, &suite.salespersonID, &pendingStatus, 20, 0).Return([]domain.Commission(nil), nil).Once()

	commissions, err := suite.service.ListCommissions(ctx, suite.tenantID, suite.adminID, params)

	suite.Require().NoError(err)
	suite.NotNil(commissions)
	suite.Empty(commissions)
	suite.mockCommissionRepo.AssertExpectations(suite.T())
}

func TestCommissionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CommissionServiceTestSuite))
}

package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mitrakasir/retail_backend_app/internal/apperrors"
	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	portsrepo "github.com/mitrakasir/retail_backend_app/internal/core/ports/repositories"
	portssvc "github.com/mitrakasir/retail_backend_app/internal/core/ports/services"
	"github.com/mitrakasir/retail_backend_app/internal/core/services"
	"github.com/mitrakasir/retail_backend_app/internal/dto"
)

// --- Mock AttendanceRepository ---
type MockAttendanceRepository struct {
	mock.Mock
}

// Ensure MockAttendanceRepository implements portsrepo.AttendanceRepositoryFacade
var _ portsrepo.AttendanceRepositoryFacade = (*MockAttendanceRepository)(nil)

func (m *MockAttendanceRepository) FindOpenAttendance(ctx context.Context, tenantID string, userID string) (*domain.Attendance, error) {
	args := m.Called(ctx, tenantID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Attendance), args.Error(1)
}

func (m *MockAttendanceRepository) ListAttendance(ctx context.Context, tenantID string, userID *string, from, to time.Time) ([]domain.Attendance, error) {
	args := m.Called(ctx, tenantID, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Attendance), args.Error(1)
}

func (m *MockAttendanceRepository) SaveAttendance(ctx context.Context, attendance domain.Attendance) error {
	args := m.Called(ctx, attendance)
	return args.Error(0)
}

func (m *MockAttendanceRepository) CloseAttendance(ctx context.Context, attendanceID string, clockOut time.Time) error {
	args := m.Called(ctx, attendanceID, clockOut)
	return args.Error(0)
}

// --- Test Suite Setup ---
type AttendanceServiceTestSuite struct {
	suite.Suite
	mockAttendanceRepo *MockAttendanceRepository
	mockTenantSvc      *MockTenantAuthorizer
	service            portssvc.AttendanceSvcFacade
	tenantID           string
	userID             string
	membership         *domain.UserTenant
}

func (suite *AttendanceServiceTestSuite) SetupTest() {
	suite.mockAttendanceRepo = new(MockAttendanceRepository)
	suite.mockTenantSvc = new(MockTenantAuthorizer)
	suite.service = services.NewAttendanceService(suite.mockAttendanceRepo, suite.mockTenantSvc)

	suite.tenantID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.membership = &domain.UserTenant{
		UserID:   suite.userID,
		TenantID: suite.tenantID,
		Role:     domain.RoleSalesperson,
	}
}

// --- Test Cases ---

func (suite *AttendanceServiceTestSuite) TestClockIn_Success() {
	ctx := context.Background()

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.tenantID, domain.RoleReadOnly).Return(suite.membership, nil).Once()
	suite.mockAttendanceRepo.On("FindOpenAttendance", ctx, suite.tenantID, suite.userID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAttendanceRepo.On("SaveAttendance", ctx, mock.MatchedBy(func(attendance domain.Attendance) bool {
		return attendance.TenantID == suite.tenantID &&
			attendance.UserID == suite.userID &&
			attendance.ClockOut == nil
	})).Return(nil).Once()

	attendance, err := suite.service.ClockIn(ctx, suite.tenantID, dto.ClockInRequest{Notes: "morning shift"}, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(attendance)
	suite.NotEmpty(attendance.AttendanceID)
	suite.Equal("morning shift", attendance.Notes)
	suite.mockAttendanceRepo.AssertExpectations(suite.T())
}

func (suite *AttendanceServiceTestSuite) TestClockIn_AlreadyOpen() {
	ctx := context.Background()
	open := &domain.Attendance{
		AttendanceID: uuid.NewString(),
		TenantID:     suite.tenantID,
		UserID:       suite.userID,
		ClockIn:      time.Now().Add(-3 * time.Hour),
	}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.tenantID, domain.RoleReadOnly).Return(suite.membership, nil).Once()
	suite.mockAttendanceRepo.On("FindOpenAttendance", ctx, suite.tenantID, suite.userID).Return(open, nil).Once()

	_, err := suite.service.ClockIn(ctx, suite.tenantID, dto.ClockInRequest{}, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockAttendanceRepo.AssertNotCalled(suite.T(), "SaveAttendance", mock.Anything, mock.Anything)
}

func (suite *AttendanceServiceTestSuite) TestClockOut_Success() {
	ctx := context.Background()
	open := &domain.Attendance{
		AttendanceID: uuid.NewString(),
		TenantID:     suite.tenantID,
		UserID:       suite.userID,
		ClockIn:      time.Now().Add(-8 * time.Hour),
	}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.tenantID, domain.RoleReadOnly).Return(suite.membership, nil).Once()
	suite.mockAttendanceRepo.On("FindOpenAttendance", ctx, suite.tenantID, suite.userID).Return(open, nil).Once()
	suite.mockAttendanceRepo.On("CloseAttendance", ctx, open.AttendanceID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	closed, err := suite.service.ClockOut(ctx, suite.tenantID, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(closed.ClockOut)
	suite.mockAttendanceRepo.AssertExpectations(suite.T())
}

func (suite *AttendanceServiceTestSuite) TestClockOut_NoOpenInterval() {
	ctx := context.Background()

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.tenantID, domain.RoleReadOnly).Return(suite.membership, nil).Once()
	suite.mockAttendanceRepo.On("FindOpenAttendance", ctx, suite.tenantID, suite.userID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ClockOut(ctx, suite.tenantID, suite.userID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockAttendanceRepo.AssertNotCalled(suite.T(), "CloseAttendance", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AttendanceServiceTestSuite) TestListAttendance_NonAdminSeesOnlyOwn() {
	ctx := context.Background()
	from := time.Now().AddDate(0, 0, -7)
	to := time.Now()
	otherUser := uuid.NewString()
	params := dto.ListAttendanceParams{UserID: &otherUser, From: from, To: to}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.tenantID, domain.RoleReadOnly).Return(suite.membership, nil).Once()
	// The requested user filter is overridden with the caller's own ID.
	suite.mockAttendanceRepo.On("ListAttendance", ctx, suite.tenantID, &suite.userID, from, to).Return([]domain.Attendance{}, nil).Once()

	_, err := suite.service.ListAttendance(ctx, suite.tenantID, suite.userID, params)

	suite.Require().NoError(err)
	suite.mockAttendanceRepo.AssertExpectations(suite.T())
}

func (suite *AttendanceServiceTestSuite) TestListAttendance_AdminKeepsFilter() {
	ctx := context.Background()
	from := time.Now().AddDate(0, 0, -7)
	to := time.Now()
	otherUser := uuid.NewString()
	adminMembership := &domain.UserTenant{
		UserID:   suite.userID,
		TenantID: suite.tenantID,
		Role:     domain.RoleAdmin,
	}
	params := dto.ListAttendanceParams{UserID: &otherUser, From: from, To: to}

	suite.mockTenantSvc.On("AuthorizeUserAction", ctx, suite.userID, suite.tenantID, domain.RoleReadOnly).Return(adminMembership, nil).Once()
	suite.mockAttendanceRepo.On("ListAttendance", ctx, suite.tenantID, &otherUser, from, to).Return([]domain.Attendance{}, nil).Once()

	_, err := suite.service.ListAttendance(ctx, suite.tenantID, suite.userID, params)

	suite.Require().NoError(err)
	suite.mockAttendanceRepo.AssertExpectations(suite.T())
}

func TestAttendanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AttendanceServiceTestSuite))
}

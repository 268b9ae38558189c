package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/mitrakasir/retail_backend_app/internal/apperrors"
	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	portsrepo "github.com/mitrakasir/retail_backend_app/internal/core/ports/repositories"
	portssvc "github.com/mitrakasir/retail_backend_app/internal/core/ports/services"
	"github.com/mitrakasir/retail_backend_app/internal/dto"
)

// attendanceService tracks employee clock-in/clock-out intervals. At most one
// open interval exists per user per tenant.
type attendanceService struct {
	BaseService
	attendanceRepo portsrepo.AttendanceRepositoryFacade
	tenantSvc      portssvc.TenantAuthorizerSvc
}

// NewAttendanceService creates a new attendance service with the provided dependencies
func NewAttendanceService(attendanceRepo portsrepo.AttendanceRepositoryFacade, tenantSvc portssvc.TenantAuthorizerSvc) portssvc.AttendanceSvcFacade {
	return &attendanceService{
		attendanceRepo: attendanceRepo,
		tenantSvc:      tenantSvc,
	}
}

// Ensure attendanceService implements the AttendanceSvcFacade interface
var _ portssvc.AttendanceSvcFacade = (*attendanceService)(nil)

// ClockIn opens a new attendance interval for the caller. Fails with
// ErrConflict if the caller already has an open interval.
func (s *attendanceService) ClockIn(ctx context.Context, tenantID string, req dto.ClockInRequest, userID string) (*domain.Attendance, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	open, err := s.attendanceRepo.FindOpenAttendance(ctx, tenantID, userID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check for open attendance",
			slog.String("user_id", userID))
		return nil, err
	}
	if open != nil {
		return nil, fmt.Errorf("%w: already clocked in at %s", apperrors.ErrConflict, open.ClockIn.Format(time.RFC3339))
	}

	attendance := domain.Attendance{
		AttendanceID: uuid.NewString(),
		TenantID:     tenantID,
		UserID:       userID,
		ClockIn:      time.Now(),
		Notes:        req.Notes,
	}

	if err := s.attendanceRepo.SaveAttendance(ctx, attendance); err != nil {
		s.LogError(ctx, err, "Failed to save attendance",
			slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to save attendance: %w", err)
	}

	s.LogInfo(ctx, "User clocked in",
		slog.String("attendance_id", attendance.AttendanceID),
		slog.String("user_id", userID))
	return &attendance, nil
}

// ClockOut closes the caller's open interval.
func (s *attendanceService) ClockOut(ctx context.Context, tenantID string, userID string) (*domain.Attendance, error) {
	if _, err := s.tenantSvc.AuthorizeUserAction(ctx, userID, tenantID, domain.RoleReadOnly); err != nil {
		return nil, err
	}

	open, err := s.attendanceRepo.FindOpenAttendance(ctx, tenantID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: no open attendance interval", apperrors.ErrNotFound)
		}
		s.LogError(ctx, err, "Failed to find open attendance",
			slog.String("user_id", userID))
		return nil, err
	}

	now := time.Now()
	if err := s.attendanceRepo.CloseAttendance(ctx, open.AttendanceID, now); err != nil {
		s.LogError(ctx, err, "Failed to close attendance",
			slog.String("attendance_id", open.AttendanceID))
		return nil, fmt.Errorf("failed to close attendance: %w", err)
	}

	open.ClockOut = &now
	s.LogInfo(ctx, "User clocked out",
		slog.String("attendance_id", open.AttendanceID),
		slog.String("user_id", userID))
	return open, nil
}

// ListAttendance retrieves intervals for a tenant within a date range.
// Non-admins only see their own intervals.
func (s *attendanceService) ListAttendance(ctx context.Context, tenantID string, requestingUserID string, params dto.ListAttendanceParams) ([]domain.Attendance, error) {
	membership, err := s.tenantSvc.AuthorizeUserAction(ctx, requestingUserID, tenantID, domain.RoleReadOnly)
	if err != nil {
		return nil, err
	}

	userFilter := params.UserID
	if membership.Role != domain.RoleAdmin {
		userFilter = &requestingUserID
	}

	intervals, err := s.attendanceRepo.ListAttendance(ctx, tenantID, userFilter, params.From, params.To)
	if err != nil {
		s.LogError(ctx, err, "Failed to list attendance",
			slog.String("tenant_id", tenantID))
		return nil, err
	}
	if intervals == nil {
		return []domain.Attendance{}, nil
	}
	return intervals, nil
}

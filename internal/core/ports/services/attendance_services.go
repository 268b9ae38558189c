package services

import (
	"context"

	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	"github.com/mitrakasir/retail_backend_app/internal/dto"
)

// AttendanceSvcFacade tracks employee clock-in/clock-out intervals.
type AttendanceSvcFacade interface {
	ClockIn(ctx context.Context, tenantID string, req dto.ClockInRequest, userID string) (*domain.Attendance, error)
	ClockOut(ctx context.Context, tenantID string, userID string) (*domain.Attendance, error)
	ListAttendance(ctx context.Context, tenantID string, requestingUserID string, params dto.ListAttendanceParams) ([]domain.Attendance, error)
}

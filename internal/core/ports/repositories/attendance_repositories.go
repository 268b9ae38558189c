package repositories

import (
	"context"
	"time"

	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
)

// AttendanceReader defines read operations for attendance data
type AttendanceReader interface {
	// FindOpenAttendance retrieves the user's open interval (no clock-out), if any.
	FindOpenAttendance(ctx context.Context, tenantID string, userID string) (*domain.Attendance, error)

	// ListAttendance retrieves intervals for a tenant within a date range,
	// optionally filtered by user.
	ListAttendance(ctx context.Context, tenantID string, userID *string, from, to time.Time) ([]domain.Attendance, error)
}

// AttendanceWriter defines write operations for attendance data
type AttendanceWriter interface {
	// SaveAttendance persists a new clock-in interval.
	SaveAttendance(ctx context.Context, attendance domain.Attendance) error

	// CloseAttendance sets the clock-out time of an open interval.
	CloseAttendance(ctx context.Context, attendanceID string, clockOut time.Time) error
}

// AttendanceRepositoryFacade combines all attendance-related repository interfaces
type AttendanceRepositoryFacade interface {
	AttendanceReader
	AttendanceWriter
}

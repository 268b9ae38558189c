package dto

import (
	"time"

	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
)

// ClockInRequest opens an attendance interval for the caller.
type ClockInRequest struct {
	Notes string `json:"notes"`
}

// ListAttendanceParams holds filters for listing attendance intervals.
type ListAttendanceParams struct {
	UserID *string   `form:"userID"`
	From   time.Time `form:"from" binding:"required" time_format:"2006-01-02"`
	To     time.Time `form:"to" binding:"required" time_format:"2006-01-02"`
}

// AttendanceResponse is the API shape of one attendance interval.
type AttendanceResponse struct {
	AttendanceID string     `json:"attendanceID"`
	UserID       string     `json:"userID"`
	ClockIn      time.Time  `json:"clockIn"`
	ClockOut     *time.Time `json:"clockOut,omitempty"`
	Notes        string     `json:"notes"`
}

// ToAttendanceResponse converts a domain attendance interval to its API shape.
func ToAttendanceResponse(a *domain.Attendance) AttendanceResponse {
	return AttendanceResponse{
		AttendanceID: a.AttendanceID,
		UserID:       a.UserID,
		ClockIn:      a.ClockIn,
		ClockOut:     a.ClockOut,
		Notes:        a.Notes,
	}
}

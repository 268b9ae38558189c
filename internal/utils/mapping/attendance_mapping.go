package mapping

import (
	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	"github.com/mitrakasir/retail_backend_app/internal/models"
)

// ToModelAttendance converts a domain Attendance to a model Attendance
func ToModelAttendance(d domain.Attendance) models.Attendance {
	return models.Attendance{
		AttendanceID: d.AttendanceID,
		TenantID:     d.TenantID,
		UserID:       d.UserID,
		ClockIn:      d.ClockIn,
		ClockOut:     d.ClockOut,
		Notes:        d.Notes,
	}
}

// ToDomainAttendance converts a model Attendance to a domain Attendance
func ToDomainAttendance(m models.Attendance) domain.Attendance {
	return domain.Attendance{
		AttendanceID: m.AttendanceID,
		TenantID:     m.TenantID,
		UserID:       m.UserID,
		ClockIn:      m.ClockIn,
		ClockOut:     m.ClockOut,
		Notes:        m.Notes,
	}
}

// ToDomainAttendanceSlice converts a slice of model Attendances to a slice of domain Attendances
func ToDomainAttendanceSlice(ms []models.Attendance) []domain.Attendance {
	ds := make([]domain.Attendance, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAttendance(m)
	}
	return ds
}

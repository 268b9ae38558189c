package domain

import "time"

// Attendance is one clock-in/clock-out interval for an employee. At most one
// open interval (ClockOut == nil) exists per user per tenant at a time.
type Attendance struct {
	AttendanceID string     `json:"attendanceID"` // Primary Key (UUID)
	TenantID     string     `json:"tenantID"`     // FK -> tenants.tenant_id (NON-NULL)
	UserID       string     `json:"userID"`
	ClockIn      time.Time  `json:"clockIn"`
	ClockOut     *time.Time `json:"clockOut,omitempty"`
	Notes        string     `json:"notes"`
}

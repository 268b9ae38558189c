package models

import "time"

// Attendance represents one clock-in/clock-out interval row.
type Attendance struct {
	AttendanceID string     `db:"attendance_id"`
	TenantID     string     `db:"tenant_id"`
	UserID       string     `db:"user_id"`
	ClockIn      time.Time  `db:"clock_in"`
	ClockOut     *time.Time `db:"clock_out"` // NULL while the interval is open
	Notes        string     `db:"notes"`
}

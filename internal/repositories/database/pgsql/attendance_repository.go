package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mitrakasir/retail_backend_app/internal/apperrors"
	"github.com/mitrakasir/retail_backend_app/internal/core/domain"
	portsrepo "github.com/mitrakasir/retail_backend_app/internal/core/ports/repositories"
	"github.com/mitrakasir/retail_backend_app/internal/models"
	"github.com/mitrakasir/retail_backend_app/internal/utils/mapping"
)

type PgxAttendanceRepository struct {
	BaseRepository
}

// newPgxAttendanceRepository creates a new repository for attendance intervals.
func newPgxAttendanceRepository(pool *pgxpool.Pool) portsrepo.AttendanceRepositoryFacade {
	return &PgxAttendanceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAttendanceRepository implements portsrepo.AttendanceRepositoryFacade
var _ portsrepo.AttendanceRepositoryFacade = (*PgxAttendanceRepository)(nil)

const attendanceColumns = `attendance_id, tenant_id, user_id, clock_in, clock_out, notes`

func scanAttendance(row pgx.Row) (*models.Attendance, error) {
	var m models.Attendance
	err := row.Scan(
		&m.AttendanceID,
		&m.TenantID,
		&m.UserID,
		&m.ClockIn,
		&m.ClockOut,
		&m.Notes,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveAttendance persists a new clock-in interval.
func (r *PgxAttendanceRepository) SaveAttendance(ctx context.Context, attendance domain.Attendance) error {
	m := mapping.ToModelAttendance(attendance)

	query := `
		INSERT INTO attendances (attendance_id, tenant_id, user_id, clock_in, clock_out, notes)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AttendanceID,
		m.TenantID,
		m.UserID,
		m.ClockIn,
		m.ClockOut,
		m.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to save attendance %s: %w", m.AttendanceID, err)
	}
	return nil
}

// FindOpenAttendance retrieves the user's open interval, if any.
func (r *PgxAttendanceRepository) FindOpenAttendance(ctx context.Context, tenantID string, userID string) (*domain.Attendance, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE tenant_id = $1 AND user_id = $2 AND clock_out IS NULL;
	`
	m, err := scanAttendance(r.Pool.QueryRow(ctx, query, tenantID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find open attendance for user %s: %w", userID, err)
	}

	d := mapping.ToDomainAttendance(*m)
	return &d, nil
}

// CloseAttendance sets the clock-out time of an open interval.
func (r *PgxAttendanceRepository) CloseAttendance(ctx context.Context, attendanceID string, clockOut time.Time) error {
	query := `
		UPDATE attendances
		SET clock_out = $2
		WHERE attendance_id = $1 AND clock_out IS NULL;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, attendanceID, clockOut)
	if err != nil {
		return fmt.Errorf("failed to close attendance %s: %w", attendanceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListAttendance retrieves intervals for a tenant overlapping the given range,
// optionally filtered by user.
func (r *PgxAttendanceRepository) ListAttendance(ctx context.Context, tenantID string, userID *string, from, to time.Time) ([]domain.Attendance, error) {
	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE tenant_id = $1 AND clock_in >= $2 AND clock_in <= $3
	`
	args := []interface{}{tenantID, from, to}
	if userID != nil {
		args = append(args, *userID)
		query += ` AND user_id = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY clock_in DESC;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	intervals := []models.Attendance{}
	for rows.Next() {
		m, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance row for tenant %s: %w", tenantID, err)
		}
		intervals = append(intervals, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attendance rows for tenant %s: %w", tenantID, err)
	}

	return mapping.ToDomainAttendanceSlice(intervals), nil
}

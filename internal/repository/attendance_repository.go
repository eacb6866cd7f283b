package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
)

// AttendanceRepository persists per-slot attendance and participation remarks.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an attendance repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// BulkUpsert writes one record per (slot, student, date) in a single
// transaction, overwriting the status of existing records.
func (r *AttendanceRepository) BulkUpsert(ctx context.Context, records []models.Attendance) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin attendance: %w", err)
	}
	const query = `INSERT INTO attendance (id, schedule_id, student_id, date, status, created_at, updated_at)
        VALUES (:id, :schedule_id, :student_id, :date, :status, :created_at, :updated_at)
        ON CONFLICT (schedule_id, student_id, date)
        DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at`
	now := time.Now().UTC()
	for i := range records {
		if records[i].ID == "" {
			records[i].ID = uuid.NewString()
		}
		records[i].CreatedAt = now
		records[i].UpdatedAt = now
		if _, err := tx.NamedExecContext(ctx, query, records[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("upsert attendance: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit attendance: %w", err)
	}
	return nil
}

// FindByID returns an attendance record by identifier.
func (r *AttendanceRepository) FindByID(ctx context.Context, id string) (*models.Attendance, error) {
	const query = `SELECT id, schedule_id, student_id, date, status, created_at, updated_at FROM attendance WHERE id = $1`
	var record models.Attendance
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find attendance: %w", err)
	}
	return &record, nil
}

// UpsertParticipation sets the remark attached to an attendance record.
func (r *AttendanceRepository) UpsertParticipation(ctx context.Context, p *models.Participation) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO participations (id, attendance_id, remark, updated_at) VALUES (:id, :attendance_id, :remark, :updated_at)
        ON CONFLICT (attendance_id) DO UPDATE SET remark = EXCLUDED.remark, updated_at = EXCLUDED.updated_at
        RETURNING id`
	rows, err := r.db.NamedQueryContext(ctx, query, p)
	if err != nil {
		return fmt.Errorf("upsert participation: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&p.ID); err != nil {
			return fmt.Errorf("scan participation: %w", err)
		}
	}
	return rows.Err()
}

package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
)

// GradeRepository handles subject grade persistence.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository creates a new grade repository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// ListBySchedule returns the grades recorded in a slot with student names.
func (r *GradeRepository) ListBySchedule(ctx context.Context, scheduleID string) ([]models.SubjectGradeRow, error) {
	const query = `SELECT g.id, g.student_id, g.schedule_id, g.ser, g.saber, g.hacer, g.decidir, g.average, g.created_at, g.updated_at,
        u.first_name, u.last_name
        FROM subject_grades g
        JOIN users u ON u.id = g.student_id
        WHERE g.schedule_id = $1
        ORDER BY u.last_name ASC, u.first_name ASC`
	var rows []models.SubjectGradeRow
	if err := r.db.SelectContext(ctx, &rows, query, scheduleID); err != nil {
		return nil, fmt.Errorf("list subject grades: %w", err)
	}
	return rows, nil
}

// BulkUpsert merges the supplied sub-scores into the stored grades in one
// transaction. Nil sub-scores keep the stored value. The average callback
// receives each merged row and its result is stored as the row average.
func (r *GradeRepository) BulkUpsert(ctx context.Context, grades []models.SubjectGrade, average func(models.SubjectGrade) *float64) ([]models.SubjectGrade, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin grades: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const upsert = `INSERT INTO subject_grades (id, student_id, schedule_id, ser, saber, hacer, decidir, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
        ON CONFLICT (student_id, schedule_id) DO UPDATE SET
            ser = COALESCE(EXCLUDED.ser, subject_grades.ser),
            saber = COALESCE(EXCLUDED.saber, subject_grades.saber),
            hacer = COALESCE(EXCLUDED.hacer, subject_grades.hacer),
            decidir = COALESCE(EXCLUDED.decidir, subject_grades.decidir),
            updated_at = EXCLUDED.updated_at
        RETURNING id, student_id, schedule_id, ser, saber, hacer, decidir, average, created_at, updated_at`
	const setAverage = `UPDATE subject_grades SET average = $2 WHERE id = $1`

	now := time.Now().UTC()
	stored := make([]models.SubjectGrade, 0, len(grades))
	for _, g := range grades {
		var merged models.SubjectGrade
		if err := tx.QueryRowxContext(ctx, upsert, uuid.NewString(), g.StudentID, g.ScheduleID, g.Ser, g.Saber, g.Hacer, g.Decidir, now).StructScan(&merged); err != nil {
			return nil, fmt.Errorf("upsert subject grade: %w", err)
		}
		merged.Average = average(merged)
		if _, err := tx.ExecContext(ctx, setAverage, merged.ID, merged.Average); err != nil {
			return nil, fmt.Errorf("store subject grade average: %w", err)
		}
		stored = append(stored, merged)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit grades: %w", err)
	}
	return stored, nil
}

// ReportCard returns the subject grades of a student within a term.
func (r *GradeRepository) ReportCard(ctx context.Context, studentID, termID string) ([]models.ReportCardEntry, error) {
	const query = `SELECT s.id AS schedule_id, ts.subject_id, sub.name AS subject_name, g.ser, g.saber, g.hacer, g.decidir, g.average
        FROM subject_grades g
        JOIN schedules s ON s.id = g.schedule_id
        JOIN teacher_subjects ts ON ts.id = s.teacher_subject_id
        JOIN subjects sub ON sub.id = ts.subject_id
        JOIN classes c ON c.id = s.class_id
        WHERE g.student_id = $1 AND c.term_id = $2
        ORDER BY sub.name ASC, s.id ASC`
	var entries []models.ReportCardEntry
	if err := r.db.SelectContext(ctx, &entries, query, studentID, termID); err != nil {
		return nil, fmt.Errorf("report card: %w", err)
	}
	return entries, nil
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
)

// featureSelect aggregates, per enrolled student of a slot, the mean graded
// exam score and assignment score of the slot's (class, teacher subject)
// scope and the share of "Presente" marks in the slot. Each aggregate is 0
// when the student has no records of that kind.
const featureSelect = `SELECT e.student_id,
        COALESCE((SELECT AVG(er.score) FROM exam_results er
            JOIN exams x ON x.id = er.exam_id
            WHERE er.student_id = e.student_id AND er.score IS NOT NULL
              AND x.class_id = s.class_id AND x.teacher_subject_id = s.teacher_subject_id), 0) AS exam_avg,
        COALESCE((SELECT AVG(sb.score) FROM submissions sb
            JOIN assignments a ON a.id = sb.assignment_id
            WHERE sb.student_id = e.student_id AND sb.score IS NOT NULL
              AND a.class_id = s.class_id AND a.teacher_subject_id = s.teacher_subject_id), 0) AS assignment_avg,
        COALESCE((SELECT AVG(CASE WHEN att.status = 'Presente' THEN 1.0 ELSE 0.0 END) FROM attendance att
            WHERE att.student_id = e.student_id AND att.schedule_id = s.id), 0) AS attendance_pct
        FROM schedules s
        JOIN enrollments e ON e.class_id = s.class_id`

// FeatureRepository reads the activity aggregates fed to the risk model.
type FeatureRepository struct {
	db *sqlx.DB
}

// NewFeatureRepository constructs a feature repository.
func NewFeatureRepository(db *sqlx.DB) *FeatureRepository {
	return &FeatureRepository{db: db}
}

// ForStudent returns the aggregates of one student in one slot. A student
// without enrollment in the slot's class yields sql.ErrNoRows.
func (r *FeatureRepository) ForStudent(ctx context.Context, studentID, scheduleID string) (*models.StudentFeatures, error) {
	query := featureSelect + ` WHERE s.id = $1 AND e.student_id = $2`
	var features models.StudentFeatures
	if err := r.db.GetContext(ctx, &features, query, scheduleID, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("student features: %w", err)
	}
	return &features, nil
}

// ForSchedule returns the aggregates of every enrolled student of a slot keyed by student.
func (r *FeatureRepository) ForSchedule(ctx context.Context, scheduleID string) (map[string]models.StudentFeatures, error) {
	query := featureSelect + ` WHERE s.id = $1`
	var rows []models.StudentFeatures
	if err := r.db.SelectContext(ctx, &rows, query, scheduleID); err != nil {
		return nil, fmt.Errorf("schedule features: %w", err)
	}
	result := make(map[string]models.StudentFeatures, len(rows))
	for _, row := range rows {
		result[row.StudentID] = row
	}
	return result, nil
}

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

const enrollmentColumns = `id, student_id, class_id, score, ser, saber, hacer, decidir, created_at, updated_at`

// EnrollmentRepository persists class enrollments and their legacy scores.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs an enrollment repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// GetOrCreate enrolls a student in a class. created is false when the enrollment existed.
func (r *EnrollmentRepository) GetOrCreate(ctx context.Context, studentID, classID string) (*models.Enrollment, bool, error) {
	now := time.Now().UTC()
	enrollment := models.Enrollment{ID: uuid.NewString(), StudentID: studentID, ClassID: classID, CreatedAt: now, UpdatedAt: now}
	const insert = `INSERT INTO enrollments (id, student_id, class_id, created_at, updated_at) VALUES (:id, :student_id, :class_id, :created_at, :updated_at)
        ON CONFLICT (student_id, class_id) DO NOTHING`
	res, err := r.db.NamedExecContext(ctx, insert, &enrollment)
	if err != nil {
		return nil, false, fmt.Errorf("create enrollment: %w", err)
	}
	if affected, _ := res.RowsAffected(); affected > 0 {
		return &enrollment, true, nil
	}
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE student_id = $1 AND class_id = $2`
	if err := r.db.GetContext(ctx, &enrollment, query, studentID, classID); err != nil {
		return nil, false, fmt.Errorf("find enrollment: %w", err)
	}
	return &enrollment, false, nil
}

// FindByID returns an enrollment by identifier.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, `SELECT `+enrollmentColumns+` FROM enrollments WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find enrollment: %w", err)
	}
	return &enrollment, nil
}

// UpdateScores stores the legacy sub-scores and aggregate score.
func (r *EnrollmentRepository) UpdateScores(ctx context.Context, enrollment *models.Enrollment) error {
	enrollment.UpdatedAt = time.Now().UTC()
	const query = `UPDATE enrollments SET score = :score, ser = :ser, saber = :saber, hacer = :hacer, decidir = :decidir, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("update enrollment scores: %w", err)
	}
	return nil
}

// ListScoresByStudent returns a student's enrollments with class context, latest term first.
func (r *EnrollmentRepository) ListScoresByStudent(ctx context.Context, studentID string) ([]models.EnrollmentScores, error) {
	const query = `SELECT e.id, e.student_id, e.class_id, e.score, e.ser, e.saber, e.hacer, e.decidir, e.created_at, e.updated_at,
        co.level AS course_level, c.section, t.year, t.trimester
        FROM enrollments e
        JOIN classes c ON c.id = e.class_id
        JOIN courses co ON co.id = c.course_id
        JOIN terms t ON t.id = c.term_id
        WHERE e.student_id = $1
        ORDER BY t.year DESC, t.trimester DESC`
	var rows []models.EnrollmentScores
	if err := r.db.SelectContext(ctx, &rows, query, studentID); err != nil {
		return nil, fmt.Errorf("list enrollment scores: %w", err)
	}
	return rows, nil
}

// StudentsOfTeacher returns the distinct students of a teacher's classes in a term.
func (r *EnrollmentRepository) StudentsOfTeacher(ctx context.Context, teacherID, termID string) ([]models.Person, error) {
	const query = `SELECT DISTINCT u.id, u.username, u.first_name, u.last_name, u.email
        FROM schedules s
        JOIN teacher_subjects ts ON ts.id = s.teacher_subject_id
        JOIN classes c ON c.id = s.class_id
        JOIN enrollments e ON e.class_id = c.id
        JOIN users u ON u.id = e.student_id
        WHERE ts.teacher_id = $1 AND c.term_id = $2
        ORDER BY u.last_name ASC, u.first_name ASC`
	var students []models.Person
	if err := r.db.SelectContext(ctx, &students, query, teacherID, termID); err != nil {
		return nil, fmt.Errorf("list teacher students: %w", err)
	}
	return students, nil
}

// IsEnrolled reports whether the student belongs to the class.
func (r *EnrollmentRepository) IsEnrolled(ctx context.Context, studentID, classID string) (bool, error) {
	var ok bool
	const query = `SELECT EXISTS (SELECT 1 FROM enrollments WHERE student_id = $1 AND class_id = $2)`
	if err := r.db.GetContext(ctx, &ok, query, studentID, classID); err != nil {
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return ok, nil
}

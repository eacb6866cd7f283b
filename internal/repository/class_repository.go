package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
)

const classSelect = `SELECT c.id, c.course_id, c.term_id, c.section, co.level AS course_level
        FROM classes c
        JOIN courses co ON co.id = c.course_id`

// ClassRepository manages class offerings and their courses.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a new class repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// ListByTerm returns the classes of a term ordered by level and section.
func (r *ClassRepository) ListByTerm(ctx context.Context, termID string) ([]models.Class, error) {
	query := classSelect + ` WHERE c.term_id = $1 ORDER BY co.level ASC, c.section ASC`
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, termID); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// ListByStudent returns the classes a student is enrolled in for a term.
func (r *ClassRepository) ListByStudent(ctx context.Context, studentID, termID string) ([]models.Class, error) {
	query := classSelect + ` JOIN enrollments e ON e.class_id = c.id
        WHERE e.student_id = $1 AND c.term_id = $2 ORDER BY co.level ASC, c.section ASC`
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, studentID, termID); err != nil {
		return nil, fmt.Errorf("list student classes: %w", err)
	}
	return classes, nil
}

// FindByID returns a class by identifier.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	var class models.Class
	if err := r.db.GetContext(ctx, &class, classSelect+` WHERE c.id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find class: %w", err)
	}
	return &class, nil
}

// Create opens a class offering, creating the course level on first use.
// It reports false when the offering already existed; class is then filled
// with the stored row.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin create class: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const upsertCourse = `INSERT INTO courses (id, level) VALUES ($1, $2)
        ON CONFLICT (level) DO UPDATE SET level = EXCLUDED.level RETURNING id`
	if err := tx.GetContext(ctx, &class.CourseID, upsertCourse, uuid.NewString(), class.CourseLevel); err != nil {
		return false, fmt.Errorf("ensure course: %w", err)
	}

	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	const insertClass = `INSERT INTO classes (id, course_id, term_id, section) VALUES ($1, $2, $3, $4)
        ON CONFLICT (course_id, term_id, section) DO NOTHING`
	res, err := tx.ExecContext(ctx, insertClass, class.ID, class.CourseID, class.TermID, class.Section)
	if err != nil {
		return false, fmt.Errorf("create class: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create class rows: %w", err)
	}
	if affected == 0 {
		const existing = `SELECT id FROM classes WHERE course_id = $1 AND term_id = $2 AND section = $3`
		if err := tx.GetContext(ctx, &class.ID, existing, class.CourseID, class.TermID, class.Section); err != nil {
			return false, fmt.Errorf("find existing class: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit class: %w", err)
	}
	return affected > 0, nil
}

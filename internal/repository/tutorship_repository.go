package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
)

// TutorshipRepository links tutors with their students.
type TutorshipRepository struct {
	db *sqlx.DB
}

// NewTutorshipRepository constructs a tutorship repository.
func NewTutorshipRepository(db *sqlx.DB) *TutorshipRepository {
	return &TutorshipRepository{db: db}
}

// Upsert assigns the tutor of a student, replacing any previous tutor.
func (r *TutorshipRepository) Upsert(ctx context.Context, t *models.Tutorship) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	const query = `INSERT INTO tutorships (id, tutor_id, student_id) VALUES (:id, :tutor_id, :student_id)
        ON CONFLICT (student_id) DO UPDATE SET tutor_id = EXCLUDED.tutor_id`
	if _, err := r.db.NamedExecContext(ctx, query, t); err != nil {
		return fmt.Errorf("upsert tutorship: %w", err)
	}
	return nil
}

// ListTutees returns the students of a tutor.
func (r *TutorshipRepository) ListTutees(ctx context.Context, tutorID string) ([]models.Person, error) {
	const query = `SELECT u.id, u.username, u.first_name, u.last_name, u.email
        FROM tutorships tt
        JOIN users u ON u.id = tt.student_id
        WHERE tt.tutor_id = $1
        ORDER BY u.last_name ASC, u.first_name ASC`
	var students []models.Person
	if err := r.db.SelectContext(ctx, &students, query, tutorID); err != nil {
		return nil, fmt.Errorf("list tutees: %w", err)
	}
	return students, nil
}

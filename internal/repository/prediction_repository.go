package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
)

// PredictionRepository stores performance prediction snapshots.
type PredictionRepository struct {
	db *sqlx.DB
}

// NewPredictionRepository constructs a prediction repository.
func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// Upsert writes the snapshot for (student, subject, term).
func (r *PredictionRepository) Upsert(ctx context.Context, p *models.PerformancePrediction) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	const query = `INSERT INTO performance_predictions (id, student_id, subject_id, term_id, score, category, details, predicted_at)
        VALUES (:id, :student_id, :subject_id, :term_id, :score, :category, CAST(:details AS jsonb), :predicted_at)
        ON CONFLICT (student_id, subject_id, term_id) DO UPDATE SET score = EXCLUDED.score, category = EXCLUDED.category,
            details = EXCLUDED.details, predicted_at = EXCLUDED.predicted_at`
	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		return fmt.Errorf("upsert prediction: %w", err)
	}
	return nil
}

// ListByStudent returns a student's snapshots, newest term first.
func (r *PredictionRepository) ListByStudent(ctx context.Context, studentID string) ([]models.PerformancePrediction, error) {
	const query = `SELECT p.id, p.student_id, p.subject_id, p.term_id, p.score, p.category, COALESCE(p.details::text, '') AS details, p.predicted_at, sub.name AS subject_name
        FROM performance_predictions p
        JOIN subjects sub ON sub.id = p.subject_id
        JOIN terms t ON t.id = p.term_id
        WHERE p.student_id = $1
        ORDER BY t.year DESC, t.trimester DESC, sub.name ASC`
	var items []models.PerformancePrediction
	if err := r.db.SelectContext(ctx, &items, query, studentID); err != nil {
		return nil, fmt.Errorf("list predictions: %w", err)
	}
	return items, nil
}

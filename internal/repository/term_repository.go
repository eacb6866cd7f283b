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

// TermRepository handles persistence for administrative terms.
type TermRepository struct {
	db *sqlx.DB
}

// NewTermRepository instantiates a term repository.
func NewTermRepository(db *sqlx.DB) *TermRepository {
	return &TermRepository{db: db}
}

// List returns every term, latest first.
func (r *TermRepository) List(ctx context.Context) ([]models.Term, error) {
	const query = `SELECT id, year, trimester, created_at FROM terms ORDER BY year DESC, trimester DESC`
	var terms []models.Term
	if err := r.db.SelectContext(ctx, &terms, query); err != nil {
		return nil, fmt.Errorf("list terms: %w", err)
	}
	return terms, nil
}

// Latest returns the maximum (year, trimester) term.
func (r *TermRepository) Latest(ctx context.Context) (*models.Term, error) {
	const query = `SELECT id, year, trimester, created_at FROM terms ORDER BY year DESC, trimester DESC LIMIT 1`
	var term models.Term
	if err := r.db.GetContext(ctx, &term, query); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("latest term: %w", err)
	}
	return &term, nil
}

// FindByID returns a term by identifier.
func (r *TermRepository) FindByID(ctx context.Context, id string) (*models.Term, error) {
	const query = `SELECT id, year, trimester, created_at FROM terms WHERE id = $1`
	var term models.Term
	if err := r.db.GetContext(ctx, &term, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find term: %w", err)
	}
	return &term, nil
}

// Create inserts a term. It reports false when the (year, trimester) pair already existed.
func (r *TermRepository) Create(ctx context.Context, term *models.Term) (bool, error) {
	if term.ID == "" {
		term.ID = uuid.NewString()
	}
	if term.CreatedAt.IsZero() {
		term.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO terms (id, year, trimester, created_at) VALUES (:id, :year, :trimester, :created_at) ON CONFLICT (year, trimester) DO NOTHING`
	res, err := r.db.NamedExecContext(ctx, query, term)
	if err != nil {
		return false, fmt.Errorf("create term: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create term rows: %w", err)
	}
	return affected > 0, nil
}

package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
	appErrors "github.com/noah-isme/sia-rendimiento-api/pkg/errors"
)

type termRepository interface {
	List(ctx context.Context) ([]models.Term, error)
	Latest(ctx context.Context) (*models.Term, error)
	FindByID(ctx context.Context, id string) (*models.Term, error)
	Create(ctx context.Context, term *models.Term) (bool, error)
}

// TermService orchestrates term workflows.
type TermService struct {
	repo      termRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTermService creates a new term service instance. A new term becomes the
// latest one, so creating it clears cached dashboards.
func NewTermService(repo termRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *TermService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TermService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// List returns every term, latest first.
func (s *TermService) List(ctx context.Context) ([]models.Term, error) {
	terms, err := s.repo.List(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list terms")
	}
	return nonNil(terms), nil
}

// Latest returns the term with the highest (year, trimester).
func (s *TermService) Latest(ctx context.Context) (*models.Term, error) {
	term, err := s.repo.Latest(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "No hay gestiones registradas.")
		}
		return nil, internalError(err, "failed to load latest term")
	}
	return term, nil
}

// Create registers a term. A duplicate (year, trimester) is a conflict.
func (s *TermService) Create(ctx context.Context, req models.CreateTermRequest) (*models.Term, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Datos de gestión inválidos.")
	}
	term := &models.Term{Year: req.Year, Trimester: req.Trimester}
	created, err := s.repo.Create(ctx, term)
	if err != nil {
		return nil, internalError(err, "failed to create term")
	}
	if !created {
		return nil, appErrors.Clone(appErrors.ErrConflict, "La gestión ya existe.")
	}
	s.cache.InvalidateDashboards(ctx)
	s.logger.Info("term created", zap.String("term", term.Label()))
	return term, nil
}

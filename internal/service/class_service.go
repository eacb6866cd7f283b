package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
	appErrors "github.com/noah-isme/sia-rendimiento-api/pkg/errors"
)

type classRepository interface {
	ListByTerm(ctx context.Context, termID string) ([]models.Class, error)
	ListByStudent(ctx context.Context, studentID, termID string) ([]models.Class, error)
	Create(ctx context.Context, class *models.Class) (bool, error)
}

// ClassService manages class offerings.
type ClassService struct {
	repo      classRepository
	terms     termReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs ClassService.
func NewClassService(repo classRepository, terms termReader, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{repo: repo, terms: terms, validator: validate, logger: logger}
}

// ListByTerm returns the classes of a term, or of the latest term when termID is empty.
func (s *ClassService) ListByTerm(ctx context.Context, termID string) ([]models.Class, error) {
	term, err := resolveTerm(ctx, s.terms, termID)
	if err != nil {
		return nil, err
	}
	classes, err := s.repo.ListByTerm(ctx, term.ID)
	if err != nil {
		return nil, internalError(err, "failed to list classes")
	}
	return nonNil(classes), nil
}

// StudentClasses returns the classes a student attends in the latest term.
func (s *ClassService) StudentClasses(ctx context.Context, studentID string) ([]models.Class, error) {
	term, err := resolveTerm(ctx, s.terms, "")
	if err != nil {
		return nil, err
	}
	classes, err := s.repo.ListByStudent(ctx, studentID, term.ID)
	if err != nil {
		return nil, internalError(err, "failed to list classes")
	}
	return nonNil(classes), nil
}

// Create opens a class offering. created is false when it already existed.
func (s *ClassService) Create(ctx context.Context, req models.CreateClassRequest) (*models.Class, bool, error) {
	req.Section = strings.ToUpper(strings.TrimSpace(req.Section))
	if err := s.validator.Struct(req); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Faltan datos requeridos.")
	}
	if _, err := s.terms.FindByID(ctx, req.TermID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, appErrors.Clone(appErrors.ErrNotFound, "Gestión no encontrada.")
		}
		return nil, false, internalError(err, "failed to load term")
	}
	class := &models.Class{TermID: req.TermID, Section: req.Section, CourseLevel: req.CourseLevel}
	created, err := s.repo.Create(ctx, class)
	if err != nil {
		return nil, false, internalError(err, "failed to create class")
	}
	return class, created, nil
}

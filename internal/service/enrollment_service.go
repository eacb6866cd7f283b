package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
	appErrors "github.com/noah-isme/sia-rendimiento-api/pkg/errors"
)

type enrollmentRepository interface {
	GetOrCreate(ctx context.Context, studentID, classID string) (*models.Enrollment, bool, error)
	StudentsOfTeacher(ctx context.Context, teacherID, termID string) ([]models.Person, error)
}

type tutorshipRepository interface {
	Upsert(ctx context.Context, t *models.Tutorship) error
}

// EnrollmentService enrolls students and links them with tutors.
type EnrollmentService struct {
	repo       enrollmentRepository
	tutorships tutorshipRepository
	users      roleChecker
	classes    classFinder
	terms      termReader
	cache      *CacheService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService. New enrollments and
// tutorships clear cached dashboards.
func NewEnrollmentService(repo enrollmentRepository, tutorships tutorshipRepository, users roleChecker, classes classFinder, terms termReader, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{
		repo:       repo,
		tutorships: tutorships,
		users:      users,
		classes:    classes,
		terms:      terms,
		cache:      cache,
		validator:  validate,
		logger:     logger,
	}
}

// Enroll places a student in a class. created is false when already enrolled.
func (s *EnrollmentService) Enroll(ctx context.Context, req models.EnrollStudentRequest) (*models.Enrollment, bool, error) {
	if req.StudentID == "" || req.ClassID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, msgMissingData)
	}
	isStudent, err := s.users.HasRole(ctx, req.StudentID, models.RoleStudent)
	if err != nil {
		return nil, false, internalError(err, "failed to check student")
	}
	if !isStudent {
		return nil, false, appErrors.Clone(appErrors.ErrNotFound, msgInvalidData)
	}
	if _, err := s.classes.FindByID(ctx, req.ClassID); err != nil {
		return nil, false, notFoundOr(err, msgInvalidData, "failed to load class")
	}
	enrollment, created, err := s.repo.GetOrCreate(ctx, req.StudentID, req.ClassID)
	if err != nil {
		return nil, false, internalError(err, "failed to enroll student")
	}
	if created {
		s.cache.InvalidateDashboards(ctx)
	}
	return enrollment, created, nil
}

// TeacherStudents lists the distinct students a teacher teaches in the latest term.
func (s *EnrollmentService) TeacherStudents(ctx context.Context, teacherID string) ([]models.Person, error) {
	term, err := resolveTerm(ctx, s.terms, "")
	if err != nil {
		return nil, err
	}
	students, err := s.repo.StudentsOfTeacher(ctx, teacherID, term.ID)
	if err != nil {
		return nil, internalError(err, "failed to list students")
	}
	return nonNil(students), nil
}

// CreateTutorship assigns the tutor of a student, replacing any previous one.
func (s *EnrollmentService) CreateTutorship(ctx context.Context, req models.CreateTutorshipRequest) (*models.Tutorship, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, msgMissingData)
	}
	checks := []struct {
		id   string
		role models.UserRole
	}{{req.TutorID, models.RoleTutor}, {req.StudentID, models.RoleStudent}}
	for _, c := range checks {
		ok, err := s.users.HasRole(ctx, c.id, c.role)
		if err != nil {
			return nil, internalError(err, "failed to check user role")
		}
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, msgInvalidData)
		}
	}
	tutorship := &models.Tutorship{TutorID: req.TutorID, StudentID: req.StudentID}
	if err := s.tutorships.Upsert(ctx, tutorship); err != nil {
		return nil, internalError(err, "failed to save tutorship")
	}
	s.cache.InvalidateDashboards(ctx)
	return tutorship, nil
}

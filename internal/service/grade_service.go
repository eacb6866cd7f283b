package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
	appErrors "github.com/noah-isme/sia-rendimiento-api/pkg/errors"
	"github.com/noah-isme/sia-rendimiento-api/pkg/notify"
)

const (
	msgScoreRange   = "Las notas deben estar entre 0 y 100."
	msgSlotNotOwned = "Horario no encontrado o no asignado al profesor."
)

type enrollmentScoreStore interface {
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	UpdateScores(ctx context.Context, enrollment *models.Enrollment) error
	ListScoresByStudent(ctx context.Context, studentID string) ([]models.EnrollmentScores, error)
}

type teacherSlotReader interface {
	FindOwned(ctx context.Context, id, teacherID string) (*models.ScheduleDetail, error)
	Students(ctx context.Context, scheduleID string) ([]models.Person, error)
	TeacherTeachesClass(ctx context.Context, teacherID, classID string) (bool, error)
}

type subjectGradeStore interface {
	ListBySchedule(ctx context.Context, scheduleID string) ([]models.SubjectGradeRow, error)
	BulkUpsert(ctx context.Context, grades []models.SubjectGrade, average func(models.SubjectGrade) *float64) ([]models.SubjectGrade, error)
}

type auditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// GradeService manages legacy enrollment scores and per-slot subject grades.
type GradeService struct {
	enrollments enrollmentScoreStore
	slots       teacherSlotReader
	grades      subjectGradeStore
	audit       auditWriter
	notifier    *NotificationService
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// GradeServiceParams groups constructor dependencies.
type GradeServiceParams struct {
	Enrollments enrollmentScoreStore
	Slots       teacherSlotReader
	Grades      subjectGradeStore
	Audit       auditWriter
	Notifier    *NotificationService
	Cache       *CacheService
	Validator   *validator.Validate
	Logger      *zap.Logger
}

// NewGradeService constructs GradeService.
func NewGradeService(params GradeServiceParams) *GradeService {
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{
		enrollments: params.Enrollments,
		slots:       params.Slots,
		grades:      params.Grades,
		audit:       params.Audit,
		notifier:    params.Notifier,
		cache:       params.Cache,
		validator:   validate,
		logger:      logger,
		now:         time.Now,
	}
}

// UpdateEnrollmentScores applies a partial update of the legacy sub-scores and
// recomputes the enrollment score as their plain mean.
func (s *GradeService) UpdateEnrollmentScores(ctx context.Context, teacherID, enrollmentID string, patch models.ScorePatch) (*models.Enrollment, error) {
	for _, v := range []*float64{patch.Ser, patch.Saber, patch.Hacer, patch.Decidir} {
		if !inScoreRange(v) {
			return nil, appErrors.Clone(appErrors.ErrValidation, msgScoreRange)
		}
	}

	enrollment, err := s.enrollments.FindByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Inscripción no encontrada.")
		}
		return nil, internalError(err, "failed to load enrollment")
	}
	allowed, err := s.slots.TeacherTeachesClass(ctx, teacherID, enrollment.ClassID)
	if err != nil {
		return nil, internalError(err, "failed to check class access")
	}
	if !allowed {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "No autorizado")
	}

	if patch.Ser != nil {
		enrollment.Ser = patch.Ser
	}
	if patch.Saber != nil {
		enrollment.Saber = patch.Saber
	}
	if patch.Hacer != nil {
		enrollment.Hacer = patch.Hacer
	}
	if patch.Decidir != nil {
		enrollment.Decidir = patch.Decidir
	}
	enrollment.Score = ScoresOfEnrollment(*enrollment).AveragePtr(AveragingUnweighted)

	if err := s.enrollments.UpdateScores(ctx, enrollment); err != nil {
		return nil, internalError(err, "failed to update scores")
	}
	s.cache.InvalidateDashboards(ctx)
	return enrollment, nil
}

// ListEnrollmentScores returns every enrollment of a student with its scores.
func (s *GradeService) ListEnrollmentScores(ctx context.Context, studentID string) ([]models.EnrollmentScores, error) {
	items, err := s.enrollments.ListScoresByStudent(ctx, studentID)
	if err != nil {
		return nil, internalError(err, "failed to list enrollment scores")
	}
	return nonNil(items), nil
}

// UpsertSubjectGrades stores the grades of a slot in one transaction, keeps
// omitted sub-scores and refreshes each weighted average. Enrolled students
// are notified afterwards.
func (s *GradeService) UpsertSubjectGrades(ctx context.Context, teacherID, scheduleID string, req models.BulkSubjectGradeRequest) ([]models.SubjectGrade, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Faltan datos requeridos.")
	}
	for _, in := range req.Grades {
		for _, v := range []*float64{in.Ser, in.Saber, in.Hacer, in.Decidir} {
			if !inScoreRange(v) {
				return nil, appErrors.Clone(appErrors.ErrValidation, msgScoreRange)
			}
		}
	}

	slot, err := s.ownedSlot(ctx, scheduleID, teacherID)
	if err != nil {
		return nil, err
	}
	students, err := s.slots.Students(ctx, slot.ID)
	if err != nil {
		return nil, internalError(err, "failed to load students")
	}
	enrolled := make(map[string]struct{}, len(students))
	for _, st := range students {
		enrolled[st.ID] = struct{}{}
	}

	grades := make([]models.SubjectGrade, 0, len(req.Grades))
	position := make(map[string]int, len(req.Grades))
	for _, in := range req.Grades {
		if _, ok := enrolled[in.StudentID]; !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("El alumno %s no está inscrito en la clase.", in.StudentID))
		}
		g := models.SubjectGrade{StudentID: in.StudentID, ScheduleID: slot.ID, Ser: in.Ser, Saber: in.Saber, Hacer: in.Hacer, Decidir: in.Decidir}
		if i, dup := position[in.StudentID]; dup {
			grades[i] = g
			continue
		}
		position[in.StudentID] = len(grades)
		grades = append(grades, g)
	}

	stored, err := s.grades.BulkUpsert(ctx, grades, func(g models.SubjectGrade) *float64 {
		return ScoresOfGrade(g).AveragePtr(AveragingWeighted)
	})
	if err != nil {
		return nil, internalError(err, "failed to store grades")
	}

	s.cache.InvalidateDashboards(ctx)
	s.recordAudit(ctx, teacherID, slot.ID, len(stored))

	recipients := make([]string, len(stored))
	for i, g := range stored {
		recipients[i] = g.StudentID
	}
	s.notifier.NotifyUsers(recipients, notify.Message{
		Title: "Calificaciones actualizadas",
		Body:  fmt.Sprintf("Tus calificaciones de %s han sido actualizadas.", slot.SubjectName),
		Data:  map[string]string{"horario_id": slot.ID, "materia_id": slot.SubjectID},
	})
	return stored, nil
}

// ListSubjectGrades returns the grades of a slot owned by the teacher.
func (s *GradeService) ListSubjectGrades(ctx context.Context, teacherID, scheduleID string) ([]models.SubjectGradeRow, error) {
	slot, err := s.ownedSlot(ctx, scheduleID, teacherID)
	if err != nil {
		return nil, err
	}
	rows, err := s.grades.ListBySchedule(ctx, slot.ID)
	if err != nil {
		return nil, internalError(err, "failed to list grades")
	}
	return nonNil(rows), nil
}

func (s *GradeService) ownedSlot(ctx context.Context, scheduleID, teacherID string) (*models.ScheduleDetail, error) {
	slot, err := s.slots.FindOwned(ctx, scheduleID, teacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, msgSlotNotOwned)
		}
		return nil, internalError(err, "failed to load schedule")
	}
	return slot, nil
}

func (s *GradeService) recordAudit(ctx context.Context, actorID, scheduleID string, count int) {
	if s.audit == nil {
		return
	}
	values, err := json.Marshal(map[string]interface{}{"horario_id": scheduleID, "registros": count})
	if err != nil {
		return
	}
	actor := actorID
	resourceID := scheduleID
	entry := &models.AuditLog{
		UserID:     &actor,
		Action:     models.AuditActionGradesUpdate,
		Resource:   "subject_grades",
		ResourceID: &resourceID,
		NewValues:  string(values),
		CreatedAt:  s.now().UTC(),
	}
	if err := s.audit.CreateAuditLog(ctx, entry); err != nil {
		s.logger.Warn("failed to write grade audit log", zap.String("schedule_id", scheduleID), zap.Error(err))
	}
}

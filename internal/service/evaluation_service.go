package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
	appErrors "github.com/noah-isme/sia-rendimiento-api/pkg/errors"
)

type evaluationStore interface {
	CreateAssignment(ctx context.Context, a *models.Assignment) error
	FindAssignment(ctx context.Context, id string) (*models.Assignment, error)
	CreateExam(ctx context.Context, e *models.Exam) error
	FindExam(ctx context.Context, id string) (*models.Exam, error)
	UpsertSubmission(ctx context.Context, s *models.Submission) error
	FindSubmission(ctx context.Context, id string) (*models.Submission, error)
	GradeSubmission(ctx context.Context, s *models.Submission) error
	UpsertExamResults(ctx context.Context, results []models.ExamResult) error
}

type evaluationSlotReader interface {
	FindOwned(ctx context.Context, id, teacherID string) (*models.ScheduleDetail, error)
	FindTeacherSubject(ctx context.Context, id string) (*models.TeacherSubject, error)
}

type enrollmentChecker interface {
	IsEnrolled(ctx context.Context, studentID, classID string) (bool, error)
}

// EvaluationService manages assignments, exams and their scores, the inputs
// of the risk features.
type EvaluationService struct {
	store       evaluationStore
	slots       evaluationSlotReader
	enrollments enrollmentChecker
	cache       *CacheService
	validator   *validator.Validate
	logger      *zap.Logger
	loc         *time.Location
	now         func() time.Time
}

// NewEvaluationService constructs EvaluationService.
func NewEvaluationService(store evaluationStore, slots evaluationSlotReader, enrollments enrollmentChecker, cache *CacheService, validate *validator.Validate, loc *time.Location, logger *zap.Logger) *EvaluationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &EvaluationService{
		store:       store,
		slots:       slots,
		enrollments: enrollments,
		cache:       cache,
		validator:   validate,
		logger:      logger,
		loc:         loc,
		now:         time.Now,
	}
}

// CreateAssignment sets homework on a slot owned by the teacher.
func (s *EvaluationService) CreateAssignment(ctx context.Context, teacherID, scheduleID string, req models.CreateAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, msgMissingData)
	}
	slot, err := s.slots.FindOwned(ctx, scheduleID, teacherID)
	if err != nil {
		return nil, notFoundOr(err, msgSlotNotOwned, "failed to load schedule")
	}
	dueOn, err := parseISODate(req.DueOn)
	if err != nil {
		return nil, err
	}
	assignment := &models.Assignment{
		TeacherSubjectID: slot.TeacherSubjectID,
		ClassID:          slot.ClassID,
		Title:            strings.TrimSpace(req.Title),
		Description:      req.Description,
		AssignedOn:       s.today(),
		DueOn:            dueOn,
	}
	if req.Deadline != "" {
		deadline, err := time.Parse(time.RFC3339, req.Deadline)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "Fecha límite inválida")
		}
		assignment.Deadline = &deadline
	}
	if err := s.store.CreateAssignment(ctx, assignment); err != nil {
		return nil, internalError(err, "failed to create assignment")
	}
	return assignment, nil
}

// CreateExam schedules an exam on a slot owned by the teacher.
func (s *EvaluationService) CreateExam(ctx context.Context, teacherID, scheduleID string, req models.CreateExamRequest) (*models.Exam, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, msgMissingData)
	}
	slot, err := s.slots.FindOwned(ctx, scheduleID, teacherID)
	if err != nil {
		return nil, notFoundOr(err, msgSlotNotOwned, "failed to load schedule")
	}
	heldOn, err := parseISODate(req.HeldOn)
	if err != nil {
		return nil, err
	}
	exam := &models.Exam{
		TeacherSubjectID: slot.TeacherSubjectID,
		ClassID:          slot.ClassID,
		Title:            strings.TrimSpace(req.Title),
		Description:      req.Description,
		HeldOn:           heldOn,
	}
	if err := s.store.CreateExam(ctx, exam); err != nil {
		return nil, internalError(err, "failed to create exam")
	}
	return exam, nil
}

// Submit records a student's delivery. Resubmitting replaces the file; a
// graded delivery stays graded.
func (s *EvaluationService) Submit(ctx context.Context, studentID, assignmentID string, req models.SubmitAssignmentRequest) (*models.Submission, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, msgMissingData)
	}
	assignment, err := s.store.FindAssignment(ctx, assignmentID)
	if err != nil {
		return nil, notFoundOr(err, "Tarea no encontrada.", "failed to load assignment")
	}
	enrolled, err := s.enrollments.IsEnrolled(ctx, studentID, assignment.ClassID)
	if err != nil {
		return nil, internalError(err, "failed to check enrollment")
	}
	if !enrolled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "No autorizado")
	}
	now := s.now().UTC()
	if assignment.Deadline != nil && now.After(*assignment.Deadline) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "El plazo de entrega ha vencido.")
	}
	file := strings.TrimSpace(req.FilePath)
	submission := &models.Submission{
		AssignmentID: assignment.ID,
		StudentID:    studentID,
		SubmittedAt:  &now,
		FilePath:     &file,
		Status:       models.SubmissionDelivered,
	}
	if err := s.store.UpsertSubmission(ctx, submission); err != nil {
		return nil, internalError(err, "failed to save submission")
	}
	s.cache.InvalidateDashboards(ctx)
	return submission, nil
}

// GradeSubmission scores a delivery of an assignment the teacher set.
func (s *EvaluationService) GradeSubmission(ctx context.Context, teacherID, submissionID string, req models.GradeSubmissionRequest) (*models.Submission, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, msgMissingData)
	}
	if !inScoreRange(req.Score) {
		return nil, appErrors.Clone(appErrors.ErrValidation, msgScoreRange)
	}
	submission, err := s.store.FindSubmission(ctx, submissionID)
	if err != nil {
		return nil, notFoundOr(err, "Entrega no encontrada.", "failed to load submission")
	}
	assignment, err := s.store.FindAssignment(ctx, submission.AssignmentID)
	if err != nil {
		return nil, notFoundOr(err, "Tarea no encontrada.", "failed to load assignment")
	}
	if err := s.ensureTeaches(ctx, teacherID, assignment.TeacherSubjectID); err != nil {
		return nil, err
	}
	submission.Score = req.Score
	submission.Remark = req.Remark
	if err := s.store.GradeSubmission(ctx, submission); err != nil {
		return nil, internalError(err, "failed to grade submission")
	}
	s.cache.InvalidateDashboards(ctx)
	return submission, nil
}

// RecordExamResults stores graded results of an exam the teacher set.
func (s *EvaluationService) RecordExamResults(ctx context.Context, teacherID, examID string, req models.RecordExamResultsRequest) ([]models.ExamResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, msgMissingData)
	}
	for _, in := range req.Results {
		if !inScoreRange(in.Score) {
			return nil, appErrors.Clone(appErrors.ErrValidation, msgScoreRange)
		}
	}
	exam, err := s.store.FindExam(ctx, examID)
	if err != nil {
		return nil, notFoundOr(err, "Examen no encontrado.", "failed to load exam")
	}
	if err := s.ensureTeaches(ctx, teacherID, exam.TeacherSubjectID); err != nil {
		return nil, err
	}

	results := make([]models.ExamResult, 0, len(req.Results))
	for _, in := range req.Results {
		enrolled, err := s.enrollments.IsEnrolled(ctx, in.StudentID, exam.ClassID)
		if err != nil {
			return nil, internalError(err, "failed to check enrollment")
		}
		if !enrolled {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("El alumno %s no está inscrito en la clase.", in.StudentID))
		}
		results = append(results, models.ExamResult{
			ExamID:    exam.ID,
			StudentID: in.StudentID,
			Score:     in.Score,
			Status:    models.ExamResultGraded,
			Remark:    in.Remark,
		})
	}
	if err := s.store.UpsertExamResults(ctx, results); err != nil {
		return nil, internalError(err, "failed to save exam results")
	}
	s.cache.InvalidateDashboards(ctx)
	return results, nil
}

func (s *EvaluationService) ensureTeaches(ctx context.Context, teacherID, teacherSubjectID string) error {
	ts, err := s.slots.FindTeacherSubject(ctx, teacherSubjectID)
	if err != nil {
		return notFoundOr(err, msgInvalidData, "failed to load teacher subject")
	}
	if ts.TeacherID != teacherID {
		return appErrors.Clone(appErrors.ErrForbidden, "No autorizado")
	}
	return nil
}

func (s *EvaluationService) today() time.Time {
	now := s.now().In(s.loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func parseISODate(raw string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "Fecha inválida")
	}
	return date, nil
}

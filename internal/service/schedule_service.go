package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
	"github.com/noah-isme/sia-rendimiento-api/internal/repository"
	appErrors "github.com/noah-isme/sia-rendimiento-api/pkg/errors"
)

const (
	msgMissingData = "Faltan datos requeridos."
	msgInvalidData = "Datos inválidos."
)

type scheduleRepository interface {
	GetOrCreateTeacherSubject(ctx context.Context, teacherID, subjectID string) (*models.TeacherSubject, bool, error)
	FindTeacherSubject(ctx context.Context, id string) (*models.TeacherSubject, error)
	GetOrCreate(ctx context.Context, slot *models.Schedule, days []models.Weekday, periods []models.PeriodInput) (bool, error)
	FindDetail(ctx context.Context, id string) (*models.ScheduleDetail, error)
	FindOwned(ctx context.Context, id, teacherID string) (*models.ScheduleDetail, error)
	List(ctx context.Context, filter repository.ScheduleFilter) ([]models.ScheduleDetail, error)
	LoadTimes(ctx context.Context, slots []models.ScheduleDetail) error
	Students(ctx context.Context, scheduleID string) ([]models.Person, error)
}

type roleChecker interface {
	HasRole(ctx context.Context, id string, role models.UserRole) (bool, error)
}

type subjectFinder interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

type classFinder interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

// ScheduleService manages teacher-subject assignments and schedule slots.
type ScheduleService struct {
	repo      scheduleRepository
	users     roleChecker
	subjects  subjectFinder
	classes   classFinder
	terms     termReader
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// ScheduleServiceParams groups constructor dependencies.
type ScheduleServiceParams struct {
	Repo      scheduleRepository
	Users     roleChecker
	Subjects  subjectFinder
	Classes   classFinder
	Terms     termReader
	Cache     *CacheService
	Validator *validator.Validate
	Logger    *zap.Logger
}

// NewScheduleService constructs ScheduleService.
func NewScheduleService(params ScheduleServiceParams) *ScheduleService {
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		repo:      params.Repo,
		users:     params.Users,
		subjects:  params.Subjects,
		classes:   params.Classes,
		terms:     params.Terms,
		cache:     params.Cache,
		validator: validate,
		logger:    logger,
	}
}

// AssignSubject links a subject to a teacher. created is false when the link existed.
func (s *ScheduleService) AssignSubject(ctx context.Context, req models.AssignSubjectRequest) (*models.TeacherSubject, bool, error) {
	if req.TeacherID == "" || req.SubjectID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, msgMissingData)
	}
	isTeacher, err := s.users.HasRole(ctx, req.TeacherID, models.RoleTeacher)
	if err != nil {
		return nil, false, internalError(err, "failed to check teacher")
	}
	if !isTeacher {
		return nil, false, appErrors.Clone(appErrors.ErrNotFound, msgInvalidData)
	}
	if _, err := s.subjects.FindByID(ctx, req.SubjectID); err != nil {
		return nil, false, notFoundOr(err, msgInvalidData, "failed to load subject")
	}
	ts, created, err := s.repo.GetOrCreateTeacherSubject(ctx, req.TeacherID, req.SubjectID)
	if err != nil {
		return nil, false, internalError(err, "failed to assign subject")
	}
	return ts, created, nil
}

// AssignSchedule pairs a teacher-subject with a class and merges the given
// weekdays and periods into the slot. created is false when the slot existed.
func (s *ScheduleService) AssignSchedule(ctx context.Context, req models.AssignScheduleRequest) (*models.ScheduleDetail, bool, error) {
	if req.ClassID == "" || req.TeacherSubjectID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, msgMissingData)
	}
	days, err := parseDays(req.Days)
	if err != nil {
		return nil, false, err
	}
	for _, p := range req.Periods {
		if err := s.validatePeriod(p); err != nil {
			return nil, false, err
		}
	}
	if _, err := s.classes.FindByID(ctx, req.ClassID); err != nil {
		return nil, false, notFoundOr(err, msgInvalidData, "failed to load class")
	}
	if _, err := s.repo.FindTeacherSubject(ctx, req.TeacherSubjectID); err != nil {
		return nil, false, notFoundOr(err, msgInvalidData, "failed to load teacher subject")
	}

	slot := &models.Schedule{ClassID: req.ClassID, TeacherSubjectID: req.TeacherSubjectID}
	created, err := s.repo.GetOrCreate(ctx, slot, days, req.Periods)
	if err != nil {
		return nil, false, internalError(err, "failed to assign schedule")
	}
	if created {
		s.cache.InvalidateDashboards(ctx)
	}
	detail, err := s.repo.FindDetail(ctx, slot.ID)
	if err != nil {
		return nil, false, internalError(err, "failed to load schedule")
	}
	loaded := []models.ScheduleDetail{*detail}
	if err := s.repo.LoadTimes(ctx, loaded); err != nil {
		return nil, false, internalError(err, "failed to load schedule times")
	}
	return &loaded[0], created, nil
}

// TeacherSchedules lists the slots of a teacher in a term, defaulting to the latest.
func (s *ScheduleService) TeacherSchedules(ctx context.Context, teacherID, termID string) ([]models.ScheduleDetail, error) {
	term, err := resolveTerm(ctx, s.terms, termID)
	if err != nil {
		return nil, err
	}
	return s.listWithTimes(ctx, repository.ScheduleFilter{TeacherID: teacherID, TermID: term.ID})
}

// StudentSchedules lists the slots of a student's classes in the latest term.
func (s *ScheduleService) StudentSchedules(ctx context.Context, studentID string) ([]models.ScheduleDetail, error) {
	term, err := resolveTerm(ctx, s.terms, "")
	if err != nil {
		return nil, err
	}
	return s.listWithTimes(ctx, repository.ScheduleFilter{StudentID: studentID, TermID: term.ID})
}

// SlotStudents returns the students of a slot owned by the teacher.
func (s *ScheduleService) SlotStudents(ctx context.Context, teacherID, scheduleID string) ([]models.Person, error) {
	if _, err := s.repo.FindOwned(ctx, scheduleID, teacherID); err != nil {
		return nil, notFoundOr(err, msgSlotNotOwned, "failed to load schedule")
	}
	students, err := s.repo.Students(ctx, scheduleID)
	if err != nil {
		return nil, internalError(err, "failed to list students")
	}
	return nonNil(students), nil
}

// SubjectStudents returns the students the teacher teaches a subject to in a term.
func (s *ScheduleService) SubjectStudents(ctx context.Context, teacherID, subjectID, termID string) ([]models.Person, error) {
	if subjectID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "materia_id es requerido.")
	}
	term, err := resolveTerm(ctx, s.terms, termID)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Gestión no encontrada.")
		}
		return nil, err
	}
	slots, err := s.repo.List(ctx, repository.ScheduleFilter{TeacherID: teacherID, SubjectID: subjectID, TermID: term.ID})
	if err != nil {
		return nil, internalError(err, "failed to load schedules")
	}
	if len(slots) == 0 {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "No tienes asignada esa materia.")
	}

	seen := make(map[string]struct{})
	students := make([]models.Person, 0)
	for _, slot := range slots {
		people, err := s.repo.Students(ctx, slot.ID)
		if err != nil {
			return nil, internalError(err, "failed to list students")
		}
		for _, p := range people {
			if _, ok := seen[p.ID]; ok {
				continue
			}
			seen[p.ID] = struct{}{}
			students = append(students, p)
		}
	}
	sort.SliceStable(students, func(i, j int) bool {
		if students[i].LastName != students[j].LastName {
			return students[i].LastName < students[j].LastName
		}
		return students[i].FirstName < students[j].FirstName
	})
	return students, nil
}

func (s *ScheduleService) listWithTimes(ctx context.Context, filter repository.ScheduleFilter) ([]models.ScheduleDetail, error) {
	slots, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to list schedules")
	}
	slots = nonNil(slots)
	if err := s.repo.LoadTimes(ctx, slots); err != nil {
		return nil, internalError(err, "failed to load schedule times")
	}
	return slots, nil
}

func (s *ScheduleService) validatePeriod(p models.PeriodInput) error {
	if err := s.validator.Struct(p); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, msgMissingData)
	}
	start, okStart := parseClock(p.StartsAt)
	end, okEnd := parseClock(p.EndsAt)
	if !okStart || !okEnd || !end.After(start) {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("Periodo %d inválido.", p.Number))
	}
	return nil
}

func parseDays(names []string) ([]models.Weekday, error) {
	days := make([]models.Weekday, 0, len(names))
	seen := make(map[models.Weekday]struct{}, len(names))
	for _, name := range names {
		day, ok := models.ParseWeekday(name)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("Día inválido: %s", name))
		}
		if _, dup := seen[day]; dup {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	return days, nil
}

func parseClock(raw string) (time.Time, bool) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func notFoundOr(err error, notFound, internal string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return internalError(err, internal)
}

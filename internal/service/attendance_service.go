package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
	appErrors "github.com/noah-isme/sia-rendimiento-api/pkg/errors"
)

type attendanceStore interface {
	BulkUpsert(ctx context.Context, records []models.Attendance) error
	FindByID(ctx context.Context, id string) (*models.Attendance, error)
	UpsertParticipation(ctx context.Context, p *models.Participation) error
}

type ownedSlotReader interface {
	FindOwned(ctx context.Context, id, teacherID string) (*models.ScheduleDetail, error)
	Students(ctx context.Context, scheduleID string) ([]models.Person, error)
}

// AttendanceService records per-slot attendance and participation remarks.
type AttendanceService struct {
	records   attendanceStore
	slots     ownedSlotReader
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	loc       *time.Location
	now       func() time.Time
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(records attendanceStore, slots ownedSlotReader, cache *CacheService, validate *validator.Validate, loc *time.Location, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	if err := RegisterValidations(validate); err != nil {
		logger.Error("failed to register attendance validations", zap.Error(err))
	}
	return &AttendanceService{records: records, slots: slots, cache: cache, validator: validate, logger: logger, loc: loc, now: time.Now}
}

// RegisterValidations adds the custom tags used by attendance requests.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		return models.AttendanceStatus(fl.Field().String()).Valid()
	})
}

// Record upserts one mark per student for the slot and date. An empty date
// means today and an empty status means Presente.
func (s *AttendanceService) Record(ctx context.Context, teacherID, scheduleID string, req models.RecordAttendanceRequest) (int, error) {
	slot, err := s.slots.FindOwned(ctx, scheduleID, teacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, appErrors.Clone(appErrors.ErrNotFound, "Horario no encontrado")
		}
		return 0, internalError(err, "failed to load schedule")
	}

	date, err := s.resolveDate(req.Date)
	if err != nil {
		return 0, err
	}
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Datos de asistencia inválidos.")
	}

	students, err := s.slots.Students(ctx, slot.ID)
	if err != nil {
		return 0, internalError(err, "failed to load students")
	}
	enrolled := make(map[string]struct{}, len(students))
	for _, st := range students {
		enrolled[st.ID] = struct{}{}
	}

	records := make([]models.Attendance, 0, len(req.Items))
	seen := make(map[string]int, len(req.Items))
	for _, item := range req.Items {
		if _, ok := enrolled[item.StudentID]; !ok {
			return 0, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("El alumno %s no está inscrito en la clase.", item.StudentID))
		}
		status := item.Status
		if status == "" {
			status = models.AttendancePresent
		}
		record := models.Attendance{ScheduleID: slot.ID, StudentID: item.StudentID, Date: date, Status: status}
		if i, dup := seen[item.StudentID]; dup {
			records[i] = record
			continue
		}
		seen[item.StudentID] = len(records)
		records = append(records, record)
	}
	if len(records) == 0 {
		return 0, nil
	}

	if err := s.records.BulkUpsert(ctx, records); err != nil {
		return 0, internalError(err, "failed to record attendance")
	}
	s.cache.InvalidateDashboards(ctx)
	s.logger.Info("attendance recorded",
		zap.String("schedule_id", slot.ID),
		zap.String("date", date.Format("2006-01-02")),
		zap.Int("records", len(records)))
	return len(records), nil
}

// Participation sets the remark of an attendance record in a slot the teacher owns.
func (s *AttendanceService) Participation(ctx context.Context, teacherID, attendanceID string, req models.ParticipationRequest) (*models.Participation, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Faltan datos requeridos.")
	}
	record, err := s.records.FindByID(ctx, attendanceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Asistencia no encontrada")
		}
		return nil, internalError(err, "failed to load attendance")
	}
	if _, err := s.slots.FindOwned(ctx, record.ScheduleID, teacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Asistencia no encontrada")
		}
		return nil, internalError(err, "failed to load schedule")
	}

	participation := &models.Participation{AttendanceID: record.ID, Remark: req.Remark}
	if err := s.records.UpsertParticipation(ctx, participation); err != nil {
		return nil, internalError(err, "failed to save participation")
	}
	return participation, nil
}

func (s *AttendanceService) resolveDate(raw string) (time.Time, error) {
	if raw == "" {
		now := s.now().In(s.loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return parseISODate(raw)
}

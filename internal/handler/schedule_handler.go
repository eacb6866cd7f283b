package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
	appErrors "github.com/noah-isme/sia-rendimiento-api/pkg/errors"
	"github.com/noah-isme/sia-rendimiento-api/pkg/response"
)

type scheduleService interface {
	AssignSubject(ctx context.Context, req models.AssignSubjectRequest) (*models.TeacherSubject, bool, error)
	AssignSchedule(ctx context.Context, req models.AssignScheduleRequest) (*models.ScheduleDetail, bool, error)
	TeacherSchedules(ctx context.Context, teacherID, termID string) ([]models.ScheduleDetail, error)
	StudentSchedules(ctx context.Context, studentID string) ([]models.ScheduleDetail, error)
	SlotStudents(ctx context.Context, teacherID, scheduleID string) ([]models.Person, error)
	SubjectStudents(ctx context.Context, teacherID, subjectID, termID string) ([]models.Person, error)
}

// ScheduleHandler exposes teaching assignments and schedule slots.
type ScheduleHandler struct {
	service scheduleService
}

// NewScheduleHandler constructs a schedule handler.
func NewScheduleHandler(svc scheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// AssignSubject godoc
// @Summary Assign a subject to a teacher
// @Tags Schedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.AssignSubjectRequest true "Assignment"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Router /teacher-subjects [post]
func (h *ScheduleHandler) AssignSubject(c *gin.Context) {
	var req models.AssignSubjectRequest
	if !bindJSON(c, &req) {
		return
	}
	assignment, created, err := h.service.AssignSubject(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	getOrCreated(c, assignment, created)
}

// AssignSchedule godoc
// @Summary Create a schedule slot
// @Description Pairs a class offering with a teacher assignment and its periods
// @Tags Schedules
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.AssignScheduleRequest true "Schedule slot"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Router /schedules [post]
func (h *ScheduleHandler) AssignSchedule(c *gin.Context) {
	var req models.AssignScheduleRequest
	if !bindJSON(c, &req) {
		return
	}
	slot, created, err := h.service.AssignSchedule(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	getOrCreated(c, slot, created)
}

// TeacherSchedules godoc
// @Summary Schedule slots of the calling teacher
// @Tags Schedules
// @Produce json
// @Security BearerAuth
// @Param gestion_id query string false "Term ID, latest when omitted"
// @Success 200 {object} response.Envelope
// @Router /teachers/me/schedules [get]
func (h *ScheduleHandler) TeacherSchedules(c *gin.Context) {
	teacherID, ok := callerID(c)
	if !ok {
		return
	}
	slots, err := h.service.TeacherSchedules(c.Request.Context(), teacherID, strings.TrimSpace(c.Query("gestion_id")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// StudentSchedules godoc
// @Summary Schedule slots of the calling student
// @Tags Schedules
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /students/me/schedules [get]
func (h *ScheduleHandler) StudentSchedules(c *gin.Context) {
	studentID, ok := callerID(c)
	if !ok {
		return
	}
	slots, err := h.service.StudentSchedules(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// SlotStudents godoc
// @Summary Students enrolled in a slot
// @Tags Schedules
// @Produce json
// @Security BearerAuth
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /schedules/{id}/students [get]
func (h *ScheduleHandler) SlotStudents(c *gin.Context) {
	teacherID, ok := callerID(c)
	if !ok {
		return
	}
	students, err := h.service.SlotStudents(c.Request.Context(), teacherID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// SubjectStudents godoc
// @Summary Students the calling teacher has in a subject
// @Tags Schedules
// @Produce json
// @Security BearerAuth
// @Param materia_id query string true "Subject ID"
// @Param gestion_id query string false "Term ID, latest when omitted"
// @Success 200 {object} response.Envelope
// @Router /teachers/me/subject-students [get]
func (h *ScheduleHandler) SubjectStudents(c *gin.Context) {
	teacherID, ok := callerID(c)
	if !ok {
		return
	}
	subjectID := strings.TrimSpace(c.Query("materia_id"))
	if subjectID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "materia_id es requerido."))
		return
	}
	students, err := h.service.SubjectStudents(c.Request.Context(), teacherID, subjectID, strings.TrimSpace(c.Query("gestion_id")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

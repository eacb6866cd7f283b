package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
	"github.com/noah-isme/sia-rendimiento-api/pkg/response"
)

type attendanceService interface {
	Record(ctx context.Context, teacherID, scheduleID string, req models.RecordAttendanceRequest) (int, error)
	Participation(ctx context.Context, teacherID, attendanceID string, req models.ParticipationRequest) (*models.Participation, error)
}

// AttendanceHandler exposes attendance marks and participation notes.
type AttendanceHandler struct {
	service attendanceService
}

// NewAttendanceHandler constructs an attendance handler.
func NewAttendanceHandler(svc attendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: svc}
}

// Record godoc
// @Summary Record attendance for a slot
// @Description One mark per student and date; repeating a date overwrites the previous status
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Schedule ID"
// @Param payload body models.RecordAttendanceRequest true "Marks"
// @Success 201 {object} response.Envelope
// @Success 200 {object} response.Envelope "Empty list, nothing stored"
// @Failure 404 {object} response.Envelope
// @Router /schedules/{id}/attendance [post]
func (h *AttendanceHandler) Record(c *gin.Context) {
	teacherID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.RecordAttendanceRequest
	if !bindJSON(c, &req) {
		return
	}
	stored, err := h.service.Record(c.Request.Context(), teacherID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	status := http.StatusCreated
	if stored == 0 {
		status = http.StatusOK
	}
	response.Detail(c, status, "Asistencia registrada")
}

// Participation godoc
// @Summary Attach a participation note to an attendance mark
// @Tags Attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Attendance ID"
// @Param payload body models.ParticipationRequest true "Note"
// @Success 200 {object} response.Envelope
// @Router /attendance/{id}/participation [put]
func (h *AttendanceHandler) Participation(c *gin.Context) {
	teacherID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.ParticipationRequest
	if !bindJSON(c, &req) {
		return
	}
	note, err := h.service.Participation(c.Request.Context(), teacherID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, note, nil)
}

package handler

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
	appErrors "github.com/noah-isme/sia-rendimiento-api/pkg/errors"
	"github.com/noah-isme/sia-rendimiento-api/pkg/response"
)

type dashboardService interface {
	Teacher(ctx context.Context, teacherID, termID string, trimester int) (*models.TeacherDashboard, bool, error)
	Student(ctx context.Context, studentID string) (*models.StudentDashboard, bool, error)
	Tutor(ctx context.Context, tutorID string) (*models.TutorDashboard, bool, error)
}

// DashboardHandler wires the risk dashboards to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Teacher godoc
// @Summary Teacher dashboard
// @Description At-risk students per owned slot, upcoming classes and pending deliveries
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Param gestion_id query string false "Term ID, latest when omitted"
// @Param trimestre query int false "Restrict to a trimester (1-3)"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /dashboard/teacher [get]
func (h *DashboardHandler) Teacher(c *gin.Context) {
	teacherID, ok := callerID(c)
	if !ok {
		return
	}
	trimester, err := parseTrimester(c.Query("trimestre"))
	if err != nil {
		response.Error(c, err)
		return
	}
	start := time.Now()
	payload, cacheHit, err := h.service.Teacher(c.Request.Context(), teacherID, strings.TrimSpace(c.Query("gestion_id")), trimester)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, start, payload, cacheHit)
}

func parseTrimester(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	trimester, err := strconv.Atoi(raw)
	if err != nil || trimester < 1 || trimester > 3 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "Trimestre inválido.")
	}
	return trimester, nil
}

// Student godoc
// @Summary Student dashboard
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /dashboard/student [get]
func (h *DashboardHandler) Student(c *gin.Context) {
	studentID, ok := callerID(c)
	if !ok {
		return
	}
	start := time.Now()
	payload, cacheHit, err := h.service.Student(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, start, payload, cacheHit)
}

// Tutor godoc
// @Summary Tutor dashboard
// @Tags Dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /dashboard/tutor [get]
func (h *DashboardHandler) Tutor(c *gin.Context) {
	tutorID, ok := callerID(c)
	if !ok {
		return
	}
	start := time.Now()
	payload, cacheHit, err := h.service.Tutor(c.Request.Context(), tutorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondWithMeta(c, start, payload, cacheHit)
}

package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
	appErrors "github.com/noah-isme/sia-rendimiento-api/pkg/errors"
	"github.com/noah-isme/sia-rendimiento-api/pkg/response"
)

type gradeService interface {
	UpdateEnrollmentScores(ctx context.Context, teacherID, enrollmentID string, patch models.ScorePatch) (*models.Enrollment, error)
	ListEnrollmentScores(ctx context.Context, studentID string) ([]models.EnrollmentScores, error)
	UpsertSubjectGrades(ctx context.Context, teacherID, scheduleID string, req models.BulkSubjectGradeRequest) ([]models.SubjectGrade, error)
	ListSubjectGrades(ctx context.Context, teacherID, scheduleID string) ([]models.SubjectGradeRow, error)
}

// GradeHandler exposes competency scores and per-slot grade sheets.
type GradeHandler struct {
	service gradeService
}

// NewGradeHandler constructs a grade handler.
func NewGradeHandler(svc gradeService) *GradeHandler {
	return &GradeHandler{service: svc}
}

// UpdateEnrollmentScores godoc
// @Summary Patch competency sub-scores of an enrollment
// @Description Only the fields present in the body are changed; the plain mean of the present sub-scores is recomputed
// @Tags Grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Enrollment ID"
// @Param payload body object true "Any of nota_ser, nota_saber, nota_hacer, nota_decidir"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /enrollments/{id}/scores [put]
func (h *GradeHandler) UpdateEnrollmentScores(c *gin.Context) {
	teacherID, ok := callerID(c)
	if !ok {
		return
	}
	var raw map[string]json.RawMessage
	if !bindJSON(c, &raw) {
		return
	}
	patch, err := scorePatch(raw)
	if err != nil {
		response.Error(c, err)
		return
	}
	enrollment, err := h.service.UpdateEnrollmentScores(c.Request.Context(), teacherID, c.Param("id"), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}

func scorePatch(raw map[string]json.RawMessage) (models.ScorePatch, error) {
	var patch models.ScorePatch
	for _, field := range models.ScoreFields {
		value, present := raw[string(field)]
		if !present || string(value) == "null" {
			continue
		}
		var score float64
		if err := json.Unmarshal(value, &score); err != nil {
			return patch, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("Valor inválido para %s", field))
		}
		patch.Set(field, score)
	}
	return patch, nil
}

// StudentScores godoc
// @Summary Competency scores of a student
// @Tags Grades
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/enrollment-scores [get]
func (h *GradeHandler) StudentScores(c *gin.Context) {
	h.listScores(c, c.Param("id"))
}

// MyScores godoc
// @Summary Competency scores of the calling student
// @Tags Grades
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /students/me/enrollment-scores [get]
func (h *GradeHandler) MyScores(c *gin.Context) {
	studentID, ok := callerID(c)
	if !ok {
		return
	}
	h.listScores(c, studentID)
}

func (h *GradeHandler) listScores(c *gin.Context, studentID string) {
	scores, err := h.service.ListEnrollmentScores(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, scores, nil)
}

// UpsertSubjectGrades godoc
// @Summary Record per-criterion grades for a slot
// @Tags Grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Schedule ID"
// @Param payload body models.BulkSubjectGradeRequest true "Grades"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schedules/{id}/grades [post]
func (h *GradeHandler) UpsertSubjectGrades(c *gin.Context) {
	teacherID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.BulkSubjectGradeRequest
	if !bindJSON(c, &req) {
		return
	}
	grades, err := h.service.UpsertSubjectGrades(c.Request.Context(), teacherID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grades, nil)
}

// ListSubjectGrades godoc
// @Summary Grade sheet of a slot
// @Tags Grades
// @Produce json
// @Security BearerAuth
// @Param id path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id}/grades [get]
func (h *GradeHandler) ListSubjectGrades(c *gin.Context) {
	teacherID, ok := callerID(c)
	if !ok {
		return
	}
	rows, err := h.service.ListSubjectGrades(c.Request.Context(), teacherID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
	"github.com/noah-isme/sia-rendimiento-api/pkg/response"
)

type evaluationService interface {
	CreateAssignment(ctx context.Context, teacherID, scheduleID string, req models.CreateAssignmentRequest) (*models.Assignment, error)
	CreateExam(ctx context.Context, teacherID, scheduleID string, req models.CreateExamRequest) (*models.Exam, error)
	Submit(ctx context.Context, studentID, assignmentID string, req models.SubmitAssignmentRequest) (*models.Submission, error)
	GradeSubmission(ctx context.Context, teacherID, submissionID string, req models.GradeSubmissionRequest) (*models.Submission, error)
	RecordExamResults(ctx context.Context, teacherID, examID string, req models.RecordExamResultsRequest) ([]models.ExamResult, error)
}

// EvaluationHandler exposes assignments, submissions, exams and their results.
type EvaluationHandler struct {
	service evaluationService
}

// NewEvaluationHandler constructs an evaluation handler.
func NewEvaluationHandler(svc evaluationService) *EvaluationHandler {
	return &EvaluationHandler{service: svc}
}

// CreateAssignment godoc
// @Summary Create an assignment for a slot
// @Tags Evaluations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Schedule ID"
// @Param payload body models.CreateAssignmentRequest true "Assignment"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /schedules/{id}/assignments [post]
func (h *EvaluationHandler) CreateAssignment(c *gin.Context) {
	teacherID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.CreateAssignmentRequest
	if !bindJSON(c, &req) {
		return
	}
	assignment, err := h.service.CreateAssignment(c.Request.Context(), teacherID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// CreateExam godoc
// @Summary Create an exam for a slot
// @Tags Evaluations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Schedule ID"
// @Param payload body models.CreateExamRequest true "Exam"
// @Success 201 {object} response.Envelope
// @Router /schedules/{id}/exams [post]
func (h *EvaluationHandler) CreateExam(c *gin.Context) {
	teacherID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.CreateExamRequest
	if !bindJSON(c, &req) {
		return
	}
	exam, err := h.service.CreateExam(c.Request.Context(), teacherID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, exam)
}

// Submit godoc
// @Summary Submit an assignment
// @Tags Evaluations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Assignment ID"
// @Param payload body models.SubmitAssignmentRequest true "Submission"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /assignments/{id}/submissions [post]
func (h *EvaluationHandler) Submit(c *gin.Context) {
	studentID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.SubmitAssignmentRequest
	if !bindJSON(c, &req) {
		return
	}
	submission, err := h.service.Submit(c.Request.Context(), studentID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, submission, nil)
}

// GradeSubmission godoc
// @Summary Grade a submission
// @Tags Evaluations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Param payload body models.GradeSubmissionRequest true "Grade"
// @Success 200 {object} response.Envelope
// @Router /submissions/{id}/grade [put]
func (h *EvaluationHandler) GradeSubmission(c *gin.Context) {
	teacherID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.GradeSubmissionRequest
	if !bindJSON(c, &req) {
		return
	}
	submission, err := h.service.GradeSubmission(c.Request.Context(), teacherID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, submission, nil)
}

// RecordExamResults godoc
// @Summary Record exam results
// @Tags Evaluations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exam ID"
// @Param payload body models.RecordExamResultsRequest true "Results"
// @Success 200 {object} response.Envelope
// @Router /exams/{id}/results [post]
func (h *EvaluationHandler) RecordExamResults(c *gin.Context) {
	teacherID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.RecordExamResultsRequest
	if !bindJSON(c, &req) {
		return
	}
	results, err := h.service.RecordExamResults(c.Request.Context(), teacherID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, results, nil)
}

package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
	"github.com/noah-isme/sia-rendimiento-api/pkg/response"
)

type enrollmentService interface {
	Enroll(ctx context.Context, req models.EnrollStudentRequest) (*models.Enrollment, bool, error)
	TeacherStudents(ctx context.Context, teacherID string) ([]models.Person, error)
	CreateTutorship(ctx context.Context, req models.CreateTutorshipRequest) (*models.Tutorship, error)
}

// EnrollmentHandler exposes enrollment and tutorship endpoints.
type EnrollmentHandler struct {
	service enrollmentService
}

// NewEnrollmentHandler constructs an enrollment handler.
func NewEnrollmentHandler(svc enrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: svc}
}

// Enroll godoc
// @Summary Enroll a student into a class
// @Tags Enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.EnrollStudentRequest true "Enrollment"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req models.EnrollStudentRequest
	if !bindJSON(c, &req) {
		return
	}
	enrollment, created, err := h.service.Enroll(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	getOrCreated(c, enrollment, created)
}

// TeacherStudents godoc
// @Summary Every student taught by the calling teacher
// @Tags Enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /teachers/me/students [get]
func (h *EnrollmentHandler) TeacherStudents(c *gin.Context) {
	teacherID, ok := callerID(c)
	if !ok {
		return
	}
	students, err := h.service.TeacherStudents(c.Request.Context(), teacherID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// CreateTutorship godoc
// @Summary Link a tutor to a student
// @Tags Enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateTutorshipRequest true "Tutorship"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /tutorships [post]
func (h *EnrollmentHandler) CreateTutorship(c *gin.Context) {
	var req models.CreateTutorshipRequest
	if !bindJSON(c, &req) {
		return
	}
	link, err := h.service.CreateTutorship(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, link)
}

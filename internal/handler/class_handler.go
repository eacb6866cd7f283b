package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
	"github.com/noah-isme/sia-rendimiento-api/pkg/response"
)

type classService interface {
	ListByTerm(ctx context.Context, termID string) ([]models.Class, error)
	StudentClasses(ctx context.Context, studentID string) ([]models.Class, error)
	Create(ctx context.Context, req models.CreateClassRequest) (*models.Class, bool, error)
}

// ClassHandler exposes class offering endpoints.
type ClassHandler struct {
	service classService
}

// NewClassHandler constructs a class handler.
func NewClassHandler(svc classService) *ClassHandler {
	return &ClassHandler{service: svc}
}

// List godoc
// @Summary List classes of a term
// @Tags Academic
// @Produce json
// @Security BearerAuth
// @Param gestion_id query string false "Term ID, latest when omitted"
// @Success 200 {object} response.Envelope
// @Router /classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	classes, err := h.service.ListByTerm(c.Request.Context(), strings.TrimSpace(c.Query("gestion_id")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil)
}

// Create godoc
// @Summary Create class
// @Description Returns 201 when created and 200 when the class already existed
// @Tags Academic
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateClassRequest true "Class"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Router /classes [post]
func (h *ClassHandler) Create(c *gin.Context) {
	var req models.CreateClassRequest
	if !bindJSON(c, &req) {
		return
	}
	class, created, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	getOrCreated(c, class, created)
}

// Mine godoc
// @Summary Classes of the calling student
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /students/me/classes [get]
func (h *ClassHandler) Mine(c *gin.Context) {
	studentID, ok := callerID(c)
	if !ok {
		return
	}
	classes, err := h.service.StudentClasses(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classes, nil)
}

package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
	"github.com/noah-isme/sia-rendimiento-api/pkg/response"
)

type termService interface {
	List(ctx context.Context) ([]models.Term, error)
	Latest(ctx context.Context) (*models.Term, error)
	Create(ctx context.Context, req models.CreateTermRequest) (*models.Term, error)
}

// TermHandler exposes term endpoints.
type TermHandler struct {
	service termService
}

// NewTermHandler constructs a term handler.
func NewTermHandler(svc termService) *TermHandler {
	return &TermHandler{service: svc}
}

// List godoc
// @Summary List terms
// @Description Terms ordered from the most recent
// @Tags Academic
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /terms [get]
func (h *TermHandler) List(c *gin.Context) {
	terms, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, terms, nil)
}

// Latest godoc
// @Summary Latest term
// @Tags Academic
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /terms/latest [get]
func (h *TermHandler) Latest(c *gin.Context) {
	term, err := h.service.Latest(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, term, nil)
}

// Create godoc
// @Summary Create term
// @Tags Academic
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateTermRequest true "Term"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /terms [post]
func (h *TermHandler) Create(c *gin.Context) {
	var req models.CreateTermRequest
	if !bindJSON(c, &req) {
		return
	}
	term, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, term)
}

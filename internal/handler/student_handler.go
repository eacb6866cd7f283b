package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
	"github.com/noah-isme/sia-rendimiento-api/pkg/response"
)

type profileService interface {
	StudentProfile(ctx context.Context, studentID string) (*models.StudentProfile, error)
}

type predictionHistory interface {
	History(ctx context.Context, studentID string) ([]models.PerformancePrediction, error)
}

// StudentHandler exposes per-student performance views.
type StudentHandler struct {
	profiles    profileService
	predictions predictionHistory
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(profiles profileService, predictions predictionHistory) *StudentHandler {
	return &StudentHandler{profiles: profiles, predictions: predictions}
}

// Profile godoc
// @Summary Student performance profile
// @Description Per subject of the latest term: average of weighted grades and predicted category
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /students/{id}/profile [get]
func (h *StudentHandler) Profile(c *gin.Context) {
	profile, err := h.profiles.StudentProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// Predictions godoc
// @Summary Persisted prediction snapshots of a student
// @Tags Students
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/predictions [get]
func (h *StudentHandler) Predictions(c *gin.Context) {
	history, err := h.predictions.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, history, nil)
}

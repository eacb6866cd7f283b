package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
	"github.com/noah-isme/sia-rendimiento-api/internal/service"
	"github.com/noah-isme/sia-rendimiento-api/pkg/response"
)

type reportService interface {
	ReportCard(ctx context.Context, studentID string) (*models.ReportCard, error)
	Export(ctx context.Context, studentID, format, actorID string) (*models.ExportResult, error)
	Download(token string) (*service.ReportDownload, error)
}

// ReportHandler exposes report cards and their exports.
type ReportHandler struct {
	reports reportService
}

// NewReportHandler constructs handler.
func NewReportHandler(reports reportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// MyReportCard godoc
// @Summary Report card of the calling student
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/me/report-card [get]
func (h *ReportHandler) MyReportCard(c *gin.Context) {
	studentID, ok := callerID(c)
	if !ok {
		return
	}
	card, err := h.reports.ReportCard(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, card, nil)
}

// Export godoc
// @Summary Export a student report card
// @Description Renders the report card and returns a signed download URL
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param format query string false "pdf or csv" Enums(pdf, csv)
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /students/{id}/report-card/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	actorID, ok := callerID(c)
	if !ok {
		return
	}
	format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", "pdf")))
	result, err := h.reports.Export(c.Request.Context(), c.Param("id"), format, actorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Download godoc
// @Summary Download an exported file
// @Tags Reports
// @Produce octet-stream
// @Param token path string true "Signed token"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /exports/{token} [get]
func (h *ReportHandler) Download(c *gin.Context) {
	download, err := h.reports.Download(c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close()

	info, err := download.File.Stat()
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Filename))
	c.DataFromReader(http.StatusOK, info.Size(), download.ContentType, download.File, nil)
}

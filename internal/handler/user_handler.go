package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sia-rendimiento-api/internal/models"
	"github.com/noah-isme/sia-rendimiento-api/pkg/response"
)

type userService interface {
	Register(ctx context.Context, role models.UserRole, req models.RegisterUserRequest, actorID string, meta models.LoginRequest) (*models.User, error)
	ListStudents(ctx context.Context, search string, page, pageSize int) ([]models.User, *models.Pagination, error)
	UpdateDeviceToken(ctx context.Context, userID string, req models.DeviceTokenRequest) error
}

// UserHandler handles account endpoints.
type UserHandler struct {
	service userService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc userService) *UserHandler {
	return &UserHandler{service: svc}
}

// RegisterTeacher godoc
// @Summary Register a teacher
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.RegisterUserRequest true "Account"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /users/teachers [post]
func (h *UserHandler) RegisterTeacher(c *gin.Context) { h.register(c, models.RoleTeacher) }

// RegisterStudent godoc
// @Summary Register a student
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.RegisterUserRequest true "Account"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /users/students [post]
func (h *UserHandler) RegisterStudent(c *gin.Context) { h.register(c, models.RoleStudent) }

// RegisterTutor godoc
// @Summary Register a tutor
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.RegisterUserRequest true "Account"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /users/tutors [post]
func (h *UserHandler) RegisterTutor(c *gin.Context) { h.register(c, models.RoleTutor) }

func (h *UserHandler) register(c *gin.Context, role models.UserRole) {
	actorID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.RegisterUserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.service.Register(c.Request.Context(), role, req, actorID, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, user)
}

// ListStudents godoc
// @Summary List students
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Param search query string false "Username or name"
// @Success 200 {object} response.Envelope
// @Router /users/students [get]
func (h *UserHandler) ListStudents(c *gin.Context) {
	users, pagination, err := h.service.ListStudents(c.Request.Context(), c.Query("search"), queryInt(c, "page", 1), queryInt(c, "page_size", 20))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users, pagination)
}

// UpdateDeviceToken godoc
// @Summary Register the caller's push token
// @Tags Users
// @Accept json
// @Security BearerAuth
// @Param payload body models.DeviceTokenRequest true "Token"
// @Success 204
// @Failure 400 {object} response.Envelope
// @Router /users/me/device-token [put]
func (h *UserHandler) UpdateDeviceToken(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.DeviceTokenRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.service.UpdateDeviceToken(c.Request.Context(), userID, req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

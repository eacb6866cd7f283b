package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sia-rendimiento-api/internal/middleware"
	"github.com/noah-isme/sia-rendimiento-api/internal/models"
	appErrors "github.com/noah-isme/sia-rendimiento-api/pkg/errors"
	"github.com/noah-isme/sia-rendimiento-api/pkg/response"
)

const msgMissingData = "Faltan datos requeridos."

// callerID returns the authenticated user id, answering 401 when absent.
func callerID(c *gin.Context) (string, bool) {
	claims := middleware.Claims(c)
	if claims == nil || claims.UserID == "" {
		response.Error(c, appErrors.ErrUnauthorized)
		return "", false
	}
	return claims.UserID, true
}

// bindJSON decodes the body into dst, answering 400 on malformed JSON.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, msgMissingData))
		return false
	}
	return true
}

// getOrCreated answers 201 for a new row and 200 when it already existed.
func getOrCreated(c *gin.Context, data interface{}, created bool) {
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.JSON(c, status, data, nil)
}

func requestMeta(c *gin.Context) models.LoginRequest {
	return models.LoginRequest{IP: c.ClientIP(), UserAgent: c.GetHeader("User-Agent")}
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func respondWithMeta(c *gin.Context, start time.Time, data interface{}, cacheHit bool) {
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, data, nil, middleware.Meta(c, start))
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"poll-service/internal/models"
	"poll-service/internal/services"
	"poll-service/pkg/response"

	"github.com/gin-gonic/gin"
)

func writeError(c *gin.Context, status, code int) {
	c.JSON(status, models.ErrorResponse{
		Code:    status,
		Message: response.Msg(code),
	})
}

// respondError maps a service error to its HTTP status. Internal error text
// never reaches the client.
func respondError(c *gin.Context, err error, notFoundCode int) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, services.ErrNotFound):
		writeError(c, http.StatusNotFound, notFoundCode)
	case errors.Is(err, services.ErrValidation):
		writeError(c, http.StatusBadRequest, response.ErrCodeParamInvalid)
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(c, http.StatusUnauthorized, response.AuthLoginFailed)
	case errors.Is(err, services.ErrTransient):
		writeError(c, http.StatusServiceUnavailable, response.ErrCodeUnavailable)
	default:
		slog.Error("Unhandled error", "path", c.FullPath(), "error", err)
		writeError(c, http.StatusInternalServerError, response.ErrCodeInternal)
	}
}

// idParam parses a positive numeric path parameter.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		writeError(c, http.StatusBadRequest, response.ErrCodeParamInvalid)
		return 0, false
	}
	return uint(id), true
}

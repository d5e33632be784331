package handlers

import (
	"context"
	"net/http"

	"poll-service/internal/api/middleware"
	"poll-service/internal/models"
	"poll-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type Authenticator interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	Logout(ctx context.Context, tokenID string) error
}

type AuthHandler struct {
	authService Authenticator
}

func NewAuthHandler(authService Authenticator) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login godoc
// @Summary Admin login
// @Description Authenticate an administrator and receive a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Admin credentials"
// @Success 200 {object} models.LoginResponse "Login successful - returns JWT token"
// @Failure 400 {object} models.ErrorResponse "Bad request - invalid input data"
// @Failure 401 {object} models.ErrorResponse "Unauthorized - invalid credentials"
// @Failure 429 {object} models.ErrorResponse "Too many login attempts"
// @Failure 503 {object} models.ErrorResponse "Temporarily unavailable"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, response.ErrCodeParamInvalid)
		return
	}

	loginResponse, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, response.AuthLoginFailed)
		return
	}

	c.JSON(http.StatusOK, loginResponse)
}

// Logout godoc
// @Summary Admin logout
// @Description Revoke the bearer token used for this request
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.MessageResponse
// @Failure 401 {object} models.ErrorResponse "Unauthorized"
// @Failure 503 {object} models.ErrorResponse "Temporarily unavailable"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	result, ok := middleware.GetAuthResult(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, response.AuthTokenMissing)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), result.TokenID); err != nil {
		respondError(c, err, response.AuthTokenInvalid)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: response.Msg(response.AuthLoggedOut)})
}

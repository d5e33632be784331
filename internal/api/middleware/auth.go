package middleware

import (
	"context"
	"net/http"

	"poll-service/internal/models"
	"poll-service/internal/services"
	"poll-service/pkg/response"

	"github.com/gin-gonic/gin"
)

const authResultKey = "auth_result"

type Authorizer interface {
	Authorize(ctx context.Context, header string) services.AuthResult
}

type AuthMiddleware struct {
	auth Authorizer
}

func NewAuthMiddleware(auth Authorizer) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// RequireAdmin lets the request through only with a live admin token and
// stores the verdict for the handlers.
func (am *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		result := am.auth.Authorize(c.Request.Context(), c.GetHeader("Authorization"))

		switch result.Status {
		case services.AuthAuthorized:
			c.Set(authResultKey, result)
			c.Next()
			return
		case services.AuthUnavailable:
			abort(c, http.StatusServiceUnavailable, response.ErrCodeUnavailable)
			return
		case services.AuthMissingToken:
			c.Header("WWW-Authenticate", `Bearer realm="admin"`)
			abort(c, http.StatusUnauthorized, response.AuthTokenMissing)
		case services.AuthRevoked:
			c.Header("WWW-Authenticate", `Bearer error="invalid_token"`)
			abort(c, http.StatusUnauthorized, response.AuthTokenRevoked)
		default:
			c.Header("WWW-Authenticate", `Bearer error="invalid_token"`)
			abort(c, http.StatusUnauthorized, response.AuthTokenInvalid)
		}
	}
}

// GetAuthResult returns the verdict stored by RequireAdmin.
func GetAuthResult(c *gin.Context) (services.AuthResult, bool) {
	value, exists := c.Get(authResultKey)
	if !exists {
		return services.AuthResult{}, false
	}
	result, ok := value.(services.AuthResult)
	return result, ok
}

func abort(c *gin.Context, status, code int) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Code:    status,
		Message: response.Msg(code),
	})
}

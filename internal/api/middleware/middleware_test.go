package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"poll-service/internal/cache"
	"poll-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuthorizer struct {
	result services.AuthResult
	header string
}

func (s *stubAuthorizer) Authorize(_ context.Context, header string) services.AuthResult {
	s.header = header
	return s.result
}

func TestRequireAdmin(t *testing.T) {
	cases := []struct {
		name       string
		status     services.AuthStatus
		wantCode   int
		wantHeader bool
	}{
		{"authorized", services.AuthAuthorized, http.StatusOK, false},
		{"missing", services.AuthMissingToken, http.StatusUnauthorized, true},
		{"invalid", services.AuthInvalidToken, http.StatusUnauthorized, true},
		{"revoked", services.AuthRevoked, http.StatusUnauthorized, true},
		{"cache down", services.AuthUnavailable, http.StatusServiceUnavailable, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			stub := &stubAuthorizer{result: services.AuthResult{Status: tc.status, AdminID: 4, TokenID: "jti"}}
			r := gin.New()
			r.GET("/admin", NewAuthMiddleware(stub).RequireAdmin(), func(c *gin.Context) {
				result, ok := GetAuthResult(c)
				if !ok {
					c.Status(http.StatusInternalServerError)
					return
				}
				c.String(http.StatusOK, result.TokenID)
			})

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			req.Header.Set("Authorization", "Bearer abc")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.wantCode, w.Code)
			assert.Equal(t, "Bearer abc", stub.header)
			assert.Equal(t, tc.wantHeader, w.Header().Get("WWW-Authenticate") != "")
			if tc.wantCode == http.StatusOK {
				assert.Equal(t, "jti", w.Body.String())
			}
		})
	}
}

func TestRateLimitIP(t *testing.T) {
	limiter := cache.NewMemoryCounter()
	r := gin.New()
	r.POST("/auth/login", NewRateLimitMiddleware(limiter).RateLimitIP(2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = ip + ":5555"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, send("10.0.0.1").Code)
	w := send("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, send("10.0.0.2").Code)
}

type downLimiter struct{}

func (downLimiter) SlidingWindowAllow(context.Context, string, int, time.Duration) (bool, error) {
	return false, cache.ErrUnavailable
}

func TestRateLimitIPCacheDown(t *testing.T) {
	r := gin.New()
	r.POST("/auth/login", NewRateLimitMiddleware(downLimiter{}).RateLimitIP(2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCORS(t *testing.T) {
	newRouter := func(origins ...string) *gin.Engine {
		r := gin.New()
		r.Use(CORS(origins))
		r.GET("/polls", func(c *gin.Context) { c.Status(http.StatusOK) })
		return r
	}

	t.Run("listed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/polls", nil)
		req.Header.Set("Origin", "https://poll.example.com")
		w := httptest.NewRecorder()
		newRouter("https://poll.example.com").ServeHTTP(w, req)
		assert.Equal(t, "https://poll.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("unlisted origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/polls", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()
		newRouter("https://poll.example.com").ServeHTTP(w, req)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/polls", nil)
		req.Header.Set("Origin", "https://anything.example.com")
		w := httptest.NewRecorder()
		newRouter("*").ServeHTTP(w, req)
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/polls", nil)
		req.Header.Set("Origin", "https://poll.example.com")
		w := httptest.NewRecorder()
		newRouter("*").ServeHTTP(w, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

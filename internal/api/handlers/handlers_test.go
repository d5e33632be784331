package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"poll-service/internal/models"
	"poll-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubCaster struct {
	result   services.VoteResult
	err      error
	optionID uint
	identity string
}

func (s *stubCaster) CastVote(_ context.Context, optionID uint, identity string) (services.VoteResult, error) {
	s.optionID, s.identity = optionID, identity
	return s.result, s.err
}

func serveVote(t *testing.T, caster *stubCaster, path string) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.POST("/options/:option_id/vote", NewVoteHandler(caster).CastVote)

	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.RemoteAddr = "203.0.113.9:4242"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCastVoteResponses(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		caster := &stubCaster{result: services.VoteResult{Accepted: true, Reason: services.ReasonAccepted, VoteID: 11}}
		w := serveVote(t, caster, "/options/5/vote")

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, uint(5), caster.optionID)
		assert.Equal(t, "203.0.113.9", caster.identity)

		var body models.VoteResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, uint(11), body.VoteID)
		assert.NotEmpty(t, body.Message)
	})

	t.Run("rate limited", func(t *testing.T) {
		caster := &stubCaster{result: services.VoteResult{Reason: services.ReasonRateLimited, RetryAfter: 5 * time.Minute}}
		w := serveVote(t, caster, "/options/5/vote")

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "300", w.Header().Get("Retry-After"))
		assert.Contains(t, w.Body.String(), "already voted")
	})

	errorCases := map[string]struct {
		err  error
		want int
	}{
		"not found": {fmt.Errorf("cast vote: %w", services.ErrNotFound), http.StatusNotFound},
		"transient": {fmt.Errorf("cast vote: %w: %w", services.ErrTransient, errors.New("pq: connection refused")), http.StatusServiceUnavailable},
		"unexpected": {errors.New("boom"), http.StatusInternalServerError},
	}
	for name, tc := range errorCases {
		t.Run(name, func(t *testing.T) {
			w := serveVote(t, &stubCaster{err: tc.err}, "/options/5/vote")
			assert.Equal(t, tc.want, w.Code)
			assert.NotContains(t, w.Body.String(), "pq:")
			assert.NotContains(t, w.Body.String(), "boom")
		})
	}

	for _, path := range []string{"/options/abc/vote", "/options/0/vote", "/options/-1/vote"} {
		t.Run("bad id "+path, func(t *testing.T) {
			caster := &stubCaster{}
			w := serveVote(t, caster, path)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Zero(t, caster.optionID, "service must not be called")
		})
	}
}

type stubAuthenticator struct {
	err     error
	revoked string
}

func (s *stubAuthenticator) Login(_ context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &models.LoginResponse{Token: "token-for-" + req.Username}, nil
}

func (s *stubAuthenticator) Logout(_ context.Context, tokenID string) error {
	s.revoked = tokenID
	return s.err
}

func TestLoginResponses(t *testing.T) {
	cases := map[string]struct {
		body string
		err  error
		want int
	}{
		"ok":              {`{"username":"admin","password":"pw"}`, nil, http.StatusOK},
		"bad credentials": {`{"username":"admin","password":"pw"}`, services.ErrInvalidCredentials, http.StatusUnauthorized},
		"cache down":      {`{"username":"admin","password":"pw"}`, fmt.Errorf("login: %w", services.ErrTransient), http.StatusServiceUnavailable},
		"missing field":   {`{"username":"admin"}`, nil, http.StatusBadRequest},
		"not json":        {`username=admin`, nil, http.StatusBadRequest},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			r := gin.New()
			r.POST("/auth/login", NewAuthHandler(&stubAuthenticator{err: tc.err}).Login)

			req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.want, w.Code)
			if tc.want == http.StatusOK {
				assert.Contains(t, w.Body.String(), "token-for-admin")
			}
		})
	}
}

func TestLogoutRequiresAuthResult(t *testing.T) {
	auth := &stubAuthenticator{}
	r := gin.New()
	r.POST("/auth/logout", NewAuthHandler(auth).Logout)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, auth.revoked)
}

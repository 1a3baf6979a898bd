package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	permy_errors "github.com/dev-mohitbeniwal/permy/errors"
	"github.com/dev-mohitbeniwal/permy/middleware"
	"github.com/dev-mohitbeniwal/permy/model"
	"github.com/dev-mohitbeniwal/permy/util"
)

const secret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type reportController struct{}

func (reportController) Show(c *gin.Context) {
	c.String(http.StatusOK, "report")
}

type authorizerFunc func(ctx context.Context, subjectID string, route model.Route) (bool, error)

func (f authorizerFunc) Authorize(ctx context.Context, subjectID string, route model.Route) (bool, error) {
	return f(ctx, subjectID, route)
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := middleware.GenerateToken(secret, " 42 ", time.Minute)
	require.NoError(t, err)

	claims, err := middleware.ParseToken(secret, token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
	assert.NotEmpty(t, claims.ID)

	_, err = middleware.ParseToken("other-secret", token)
	assert.ErrorIs(t, err, permy_errors.ErrInvalidToken)

	_, err = middleware.ParseToken("", token)
	assert.ErrorIs(t, err, permy_errors.ErrMissingAuthSecret)

	_, err = middleware.GenerateToken(secret, "", time.Minute)
	assert.Error(t, err)
}

func TestParseToken_RejectsForeignTokens(t *testing.T) {
	now := time.Now()
	sign := func(claims jwt.RegisteredClaims) string {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{RegisteredClaims: claims}).SignedString([]byte(secret))
		require.NoError(t, err)
		return s
	}

	expired := sign(jwt.RegisteredClaims{Issuer: "permy", Subject: "1", ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute))})
	_, err := middleware.ParseToken(secret, expired)
	assert.ErrorIs(t, err, permy_errors.ErrInvalidToken)

	foreign := sign(jwt.RegisteredClaims{Issuer: "someone", Subject: "1", ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute))})
	_, err = middleware.ParseToken(secret, foreign)
	assert.ErrorIs(t, err, permy_errors.ErrInvalidToken)

	noExpiry := sign(jwt.RegisteredClaims{Issuer: "permy", Subject: "1"})
	_, err = middleware.ParseToken(secret, noExpiry)
	assert.ErrorIs(t, err, permy_errors.ErrInvalidToken)
}

func TestAuth(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Auth(secret))
	r.GET("/whoami", func(c *gin.Context) {
		subjectID, _ := util.GetSubjectIDFromContext(c)
		c.String(http.StatusOK, subjectID)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/whoami", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req.Header.Set("Authorization", "Bearer garbage")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := middleware.GenerateToken(secret, "42", time.Minute)
	require.NoError(t, err)
	w = httptest.NewRecorder()
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "42", w.Body.String())
}

func guardedRouter(subjectID string, authorizer middleware.Authorizer) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if subjectID != "" {
			c.Set(util.ContextSubjectID, subjectID)
		}
		c.Next()
	})
	r.Use(middleware.PermissionGuard(authorizer))
	r.GET("/reports/:id", reportController{}.Show)
	return r
}

func TestPermissionGuard_Allows(t *testing.T) {
	var seen model.Route
	r := guardedRouter("1", authorizerFunc(func(_ context.Context, subjectID string, route model.Route) (bool, error) {
		assert.Equal(t, "1", subjectID)
		seen = route
		return true, nil
	}))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/reports/7", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "GET", seen.Method)
	assert.Equal(t, "/reports/:id", seen.Path)
	assert.Equal(t, `middleware_test\reportController@Show`, seen.Action)
}

func TestPermissionGuard_Denies(t *testing.T) {
	r := guardedRouter("1", authorizerFunc(func(context.Context, string, model.Route) (bool, error) {
		return false, nil
	}))

	tests := []struct {
		name    string
		headers map[string]string
		body    string
	}{
		{"Plain", nil, "401 - Forbidden"},
		{"Ajax", map[string]string{"X-Requested-With": "XMLHttpRequest"}, `{"errors":["Unauthorized"],"status":401}`},
		{"JSON", map[string]string{"Accept": "application/json, text/plain"}, `{"errors":["Unauthorized"],"status":401}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("GET", "/reports/7", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.body, w.Body.String())
		})
	}
}

func TestPermissionGuard_Errors(t *testing.T) {
	r := guardedRouter("1", authorizerFunc(func(context.Context, string, model.Route) (bool, error) {
		return false, errors.New("store down")
	}))
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/reports/7", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestPermissionGuard_SkipsAnonymous(t *testing.T) {
	r := guardedRouter("", authorizerFunc(func(context.Context, string, model.Route) (bool, error) {
		t.Fatal("authorizer must not be called without a subject")
		return false, nil
	}))
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/reports/7", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, util.GetRequestIDFromContext(c))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/ping", nil)
	r.ServeHTTP(w, req)
	assert.Len(t, w.Body.String(), 36)
	assert.Equal(t, w.Body.String(), w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	req.Header.Set("X-Request-ID", "abc")
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Body.String())
}

func TestRateLimiter(t *testing.T) {
	counts := map[string]int{}
	limiter := func(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
		counts[key]++
		return counts[key] <= limit, nil
	}

	r := gin.New()
	r.Use(middleware.RateLimiter(2, time.Minute, limiter))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/ping", nil)
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RateLimiter(1, time.Minute, func(context.Context, string, int, time.Duration) (bool, error) {
		return false, errors.New("redis down")
	}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/ping", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

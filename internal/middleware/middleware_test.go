package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/internhub/internal/app/models"
	"github.com/yigit/internhub/internal/app/models/dto"
	"github.com/yigit/internhub/internal/pkg/apperrors"
	"github.com/yigit/internhub/internal/pkg/auth"
	"github.com/yigit/internhub/internal/pkg/ratelimit"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.APIResponse {
	t.Helper()
	var resp dto.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHandleAPIErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   dto.ErrorCode
	}{
		{apperrors.NewInvalidTransitionError("pending", "assign"), http.StatusConflict, dto.ErrorCodeInvalidTransition},
		{apperrors.NewVersionConflictError("task", 1, 2), http.StatusConflict, dto.ErrorCodeConflict},
		{apperrors.NewUnauthorizedError("no"), http.StatusForbidden, dto.ErrorCodeForbidden},
		{apperrors.NewValidationError("grade", "a grade is required"), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{apperrors.NewUnknownReferenceError("supervisor", 9), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{apperrors.NewResourceNotFoundError("task not found"), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{fmt.Errorf("wrapped: %w", apperrors.ErrSupervisorHasAssignment), http.StatusConflict, dto.ErrorCodeConflict},
		{apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/x", nil)

		HandleAPIError(c, tc.err)

		assert.Equal(t, tc.status, w.Code, tc.err.Error())
		resp := decode(t, w)
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, tc.code, resp.Error.Code, tc.err.Error())
	}
}

func TestValidationErrorCarriesField(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/x", nil)

	HandleAPIError(c, apperrors.NewValidationError("grade", "a grade is required"))

	resp := decode(t, w)
	assert.Equal(t, "grade", resp.Error.Field)
	assert.Equal(t, "a grade is required", resp.Error.Message)
}

func newRouter(t *testing.T) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	jwt := auth.NewJWTService(auth.JWTConfig{SecretKey: "mw", AccessTokenExp: time.Hour, RefreshTokenExp: time.Hour, TokenIssuer: "internhub.test"})
	m := NewAuthMiddleware(jwt)

	r := gin.New()
	r.GET("/admin", m.JWTAuth(), m.RoleRequired(models.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewSuccessResponse(c.GetInt64(ContextUserID)))
	})
	return r, jwt
}

func TestJWTAuthAndRoles(t *testing.T) {
	r, jwt := newRouter(t)
	admin, err := jwt.GenerateTokenPair(&models.User{ID: 1, Email: "a@uni.dz", Role: models.RoleAdmin})
	require.NoError(t, err)
	student, err := jwt.GenerateTokenPair(&models.User{ID: 2, Email: "s@uni.dz", Role: models.RoleStudent})
	require.NoError(t, err)

	for _, tc := range []struct {
		header string
		status int
	}{
		{"", http.StatusUnauthorized},
		{"Bearer not-a-token", http.StatusUnauthorized},
		{"Bearer " + admin.RefreshToken, http.StatusUnauthorized},
		{"Bearer " + student.AccessToken, http.StatusForbidden},
		{"Bearer " + admin.AccessToken, http.StatusOK},
		{admin.AccessToken, http.StatusOK},
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		r.ServeHTTP(w, req)
		assert.Equal(t, tc.status, w.Code, tc.header)
	}
}

func TestRateLimit(t *testing.T) {
	r := gin.New()
	r.POST("/login", RateLimit(ratelimit.NewMemoryLimiter(), 2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

type bindTarget struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"notblank"`
}

func TestInstalledValidatorTranslates(t *testing.T) {
	InstallValidator()
	r := gin.New()
	r.POST("/bind", func(c *gin.Context) {
		var req bindTarget
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/bind", strings.NewReader(`{"email":"a@uni.dz","name":"  "}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "name", resp.Error.Field)
	assert.Equal(t, "name cannot be blank", resp.Error.Message)
}

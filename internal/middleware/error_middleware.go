package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/internhub/internal/app/models/dto"
	"github.com/yigit/internhub/internal/pkg/apperrors"
	"github.com/yigit/internhub/internal/pkg/filestorage"
	"github.com/yigit/internhub/internal/pkg/logger"
)

type errorMapping struct {
	target  error
	status  int
	code    dto.ErrorCode
	message string
}

// Checked in order; the first match wins
var errorMappings = []errorMapping{
	{apperrors.ErrInvalidTransition, http.StatusConflict, dto.ErrorCodeInvalidTransition, "Transition not allowed"},
	{apperrors.ErrVersionConflict, http.StatusConflict, dto.ErrorCodeConflict, "Resource was modified concurrently"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Bad request"},
	{apperrors.ErrUnknownReference, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Referenced resource not found"},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{apperrors.ErrUserNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found"},
	{apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already exists"},
	{apperrors.ErrStudentNumberExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Student number already exists"},
	{apperrors.ErrSupervisorHasAssignment, http.StatusConflict, dto.ErrorCodeConflict, "Supervisor still has assigned students"},
	{apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeConflict, "Conflict"},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
	{apperrors.ErrAccountDisabled, http.StatusUnauthorized, dto.ErrorCodeAccountDisabled, "Account is disabled"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
	{apperrors.ErrRateLimited, http.StatusTooManyRequests, dto.ErrorCodeRateLimited, "Too many requests"},
	{filestorage.ErrFileTooLarge, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "File is too large"},
	{filestorage.ErrUnsupportedFile, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "File type is not allowed"},
	{filestorage.ErrInvalidFilePath, http.StatusBadRequest, dto.ErrorCodeBadRequest, "Invalid file path"},
	{filestorage.ErrStoredFileNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "File not found"},
}

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		detail := dto.NewErrorDetail(m.code, m.message)

		var custom *apperrors.CustomError
		if errors.As(err, &custom) {
			detail.Message = custom.Error()
			if len(custom.Details) > 0 {
				detail.Details = custom.Details
				if field, ok := custom.Details["field"].(string); ok {
					detail.Field = field
				}
			}
		}
		if m.status >= http.StatusBadRequest && m.status < http.StatusInternalServerError {
			detail.Severity = dto.ErrorSeverityWarning
		}

		c.AbortWithStatusJSON(m.status, dto.NewErrorResponse(detail))
		return
	}

	logger.Error().Err(err).Str("path", c.FullPath()).Str("method", c.Request.Method).Msg("Unhandled error")
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(
		dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
	))
}

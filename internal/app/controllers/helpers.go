package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/internhub/internal/app/models"
	"github.com/yigit/internhub/internal/app/models/dto"
	"github.com/yigit/internhub/internal/app/services"
	"github.com/yigit/internhub/internal/domain/workflow"
	"github.com/yigit/internhub/internal/middleware"
)

// currentActor reads the caller set by the auth middleware
func currentActor(ctx *gin.Context) (workflow.Actor, bool) {
	id, ok := ctx.Get(middleware.ContextUserID)
	if !ok {
		return workflow.Actor{}, false
	}
	userID, ok := id.(int64)
	if !ok {
		return workflow.Actor{}, false
	}
	role, _ := ctx.Get(middleware.ContextRole)
	r, _ := role.(models.Role)
	return workflow.Actor{ID: userID, Role: r}, true
}

// requireActor aborts with 401 when no caller is set
func requireActor(ctx *gin.Context) (workflow.Actor, bool) {
	actor, ok := currentActor(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "User not authenticated"),
		))
		return actor, false
	}
	return actor, true
}

// parseIDParam parses a positive int64 path parameter
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		detail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Invalid "+name).WithField(name)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return 0, false
	}
	return id, true
}

// expectedVersion returns the version the client last read, from If-Match
// (a plain or quoted number) or the version query parameter. 0 means none.
func expectedVersion(ctx *gin.Context) (int64, bool) {
	raw := strings.TrimSpace(ctx.GetHeader("If-Match"))
	raw = strings.TrimPrefix(raw, "W/")
	raw = strings.Trim(raw, `"`)
	if raw == "" || raw == "*" {
		raw = ctx.Query("version")
	}
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		detail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "If-Match must carry the entity version").WithField("If-Match")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return 0, false
	}
	return v, true
}

func setETag(ctx *gin.Context, version int64) {
	ctx.Header("ETag", `"`+strconv.FormatInt(version, 10)+`"`)
}

func bindError(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
}

// taskStatusQuery reads the optional status filter of task listings
func taskStatusQuery(ctx *gin.Context) (models.TaskStatus, bool) {
	status := models.TaskStatus(strings.ToUpper(ctx.Query("status")))
	switch status {
	case "", models.TaskPending, models.TaskInProgress, models.TaskCompleted, models.TaskOverdue:
		return status, true
	}
	detail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Unknown task status").WithField("status")
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
	return "", false
}

func taskResponses(views []*services.TaskView, url dto.URLFunc) []dto.TaskResponse {
	out := make([]dto.TaskResponse, 0, len(views))
	for _, v := range views {
		out = append(out, dto.NewTaskResponse(v.Task, v.Status, v.Student, url))
	}
	return out
}

func writeTask(ctx *gin.Context, status int, v *services.TaskView, url dto.URLFunc) {
	setETag(ctx, v.Task.Version)
	ctx.JSON(status, dto.NewSuccessResponse(dto.NewTaskResponse(v.Task, v.Status, v.Student, url)))
}

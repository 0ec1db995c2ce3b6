package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/internhub/internal/app/models"
	"github.com/yigit/internhub/internal/app/models/dto"
	"github.com/yigit/internhub/internal/app/services"
	"github.com/yigit/internhub/internal/domain/workflow"
	"github.com/yigit/internhub/internal/middleware"
	"github.com/yigit/internhub/internal/pkg/helpers"
)

// SupervisorController serves the supervisor gateway: assigned students and
// task authoring and grading
type SupervisorController struct {
	applications *services.ApplicationService
	tasks        *services.TaskService
	stats        *services.StatsService
	fileURL      dto.URLFunc
	logger       zerolog.Logger
}

// NewSupervisorController creates a new SupervisorController
func NewSupervisorController(
	applications *services.ApplicationService,
	tasks *services.TaskService,
	stats *services.StatsService,
	fileURL dto.URLFunc,
	logger zerolog.Logger,
) *SupervisorController {
	return &SupervisorController{
		applications: applications,
		tasks:        tasks,
		stats:        stats,
		fileURL:      fileURL,
		logger:       logger,
	}
}

func dueDateError(ctx *gin.Context) {
	detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "dueDate must be YYYY-MM-DD or RFC3339").WithField("dueDate")
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
}

// ListStudents godoc
// @Summary List my assigned students
// @Tags supervisor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ApplicationResponse}
// @Router /supervisor/students [get]
func (c *SupervisorController) ListStudents(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	views, err := c.applications.ListForSupervisor(ctx.Request.Context(), actor.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	out := make([]dto.ApplicationResponse, 0, len(views))
	for _, v := range views {
		out = append(out, dto.NewApplicationResponse(v.Application, v.Student, v.Supervisor, c.fileURL))
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(out))
}

// ListTasks godoc
// @Summary List tasks I authored
// @Tags supervisor
// @Produce json
// @Security BearerAuth
// @Param status query string false "Task status" Enums(PENDING, IN_PROGRESS, COMPLETED, OVERDUE)
// @Param studentId query int false "Only tasks of this student"
// @Success 200 {object} dto.APIResponse{data=[]dto.TaskResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Router /supervisor/tasks [get]
func (c *SupervisorController) ListTasks(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	status, ok := taskStatusQuery(ctx)
	if !ok {
		return
	}
	var studentID int64
	if raw := ctx.Query("studentId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			detail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Invalid studentId").WithField("studentId")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
			return
		}
		studentID = id
	}

	views, err := c.tasks.List(ctx.Request.Context(), actor, status, studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(taskResponses(views, c.fileURL)))
}

// GetTask godoc
// @Summary Get a task I authored
// @Tags supervisor
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} dto.APIResponse{data=dto.TaskResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /supervisor/tasks/{id} [get]
func (c *SupervisorController) GetTask(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	view, err := c.tasks.Get(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeTask(ctx, http.StatusOK, view, c.fileURL)
}

// CreateTask godoc
// @Summary Create a task for an assigned student
// @Tags supervisor
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param studentId formData int true "Student ID"
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param dueDate formData string true "Due date (YYYY-MM-DD or RFC3339)"
// @Param priority formData string false "Priority" Enums(LOW, MEDIUM, HIGH, URGENT)
// @Param category formData string false "Category" Enums(general, research, documentation, presentation, coding, analysis, report)
// @Param attachment formData file false "Attachment"
// @Success 201 {object} dto.APIResponse{data=dto.TaskResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse "Student is not assigned to you"
// @Router /supervisor/tasks [post]
func (c *SupervisorController) CreateTask(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	var req dto.CreateTaskRequest
	if err := ctx.ShouldBind(&req); err != nil {
		bindError(ctx, err)
		return
	}
	due, err := helpers.ParseDueDate(req.DueDate)
	if err != nil {
		dueDateError(ctx)
		return
	}

	view, err := c.tasks.Create(ctx.Request.Context(), actor, req.StudentID, workflow.TaskDraft{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
		Priority:    models.TaskPriority(req.Priority),
		Category:    models.TaskCategory(req.Category),
	}, req.Attachment)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeTask(ctx, http.StatusCreated, view, c.fileURL)
}

// UpdateTask godoc
// @Summary Edit a task
// @Description Completed tasks cannot be edited
// @Tags supervisor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param If-Match header string false "Expected version"
// @Param request body dto.UpdateTaskRequest true "Changes"
// @Success 200 {object} dto.APIResponse{data=dto.TaskResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /supervisor/tasks/{id} [put]
func (c *SupervisorController) UpdateTask(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	version, ok := expectedVersion(ctx)
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	changes := workflow.TaskChanges{Title: req.Title, Description: req.Description}
	if req.DueDate != nil {
		due, err := helpers.ParseDueDate(*req.DueDate)
		if err != nil {
			dueDateError(ctx)
			return
		}
		changes.DueDate = &due
	}
	if req.Priority != nil {
		p := models.TaskPriority(*req.Priority)
		changes.Priority = &p
	}
	if req.Category != nil {
		cat := models.TaskCategory(*req.Category)
		changes.Category = &cat
	}

	view, err := c.tasks.Update(ctx.Request.Context(), actor, id, changes, version)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeTask(ctx, http.StatusOK, view, c.fileURL)
}

// DeleteTask godoc
// @Summary Delete a task
// @Tags supervisor
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 204 "No Content"
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /supervisor/tasks/{id} [delete]
func (c *SupervisorController) DeleteTask(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.tasks.Delete(ctx.Request.Context(), actor, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// GradeTask godoc
// @Summary Grade a completed task
// @Tags supervisor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param If-Match header string false "Expected version"
// @Param request body dto.GradeTaskRequest true "Grade"
// @Success 200 {object} dto.APIResponse{data=dto.TaskResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Task is not completed"
// @Router /supervisor/tasks/{id}/grade [put]
func (c *SupervisorController) GradeTask(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	version, ok := expectedVersion(ctx)
	if !ok {
		return
	}
	var req dto.GradeTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	view, err := c.tasks.Grade(ctx.Request.Context(), actor, id, version, req.Grade, req.Feedback)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeTask(ctx, http.StatusOK, view, c.fileURL)
}

// DashboardStats godoc
// @Summary Supervisor dashboard statistics
// @Tags supervisor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.SupervisorStats}
// @Router /supervisor/dashboard-stats [get]
func (c *SupervisorController) DashboardStats(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	stats, err := c.stats.Supervisor(ctx.Request.Context(), actor.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats))
}

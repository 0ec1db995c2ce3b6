package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/internhub/internal/app/models/dto"
	"github.com/yigit/internhub/internal/app/services"
	"github.com/yigit/internhub/internal/middleware"
)

// StudentController serves the student gateway
type StudentController struct {
	applications *services.ApplicationService
	tasks        *services.TaskService
	stats        *services.StatsService
	fileURL      dto.URLFunc
	logger       zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(
	applications *services.ApplicationService,
	tasks *services.TaskService,
	stats *services.StatsService,
	fileURL dto.URLFunc,
	logger zerolog.Logger,
) *StudentController {
	return &StudentController{
		applications: applications,
		tasks:        tasks,
		stats:        stats,
		fileURL:      fileURL,
		logger:       logger,
	}
}

// GetApplication godoc
// @Summary Get my application
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationResponse}
// @Header 200 {string} ETag "Current version"
// @Failure 404 {object} dto.ErrorResponse
// @Router /student/application [get]
func (c *StudentController) GetApplication(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	view, err := c.applications.GetByStudent(ctx.Request.Context(), actor.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	setETag(ctx, view.Application.Version)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(
		dto.NewApplicationResponse(view.Application, view.Student, view.Supervisor, c.fileURL),
	))
}

// SubmitDocuments godoc
// @Summary Submit additional documents
// @Description Uploads the documents requested after approval and moves the application to ready_for_assignment
// @Tags student
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param If-Match header string false "Expected version"
// @Param transcript formData file false "Transcript"
// @Param recommendation formData file false "Recommendation letter"
// @Param portfolio formData file false "Portfolio"
// @Param cv formData file false "Updated CV"
// @Param motivationLetter formData file false "Updated motivation letter"
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationResponse}
// @Failure 400 {object} dto.ErrorResponse "No file or unsupported file"
// @Failure 409 {object} dto.ErrorResponse "Application is not waiting for documents"
// @Router /student/documents [post]
func (c *StudentController) SubmitDocuments(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	version, ok := expectedVersion(ctx)
	if !ok {
		return
	}
	var req dto.SubmitDocumentsRequest
	if err := ctx.ShouldBind(&req); err != nil {
		bindError(ctx, err)
		return
	}

	view, err := c.applications.SubmitDocuments(ctx.Request.Context(), actor, req.Files(), version)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	setETag(ctx, view.Application.Version)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(
		dto.NewApplicationResponse(view.Application, view.Student, view.Supervisor, c.fileURL),
	))
}

// ListTasks godoc
// @Summary List my tasks
// @Description Status filters on the effective status, so OVERDUE is accepted
// @Tags student
// @Produce json
// @Security BearerAuth
// @Param status query string false "Task status" Enums(PENDING, IN_PROGRESS, COMPLETED, OVERDUE)
// @Success 200 {object} dto.APIResponse{data=[]dto.TaskResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Router /student/tasks [get]
func (c *StudentController) ListTasks(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	status, ok := taskStatusQuery(ctx)
	if !ok {
		return
	}
	views, err := c.tasks.List(ctx.Request.Context(), actor, status, 0)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(taskResponses(views, c.fileURL)))
}

// GetTask godoc
// @Summary Get one of my tasks
// @Tags student
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Success 200 {object} dto.APIResponse{data=dto.TaskResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /student/tasks/{id} [get]
func (c *StudentController) GetTask(ctx *gin.Context) {
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

// StartTask godoc
// @Summary Start a task
// @Tags student
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param If-Match header string false "Expected version"
// @Success 200 {object} dto.APIResponse{data=dto.TaskResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /student/tasks/{id}/start [post]
func (c *StudentController) StartTask(ctx *gin.Context) {
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
	view, err := c.tasks.Start(ctx.Request.Context(), actor, id, version)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeTask(ctx, http.StatusOK, view, c.fileURL)
}

// RespondTask godoc
// @Summary Save a response
// @Description Saves a response text and file without completing the task
// @Tags student
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param If-Match header string false "Expected version"
// @Param response formData string false "Response text"
// @Param responseFile formData file false "Response file"
// @Success 200 {object} dto.APIResponse{data=dto.TaskResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /student/tasks/{id}/response [put]
func (c *StudentController) RespondTask(ctx *gin.Context) {
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
	var req dto.RespondTaskRequest
	if err := ctx.ShouldBind(&req); err != nil {
		bindError(ctx, err)
		return
	}
	view, err := c.tasks.Respond(ctx.Request.Context(), actor, id, version, req.Response, req.File)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeTask(ctx, http.StatusOK, view, c.fileURL)
}

// CompleteTask godoc
// @Summary Complete a task
// @Tags student
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Task ID"
// @Param If-Match header string false "Expected version"
// @Param completionMessage formData string false "Completion message"
// @Param responseFile formData file false "Response file"
// @Success 200 {object} dto.APIResponse{data=dto.TaskResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /student/tasks/{id}/complete [post]
func (c *StudentController) CompleteTask(ctx *gin.Context) {
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
	var req dto.CompleteTaskRequest
	if err := ctx.ShouldBind(&req); err != nil {
		bindError(ctx, err)
		return
	}
	view, err := c.tasks.Complete(ctx.Request.Context(), actor, id, version, req.CompletionMessage, req.File)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	writeTask(ctx, http.StatusOK, view, c.fileURL)
}

// DashboardStats godoc
// @Summary Student dashboard statistics
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.StudentStats}
// @Router /student/dashboard-stats [get]
func (c *StudentController) DashboardStats(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	stats, err := c.stats.Student(ctx.Request.Context(), actor.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats))
}

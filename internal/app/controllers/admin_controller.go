package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/internhub/internal/app/models"
	"github.com/yigit/internhub/internal/app/models/dto"
	"github.com/yigit/internhub/internal/app/repositories"
	"github.com/yigit/internhub/internal/app/services"
	"github.com/yigit/internhub/internal/domain/workflow"
	"github.com/yigit/internhub/internal/middleware"
	"github.com/yigit/internhub/internal/pkg/helpers"
)

// AdminController serves the admin gateway: application review, supervisor
// assignment and supervisor accounts
type AdminController struct {
	applications *services.ApplicationService
	supervisors  *services.SupervisorService
	stats        *services.StatsService
	fileURL      dto.URLFunc
	logger       zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(
	applications *services.ApplicationService,
	supervisors *services.SupervisorService,
	stats *services.StatsService,
	fileURL dto.URLFunc,
	logger zerolog.Logger,
) *AdminController {
	return &AdminController{
		applications: applications,
		supervisors:  supervisors,
		stats:        stats,
		fileURL:      fileURL,
		logger:       logger,
	}
}

func (c *AdminController) applicationResponse(v *services.ApplicationView) dto.ApplicationResponse {
	return dto.NewApplicationResponse(v.Application, v.Student, v.Supervisor, c.fileURL)
}

func (c *AdminController) writeApplication(ctx *gin.Context, v *services.ApplicationView) {
	setETag(ctx, v.Application.Version)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.applicationResponse(v)))
}

// DashboardStats godoc
// @Summary Admin dashboard statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.AdminStats}
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /admin/dashboard-stats [get]
func (c *AdminController) DashboardStats(ctx *gin.Context) {
	stats, err := c.stats.Admin(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats))
}

// ListApplications godoc
// @Summary List applications
// @Description Paginated list of applications, optionally filtered by status
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Application status" Enums(pending, documents_pending, ready_for_assignment, approved, rejected)
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationListResponse}
// @Failure 400 {object} dto.ErrorResponse "Unknown status"
// @Router /admin/applications [get]
func (c *AdminController) ListApplications(ctx *gin.Context) {
	status := models.ApplicationStatus(ctx.Query("status"))
	if status != "" && !status.Valid() {
		detail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Unknown application status").WithField("status")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}
	page := helpers.ParsePaginationParams(ctx)

	views, total, err := c.applications.List(ctx.Request.Context(), repositories.ApplicationFilter{
		Status: status,
		Offset: page.Offset(),
		Limit:  page.Size,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]dto.ApplicationResponse, 0, len(views))
	for _, v := range views {
		out = append(out, c.applicationResponse(v))
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ApplicationListResponse{
		Applications: out,
		Pagination:   helpers.NewPaginationInfo(total, page),
	}))
}

// GetApplication godoc
// @Summary Get an application
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationResponse}
// @Header 200 {string} ETag "Current version"
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/applications/{id} [get]
func (c *AdminController) GetApplication(ctx *gin.Context) {
	actor, ok := requireActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	view, err := c.applications.Get(ctx.Request.Context(), actor, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.writeApplication(ctx, view)
}

// ApplicationHistory godoc
// @Summary Transition history of an application
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.TransitionResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Router /admin/applications/{id}/history [get]
func (c *AdminController) ApplicationHistory(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	history, err := c.applications.History(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewTransitionResponses(history)))
}

// ApproveStudent godoc
// @Summary Approve a pending application
// @Description Moves the application to documents_pending
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param If-Match header string false "Expected version"
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Invalid transition or stale version"
// @Router /admin/approve-student/{id} [post]
func (c *AdminController) ApproveStudent(ctx *gin.Context) {
	c.decide(ctx, c.applications.Approve)
}

// RejectStudent godoc
// @Summary Reject an application
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param If-Match header string false "Expected version"
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationResponse}
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Invalid transition or stale version"
// @Router /admin/reject-student/{id} [post]
func (c *AdminController) RejectStudent(ctx *gin.Context) {
	c.decide(ctx, c.applications.Reject)
}

type decision func(ctx context.Context, actor workflow.Actor, id, version int64) (*services.ApplicationView, error)

func (c *AdminController) decide(ctx *gin.Context, fn decision) {
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
	view, err := fn(ctx.Request.Context(), actor, id, version)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.writeApplication(ctx, view)
}

// AssignStudent godoc
// @Summary Assign a supervisor
// @Description Assigns a ready_for_assignment application to an active supervisor. Repeating the call with the same supervisor is a no-op.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param If-Match header string false "Expected version"
// @Param request body dto.AssignRequest true "Supervisor"
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse "Application or supervisor not found"
// @Failure 409 {object} dto.ErrorResponse "Invalid transition or stale version"
// @Router /admin/assign-student/{id} [post]
func (c *AdminController) AssignStudent(ctx *gin.Context) {
	c.assign(ctx, c.applications.Assign)
}

// ReassignStudent godoc
// @Summary Reassign an approved application
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param If-Match header string false "Expected version"
// @Param request body dto.AssignRequest true "New supervisor"
// @Success 200 {object} dto.APIResponse{data=dto.ApplicationResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /admin/reassign-student/{id} [put]
func (c *AdminController) ReassignStudent(ctx *gin.Context) {
	c.assign(ctx, c.applications.Reassign)
}

type assignment func(ctx context.Context, actor workflow.Actor, id, supervisorID, version int64) (*services.ApplicationView, error)

func (c *AdminController) assign(ctx *gin.Context, fn assignment) {
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
	var req dto.AssignRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	view, err := fn(ctx.Request.Context(), actor, id, req.SupervisorID, version)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.writeApplication(ctx, view)
}

// ListSupervisors godoc
// @Summary List supervisors
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.SupervisorResponse}
// @Router /admin/supervisors [get]
func (c *AdminController) ListSupervisors(ctx *gin.Context) {
	list, err := c.supervisors.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	out := make([]dto.SupervisorResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.SupervisorResponse{UserResponse: dto.NewUserResponse(s.User), AssignedStudents: s.AssignedStudents})
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(out))
}

// CreateSupervisor godoc
// @Summary Create a supervisor
// @Description Creates the account and emails a temporary password
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSupervisorRequest true "Supervisor"
// @Success 201 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /admin/supervisors [post]
func (c *AdminController) CreateSupervisor(ctx *gin.Context) {
	var req dto.CreateSupervisorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	user, err := c.supervisors.Create(ctx.Request.Context(), services.SupervisorInput{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Department: req.Department,
		Phone:      req.Phone,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewUserResponse(user)))
}

// UpdateSupervisor godoc
// @Summary Update a supervisor
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Supervisor ID"
// @Param request body dto.UpdateSupervisorRequest true "Changes"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /admin/supervisors/{id} [put]
func (c *AdminController) UpdateSupervisor(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateSupervisorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}
	user, err := c.supervisors.Update(ctx.Request.Context(), id, services.SupervisorChanges{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Department: req.Department,
		IsActive:   req.IsActive,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewUserResponse(user)))
}

// DeleteSupervisor godoc
// @Summary Delete a supervisor
// @Description Fails while the supervisor still has assigned students
// @Tags admin
// @Security BearerAuth
// @Param id path int true "Supervisor ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Supervisor has assigned students"
// @Router /admin/supervisors/{id} [delete]
func (c *AdminController) DeleteSupervisor(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.supervisors.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Info().Int64("supervisorID", id).Msg("Supervisor deleted")
	ctx.Status(http.StatusNoContent)
}

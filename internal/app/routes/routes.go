package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/internhub/internal/app/controllers"
	"github.com/yigit/internhub/internal/app/models"
	"github.com/yigit/internhub/internal/middleware"
	"github.com/yigit/internhub/internal/pkg/ratelimit"
)

// Controllers groups every HTTP handler the router mounts
type Controllers struct {
	Auth       *controllers.AuthController
	Admin      *controllers.AdminController
	Student    *controllers.StudentController
	Supervisor *controllers.SupervisorController
	Users      *controllers.UserController
	Files      *controllers.FileController
	Health     *controllers.HealthController
	// Notifications is the websocket upgrade handler; nil disables the route
	Notifications gin.HandlerFunc
}

// RateLimit bounds the public auth endpoints per client
type RateLimit struct {
	Limiter  ratelimit.Limiter
	Requests int
	Window   time.Duration
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware, limit RateLimit) {
	router.GET("/health", c.Health.Health)

	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	if limit.Limiter != nil {
		auth.Use(middleware.RateLimit(limit.Limiter, limit.Requests, limit.Window))
	}
	{
		auth.POST("/signup", c.Auth.Signup)
		auth.POST("/login", c.Auth.Login)
		auth.POST("/refresh", c.Auth.RefreshToken)
	}

	// Browsers cannot set headers on a websocket upgrade, so the handler
	// authenticates from the token query parameter itself
	if c.Notifications != nil {
		v1.GET("/notifications/ws", c.Notifications)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	authenticated.GET("/files/:category/:name", c.Files.Download)

	profile := authenticated.Group("/profile")
	{
		profile.GET("", c.Users.GetUserProfile)
		profile.PUT("", c.Users.UpdateUserProfile)
		profile.PUT("/password", c.Users.ChangePassword)
	}

	admin := authenticated.Group("/admin")
	admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/dashboard-stats", c.Admin.DashboardStats)

		admin.GET("/applications", c.Admin.ListApplications)
		admin.GET("/applications/:id", c.Admin.GetApplication)
		admin.GET("/applications/:id/history", c.Admin.ApplicationHistory)

		admin.POST("/approve-student/:id", c.Admin.ApproveStudent)
		admin.POST("/reject-student/:id", c.Admin.RejectStudent)
		admin.POST("/assign-student/:id", c.Admin.AssignStudent)
		admin.PUT("/reassign-student/:id", c.Admin.ReassignStudent)

		admin.GET("/supervisors", c.Admin.ListSupervisors)
		admin.POST("/supervisors", c.Admin.CreateSupervisor)
		admin.PUT("/supervisors/:id", c.Admin.UpdateSupervisor)
		admin.DELETE("/supervisors/:id", c.Admin.DeleteSupervisor)
	}

	student := authenticated.Group("/student")
	student.Use(authMiddleware.RoleRequired(models.RoleStudent))
	{
		student.GET("/application", c.Student.GetApplication)
		student.POST("/documents", c.Student.SubmitDocuments)
		student.GET("/dashboard-stats", c.Student.DashboardStats)

		student.GET("/tasks", c.Student.ListTasks)
		student.GET("/tasks/:id", c.Student.GetTask)
		student.POST("/tasks/:id/start", c.Student.StartTask)
		student.PUT("/tasks/:id/response", c.Student.RespondTask)
		student.POST("/tasks/:id/complete", c.Student.CompleteTask)
	}

	supervisor := authenticated.Group("/supervisor")
	supervisor.Use(authMiddleware.RoleRequired(models.RoleSupervisor))
	{
		supervisor.GET("/students", c.Supervisor.ListStudents)
		supervisor.GET("/dashboard-stats", c.Supervisor.DashboardStats)

		supervisor.GET("/tasks", c.Supervisor.ListTasks)
		supervisor.POST("/tasks", c.Supervisor.CreateTask)
		supervisor.GET("/tasks/:id", c.Supervisor.GetTask)
		supervisor.PUT("/tasks/:id", c.Supervisor.UpdateTask)
		supervisor.DELETE("/tasks/:id", c.Supervisor.DeleteTask)
		supervisor.PUT("/tasks/:id/grade", c.Supervisor.GradeTask)
	}
}

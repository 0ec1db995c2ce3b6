package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/internhub/internal/app/models/dto"
	"github.com/yigit/internhub/internal/app/services"
	"github.com/yigit/internhub/internal/middleware"
	"github.com/yigit/internhub/internal/pkg/auth"
)

// AuthController handles sign-up and sessions
type AuthController struct {
	authService *services.AuthService
	fileURL     dto.URLFunc
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, fileURL dto.URLFunc, logger zerolog.Logger) *AuthController {
	return &AuthController{authService: authService, fileURL: fileURL, logger: logger}
}

func tokenResponse(pair *auth.TokenPair) dto.TokenResponse {
	return dto.TokenResponse{
		AccessToken:           pair.AccessToken,
		TokenType:             "Bearer",
		ExpiresIn:             pair.ExpiresIn,
		RefreshToken:          pair.RefreshToken,
		RefreshTokenExpiresIn: pair.RefreshExpiresIn,
	}
}

// Signup godoc
// @Summary Apply for an internship
// @Description Creates a student account and a pending application holding the CV and motivation letter
// @Tags auth
// @Accept multipart/form-data
// @Produce json
// @Param firstName formData string true "First name"
// @Param lastName formData string true "Last name"
// @Param email formData string true "Email"
// @Param password formData string true "Password (8+ chars, letter and digit)"
// @Param studentNumber formData string true "Student number (8 digits)"
// @Param phone formData string false "Phone"
// @Param university formData string false "University"
// @Param major formData string false "Major"
// @Param academicYear formData string false "Academic year"
// @Param cv formData file true "CV"
// @Param motivationLetter formData file true "Motivation letter"
// @Success 201 {object} dto.APIResponse{data=dto.SignupResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid form"
// @Failure 409 {object} dto.ErrorResponse "Email or student number already exists"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Router /auth/signup [post]
func (c *AuthController) Signup(ctx *gin.Context) {
	var req dto.SignupRequest
	if err := ctx.ShouldBind(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid signup form")
		bindError(ctx, err)
		return
	}

	user, app, err := c.authService.Signup(ctx.Request.Context(), services.SignupInput{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Password:         req.Password,
		StudentNumber:    req.StudentNumber,
		Phone:            req.Phone,
		University:       req.University,
		Major:            req.Major,
		AcademicYear:     req.AcademicYear,
		CV:               req.CV,
		MotivationLetter: req.MotivationLetter,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.SignupResponse{
		User:        dto.NewUserResponse(user),
		Application: dto.NewApplicationResponse(app, user, nil, c.fileURL),
	}))
}

// Login godoc
// @Summary Log in
// @Description Exchanges email and password for a token pair
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials or disabled account"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	pair, user, err := c.authService.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.logger.Info().Str("email", req.Email).Err(err).Msg("Login failed")
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.AuthResponse{
		Token: tokenResponse(pair),
		User:  dto.NewUserResponse(user),
	}))
}

// RefreshToken godoc
// @Summary Refresh tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest true "Refresh token"
// @Success 200 {object} dto.APIResponse{data=dto.AuthResponse}
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired refresh token"
// @Router /auth/refresh [post]
func (c *AuthController) RefreshToken(ctx *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	pair, user, err := c.authService.Refresh(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.AuthResponse{
		Token: tokenResponse(pair),
		User:  dto.NewUserResponse(user),
	}))
}

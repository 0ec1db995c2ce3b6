package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/internhub/internal/app/models"
	"github.com/yigit/internhub/internal/app/repositories"
	"github.com/yigit/internhub/internal/domain/workflow"
	"github.com/yigit/internhub/internal/pkg/apperrors"
	"github.com/yigit/internhub/internal/pkg/auth"
	"github.com/yigit/internhub/internal/pkg/filestorage"
	"github.com/yigit/internhub/internal/pkg/validation"
)

// SignupInput is a student's application form
type SignupInput struct {
	FirstName        string
	LastName         string
	Email            string
	Password         string
	StudentNumber    string
	Phone            string
	University       string
	Major            string
	AcademicYear     string
	CV               *multipart.FileHeader
	MotivationLetter *multipart.FileHeader
}

// AuthService handles authentication operations
type AuthService struct {
	users      repositories.UserRepository
	apps       repositories.ApplicationRepository
	jwtService *auth.JWTService
	files      filestorage.FileStorage
	journal    *journal
	logger     zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	users repositories.UserRepository,
	apps repositories.ApplicationRepository,
	jwtService *auth.JWTService,
	files filestorage.FileStorage,
	j *journal,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:      users,
		apps:       apps,
		jwtService: jwtService,
		files:      files,
		journal:    j,
		logger:     logger,
	}
}

// Signup creates a student account together with its pending application
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, *models.Application, error) {
	email := validation.NormalizeEmail(in.Email)
	if !validation.IsValidEmail(email) {
		return nil, nil, apperrors.NewValidationError("email", "invalid email format")
	}
	if !validation.IsStrongPassword(in.Password) {
		return nil, nil, apperrors.NewValidationError("password", "password must be at least 8 characters and contain a letter and a digit")
	}
	number := strings.TrimSpace(in.StudentNumber)

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, nil, apperrors.ErrEmailAlreadyExists
	}
	if number != "" {
		exists, err = s.users.StudentNumberExists(ctx, number)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to check student number: %w", err)
		}
		if exists {
			return nil, nil, apperrors.ErrStudentNumberExists
		}
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	docs := models.Documents{}
	var saved []string
	cleanup := func() {
		for _, p := range saved {
			_ = s.files.Delete(p)
		}
	}
	for kind, fh := range map[models.DocumentKind]*multipart.FileHeader{
		models.DocumentCV:               in.CV,
		models.DocumentMotivationLetter: in.MotivationLetter,
	} {
		ref, err := s.files.Save(fh, filestorage.CategoryDocuments)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		if !ref.IsZero() {
			docs[kind] = ref
			saved = append(saved, ref.Path)
		}
	}

	user := &models.User{
		Email:        email,
		Password:     hash,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         models.RoleStudent,
		Phone:        strings.TrimSpace(in.Phone),
		University:   strings.TrimSpace(in.University),
		Major:        strings.TrimSpace(in.Major),
		AcademicYear: strings.TrimSpace(in.AcademicYear),
		IsActive:     true,
	}
	if number != "" {
		user.StudentNumber = &number
	}
	if err := s.users.Create(ctx, user); err != nil {
		cleanup()
		return nil, nil, err
	}

	app := &models.Application{
		StudentID: user.ID,
		Status:    models.ApplicationPending,
		Documents: docs,
	}
	if err := s.apps.Create(ctx, app); err != nil {
		s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to create application, removing account")
		if derr := s.users.Delete(ctx, user.ID); derr != nil {
			s.logger.Error().Err(derr).Int64("userID", user.ID).Msg("Failed to remove account after signup error")
		}
		cleanup()
		return nil, nil, fmt.Errorf("failed to create application: %w", err)
	}

	s.logger.Info().Int64("userID", user.ID).Int64("applicationID", app.ID).Msg("Student signed up")
	s.journal.commit(ctx, change{
		entity:  models.EntityApplication,
		id:      app.ID,
		event:   "signup",
		to:      string(app.Status),
		actor:   workflow.Actor{ID: user.ID, Role: models.RoleStudent},
		title:   "New application",
		message: fmt.Sprintf("%s applied for an internship.", user.FullName()),
		admins:  true,
	})
	return user, app, nil
}

// Login checks credentials and issues a token pair
func (s *AuthService) Login(ctx context.Context, email, password string) (*auth.TokenPair, *models.User, error) {
	user, err := s.users.GetByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, nil, apperrors.ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if !auth.CheckPassword(user.Password, password) {
		s.logger.Debug().Int64("userID", user.ID).Msg("Password mismatch")
		return nil, nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, apperrors.ErrAccountDisabled
	}
	return s.issue(user)
}

// Refresh exchanges a refresh token for a new pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, *models.User, error) {
	claims, err := s.jwtService.ValidateAndExtractClaims(refreshToken, auth.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, nil, apperrors.ErrTokenExpired
		}
		return nil, nil, apperrors.ErrTokenInvalid
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, nil, apperrors.ErrTokenInvalid
		}
		return nil, nil, err
	}
	if !user.IsActive {
		return nil, nil, apperrors.ErrAccountDisabled
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*auth.TokenPair, *models.User, error) {
	pair, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to generate tokens")
		return nil, nil, err
	}
	return pair, user, nil
}

// CreateAdmin creates an administrator account unless the email is taken.
// It reports whether an account was created.
func (s *AuthService) CreateAdmin(ctx context.Context, email, password, firstName, lastName string) (bool, error) {
	email = validation.NormalizeEmail(email)
	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if len(password) < 8 {
		return false, apperrors.NewValidationError("password", "admin password must be at least 8 characters")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}
	err = s.users.Create(ctx, &models.User{
		Email:     email,
		Password:  hash,
		FirstName: firstName,
		LastName:  lastName,
		Role:      models.RoleAdmin,
		IsActive:  true,
	})
	if err != nil {
		return false, err
	}
	s.logger.Info().Str("email", email).Msg("Administrator account created")
	return true, nil
}

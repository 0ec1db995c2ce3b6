package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/internhub/internal/app/models"
	"github.com/yigit/internhub/internal/app/repositories"
	"github.com/yigit/internhub/internal/pkg/apperrors"
	"github.com/yigit/internhub/internal/pkg/auth"
)

// ProfileChanges lists the profile fields a user may edit; nil means unchanged.
// Academic fields apply to students only.
type ProfileChanges struct {
	FirstName    *string
	LastName     *string
	Phone        *string
	University   *string
	Major        *string
	AcademicYear *string
}

// UserService manages the caller's own account
type UserService struct {
	users  repositories.UserRepository
	logger zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(users repositories.UserRepository, logger zerolog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// GetUserProfile retrieves the profile of a user
func (s *UserService) GetUserProfile(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Int64("userID", userID).Msg("Error finding user profile")
		return nil, fmt.Errorf("error finding user: %w", err)
	}
	return user, nil
}

// UpdateUserProfile updates a user's profile information
func (s *UserService) UpdateUserProfile(ctx context.Context, userID int64, ch ProfileChanges) (*models.User, error) {
	user, err := s.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&user.FirstName, ch.FirstName)
	set(&user.LastName, ch.LastName)
	set(&user.Phone, ch.Phone)
	if user.Role == models.RoleStudent {
		set(&user.University, ch.University)
		set(&user.Major, ch.Major)
		set(&user.AcademicYear, ch.AcademicYear)
	} else if ch.University != nil || ch.Major != nil || ch.AcademicYear != nil {
		return nil, apperrors.NewValidationError("university", "academic fields apply to students only")
	}
	if user.FirstName == "" || user.LastName == "" {
		return nil, apperrors.NewValidationError("firstName", "name must not be blank")
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	return user, nil
}

// ChangePassword replaces the password after checking the current one
func (s *UserService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	user, err := s.GetUserProfile(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(user.Password, current) {
		return apperrors.ErrInvalidCredentials
	}
	hash, err := auth.HashPassword(next)
	if err != nil {
		return err
	}
	user.Password = hash
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	s.logger.Info().Int64("userID", userID).Msg("Password changed")
	return nil
}

package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/internhub/internal/app/models"
	"github.com/yigit/internhub/internal/app/repositories"
	"github.com/yigit/internhub/internal/pkg/apperrors"
	"github.com/yigit/internhub/internal/pkg/auth"
	"github.com/yigit/internhub/internal/pkg/email"
	"github.com/yigit/internhub/internal/pkg/validation"
)

// SupervisorInput holds the fields of a new supervisor
type SupervisorInput struct {
	FirstName  string
	LastName   string
	Email      string
	Department string
	Phone      string
}

// SupervisorChanges lists the editable fields; nil means unchanged
type SupervisorChanges struct {
	FirstName  *string
	LastName   *string
	Email      *string
	Department *string
	IsActive   *bool
}

// SupervisorSummary is a supervisor with the number of students assigned
type SupervisorSummary struct {
	User             *models.User
	AssignedStudents int64
}

// SupervisorService lets admins manage supervisor accounts
type SupervisorService struct {
	users   repositories.UserRepository
	apps    repositories.ApplicationRepository
	tasks   repositories.TaskRepository
	mailer  email.Sender
	devMode bool
	logger  zerolog.Logger
}

// NewSupervisorService creates a new SupervisorService
func NewSupervisorService(
	users repositories.UserRepository,
	apps repositories.ApplicationRepository,
	tasks repositories.TaskRepository,
	mailer email.Sender,
	devMode bool,
	logger zerolog.Logger,
) *SupervisorService {
	return &SupervisorService{users: users, apps: apps, tasks: tasks, mailer: mailer, devMode: devMode, logger: logger}
}

// List returns every supervisor with their assignment count
func (s *SupervisorService) List(ctx context.Context) ([]*SupervisorSummary, error) {
	users, err := s.users.ListByRole(ctx, models.RoleSupervisor)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list supervisors")
		return nil, fmt.Errorf("failed to list supervisors: %w", err)
	}
	out := make([]*SupervisorSummary, 0, len(users))
	for _, u := range users {
		n, err := s.apps.CountBySupervisor(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, &SupervisorSummary{User: u, AssignedStudents: n})
	}
	return out, nil
}

// Create adds a supervisor with a generated password and mails the credentials
func (s *SupervisorService) Create(ctx context.Context, in SupervisorInput) (*models.User, error) {
	addr := validation.NormalizeEmail(in.Email)
	if !validation.IsValidEmail(addr) {
		return nil, apperrors.NewValidationError("email", "invalid email format")
	}
	exists, err := s.users.EmailExists(ctx, addr)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	password, err := temporaryPassword(12)
	if err != nil {
		return nil, fmt.Errorf("failed to generate password: %w", err)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:      addr,
		Password:   hash,
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		Role:       models.RoleSupervisor,
		Department: strings.TrimSpace(in.Department),
		Phone:      strings.TrimSpace(in.Phone),
		IsActive:   true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	ev := s.logger.Info().Int64("userID", user.ID).Str("email", addr)
	if s.devMode {
		ev = ev.Str("temporaryPassword", password)
	}
	ev.Msg("Supervisor created")

	if s.mailer != nil {
		err := s.mailer.Send(ctx, email.Message{
			To:      []email.Address{{Name: user.FullName(), Email: user.Email}},
			Subject: "Your supervisor account",
			Text: fmt.Sprintf("Hello %s,\n\nAn internship supervisor account was created for you.\nEmail: %s\nTemporary password: %s\n\nPlease change it after signing in.",
				user.FirstName, user.Email, password),
		})
		if err != nil {
			s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to mail supervisor credentials")
		}
	}
	return user, nil
}

// Update changes supervisor details
func (s *SupervisorService) Update(ctx context.Context, id int64, ch SupervisorChanges) (*models.User, error) {
	user, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if ch.FirstName != nil {
		user.FirstName = strings.TrimSpace(*ch.FirstName)
	}
	if ch.LastName != nil {
		user.LastName = strings.TrimSpace(*ch.LastName)
	}
	if ch.Department != nil {
		user.Department = strings.TrimSpace(*ch.Department)
	}
	if ch.IsActive != nil {
		user.IsActive = *ch.IsActive
	}
	if ch.Email != nil {
		addr := validation.NormalizeEmail(*ch.Email)
		if !validation.IsValidEmail(addr) {
			return nil, apperrors.NewValidationError("email", "invalid email format")
		}
		if addr != user.Email {
			exists, err := s.users.EmailExists(ctx, addr)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, apperrors.ErrEmailAlreadyExists
			}
			user.Email = addr
		}
	}
	if user.FirstName == "" || user.LastName == "" {
		return nil, apperrors.NewValidationError("name", "first and last name are required")
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a supervisor who has no assigned students and no authored
// tasks. Tasks keep their creator after a reassign.
func (s *SupervisorService) Delete(ctx context.Context, id int64) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	n, err := s.apps.CountBySupervisor(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: %d assigned", apperrors.ErrSupervisorHasAssignment, n)
	}
	n, err = s.tasks.CountBySupervisor(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: %d tasks authored", apperrors.ErrSupervisorHasAssignment, n)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("userID", id).Msg("Supervisor deleted")
	return nil
}

func (s *SupervisorService) get(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.NewResourceNotFoundError("supervisor not found")
		}
		return nil, err
	}
	if user.Role != models.RoleSupervisor {
		return nil, apperrors.NewResourceNotFoundError("supervisor not found")
	}
	return user, nil
}

const passwordAlphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// temporaryPassword always contains a letter and a digit
func temporaryPassword(n int) (string, error) {
	for {
		b := make([]byte, n)
		for i := range b {
			k, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordAlphabet))))
			if err != nil {
				return "", err
			}
			b[i] = passwordAlphabet[k.Int64()]
		}
		if validation.IsStrongPassword(string(b)) {
			return string(b), nil
		}
	}
}

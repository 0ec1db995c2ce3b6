package seed

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/internhub/internal/app/services"
	"github.com/yigit/internhub/internal/config"
)

// AdminCreator is the part of the auth service seeding needs
type AdminCreator interface {
	CreateAdmin(ctx context.Context, email, password, firstName, lastName string) (bool, error)
}

var _ AdminCreator = (*services.AuthService)(nil)

// CreateDefaultData makes sure the configured administrator exists. Nothing
// is created when no admin password is configured.
func CreateDefaultData(ctx context.Context, admins AdminCreator, cfg *config.Config, lgr zerolog.Logger) error {
	if cfg.Admin.Password == "" {
		lgr.Warn().Msg("ADMIN_PASSWORD not set, skipping administrator seed")
		return nil
	}

	lgr.Info().Str("email", cfg.Admin.Email).Msg("Checking/Creating default administrator...")
	created, err := admins.CreateAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.FirstName, cfg.Admin.LastName)
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating default administrator")
		return err
	}
	if !created {
		lgr.Info().Str("email", cfg.Admin.Email).Msg("Administrator already exists")
	}
	return nil
}

package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/yigit/internhub/internal/config"
)

type fakeAdmins struct {
	calls   int
	email   string
	created bool
	err     error
}

func (f *fakeAdmins) CreateAdmin(_ context.Context, email, _, _, _ string) (bool, error) {
	f.calls++
	f.email = email
	return f.created, f.err
}

func TestCreateDefaultDataSkipsWithoutPassword(t *testing.T) {
	cfg := &config.Config{}
	cfg.Admin.Email = "admin@internhub.app"

	admins := &fakeAdmins{}
	assert.NoError(t, CreateDefaultData(context.Background(), admins, cfg, zerolog.Nop()))
	assert.Zero(t, admins.calls)
}

func TestCreateDefaultData(t *testing.T) {
	cfg := &config.Config{}
	cfg.Admin.Email = "admin@internhub.app"
	cfg.Admin.Password = "changeme123"

	admins := &fakeAdmins{created: true}
	assert.NoError(t, CreateDefaultData(context.Background(), admins, cfg, zerolog.Nop()))
	assert.Equal(t, 1, admins.calls)
	assert.Equal(t, "admin@internhub.app", admins.email)

	admins = &fakeAdmins{err: errors.New("db down")}
	assert.Error(t, CreateDefaultData(context.Background(), admins, cfg, zerolog.Nop()))
}

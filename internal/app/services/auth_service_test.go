package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/internhub/internal/app/models"
	"github.com/yigit/internhub/internal/pkg/apperrors"
)

func TestSignupRejectsDuplicates(t *testing.T) {
	e := setup(t)
	e.signup(t, "amina@uni.dz", "20231234")

	_, _, err := e.svc.Auth.Signup(e.ctx, SignupInput{FirstName: "A", LastName: "B", Email: " AMINA@uni.dz", Password: "secret123", StudentNumber: "20239999"})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)

	_, _, err = e.svc.Auth.Signup(e.ctx, SignupInput{FirstName: "A", LastName: "B", Email: "new@uni.dz", Password: "secret123", StudentNumber: "20231234"})
	assert.ErrorIs(t, err, apperrors.ErrStudentNumberExists)

	_, _, err = e.svc.Auth.Signup(e.ctx, SignupInput{FirstName: "A", LastName: "B", Email: "new@uni.dz", Password: "short"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestLoginAndRefresh(t *testing.T) {
	e := setup(t)
	student, _ := e.signup(t, "amina@uni.dz", "20231234")

	pair, user, err := e.svc.Auth.Login(e.ctx, "Amina@uni.dz", "secret123")
	require.NoError(t, err)
	assert.Equal(t, student.ID, user.ID)
	assert.NotEmpty(t, pair.AccessToken)

	_, _, err = e.svc.Auth.Login(e.ctx, "amina@uni.dz", "wrong-pass1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, _, err = e.svc.Auth.Login(e.ctx, "nobody@uni.dz", "secret123")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	refreshed, _, err := e.svc.Auth.Refresh(e.ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, _, err = e.svc.Auth.Refresh(e.ctx, pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	student.IsActive = false
	require.NoError(t, e.repos.Users.Update(e.ctx, student))
	_, _, err = e.svc.Auth.Login(e.ctx, "amina@uni.dz", "secret123")
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
	_, _, err = e.svc.Auth.Refresh(e.ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}

func TestCreateAdminIsIdempotent(t *testing.T) {
	e := setup(t)

	created, err := e.svc.Auth.CreateAdmin(e.ctx, "root@uni.dz", "changeme123", "Site", "Admin")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = e.svc.Auth.CreateAdmin(e.ctx, "ROOT@uni.dz", "changeme123", "Site", "Admin")
	require.NoError(t, err)
	assert.False(t, created)

	u, err := e.repos.Users.GetByEmail(e.ctx, "root@uni.dz")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
}

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,password"`
	FirstName     string `json:"firstName" binding:"notblank"`
	StudentNumber string `json:"studentNumber" binding:"omitempty,studentnumber"`
}

func TestFieldErrorsUseJSONNames(t *testing.T) {
	err := Struct(signup{Email: "nope", Password: "short", FirstName: "  ", StudentNumber: "12"})
	require.Error(t, err)

	fields := FieldErrors(err)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
	assert.Equal(t, "firstName cannot be blank", fields["firstName"])
	assert.Equal(t, "studentNumber must be exactly 8 digits", fields["studentNumber"])
}

func TestValidStruct(t *testing.T) {
	assert.NoError(t, Struct(signup{Email: "a@b.dz", Password: "abcdefg1", FirstName: "Ali", StudentNumber: "20231234"}))
	assert.Nil(t, FieldErrors(nil))
}

func TestRules(t *testing.T) {
	assert.Equal(t, "x@y.dz", NormalizeEmail("  X@Y.dz "))
	assert.True(t, IsValidEmail("x@y.dz"))
	assert.False(t, IsValidEmail("x@y"))
	assert.False(t, IsStrongPassword("abcdefgh"))
	assert.True(t, IsStrongPassword("abcdefg1"))
}

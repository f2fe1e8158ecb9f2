package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Email  string  `json:"email" validate:"required,email"`
	Role   string  `json:"role" validate:"required,oneof=driver dispatch admin"`
	Amount float64 `json:"amount" validate:"gte=0"`
}

func TestValidateOK(t *testing.T) {
	v := New()
	err := v.Validate(&sampleRequest{
		Email:  "user@example.com",
		Role:   "driver",
		Amount: 10,
	})
	assert.NoError(t, err)
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	v := New()
	err := v.Validate(&sampleRequest{
		Email:  "not-an-email",
		Role:   "manager",
		Amount: -5,
	})
	require.Error(t, err)

	vErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, vErr.Errors, "email")
	assert.Contains(t, vErr.Errors, "role")
	assert.Contains(t, vErr.Errors, "amount")
	assert.NotContains(t, vErr.Errors, "Email")
}

func TestValidationErrorMessage(t *testing.T) {
	v := New()
	err := v.Validate(&sampleRequest{Role: "driver", Amount: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Validation failed")
	assert.Contains(t, err.Error(), "email")
}

package apperrors

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapAndUnwrap(t *testing.T) {
	cause := errors.New("row not found")
	appErr := ErrNotFound(cause)

	assert.Equal(t, http.StatusNotFound, appErr.HTTPCode)
	assert.ErrorIs(t, appErr, cause)
	assert.Contains(t, appErr.Error(), "row not found")
}

func TestSentinelsSurviveWithError(t *testing.T) {
	cause := errors.New("connection refused")
	err := ErrPaymentGatewayUnavailable.WithError(cause)

	// The copy still matches the sentinel and carries the cause.
	assert.ErrorIs(t, err, ErrPaymentGatewayUnavailable)
	assert.ErrorIs(t, err, cause)

	// The sentinel itself was not mutated.
	assert.Nil(t, ErrPaymentGatewayUnavailable.Err)
}

func TestWithDetailsDoesNotMutateSentinel(t *testing.T) {
	err := ErrJobNoLongerAvailable.WithDetails(map[string]string{"job_id": "j1"})
	assert.NotNil(t, err.Details)
	assert.Nil(t, ErrJobNoLongerAvailable.Details)
	assert.ErrorIs(t, err, ErrJobNoLongerAvailable)
}

func TestMarshalJSONHidesInternalFields(t *testing.T) {
	appErr := Wrap(errors.New("secret cause"), CodeValidationFailed, "validation", "Validation failed", http.StatusBadRequest).
		WithDetails(map[string]string{"title": "This field is required"})

	data, err := json.Marshal(appErr)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, string(CodeValidationFailed), decoded["code"])
	assert.NotContains(t, string(data), "secret cause")
	assert.NotContains(t, string(data), "HTTPCode")
}

func TestStoreErrorClassification(t *testing.T) {
	// Connection-level failures become a retryable 503.
	for _, cause := range []error{
		driver.ErrBadConn,
		fmt.Errorf("query: %w", driver.ErrBadConn),
		context.DeadlineExceeded,
		&net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")},
	} {
		err := StoreError(cause)
		assert.ErrorIs(t, err, ErrStoreUnavailable, cause)
		assert.Equal(t, CodeExternalServiceError, err.Code)
		assert.Equal(t, http.StatusServiceUnavailable, err.HTTPCode)
		assert.ErrorIs(t, err, cause)
	}

	// Anything else stays internal.
	err := StoreError(errors.New("constraint violated"))
	assert.Equal(t, CodeInternalError, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPCode)
}

func TestAsAppError(t *testing.T) {
	appErr, ok := AsAppError(ErrInvalidCredentials)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidCredentials, appErr.Code)

	_, ok = AsAppError(errors.New("plain"))
	assert.False(t, ok)
}

func TestHTTPCodesMatchCategories(t *testing.T) {
	cases := []struct {
		err  *AppError
		code int
	}{
		{ValidationError(nil), http.StatusBadRequest},
		{ErrInsufficientPermissions, http.StatusForbidden},
		{ErrNotFound(errors.New("x")), http.StatusNotFound},
		{ErrJobNoLongerAvailable, http.StatusConflict},
		{ErrJobNotInProgress, http.StatusConflict},
		{ErrPaymentGatewayUnavailable, http.StatusServiceUnavailable},
		{InternalError(errors.New("x")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, tc.err.HTTPCode, tc.err.Code)
	}
}

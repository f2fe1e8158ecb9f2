package apperrors

import (
	"context"
	"database/sql/driver"
	stderrors "errors"
	"net"
	"net/http"
)

// Factories and predefined sentinels for domain errors.

// ErrNotFound wraps a repository not-found error into a 404.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists wraps a duplicate-record error into a 409.
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusConflict)
}

// --- Auth ---

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

var ErrInvalidUserRole = New(
	CodeInvalidOperation,
	"business_logic",
	"Invalid user role for this operation",
	http.StatusBadRequest,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"Password is too weak. Minimum 6 characters required.",
	http.StatusBadRequest,
)

// --- Jobs ---

// ErrJobNoLongerAvailable covers a lost claim race as well as a claim on a
// job that is past pending: the caller sees "no longer available" either way.
var ErrJobNoLongerAvailable = New(
	CodeInvalidStatus,
	"job",
	"Job is no longer available",
	http.StatusConflict,
)

var ErrJobNotInProgress = New(
	CodeInvalidStatus,
	"job",
	"Job is not in progress",
	http.StatusConflict,
)

var ErrNotAssignedDriver = New(
	CodeForbidden,
	"job",
	"Only the assigned driver may complete this job",
	http.StatusForbidden,
)

var ErrTargetNotDriver = New(
	CodeInvalidOperation,
	"job",
	"Target user is not a driver",
	http.StatusBadRequest,
)

var ErrJobTitleRequired = New(
	CodeValidationFailed,
	"job",
	"Job title is required",
	http.StatusBadRequest,
)

var ErrNegativeAmount = New(
	CodeValidationFailed,
	"job",
	"Expense and revenue must be non-negative",
	http.StatusBadRequest,
)

// --- Billing ---

var ErrUnknownPlan = New(
	CodeNotFound,
	"billing",
	"Unknown billing plan",
	http.StatusNotFound,
)

var ErrPaymentNotCompleted = New(
	CodeConflict,
	"billing",
	"Payment has not been completed",
	http.StatusConflict,
)

var ErrPaymentGatewayUnavailable = New(
	CodeExternalServiceError,
	"billing",
	"Payment provider unavailable",
	http.StatusServiceUnavailable,
)

// --- Data store ---

var ErrStoreUnavailable = New(
	CodeExternalServiceError,
	"storage",
	"Data store unavailable",
	http.StatusServiceUnavailable,
)

// StoreError classifies an unexpected repository error. Connection-level
// failures surface as ErrStoreUnavailable (503) so callers can retry;
// everything else stays an internal error.
func StoreError(err error) *AppError {
	if isStoreUnavailable(err) {
		return ErrStoreUnavailable.WithError(err)
	}
	return InternalError(err)
}

func isStoreUnavailable(err error) bool {
	if stderrors.Is(err, driver.ErrBadConn) ||
		stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return stderrors.As(err, &netErr)
}

package error

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBaseErrorTypes(t *testing.T) {
	if ErrInsufficientBalance.Error() != "insufficient balance" {
		t.Errorf("ErrInsufficientBalance has unexpected message: %s", ErrInsufficientBalance.Error())
	}
	if ErrRaceLost.Error() != "charge lost a concurrent race" {
		t.Errorf("ErrRaceLost has unexpected message: %s", ErrRaceLost.Error())
	}
}

func TestErrorCode(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected string
		status   int
	}{
		{"NotAuthenticated", ErrNotAuthenticated, "NOT_AUTHENTICATED", http.StatusUnauthorized},
		{"InvalidIdentity", ErrInvalidIdentity, "INVALID_IDENTITY", http.StatusBadRequest},
		{"PromptTooShort", ErrPromptTooShort, "INVALID_REQUEST", http.StatusBadRequest},
		{"InsufficientBalance", ErrInsufficientBalance, "INSUFFICIENT_BALANCE", http.StatusPaymentRequired},
		{"CapabilityNotEntitled", ErrCapabilityNotEntitled, "CAPABILITY_NOT_ENTITLED", http.StatusForbidden},
		{"RateLimited", ErrRateLimited, "RATE_LIMITED", http.StatusTooManyRequests},
		{"DuplicateRequest", ErrDuplicateRequest, "DUPLICATE_REQUEST", http.StatusConflict},
		{"RaceLost", ErrRaceLost, "CHARGE_RACE_LOST", http.StatusConflict},
		{"ProviderError", ErrProviderError, "PROVIDER_ERROR", http.StatusBadGateway},
		{"StoreUnavailable", ErrStoreUnavailable, "STORE_UNAVAILABLE", http.StatusServiceUnavailable},
		{"UnknownError", errors.New("unknown error"), "INTERNAL_ERROR", http.StatusInternalServerError},
		{"WrappedError", fmt.Errorf("wrapped: %w", ErrInvalidIdentity), "INVALID_IDENTITY", http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ErrorCode(tc.err))
			assert.Equal(t, tc.status, HTTPStatus(tc.err))
		})
	}
}

func TestDenialError(t *testing.T) {
	err := NewInsufficientBalanceError(42, 0, 1)

	assert.True(t, errors.Is(err, ErrInsufficientBalance))
	assert.True(t, IsDenial(err))
	assert.Equal(t, "operation denied for customer 42 (INSUFFICIENT_BALANCE): balance 0, required 1", err.Error())

	var denial *DenialError
	assert.True(t, errors.As(err, &denial))
	assert.Equal(t, int64(1), denial.Required)

	fields := denial.LogFields()
	assert.Equal(t, "entitlement_denied", fields["error_type"])
	assert.Equal(t, CodeInsufficientBalance, fields["error_code"])

	capErr := NewCapabilityNotEntitledError(7, 5, 3)
	assert.True(t, errors.Is(capErr, ErrCapabilityNotEntitled))
	assert.False(t, errors.Is(capErr, ErrInsufficientBalance))
}

func TestRaceLostError(t *testing.T) {
	err := NewRaceLostError(7, "PAID", 3, "generation:abc")

	assert.True(t, IsRaceLost(err))
	assert.True(t, IsRaceLost(fmt.Errorf("charge: %w", err)))
	assert.Equal(t, true, LogFields(err)["manual_reconciliation"])
	assert.Equal(t, CodeRaceLost, ErrorCode(err))
}

func TestProviderError(t *testing.T) {
	cause := errors.New("upstream exploded")
	err := NewProviderError("openai", "generate", 500, cause)

	assert.True(t, errors.Is(err, ErrProviderError))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "openai generate failed with status 500: upstream exploded", err.Error())

	fields := LogFields(err)
	assert.Equal(t, "openai", fields["provider"])
	assert.Equal(t, 500, fields["status_code"])

	noStatus := NewProviderError("removebg", "remove", 0, cause)
	assert.Equal(t, "removebg remove failed: upstream exploded", noStatus.Error())
}

func TestLogFieldsFallback(t *testing.T) {
	fields := LogFields(ErrStoreUnavailable)
	assert.Equal(t, "ledger store unavailable", fields["error"])
	assert.Equal(t, CodeStoreUnavailable, fields["error_code"])
}

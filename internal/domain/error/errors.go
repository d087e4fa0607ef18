package error

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable error codes returned to storefront clients
const (
	// Client errors
	CodeNotAuthenticated      = "NOT_AUTHENTICATED"
	CodeInvalidIdentity       = "INVALID_IDENTITY"
	CodeInvalidRequest        = "INVALID_REQUEST"
	CodeInsufficientBalance   = "INSUFFICIENT_BALANCE"
	CodeCapabilityNotEntitled = "CAPABILITY_NOT_ENTITLED"
	CodeRateLimited           = "RATE_LIMITED"
	CodeAccountNotFound       = "ACCOUNT_NOT_FOUND"
	CodeDuplicateRequest      = "DUPLICATE_REQUEST"

	// Uncertain ledger state
	CodeRaceLost = "CHARGE_RACE_LOST"

	// Upstream and server errors
	CodeProviderError    = "PROVIDER_ERROR"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeInternalServer   = "INTERNAL_ERROR"
)

// Base error types
var (
	// ErrNotAuthenticated is returned when a billable request carries no caller identity
	ErrNotAuthenticated = errors.New("caller identity is required")

	// ErrInvalidIdentity is returned when the customer id cannot be normalized to a stable key
	ErrInvalidIdentity = errors.New("customer id must be a positive integer")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrPromptTooShort is returned when a generation prompt is shorter than the minimum length
	ErrPromptTooShort = errors.New("prompt too short")

	// ErrInvalidCost is returned when a paid charge is requested with a non-positive cost
	ErrInvalidCost = errors.New("charge cost must be positive")

	// ErrInvalidBillingMode is returned when a charge is requested for a denied decision
	ErrInvalidBillingMode = errors.New("invalid billing mode")

	// ErrInsufficientBalance is returned when the balance does not cover the nominal cost
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrCapabilityNotEntitled is returned when the account lacks a gated add-on
	ErrCapabilityNotEntitled = errors.New("capability not entitled")

	// ErrRateLimited is returned when the caller exceeded the paid operation rate
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrDuplicateRequest is returned when a request id was already billed for the customer
	ErrDuplicateRequest = errors.New("request id was already used")

	// ErrRaceLost is returned when a conditional charge affected no rows after the paid work completed
	ErrRaceLost = errors.New("charge lost a concurrent race")

	// ErrProviderError is returned when an external provider call fails
	ErrProviderError = errors.New("provider error")

	// ErrStoreUnavailable is returned when the ledger store cannot be reached
	ErrStoreUnavailable = errors.New("ledger store unavailable")

	// ErrAccountNotFound is returned when the requested account doesn't exist
	ErrAccountNotFound = errors.New("account not found")

	// ErrDuplicateCorrelation is returned when a usage record with the same correlation id already exists
	ErrDuplicateCorrelation = errors.New("usage record with this correlation id already exists")

	// ErrConstraintViolation is returned when a database constraint is violated
	ErrConstraintViolation = errors.New("database constraint violation")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns the machine-readable code for known errors
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return CodeNotAuthenticated
	case errors.Is(err, ErrInvalidIdentity):
		return CodeInvalidIdentity
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrPromptTooShort),
		errors.Is(err, ErrInvalidCost),
		errors.Is(err, ErrInvalidBillingMode):
		return CodeInvalidRequest
	case errors.Is(err, ErrInsufficientBalance):
		return CodeInsufficientBalance
	case errors.Is(err, ErrCapabilityNotEntitled):
		return CodeCapabilityNotEntitled
	case errors.Is(err, ErrRateLimited):
		return CodeRateLimited
	case errors.Is(err, ErrAccountNotFound):
		return CodeAccountNotFound
	case errors.Is(err, ErrDuplicateRequest):
		return CodeDuplicateRequest
	case errors.Is(err, ErrRaceLost):
		return CodeRaceLost
	case errors.Is(err, ErrProviderError):
		return CodeProviderError
	case errors.Is(err, ErrStoreUnavailable):
		return CodeStoreUnavailable
	default:
		return CodeInternalServer
	}
}

// HTTPStatus maps a domain error to the HTTP status the storefront expects
func HTTPStatus(err error) int {
	switch ErrorCode(err) {
	case CodeNotAuthenticated:
		return http.StatusUnauthorized
	case CodeInvalidIdentity, CodeInvalidRequest:
		return http.StatusBadRequest
	case CodeInsufficientBalance:
		return http.StatusPaymentRequired
	case CodeCapabilityNotEntitled:
		return http.StatusForbidden
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeAccountNotFound:
		return http.StatusNotFound
	case CodeRaceLost, CodeDuplicateRequest:
		return http.StatusConflict
	case CodeProviderError:
		return http.StatusBadGateway
	case CodeStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// DenialError carries the entitlement state a caller needs to offer a purchase path
type DenialError struct {
	CustomerID uint64
	Reason     string
	Balance    int64
	Required   int64
	Err        error
}

// Error implements the error interface for DenialError
func (e *DenialError) Error() string {
	return fmt.Sprintf("operation denied for customer %d (%s): balance %d, required %d",
		e.CustomerID, e.Reason, e.Balance, e.Required)
}

// Unwrap returns the underlying error
func (e *DenialError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *DenialError) LogFields() map[string]any {
	return map[string]any{
		"error_type":  "entitlement_denied",
		"customer_id": e.CustomerID,
		"reason":      e.Reason,
		"balance":     e.Balance,
		"required":    e.Required,
		"error_code":  ErrorCode(e.Err),
	}
}

// NewInsufficientBalanceError creates a denial for a balance that does not cover the cost
func NewInsufficientBalanceError(customerID uint64, balance, required int64) error {
	return &DenialError{
		CustomerID: customerID,
		Reason:     CodeInsufficientBalance,
		Balance:    balance,
		Required:   required,
		Err:        ErrInsufficientBalance,
	}
}

// NewCapabilityNotEntitledError creates a denial for an add-on the account may not use
func NewCapabilityNotEntitledError(customerID uint64, balance, required int64) error {
	return &DenialError{
		CustomerID: customerID,
		Reason:     CodeCapabilityNotEntitled,
		Balance:    balance,
		Required:   required,
		Err:        ErrCapabilityNotEntitled,
	}
}

// RaceLostError describes a charge whose outcome must be reconciled by hand
type RaceLostError struct {
	CustomerID    uint64
	BillingMode   string
	Cost          int64
	CorrelationID string
}

// Error implements the error interface
func (e *RaceLostError) Error() string {
	return fmt.Sprintf("charge of %d (%s) for customer %d lost a concurrent race (correlation %s)",
		e.Cost, e.BillingMode, e.CustomerID, e.CorrelationID)
}

// Is checks if the target error is an ErrRaceLost
func (e *RaceLostError) Is(target error) bool {
	return target == ErrRaceLost
}

// LogFields returns a map of fields for structured logging
func (e *RaceLostError) LogFields() map[string]any {
	return map[string]any{
		"error_type":            "charge_race_lost",
		"customer_id":           e.CustomerID,
		"billing_mode":          e.BillingMode,
		"cost":                  e.Cost,
		"correlation_id":        e.CorrelationID,
		"manual_reconciliation": true,
		"error_code":            CodeRaceLost,
	}
}

// NewRaceLostError creates a new race lost error
func NewRaceLostError(customerID uint64, billingMode string, cost int64, correlationID string) error {
	return &RaceLostError{
		CustomerID:    customerID,
		BillingMode:   billingMode,
		Cost:          cost,
		CorrelationID: correlationID,
	}
}

// ProviderError wraps a failed call to an external provider
type ProviderError struct {
	Provider   string
	Operation  string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s %s failed with status %d: %v", e.Provider, e.Operation, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Provider, e.Operation, e.Err)
}

// Unwrap returns the underlying error
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is checks if the target error is an ErrProviderError
func (e *ProviderError) Is(target error) bool {
	return target == ErrProviderError
}

// LogFields returns a map of fields for structured logging
func (e *ProviderError) LogFields() map[string]any {
	fields := map[string]any{
		"error_type": "provider_error",
		"provider":   e.Provider,
		"operation":  e.Operation,
		"error_code": CodeProviderError,
	}
	if e.StatusCode > 0 {
		fields["status_code"] = e.StatusCode
	}
	if e.Err != nil {
		fields["error"] = e.Err.Error()
	}
	return fields
}

// NewProviderError creates a new provider error
func NewProviderError(provider, operation string, statusCode int, err error) error {
	return &ProviderError{
		Provider:   provider,
		Operation:  operation,
		StatusCode: statusCode,
		Err:        err,
	}
}

// IsDenial checks if the error is an entitlement denial
func IsDenial(err error) bool {
	return errors.Is(err, ErrInsufficientBalance) || errors.Is(err, ErrCapabilityNotEntitled)
}

// IsRaceLost checks if the error leaves the ledger in an uncertain state
func IsRaceLost(err error) bool {
	return errors.Is(err, ErrRaceLost)
}

// IsStoreUnavailable checks if the error came from an unreachable store
func IsStoreUnavailable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable)
}

// LogFields extracts structured fields from errors that carry them
func LogFields(err error) map[string]any {
	var fielder interface{ LogFields() map[string]any }
	if errors.As(err, &fielder) {
		return fielder.LogFields()
	}
	return map[string]any{
		"error":      err.Error(),
		"error_code": ErrorCode(err),
	}
}

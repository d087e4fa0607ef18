package dto

import (
	"errors"

	errs "github.com/ownaimerch/merch-credits/internal/domain/error"
)

// ErrorResponse represents a standardized error response for the API
type ErrorResponse struct {
	OK       bool   `json:"ok"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Balance  *int64 `json:"balance,omitempty"`
	Required *int64 `json:"required,omitempty"`
}

// messages shown to storefront users, by error code
var messages = map[string]string{
	errs.CodeNotAuthenticated:      "Sign in to continue",
	errs.CodeInvalidIdentity:       "Invalid customer id",
	errs.CodeInvalidRequest:        "Invalid request",
	errs.CodeInsufficientBalance:   "Not enough credits",
	errs.CodeCapabilityNotEntitled: "Buy a credit pack to unlock this feature",
	errs.CodeRateLimited:           "Too many requests, try again shortly",
	errs.CodeAccountNotFound:       "Account not found",
	errs.CodeDuplicateRequest:      "This request was already processed",
	errs.CodeRaceLost:              "Your request could not be billed, please contact support",
	errs.CodeProviderError:         "Upstream service failed, please try again",
	errs.CodeStoreUnavailable:      "Service temporarily unavailable",
	errs.CodeInternalServer:        "Internal server error",
}

// NewErrorResponse builds the response body for a domain error
func NewErrorResponse(err error) ErrorResponse {
	code := errs.ErrorCode(err)
	response := ErrorResponse{
		OK:      false,
		Code:    code,
		Message: messages[code],
	}

	if code == errs.CodeInvalidRequest {
		response.Message = err.Error()
	}

	var denial *errs.DenialError
	if errors.As(err, &denial) {
		balance, required := denial.Balance, denial.Required
		response.Balance = &balance
		response.Required = &required
	}
	return response
}

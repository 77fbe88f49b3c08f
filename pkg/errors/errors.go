// Package errors provides structured error types for clawctl.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the SDK and the CLI
//   - Machine-readable error codes mirrored from the Clawnch API
//   - User-friendly error messages with optional suggestions
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes reported by the Clawnch API (MISSING_PLATFORM, TICKER_TAKEN, ...) are
// declared here so callers can match them without string literals. Local
// codes cover input validation and missing credentials.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidAddress, "invalid wallet: %s", addr)
//	if errors.Is(err, errors.ErrCodeInvalidAddress) {
//	    // Handle validation error
//	}
//
//	var apiErr *errors.APIError
//	if stderrors.As(err, &apiErr) && apiErr.Code == errors.ErrCodeTickerTaken {
//	    // Pick another symbol
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Local error codes.
const (
	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidAddress Code = "INVALID_ADDRESS"
	ErrCodeInvalidAmount  Code = "INVALID_AMOUNT"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Credential errors
	ErrCodeWalletRequired    Code = "WALLET_REQUIRED"
	ErrCodeMoltenKeyRequired Code = "MOLTEN_KEY_REQUIRED"
	ErrCodeUnauthorized      Code = "UNAUTHORIZED"

	// Chain errors
	ErrCodeChain Code = "CHAIN_ERROR"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Codes reported by the Clawnch API.
const (
	ErrCodeMissingPlatform        Code = "MISSING_PLATFORM"
	ErrCodeMissingPostID          Code = "MISSING_POST_ID"
	ErrCodeInvalidPlatform        Code = "INVALID_PLATFORM"
	ErrCodePostNotFound           Code = "POST_NOT_FOUND"
	ErrCodeMissingTrigger         Code = "MISSING_TRIGGER"
	ErrCodeInvalidTokenDetails    Code = "INVALID_TOKEN_DETAILS"
	ErrCodeInvalidImageURL        Code = "INVALID_IMAGE_URL"
	ErrCodeTickerTaken            Code = "TICKER_TAKEN"
	ErrCodeAlreadyProcessed       Code = "ALREADY_PROCESSED"
	ErrCodeRateLimited            Code = "RATE_LIMITED"
	ErrCodeBurnHashAlreadyUsed    Code = "BURN_HASH_ALREADY_USED"
	ErrCodeBurnVerificationFailed Code = "BURN_VERIFICATION_FAILED"
	ErrCodeDeploymentFailed       Code = "DEPLOYMENT_FAILED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error or *APIError with a matching code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error carries no code.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error and *APIError types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message == "" {
			return fmt.Sprintf("HTTP %d", apiErr.Status)
		}
		return apiErr.Message
	}
	return err.Error()
}

// APIError is the decoded error body of a non-2xx Clawnch API response.
//
// The API answers failures with:
//
//	{"success": false, "error": "...", "code": "TICKER_TAKEN", "details": [...], "suggestion": "..."}
//
// Every field except Status is optional on the wire.
type APIError struct {
	Status     int      `json:"-"`
	Code       Code     `json:"code,omitempty"`
	Message    string   `json:"error,omitempty"`
	Details    []string `json:"details,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d", e.Status)
	}
	if len(e.Details) > 0 {
		msg += " (" + strings.Join(e.Details, "; ") + ")"
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	return msg
}

// NotFound reports whether the response was a 404.
func (e *APIError) NotFound() bool { return e.Status == http.StatusNotFound }

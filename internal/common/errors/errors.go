// Package errors provides standardized error handling for the conversation
// service and its fulfillment collaborators.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeSessionLoadFailed ErrorCode = "SESSION_LOAD_FAILED"
	ErrCodeSessionSaveFailed ErrorCode = "SESSION_SAVE_FAILED"
	ErrCodeSessionLockFailed ErrorCode = "SESSION_LOCK_FAILED"

	ErrCodeInvalidStage ErrorCode = "INVALID_STAGE"

	ErrCodeRecordValidationFailed ErrorCode = "RECORD_VALIDATION_FAILED"
	ErrCodeDispatchStoreFailed    ErrorCode = "DISPATCH_STORE_FAILED"
	ErrCodeWebhookNotifyFailed    ErrorCode = "WEBHOOK_NOTIFY_FAILED"
	ErrCodePartnerNotifyFailed    ErrorCode = "PARTNER_NOTIFY_FAILED"
	ErrCodeReportingIndexFailed   ErrorCode = "REPORTING_INDEX_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewSessionLoadFailedError creates a retryable session store read error.
func NewSessionLoadFailedError(sessionID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionLoadFailed,
		Message:   "Failed to load conversation session",
		Details:   fmt.Sprintf("sessionId: %s, error: %s", sessionID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionSaveFailedError creates a retryable session store write error.
func NewSessionSaveFailedError(sessionID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionSaveFailed,
		Message:   "Failed to save conversation session",
		Details:   fmt.Sprintf("sessionId: %s, error: %s", sessionID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionLockFailedError creates a retryable per-session lock error.
func NewSessionLockFailedError(sessionID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionLockFailed,
		Message:   "Failed to acquire session lock",
		Details:   fmt.Sprintf("sessionId: %s, error: %s", sessionID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidStageError creates a non-retryable internal error for a stage
// the workflow engine should never reach.
func NewInvalidStageError(sessionID, stage string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidStage,
		Message:   "Conversation reached an unknown stage",
		Details:   fmt.Sprintf("sessionId: %s, stage: %s", sessionID, stage),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRecordValidationFailedError creates a non-retryable record validation error.
func NewRecordValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordValidationFailed,
		Message:   "Fulfillment record failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDispatchStoreFailedError creates a retryable database insert error.
func NewDispatchStoreFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDispatchStoreFailed,
		Message:   "Failed to persist fulfillment record",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewWebhookNotifyFailedError creates a retryable webhook notification error.
func NewWebhookNotifyFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeWebhookNotifyFailed,
		Message:   "Fulfillment webhook notification failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPartnerNotifyFailedError creates a retryable partner notification error.
func NewPartnerNotifyFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePartnerNotifyFailed,
		Message:   "Partner notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewReportingIndexFailedError creates a retryable reporting index error.
func NewReportingIndexFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeReportingIndexFailed,
		Message:   "Reporting index write failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// GetRetryCount returns the recommended retry count per error code. The
// conversational turn itself is never retried; these counts apply to the
// background collaborators only.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDispatchStoreFailed,
		ErrCodeWebhookNotifyFailed,
		ErrCodePartnerNotifyFailed,
		ErrCodeReportingIndexFailed:
		return 3

	case ErrCodeSessionLoadFailed,
		ErrCodeSessionSaveFailed,
		ErrCodeSessionLockFailed:
		return 2

	default:
		return 0
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "SESSION"):
		return "SESSION"
	case strings.Contains(codeStr, "STAGE"):
		return "WORKFLOW"
	case strings.Contains(codeStr, "DISPATCH") || strings.Contains(codeStr, "RECORD"):
		return "FULFILLMENT"
	case strings.Contains(codeStr, "NOTIFY") || strings.Contains(codeStr, "REPORTING"):
		return "NOTIFICATION"
	default:
		return "OTHER"
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the Gemini client, carrying a
// user-presentable Message alongside the underlying cause.
type ClientError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Definitive reports whether retrying the same send would fail again.
// Only unclassified errors are considered transient.
func (e *ClientError) Definitive() bool {
	return e.Type != ErrTypeUnclassified
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnclassified ErrorType = iota
	ErrTypeNotConfigured
	ErrTypeEmptyMessage
	ErrTypeBadCredential
	ErrTypeModelNotFound
	ErrTypePayloadTooLarge
	ErrTypeInstructionRejected
)

// Sentinel errors for easy checking.
var (
	ErrNotConfigured = &ClientError{
		Type: ErrTypeNotConfigured,
		Message: "Gemini API key not configured. Please set GEMCHAT_API_KEY " +
			"(recommended) or API_KEY (legacy) environment variable.",
	}
	ErrEmptyMessage = &ClientError{
		Type:    ErrTypeEmptyMessage,
		Message: "Cannot send an empty message.",
	}
)

// IsNotConfigured returns true if the error indicates a missing API key.
func IsNotConfigured(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrTypeNotConfigured
}

// IsModelNotFound returns true if the error indicates an unknown model.
func IsModelNotFound(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrTypeModelNotFound
}

// IsDefinitive reports whether the error is definitive (retrying the same
// send would fail again). Unknown error values are treated as transient.
func IsDefinitive(err error) bool {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Definitive()
	}
	return false
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

// classify maps an API or transport failure onto the error taxonomy and
// renders the user-facing message. keyName is the environment variable the
// credential came from; modelID names the model in use.
func classify(statusCode int, apiMessage string, cause error, keyName, modelID string) *ClientError {
	lower := strings.ToLower(apiMessage)

	switch {
	case statusCode == 401 || statusCode == 403 ||
		strings.Contains(apiMessage, "API_KEY_INVALID") ||
		strings.Contains(apiMessage, "PERMISSION_DENIED") ||
		strings.Contains(lower, "api key not valid"):
		return &ClientError{
			Type: ErrTypeBadCredential,
			Message: fmt.Sprintf("There's an issue with the API Key (%s). "+
				"Please check if it's valid and has the correct permissions.", keyName),
			Cause: cause,
		}

	case statusCode == 404 || strings.Contains(lower, "model not found") ||
		(strings.Contains(lower, "not found") && strings.Contains(lower, "model")):
		return &ClientError{
			Type: ErrTypeModelNotFound,
			Message: fmt.Sprintf("The AI model ('%s') could not be found. "+
				"Please check the model name.", modelID),
			Cause: cause,
		}

	case statusCode == 413 ||
		strings.Contains(lower, "request payload size exceeds the limit") ||
		strings.Contains(lower, "request entity too large"):
		return &ClientError{
			Type: ErrTypePayloadTooLarge,
			Message: "The image or audio file you sent might be too large. " +
				"Please try a smaller file.",
			Cause: cause,
		}

	case strings.Contains(lower, "instruction") || strings.Contains(lower, "system"):
		return &ClientError{
			Type: ErrTypeInstructionRejected,
			Message: fmt.Sprintf("There was an issue with the AI's current persona "+
				"instructions. The chat may need to be reset or persona reselected. "+
				"Details: %s", apiMessage),
			Cause: cause,
		}

	default:
		detail := apiMessage
		if detail == "" && cause != nil {
			detail = cause.Error()
		}
		return &ClientError{
			Type:    ErrTypeUnclassified,
			Message: fmt.Sprintf("Sorry, an unexpected error occurred: %s. Please try again.", detail),
			Cause:   cause,
		}
	}
}

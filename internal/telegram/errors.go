package telegram

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is wrapped by every ConfigurationError
var ErrNotConfigured = errors.New("telegram not configured")

// ConfigurationError reports a missing bot token or chat ID
type ConfigurationError struct {
	Field string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrNotConfigured
}

// APIError reports a non-2xx response from the Bot API
type APIError struct {
	Method      string
	StatusCode  int
	Description string
	Body        string
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("telegram %s failed (status %d): %s", e.Method, e.StatusCode, e.Description)
	}
	return fmt.Sprintf("telegram %s failed (status %d): %s", e.Method, e.StatusCode, e.Body)
}

// Package common provides shared constants, types, and utilities
// used across the AI Wrapper application.
package common

import "errors"

// Sentinel errors for shell operations.
// These can be checked with errors.Is() for proper error handling.
var (
	// Catalog errors.
	ErrEmptyCatalog     = errors.New("catalog has no modes")
	ErrEmptyMode        = errors.New("mode has no services")
	ErrDuplicateService = errors.New("service id defined more than once")

	// Session errors.
	ErrSessionCreate = errors.New("failed to create session")
	ErrBrowserLaunch = errors.New("failed to launch browser")
	ErrSessionClosed = errors.New("session closed")

	// Filter errors.
	ErrInvalidPattern = errors.New("invalid match pattern")

	// Local model errors.
	ErrOllamaNotInstalled = errors.New("ollama is not installed")
	ErrOllamaRequest      = errors.New("ollama request failed")
	ErrBrokerClosed       = errors.New("chat broker closed")

	// Credential errors.
	ErrCredentialsNotFound = errors.New("credentials not found")
	ErrEncryption          = errors.New("encryption error")
	ErrDecryption          = errors.New("decryption error")

	// Configuration errors.
	ErrConfigLoad = errors.New("failed to load configuration")
	ErrConfigSave = errors.New("failed to save configuration")

	// Integration errors.
	ErrIntegration = errors.New("desktop integration failed")
)

// WrapError wraps an error with additional context.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg: message,
		err: err,
	}
}

type wrappedError struct {
	msg string
	err error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.err.Error()
}

func (e *wrappedError) Unwrap() error {
	return e.err
}

// Package apperr defines the error types that travel from the mail client
// and the triage loop up to the command line.
package apperr

import (
	"errors"
	"fmt"
)

// ConfigurationError indicates missing or malformed session or account
// data. It is fatal at startup.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Message
}

// TransportError is returned when a request could not be delivered or the
// server answered with a non-success HTTP status.
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transport error (%s): status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("transport error (%s): %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError indicates a payload that does not match the expected shape.
type DecodeError struct {
	What string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return "decode error (" + e.What + ")"
	}
	return fmt.Sprintf("decode error (%s): %v", e.What, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// RemoteOperationError is an application-level failure reported by a
// remote service, such as a JMAP method error or a rejected update.
type RemoteOperationError struct {
	Op          string
	Type        string
	Description string
}

func (e *RemoteOperationError) Error() string {
	msg := fmt.Sprintf("remote operation %s failed", e.Op)
	if e.Type != "" {
		msg += " (" + e.Type + ")"
	}
	if e.Description != "" {
		msg += ": " + e.Description
	}
	return msg
}

// NotFoundError is returned when an expected mailbox is absent.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// ValidationError means an action was invoked on input it does not apply
// to.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Message
}

// IsConfiguration reports whether err (or any error in its chain) is a
// ConfigurationError.
func IsConfiguration(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// IsTransport reports whether err wraps a TransportError.
func IsTransport(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}

// IsDecode reports whether err wraps a DecodeError.
func IsDecode(err error) bool {
	var target *DecodeError
	return errors.As(err, &target)
}

// IsRemoteOperation reports whether err wraps a RemoteOperationError.
func IsRemoteOperation(err error) bool {
	var target *RemoteOperationError
	return errors.As(err, &target)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsValidation reports whether err wraps a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

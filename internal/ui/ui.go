// Package ui holds the terminal collaborators used by the triage loop.
package ui

import "errors"

// ErrInterrupted is returned when the operator aborts a menu or prompt with
// ctrl+c.
var ErrInterrupted = errors.New("interrupted")

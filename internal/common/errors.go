// Package common defines sentinel errors shared across mentormatch
// components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Input discovery and parsing errors.
	ErrInputNotFound = errors.New("input not found")
	ErrMalformedRow  = errors.New("malformed row")

	// Rendering errors.
	ErrTemplateNotFound = errors.New("template not found")

	// Run control errors.
	ErrAborted = errors.New("run aborted")

	// Configuration errors.
	ErrUnknownDriver = errors.New("unknown store driver")
)

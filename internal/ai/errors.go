package ai

import "errors"

// Failure classes for the generation pipeline. Everything but
// ErrInvalidInput is recovered locally through the fallback generator.
var (
	ErrInvalidInput     = errors.New("ai: no usable input content")
	ErrNoCredential     = errors.New("ai: no credential configured")
	ErrAuthFailure      = errors.New("ai: authentication failed")
	ErrMalformedOutput  = errors.New("ai: malformed model output")
	ErrTransportFailure = errors.New("ai: transport failure")
)

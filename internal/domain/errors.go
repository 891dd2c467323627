package domain

import "errors"

// Sentinel errors for the conversation core. Handlers map these to HTTP
// status codes; everything else is treated as an internal failure.
var (
	// ErrSessionNotFound covers both unknown and archived session ids.
	// Callers cannot distinguish the two cases.
	ErrSessionNotFound = errors.New("session not found")

	// ErrValidation marks client-correctable input problems.
	ErrValidation = errors.New("validation failed")

	// ErrGenerationFailed marks a generation gateway error, timeout, or
	// cancellation. No history is committed when this is returned.
	ErrGenerationFailed = errors.New("generation failed")
)

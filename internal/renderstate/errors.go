package renderstate

import "errors"

// Validation errors for view states read from config files or storage.
var (
	// ErrNegativeTime indicates a playback time below zero.
	ErrNegativeTime = errors.New("renderstate: time must not be negative")

	// ErrNegativeResolution indicates a resolution with a negative side.
	ErrNegativeResolution = errors.New("renderstate: resolution must not be negative")

	// ErrUnknownRenderType indicates a render type outside the enum.
	ErrUnknownRenderType = errors.New("renderstate: unknown render type")

	// ErrNonFinite indicates a NaN or infinite component.
	ErrNonFinite = errors.New("renderstate: value is not finite")
)

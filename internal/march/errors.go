package march

import "errors"

var (
	// ErrNotVisible indicates the view is hidden; nothing is rendered.
	ErrNotVisible = errors.New("march: view is not visible")

	// ErrEmptyFrame indicates a resolution with no pixels.
	ErrEmptyFrame = errors.New("march: resolution has no pixels")

	// ErrUnknownScene indicates a scene name missing from the registry.
	ErrUnknownScene = errors.New("march: unknown scene")
)

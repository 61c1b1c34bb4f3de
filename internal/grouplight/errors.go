package grouplight

import "errors"

// Domain-specific errors for group light operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrInvalidPalette is returned when a configured colour list fails
	// validation. Setup of the whole group aborts.
	ErrInvalidPalette = errors.New("grouplight: invalid colour palette")

	// ErrInvalidColor is returned when a colour value carries neither a
	// hue/saturation pair nor an RGB triple.
	ErrInvalidColor = errors.New("grouplight: colour value is unset")

	// ErrGroupNotFound is returned when looking up an unknown group key.
	ErrGroupNotFound = errors.New("grouplight: group not found")

	// ErrGroupExists is returned when registering a duplicate group key.
	ErrGroupExists = errors.New("grouplight: group already registered")
)

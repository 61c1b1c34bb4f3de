package control

import "errors"

// Domain-specific errors for device control operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrDispatchFailed is returned when a device adapter reports a failed
	// or timed-out command, or when the command could not be published.
	ErrDispatchFailed = errors.New("control: command dispatch failed")

	// ErrAckTimeout is returned when no acknowledgment arrives within the
	// configured window.
	ErrAckTimeout = errors.New("control: acknowledgment timeout")

	// ErrNotStarted is returned when Send is called before Start.
	ErrNotStarted = errors.New("control: controller not started")
)

package control

import (
	"time"
)

// MQTT message types exchanged between Lumen Group Core and device adapters.

// CommandMessage is sent from Core to a device adapter to execute a command.
// Topic: lumengroup/command/{device_id}
type CommandMessage struct {
	// ID uniquely identifies this command for correlation with acknowledgments.
	ID string `json:"id"`

	// Timestamp is when the command was issued (UTC, ISO8601).
	Timestamp time.Time `json:"timestamp"`

	// DeviceID is the catalogue device identifier.
	DeviceID string `json:"device_id"`

	// Command is the command name (e.g., "turn_on", "turn_off", "set_color").
	Command string `json:"command"`

	// Parameters contains command-specific values.
	// Examples:
	//   {"brightness": 128, "transition": 2} for turn_on
	//   {"hs_color": [330, 70]} for set_color
	Parameters map[string]any `json:"parameters,omitempty"`

	// Source indicates where the command originated.
	// Values: "group", "api"
	Source string `json:"source"`
}

// AckStatus represents the acknowledgment status of a command.
type AckStatus string

const (
	// AckAccepted indicates the command was received and sent to the device.
	AckAccepted AckStatus = "accepted"

	// AckFailed indicates the command could not be executed.
	AckFailed AckStatus = "failed"

	// AckTimeout indicates the device did not respond within the adapter's timeout.
	AckTimeout AckStatus = "timeout"
)

// AckMessage is sent from a device adapter to Core to acknowledge a command.
// Topic: lumengroup/ack/{device_id}
type AckMessage struct {
	// CommandID is the ID from the original command.
	CommandID string `json:"command_id"`

	// Timestamp is when the acknowledgment was sent (UTC, ISO8601).
	Timestamp time.Time `json:"timestamp"`

	// DeviceID is the catalogue device identifier.
	DeviceID string `json:"device_id"`

	// Status indicates the acknowledgment status.
	Status AckStatus `json:"status"`

	// Error contains details if status is "failed" or "timeout".
	Error *AckError `json:"error,omitempty"`
}

// AckError contains error details for failed commands.
type AckError struct {
	// Code is the error code (e.g., "DEVICE_UNREACHABLE", "INVALID_COMMAND").
	Code string `json:"code"`

	// Message is a human-readable error description.
	Message string `json:"message"`
}

// Error codes for command failures.
const (
	ErrCodeDeviceUnreachable = "DEVICE_UNREACHABLE"
	ErrCodeInvalidCommand    = "INVALID_COMMAND"
	ErrCodeInvalidParameters = "INVALID_PARAMETERS"
	ErrCodeTimeout           = "TIMEOUT"
)

// StateMessage is sent from a device adapter to Core when device state changes.
// Topic: lumengroup/state/{device_id}
// QoS: 1, Retained: Yes
type StateMessage struct {
	// DeviceID is the catalogue device identifier.
	DeviceID string `json:"device_id"`

	// Timestamp is when the state was observed (UTC, ISO8601).
	Timestamp time.Time `json:"timestamp"`

	// State contains the current device state.
	// Lights report {"on": true, "brightness": 128}.
	State map[string]any `json:"state"`
}

// PowerOn reports whether the state message carries an "on" field and,
// if so, its value.
func (m StateMessage) PowerOn() (on, ok bool) {
	v, present := m.State["on"]
	if !present {
		return false, false
	}
	b, isBool := v.(bool)
	if !isBool {
		return false, false
	}
	return b, true
}

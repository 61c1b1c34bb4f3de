package mqtt

import (
	"fmt"
	"strings"
)

// Topic prefixes for the Lumen Group message bus.
//
// All device topics use the flat scheme: lumengroup/{category}/{device_id}.
// Controllers publish commands, device adapters answer with acks, and
// adapters push unsolicited state changes on the state topics.
const (
	// TopicPrefix is the base for all Lumen Group topics.
	TopicPrefix = "lumengroup"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "lumengroup/system"
)

// Topics provides builders for Lumen Group MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	cmdTopic := topics.DeviceCommand("light-hall-main")
//	// Returns: "lumengroup/command/light-hall-main"
type Topics struct{}

// DeviceCommand returns the topic for commands to a device adapter.
//
// Example: lumengroup/command/light-hall-main
func (Topics) DeviceCommand(deviceID string) string {
	return fmt.Sprintf("%s/command/%s", TopicPrefix, deviceID)
}

// DeviceAck returns the topic for command acknowledgements from a device
// adapter. Ack payloads carry the command ID they answer.
//
// Example: lumengroup/ack/light-hall-main
func (Topics) DeviceAck(deviceID string) string {
	return fmt.Sprintf("%s/ack/%s", TopicPrefix, deviceID)
}

// DeviceState returns the topic for unsolicited state updates from a
// device adapter.
//
// Example: lumengroup/state/light-hall-main
func (Topics) DeviceState(deviceID string) string {
	return fmt.Sprintf("%s/state/%s", TopicPrefix, deviceID)
}

// GroupEvent returns the topic for group lifecycle and availability events.
//
// Example: lumengroup/group/back-hall/availability
func (Topics) GroupEvent(groupKey, event string) string {
	return fmt.Sprintf("%s/group/%s/%s", TopicPrefix, groupKey, event)
}

// SystemStatus returns the system status topic used for the service's
// online/offline announcements and LWT.
//
// Example: lumengroup/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllDeviceStates returns a pattern matching all device state updates.
//
// Pattern: lumengroup/state/+
func (Topics) AllDeviceStates() string {
	return fmt.Sprintf("%s/state/+", TopicPrefix)
}

// AllDeviceAcks returns a pattern matching all device acknowledgements.
//
// Pattern: lumengroup/ack/+
func (Topics) AllDeviceAcks() string {
	return fmt.Sprintf("%s/ack/+", TopicPrefix)
}

// AllTopics returns a pattern matching all Lumen Group topics.
// Use with caution - this receives ALL traffic.
//
// Pattern: lumengroup/#
func (Topics) AllTopics() string {
	return "lumengroup/#"
}

// DeviceIDFromTopic extracts the device ID from a flat device topic
// such as lumengroup/state/{device_id} or lumengroup/ack/{device_id}.
// Returns an empty string if the topic does not match the scheme.
func DeviceIDFromTopic(topic string) string {
	parts := strings.Split(topic, "/")
	if len(parts) != 3 || parts[0] != TopicPrefix {
		return ""
	}
	switch parts[1] {
	case "command", "ack", "state":
		return parts[2]
	}
	return ""
}

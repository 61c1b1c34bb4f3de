package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteGroupAvailability records a group availability transition.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - groupKey: Registry key of the group (e.g., "back-hall")
//   - available: The new availability
//
// Example:
//
//	client.WriteGroupAvailability("back-hall", true)
func (c *Client) WriteGroupAvailability(groupKey string, available bool) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"group_availability",
		map[string]string{
			"group": groupKey,
		},
		map[string]interface{}{
			"available": available,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteGroupCommand records the outcome of one group-level command.
//
// Parameters:
//   - groupKey: Registry key of the group
//   - command: The group operation ("turn_on", "turn_off", "set_color", "set_color_temperature")
//   - memberCount: Number of members addressed by the fanout
//   - success: Whether the fanout completed without a dispatch failure
//   - duration: Wall time of the whole fanout
func (c *Client) WriteGroupCommand(groupKey, command string, memberCount int, success bool, duration time.Duration) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"group_command",
		map[string]string{
			"group":   groupKey,
			"command": command,
		},
		map[string]interface{}{
			"members":     memberCount,
			"success":     success,
			"duration_ms": duration.Milliseconds(),
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WriteDevicePowerState records an observed device power state change.
//
// Parameters:
//   - deviceID: Catalogue device identifier
//   - on: The observed power state
func (c *Client) WriteDevicePowerState(deviceID string, on bool) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"device_power",
		map[string]string{
			"device_id": deviceID,
		},
		map[string]interface{}{
			"on": on,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

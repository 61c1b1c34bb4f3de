// Package influxdb provides time-series history recording for Lumen
// Group Core.
//
// This package manages:
//   - Connection to InfluxDB v2 with token authentication
//   - Non-blocking batched writes
//   - Health monitoring
//
// # Measurements
//
//   - group_availability: one point per availability transition, tagged
//     by group key
//   - group_command: one point per group command fanout with outcome and
//     duration, tagged by group and command
//   - device_power: observed per-device power state changes
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil {
//	    // history recording is optional; the service runs without it
//	}
//	defer client.Close()
//
//	client.WriteGroupAvailability("back-hall", true)
//
// Writes are asynchronous; use SetOnError to surface batch failures in
// the logs. All methods degrade to no-ops when the client is not
// connected, so callers can hold a client unconditionally.
package influxdb

// Package control implements device command dispatch and state intake
// over the MQTT message bus.
//
// # Architecture
//
// Two halves:
//
//   - Controller publishes commands on lumengroup/command/{device_id} and
//     blocks until the adapter's acknowledgment arrives on
//     lumengroup/ack/{device_id}. Correlation is by command ID. A failed
//     or absent ack surfaces as ErrDispatchFailed.
//
//   - StateListener consumes lumengroup/state/{device_id}, records the
//     observed power state in the device catalogue, and notifies
//     registered handlers. Group availability tracking hangs off these
//     notifications.
//
// # Usage
//
//	ctrl := control.NewController(client, byte(cfg.MQTT.QoS))
//	if err := ctrl.Start(); err != nil {
//	    return err
//	}
//	err := ctrl.Send(ctx, "light-hall-main", "turn_on", map[string]any{"brightness": 128})
//
// # Thread Safety
//
// Controller.Send and StateListener handlers are safe for concurrent use.
package control

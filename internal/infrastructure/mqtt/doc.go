// Package mqtt provides MQTT client connectivity for Lumen Group Core.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// Lumen Group uses MQTT as the message bus between the core service and
// the device adapters that front the physical lights. Commands flow out
// on lumengroup/command/{device_id}, adapters answer on
// lumengroup/ack/{device_id}, and unsolicited state changes arrive on
// lumengroup/state/{device_id}.
//
//	Lumen Group Core ↔ MQTT Broker ↔ Device Adapters
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Subscribe to all device state updates
//	err = client.Subscribe(mqtt.Topics{}.AllDeviceStates(), 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("Received: %s = %s", topic, payload)
//	        return nil
//	    })
//
//	// Publish command
//	topic := mqtt.Topics{}.DeviceCommand("light-hall-main")
//	client.Publish(topic, []byte(`{"command":"turn_on"}`), 1, false)
package mqtt

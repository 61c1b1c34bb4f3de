package control

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ferndale-labs/lumengroup-core/internal/device"
	"github.com/ferndale-labs/lumengroup-core/internal/infrastructure/mqtt"
)

// StateHandler is invoked for each observed device power state change
// after the catalogue has been updated.
type StateHandler func(deviceID string, on bool)

// Catalogue is the device registry surface the listener needs.
type Catalogue interface {
	SetPowerState(ctx context.Context, id string, state device.PowerState) error
}

// StateListener consumes device state topics, records observed power
// states in the catalogue, and fans observations out to registered
// handlers (availability tracking, websocket broadcasts).
type StateListener struct {
	bus       Bus
	qos       byte
	catalogue Catalogue
	logger    Logger

	handlers []StateHandler
	mu       sync.RWMutex
}

// NewStateListener creates a listener over the given bus and catalogue.
func NewStateListener(bus Bus, qos byte, catalogue Catalogue) *StateListener {
	return &StateListener{
		bus:       bus,
		qos:       qos,
		catalogue: catalogue,
		logger:    noopLogger{},
	}
}

// SetLogger sets the logger for the listener.
func (l *StateListener) SetLogger(logger Logger) {
	l.logger = logger
}

// OnStateChange registers a handler called for every power state
// observation. Register handlers before Start; registration is not
// synchronised with delivery.
func (l *StateListener) OnStateChange(h StateHandler) {
	l.mu.Lock()
	l.handlers = append(l.handlers, h)
	l.mu.Unlock()
}

// Start subscribes to the device state topics.
func (l *StateListener) Start() error {
	if err := l.bus.Subscribe(mqtt.Topics{}.AllDeviceStates(), l.qos, l.handleState); err != nil {
		return fmt.Errorf("subscribing to states: %w", err)
	}
	return nil
}

// handleState processes one state message. Messages without an "on"
// field are ignored; non-light devices publish other shapes on the same
// topic family.
func (l *StateListener) handleState(topic string, payload []byte) error {
	var msg StateMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("decoding state on %s: %w", topic, err)
	}

	deviceID := msg.DeviceID
	if deviceID == "" {
		deviceID = mqtt.DeviceIDFromTopic(topic)
	}
	if deviceID == "" {
		return fmt.Errorf("state message on %s has no device id", topic)
	}

	on, ok := msg.PowerOn()
	if !ok {
		return nil
	}

	state := device.PowerOff
	if on {
		state = device.PowerOn
	}

	if err := l.catalogue.SetPowerState(context.Background(), deviceID, state); err != nil {
		// Unknown devices still flow to handlers; group members need not
		// be in the catalogue to drive availability.
		l.logger.Debug("state for uncatalogued device", "device_id", deviceID, "error", err)
	}

	l.mu.RLock()
	handlers := l.handlers
	l.mu.RUnlock()

	for _, h := range handlers {
		h(deviceID, on)
	}
	return nil
}

package control

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/ferndale-labs/lumengroup-core/internal/device"
	"github.com/ferndale-labs/lumengroup-core/internal/infrastructure/mqtt"
)

// MockCatalogue records power state updates.
type MockCatalogue struct {
	mu     sync.Mutex
	states map[string]device.PowerState
	err    error
}

func NewMockCatalogue() *MockCatalogue {
	return &MockCatalogue{states: make(map[string]device.PowerState)}
}

func (m *MockCatalogue) SetPowerState(_ context.Context, id string, state device.PowerState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.states[id] = state
	return nil
}

func (m *MockCatalogue) get(id string) (device.PowerState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.states[id]
	return s, ok
}

func statePayload(t *testing.T, deviceID string, state map[string]any) []byte {
	t.Helper()

	payload, err := json.Marshal(StateMessage{
		DeviceID:  deviceID,
		Timestamp: time.Now().UTC(),
		State:     state,
	})
	if err != nil {
		t.Fatalf("encoding state: %v", err)
	}
	return payload
}

func TestStateListener_UpdatesCatalogueAndHandlers(t *testing.T) {
	bus := NewMockBus()
	catalogue := NewMockCatalogue()
	listener := NewStateListener(bus, 1, catalogue)

	var observed []string
	listener.OnStateChange(func(deviceID string, on bool) {
		observed = append(observed, deviceID)
		if !on {
			t.Errorf("handler got on=false, want true")
		}
	})

	if err := listener.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	bus.deliver(t, mqtt.Topics{}.AllDeviceStates(),
		mqtt.Topics{}.DeviceState("light-1"),
		statePayload(t, "light-1", map[string]any{"on": true, "brightness": 200}))

	if got, ok := catalogue.get("light-1"); !ok || got != device.PowerOn {
		t.Errorf("catalogue state = %v (%v), want on", got, ok)
	}
	if len(observed) != 1 || observed[0] != "light-1" {
		t.Errorf("handler observations = %v, want [light-1]", observed)
	}
}

func TestStateListener_IgnoresMessagesWithoutOnField(t *testing.T) {
	bus := NewMockBus()
	catalogue := NewMockCatalogue()
	listener := NewStateListener(bus, 1, catalogue)

	called := false
	listener.OnStateChange(func(string, bool) { called = true })

	if err := listener.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Sensor-shaped payload with no "on" field
	bus.deliver(t, mqtt.Topics{}.AllDeviceStates(),
		mqtt.Topics{}.DeviceState("sensor-1"),
		statePayload(t, "sensor-1", map[string]any{"temperature": 21.5}))

	if called {
		t.Error("handler called for message without on field")
	}
	if _, ok := catalogue.get("sensor-1"); ok {
		t.Error("catalogue updated for message without on field")
	}
}

func TestStateListener_DeviceIDFromTopicFallback(t *testing.T) {
	bus := NewMockBus()
	catalogue := NewMockCatalogue()
	listener := NewStateListener(bus, 1, catalogue)

	if err := listener.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Payload omits device_id; the topic supplies it
	bus.deliver(t, mqtt.Topics{}.AllDeviceStates(),
		mqtt.Topics{}.DeviceState("light-2"),
		statePayload(t, "", map[string]any{"on": false}))

	if got, ok := catalogue.get("light-2"); !ok || got != device.PowerOff {
		t.Errorf("catalogue state = %v (%v), want off", got, ok)
	}
}

func TestStateListener_UncataloguedDeviceStillNotifies(t *testing.T) {
	bus := NewMockBus()
	catalogue := NewMockCatalogue()
	catalogue.err = device.ErrDeviceNotFound
	listener := NewStateListener(bus, 1, catalogue)

	var notified bool
	listener.OnStateChange(func(deviceID string, on bool) { notified = true })

	if err := listener.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	bus.deliver(t, mqtt.Topics{}.AllDeviceStates(),
		mqtt.Topics{}.DeviceState("ghost"),
		statePayload(t, "ghost", map[string]any{"on": true}))

	if !notified {
		t.Error("handler not called for uncatalogued device")
	}
}

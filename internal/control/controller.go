package control

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ferndale-labs/lumengroup-core/internal/infrastructure/mqtt"
)

// defaultAckTimeout bounds how long Send waits for an acknowledgment
// when the caller's context has no earlier deadline.
const defaultAckTimeout = 10 * time.Second

// Bus is the message bus surface the controller needs.
// *mqtt.Client satisfies it.
type Bus interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// Logger interface for optional logging support.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// noopLogger discards all log output.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}

// Controller sends commands to device adapters over the message bus and
// blocks until the matching acknowledgment arrives.
//
// Each command carries a unique ID; the adapter echoes it back in the
// ack's command_id field. A single wildcard subscription on
// lumengroup/ack/+ feeds all pending waiters.
//
// Thread Safety: Send may be called concurrently from multiple goroutines.
type Controller struct {
	bus    Bus
	qos    byte
	logger Logger

	pending map[string]chan AckMessage
	mu      sync.Mutex

	started bool
}

// NewController creates a controller over the given bus.
// Call Start before Send.
func NewController(bus Bus, qos byte) *Controller {
	return &Controller{
		bus:     bus,
		qos:     qos,
		logger:  noopLogger{},
		pending: make(map[string]chan AckMessage),
	}
}

// SetLogger sets the logger for the controller.
func (c *Controller) SetLogger(logger Logger) {
	c.logger = logger
}

// Start subscribes to the acknowledgment topics.
// Must be called once before any Send.
func (c *Controller) Start() error {
	if err := c.bus.Subscribe(mqtt.Topics{}.AllDeviceAcks(), c.qos, c.handleAck); err != nil {
		return fmt.Errorf("subscribing to acks: %w", err)
	}

	c.mu.Lock()
	c.started = true
	c.mu.Unlock()
	return nil
}

// Send publishes a command to one device and blocks until the adapter
// acknowledges it, the context is cancelled, or the ack window elapses.
//
// A failed or timed-out acknowledgment is returned as ErrDispatchFailed
// with the adapter's error code and message attached.
//
// Parameters:
//   - ctx: Bounds the wait; cancellation abandons the command
//   - deviceID: Catalogue device identifier
//   - command: Command name (e.g., "turn_on")
//   - params: Command-specific parameters, may be nil
func (c *Controller) Send(ctx context.Context, deviceID, command string, params map[string]any) error {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return ErrNotStarted
	}

	cmd := CommandMessage{
		ID:         uuid.New().String(),
		Timestamp:  time.Now().UTC(),
		DeviceID:   deviceID,
		Command:    command,
		Parameters: params,
		Source:     "group",
	}

	ch := make(chan AckMessage, 1)
	c.pending[cmd.ID] = ch
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, cmd.ID)
		c.mu.Unlock()
	}()

	payload, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("%w: encoding command: %w", ErrDispatchFailed, err)
	}

	topic := mqtt.Topics{}.DeviceCommand(deviceID)
	if err := c.bus.Publish(topic, payload, c.qos, false); err != nil {
		return fmt.Errorf("%w: publishing to %s: %w", ErrDispatchFailed, topic, err)
	}

	c.logger.Debug("command published",
		"command_id", cmd.ID, "device_id", deviceID, "command", command)

	timer := time.NewTimer(defaultAckTimeout)
	defer timer.Stop()

	select {
	case ack := <-ch:
		if ack.Status != AckAccepted {
			if ack.Error != nil {
				return fmt.Errorf("%w: device %s: %s: %s",
					ErrDispatchFailed, deviceID, ack.Error.Code, ack.Error.Message)
			}
			return fmt.Errorf("%w: device %s: status %s", ErrDispatchFailed, deviceID, ack.Status)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: device %s: %w", ErrDispatchFailed, deviceID, ctx.Err())
	case <-timer.C:
		return fmt.Errorf("%w: device %s: %w", ErrDispatchFailed, deviceID, ErrAckTimeout)
	}
}

// handleAck routes an incoming acknowledgment to its waiting Send call.
// Acks with no waiter (late arrivals, duplicates) are dropped.
func (c *Controller) handleAck(topic string, payload []byte) error {
	var ack AckMessage
	if err := json.Unmarshal(payload, &ack); err != nil {
		return fmt.Errorf("decoding ack on %s: %w", topic, err)
	}

	c.mu.Lock()
	ch, ok := c.pending[ack.CommandID]
	c.mu.Unlock()

	if !ok {
		c.logger.Debug("unmatched ack dropped",
			"command_id", ack.CommandID, "device_id", ack.DeviceID)
		return nil
	}

	select {
	case ch <- ack:
	default:
	}
	return nil
}

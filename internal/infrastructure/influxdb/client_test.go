package influxdb

import (
	"errors"
	"testing"

	"github.com/ferndale-labs/lumengroup-core/internal/infrastructure/config"
)

func TestConnect_Disabled(t *testing.T) {
	_, err := Connect(config.InfluxDBConfig{Enabled: false})
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	cfg := config.InfluxDBConfig{
		Enabled: true,
		URL:     "http://127.0.0.1:1", // nothing listens here
		Token:   "test-token",
		Org:     "lumengroup",
		Bucket:  "history",
	}

	_, err := Connect(cfg)
	if !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestClient_NilSafeWhenDisconnected(t *testing.T) {
	// A zero client reports not connected and all writes are no-ops.
	c := &Client{}

	if c.IsConnected() {
		t.Error("IsConnected() = true for zero client")
	}

	// Must not panic
	c.WriteGroupAvailability("back-hall", true)
	c.WriteGroupCommand("back-hall", "turn_on", 3, true, 0)
	c.WriteDevicePowerState("light-1", false)
	c.Flush()

	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

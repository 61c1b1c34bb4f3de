package device

import "time"

// Kind classifies an entity in the catalogue.
type Kind string

// Known entity kinds.
const (
	KindLight  Kind = "light"
	KindSwitch Kind = "switch"
	KindSensor Kind = "sensor"
	KindOther  Kind = "other"
)

// AllKinds returns every recognised entity kind.
func AllKinds() []Kind {
	return []Kind{KindLight, KindSwitch, KindSensor, KindOther}
}

// PowerState is the last reported on/off state of a device.
type PowerState string

// Power states. Unknown is the state of a device that has never reported.
const (
	PowerOn      PowerState = "on"
	PowerOff     PowerState = "off"
	PowerUnknown PowerState = "unknown"
)

// AllPowerStates returns every recognised power state.
func AllPowerStates() []PowerState {
	return []PowerState{PowerOn, PowerOff, PowerUnknown}
}

// Device represents one entity in the catalogue.
// This matches the database schema in migrations/20260301_120000_initial_schema.up.sql.
type Device struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	Kind Kind   `json:"kind"`

	// PowerState is updated from MQTT state topics; it is the most recent
	// observation, not a guaranteed live reading.
	PowerState     PowerState `json:"power_state"`
	StateUpdatedAt *time.Time `json:"state_updated_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Copy returns an independent copy of the Device.
// Used for cache isolation so callers can safely modify the result.
func (d *Device) Copy() *Device {
	if d == nil {
		return nil
	}
	cpy := *d
	if d.StateUpdatedAt != nil {
		ts := *d.StateUpdatedAt
		cpy.StateUpdatedAt = &ts
	}
	return &cpy
}

// Status is the point-in-time answer to a status lookup, as consumed by
// group setup and availability tracking.
type Status struct {
	ID         string     `json:"id"`
	Exists     bool       `json:"exists"`
	IsLight    bool       `json:"is_light"`
	PowerState PowerState `json:"power_state"`
}

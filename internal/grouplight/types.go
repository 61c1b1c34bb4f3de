package grouplight

import (
	"context"

	"github.com/ferndale-labs/lumengroup-core/internal/device"
)

// AvailabilityPolicy selects how member status observations combine into
// the group's single availability flag.
type AvailabilityPolicy string

const (
	// PolicyLastWriteWins mirrors whichever member reported most recently:
	// the group is available iff that member's power state was on. This is
	// the default policy. It is order-sensitive by construction.
	PolicyLastWriteWins AvailabilityPolicy = "last_write_wins"

	// PolicyAnyOn marks the group available while at least one member's
	// last known power state is on. Opt-in via configuration.
	PolicyAnyOn AvailabilityPolicy = "any_on"
)

// CapabilityColor is the single capability every group advertises.
const CapabilityColor = "color"

// GroupConfig describes one group as loaded from configuration.
// Immutable after construction.
type GroupConfig struct {
	// Name is the display name of the group.
	Name string

	// MemberIDs is the ordered list of member device identifiers.
	// Order is dispatch and display order.
	MemberIDs []string

	// ColorList is the raw configured palette, validated by
	// ValidatePalette before the group is built.
	ColorList []any

	// Policy selects the availability aggregation rule.
	// Empty means PolicyLastWriteWins.
	Policy AvailabilityPolicy
}

// GroupState is a point-in-time snapshot of a group.
type GroupState struct {
	Key       string   `json:"key"`
	Name      string   `json:"name"`
	MemberIDs []string `json:"member_ids"`
	Available bool     `json:"available"`
}

// ColorKind discriminates the two colour forms a group command accepts.
type ColorKind int

const (
	colorUnset ColorKind = iota
	// ColorHS is a hue/saturation pair.
	ColorHS
	// ColorRGB is a red/green/blue triple.
	ColorRGB
)

// Color is a colour command value: exactly one of a hue/saturation pair
// or an RGB triple. Use HSColor or RGBColor to construct; the zero value
// is unset and rejected by SetColor. The two forms are never combined in
// one dispatched call.
type Color struct {
	kind ColorKind
	hs   [2]float64
	rgb  [3]int
}

// HSColor builds a hue/saturation colour. Hue is in degrees [0,360),
// saturation in percent [0,100].
func HSColor(hue, saturation float64) Color {
	return Color{kind: ColorHS, hs: [2]float64{hue, saturation}}
}

// RGBColor builds an RGB colour with components in [0,255].
func RGBColor(r, g, b int) Color {
	return Color{kind: ColorRGB, rgb: [3]int{r, g, b}}
}

// Kind returns which colour form this value carries.
func (c Color) Kind() ColorKind { return c.kind }

// HS returns the hue/saturation pair. Valid only when Kind() == ColorHS.
func (c Color) HS() (hue, saturation float64) { return c.hs[0], c.hs[1] }

// RGB returns the RGB triple. Valid only when Kind() == ColorRGB.
func (c Color) RGB() (r, g, b int) { return c.rgb[0], c.rgb[1], c.rgb[2] }

// TurnOnParams enumerates the optional parameters a turn-on command
// forwards to every member. A closed structure rather than an open
// property bag.
type TurnOnParams struct {
	// Brightness is the target level in [0,255].
	Brightness *int

	// Transition is the fade duration in seconds.
	Transition *float64
}

// TurnOffParams enumerates the optional parameters a turn-off command
// forwards to every member.
type TurnOffParams struct {
	// Transition is the fade duration in seconds.
	Transition *float64
}

// StatusLookup is the external status capability the member registry
// consumes at setup time. *device.Registry satisfies it.
type StatusLookup interface {
	Lookup(ctx context.Context, id string) (device.Status, error)
}

// CommandSender is the external per-device control capability the fanout
// engine consumes. Send blocks until the device acknowledges or errors.
// *control.Controller satisfies it.
type CommandSender interface {
	Send(ctx context.Context, deviceID, command string, params map[string]any) error
}

// Logger is the diagnostic surface used during setup and observation.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
}

// noopLogger discards all log output.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}

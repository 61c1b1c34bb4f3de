package grouplight

import (
	"context"
	"fmt"
	"sync"

	"github.com/ferndale-labs/lumengroup-core/internal/device"
)

// Group is the virtual light entity aggregating a set of member devices
// under one name.
//
// The group itself holds no colour state: it is purely a command proxy,
// so its colour and colour temperature accessors always report unset.
// Availability is the only derived state, folded from member
// observations by the configured policy.
//
// Write operations block until every member has acknowledged, or return
// the first dispatch failure.
type Group struct {
	key       string
	name      string
	memberIDs []string

	sender       CommandSender
	availability *availabilityTracker
	logger       Logger

	// onAvailability, if set, fires on every availability transition.
	onAvailability func(key string, available bool)
	handlerMu      sync.RWMutex
}

// NewGroup validates the configuration, resolves the members, and builds
// the group.
//
// The palette is validated first; an invalid colour list aborts setup
// for the whole group. Member identifiers that do not resolve to a
// known light are logged and dropped (partial membership is tolerated).
// Each accepted member's current status seeds the availability tracker
// in configured order.
func NewGroup(ctx context.Context, key string, cfg GroupConfig, lookup StatusLookup, sender CommandSender, logger Logger) (*Group, error) {
	if logger == nil {
		logger = noopLogger{}
	}

	if err := ValidatePalette(cfg.ColorList); err != nil {
		return nil, fmt.Errorf("group %s: %w", key, err)
	}

	statuses, err := resolveMembers(ctx, lookup, cfg.MemberIDs, logger)
	if err != nil {
		return nil, fmt.Errorf("group %s: %w", key, err)
	}

	memberIDs := make([]string, len(statuses))
	for i, st := range statuses {
		memberIDs[i] = st.ID
	}
	if len(memberIDs) == 0 {
		logger.Warn("group resolved no usable members", "group", key)
	}

	g := &Group{
		key:          key,
		name:         cfg.Name,
		memberIDs:    memberIDs,
		sender:       sender,
		availability: newAvailabilityTracker(cfg.Policy, memberIDs),
		logger:       logger,
	}

	// Seed availability from the setup-time statuses, in order.
	for _, st := range statuses {
		g.availability.observe(st.ID, st.PowerState == device.PowerOn)
	}

	return g, nil
}

// Key returns the registry key of the group.
func (g *Group) Key() string { return g.key }

// Name returns the display name, fixed at construction.
func (g *Group) Name() string { return g.name }

// MemberIDs returns the accepted member identifiers in dispatch order.
func (g *Group) MemberIDs() []string {
	ids := make([]string, len(g.memberIDs))
	copy(ids, g.memberIDs)
	return ids
}

// Available returns the latest folded availability.
func (g *Group) Available() bool {
	return g.availability.current()
}

// Capabilities returns the supported capability set. Every group
// supports colour control and nothing else.
func (g *Group) Capabilities() []string {
	return []string{CapabilityColor}
}

// Color reports the group's own colour. Always nil: the group is a
// proxy and carries no colour state of its own.
func (g *Group) Color() *Color { return nil }

// ColorTemperature reports the group's own colour temperature.
// Always nil for the same reason as Color.
func (g *Group) ColorTemperature() *int { return nil }

// State returns a point-in-time snapshot.
func (g *Group) State() GroupState {
	return GroupState{
		Key:       g.key,
		Name:      g.name,
		MemberIDs: g.MemberIDs(),
		Available: g.Available(),
	}
}

// TurnOn switches every member on, forwarding the optional parameters
// unmodified to each. Returns once all members have acknowledged, or
// the first failure.
func (g *Group) TurnOn(ctx context.Context, params TurnOnParams) error {
	return fanout(ctx, g.sender, g.memberIDs, commandTurnOn, turnOnParams(params))
}

// TurnOff switches every member off.
func (g *Group) TurnOff(ctx context.Context, params TurnOffParams) error {
	return fanout(ctx, g.sender, g.memberIDs, commandTurnOff, turnOffParams(params))
}

// SetColor applies one colour to every member. The colour rides on a
// turn_on call carrying exactly one of the two colour forms.
func (g *Group) SetColor(ctx context.Context, c Color) error {
	params, err := colorParams(c)
	if err != nil {
		return fmt.Errorf("group %s: %w", g.key, err)
	}
	return fanout(ctx, g.sender, g.memberIDs, commandTurnOn, params)
}

// SetColorTemperature applies a colour temperature (in mireds) to every
// member, riding on a turn_on call.
func (g *Group) SetColorTemperature(ctx context.Context, mireds int) error {
	return fanout(ctx, g.sender, g.memberIDs, commandTurnOn, map[string]any{paramColorTemp: mireds})
}

// SetAvailabilityHandler registers a callback fired whenever an
// observation flips the availability flag. Register before observations
// start flowing.
func (g *Group) SetAvailabilityHandler(h func(key string, available bool)) {
	g.handlerMu.Lock()
	g.onAvailability = h
	g.handlerMu.Unlock()
}

// ObserveStatus feeds one member power state observation into the
// availability tracker. Observations for devices outside the group are
// ignored.
func (g *Group) ObserveStatus(deviceID string, on bool) {
	available, changed := g.availability.observe(deviceID, on)
	if !changed {
		return
	}

	g.logger.Debug("group availability changed",
		"group", g.key, "available", available, "observed_device", deviceID)

	g.handlerMu.RLock()
	handler := g.onAvailability
	g.handlerMu.RUnlock()
	if handler != nil {
		handler(g.key, available)
	}
}

// HasMember reports whether the device ID is an accepted member.
func (g *Group) HasMember(deviceID string) bool {
	return g.availability.isMember(deviceID)
}

package grouplight

import "sync"

// availabilityTracker folds member status observations into the group's
// single availability flag.
//
// Under PolicyLastWriteWins the flag mirrors the most recent observation
// regardless of which member it came from. This is deliberately not an
// OR/AND across members, so the result is sensitive to observation
// order. PolicyAnyOn keeps a last-known state per member and reports
// available while any of them is on.
//
// Observations arrive from MQTT handler goroutines, so access is
// serialised internally.
type availabilityTracker struct {
	policy    AvailabilityPolicy
	members   map[string]bool // membership filter
	available bool
	lastOn    map[string]bool // per-member last state, PolicyAnyOn only
	mu        sync.RWMutex
}

// newAvailabilityTracker builds a tracker filtering to the given member
// IDs. An empty policy defaults to PolicyLastWriteWins.
func newAvailabilityTracker(policy AvailabilityPolicy, memberIDs []string) *availabilityTracker {
	if policy == "" {
		policy = PolicyLastWriteWins
	}

	members := make(map[string]bool, len(memberIDs))
	for _, id := range memberIDs {
		members[id] = true
	}

	return &availabilityTracker{
		policy:  policy,
		members: members,
		lastOn:  make(map[string]bool, len(memberIDs)),
	}
}

// observe records one member status observation and returns the
// resulting availability plus whether it changed. Observations for
// non-members are ignored.
func (t *availabilityTracker) observe(deviceID string, on bool) (available, changed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.members[deviceID] {
		return t.available, false
	}

	prev := t.available

	switch t.policy {
	case PolicyAnyOn:
		t.lastOn[deviceID] = on
		t.available = false
		for _, memberOn := range t.lastOn {
			if memberOn {
				t.available = true
				break
			}
		}
	default: // PolicyLastWriteWins
		t.available = on
	}

	return t.available, t.available != prev
}

// isMember reports whether the device ID belongs to this group.
func (t *availabilityTracker) isMember(deviceID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.members[deviceID]
}

// current returns the latest availability.
func (t *availabilityTracker) current() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.available
}

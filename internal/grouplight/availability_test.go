package grouplight

import (
	"reflect"
	"testing"

	"github.com/ferndale-labs/lumengroup-core/internal/device"
)

func TestAvailability_LastWriteWins_OrderSensitive(t *testing.T) {
	// A reports on, then B reports off: the later observation wins.
	tracker := newAvailabilityTracker(PolicyLastWriteWins, []string{"a", "b"})
	tracker.observe("a", true)
	tracker.observe("b", false)
	if tracker.current() {
		t.Error("available = true after A:on then B:off, want false")
	}

	// Reversed order flips the outcome.
	tracker = newAvailabilityTracker(PolicyLastWriteWins, []string{"a", "b"})
	tracker.observe("b", false)
	tracker.observe("a", true)
	if !tracker.current() {
		t.Error("available = false after B:off then A:on, want true")
	}
}

func TestAvailability_DefaultsToLastWriteWins(t *testing.T) {
	tracker := newAvailabilityTracker("", []string{"a", "b"})
	tracker.observe("a", true)
	tracker.observe("b", false)
	if tracker.current() {
		t.Error("empty policy did not behave as last-write-wins")
	}
}

func TestAvailability_AnyOn(t *testing.T) {
	tracker := newAvailabilityTracker(PolicyAnyOn, []string{"a", "b"})

	tracker.observe("a", true)
	tracker.observe("b", false)
	if !tracker.current() {
		t.Error("available = false while A is on, want true")
	}

	tracker.observe("a", false)
	if tracker.current() {
		t.Error("available = true with all members off, want false")
	}
}

func TestAvailability_IgnoresNonMembers(t *testing.T) {
	tracker := newAvailabilityTracker(PolicyLastWriteWins, []string{"a"})

	if _, changed := tracker.observe("stranger", true); changed {
		t.Error("non-member observation reported a change")
	}
	if tracker.current() {
		t.Error("non-member observation altered availability")
	}
}

func TestAvailability_ChangedFlag(t *testing.T) {
	tracker := newAvailabilityTracker(PolicyLastWriteWins, []string{"a"})

	if _, changed := tracker.observe("a", true); !changed {
		t.Error("first on observation did not report a change")
	}
	if _, changed := tracker.observe("a", true); changed {
		t.Error("repeated on observation reported a change")
	}
	if _, changed := tracker.observe("a", false); !changed {
		t.Error("off after on did not report a change")
	}
}

func TestGroup_AvailabilitySeededFromSetupStatuses(t *testing.T) {
	// Statuses feed the tracker in configured order at setup, so under
	// last-write-wins the last configured member decides the initial flag.
	lookup := &mockLookup{statuses: map[string]device.Status{
		"a": lightStatus("a", device.PowerOn),
		"b": lightStatus("b", device.PowerOff),
	}}

	g := newTestGroup(t, validConfig("a", "b"), lookup, &mockSender{})
	if g.Available() {
		t.Error("Available() = true with b (off) configured last, want false")
	}

	g = newTestGroup(t, validConfig("b", "a"), lookup, &mockSender{})
	if !g.Available() {
		t.Error("Available() = false with a (on) configured last, want true")
	}
}

func TestGroup_AvailabilityHandlerFiresOnTransitions(t *testing.T) {
	lookup := &mockLookup{statuses: map[string]device.Status{
		"a": lightStatus("a", device.PowerOff),
	}}
	g := newTestGroup(t, validConfig("a"), lookup, &mockSender{})

	var transitions []bool
	g.SetAvailabilityHandler(func(key string, available bool) {
		if key != "back-hall" {
			t.Errorf("handler key = %q, want back-hall", key)
		}
		transitions = append(transitions, available)
	})

	g.ObserveStatus("a", true)
	g.ObserveStatus("a", true) // no change, no callback
	g.ObserveStatus("a", false)

	want := []bool{true, false}
	if !reflect.DeepEqual(transitions, want) {
		t.Errorf("transitions = %v, want %v", transitions, want)
	}
}

package mqtt

import "testing"

func TestTopics_DeviceTopics(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"command", topics.DeviceCommand("light-hall-main"), "lumengroup/command/light-hall-main"},
		{"ack", topics.DeviceAck("light-hall-main"), "lumengroup/ack/light-hall-main"},
		{"state", topics.DeviceState("light-hall-main"), "lumengroup/state/light-hall-main"},
		{"group event", topics.GroupEvent("back-hall", "availability"), "lumengroup/group/back-hall/availability"},
		{"system status", topics.SystemStatus(), "lumengroup/system/status"},
		{"all states", topics.AllDeviceStates(), "lumengroup/state/+"},
		{"all acks", topics.AllDeviceAcks(), "lumengroup/ack/+"},
		{"everything", topics.AllTopics(), "lumengroup/#"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestDeviceIDFromTopic(t *testing.T) {
	tests := []struct {
		topic string
		want  string
	}{
		{"lumengroup/state/light-hall-main", "light-hall-main"},
		{"lumengroup/ack/light-1", "light-1"},
		{"lumengroup/command/light-1", "light-1"},
		{"lumengroup/system/status", ""},
		{"otherprefix/state/light-1", ""},
		{"lumengroup/state", ""},
		{"lumengroup/state/a/b", ""},
	}

	for _, tt := range tests {
		if got := DeviceIDFromTopic(tt.topic); got != tt.want {
			t.Errorf("DeviceIDFromTopic(%q) = %q, want %q", tt.topic, got, tt.want)
		}
	}
}

package mqtt

import "testing"

func TestTopics(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"DriverStatus", topics.DriverStatus(), "kasa/driver/status"},
		{"DriverEvent", topics.DriverEvent("connection"), "kasa/driver/event/connection"},
		{"ChannelState", topics.ChannelState("Mount Power"), "kasa/channel/mount-power/state"},
		{"AllChannelStates", topics.AllChannelStates(), "kasa/channel/+/state"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Mount Power", "mount-power"},
		{"  Dew Heater  ", "dew-heater"},
		{"odd/name+here#", "odd-name-here-"},
		{"Camera", "camera"},
	}

	for _, tt := range tests {
		if got := slugify(tt.input); got != tt.want {
			t.Errorf("slugify(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

package mqtt

import (
	"fmt"
	"strings"
)

// Topic prefixes for the driver's MQTT hierarchy.
//
// Scheme: kasa/{category}/...
const (
	// TopicPrefix is the base for all driver topics.
	TopicPrefix = "kasa"

	// TopicPrefixDriver is the base for driver lifecycle topics.
	TopicPrefixDriver = "kasa/driver"

	// TopicPrefixChannel is the base for per-channel topics.
	TopicPrefixChannel = "kasa/channel"
)

// Topics provides builders for the driver's MQTT topics.
// Using these helpers keeps topic naming consistent across the codebase.
type Topics struct{}

// DriverStatus returns the driver online/offline status topic.
// Also used for the Last Will and Testament message.
//
// Example: kasa/driver/status
func (Topics) DriverStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixDriver)
}

// DriverEvent returns the topic for driver lifecycle events.
//
// Example: kasa/driver/event/connection
func (Topics) DriverEvent(eventType string) string {
	return fmt.Sprintf("%s/event/%s", TopicPrefixDriver, eventType)
}

// ChannelState returns the state topic for one channel.
// The channel name is lowercased with spaces replaced by hyphens.
//
// Example: kasa/channel/mount-power/state
func (Topics) ChannelState(channelName string) string {
	return fmt.Sprintf("%s/%s/state", TopicPrefixChannel, slugify(channelName))
}

// AllChannelStates returns a pattern matching every channel state topic.
//
// Pattern: kasa/channel/+/state
func (Topics) AllChannelStates() string {
	return fmt.Sprintf("%s/+/state", TopicPrefixChannel)
}

// slugify converts a channel display name into a topic segment.
// MQTT topic levels must not contain separators or wildcards.
func slugify(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "-")
	for _, r := range []string{"/", "+", "#"} {
		name = strings.ReplaceAll(name, r, "-")
	}
	return name
}

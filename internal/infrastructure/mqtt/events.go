package mqtt

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// publisher is the subset of Client the event feed needs.
// Narrowed for testability.
type publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	PublishRetained(topic string, payload []byte) error
}

// Feed publishes driver state changes as MQTT events. It implements
// the controller's Publisher interface.
//
// Publishing is best-effort: a broker outage must never fail the
// Alpaca request that triggered the event, so errors are logged and
// swallowed.
type Feed struct {
	client publisher
	qos    byte
	logger Logger
}

// NewFeed creates an event feed over an MQTT client.
func NewFeed(client *Client, logger Logger) *Feed {
	return &Feed{
		client: client,
		qos:    byte(client.cfg.QoS),
		logger: logger,
	}
}

// connectionEvent is the payload for connection change events.
type connectionEvent struct {
	EventID   string    `json:"event_id"`
	Connected bool      `json:"connected"`
	Channels  int       `json:"channels"`
	Timestamp time.Time `json:"timestamp"`
}

// switchEvent is the payload for verified switch writes.
type switchEvent struct {
	EventID   string    `json:"event_id"`
	Channel   string    `json:"channel"`
	On        bool      `json:"on"`
	Timestamp time.Time `json:"timestamp"`
}

// ConnectionChanged publishes a connection lifecycle event.
func (f *Feed) ConnectionChanged(connected bool, channelCount int) {
	payload, err := json.Marshal(connectionEvent{
		EventID:   uuid.NewString(),
		Connected: connected,
		Channels:  channelCount,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return
	}

	topic := Topics{}.DriverEvent("connection")
	if err := f.client.Publish(topic, payload, f.qos, false); err != nil {
		f.warn("publishing connection event", err)
	}
}

// SwitchWritten publishes a verified write to the channel's retained
// state topic.
func (f *Feed) SwitchWritten(channelName string, on bool) {
	payload, err := json.Marshal(switchEvent{
		EventID:   uuid.NewString(),
		Channel:   channelName,
		On:        on,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		return
	}

	topic := Topics{}.ChannelState(channelName)
	if err := f.client.PublishRetained(topic, payload); err != nil {
		f.warn("publishing switch event", err)
	}
}

func (f *Feed) warn(msg string, err error) {
	if f.logger != nil {
		f.logger.Warn(msg, "error", err)
	}
}

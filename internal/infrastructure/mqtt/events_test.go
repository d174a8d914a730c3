package mqtt

import (
	"encoding/json"
	"testing"
)

// capturePublisher records published messages for assertions.
type capturePublisher struct {
	topics   []string
	payloads [][]byte
	retained []bool
	err      error
}

func (p *capturePublisher) Publish(topic string, payload []byte, qos byte, retained bool) error {
	p.topics = append(p.topics, topic)
	p.payloads = append(p.payloads, payload)
	p.retained = append(p.retained, retained)
	return p.err
}

func (p *capturePublisher) PublishRetained(topic string, payload []byte) error {
	return p.Publish(topic, payload, 1, true)
}

func TestFeed_ConnectionChanged(t *testing.T) {
	pub := &capturePublisher{}
	feed := &Feed{client: pub}

	feed.ConnectionChanged(true, 7)

	if len(pub.topics) != 1 || pub.topics[0] != "kasa/driver/event/connection" {
		t.Fatalf("topics = %v", pub.topics)
	}
	if pub.retained[0] {
		t.Error("connection event should not be retained")
	}

	var event connectionEvent
	if err := json.Unmarshal(pub.payloads[0], &event); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !event.Connected || event.Channels != 7 {
		t.Errorf("event = %+v", event)
	}
	if event.EventID == "" {
		t.Error("event ID is empty")
	}
}

func TestFeed_SwitchWritten(t *testing.T) {
	pub := &capturePublisher{}
	feed := &Feed{client: pub}

	feed.SwitchWritten("Mount Power", true)

	if len(pub.topics) != 1 || pub.topics[0] != "kasa/channel/mount-power/state" {
		t.Fatalf("topics = %v", pub.topics)
	}
	if !pub.retained[0] {
		t.Error("switch state should be retained")
	}

	var event switchEvent
	if err := json.Unmarshal(pub.payloads[0], &event); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if event.Channel != "Mount Power" || !event.On {
		t.Errorf("event = %+v", event)
	}
}

type warnLogger struct {
	warned bool
}

func (l *warnLogger) Error(msg string, args ...any) {}
func (l *warnLogger) Warn(msg string, args ...any)  { l.warned = true }

func TestFeed_PublishErrorIsSwallowed(t *testing.T) {
	pub := &capturePublisher{err: ErrNotConnected}
	logger := &warnLogger{}
	feed := &Feed{client: pub, logger: logger}

	// Must not panic or surface the error
	feed.SwitchWritten("Mount", false)

	if !logger.warned {
		t.Error("publish failure was not logged")
	}
}

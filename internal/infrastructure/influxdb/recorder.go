package influxdb

import (
	"github.com/englishfox90/kasa-ascom-alpaca-driver/internal/driver"
)

// Recorder adapts the client to the controller's Recorder interface.
type Recorder struct {
	client *Client
}

// NewRecorder creates a Recorder over a connected client.
func NewRecorder(client *Client) *Recorder {
	return &Recorder{client: client}
}

// RecordMetric stores one gauge sample.
func (r *Recorder) RecordMetric(channelName string, metric driver.Metric, value float64) {
	r.client.WriteChannelMetric(channelName, string(metric), value)
}

var _ driver.Recorder = (*Recorder)(nil)

package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// WriteChannelMetric records one meter gauge sample.
//
// This is the controller's Recorder hook: every successful gauge read
// lands here, building a power-consumption history for the observatory.
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - channelName: Gauge channel display name (e.g., "Mount power")
//   - metric: Which metric this is ("power", "voltage", "current")
//   - value: The sampled value
func (c *Client) WriteChannelMetric(channelName string, metric string, value float64) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"channel_metrics",
		map[string]string{
			"channel": channelName,
			"metric":  metric,
		},
		map[string]interface{}{
			"value": value,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// WritePoint writes a custom point with full control over tags and fields.
//
// Use this for measurements that don't fit the helper methods.
func (c *Client) WritePoint(measurement string, tags map[string]string, fields map[string]interface{}) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(measurement, tags, fields, time.Now())
	c.writeAPI.WritePoint(point)
}

package driver

import (
	"context"

	"github.com/englishfox90/kasa-ascom-alpaca-driver/internal/kasa"
)

// ReadMetric returns a gauge channel's current value.
//
// The backing unit is refreshed through the bridge, then the metric is
// extracted from the new meter snapshot. A metric the backend does not
// currently report yields nil rather than an error; the miss is logged.
//
// Returns:
//   - *float64: The metric value, nil when absent from the snapshot
//   - error: ErrNotConnected, ErrNoMeter for non-gauge channels, or a
//     backend/timeout failure
func (c *Controller) ReadMetric(ctx context.Context, ch Channel) (*float64, error) {
	if ch.Kind != KindMeterGauge {
		return nil, ErrNoMeter
	}
	if !c.IsConnected() {
		return nil, ErrNotConnected
	}

	if err := c.refresh(ctx, ch); err != nil {
		return nil, err
	}

	value := extractMetric(meterSnapshot(ch), ch.Metric)
	if value == nil {
		c.logger.Debug("metric absent from snapshot",
			"channel", ch.Name, "metric", ch.Metric)
		return nil, nil
	}

	if c.recorder != nil {
		c.recorder.RecordMetric(ch.Name, ch.Metric, *value)
	}
	return value, nil
}

// meterSnapshot picks the snapshot the gauge reads from: the child's
// own meter, or the parent device meter for borrowed gauges.
func meterSnapshot(ch Channel) kasa.EmeterReading {
	if ch.child != nil && !ch.meterOnParent {
		return ch.child.Emeter()
	}
	return ch.device.Emeter()
}

// extractMetric pulls one metric out of a snapshot.
func extractMetric(r kasa.EmeterReading, m Metric) *float64 {
	switch m {
	case MetricPower:
		return r.Power
	case MetricVoltage:
		return r.Voltage
	case MetricCurrent:
		return r.Current
	default:
		return nil
	}
}

// metricUnit returns the display unit for a metric.
func metricUnit(m Metric) string {
	switch m {
	case MetricPower:
		return "W"
	case MetricVoltage:
		return "V"
	case MetricCurrent:
		return "A"
	default:
		return ""
	}
}

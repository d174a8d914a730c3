package driver

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// GUID returns a stable identifier for a channel name, derived by
// hashing the name into the DNS UUID namespace. The same name always
// yields the same GUID across restarts.
func GUID(name string) string {
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(name)).String()
}

// Describe returns a human-readable description of a channel.
//
// Meter gauges include the current value and unit, which requires a
// backend refresh. Power indicators include the powered-since
// timestamp when the device reports one. Other kinds describe
// themselves from cached state.
//
// Returns:
//   - string: Description text
//   - error: ErrNotConnected, or a backend/timeout failure on gauges
func (c *Controller) Describe(ctx context.Context, ch Channel) (string, error) {
	if !c.IsConnected() {
		return "", ErrNotConnected
	}

	switch ch.Kind {
	case KindMeterGauge:
		value, err := c.ReadMetric(ctx, ch)
		if err != nil {
			return "", err
		}
		unit := unitAlias(ch)
		if value == nil {
			return fmt.Sprintf("%s %s: no reading", unit, ch.Metric), nil
		}
		return fmt.Sprintf("%s %s: %.2f %s", unit, ch.Metric, *value, metricUnit(ch.Metric)), nil

	case KindPowerIndicator:
		if since := ch.device.OnSince(); since != nil {
			return fmt.Sprintf("%s powered on since %s",
				ch.device.Alias(), since.Format("2006-01-02 15:04:05")), nil
		}
		return ch.device.Alias() + " powered", nil

	case KindCloudLink:
		return ch.device.Alias() + " cloud link", nil

	default:
		return unitAlias(ch) + " relay", nil
	}
}

// Description returns the client-facing descriptor for a channel.
func (c *Controller) Description(ch Channel) Description {
	return Description{
		Name:     ch.Name,
		Kind:     ch.Kind,
		CanWrite: ch.CanWrite,
		GUID:     GUID(ch.Name),
	}
}

// unitAlias names the channel's backing unit.
func unitAlias(ch Channel) string {
	if ch.child != nil {
		return ch.child.Alias()
	}
	return ch.device.Alias()
}

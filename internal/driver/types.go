package driver

import (
	"github.com/englishfox90/kasa-ascom-alpaca-driver/internal/kasa"
)

// Kind classifies what a channel represents.
type Kind string

// Channel kinds.
const (
	// KindSwitchable is a controllable relay (device or child outlet).
	KindSwitchable Kind = "switchable"

	// KindPowerIndicator is a read-only indicator of the device relay.
	KindPowerIndicator Kind = "power_indicator"

	// KindCloudLink is a read-only indicator of the device's cloud session.
	KindCloudLink Kind = "cloud_link"

	// KindMeterGauge is a read-only energy meter metric.
	KindMeterGauge Kind = "meter_gauge"
)

// Metric identifies which energy meter reading a gauge exposes.
type Metric string

// Meter gauge metrics.
const (
	MetricPower   Metric = "power"
	MetricVoltage Metric = "voltage"
	MetricCurrent Metric = "current"
)

// Channel is one addressable switch slot. Channels occupy a dense
// index space assigned at connect time; indices are stable for the
// lifetime of the session.
type Channel struct {
	// Index is the channel's position in the dense index space.
	Index int

	// Name is the channel's unique display name. Resolution by name is
	// case-insensitive.
	Name string

	// Kind classifies the channel.
	Kind Kind

	// Metric is set only for meter gauges.
	Metric Metric

	// CanWrite reports whether Write is permitted on this channel.
	CanWrite bool

	// device is the owning Kasa unit.
	device kasa.Device

	// child is non-nil when the channel is bound to a child outlet.
	child kasa.Child

	// meterOnParent marks a child gauge whose readings come from the
	// parent device meter because the outlet has none of its own.
	meterOnParent bool
}

// Description is the client-facing description of a channel.
type Description struct {
	// Name is the channel display name.
	Name string

	// Kind classifies the channel.
	Kind Kind

	// CanWrite reports whether the channel accepts writes.
	CanWrite bool

	// GUID is a stable identifier derived from the channel name.
	GUID string
}

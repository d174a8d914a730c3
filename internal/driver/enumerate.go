package driver

import (
	"github.com/englishfox90/kasa-ascom-alpaca-driver/internal/kasa"
)

// supportedMetrics returns the metrics present in a meter snapshot, in
// enumeration order.
func supportedMetrics(r kasa.EmeterReading) []Metric {
	var metrics []Metric
	if r.Power != nil {
		metrics = append(metrics, MetricPower)
	}
	if r.Voltage != nil {
		metrics = append(metrics, MetricVoltage)
	}
	if r.Current != nil {
		metrics = append(metrics, MetricCurrent)
	}
	return metrics
}

// buildChannels maps discovered devices onto the dense channel index
// space.
//
// Per device, in discovery order:
//  1. A power indicator ("<alias> powered")
//  2. A cloud link indicator ("<alias> cloud"), cloud-capable devices only
//  3. For multi-outlet devices, each child outlet as a switchable
//     channel followed by a gauge per metric its meter reported at
//     discovery time. An outlet without its own meter borrows the
//     parent device meter when the parent has one.
//  4. For single-outlet devices, the device itself as a switchable
//     channel followed by its meter gauges.
//
// Gauge names are "<unit alias> power|voltage|current". The indicator
// suffix is "powered" rather than "power" so indicator and gauge names
// never collide.
func buildChannels(devices []kasa.Device) []Channel {
	var channels []Channel

	add := func(ch Channel) {
		ch.Index = len(channels)
		channels = append(channels, ch)
	}

	for _, dev := range devices {
		add(Channel{
			Name:   dev.Alias() + " powered",
			Kind:   KindPowerIndicator,
			device: dev,
		})

		if dev.HasCloud() {
			add(Channel{
				Name:   dev.Alias() + " cloud",
				Kind:   KindCloudLink,
				device: dev,
			})
		}

		children := dev.Children()
		if len(children) == 0 {
			add(Channel{
				Name:     dev.Alias(),
				Kind:     KindSwitchable,
				CanWrite: true,
				device:   dev,
			})
			if dev.HasEmeter() {
				for _, m := range supportedMetrics(dev.Emeter()) {
					add(Channel{
						Name:   dev.Alias() + " " + string(m),
						Kind:   KindMeterGauge,
						Metric: m,
						device: dev,
					})
				}
			}
			continue
		}

		for _, child := range children {
			add(Channel{
				Name:     child.Alias(),
				Kind:     KindSwitchable,
				CanWrite: true,
				device:   dev,
				child:    child,
			})

			switch {
			case child.HasEmeter():
				for _, m := range supportedMetrics(child.Emeter()) {
					add(Channel{
						Name:   child.Alias() + " " + string(m),
						Kind:   KindMeterGauge,
						Metric: m,
						device: dev,
						child:  child,
					})
				}
			case dev.HasEmeter():
				// Parent meter covers the whole strip; better than nothing
				for _, m := range supportedMetrics(dev.Emeter()) {
					add(Channel{
						Name:          child.Alias() + " " + string(m),
						Kind:          KindMeterGauge,
						Metric:        m,
						device:        dev,
						child:         child,
						meterOnParent: true,
					})
				}
			}
		}
	}

	return channels
}

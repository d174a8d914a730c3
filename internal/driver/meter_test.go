package driver

import (
	"context"
	"errors"
	"testing"

	"github.com/englishfox90/kasa-ascom-alpaca-driver/internal/kasa"
)

type fakeRecorder struct {
	samples []float64
	names   []string
}

func (r *fakeRecorder) RecordMetric(name string, metric Metric, value float64) {
	r.names = append(r.names, name)
	r.samples = append(r.samples, value)
}

func TestReadMetric_Value(t *testing.T) {
	backend, _, _, _ := scenarioBackend()
	c := testController(t, backend)
	rec := &fakeRecorder{}
	c.SetRecorder(rec)
	connect(t, c)

	value, err := c.ReadMetric(context.Background(), mustResolve(t, c, "Camera power"))
	if err != nil {
		t.Fatalf("ReadMetric failed: %v", err)
	}
	if value == nil || *value != 12.5 {
		t.Errorf("ReadMetric = %v, want 12.5", value)
	}
	if len(rec.samples) != 1 || rec.samples[0] != 12.5 {
		t.Errorf("recorded samples = %v", rec.samples)
	}
}

func TestReadMetric_MissingReturnsNull(t *testing.T) {
	backend, strip, _, _ := scenarioBackend()
	c := testController(t, backend)
	connect(t, c)

	// The metric disappears from the snapshot after connect
	strip.emeter = kasa.EmeterReading{}

	value, err := c.ReadMetric(context.Background(), mustResolve(t, c, "Camera power"))
	if err != nil {
		t.Fatalf("ReadMetric = %v, want nil error for missing metric", err)
	}
	if value != nil {
		t.Errorf("ReadMetric = %v, want nil", *value)
	}
	if !c.IsConnected() {
		t.Error("missing metric changed connection state")
	}
}

func TestReadMetric_NonGauge(t *testing.T) {
	backend, _, _, _ := scenarioBackend()
	c := testController(t, backend)
	connect(t, c)

	if _, err := c.ReadMetric(context.Background(), mustResolve(t, c, "Mount")); !errors.Is(err, ErrNoMeter) {
		t.Errorf("ReadMetric = %v, want ErrNoMeter", err)
	}
}

func TestReadMetric_NotConnected(t *testing.T) {
	backend, _, _, _ := scenarioBackend()
	c := testController(t, backend)
	connect(t, c)
	ch := mustResolve(t, c, "Camera power")
	c.Disconnect()

	if _, err := c.ReadMetric(context.Background(), ch); !errors.Is(err, ErrNotConnected) {
		t.Errorf("ReadMetric = %v, want ErrNotConnected", err)
	}
}

func TestEnumerate_GaugePerSupportedMetric(t *testing.T) {
	dev := &fakeDevice{
		addr:      "192.168.1.60",
		alias:     "Heater",
		hasEmeter: true,
		emeter: kasa.EmeterReading{
			Power:   f64(30),
			Voltage: f64(240),
			Current: f64(0.125),
		},
		acceptOn: 1,
	}
	backend := &fakeBackend{devices: []kasa.Device{dev}}
	c := testController(t, backend)
	connect(t, c)

	want := []string{"Heater powered", "Heater", "Heater power", "Heater voltage", "Heater current"}
	channels := c.Channels()
	if len(channels) != len(want) {
		t.Fatalf("got %d channels, want %d", len(channels), len(want))
	}
	for i, name := range want {
		if channels[i].Name != name {
			t.Errorf("channel %d = %q, want %q", i, channels[i].Name, name)
		}
	}
}

package driver

import (
	"context"
	"errors"
	"testing"

	"github.com/englishfox90/kasa-ascom-alpaca-driver/internal/bridge"
	"github.com/englishfox90/kasa-ascom-alpaca-driver/internal/kasa"
)

func testController(t *testing.T, backend kasa.Backend) *Controller {
	t.Helper()
	cfg := Config{Attempts: 3, SettleDelay: 0}
	c := New(backend, bridge.New(nil), cfg, nil)
	t.Cleanup(c.Disconnect)
	return c
}

func connect(t *testing.T, c *Controller) {
	t.Helper()
	if err := c.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
}

func TestConnect_ChannelOrder(t *testing.T) {
	backend, _, _, _ := scenarioBackend()
	c := testController(t, backend)
	connect(t, c)

	want := []struct {
		name string
		kind Kind
	}{
		{"Strip powered", KindPowerIndicator},
		{"Strip cloud", KindCloudLink},
		{"Camera", KindSwitchable},
		{"Camera power", KindMeterGauge},
		{"Mount powered", KindPowerIndicator},
		{"Mount cloud", KindCloudLink},
		{"Mount", KindSwitchable},
	}

	channels := c.Channels()
	if len(channels) != len(want) {
		t.Fatalf("got %d channels, want %d: %+v", len(channels), len(want), channels)
	}
	for i, w := range want {
		if channels[i].Name != w.name || channels[i].Kind != w.kind {
			t.Errorf("channel %d = (%q, %s), want (%q, %s)",
				i, channels[i].Name, channels[i].Kind, w.name, w.kind)
		}
		if channels[i].Index != i {
			t.Errorf("channel %d has Index %d", i, channels[i].Index)
		}
	}
}

func TestConnect_SetsConnected(t *testing.T) {
	backend, _, _, _ := scenarioBackend()
	c := testController(t, backend)

	if c.IsConnected() {
		t.Error("connected before Connect")
	}
	connect(t, c)
	if !c.IsConnected() {
		t.Error("not connected after Connect")
	}
	if c.ChannelCount() != 7 {
		t.Errorf("ChannelCount = %d, want 7", c.ChannelCount())
	}
}

func TestConnect_AlreadyConnected(t *testing.T) {
	backend, _, _, _ := scenarioBackend()
	c := testController(t, backend)

	connect(t, c)
	connect(t, c)

	if backend.discoveries != 1 {
		t.Errorf("discoveries = %d, want 1", backend.discoveries)
	}
}

func TestConnect_DiscoveryFailure(t *testing.T) {
	backend := &fakeBackend{discoverErr: errBackendDown}
	c := testController(t, backend)

	err := c.Connect(context.Background())
	if !errors.Is(err, errBackendDown) {
		t.Errorf("Connect = %v, want wrapped backend error", err)
	}
	if c.IsConnected() {
		t.Error("connected after failed Connect")
	}
	if c.ChannelCount() != 0 {
		t.Errorf("ChannelCount = %d after failed Connect", c.ChannelCount())
	}
}

func TestConnect_ExcludesUnrefreshableDevice(t *testing.T) {
	backend, strip, _, _ := scenarioBackend()
	strip.updateErr = errBackendDown
	c := testController(t, backend)
	connect(t, c)

	// Only the plug's channels remain
	want := []string{"Mount powered", "Mount cloud", "Mount"}
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

func TestDisconnect_Idempotent(t *testing.T) {
	backend, _, _, _ := scenarioBackend()
	c := testController(t, backend)
	connect(t, c)

	c.Disconnect()
	if c.IsConnected() {
		t.Error("connected after Disconnect")
	}
	if c.ChannelCount() != 0 {
		t.Errorf("ChannelCount = %d after Disconnect", c.ChannelCount())
	}

	c.Disconnect()
	if c.ChannelCount() != 0 {
		t.Errorf("ChannelCount = %d after second Disconnect", c.ChannelCount())
	}
}

func TestReconnect_RebuildsTable(t *testing.T) {
	backend, _, _, _ := scenarioBackend()
	c := testController(t, backend)

	connect(t, c)
	c.Disconnect()
	connect(t, c)

	if backend.discoveries != 2 {
		t.Errorf("discoveries = %d, want 2", backend.discoveries)
	}
	if c.ChannelCount() != 7 {
		t.Errorf("ChannelCount = %d after reconnect, want 7", c.ChannelCount())
	}
}

type fakePublisher struct {
	connections []bool
	writes      []string
}

func (p *fakePublisher) ConnectionChanged(connected bool, channelCount int) {
	p.connections = append(p.connections, connected)
}

func (p *fakePublisher) SwitchWritten(name string, on bool) {
	p.writes = append(p.writes, name)
}

func TestConnect_PublishesEvents(t *testing.T) {
	backend, _, _, _ := scenarioBackend()
	c := testController(t, backend)
	pub := &fakePublisher{}
	c.SetPublisher(pub)

	connect(t, c)
	c.Disconnect()
	c.Disconnect() // idempotent, no duplicate event

	want := []bool{true, false}
	if len(pub.connections) != len(want) {
		t.Fatalf("connection events = %v, want %v", pub.connections, want)
	}
	for i := range want {
		if pub.connections[i] != want[i] {
			t.Errorf("connection event %d = %v, want %v", i, pub.connections[i], want[i])
		}
	}
}

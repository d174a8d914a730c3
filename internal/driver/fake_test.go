package driver

import (
	"context"
	"errors"
	"time"

	"github.com/englishfox90/kasa-ascom-alpaca-driver/internal/kasa"
)

// fakeBackend implements kasa.Backend for tests.
type fakeBackend struct {
	devices     []kasa.Device
	discoverErr error
	discoveries int
}

func (b *fakeBackend) Discover(ctx context.Context) ([]kasa.Device, error) {
	b.discoveries++
	if b.discoverErr != nil {
		return nil, b.discoverErr
	}
	return b.devices, nil
}

// fakeDevice implements kasa.Device with scripted behaviour.
//
// acceptOn controls relay command handling: commands numbered >=
// acceptOn take effect, earlier ones are silently dropped. 1 means
// every command works, -1 means none ever do.
type fakeDevice struct {
	addr           string
	alias          string
	on             bool
	onSince        *time.Time
	hasCloud       bool
	cloudConnected bool
	hasEmeter      bool
	emeter         kasa.EmeterReading
	children       []kasa.Child

	updateErr error
	updates   int
	commands  int
	acceptOn  int
}

func (d *fakeDevice) Addr() string          { return d.addr }
func (d *fakeDevice) Alias() string         { return d.alias }
func (d *fakeDevice) IsOn() bool            { return d.on }
func (d *fakeDevice) OnSince() *time.Time   { return d.onSince }
func (d *fakeDevice) HasCloud() bool        { return d.hasCloud }
func (d *fakeDevice) CloudConnected() bool  { return d.cloudConnected }
func (d *fakeDevice) HasEmeter() bool       { return d.hasEmeter }
func (d *fakeDevice) Emeter() kasa.EmeterReading { return d.emeter }
func (d *fakeDevice) Children() []kasa.Child     { return d.children }

func (d *fakeDevice) Update(ctx context.Context) error {
	d.updates++
	return d.updateErr
}

func (d *fakeDevice) TurnOn(ctx context.Context) error  { return d.relay(true) }
func (d *fakeDevice) TurnOff(ctx context.Context) error { return d.relay(false) }

func (d *fakeDevice) relay(desired bool) error {
	d.commands++
	if d.acceptOn < 0 {
		return nil
	}
	accept := d.acceptOn
	if accept == 0 {
		accept = 1
	}
	if d.commands >= accept {
		d.on = desired
	}
	return nil
}

// fakeChild implements kasa.Child with scripted behaviour.
type fakeChild struct {
	id        string
	alias     string
	on        bool
	hasEmeter bool
	emeter    kasa.EmeterReading

	updates  int
	commands int
	acceptOn int
}

func (c *fakeChild) ID() string     { return c.id }
func (c *fakeChild) Alias() string  { return c.alias }
func (c *fakeChild) IsOn() bool     { return c.on }
func (c *fakeChild) HasEmeter() bool { return c.hasEmeter }
func (c *fakeChild) Emeter() kasa.EmeterReading { return c.emeter }

func (c *fakeChild) Update(ctx context.Context) error {
	c.updates++
	return nil
}

func (c *fakeChild) TurnOn(ctx context.Context) error  { return c.relay(true) }
func (c *fakeChild) TurnOff(ctx context.Context) error { return c.relay(false) }

func (c *fakeChild) relay(desired bool) error {
	c.commands++
	if c.acceptOn < 0 {
		return nil
	}
	accept := c.acceptOn
	if accept == 0 {
		accept = 1
	}
	if c.commands >= accept {
		c.on = desired
	}
	return nil
}

var errBackendDown = errors.New("backend unreachable")

func f64(v float64) *float64 { return &v }

// scenarioBackend builds the two-device fleet used across tests: a
// cloud-capable strip with one child outlet borrowing the parent's
// power-only meter, and a plain cloud-capable plug.
func scenarioBackend() (*fakeBackend, *fakeDevice, *fakeChild, *fakeDevice) {
	child := &fakeChild{id: "00", alias: "Camera", acceptOn: 1}
	strip := &fakeDevice{
		addr:      "192.168.1.50",
		alias:     "Strip",
		hasCloud:  true,
		hasEmeter: true,
		emeter:    kasa.EmeterReading{Power: f64(12.5)},
		children:  []kasa.Child{child},
		acceptOn:  1,
	}
	plug := &fakeDevice{
		addr:     "192.168.1.51",
		alias:    "Mount",
		hasCloud: true,
		acceptOn: 1,
	}
	backend := &fakeBackend{devices: []kasa.Device{strip, plug}}
	return backend, strip, child, plug
}

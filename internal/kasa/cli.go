package kasa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Logger is the minimal logging interface the backend needs.
// Satisfied by *logging.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
}

// noopLogger discards all log output. Used when no logger is provided.
type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Warn(msg string, args ...any)  {}

// CLIConfig configures a CLIBackend.
type CLIConfig struct {
	// Binary is the kasactl executable name or path.
	Binary string

	// DiscoveryTimeout bounds a full network scan.
	DiscoveryTimeout time.Duration

	// CommandTimeout bounds a single device command.
	CommandTimeout time.Duration

	// Username and Password are optional cloud account credentials,
	// passed to the CLI for devices that require authentication.
	Username string
	Password string
}

// CLIBackend talks to Kasa devices by shelling out to the kasactl
// command-line tool with JSON output.
//
// Each operation spawns one short-lived process with its own deadline,
// so a wedged device cannot hang the driver.
type CLIBackend struct {
	cfg    CLIConfig
	logger Logger
}

// NewCLIBackend creates a backend using the given CLI configuration.
// Pass nil for logger to disable backend logging.
func NewCLIBackend(cfg CLIConfig, logger Logger) *CLIBackend {
	if logger == nil {
		logger = noopLogger{}
	}
	if cfg.Binary == "" {
		cfg.Binary = "kasactl"
	}
	if cfg.DiscoveryTimeout <= 0 {
		cfg.DiscoveryTimeout = 20 * time.Second
	}
	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = 10 * time.Second
	}
	return &CLIBackend{cfg: cfg, logger: logger}
}

// deviceInfo is the CLI's JSON representation of one device.
type deviceInfo struct {
	Addr    string     `json:"addr"`
	Alias   string     `json:"alias"`
	IsOn    bool       `json:"is_on"`
	OnSince *time.Time `json:"on_since"`
	Cloud   *struct {
		Available bool `json:"available"`
		Connected bool `json:"connected"`
	} `json:"cloud"`
	HasEmeter bool           `json:"has_emeter"`
	Emeter    *EmeterReading `json:"emeter"`
	Children  []childInfo    `json:"children"`
}

// childInfo is the CLI's JSON representation of one child outlet.
type childInfo struct {
	ID        string         `json:"id"`
	Alias     string         `json:"alias"`
	IsOn      bool           `json:"is_on"`
	HasEmeter bool           `json:"has_emeter"`
	Emeter    *EmeterReading `json:"emeter"`
}

// Discover scans the local network and returns all responding devices.
//
// Returns:
//   - []Device: Devices in the CLI's reported order
//   - error: ErrDiscoveryFailed or ErrTimeout
func (b *CLIBackend) Discover(ctx context.Context) ([]Device, error) {
	out, err := b.run(ctx, b.cfg.DiscoveryTimeout, "discover")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDiscoveryFailed, err)
	}

	var infos []deviceInfo
	if err := json.Unmarshal(out, &infos); err != nil {
		return nil, fmt.Errorf("%w: parsing discovery output: %v", ErrDiscoveryFailed, err)
	}

	devices := make([]Device, 0, len(infos))
	for i := range infos {
		devices = append(devices, newCLIDevice(b, infos[i]))
	}

	b.logger.Debug("discovery complete", "count", len(devices))
	return devices, nil
}

// run executes one CLI invocation with its own deadline and returns stdout.
func (b *CLIBackend) run(ctx context.Context, timeout time.Duration, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	full := append([]string{"--json"}, args...)
	if b.cfg.Username != "" {
		full = append(full, "--username", b.cfg.Username, "--password", b.cfg.Password)
	}

	cmd := exec.CommandContext(ctx, b.cfg.Binary, full...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctx.Err() != nil {
		b.logger.Warn("backend command timed out", "args", strings.Join(args, " "))
		return nil, fmt.Errorf("%w: %s", ErrTimeout, strings.Join(args, " "))
	}
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return nil, fmt.Errorf("%w: %s: %s", ErrCommandFailed, strings.Join(args, " "), msg)
	}
	return stdout.Bytes(), nil
}

// cliDevice implements Device over the CLI backend.
type cliDevice struct {
	backend  *CLIBackend
	info     deviceInfo
	children []Child
}

func newCLIDevice(b *CLIBackend, info deviceInfo) *cliDevice {
	d := &cliDevice{backend: b, info: info}
	for i := range info.Children {
		d.children = append(d.children, &cliChild{parent: d, info: info.Children[i]})
	}
	return d
}

func (d *cliDevice) Addr() string  { return d.info.Addr }
func (d *cliDevice) Alias() string { return d.info.Alias }
func (d *cliDevice) IsOn() bool    { return d.info.IsOn }

func (d *cliDevice) OnSince() *time.Time { return d.info.OnSince }

func (d *cliDevice) HasCloud() bool {
	return d.info.Cloud != nil && d.info.Cloud.Available
}

func (d *cliDevice) CloudConnected() bool {
	return d.info.Cloud != nil && d.info.Cloud.Connected
}

func (d *cliDevice) HasEmeter() bool { return d.info.HasEmeter }

func (d *cliDevice) Emeter() EmeterReading {
	if d.info.Emeter == nil {
		return EmeterReading{}
	}
	return *d.info.Emeter
}

func (d *cliDevice) Children() []Child { return d.children }

func (d *cliDevice) Update(ctx context.Context) error {
	out, err := d.backend.run(ctx, d.backend.cfg.CommandTimeout, "status", "--host", d.info.Addr)
	if err != nil {
		return err
	}

	var info deviceInfo
	if err := json.Unmarshal(out, &info); err != nil {
		return fmt.Errorf("%w: parsing status output: %v", ErrCommandFailed, err)
	}

	// Preserve child wrapper identity, refresh their snapshots in place
	d.info = info
	for _, c := range d.children {
		cc, ok := c.(*cliChild)
		if !ok {
			continue
		}
		for i := range info.Children {
			if info.Children[i].ID == cc.info.ID {
				cc.info = info.Children[i]
				break
			}
		}
	}
	return nil
}

func (d *cliDevice) TurnOn(ctx context.Context) error {
	_, err := d.backend.run(ctx, d.backend.cfg.CommandTimeout, "on", "--host", d.info.Addr)
	return err
}

func (d *cliDevice) TurnOff(ctx context.Context) error {
	_, err := d.backend.run(ctx, d.backend.cfg.CommandTimeout, "off", "--host", d.info.Addr)
	return err
}

// cliChild implements Child over the CLI backend.
type cliChild struct {
	parent *cliDevice
	info   childInfo
}

func (c *cliChild) ID() string      { return c.info.ID }
func (c *cliChild) Alias() string   { return c.info.Alias }
func (c *cliChild) IsOn() bool      { return c.info.IsOn }
func (c *cliChild) HasEmeter() bool { return c.info.HasEmeter }

func (c *cliChild) Update(ctx context.Context) error {
	return c.parent.Update(ctx)
}

func (c *cliChild) TurnOn(ctx context.Context) error {
	b := c.parent.backend
	_, err := b.run(ctx, b.cfg.CommandTimeout, "on", "--host", c.parent.info.Addr, "--child", c.info.ID)
	return err
}

func (c *cliChild) TurnOff(ctx context.Context) error {
	b := c.parent.backend
	_, err := b.run(ctx, b.cfg.CommandTimeout, "off", "--host", c.parent.info.Addr, "--child", c.info.ID)
	return err
}

func (c *cliChild) Emeter() EmeterReading {
	if c.info.Emeter == nil {
		return EmeterReading{}
	}
	return *c.info.Emeter
}

var _ Backend = (*CLIBackend)(nil)
var _ Device = (*cliDevice)(nil)
var _ Child = (*cliChild)(nil)

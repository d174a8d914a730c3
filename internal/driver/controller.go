package driver

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/englishfox90/kasa-ascom-alpaca-driver/internal/bridge"
	"github.com/englishfox90/kasa-ascom-alpaca-driver/internal/kasa"
)

// Logger is the minimal logging interface the controller needs.
// Satisfied by *logging.Logger.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger discards all log output. Used when no logger is provided.
type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Warn(msg string, args ...any)  {}
func (noopLogger) Error(msg string, args ...any) {}

// Publisher receives controller state-change events. Implemented by the
// MQTT event feed; nil disables publishing.
type Publisher interface {
	// ConnectionChanged fires after connect or disconnect completes.
	ConnectionChanged(connected bool, channelCount int)

	// SwitchWritten fires after a verified state change.
	SwitchWritten(channelName string, on bool)
}

// Recorder receives meter gauge samples. Implemented by the InfluxDB
// writer; nil disables recording.
type Recorder interface {
	// RecordMetric stores one gauge sample.
	RecordMetric(channelName string, metric Metric, value float64)
}

// Config holds controller tuning values.
type Config struct {
	// Attempts is how many times a write is tried before giving up.
	Attempts int

	// SettleDelay is the wait between issuing a relay command and
	// re-reading state to verify it.
	SettleDelay time.Duration
}

// DefaultConfig returns the empirically tuned controller defaults.
func DefaultConfig() Config {
	return Config{
		Attempts:    3,
		SettleDelay: 1200 * time.Millisecond,
	}
}

// Controller owns the device session: discovery, the channel table,
// verified writes, and meter reads.
//
// Connect and Disconnect hold an exclusive lock so only one session
// mutation runs at a time. The channel table is published atomically;
// once published it is read without the lock. Every backend call goes
// through the bridge, which serialises access to the hardware.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
type Controller struct {
	backend   kasa.Backend
	bridge    *bridge.Bridge
	cfg       Config
	logger    Logger
	publisher Publisher
	recorder  Recorder

	mu        sync.RWMutex
	connected bool
	devices   []kasa.Device
	channels  []Channel
}

// New creates a Controller.
//
// Parameters:
//   - backend: Device discovery and control backend
//   - b: Bridge serialising backend access
//   - cfg: Retry and settle tuning
//   - logger: Structured logger, nil to disable
//
// Returns:
//   - *Controller: Disconnected controller with an empty channel table
func New(backend kasa.Backend, b *bridge.Bridge, cfg Config, logger Logger) *Controller {
	if logger == nil {
		logger = noopLogger{}
	}
	if cfg.Attempts < 1 {
		cfg.Attempts = DefaultConfig().Attempts
	}
	if cfg.SettleDelay < 0 {
		cfg.SettleDelay = DefaultConfig().SettleDelay
	}
	return &Controller{
		backend: backend,
		bridge:  b,
		cfg:     cfg,
		logger:  logger,
	}
}

// SetPublisher attaches an event publisher. Call before Connect.
func (c *Controller) SetPublisher(p Publisher) {
	c.publisher = p
}

// SetRecorder attaches a metric recorder. Call before Connect.
func (c *Controller) SetRecorder(r Recorder) {
	c.recorder = r
}

// Connect discovers devices and builds the channel table.
//
// Discovery runs through the bridge; each discovered device gets a
// telemetry refresh. A device whose refresh fails is logged and excluded. A total
// discovery failure aborts the connect, leaving the controller
// disconnected with an empty table.
//
// Connect on an already connected controller is a no-op.
//
// Parameters:
//   - ctx: Bounds discovery and the per-device refreshes
//
// Returns:
//   - error: Discovery failure or timeout
func (c *Controller) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return nil
	}

	var devices []kasa.Device
	err := c.bridge.Run(ctx, func(ctx context.Context) error {
		found, err := c.backend.Discover(ctx)
		if err != nil {
			return err
		}
		for _, dev := range found {
			if err := dev.Update(ctx); err != nil {
				c.logger.Warn("excluding device, refresh failed",
					"addr", dev.Addr(), "error", err)
				continue
			}
			devices = append(devices, dev)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("connecting: %w", err)
	}

	channels := buildChannels(devices)

	c.devices = devices
	c.channels = channels
	c.connected = true

	c.logger.Info("connected",
		"devices", len(devices), "channels", len(channels))
	if c.publisher != nil {
		c.publisher.ConnectionChanged(true, len(channels))
	}
	return nil
}

// Disconnect clears the channel table and stops the bridge worker.
// It never touches the network; devices are simply forgotten. The next
// Connect starts a fresh worker and discovery pass. Disconnect is
// idempotent.
func (c *Controller) Disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	wasConnected := c.connected
	c.connected = false
	c.devices = nil
	c.channels = nil

	c.bridge.Shutdown()

	if wasConnected {
		c.logger.Info("disconnected")
		if c.publisher != nil {
			c.publisher.ConnectionChanged(false, 0)
		}
	}
}

// IsConnected reports whether a device session is active.
func (c *Controller) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// ChannelCount returns the number of enumerated channels, 0 while
// disconnected.
func (c *Controller) ChannelCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.channels)
}

// Channels returns the published channel table. The returned slice
// must not be modified.
func (c *Controller) Channels() []Channel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.channels
}

// channelTable returns the table and connection flag in one snapshot.
func (c *Controller) channelTable() ([]Channel, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.channels, c.connected
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the Kasa Alpaca driver.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Kasa     KasaConfig     `yaml:"kasa"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Logging  LoggingConfig  `yaml:"logging"`
	Manager  ManagerConfig  `yaml:"manager"`
}

// ServerConfig contains HTTP API server settings.
type ServerConfig struct {
	Host     string              `yaml:"host"`
	Port     int                 `yaml:"port"`
	Timeouts ServerTimeoutConfig `yaml:"timeouts"`
	CORS     CORSConfig          `yaml:"cors"`
}

// ServerTimeoutConfig contains HTTP timeout settings in seconds.
type ServerTimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// CORSConfig contains Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers"`
}

// DatabaseConfig contains SQLite database settings for the credential store.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// Duration is a time.Duration that unmarshals from YAML strings like
// "30s" or "1200ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("duration must be a string like \"30s\": %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// KasaConfig contains device backend and state-write settings.
type KasaConfig struct {
	// Binary is the path to the kasactl command-line tool the backend
	// shells out to for discovery and commands.
	Binary string `yaml:"binary"`

	// ConnectOnStart attempts an initial Connect() when the server boots.
	// A failed initial connect is logged, not fatal; clients reconnect
	// explicitly via the Alpaca connected endpoint.
	ConnectOnStart bool `yaml:"connect_on_start"`

	// DiscoveryTimeout bounds a full device discovery pass.
	DiscoveryTimeout Duration `yaml:"discovery_timeout"`

	// CommandTimeout bounds a single device command or telemetry refresh.
	CommandTimeout Duration `yaml:"command_timeout"`

	// Write contains the verify-and-retry policy for state writes.
	Write WriteConfig `yaml:"write"`
}

// WriteConfig contains the verify-and-retry policy for switch writes.
// Kasa commands are fire-and-forget over the local network, so a write is
// "converge within bounded retries", not an atomic set.
type WriteConfig struct {
	// Attempts is the maximum number of command+verify rounds.
	Attempts int `yaml:"attempts"`

	// SettleDelay is the wait between sending a command and re-reading
	// state. The backend needs time to reflect the change; 1.2s was
	// found empirically against HS300 strips.
	SettleDelay Duration `yaml:"settle_delay"`
}

// MQTTConfig contains MQTT broker connection settings for the event feed.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings in seconds.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// InfluxDBConfig contains InfluxDB connection settings for metering history.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// ManagerConfig contains settings for the kasa-manager supervisor CLI.
type ManagerConfig struct {
	// Binary is the path to the kasa-alpaca server executable.
	Binary string `yaml:"binary"`

	// RestartOnFailure enables automatic restart if the server crashes.
	RestartOnFailure bool `yaml:"restart_on_failure"`

	// RestartDelaySeconds is the time to wait before restarting.
	RestartDelaySeconds int `yaml:"restart_delay_seconds"`

	// MaxRestartAttempts limits restart attempts. 0 means unlimited.
	MaxRestartAttempts int `yaml:"max_restart_attempts"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: KASA_ALPACA_SECTION_KEY
// For example: KASA_ALPACA_DATABASE_PATH, KASA_ALPACA_SERVER_PORT
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config with sensible defaults.
// This is also the configuration used when no config file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 5555,
			Timeouts: ServerTimeoutConfig{
				Read:  30,
				Write: 60,
				Idle:  120,
			},
		},
		Database: DatabaseConfig{
			Path:        "./data/kasa-alpaca.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		Kasa: KasaConfig{
			Binary:           "kasactl",
			ConnectOnStart:   true,
			DiscoveryTimeout: Duration(30 * time.Second),
			CommandTimeout:   Duration(10 * time.Second),
			Write: WriteConfig{
				Attempts:    3,
				SettleDelay: Duration(1200 * time.Millisecond),
			},
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "kasa-alpaca",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Manager: ManagerConfig{
			Binary:              "kasa-alpaca",
			RestartOnFailure:    true,
			RestartDelaySeconds: 5,
			MaxRestartAttempts:  10,
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: KASA_ALPACA_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Server
	if v := os.Getenv("KASA_ALPACA_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("KASA_ALPACA_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}

	// Database
	if v := os.Getenv("KASA_ALPACA_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// Kasa backend
	if v := os.Getenv("KASA_ALPACA_KASA_BINARY"); v != "" {
		cfg.Kasa.Binary = v
	}

	// MQTT
	if v := os.Getenv("KASA_ALPACA_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("KASA_ALPACA_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("KASA_ALPACA_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("KASA_ALPACA_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Server validation
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 1 and 65535")
	}

	// Database validation
	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	// Kasa backend validation
	if c.Kasa.Binary == "" {
		errs = append(errs, "kasa.binary is required")
	}
	if c.Kasa.Write.Attempts < 1 {
		errs = append(errs, "kasa.write.attempts must be at least 1")
	}
	if c.Kasa.Write.SettleDelay < 0 {
		errs = append(errs, "kasa.write.settle_delay must not be negative")
	}

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetReadTimeout returns the server read timeout as a Duration.
func (s ServerConfig) GetReadTimeout() time.Duration {
	return time.Duration(s.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the server write timeout as a Duration.
func (s ServerConfig) GetWriteTimeout() time.Duration {
	return time.Duration(s.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the server idle timeout as a Duration.
func (s ServerConfig) GetIdleTimeout() time.Duration {
	return time.Duration(s.Timeouts.Idle) * time.Second
}

// Kasa Alpaca - ASCOM Alpaca switch driver for TP-Link Kasa smart plugs.
//
// The server exposes Kasa plugs, power strips, and their energy meters
// as one Alpaca Switch device, so astronomy automation software can
// control observatory power (mounts, cameras, dew heaters) over the
// standard Alpaca HTTP protocol.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/englishfox90/kasa-ascom-alpaca-driver/internal/api"
	"github.com/englishfox90/kasa-ascom-alpaca-driver/internal/bridge"
	"github.com/englishfox90/kasa-ascom-alpaca-driver/internal/credentials"
	"github.com/englishfox90/kasa-ascom-alpaca-driver/internal/driver"
	"github.com/englishfox90/kasa-ascom-alpaca-driver/internal/infrastructure/config"
	"github.com/englishfox90/kasa-ascom-alpaca-driver/internal/infrastructure/database"
	"github.com/englishfox90/kasa-ascom-alpaca-driver/internal/infrastructure/influxdb"
	"github.com/englishfox90/kasa-ascom-alpaca-driver/internal/infrastructure/logging"
	"github.com/englishfox90/kasa-ascom-alpaca-driver/internal/infrastructure/mqtt"
	"github.com/englishfox90/kasa-ascom-alpaca-driver/internal/kasa"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Kasa Alpaca driver",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open the credential database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	store, err := credentials.NewStore(ctx, db)
	if err != nil {
		return fmt.Errorf("opening credential store: %w", err)
	}

	// Cloud credentials are optional; most setups are LAN-only
	username, password, err := store.CloudAccount(ctx)
	if err != nil && !errors.Is(err, credentials.ErrNotFound) {
		return fmt.Errorf("loading cloud credentials: %w", err)
	}
	if username != "" {
		log.Info("cloud credentials loaded", "username", username)
	}

	// Device backend and controller
	backend := kasa.NewCLIBackend(kasa.CLIConfig{
		Binary:           cfg.Kasa.Binary,
		DiscoveryTimeout: cfg.Kasa.DiscoveryTimeout.Std(),
		CommandTimeout:   cfg.Kasa.CommandTimeout.Std(),
		Username:         username,
		Password:         password,
	}, log)

	controller := driver.New(backend, bridge.New(log), driver.Config{
		Attempts:    cfg.Kasa.Write.Attempts,
		SettleDelay: cfg.Kasa.Write.SettleDelay.Std(),
	}, log)
	defer controller.Disconnect()

	// Connect to MQTT broker (optional event feed)
	if cfg.MQTT.Enabled {
		mqttClient, err := mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log)
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		controller.SetPublisher(mqtt.NewFeed(mqttClient, log))
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional metering history)
	if cfg.InfluxDB.Enabled {
		influxClient, err := influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		controller.SetRecorder(influxdb.NewRecorder(influxClient))
	} else {
		log.Info("InfluxDB disabled")
	}

	// Optional eager connect so channels are ready before the first client
	if cfg.Kasa.ConnectOnStart {
		if connectErr := controller.Connect(ctx); connectErr != nil {
			log.Warn("initial device discovery failed, waiting for client connect",
				"error", connectErr)
		} else {
			log.Info("devices discovered", "channels", controller.ChannelCount())
		}
	}

	// Start the Alpaca HTTP server
	server, err := api.New(api.Deps{
		Config:     cfg.Server,
		Logger:     log,
		Controller: controller,
		Version:    version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("Alpaca server listening",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	log.Info("Kasa Alpaca driver stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses KASA_ALPACA_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("KASA_ALPACA_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/englishfox90/kasa-ascom-alpaca-driver/internal/infrastructure/config"
	"github.com/englishfox90/kasa-ascom-alpaca-driver/internal/infrastructure/logging"
	"github.com/englishfox90/kasa-ascom-alpaca-driver/internal/process"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the kasa-alpaca server under supervision",
		Long: `Starts the kasa-alpaca server as a supervised subprocess.

The server is restarted automatically if it crashes, and a watchdog
polls its /health endpoint; a server that stops answering is killed
and restarted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	path := resolveConfigPath()
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logging.New(cfg.Logging, version)
	log.Info("supervisor starting",
		"binary", cfg.Manager.Binary,
		"config", path,
	)

	healthURL := serverURL(cfg.Server.Host, cfg.Server.Port) + "/health"

	mgr := process.NewManager(process.Config{
		Name:         "kasa-alpaca",
		Binary:       cfg.Manager.Binary,
		Args:         []string{},
		Env:          []string{"KASA_ALPACA_CONFIG=" + path},
		Restart:      cfg.Manager.RestartOnFailure,
		RestartDelay: time.Duration(cfg.Manager.RestartDelaySeconds) * time.Second,
		MaxRestarts:  cfg.Manager.MaxRestartAttempts,
		HealthCheck:  healthCheck(healthURL),
	})
	mgr.SetLogger(log)

	sigCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := mgr.Start(sigCtx); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}

	log.Info("server supervised", "pid", mgr.PID(), "health_url", healthURL)

	<-sigCtx.Done()

	log.Info("shutdown signal received, stopping server")
	if err := mgr.Stop(); err != nil {
		return fmt.Errorf("stopping server: %w", err)
	}

	log.Info("supervisor stopped")
	return nil
}

// healthCheck returns a watchdog probe against the server's health
// endpoint.
func healthCheck(url string) func(ctx context.Context) error {
	client := &http.Client{Timeout: 5 * time.Second}
	return func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("health endpoint returned %d", resp.StatusCode)
		}
		return nil
	}
}

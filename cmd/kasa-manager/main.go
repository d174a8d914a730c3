// Kasa Manager - operations tool for the Kasa Alpaca driver.
//
// Supervises the kasa-alpaca server process, reports its health, and
// manages stored Kasa cloud credentials.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags
var version = "dev"

const defaultConfigPath = "configs/config.yaml"

var configPath string

func main() {
	root := &cobra.Command{
		Use:     "kasa-manager",
		Short:   "Operations tool for the Kasa Alpaca driver",
		Version: version,
		Long: `kasa-manager supervises the kasa-alpaca server and manages its
stored Kasa cloud credentials.

The serve command runs the server as a supervised subprocess: it is
restarted on crash, and a watchdog polls the server's /health endpoint
to catch hung processes.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"path to config file (default "+defaultConfigPath+")")

	root.AddCommand(newServeCmd())
	root.AddCommand(newStatusCmd())
	root.AddCommand(newCredentialsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfigPath returns the config path from the flag, the
// KASA_ALPACA_CONFIG environment variable, or the default.
func resolveConfigPath() string {
	if configPath != "" {
		return configPath
	}
	if path := os.Getenv("KASA_ALPACA_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// serverURL builds the base URL of the Alpaca server from config values.
func serverURL(host string, port int) string {
	return fmt.Sprintf("http://%s:%d", host, port)
}

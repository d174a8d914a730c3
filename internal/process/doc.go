// Package process provides subprocess lifecycle management.
//
// The kasa-manager tool uses it to supervise the kasa-alpaca server:
// start and stop with graceful shutdown, automatic restart on failure,
// an HTTP health watchdog that kills hung processes, and capture of
// recent subprocess output for diagnostics.
//
// # Usage
//
//	mgr := process.NewManager(process.Config{
//	    Name:        "kasa-alpaca",
//	    Binary:      "/usr/local/bin/kasa-alpaca",
//	    Args:        []string{"--config", "/etc/kasa-alpaca/config.yaml"},
//	    Restart:     true,
//	    MaxRestarts: 10,
//	})
//	mgr.SetLogger(logger)
//
//	if err := mgr.Start(ctx); err != nil {
//	    return err
//	}
//	defer mgr.Stop()
package process

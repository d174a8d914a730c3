// Package kasa defines the boundary between the driver and TP-Link Kasa
// hardware.
//
// # Architecture
//
// The Backend, Device and Child interfaces describe everything the
// driver needs from the hardware layer: discovery, cached state
// snapshots, relay commands, and energy meter reads. The driver core
// depends only on these interfaces, so tests substitute in-memory
// fakes and the production wiring uses CLIBackend.
//
// CLIBackend shells out to the kasactl command-line tool with JSON
// output. Every invocation is a short-lived process with its own
// deadline. Kasa's protocol implementations are notoriously sensitive
// to concurrent access, so implementations of Backend are not required
// to be safe for concurrent use; callers must serialise access.
//
// # Usage
//
//	backend := kasa.NewCLIBackend(kasa.CLIConfig{
//	    Binary:           cfg.Kasa.Binary,
//	    DiscoveryTimeout: cfg.Kasa.DiscoveryTimeout,
//	    CommandTimeout:   cfg.Kasa.CommandTimeout,
//	}, logger)
//
//	devices, err := backend.Discover(ctx)
package kasa

// Package driver is the device controller at the heart of the Alpaca
// switch driver.
//
// It exposes a fleet of Kasa smart plugs, power strips and their
// synthetic sub-channels (power and cloud indicators, energy meter
// gauges) as one flat, stably indexed channel table.
//
// # Architecture
//
// The Controller owns the session lifecycle. Connect discovers devices
// through the kasa backend, refreshes each one, and builds the channel
// table in a fixed deterministic order; indices are dense 0..N-1 and
// stable until the next connect. Disconnect clears the table and stops
// the bridge worker without touching the network.
//
// All backend access runs through the bridge so the hardware never sees
// concurrent conversations. Reads refresh the backing unit before
// reporting state. Writes are verify-and-retry: relay commands are
// fire-and-forget on the wire, so each attempt issues the command,
// waits a settle delay, refreshes, and compares, giving up with a
// StateMismatchError after the configured attempt budget.
//
// Channels resolve by integer index or case-insensitive name. Write
// attempts on indicator and gauge channels fail with ErrReadOnly
// before reaching the backend.
//
// # Usage
//
//	ctrl := driver.New(backend, br, driver.DefaultConfig(), logger)
//
//	if err := ctrl.Connect(ctx); err != nil {
//	    return err
//	}
//	defer ctrl.Disconnect()
//
//	ch, err := ctrl.Resolve("Mount Power")
//	if err != nil {
//	    return err
//	}
//	if err := ctrl.Write(ctx, ch, true); err != nil {
//	    return err
//	}
package driver

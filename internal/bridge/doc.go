// Package bridge serialises all Kasa backend access on one worker
// goroutine.
//
// # Architecture
//
// Kasa's device protocol breaks under concurrent connections, and
// astronomy clients (sequencers, imaging suites) issue HTTP requests
// from many threads at once. The Bridge sits between the two: callers
// submit closures via Run, a single worker executes them strictly in
// arrival order, and each caller blocks only until its own operation
// finishes or its context deadline passes.
//
// A deadline expiry surfaces as ErrTimeout, distinct from any error the
// operation itself returns, so callers can tell a slow device from a
// broken one.
//
// The worker starts lazily on first use and is restarted transparently
// after Shutdown, which keeps connect/disconnect cycles cheap.
//
// # Usage
//
//	b := bridge.New(logger)
//
//	var devices []kasa.Device
//	err := b.Run(ctx, func(ctx context.Context) error {
//	    var err error
//	    devices, err = backend.Discover(ctx)
//	    return err
//	})
package bridge

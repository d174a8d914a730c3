// Package api provides the ASCOM Alpaca HTTP interface for the Kasa
// switch driver.
//
// The server exposes the standard Alpaca surface: the management API
// (/management/apiversions, /management/v1/description,
// /management/v1/configureddevices), the Switch device API
// (/api/v1/switch/0/{method}), and a /health endpoint for process
// supervision.
//
// # Architecture
//
// HTTP routing uses chi with a middleware chain for request IDs,
// request logging, panic recovery, CORS, and request body size limits.
// Every device method resolves through a single driver.Controller;
// the server owns no device state of its own.
//
// Alpaca semantics are preserved throughout: device failures are
// reported inside a 200 response envelope with an ErrorNumber and
// ErrorMessage, while malformed requests (unknown device number,
// unparseable transaction IDs) return HTTP-level errors.
//
// # Usage
//
//	srv, err := api.New(api.Deps{
//		Config:     cfg.Server,
//		Logger:     logger,
//		Controller: controller,
//		Version:    version,
//	})
//	if err != nil {
//		return err
//	}
//	if err := srv.Start(ctx); err != nil {
//		return err
//	}
//	defer srv.Close()
package api

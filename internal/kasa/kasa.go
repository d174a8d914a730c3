package kasa

import (
	"context"
	"time"
)

// EmeterReading holds one instantaneous energy meter sample.
// Fields are nil when the device does not report that metric.
type EmeterReading struct {
	// Power is instantaneous power draw in watts.
	Power *float64 `json:"power_w"`

	// Voltage is mains voltage in volts.
	Voltage *float64 `json:"voltage_v"`

	// Current is load current in amperes.
	Current *float64 `json:"current_a"`
}

// Backend discovers Kasa devices on the local network.
//
// Implementations are not required to be safe for concurrent use. The
// driver serialises all backend access on a single worker.
type Backend interface {
	// Discover scans the local network and returns all responding devices.
	Discover(ctx context.Context) ([]Device, error)
}

// Device is one Kasa unit (plug, power strip, dimmer).
//
// State accessors (IsOn, CloudConnected, ...) report the last snapshot
// taken by Discover or Update. They do not touch the network.
type Device interface {
	// Addr is the device's network address.
	Addr() string

	// Alias is the user-assigned device name.
	Alias() string

	// IsOn reports whether the device relay is on.
	IsOn() bool

	// OnSince reports when the relay last turned on, nil if off or unknown.
	OnSince() *time.Time

	// HasCloud reports whether the device supports TP-Link cloud binding.
	HasCloud() bool

	// CloudConnected reports whether the device currently has a cloud session.
	CloudConnected() bool

	// HasEmeter reports whether the device has an energy meter.
	HasEmeter() bool

	// Emeter returns the energy meter sample from the last snapshot.
	// Fields are nil for metrics the device does not report. Zero value
	// when the device has no meter.
	Emeter() EmeterReading

	// Children returns child outlets for power strips, empty otherwise.
	Children() []Child

	// Update refreshes the cached device state from the network.
	Update(ctx context.Context) error

	// TurnOn switches the device relay on.
	TurnOn(ctx context.Context) error

	// TurnOff switches the device relay off.
	TurnOff(ctx context.Context) error
}

// Child is one outlet of a multi-outlet device.
type Child interface {
	// ID is the backend identifier for this outlet.
	ID() string

	// Alias is the user-assigned outlet name.
	Alias() string

	// IsOn reports whether the outlet relay is on.
	IsOn() bool

	// HasEmeter reports whether this outlet has its own energy meter.
	HasEmeter() bool

	// Emeter returns the outlet's energy meter sample from the last
	// snapshot. Zero value when the outlet has no meter.
	Emeter() EmeterReading

	// Update refreshes the cached outlet state from the network.
	Update(ctx context.Context) error

	// TurnOn switches the outlet relay on.
	TurnOn(ctx context.Context) error

	// TurnOff switches the outlet relay off.
	TurnOff(ctx context.Context) error
}

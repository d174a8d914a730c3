package api

import (
	"net/http"

	"github.com/englishfox90/kasa-ascom-alpaca-driver/internal/driver"
)

const (
	deviceName        = "Kasa Alpaca Switch"
	deviceDescription = "ASCOM Alpaca switch driver for TP-Link Kasa smart plugs"
	manufacturer      = "englishfox90"
	serverLocation    = "Local network"
)

// handleAPIVersions reports the Alpaca API versions this server speaks.
func (s *Server) handleAPIVersions(w http.ResponseWriter, r *http.Request) {
	p := parseParams(r)
	s.writeAlpaca(w, p, []int{1})
}

// handleServerDescription reports server metadata for discovery clients.
func (s *Server) handleServerDescription(w http.ResponseWriter, r *http.Request) {
	p := parseParams(r)
	s.writeAlpaca(w, p, map[string]string{
		"ServerName":          deviceName,
		"Manufacturer":        manufacturer,
		"ManufacturerVersion": s.version,
		"Location":            serverLocation,
	})
}

// handleConfiguredDevices lists the devices this server exposes. There
// is exactly one: the switch aggregating every Kasa channel.
func (s *Server) handleConfiguredDevices(w http.ResponseWriter, r *http.Request) {
	p := parseParams(r)
	s.writeAlpaca(w, p, []map[string]any{
		{
			"DeviceName":   deviceName,
			"DeviceType":   "Switch",
			"DeviceNumber": 0,
			"UniqueID":     driver.GUID(deviceName),
		},
	})
}

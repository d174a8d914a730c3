package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/englishfox90/kasa-ascom-alpaca-driver/internal/driver"
)

// Alpaca Switch interface version implemented by this driver.
const switchInterfaceVersion = 2

// Value bounds reported for channels. Boolean channels map to 0..1;
// meter gauges report raw metric values, so their upper bound is a
// generous ceiling rather than a physical limit.
const (
	boolMaxValue  = 1.0
	gaugeMaxValue = 1000000.0
	boolStep      = 1.0
	gaugeStep     = 0.01
)

// handleSwitchGet dispatches Alpaca GET methods for the switch device.
func (s *Server) handleSwitchGet(w http.ResponseWriter, r *http.Request) {
	p := parseParams(r)
	if !s.checkDevice(w, r) {
		return
	}

	switch strings.ToLower(chi.URLParam(r, "method")) {
	case "connected":
		s.writeAlpaca(w, p, s.controller.IsConnected())

	case "maxswitch":
		s.handleMaxSwitch(w, p)

	case "getswitch":
		s.handleGetSwitch(w, r, p)

	case "getswitchvalue":
		s.handleGetSwitchValue(w, r, p)

	case "canwrite":
		s.withChannel(w, p, func(ch driver.Channel) {
			s.writeAlpaca(w, p, s.controller.CanWrite(ch))
		})

	case "getswitchname":
		s.withChannel(w, p, func(ch driver.Channel) {
			s.writeAlpaca(w, p, ch.Name)
		})

	case "getswitchdescription":
		s.handleGetSwitchDescription(w, r, p)

	case "minswitchvalue":
		s.withChannel(w, p, func(ch driver.Channel) {
			s.writeAlpaca(w, p, 0.0)
		})

	case "maxswitchvalue":
		s.withChannel(w, p, func(ch driver.Channel) {
			if ch.Kind == driver.KindMeterGauge {
				s.writeAlpaca(w, p, gaugeMaxValue)
				return
			}
			s.writeAlpaca(w, p, boolMaxValue)
		})

	case "switchstep":
		s.withChannel(w, p, func(ch driver.Channel) {
			if ch.Kind == driver.KindMeterGauge {
				s.writeAlpaca(w, p, gaugeStep)
				return
			}
			s.writeAlpaca(w, p, boolStep)
		})

	case "interfaceversion":
		s.writeAlpaca(w, p, switchInterfaceVersion)

	case "name":
		s.writeAlpaca(w, p, deviceName)

	case "description":
		s.writeAlpaca(w, p, deviceDescription)

	case "driverinfo":
		s.writeAlpaca(w, p, deviceDescription+", version "+s.version)

	case "driverversion":
		s.writeAlpaca(w, p, s.version)

	case "supportedactions":
		s.writeAlpaca(w, p, []string{})

	default:
		s.writeAlpacaError(w, p, alpacaErrNotImplemented,
			"method not implemented: "+chi.URLParam(r, "method"))
	}
}

// handleSwitchPut dispatches Alpaca PUT methods for the switch device.
func (s *Server) handleSwitchPut(w http.ResponseWriter, r *http.Request) {
	p := parseParams(r)
	if !s.checkDevice(w, r) {
		return
	}

	switch strings.ToLower(chi.URLParam(r, "method")) {
	case "connected":
		s.handleSetConnected(w, r, p)

	case "connect":
		if err := s.controller.Connect(r.Context()); err != nil {
			s.writeDriverError(w, p, err)
			return
		}
		s.writeAlpaca(w, p, nil)

	case "disconnect":
		s.controller.Disconnect()
		s.writeAlpaca(w, p, nil)

	case "setswitch":
		s.handleSetSwitch(w, r, p)

	case "setswitchvalue":
		s.handleSetSwitchValue(w, r, p)

	default:
		// setswitchname, action, commandblind, commandbool, commandstring
		s.writeAlpacaError(w, p, alpacaErrNotImplemented,
			"method not implemented: "+chi.URLParam(r, "method"))
	}
}

// checkDevice validates the Alpaca device number. Only device 0 exists.
// A bad device number is a malformed request, not a device error, so it
// gets an HTTP 400 rather than an error envelope.
func (s *Server) checkDevice(w http.ResponseWriter, r *http.Request) bool {
	if chi.URLParam(r, "device") != "0" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "unknown device number",
		})
		return false
	}
	return true
}

// withChannel resolves the Id parameter and runs fn, writing the
// appropriate error envelope on failure.
//
// The Id parameter accepts either a channel index or a channel name;
// name matching is case-insensitive.
func (s *Server) withChannel(w http.ResponseWriter, p alpacaParams, fn func(ch driver.Channel)) {
	raw, ok := p.get("Id")
	if !ok {
		s.writeAlpacaError(w, p, alpacaErrInvalidValue, "missing parameter Id")
		return
	}

	ch, err := s.controller.Resolve(raw)
	if err != nil {
		s.writeDriverError(w, p, err)
		return
	}
	fn(ch)
}

func (s *Server) handleMaxSwitch(w http.ResponseWriter, p alpacaParams) {
	if !s.controller.IsConnected() {
		s.writeAlpacaError(w, p, alpacaErrNotConnected, "not connected")
		return
	}
	s.writeAlpaca(w, p, s.controller.ChannelCount())
}

func (s *Server) handleGetSwitch(w http.ResponseWriter, r *http.Request, p alpacaParams) {
	s.withChannel(w, p, func(ch driver.Channel) {
		on, err := s.controller.Read(r.Context(), ch)
		if err != nil {
			s.writeDriverError(w, p, err)
			return
		}
		s.writeAlpaca(w, p, on)
	})
}

// handleGetSwitchValue returns the channel's numeric value: the metric
// for meter gauges (JSON null when the backend has no reading), 1/0
// for boolean channels.
func (s *Server) handleGetSwitchValue(w http.ResponseWriter, r *http.Request, p alpacaParams) {
	s.withChannel(w, p, func(ch driver.Channel) {
		if ch.Kind == driver.KindMeterGauge {
			value, err := s.controller.ReadMetric(r.Context(), ch)
			if err != nil {
				s.writeDriverError(w, p, err)
				return
			}
			s.writeAlpaca(w, p, value)
			return
		}

		on, err := s.controller.Read(r.Context(), ch)
		if err != nil {
			s.writeDriverError(w, p, err)
			return
		}
		if on {
			s.writeAlpaca(w, p, 1.0)
			return
		}
		s.writeAlpaca(w, p, 0.0)
	})
}

func (s *Server) handleGetSwitchDescription(w http.ResponseWriter, r *http.Request, p alpacaParams) {
	s.withChannel(w, p, func(ch driver.Channel) {
		text, err := s.controller.Describe(r.Context(), ch)
		if err != nil {
			s.writeDriverError(w, p, err)
			return
		}
		s.writeAlpaca(w, p, text)
	})
}

func (s *Server) handleSetConnected(w http.ResponseWriter, r *http.Request, p alpacaParams) {
	desired, err := p.bool("Connected")
	if err != nil {
		s.writeAlpacaError(w, p, alpacaErrInvalidValue, err.Error())
		return
	}

	if desired {
		if err := s.controller.Connect(r.Context()); err != nil {
			s.writeDriverError(w, p, err)
			return
		}
	} else {
		s.controller.Disconnect()
	}
	s.writeAlpaca(w, p, nil)
}

func (s *Server) handleSetSwitch(w http.ResponseWriter, r *http.Request, p alpacaParams) {
	state, err := p.bool("State")
	if err != nil {
		s.writeAlpacaError(w, p, alpacaErrInvalidValue, err.Error())
		return
	}

	s.withChannel(w, p, func(ch driver.Channel) {
		if err := s.controller.Write(r.Context(), ch, state); err != nil {
			s.writeDriverError(w, p, err)
			return
		}
		s.writeAlpaca(w, p, nil)
	})
}

// handleSetSwitchValue maps a numeric write onto the boolean relay:
// any non-zero value means on. Gauges reject the write as read-only.
func (s *Server) handleSetSwitchValue(w http.ResponseWriter, r *http.Request, p alpacaParams) {
	value, err := p.float("Value")
	if err != nil {
		s.writeAlpacaError(w, p, alpacaErrInvalidValue, err.Error())
		return
	}

	s.withChannel(w, p, func(ch driver.Channel) {
		if err := s.controller.Write(r.Context(), ch, value != 0); err != nil {
			s.writeDriverError(w, p, err)
			return
		}
		s.writeAlpaca(w, p, nil)
	})
}

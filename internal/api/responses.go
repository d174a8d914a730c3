package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/englishfox90/kasa-ascom-alpaca-driver/internal/bridge"
	"github.com/englishfox90/kasa-ascom-alpaca-driver/internal/driver"
)

// ASCOM Alpaca error numbers.
const (
	// alpacaErrNotImplemented (0x400) - the requested operation is not
	// implemented, including writes to read-only switches.
	alpacaErrNotImplemented = 0x400

	// alpacaErrInvalidValue (0x401) - a supplied parameter is invalid,
	// including out-of-range indices and unknown names.
	alpacaErrInvalidValue = 0x401

	// alpacaErrNotConnected (0x407) - the device is not connected.
	alpacaErrNotConnected = 0x407

	// alpacaErrDriver (0x500) - driver-specific failure: backend errors,
	// timeouts, and writes that failed verification.
	alpacaErrDriver = 0x500
)

// alpacaResponse is the standard Alpaca response envelope.
type alpacaResponse struct {
	ClientTransactionID uint32 `json:"ClientTransactionID"`
	ServerTransactionID uint32 `json:"ServerTransactionID"`
	ErrorNumber         int    `json:"ErrorNumber"`
	ErrorMessage        string `json:"ErrorMessage"`
	Value               any    `json:"Value"`
}

// transactionCounter issues monotonically increasing server
// transaction IDs.
type transactionCounter struct {
	n atomic.Uint32
}

func (t *transactionCounter) next() uint32 {
	return t.n.Add(1)
}

// alpacaParams provides case-insensitive access to Alpaca request
// parameters. Alpaca clients disagree about parameter casing
// (ClientID vs clientid, Id vs ID), so lookups fold case.
type alpacaParams struct {
	values url.Values
}

// parseParams extracts parameters from query string (GET) or form
// body (PUT).
func parseParams(r *http.Request) alpacaParams {
	if r.Method == http.MethodPut || r.Method == http.MethodPost {
		//nolint:errcheck // Malformed bodies surface as missing params
		r.ParseForm()
		return alpacaParams{values: r.Form}
	}
	return alpacaParams{values: r.URL.Query()}
}

// get returns the first value for the named parameter, folding case.
func (p alpacaParams) get(name string) (string, bool) {
	for key, vals := range p.values {
		if strings.EqualFold(key, name) && len(vals) > 0 {
			return vals[0], true
		}
	}
	return "", false
}

// clientTransactionID returns the client's transaction ID, 0 if absent
// or unparseable.
func (p alpacaParams) clientTransactionID() uint32 {
	raw, ok := p.get("ClientTransactionID")
	if !ok {
		return 0
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0
	}
	return uint32(id)
}

// bool parses a boolean parameter ("true"/"false", case-insensitive).
func (p alpacaParams) bool(name string) (bool, error) {
	raw, ok := p.get(name)
	if !ok {
		return false, errors.New("missing parameter " + name)
	}
	value, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil {
		return false, errors.New("invalid boolean for " + name + ": " + raw)
	}
	return value, nil
}

// float parses a numeric parameter.
func (p alpacaParams) float(name string) (float64, error) {
	raw, ok := p.get(name)
	if !ok {
		return 0, errors.New("missing parameter " + name)
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, errors.New("invalid number for " + name + ": " + raw)
	}
	return value, nil
}

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeAlpaca writes a successful Alpaca response.
// Alpaca reports all device-level failures inside a 200 envelope;
// non-200 statuses are reserved for malformed requests.
func (s *Server) writeAlpaca(w http.ResponseWriter, p alpacaParams, value any) {
	writeJSON(w, http.StatusOK, alpacaResponse{
		ClientTransactionID: p.clientTransactionID(),
		ServerTransactionID: s.txn.next(),
		Value:               value,
	})
}

// writeAlpacaError writes an Alpaca error envelope.
func (s *Server) writeAlpacaError(w http.ResponseWriter, p alpacaParams, number int, message string) {
	writeJSON(w, http.StatusOK, alpacaResponse{
		ClientTransactionID: p.clientTransactionID(),
		ServerTransactionID: s.txn.next(),
		ErrorNumber:         number,
		ErrorMessage:        message,
	})
}

// writeDriverError maps a controller error onto the Alpaca taxonomy.
func (s *Server) writeDriverError(w http.ResponseWriter, p alpacaParams, err error) {
	switch {
	case errors.Is(err, driver.ErrNotConnected):
		s.writeAlpacaError(w, p, alpacaErrNotConnected, err.Error())
	case errors.Is(err, driver.ErrOutOfRange),
		errors.Is(err, driver.ErrNotFound),
		errors.Is(err, driver.ErrNoMeter):
		s.writeAlpacaError(w, p, alpacaErrInvalidValue, err.Error())
	case errors.Is(err, driver.ErrReadOnly):
		s.writeAlpacaError(w, p, alpacaErrNotImplemented, err.Error())
	case errors.Is(err, bridge.ErrTimeout):
		s.writeAlpacaError(w, p, alpacaErrDriver, "device operation timed out")
	default:
		// StateMismatch, backend failures, shutdown races
		s.writeAlpacaError(w, p, alpacaErrDriver, err.Error())
	}
}

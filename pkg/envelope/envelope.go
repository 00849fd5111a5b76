// Package envelope defines the uniform result shape every analysis tool
// returns: a status tag, an optional error, warnings, and a free-form
// payload. It is the public error boundary for the whole toolchain — no
// tool panics or returns a bare Go error across its public surface.
package envelope

import (
	"encoding/json"
	"fmt"
)

// Status is the closed set of envelope outcomes.
type Status string

const (
	// StatusSuccess indicates the tool ran to completion. Partial failures
	// of composed sub-tools are recorded in Warnings or a nested
	// signal_status map within Data, not by flipping Status.
	StatusSuccess Status = "success"
	// StatusError indicates the tool could not produce a result at all.
	StatusError Status = "error"
)

// Envelope is the universal tool return value.
type Envelope struct {
	Data     map[string]any `json:"-"`
	Status   Status         `json:"status"`
	Error    string         `json:"error,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
}

// Success builds a success envelope from a payload map and optional warnings.
func Success(data map[string]any, warnings ...string) Envelope {
	if data == nil {
		data = map[string]any{}
	}

	return Envelope{
		Status:   StatusSuccess,
		Data:     data,
		Warnings: warnings,
	}
}

// Errorf builds an error envelope with a formatted reason.
func Errorf(format string, args ...any) Envelope {
	return Envelope{
		Status: StatusError,
		Error:  fmt.Sprintf(format, args...),
	}
}

// FromError builds an error envelope wrapping an existing error.
func FromError(err error) Envelope {
	if err == nil {
		return Envelope{Status: StatusSuccess}
	}

	return Envelope{Status: StatusError, Error: err.Error()}
}

// OK reports whether the envelope represents a successful result.
func (e Envelope) OK() bool {
	return e.Status == StatusSuccess
}

// WithWarning appends a warning and returns the envelope for chaining.
func (e Envelope) WithWarning(msg string) Envelope {
	e.Warnings = append(e.Warnings, msg)

	return e
}

// Get reads a key out of Data, returning ok=false when absent or on error status.
func (e Envelope) Get(key string) (any, bool) {
	if e.Data == nil {
		return nil, false
	}

	v, ok := e.Data[key]

	return v, ok
}

// MarshalJSON flattens Data alongside status/warnings/error so the wire
// shape matches a mapping with a required "status" key rather than
// nesting the payload under a "data" key.
func (e Envelope) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Data)+3)
	for k, v := range e.Data {
		out[k] = v
	}

	out["status"] = e.Status
	if e.Error != "" {
		out["error"] = e.Error
	}

	if len(e.Warnings) > 0 {
		out["warnings"] = e.Warnings
	}

	return json.Marshal(out)
}

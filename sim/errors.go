package sim

import "fmt"

// ConfigurationError reports a malformed or incomplete experiment
// configuration. It is fatal: no simulation runs once one is returned.
type ConfigurationError struct {
	Field  string // offending field, empty when the whole document is bad
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := "configuration error"
	if e.Field != "" {
		msg += " in " + e.Field
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// InvalidParameterError reports a model parameter outside its domain,
// e.g. a probability outside [0,1] or a negative backoff base.
type InvalidParameterError struct {
	Field string
	Value any
	// Want describes the accepted domain, e.g. "in [0, 1]".
	Want string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s = %v: must be %s", e.Field, e.Value, e.Want)
}

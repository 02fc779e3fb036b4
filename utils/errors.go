package utils

import "fmt"

// ConfigurationError reports invalid setup input - a bad degree, quadrature
// rule, process grid or rank. It is fatal to the call that produced it and is
// never retried.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string { return "configuration error: " + e.Msg }

func ConfigErrorf(format string, args ...interface{}) error {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

// InternalConsistencyError reports an index computed from spans and padding
// that falls outside the structurally valid bandwidth. It indicates a broken
// locality or padding invariant and is never clamped away.
type InternalConsistencyError struct {
	Msg string
}

func (e *InternalConsistencyError) Error() string { return "internal consistency error: " + e.Msg }

func ConsistencyErrorf(format string, args ...interface{}) error {
	return &InternalConsistencyError{Msg: fmt.Sprintf(format, args...)}
}

// ProtocolError reports a halo exchange failure - mismatched buffer shapes
// between ranks, an unexpected message, or a peer that never arrived at a
// synchronization point. The exchange group is corrupt once one of these is
// seen; the error is fatal and not retried.
type ProtocolError struct {
	Msg string
}

func (e *ProtocolError) Error() string { return "protocol error: " + e.Msg }

func ProtocolErrorf(format string, args ...interface{}) error {
	return &ProtocolError{Msg: fmt.Sprintf(format, args...)}
}

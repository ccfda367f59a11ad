package webnode

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig classifies every configuration failure: invalid options,
	// malformed middleware or router entries, failed router loaders.
	ErrConfig = errors.New("invalid webnode configuration")

	// ErrStopped is returned by Serve once the node has been stopped.
	ErrStopped = errors.New("webnode stopped")

	// ErrAlreadyServing is returned by a second Serve call.
	ErrAlreadyServing = errors.New("webnode already serving")
)

// ConfigError describes which option failed validation and why.
// errors.Is(err, ErrConfig) holds for every ConfigError.
type ConfigError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("%s: %s: %s", ErrConfig, e.Field, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func configErr(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func wrapConfigErr(field, reason string, err error) error {
	return &ConfigError{Field: field, Reason: reason, Err: err}
}

package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrStore marks failures of the state store collaborator.
var ErrStore = errors.New("state store failure")

// StoreError wraps a failed state load or save. Nothing is assumed
// consistent after a failed save.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("state %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}

// TransportError records a failed outbound send. It is logged, never returned.
type TransportError struct {
	Kind   SendKind
	ChatID int64
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("send %s to chat %d: %v", e.Kind, e.ChatID, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ConfigurationError reports missing or invalid runtime configuration.
type ConfigurationError struct {
	Keys   []string
	Reason string
}

func (e *ConfigurationError) Error() string {
	var b strings.Builder
	b.WriteString("configuration error")
	if len(e.Keys) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Keys, ", "))
	}
	if e.Reason != "" {
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	return b.String()
}

// IsConfigurationError reports whether err is or wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

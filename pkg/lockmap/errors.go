package lockmap

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is returned by New when the initial capacity or
// the load factor is not a positive number, or when the hasher does not
// match the key type.
var ErrInvalidConfiguration = errors.New("lockmap: invalid configuration")

// ConfigError describes which construction parameter was rejected.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s %s, got %v", ErrInvalidConfiguration, e.Field, e.Reason, e.Value)
}

// Is reports whether target is ErrInvalidConfiguration.
func (e *ConfigError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

package game

import (
	"errors"
	"fmt"
)

// ConfigurationError marks an authored-data bug: an unknown effect or targeting
// type, or a malformed back-reference. It is fatal to the current operation,
// surfaced only to developer diagnostics, and never player-facing. Player-side
// mistakes (a click outside the valid target set, a destination chosen with no
// active chain) are not errors at all; they are silently ignored as UI races.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Msg
}

func configErrorf(format string, args ...any) error {
	return &ConfigurationError{Msg: fmt.Sprintf(format, args...)}
}

// IsConfigurationError reports whether err is (or wraps) a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// ErrInvalidAction rejects an action payload that cannot be executed from the
// current state (wrong player, unaffordable cost, unknown card). The match
// state is left untouched; callers re-prompt or drop the payload.
var ErrInvalidAction = errors.New("invalid action")

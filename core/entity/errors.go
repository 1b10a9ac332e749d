package entity

import (
	"errors"
	"fmt"
)

// ErrUnknownEntity is returned for entity names missing from the registry.
var ErrUnknownEntity = errors.New("unknown entity")

// ErrPushNotSupported is returned for entities whose rows are pushed as
// children of another entity.
var ErrPushNotSupported = errors.New("push not supported")

// ValidationError reports a row value a strategy cannot map.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("%v is not a valid value for the %s field", e.Value, e.Field)
}

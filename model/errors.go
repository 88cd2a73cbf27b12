package model

import "fmt"

// InputError reports malformed input to an engine operation: a rectangle
// with reversed corners, or an empty list where the operation requires at
// least one element. A page with zero detected text is not an InputError;
// it produces an empty, valid result.
type InputError struct {
	// Op names the operation that rejected its input.
	Op string

	// Reason describes what was malformed.
	Reason string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: invalid input: %s", e.Op, e.Reason)
}

// ConfigError reports invalid engine configuration: a weight vector that
// sums to zero, or a threshold outside [0,1].
type ConfigError struct {
	// Field names the offending configuration field.
	Field string

	// Reason describes why the value was rejected.
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Reason)
}

package domain

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrMissingField is returned when the analysis lacks a field the report depends on.
	ErrMissingField = errors.New("missing required field")
	// ErrInvalidField is returned when a field cannot be interpreted.
	ErrInvalidField = errors.New("invalid field")
)

// ThresholdError reports a speed score below the requested threshold. It is an
// expected outcome rather than a failure of the tool, so callers print the
// message without further diagnostics.
type ThresholdError struct {
	Threshold float64
	Score     float64
}

func (e *ThresholdError) Error() string {
	return fmt.Sprintf("Threshold of %s not met with score of %s",
		FormatNumber(e.Threshold), FormatNumber(e.Score))
}

// NoStack marks the error as user-facing.
func (e *ThresholdError) NoStack() bool {
	return true
}

// FormatNumber prints a float without trailing zeros, e.g. 70 rather than 70.000000.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

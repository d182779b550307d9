package simulation

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDegenerateCell is returned when a cell finishes without crediting a
	// single block, so its revenue ratio is undefined.
	ErrDegenerateCell = errors.New("degenerate cell: no revenue credited")

	// ErrMatrixTooLarge is returned when a result matrix would exceed the
	// configured bounds. It is raised before anything is allocated.
	ErrMatrixTooLarge = errors.New("result matrix too large")
)

// DegenerateCellError reports the cell that produced no revenue.
type DegenerateCellError struct {
	Alpha  float64
	Gamma  float64
	Events int64
}

func (e *DegenerateCellError) Error() string {
	return fmt.Sprintf("%v (alpha=%g gamma=%g events=%d)", ErrDegenerateCell, e.Alpha, e.Gamma, e.Events)
}

func (e *DegenerateCellError) Unwrap() error {
	return ErrDegenerateCell
}

// RangeError describes a single configuration value outside its bound.
type RangeError struct {
	Field    string
	Value    interface{}
	Expected string
}

func (e RangeError) Error() string {
	return fmt.Sprintf("%s = %v out of range, expected %s", e.Field, e.Value, e.Expected)
}

// RangeErrors collects every out of range value found in one validation pass.
type RangeErrors []RangeError

func (e RangeErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return "invalid parameter range: " + strings.Join(msgs, "; ")
}

// Err returns nil when nothing was collected.
func (e RangeErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

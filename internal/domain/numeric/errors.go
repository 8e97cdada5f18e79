package numeric

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrEmptyInput     = errors.New("empty input")
	ErrNotPositive    = errors.New("count must be positive")
	ErrDivisionByZero = errors.New("division by zero")
	ErrNotFinite      = errors.New("result is not a finite number")
)

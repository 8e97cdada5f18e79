package config

import "errors"

// Load and Validate wrap every failure in one of these.
var (
	ErrInvalidConfig = errors.New("bfhl config: invalid value")
	ErrLoadConfig    = errors.New("bfhl config: cannot read source")
)

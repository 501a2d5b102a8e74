package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrInvalidAxisConfig = goerr.New("invalid axis configuration")
)

// Context keys for error values
const (
	AxisLocationKey = "axis_location"
)

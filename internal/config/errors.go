package config

import "errors"

// Sentinel errors returned by Load, LoadFile, Validate and Watch.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)

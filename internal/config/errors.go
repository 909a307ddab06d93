package config

import "errors"

// Validation errors returned by the per-daemon config views when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidTransportConfigs indicates invalid transport settings
	// (for example, missing peer URL or listen address).
	ErrInvalidTransportConfigs = errors.New("invalid transport configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, empty DSN or an in-memory catalog that cannot survive
	// a relaunch).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
)

package config

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for configuration validation
var (
	ErrConfigNotFound  = goerr.New("configuration file not found")
	ErrInvalidConfig   = goerr.New("invalid configuration")
	ErrMissingName     = goerr.New("name is required")
	ErrDuplicateName   = goerr.New("duplicate name")
	ErrInvalidID       = goerr.New("invalid ID format")
	ErrDuplicateID     = goerr.New("duplicate ID")
	ErrMissingRequired = goerr.New("required value is missing")
)

// Context keys for error values
const (
	ConfigPathKey = "config_path"
	IDKey         = "id"
	NameKey       = "name"
	IndexKey      = "index"
	BackendKey    = "backend"
)

package constants

import "errors"

// Configuration errors.
var (
	ErrNoAPIKeyConfigured = errors.New("no API key configured, use 'screendoor config set-key' or --api-key")
	ErrEmptyAPIKey        = errors.New("API key must not be empty")
	ErrUnknownConfigKey   = errors.New("unknown configuration key")
	ErrConfigFileNotFound = errors.New("config file not found")
)

// Validation errors.
var (
	ErrInvalidFieldFlag = errors.New("invalid --field value, expected FIELD_ID=VALUE")
	ErrFieldsRequired   = errors.New("at least one --field or --fields-file is required")
	ErrInvalidOutput    = errors.New("invalid output format, expected table, json or yaml")
	ErrInvalidLogLevel  = errors.New("invalid log level")
	ErrInvalidLogFormat = errors.New("invalid log format")
)

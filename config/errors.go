package config

import "errors"

// Resolution errors. Loaders wrap these with the file path or field name;
// match with errors.Is.
var (
	// ErrNotFound is returned when a config file cannot be opened.
	ErrNotFound = errors.New("config file not found")
	// ErrParse is returned for malformed file content or ill-typed values.
	ErrParse = errors.New("config parse error")
	// ErrMissingField is returned when a required key is absent.
	ErrMissingField = errors.New("missing required field")
	// ErrEmptyField is returned when a required key is present but empty.
	ErrEmptyField = errors.New("required field must not be empty")
	// ErrUnsupportedOnPlatform is returned when file loading is unavailable
	// in the current execution environment.
	ErrUnsupportedOnPlatform = errors.New("config file loading is not supported on this platform")
	// ErrInvalid is returned by validation.
	ErrInvalid = errors.New("invalid config")
)

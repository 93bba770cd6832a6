package config

import "fmt"

// ConfigError reports invalid configuration: a bad flag combination, an
// unreadable file or a malformed value. Input names the offending flag,
// file path or field.
type ConfigError struct {
	Input string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Input, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func configErrorf(input, format string, args ...any) error {
	return &ConfigError{Input: input, Err: fmt.Errorf(format, args...)}
}

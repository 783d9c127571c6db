package schema

import "fmt"

// ConfigError reports an invalid translator configuration. Configuration
// errors are fatal at startup; they are never deferred to decode time.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + e.Message
}

func configErrorf(format string, args ...interface{}) *ConfigError {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}

// Package validation enforces destination limits on rich-content documents,
// repairing violations deterministically and reporting every repair.
package validation

import "fmt"

// ConfigError reports invalid limit configuration. It is the only error the
// repair pass can return: content violations are always repaired and
// reported as issues, never raised.
type ConfigError struct {
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

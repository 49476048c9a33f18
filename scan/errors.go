package scan

import (
	"fmt"
	"strings"
)

// ConfigError reports required credentials that were not supplied. It is
// raised before any network activity and is always fatal.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Missing, ", "))
}

// RunError wraps an unexpected failure during orchestration (e.g., writing a
// report file). It is fatal and produces a non-zero exit.
type RunError struct {
	Op  string
	Err error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("run failed during %s: %v", e.Op, e.Err)
}

// Unwrap exposes the underlying failure
func (e *RunError) Unwrap() error {
	return e.Err
}

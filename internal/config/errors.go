package config

import "fmt"

// ConfigError reports invalid or missing configuration. It is fatal and
// aborts the run before any network activity.
type ConfigError struct {
	Field       string
	Reason      string
	Remediation string
}

func (e *ConfigError) Error() string {
	if e.Remediation != "" {
		return fmt.Sprintf("config %s: %s (%s)", e.Field, e.Reason, e.Remediation)
	}
	return fmt.Sprintf("config %s: %s", e.Field, e.Reason)
}

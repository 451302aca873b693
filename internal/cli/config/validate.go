package config

import "fmt"

// Validate checks values koanf cannot type-check.
func (c *Config) Validate() error {
	switch c.Output {
	case "auto", "text", "markdown", "json":
	default:
		return fmt.Errorf("invalid output %q (expected auto, text, markdown or json)", c.Output)
	}
	if c.Check.Tolerance < 0 {
		return fmt.Errorf("check.tol must not be negative, got %d", c.Check.Tolerance)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	return nil
}

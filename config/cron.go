package config

import "slices"

// Cron configures the scheduler.
type Cron struct {
	// Disabled lists registered job names that must not be scheduled.
	Disabled []string `env:"CRON_DISABLED" envSeparator:","`
}

// JobEnabled reports whether the named job may be scheduled.
func (c Cron) JobEnabled(name string) bool {
	return !slices.Contains(c.Disabled, name)
}

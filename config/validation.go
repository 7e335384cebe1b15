package config

import (
	"fmt"
	"time"

	"github.com/grovetools/watchers/errors"
)

// Validate checks the semantic constraints the schema cannot express.
func (c *Config) Validate() error {
	switch c.Store.Mode {
	case StoreModeAuto, StoreModeDaemon, StoreModeLocal:
	default:
		return errors.ConfigInvalid(fmt.Sprintf("store.mode %q must be one of auto, daemon, local", c.Store.Mode)).
			WithDetail("field", "store.mode")
	}

	if _, err := parseDuration("store.timeout", c.Store.Timeout); err != nil {
		return err
	}
	if _, err := parseDuration("notifications.duration", c.Notifications.Duration); err != nil {
		return err
	}

	if c.Clock.Timezone != "" {
		if _, err := time.LoadLocation(c.Clock.Timezone); err != nil {
			return errors.Wrap(err, errors.ErrCodeConfigInvalid, fmt.Sprintf("unknown clock.timezone %q", c.Clock.Timezone)).
				WithDetail("field", "clock.timezone")
		}
	}

	return nil
}

func parseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeConfigInvalid, fmt.Sprintf("%s is not a duration", field)).
			WithDetail("field", field)
	}
	if d <= 0 {
		return 0, errors.ConfigInvalid(fmt.Sprintf("%s must be positive", field)).WithDetail("field", field)
	}
	return d, nil
}

// StoreTimeout returns the per-request timeout for store calls.
func (c *Config) StoreTimeout() time.Duration {
	d, err := parseDuration("store.timeout", c.Store.Timeout)
	if err != nil || d == 0 {
		return 10 * time.Second
	}
	return d
}

// NotificationDuration returns how long toasts stay on screen.
func (c *Config) NotificationDuration() time.Duration {
	d, err := parseDuration("notifications.duration", c.Notifications.Duration)
	if err != nil || d == 0 {
		return 4 * time.Second
	}
	return d
}

// ClockLocation returns the zone for the local clock.
func (c *Config) ClockLocation() *time.Location {
	if c.Clock.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Clock.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

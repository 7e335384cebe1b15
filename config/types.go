package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Store modes.
const (
	StoreModeAuto   = "auto"
	StoreModeDaemon = "daemon"
	StoreModeLocal  = "local"
)

// Config is the watchers.yml / watchers.toml document.
type Config struct {
	Version       string              `yaml:"version" toml:"version" jsonschema:"description=Configuration version (e.g. '1.0')"`
	Store         StoreConfig         `yaml:"store,omitempty" toml:"store,omitempty" jsonschema:"description=Where watchers and templates are kept"`
	Clock         ClockConfig         `yaml:"clock,omitempty" toml:"clock,omitempty" jsonschema:"description=Header clock settings"`
	Notifications NotificationsConfig `yaml:"notifications,omitempty" toml:"notifications,omitempty" jsonschema:"description=Toast notification settings"`
	TUI           TUIConfig           `yaml:"tui,omitempty" toml:"tui,omitempty" jsonschema:"description=Terminal UI settings"`

	// Extensions captures all other top-level keys (e.g. logging).
	Extensions map[string]interface{} `yaml:",inline" toml:"-" jsonschema:"-"`
}

// StoreConfig selects and locates the watcher store.
type StoreConfig struct {
	Mode     string `yaml:"mode,omitempty" toml:"mode,omitempty" jsonschema:"enum=auto,enum=daemon,enum=local,description=auto uses the daemon when it answers and falls back to the local database"`
	Socket   string `yaml:"socket,omitempty" toml:"socket,omitempty" jsonschema:"description=Daemon unix socket path"`
	Database string `yaml:"database,omitempty" toml:"database,omitempty" jsonschema:"description=sqlite database used in local mode and by the daemon"`
	Timeout  string `yaml:"timeout,omitempty" toml:"timeout,omitempty" jsonschema:"description=Per-request timeout as a Go duration (e.g. 10s)"`
}

// ClockConfig configures the local half of the header clock.
type ClockConfig struct {
	Timezone string `yaml:"timezone,omitempty" toml:"timezone,omitempty" jsonschema:"description=IANA zone for the local clock; empty means the system zone"`
}

// NotificationsConfig configures toast lifetime.
type NotificationsConfig struct {
	Duration string `yaml:"duration,omitempty" toml:"duration,omitempty" jsonschema:"description=How long a toast stays visible (Go duration)"`
}

// TUIConfig holds terminal UI preferences.
type TUIConfig struct {
	Theme string `yaml:"theme,omitempty" toml:"theme,omitempty" jsonschema:"enum=kanagawa,enum=terminal,description=Color theme"`
	Icons string `yaml:"icons,omitempty" toml:"icons,omitempty" jsonschema:"enum=nerd,enum=ascii,description=Icon set; ascii avoids Nerd Font glyphs"`
	// Keys overrides list-screen bindings by action name, e.g. toggle: [t, space].
	Keys KeybindingConfig `yaml:"keys,omitempty" toml:"keys,omitempty" jsonschema:"description=Keybinding overrides keyed by snake_case action name"`
}

// KeybindingConfig maps an action name to the keys that trigger it.
type KeybindingConfig map[string][]string

// SetDefaults sets default values for configuration
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = "1.0"
	}
	if c.Store.Mode == "" {
		c.Store.Mode = StoreModeAuto
	}
	if c.Store.Timeout == "" {
		c.Store.Timeout = "10s"
	}
	if c.Notifications.Duration == "" {
		c.Notifications.Duration = "4s"
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = "kanagawa"
	}
	if c.TUI.Icons == "" {
		c.TUI.Icons = "nerd"
	}
}

// UnmarshalExtension decodes a specific extension's configuration from the
// loaded watchers.yml into the provided target struct. The target must be a pointer.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		// A missing key leaves the target zero-valued.
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  target,
		TagName: "yaml",
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}

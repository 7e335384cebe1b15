package config

// mergeConfigs overlays override on base. Non-empty scalar fields in override
// win; extension keys are merged one level deep.
func mergeConfigs(base, override *Config) *Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := *base

	if override.Version != "" {
		result.Version = override.Version
	}

	result.Store = mergeStore(base.Store, override.Store)

	if override.Clock.Timezone != "" {
		result.Clock.Timezone = override.Clock.Timezone
	}
	if override.Notifications.Duration != "" {
		result.Notifications.Duration = override.Notifications.Duration
	}
	if override.TUI.Theme != "" {
		result.TUI.Theme = override.TUI.Theme
	}
	if override.TUI.Icons != "" {
		result.TUI.Icons = override.TUI.Icons
	}
	if len(override.TUI.Keys) > 0 {
		keys := make(KeybindingConfig, len(result.TUI.Keys)+len(override.TUI.Keys))
		for action, k := range result.TUI.Keys {
			keys[action] = k
		}
		for action, k := range override.TUI.Keys {
			keys[action] = k
		}
		result.TUI.Keys = keys
	}

	if len(base.Extensions) > 0 || len(override.Extensions) > 0 {
		result.Extensions = make(map[string]interface{}, len(base.Extensions)+len(override.Extensions))
		for k, v := range base.Extensions {
			result.Extensions[k] = v
		}
		for k, v := range override.Extensions {
			result.Extensions[k] = v
		}
	}

	return &result
}

func mergeStore(base, override StoreConfig) StoreConfig {
	if override.Mode != "" {
		base.Mode = override.Mode
	}
	if override.Socket != "" {
		base.Socket = override.Socket
	}
	if override.Database != "" {
		base.Database = override.Database
	}
	if override.Timeout != "" {
		base.Timeout = override.Timeout
	}
	return base
}

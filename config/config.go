package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/grovetools/watchers/errors"
	"github.com/grovetools/watchers/pkg/paths"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// configNames are searched in order in every directory.
var configNames = []string{
	"watchers.yml",
	"watchers.yaml",
	".watchers.yml",
	".watchers.yaml",
	"watchers.toml",
}

// Load reads and parses a single configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	if isTOML(path) {
		return LoadFromTOML(data)
	}
	return LoadFromBytes(data)
}

// LoadDefault loads configuration starting from the working directory.
// When no file exists anywhere the defaults are returned.
func LoadDefault() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to get current directory")
	}

	cfg, err := LoadFrom(cwd)
	if errors.GetCode(err) == errors.ErrCodeConfigNotFound {
		return Defaults(), nil
	}
	return cfg, err
}

// Defaults returns a configuration with every default applied.
func Defaults() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// LoadFrom loads configuration with hierarchical merging:
//  1. Global config (<config dir>/watchers.yml) - base layer
//  2. Project config found upward from startDir - overrides global
func LoadFrom(startDir string) (*Config, error) {
	return LoadFromWithLogger(startDir, logrus.New())
}

// LoadFromWithLogger is LoadFrom with debug output sent to logger.
func LoadFromWithLogger(startDir string, logger *logrus.Logger) (*Config, error) {
	var finalConfig *Config

	globalPath := GlobalConfigPath()
	if globalPath != "" {
		if _, err := os.Stat(globalPath); err == nil {
			logger.WithField("path", globalPath).Debug("Loading global configuration")
			globalConfig, err := readRaw(globalPath)
			if err != nil {
				logger.WithError(err).Warn("Failed to parse global configuration, continuing without it")
			} else {
				finalConfig = globalConfig
			}
		}
	}

	projectPath, err := findProjectConfig(startDir)
	if err == nil && projectPath != globalPath {
		logger.WithField("path", projectPath).Debug("Loading project configuration")
		projectConfig, err := readRaw(projectPath)
		if err != nil {
			return nil, err
		}
		finalConfig = mergeConfigs(finalConfig, projectConfig)
	}

	if finalConfig == nil {
		return nil, errors.ConfigNotFound(startDir).WithDetail("searchPath", startDir)
	}

	finalConfig.SetDefaults()
	if err := finalConfig.Validate(); err != nil {
		return nil, err
	}

	if logger.IsLevelEnabled(logrus.DebugLevel) {
		if configData, err := yaml.Marshal(finalConfig); err == nil {
			logger.Debugf("Merged configuration:\n%s", string(configData))
		}
	}

	return finalConfig, nil
}

// LoadFromBytes parses a YAML document, validates it against the schema and
// applies defaults.
func LoadFromBytes(data []byte) (*Config, error) {
	expanded := expandEnvVars(string(data))

	var raw map[string]interface{}
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML configuration")
	}

	var config Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML configuration")
	}

	return finish(&config, raw)
}

// LoadFromTOML is LoadFromBytes for watchers.toml.
func LoadFromTOML(data []byte) (*Config, error) {
	config, raw, err := decodeTOML([]byte(expandEnvVars(string(data))))
	if err != nil {
		return nil, err
	}
	return finish(config, raw)
}

func finish(config *Config, raw map[string]interface{}) (*Config, error) {
	validator, err := NewSchemaValidator()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to create validator")
	}
	if raw == nil {
		raw = map[string]interface{}{}
	}
	if err := validator.Validate(raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "schema validation failed")
	}

	config.SetDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func decodeTOML(data []byte) (*Config, map[string]interface{}, error) {
	var raw map[string]interface{}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML configuration")
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML configuration")
	}

	// go-toml has no inline catch-all, so unknown tables become extensions here.
	for key, value := range raw {
		switch key {
		case "version", "store", "clock", "notifications", "tui":
			continue
		}
		if config.Extensions == nil {
			config.Extensions = make(map[string]interface{})
		}
		config.Extensions[key] = value
	}

	return &config, raw, nil
}

// readRaw parses a file without defaults or validation so layers can be merged.
func readRaw(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	expanded := []byte(expandEnvVars(string(data)))
	if isTOML(path) {
		cfg, _, err := decodeTOML(expanded)
		if err != nil {
			return nil, err
		}
		return cfg, nil
	}

	var cfg Config
	if err := yaml.Unmarshal(expanded, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse config file").
			WithDetail("path", path)
	}
	return &cfg, nil
}

// FindConfigFile searches for a watchers configuration file from startDir up
// to the filesystem root, then falls back to the global config.
func FindConfigFile(startDir string) (string, error) {
	if path, err := findProjectConfig(startDir); err == nil {
		return path, nil
	}

	if globalPath := GlobalConfigPath(); globalPath != "" {
		if info, err := os.Stat(globalPath); err == nil && !info.IsDir() {
			return globalPath, nil
		}
	}

	return "", errors.ConfigNotFound(startDir).WithDetail("searchPath", startDir)
}

func findProjectConfig(startDir string) (string, error) {
	dir := startDir
	for {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", errors.ConfigNotFound(startDir)
}

// GlobalConfigPath returns the first existing global config file, or the
// default YAML location when none exists yet.
func GlobalConfigPath() string {
	dir := paths.ConfigDir()
	if dir == "" {
		return ""
	}
	for _, name := range []string{"watchers.yml", "watchers.yaml", "watchers.toml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return filepath.Join(dir, "watchers.yml")
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// expandEnvVars replaces ${VAR} with environment variable values
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		varName := envVarRegex.FindStringSubmatch(match)[1]

		// ${VAR:-default}
		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]
		defaultValue := ""
		if len(parts) > 1 {
			defaultValue = parts[1]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}

		return defaultValue
	})
}

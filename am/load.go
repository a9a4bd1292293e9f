package am

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

var globalConfig *Config
var viperInstance *viper.Viper

// Load reads the chimera configuration using Viper
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v := initViper()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	globalConfig = &config
	return globalConfig, nil
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() *viper.Viper {
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	// Set defaults but don't bind environment variables for this specific load
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config from %s: %w", configPath, err)
	}

	return &config, nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	globalConfig = nil
	viperInstance = nil
}

// initViper initializes Viper with configuration sources and defaults
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()

	v.SetEnvPrefix("CHIMERA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	BindSensitiveEnvVars(v)
	SetDefaults(v)

	// Manually merge configs in precedence order: system -> user -> project -> env vars
	mergeConfigFiles(v)

	viperInstance = v
	return v
}

// findProjectConfig searches for chimera.toml by walking up the directory
// tree. Returns the path to the first config file found, or empty string if
// none found.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(dir, "chimera.toml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// mergeConfigFiles manually merges configuration files in the correct
// precedence order (lowest to highest): system < user < project < env vars
func mergeConfigFiles(v *viper.Viper) {
	homeDir, _ := os.UserHomeDir()

	chimeraDir := filepath.Join(homeDir, ".chimera")
	os.MkdirAll(chimeraDir, DefaultDirPermissions)

	configPaths := []string{
		"/etc/chimera/chimera.toml",
		filepath.Join(chimeraDir, "chimera.toml"),
		filepath.Join(chimeraDir, "overrides.toml"), // Runtime overrides written by persist.go
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		configPaths = append(configPaths, projectConfig)
	}

	for _, configPath := range configPaths {
		if _, err := os.Stat(configPath); err == nil {
			tempViper := viper.New()
			tempViper.SetConfigFile(configPath)
			tempViper.SetConfigType("toml")

			if err := tempViper.ReadInConfig(); err == nil {
				for key, value := range tempViper.AllSettings() {
					v.Set(key, value)
				}
			}
		}
	}
}

// Get returns a configuration value using dot notation
func Get(key string) interface{} {
	return initViper().Get(key)
}

// GetString returns a configuration value as string using dot notation
func GetString(key string) string {
	return initViper().GetString(key)
}

// GetInt returns a configuration value as int using dot notation
func GetInt(key string) int {
	return initViper().GetInt(key)
}

// GetDatabasePath returns the configured database path
func GetDatabasePath() (string, error) {
	// DB_PATH overrides everything (dev mode)
	if dbPath := os.Getenv("DB_PATH"); dbPath != "" {
		return dbPath, nil
	}

	config, err := Load()
	if err != nil {
		return "", err
	}
	return config.GetDatabasePath(), nil
}

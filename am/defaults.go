package am

import (
	"fmt"

	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.path", "chimera.db")

	// Kernel defaults
	v.SetDefault("kernel.name", "chimera")
	v.SetDefault("kernel.max_tree_order", 6)

	// Agent defaults
	v.SetDefault("agent.name", "ouroboros")
	v.SetDefault("agent.evolution_interval", 100)
	v.SetDefault("agent.episodic_memory_cap", 1000)

	// Server defaults
	v.SetDefault("server.port", DefaultServerPort)
	v.SetDefault("server.allowed_origins", []string{
		"http://localhost",
		"https://localhost",
		"http://127.0.0.1",
		"https://127.0.0.1",
	})

	// Verify defaults
	v.SetDefault("verify.seed", 42)
	v.SetDefault("verify.vector_samples", 1000)
}

// BindSensitiveEnvVars explicitly binds configuration that is commonly
// overridden per deployment to environment variables
func BindSensitiveEnvVars(v *viper.Viper) {
	v.BindEnv("database.path", "CHIMERA_DATABASE_PATH")
	v.BindEnv("server.port", "CHIMERA_SERVER_PORT")
}

// GetServerPort returns the configured server port, or DefaultServerPort if
// not configured
func GetServerPort() int {
	cfg, err := Load()
	if err != nil || cfg.Server.Port == 0 {
		return DefaultServerPort
	}
	return cfg.Server.Port
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Database: %s, Kernel: {Name: %s, MaxTreeOrder: %d}, Agent: %s}",
		c.Database.Path, c.Kernel.Name, c.Kernel.MaxTreeOrder, c.Agent.Name)
}

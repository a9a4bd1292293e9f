// Package am is the configuration layer: TOML files merged with environment
// variables, defaults, hot reload, and persistence of runtime overrides.
package am

// Config represents the core chimera configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Kernel   KernelConfig   `mapstructure:"kernel"`
	Agent    AgentConfig    `mapstructure:"agent"`
	Server   ServerConfig   `mapstructure:"server"`
	Verify   VerifyConfig   `mapstructure:"verify"`
}

// DatabaseConfig configures the SQLite database
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// KernelConfig configures the cognitive kernel
type KernelConfig struct {
	Name         string `mapstructure:"name"`
	MaxTreeOrder int    `mapstructure:"max_tree_order"` // Highest rooted-tree order used for derived parameters
}

// AgentConfig configures the resident agent
type AgentConfig struct {
	Name              string `mapstructure:"name"`
	EvolutionInterval int    `mapstructure:"evolution_interval"` // Think steps between self-evolution attempts
	EpisodicMemoryCap int    `mapstructure:"episodic_memory_cap"`
}

// ServerConfig configures the chimera web server
type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// VerifyConfig configures the roundtrip verification harness
type VerifyConfig struct {
	Seed          int64 `mapstructure:"seed"`
	VectorSamples int   `mapstructure:"vector_samples"` // Random samples per vector roundtrip property
}

// Server port constants
const (
	DefaultServerPort = 877
)

// File system constants
const (
	DefaultDirPermissions  = 0755 // Standard directory permissions (rwxr-xr-x)
	DefaultFilePermissions = 0644 // Standard file permissions (rw-r--r--)
)

// GetDatabasePath returns the configured database path
func (c *Config) GetDatabasePath() string {
	if c.Database.Path == "" {
		return "chimera.db"
	}
	return c.Database.Path
}

// GetServerAllowedOrigins returns the allowed CORS origins
func (c *Config) GetServerAllowedOrigins() []string {
	if len(c.Server.AllowedOrigins) == 0 {
		return []string{
			"http://localhost",
			"https://localhost",
			"http://127.0.0.1",
			"https://127.0.0.1",
		}
	}
	return c.Server.AllowedOrigins
}

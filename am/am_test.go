package am

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chimera.toml")
	content := `
[kernel]
name = "test-kernel"
max_tree_order = 8

[agent]
name = "test-agent"
evolution_interval = 50

[server]
port = 9000
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "test-kernel", cfg.Kernel.Name)
	assert.Equal(t, 8, cfg.Kernel.MaxTreeOrder)
	assert.Equal(t, "test-agent", cfg.Agent.Name)
	assert.Equal(t, 50, cfg.Agent.EvolutionInterval)
	assert.Equal(t, 9000, cfg.Server.Port)

	// Unset keys fall back to defaults
	assert.Equal(t, "chimera.db", cfg.Database.Path)
	assert.Equal(t, 1000, cfg.Agent.EpisodicMemoryCap)
	assert.Equal(t, int64(42), cfg.Verify.Seed)
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chimera.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "chimera", cfg.Kernel.Name)
	assert.Equal(t, 6, cfg.Kernel.MaxTreeOrder)
	assert.Equal(t, "ouroboros", cfg.Agent.Name)
	assert.Equal(t, 100, cfg.Agent.EvolutionInterval)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, 1000, cfg.Verify.VectorSamples)
	assert.Contains(t, cfg.Server.AllowedOrigins, "http://localhost:877")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Kernel: KernelConfig{Name: "chimera", MaxTreeOrder: 6},
			Agent:  AgentConfig{Name: "ouroboros", EvolutionInterval: 100, EpisodicMemoryCap: 1000},
			Server: ServerConfig{Port: 877},
			Verify: VerifyConfig{Seed: 42, VectorSamples: 1000},
		}
	}

	assert.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"tree order too small", func(c *Config) { c.Kernel.MaxTreeOrder = 0 }},
		{"tree order too large", func(c *Config) { c.Kernel.MaxTreeOrder = 21 }},
		{"evolution interval zero", func(c *Config) { c.Agent.EvolutionInterval = 0 }},
		{"memory cap too small", func(c *Config) { c.Agent.EpisodicMemoryCap = 1 }},
		{"negative port", func(c *Config) { c.Server.Port = -1 }},
		{"port too large", func(c *Config) { c.Server.Port = 70000 }},
		{"vector samples zero", func(c *Config) { c.Verify.VectorSamples = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestGetDatabasePathFallback(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, "chimera.db", cfg.GetDatabasePath())

	cfg.Database.Path = "/tmp/other.db"
	assert.Equal(t, "/tmp/other.db", cfg.GetDatabasePath())
}

func TestCreateBackupRotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overrides.toml")

	// No file yet: backup is a no-op
	require.NoError(t, createBackup(path))
	_, err := os.Stat(path + ".back1")
	assert.True(t, os.IsNotExist(err))

	for i, content := range []string{"v1", "v2", "v3", "v4"} {
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		require.NoError(t, createBackup(path), "backup %d", i)
	}

	// After four backups the oldest surviving copy is v2
	b1, err := os.ReadFile(path + ".back1")
	require.NoError(t, err)
	assert.Equal(t, "v4", string(b1))

	b3, err := os.ReadFile(path + ".back3")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(b3))
}

func TestIsBackupFile(t *testing.T) {
	assert.True(t, isBackupFile("overrides.toml.back1"))
	assert.True(t, isBackupFile("overrides.toml.back3"))
	assert.False(t, isBackupFile("overrides.toml"))
	assert.False(t, isBackupFile("chimera.toml"))
}

func TestResetClearsGlobals(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chimera.toml")
	require.NoError(t, os.WriteFile(path, []byte("[kernel]\nname = \"x\"\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x", cfg.Kernel.Name)

	Reset()
	assert.Nil(t, globalConfig)
}

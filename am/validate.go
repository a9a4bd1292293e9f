package am

import (
	"github.com/teranos/chimera/errors"
)

// Validate checks the configuration for values that would break the system
// at runtime. It returns the first problem found.
func (c *Config) Validate() error {
	if c.Kernel.MaxTreeOrder < 1 {
		return errors.Newf("kernel.max_tree_order must be >= 1, got %d", c.Kernel.MaxTreeOrder)
	}
	if c.Kernel.MaxTreeOrder > 20 {
		// a(20) = 293547 trees; beyond that enumeration cost explodes
		return errors.Newf("kernel.max_tree_order must be <= 20, got %d", c.Kernel.MaxTreeOrder)
	}
	if c.Agent.EvolutionInterval < 1 {
		return errors.Newf("agent.evolution_interval must be >= 1, got %d", c.Agent.EvolutionInterval)
	}
	if c.Agent.EpisodicMemoryCap < 2 {
		return errors.Newf("agent.episodic_memory_cap must be >= 2, got %d", c.Agent.EpisodicMemoryCap)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.Newf("server.port must be in [0, 65535], got %d", c.Server.Port)
	}
	if c.Verify.VectorSamples < 1 {
		return errors.Newf("verify.vector_samples must be >= 1, got %d", c.Verify.VectorSamples)
	}
	return nil
}

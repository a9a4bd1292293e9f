package am

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/teranos/chimera/errors"
)

// createBackup creates rotating backups (.back1, .back2, .back3) before
// modifying a config file
func createBackup(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil // No file to backup
	}

	// Rotate backups: .back3 -> delete, .back2 -> .back3, .back1 -> .back2, current -> .back1
	back3 := configPath + ".back3"
	back2 := configPath + ".back2"
	back1 := configPath + ".back1"

	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		fmt.Printf("failed to delete old backup %s: %v\n", back3, err)
	}

	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}

	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}

	if err := os.WriteFile(back1, content, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}

	return nil
}

// GetOverridesPath returns the path to the runtime-managed overrides file in
// ~/.chimera/overrides.toml
func GetOverridesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".chimera", "overrides.toml")
}

// loadOrInitializeOverrides loads the overrides file, or creates an empty
// one if it doesn't exist
func loadOrInitializeOverrides() (map[string]interface{}, string, error) {
	configPath := GetOverridesPath()
	if configPath == "" {
		return nil, "", errors.New("could not determine home directory")
	}

	chimeraDir := filepath.Dir(configPath)
	if err := os.MkdirAll(chimeraDir, 0750); err != nil {
		return nil, "", errors.Wrap(err, "failed to create .chimera directory")
	}

	var config map[string]interface{}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := toml.Unmarshal(data, &config); err != nil {
			return nil, "", errors.Wrap(err, "failed to parse overrides")
		}
	} else {
		config = make(map[string]interface{})
	}

	return config, configPath, nil
}

// saveOverrides writes the overrides file with backup
func saveOverrides(config map[string]interface{}, configPath string) error {
	if err := createBackup(configPath); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	// Mark this as our own write to prevent reload loops
	globalWatcherMu.Lock()
	if globalWatcher != nil {
		globalWatcher.MarkOwnWrite()
	}
	globalWatcherMu.Unlock()

	if err := os.WriteFile(configPath, data, DefaultFilePermissions); err != nil {
		return errors.Wrap(err, "failed to write overrides")
	}

	return nil
}

// updateSection sets one key in one section of the overrides file
func updateSection(section, key string, value interface{}) error {
	config, configPath, err := loadOrInitializeOverrides()
	if err != nil {
		return errors.Wrap(err, "failed to load overrides")
	}

	var sec map[string]interface{}
	if s, ok := config[section].(map[string]interface{}); ok {
		sec = s
	} else {
		sec = make(map[string]interface{})
	}

	sec[key] = value
	config[section] = sec

	return saveOverrides(config, configPath)
}

// UpdateAgentEvolutionInterval persists the agent's self-evolution interval
func UpdateAgentEvolutionInterval(steps int) error {
	return updateSection("agent", "evolution_interval", steps)
}

// UpdateKernelMaxTreeOrder persists the kernel's maximum tree order
func UpdateKernelMaxTreeOrder(order int) error {
	return updateSection("kernel", "max_tree_order", order)
}

// UpdateServerPort persists the server port
func UpdateServerPort(port int) error {
	return updateSection("server", "port", port)
}

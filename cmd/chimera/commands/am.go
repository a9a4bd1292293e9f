package commands

import (
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/teranos/chimera/am"
	"github.com/teranos/chimera/sym"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: sym.AM + " Manage Chimera core configuration",
	Long: sym.AM + ` am — Manage Chimera core configuration ("I am")

Display and manage Chimera core configuration settings.

Configuration sources (in order of precedence):
1. Environment variables (CHIMERA_* prefix)
2. Project config (./chimera.toml, searches up directories)
3. Runtime overrides (~/.chimera/overrides.toml)
4. User config (~/.chimera/chimera.toml)
5. System config (/etc/chimera/chimera.toml)
6. Default values

Examples:
  chimera am show                 # Show current configuration
  chimera am show --format json   # Show configuration in JSON format
  chimera am get database.path    # Get specific config value
  chimera am validate             # Validate current configuration`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the current Chimera core configuration from all sources",
	RunE:  runAmShow,
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., database.path, kernel.max_tree_order)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmGet,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	Long:  "Validate that the current Chimera core configuration is valid",
	RunE:  runAmValidate,
}

var configFormat string

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amValidateCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	switch configFormat {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config to JSON: %w", err)
		}
		fmt.Println(string(data))

	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal config to TOML: %w", err)
		}
		fmt.Printf("# Chimera core configuration\n%s", string(data))

	default:
		return fmt.Errorf("unsupported format: %s (supported: toml, json)", configFormat)
	}

	return nil
}

func runAmGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	v := am.GetViper()
	if !v.IsSet(key) {
		return fmt.Errorf("configuration key %q not found", key)
	}

	value := am.Get(key)
	fmt.Println(value)
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	fmt.Println("✓ Configuration is valid")
	return nil
}

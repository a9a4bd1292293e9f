package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/chimera/cmd/chimera/commands"
	"github.com/teranos/chimera/logger"
)

var rootCmd = &cobra.Command{
	Use:   "chimera",
	Short: "Chimera - Hypergraph cognitive architecture",
	Long: `Chimera - A cognitive architecture grown from the rooted-tree sequence.

Chimera provides an AtomSpace hypergraph store, a cognitive kernel with
attention-driven scheduling, probabilistic inference, and a self-evolving
agent whose dimensions follow the number of rooted trees per order.

Available commands:
  boot   - Boot the cognitive kernel and run demo processes
  agent  - Run the Ouroboros agent loop
  atoms  - Inspect atoms in a stored space
  infer  - Apply a probabilistic inference rule
  params - Derive architecture parameters from the tree sequence
  verify - Run codec roundtrip property checks
  db     - Manage Chimera database operations
  server - Start WebSocket graph visualization server
  am     - Manage Chimera core configuration ("I am")

Examples:
  chimera boot                     # Boot the kernel and show status
  chimera agent run --steps 12     # One full cognitive cycle
  chimera params --order 4         # Parameters derived from order 4
  chimera verify                   # Prove the tokenizer roundtrips
  chimera am show                  # Show current configuration
  chimera server                   # Start graph visualization server`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize global logger before any command runs
		// Skip for commands that emit machine-readable output directly
		if cmd.Name() != "show" && cmd.Name() != "version" {
			if err := logger.Initialize(false); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
		}
		return nil
	},
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	rootCmd.PersistentFlags().Bool("json", false, "Output machine-readable JSON")

	// Add commands
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.BootCmd)
	rootCmd.AddCommand(commands.AgentCmd)
	rootCmd.AddCommand(commands.AtomsCmd)
	rootCmd.AddCommand(commands.InferCmd)
	rootCmd.AddCommand(commands.ParamsCmd)
	rootCmd.AddCommand(commands.VerifyCmd)
	rootCmd.AddCommand(commands.DbCmd)
	rootCmd.AddCommand(commands.ServerCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/chimera/agent"
	"github.com/teranos/chimera/am"
	"github.com/teranos/chimera/errors"
	"github.com/teranos/chimera/kernel"
	"github.com/teranos/chimera/logger"
	"github.com/teranos/chimera/server"
	"github.com/teranos/chimera/sym"
	"github.com/teranos/chimera/version"
)

// ServerCmd starts the Chimera web server
var ServerCmd = &cobra.Command{
	Use:     "server",
	Aliases: []string{"serve"},
	Short:   sym.Server + " Start the Chimera server for graph visualization",
	Long: sym.Server + ` server — Start the websocket graph server

Boots a kernel, attaches an agent, and serves the live hypergraph over
websockets: status broadcasts, graph refreshes on atomspace mutation, and
think commands driving the agent.

Examples:
  chimera server                  # Start on the configured port
  chimera server --port 8080      # Override the port
  chimera server --no-agent       # Kernel only, no resident agent`,
	RunE: runServer,
}

var (
	serverPort    int
	serverNoAgent bool
)

func init() {
	ServerCmd.Flags().IntVar(&serverPort, "port", 0, "Port to listen on (0 uses the configured port)")
	ServerCmd.Flags().BoolVar(&serverNoAgent, "no-agent", false, "Run without a resident agent")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	port := serverPort
	if port == 0 {
		port = am.GetServerPort()
	}

	k := kernel.New(cfg.Kernel.Name, cfg.Kernel.MaxTreeOrder)
	k.Boot()
	defer k.Shutdown()

	var a *agent.Agent
	if !serverNoAgent {
		a = agent.New(cfg.Agent.Name)
	}

	srv := server.New(server.Config{
		Port:           port,
		AllowedOrigins: cfg.GetServerAllowedOrigins(),
	}, k, a, logger.Logger)

	printStartupBanner(port, cfg.Kernel.Name)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return errors.Wrap(err, "server failed to start")
	case <-sigChan:
		pterm.Info.Println("\nShutting down gracefully (press Ctrl+C again to force)...")

		shutdownDone := make(chan error, 1)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			shutdownDone <- srv.Shutdown(ctx)
		}()

		select {
		case err := <-shutdownDone:
			if err != nil {
				return fmt.Errorf("shutdown error: %w", err)
			}
			pterm.Success.Println("Server stopped cleanly")
			return nil
		case <-sigChan:
			pterm.Warning.Println("\nForce shutdown - exiting immediately")
			os.Exit(1)
			return nil // unreachable
		}
	}
}

// printStartupBanner prints the user-friendly startup message
func printStartupBanner(port int, kernelName string) {
	info := version.Get()
	pterm.DefaultHeader.Printf("%s Chimera %s", sym.Server, info.Version)
	pterm.Info.Printf("kernel:    %s\n", kernelName)
	pterm.Info.Printf("listening: http://localhost:%d\n", port)
	pterm.Info.Printf("websocket: ws://localhost:%d/ws\n", port)
}

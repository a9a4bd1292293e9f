package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/chimera/am"
	"github.com/teranos/chimera/atomspace"
	"github.com/teranos/chimera/display"
	"github.com/teranos/chimera/errors"
	"github.com/teranos/chimera/kernel"
	"github.com/teranos/chimera/sym"
)

// BootCmd boots the cognitive kernel, runs demo processes, and reports status
var BootCmd = &cobra.Command{
	Use:   "boot",
	Short: sym.Kernel + " Boot the cognitive kernel",
	Long: sym.Kernel + ` boot — Boot the Chimera cognitive kernel

Boots the kernel, forks a few demonstration cognitive processes through the
attention scheduler, exercises the inference and evolution syscalls, and
prints the resulting kernel status.

Examples:
  chimera boot                    # Boot with configured parameters
  chimera boot --demo=false       # Boot without demo processes
  chimera boot --json             # Machine-readable status`,
	RunE: runBoot,
}

var bootDemo bool

func init() {
	BootCmd.Flags().BoolVar(&bootDemo, "demo", true, "Fork demonstration processes after boot")
}

func runBoot(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	k := kernel.New(cfg.Kernel.Name, cfg.Kernel.MaxTreeOrder)
	k.Boot()
	defer k.Shutdown()

	if bootDemo {
		if err := runDemoProcesses(cmd.Context(), k); err != nil {
			return errors.Wrap(err, "demo processes failed")
		}
	}

	status := k.Status()

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(status)
	}

	pterm.DefaultSection.Printf("%s Kernel %s", sym.Kernel, status.Name)
	rows := pterm.TableData{
		{"Field", "Value"},
		{"Version", status.Version},
		{"Running", fmt.Sprintf("%t", status.Running)},
		{"Uptime", fmt.Sprintf("%.2fs", status.Uptime)},
		{"AtomSpace size", fmt.Sprintf("%d", status.AtomSpaceSize)},
		{"Processes", fmt.Sprintf("%d", status.ProcessCount)},
		{"Processes created", fmt.Sprintf("%d", status.Stats.ProcessesCreated)},
		{"Inferences", fmt.Sprintf("%d", status.Stats.InferencesPerformed)},
		{"Attention cycles", fmt.Sprintf("%d", status.Stats.AttentionCycles)},
		{"Generations", fmt.Sprintf("%d", status.Stats.OntogeneticGenerations)},
	}
	if status.HostMemory != nil {
		rows = append(rows, []string{"Host memory", fmt.Sprintf("%.1f%% used", status.HostMemory.UsedPercent)})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

// runDemoProcesses forks a few cognitive processes and drives the syscall
// surface so a fresh boot has something to show.
func runDemoProcesses(ctx context.Context, k *kernel.Kernel) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	perceive := k.Fork("perceive", func(ctx context.Context) (any, error) {
		return k.Syscall(ctx, kernel.SysQuery, kernel.SyscallArgs{AtomType: atomspace.TypeConceptNode})
	})
	attend := k.Fork("attend", func(ctx context.Context) (any, error) {
		concepts := k.Space.AtomsByType(atomspace.TypeConceptNode)
		if len(concepts) == 0 {
			return nil, nil
		}
		return k.Syscall(ctx, kernel.SysAttend, kernel.SyscallArgs{AtomID: concepts[0].ID, Amount: 5})
	})
	evolve := k.Fork("evolve", func(ctx context.Context) (any, error) {
		return k.Syscall(ctx, kernel.SysEvolve, kernel.SyscallArgs{})
	})

	if _, err := k.Exec(ctx, perceive); err != nil {
		return err
	}
	if _, err := k.Exec(ctx, attend); err != nil {
		return err
	}
	if _, err := k.Exec(ctx, evolve); err != nil {
		return err
	}
	return nil
}

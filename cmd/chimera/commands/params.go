package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/chimera/atomspace"
	"github.com/teranos/chimera/display"
	"github.com/teranos/chimera/errors"
	"github.com/teranos/chimera/onto"
	"github.com/teranos/chimera/sym"
)

// ParamsCmd represents the params (parameter derivation) command
var ParamsCmd = &cobra.Command{
	Use:   "params",
	Short: sym.Onto + " Derive architecture parameters from the tree sequence",
	Long: sym.Onto + ` params — Derive architecture parameters

Derives the seven system parameters from the rooted-tree counting sequence
(1, 1, 2, 4, 9, 20, 48, ...) at the given base order.

Examples:
  chimera params                 # Parameters at the default base order
  chimera params --order 5       # Parameters at base order 5
  chimera params --json          # Machine-readable output`,
	RunE: runParams,
}

var paramsOrder int

func init() {
	ParamsCmd.Flags().IntVar(&paramsOrder, "order", 4, "Base rooted-tree order")
}

func runParams(cmd *cobra.Command, args []string) error {
	if paramsOrder < 1 || paramsOrder > 20 {
		return errors.Newf("order %d out of range [1, 20]", paramsOrder)
	}

	space := atomspace.NewAtomSpace()
	bridge := onto.NewBridge(space, paramsOrder+3)
	params := bridge.DeriveParameters(paramsOrder)

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(map[string]any{
			"base_order": paramsOrder,
			"parameters": params,
		})
	}

	pterm.DefaultSection.Printf("%s Parameters at base order %d", sym.Onto, paramsOrder)
	rows := pterm.TableData{
		{"Parameter", "Value"},
		{"Reservoir size", fmt.Sprintf("%d", params.ReservoirSize)},
		{"Membranes", fmt.Sprintf("%d", params.NumMembranes)},
		{"Growth rate", fmt.Sprintf("%.6f", params.GrowthRate)},
		{"Mutation rate", fmt.Sprintf("%.6f", params.MutationRate)},
		{"Max tree order", fmt.Sprintf("%d", params.MaxTreeOrder)},
		{"Attention decay", fmt.Sprintf("%.6f", params.AttentionDecay)},
		{"Fitness threshold", fmt.Sprintf("%.6f", params.FitnessThreshold)},
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		return err
	}

	// The sequence itself, for context
	gen := onto.NewSequenceGenerator(paramsOrder + 3)
	seq := pterm.TableData{{"Order", "Trees", "Cumulative"}}
	for n := 1; n <= paramsOrder+3; n++ {
		seq = append(seq, []string{
			fmt.Sprintf("%d", n),
			fmt.Sprintf("%d", gen.At(n)),
			fmt.Sprintf("%d", gen.Cumulative(n)),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(seq).Render()
}

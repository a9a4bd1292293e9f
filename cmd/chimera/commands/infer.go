package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/chimera/atomspace/storage"
	"github.com/teranos/chimera/display"
	"github.com/teranos/chimera/errors"
	"github.com/teranos/chimera/pln"
	"github.com/teranos/chimera/sym"
)

// InferCmd represents the infer (probabilistic inference) command
var InferCmd = &cobra.Command{
	Use:   "infer <rule> <premise-id> [premise-id...]",
	Short: sym.Infer + " Apply a probabilistic inference rule",
	Long: sym.Infer + ` infer — Apply a probabilistic inference rule

Applies the named rule to premise atoms from a stored space and persists the
conclusion back. Rules: deduction, induction, abduction, modus_ponens.

Deduction, induction, and abduction take two InheritanceLink premises;
modus ponens takes an ImplicationLink and its antecedent.

Examples:
  chimera infer deduction <link-id> <link-id>
  chimera infer modus_ponens <implication-id> <antecedent-id>
  chimera infer deduction <id> <id> --space mind --json`,
	Args: cobra.MinimumNArgs(2),
	RunE: runInfer,
}

var inferSpace string

func init() {
	InferCmd.Flags().StringVar(&inferSpace, "space", "default", "Stored space name")
}

func runInfer(cmd *cobra.Command, args []string) error {
	rule, premises := args[0], args[1:]

	database, err := openDatabase("")
	if err != nil {
		return err
	}
	defer database.Close()

	store := storage.NewStore(database)
	space, err := store.LoadSpace(cmd.Context(), inferSpace)
	if err != nil {
		return err
	}
	if space.Size() == 0 {
		return errors.Newf("space %q is empty (run 'chimera atoms seed' first)", inferSpace)
	}

	engine := pln.NewEngine(space)
	conclusionID, err := engine.Infer(rule, premises)
	if err != nil {
		return errors.Wrapf(err, "inference %q failed", rule)
	}

	conclusion, err := space.Get(conclusionID)
	if err != nil {
		return err
	}

	// Persist the enlarged space so conclusions accumulate across runs
	if err := store.SaveSpace(cmd.Context(), inferSpace, space); err != nil {
		return errors.Wrapf(err, "failed to save space %q", inferSpace)
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(map[string]any{
			"rule":       rule,
			"premises":   premises,
			"conclusion": conclusion,
		})
	}

	pterm.Success.Printf("%s %s ⇒ %s\n", sym.Infer, rule, conclusion.String())
	pterm.Info.Printf("id=%s strength=%.4f confidence=%.4f\n",
		conclusion.ID, conclusion.TV.Strength, conclusion.TV.Confidence)
	return nil
}

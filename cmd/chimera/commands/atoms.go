package commands

import (
	"fmt"
	"sort"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/chimera/am"
	"github.com/teranos/chimera/atomspace"
	"github.com/teranos/chimera/atomspace/storage"
	"github.com/teranos/chimera/display"
	"github.com/teranos/chimera/errors"
	"github.com/teranos/chimera/kernel"
	"github.com/teranos/chimera/sym"
)

// AtomsCmd represents the atoms (hypergraph inspection) command
var AtomsCmd = &cobra.Command{
	Use:   "atoms",
	Short: sym.Atom + " Inspect atoms in a stored space",
	Long: sym.Atom + ` atoms — Inspect the hypergraph store

List and query atoms from spaces persisted in the Chimera database.

Examples:
  chimera atoms seed                     # Boot a kernel and persist its space
  chimera atoms ls                       # List atoms in the default space
  chimera atoms ls --type ConceptNode    # Filter by atom type
  chimera atoms focus                    # Atoms in attentional focus
  chimera atoms spaces                   # List stored spaces`,
}

var atomsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List atoms in a stored space",
	RunE:  runAtomsLs,
}

var atomsSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Boot a kernel and persist its space",
	Long:  "Boots a fresh kernel (tree ontology included) and saves its atomspace under the given space name",
	RunE:  runAtomsSeed,
}

var atomsFocusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Show atoms in attentional focus",
	RunE:  runAtomsFocus,
}

var atomsSpacesCmd = &cobra.Command{
	Use:   "spaces",
	Short: "List stored spaces",
	RunE:  runAtomsSpaces,
}

var (
	atomsSpace string
	atomsType  string
	atomsLimit int
)

func init() {
	AtomsCmd.PersistentFlags().StringVar(&atomsSpace, "space", "default", "Stored space name")
	atomsLsCmd.Flags().StringVar(&atomsType, "type", "", "Filter by atom type (e.g. ConceptNode, InheritanceLink)")
	atomsLsCmd.Flags().IntVar(&atomsLimit, "limit", 50, "Maximum atoms to list (0 for all)")

	AtomsCmd.AddCommand(atomsLsCmd)
	AtomsCmd.AddCommand(atomsSeedCmd)
	AtomsCmd.AddCommand(atomsFocusCmd)
	AtomsCmd.AddCommand(atomsSpacesCmd)
}

// loadStoredSpace opens the database and loads the named space.
func loadStoredSpace(cmd *cobra.Command) (*atomspace.AtomSpace, error) {
	database, err := openDatabase("")
	if err != nil {
		return nil, err
	}
	defer database.Close()

	store := storage.NewStore(database)
	count, err := store.CountAtoms(cmd.Context(), atomsSpace)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, errors.Newf("space %q is empty (run 'chimera atoms seed' first)", atomsSpace)
	}
	return store.LoadSpace(cmd.Context(), atomsSpace)
}

func runAtomsSeed(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	k := kernel.New(cfg.Kernel.Name, cfg.Kernel.MaxTreeOrder)
	k.Boot()
	defer k.Shutdown()

	database, err := openDatabase("")
	if err != nil {
		return err
	}
	defer database.Close()

	store := storage.NewStore(database)
	if err := store.SaveSpace(cmd.Context(), atomsSpace, k.Space); err != nil {
		return errors.Wrapf(err, "failed to save space %q", atomsSpace)
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(map[string]any{
			"space": atomsSpace,
			"atoms": k.Space.Size(),
		})
	}
	pterm.Success.Printf("Saved %d atoms to space %q\n", k.Space.Size(), atomsSpace)
	return nil
}

func runAtomsLs(cmd *cobra.Command, args []string) error {
	space, err := loadStoredSpace(cmd)
	if err != nil {
		return err
	}

	var atoms []*atomspace.Atom
	if atomsType != "" {
		atoms = space.AtomsByType(atomsType)
	} else {
		atoms = space.Atoms()
	}
	sort.Slice(atoms, func(i, j int) bool {
		if atoms[i].Type != atoms[j].Type {
			return atoms[i].Type < atoms[j].Type
		}
		return atoms[i].String() < atoms[j].String()
	})

	total := len(atoms)
	if atomsLimit > 0 && len(atoms) > atomsLimit {
		atoms = atoms[:atomsLimit]
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(map[string]any{
			"space": atomsSpace,
			"total": total,
			"atoms": atoms,
		})
	}

	pterm.DefaultSection.Printf("%s Space %q — %d atoms", sym.Atom, atomsSpace, total)
	rows := pterm.TableData{{"Type", "Atom", "Strength", "Confidence", "STI"}}
	for _, atom := range atoms {
		rows = append(rows, []string{
			atom.Type,
			atom.String(),
			fmt.Sprintf("%.3f", atom.TV.Strength),
			fmt.Sprintf("%.3f", atom.TV.Confidence),
			fmt.Sprintf("%.2f", atom.AV.STI),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		return err
	}
	if total > len(atoms) {
		pterm.Info.Printf("showing %d of %d (raise --limit for more)\n", len(atoms), total)
	}
	return nil
}

func runAtomsFocus(cmd *cobra.Command, args []string) error {
	space, err := loadStoredSpace(cmd)
	if err != nil {
		return err
	}

	focus := space.AttentionalFocus()

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(map[string]any{
			"space": atomsSpace,
			"focus": focus,
		})
	}

	pterm.DefaultSection.Printf("%s Attentional focus — %d atoms", sym.Atom, len(focus))
	rows := pterm.TableData{{"Atom", "STI", "LTI"}}
	for _, atom := range focus {
		rows = append(rows, []string{
			atom.String(),
			fmt.Sprintf("%.2f", atom.AV.STI),
			fmt.Sprintf("%.2f", atom.AV.LTI),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func runAtomsSpaces(cmd *cobra.Command, args []string) error {
	database, err := openDatabase("")
	if err != nil {
		return err
	}
	defer database.Close()

	store := storage.NewStore(database)
	names, err := store.Spaces(cmd.Context())
	if err != nil {
		return err
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(map[string]any{"spaces": names})
	}

	rows := pterm.TableData{{"Space", "Atoms"}}
	for _, name := range names {
		count, err := store.CountAtoms(cmd.Context(), name)
		if err != nil {
			return err
		}
		rows = append(rows, []string{name, fmt.Sprintf("%d", count)})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

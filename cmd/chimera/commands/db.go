package commands

import (
	"database/sql"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/chimera/am"
	"github.com/teranos/chimera/display"
	"github.com/teranos/chimera/errors"
	"github.com/teranos/chimera/sym"
)

// DbCmd represents the db (database) command
var DbCmd = &cobra.Command{
	Use:   "db",
	Short: sym.DB + " Manage Chimera database",
	Long: sym.DB + ` db — Manage Chimera database operations

Manage database operations including statistics and migrations.

Examples:
  chimera db stats                # Show atom counts per space and type
  chimera db migrate              # Apply pending schema migrations`,
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	Long:  "Display stored-atom statistics: totals, per-space counts, and the most common atom types",
	RunE:  runDbStats,
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE:  runDbMigrate,
}

var statsTypeLimit int

func init() {
	dbStatsCmd.Flags().IntVar(&statsTypeLimit, "limit", 10, "Number of atom types to show")

	DbCmd.AddCommand(dbStatsCmd)
	DbCmd.AddCommand(dbMigrateCmd)
}

type spaceStat struct {
	Space string `json:"space"`
	Atoms int    `json:"atoms"`
	Nodes int    `json:"nodes"`
	Links int    `json:"links"`
}

type typeStat struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

func runDbStats(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	database, err := openDatabase("")
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	defer database.Close()

	var totalAtoms int
	if err := database.QueryRow(`SELECT COUNT(*) FROM atoms`).Scan(&totalAtoms); err != nil && err != sql.ErrNoRows {
		return errors.Wrap(err, "failed to query atom count")
	}

	spaceRows, err := database.Query(`
		SELECT space,
		       COUNT(*) AS atoms,
		       SUM(CASE WHEN kind = 'node' THEN 1 ELSE 0 END) AS nodes,
		       SUM(CASE WHEN kind = 'link' THEN 1 ELSE 0 END) AS links
		FROM atoms
		GROUP BY space
		ORDER BY space`)
	if err != nil {
		return errors.Wrap(err, "failed to query space stats")
	}
	defer spaceRows.Close()

	var spaces []spaceStat
	for spaceRows.Next() {
		var s spaceStat
		if err := spaceRows.Scan(&s.Space, &s.Atoms, &s.Nodes, &s.Links); err != nil {
			return errors.Wrap(err, "failed to scan space stats")
		}
		spaces = append(spaces, s)
	}
	if err := spaceRows.Err(); err != nil {
		return errors.Wrap(err, "failed to iterate space stats")
	}

	typeRows, err := database.Query(`
		SELECT type, COUNT(*) AS count
		FROM atoms
		GROUP BY type
		ORDER BY count DESC, type
		LIMIT ?`, statsTypeLimit)
	if err != nil {
		return errors.Wrap(err, "failed to query type stats")
	}
	defer typeRows.Close()

	var types []typeStat
	for typeRows.Next() {
		var t typeStat
		if err := typeRows.Scan(&t.Type, &t.Count); err != nil {
			return errors.Wrap(err, "failed to scan type stats")
		}
		types = append(types, t)
	}
	if err := typeRows.Err(); err != nil {
		return errors.Wrap(err, "failed to iterate type stats")
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(map[string]any{
			"database_path": cfg.GetDatabasePath(),
			"total_atoms":   totalAtoms,
			"spaces":        spaces,
			"types":         types,
		})
	}

	fmt.Printf("%s Database Statistics\n", sym.DB)
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")
	fmt.Printf("Database Path: %s\n", cfg.GetDatabasePath())
	fmt.Printf("Total Atoms:   %d\n\n", totalAtoms)

	spaceTable := pterm.TableData{{"Space", "Atoms", "Nodes", "Links"}}
	for _, s := range spaces {
		spaceTable = append(spaceTable, []string{
			s.Space, fmt.Sprintf("%d", s.Atoms), fmt.Sprintf("%d", s.Nodes), fmt.Sprintf("%d", s.Links),
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(spaceTable).Render(); err != nil {
		return err
	}

	typeTable := pterm.TableData{{"Type", "Count"}}
	for _, t := range types {
		typeTable = append(typeTable, []string{t.Type, fmt.Sprintf("%d", t.Count)})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(typeTable).Render()
}

func runDbMigrate(cmd *cobra.Command, args []string) error {
	// openDatabase migrates as part of opening
	database, err := openDatabase("")
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	defer database.Close()

	pterm.Success.Println("Migrations applied")
	return nil
}

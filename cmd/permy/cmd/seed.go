package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dev-mohitbeniwal/permy/dao"
)

var seedFile string

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "Fixtures file (default: store.fixtures_file)")
	rootCmd.AddCommand(seedCmd)
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Import fixtures into the configured store",
	Long: `Create the permission tables (Postgres) or nodes (Neo4j) and import the
subjects, permission records and assignments of a fixtures file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := seedFile
		if path == "" {
			path = cfg.Store.FixturesFile
		}
		fixtures, err := dao.LoadFixtures(path)
		if err != nil {
			return err
		}

		a := &app{cfg: cfg}
		defer a.close()
		store, err := a.openStore()
		if err != nil {
			return err
		}
		seeder, ok := store.(dao.Seeder)
		if !ok {
			return fmt.Errorf("store driver %q cannot be seeded", cfg.Store.Driver)
		}
		if err := seeder.Seed(cmd.Context(), fixtures); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("Seeded %d subjects, %d records and %d assignments",
			len(fixtures.Subjects), len(fixtures.Records), len(fixtures.Assignments)))
		return nil
	},
}

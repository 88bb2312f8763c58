package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/gw2-planner/internal/adapters/persistence"
	"github.com/andrescamacho/gw2-planner/internal/infrastructure/config"
	"github.com/andrescamacho/gw2-planner/internal/infrastructure/database"
)

// NewRunsCommand creates the runs command
func NewRunsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List recorded listing snapshots",
		Long: `List the listing snapshots recorded by previous online runs.

The newest snapshot is the one --offline replays.

Examples:
  gw2-planner runs`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}

			db, err := database.NewConnection(&cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to open snapshot database: %w", err)
			}
			defer database.Close(db)

			repo := persistence.NewSnapshotRepository(db, nil)
			runs, err := repo.ListRuns(cmd.Context())
			if err != nil {
				return err
			}

			if len(runs) == 0 {
				fmt.Println("No recorded runs")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RUN\tCREATED\tTARGETS")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\n",
					run.ID,
					run.CreatedAt.Format("2006-01-02 15:04:05"),
					strings.Join(run.Targets, ", "))
			}
			return w.Flush()
		},
	}
}

package cli

import (
	"github.com/spf13/cobra"

	"fluvsynth/internal/store"
)

func newRunsCmd() *cobra.Command {
	var (
		dbPath string
		limit  int
		offset int
		runID  string
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded generation runs, or show one run's metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.NewSQLiteDB(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := db.Migrate(); err != nil {
				return err
			}

			if runID != "" {
				run, err := db.GetRun(runID)
				if err != nil {
					return err
				}
				cmd.Printf("run %s  style=%s mode=%s seed=%d %dx%d dir=%s created=%s\n",
					run.ID, run.Style, run.Mode, run.Seed, run.Width, run.Height,
					run.OutputDir, run.CreatedAt.Format("2006-01-02 15:04:05"))
				metrics, err := db.GetMetrics(runID)
				if err != nil {
					return err
				}
				for _, m := range metrics {
					if m.Text != "" {
						cmd.Printf("  %-45s %s\n", m.Key, m.Text)
						continue
					}
					cmd.Printf("  %-45s %g\n", m.Key, m.Value)
				}
				return nil
			}

			runs, err := db.ListRuns(limit, offset)
			if err != nil {
				return err
			}
			for _, run := range runs {
				cmd.Printf("%s  %-13s %-7s seed=%-12d %dx%d  %s\n",
					run.CreatedAt.Format("2006-01-02 15:04:05"),
					run.Style, run.Mode, run.Seed, run.Width, run.Height, run.ID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "fluvsynth.db", "SQLite database path")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to list")
	cmd.Flags().IntVar(&offset, "offset", 0, "pagination offset")
	cmd.Flags().StringVar(&runID, "id", "", "show metrics for one run id")
	return cmd
}

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"stockwell/internal/journal"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Show recent import runs from the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := journal.Open(cfg.Paths.JournalPath)
			if err != nil {
				return fmt.Errorf("open run journal: %w", err)
			}
			defer store.Close()

			runs, err := store.RecentRuns(cmd.Context(), limitFlag)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				finished := "running"
				if run.FinishedAt != nil {
					finished = run.FinishedAt.Format("2006-01-02 15:04:05")
				}
				rows = append(rows, []string{
					run.RunUUID,
					run.RootDir,
					run.StartedAt.Format("2006-01-02 15:04:05"),
					finished,
					yesNo(run.Authorized),
					strconv.Itoa(run.Created),
					strconv.Itoa(run.Skipped),
					strconv.Itoa(run.Failed),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Run", "Root", "Started", "Finished", "Authorized", "Created", "Skipped", "Failed"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limitFlag, "limit", 10, "Maximum number of runs to show")
	return cmd
}

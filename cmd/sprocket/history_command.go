package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"sprocket/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List past conversions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg.Paths.HistoryDB)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No conversions recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				rows = append(rows, []string{
					strconv.FormatInt(rec.ID, 10),
					rec.FinishedAt.Local().Format("2006-01-02 15:04"),
					outcomeLabel(rec.Outcome),
					strconv.Itoa(rec.ExitCode),
					strconv.Itoa(rec.SourceCount),
					rec.FinishedAt.Sub(rec.StartedAt).Round(time.Second).String(),
					rec.OutputPath,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Finished", "Outcome", "Exit", "Sources", "Duration", "Output"},
				rows, 1, 4, 5))
			return nil
		},
	}

	historyCmd.Flags().IntVar(&limit, "limit", 20, "Maximum rows to list (0 for all)")

	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryClearCommand(ctx))
	return historyCmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <job-id>",
		Short: "Print one conversion's full command line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg.Paths.HistoryDB)
			if err != nil {
				return err
			}
			defer store.Close()

			rec, found, err := store.GetByJobID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("no conversion with job id %s", args[0])
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Job:      %s\n", rec.JobID)
			fmt.Fprintf(out, "Outcome:  %s (exit %d)\n", outcomeLabel(rec.Outcome), rec.ExitCode)
			fmt.Fprintf(out, "Started:  %s\n", rec.StartedAt.Local().Format(time.RFC3339))
			fmt.Fprintf(out, "Finished: %s\n", rec.FinishedAt.Local().Format(time.RFC3339))
			fmt.Fprintf(out, "Log:      %s\n", rec.LogPath)
			fmt.Fprintf(out, "Command:  %s\n", rec.Command)
			return nil
		},
	}
}

func newHistoryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all recorded conversions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg.Paths.HistoryDB)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Conversion history cleared.")
			return nil
		},
	}
}

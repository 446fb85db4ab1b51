package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"sprocket/internal/config"
	"sprocket/internal/fileutil"
	"sprocket/internal/logs"
)

func newLogsCommand(ctx *commandContext) *cobra.Command {
	var (
		lines  int
		follow bool
		probe  bool
	)

	logsCmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the ffmpeg output from the last conversion",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := cfg.ConversionLogPath()
			if probe {
				path = cfg.ProbeLogPath()
			}
			out := cmd.OutOrStdout()

			tail, err := logs.Tail(path, lines)
			if err != nil {
				return err
			}
			if len(tail) == 0 && !follow {
				fmt.Fprintf(out, "No log content at %s\n", path)
				return nil
			}
			for _, line := range tail {
				fmt.Fprintln(out, line)
			}

			if !follow {
				return nil
			}
			err = logs.Follow(cmd.Context(), path, func(line string) {
				fmt.Fprintln(out, line)
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	logsCmd.Flags().IntVarP(&lines, "lines", "l", 0, "Only show the last N lines (0 for all)")
	logsCmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep streaming as the running conversion appends output")
	logsCmd.Flags().BoolVar(&probe, "probe", false, "Show the probe log instead of the conversion log")

	logsCmd.AddCommand(newLogsExportCommand(ctx))
	return logsCmd
}

func newLogsExportCommand(ctx *commandContext) *cobra.Command {
	var probe bool

	cmd := &cobra.Command{
		Use:   "export <destination>",
		Short: "Copy the last conversion log somewhere else",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			src := cfg.ConversionLogPath()
			if probe {
				src = cfg.ProbeLogPath()
			}
			dst, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			if err := fileutil.CopyFile(src, dst); err != nil {
				return fmt.Errorf("export log: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", src, dst)
			return nil
		},
	}

	cmd.Flags().BoolVar(&probe, "probe", false, "Export the probe log instead of the conversion log")
	return cmd
}

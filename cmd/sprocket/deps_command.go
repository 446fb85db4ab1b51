package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check that the configured ffmpeg command is runnable",
		RunE: func(cmd *cobra.Command, args []string) error {
			ffCfg, configPath, err := ctx.ffmpegConfig()
			if err != nil {
				return err
			}
			status, err := ctx.ffmpegStatus()
			if err != nil {
				return err
			}

			rows := [][]string{{
				status.Name,
				status.Command,
				availabilityLabel(status.Available),
				status.Detail,
			}}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Dependency", "Command", "Available", "Detail"}, rows))
			fmt.Fprintf(out, "OS selection: %s (from %s)\n", ffCfg.OperatingSystem, configPath)
			if !status.Available {
				return fmt.Errorf("ffmpeg is not runnable; set a command with 'sprocket ffmpeg set'")
			}
			return nil
		},
	}
}

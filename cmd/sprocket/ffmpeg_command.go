package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sprocket/internal/deps"
)

func newFFmpegCommand(ctx *commandContext) *cobra.Command {
	ffmpegCmd := &cobra.Command{
		Use:   "ffmpeg",
		Short: "Manage the ffmpeg discovery config",
	}
	ffmpegCmd.AddCommand(newFFmpegShowCommand(ctx))
	ffmpegCmd.AddCommand(newFFmpegSetCommand(ctx))
	ffmpegCmd.AddCommand(newFFmpegOSCommand(ctx))
	return ffmpegCmd
}

func newFFmpegShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the configured ffmpeg commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			ffCfg, configPath, err := ctx.ffmpegConfig()
			if err != nil {
				return err
			}
			rows := [][]string{
				{string(deps.OSPC), ffCfg.CommandPC, yesNo(ffCfg.OperatingSystem == deps.OSPC)},
				{string(deps.OSMac), ffCfg.CommandMAC, yesNo(ffCfg.OperatingSystem == deps.OSMac)},
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"OS", "Command", "Active"}, rows))
			fmt.Fprintf(out, "Config file: %s\n", configPath)
			return nil
		},
	}
}

func newFFmpegSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set <command>",
		Short: "Set the ffmpeg command for the active OS selection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ffCfg, configPath, err := ctx.ffmpegConfig()
			if err != nil {
				return err
			}
			ffCfg.SetCommand(args[0])
			if err := deps.SaveFFmpegConfig(configPath, ffCfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s ffmpeg command to %s\n", ffCfg.OperatingSystem, args[0])
			if !deps.IsRunnable(args[0]) {
				fmt.Fprintln(cmd.OutOrStdout(), "warning: the command does not resolve to a runnable executable on this machine")
			}
			return nil
		},
	}
}

func newFFmpegOSCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "os <PC|MAC>",
		Short: "Switch the active OS selection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			choice := deps.OperatingSystem(strings.ToUpper(strings.TrimSpace(args[0])))
			if choice != deps.OSPC && choice != deps.OSMac {
				return fmt.Errorf("operating system must be PC or MAC, got %q", args[0])
			}
			ffCfg, configPath, err := ctx.ffmpegConfig()
			if err != nil {
				return err
			}
			ffCfg.OperatingSystem = choice
			if err := deps.SaveFFmpegConfig(configPath, ffCfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Active OS selection is now %s\n", choice)
			return nil
		},
	}
}

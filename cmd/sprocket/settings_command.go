package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"sprocket/internal/settings"
)

func newSettingsCommand(ctx *commandContext) *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect the shared panel settings file",
	}
	settingsCmd.AddCommand(newSettingsShowCommand(ctx))
	settingsCmd.AddCommand(newSettingsPathCommand(ctx))
	return settingsCmd
}

func newSettingsShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the saved panel settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store := settings.NewStore(cfg.Paths.SettingsPath, ctx.ensureLogger())
			loaded, err := store.Load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(loaded.InputSources))
			for i, src := range loaded.InputSources {
				path := src.Input
				if path == "" {
					path = "(empty)"
				}
				rows = append(rows, []string{strconv.Itoa(i + 1), path})
			}
			fmt.Fprintln(out, renderTable([]string{"#", "Input"}, rows, 1))

			size := "native"
			if loaded.OutputSize != nil {
				size = fmt.Sprintf("%dx%d", loaded.OutputSize.Width, loaded.OutputSize.Height)
			}
			fmt.Fprintf(out, "Output directory:  %s\n", valueOrDash(loaded.OutputDirectory))
			fmt.Fprintf(out, "Output file name:  %s\n", valueOrDash(loaded.OutputFileName))
			fmt.Fprintf(out, "Output size:       %s\n", size)
			fmt.Fprintf(out, "Keep proportions:  %s\n", yesNo(loaded.KeepProportions))
			fmt.Fprintf(out, "Format:            %s\n", loaded.FileFormat)
			fmt.Fprintf(out, "Frame digits:      %d\n", loaded.FrameNumDigits)
			return nil
		},
	}
}

func newSettingsPathCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the settings file location",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.Paths.SettingsPath)
			return nil
		},
	}
}

func valueOrDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

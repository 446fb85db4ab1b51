package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"sprocket/internal/config"
	"sprocket/internal/media/probe"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <source>...",
		Short: "Read resolution and audio presence from sources",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			status, err := ctx.ffmpegStatus()
			if err != nil {
				return err
			}
			if !status.Available {
				return fmt.Errorf("ffmpeg is not runnable; run 'sprocket deps' for details")
			}

			prober := probe.New(status.Command, cfg.ProbeLogPath(), cfg.FFmpeg.ProbeWindowSeconds, ctx.ensureLogger())

			rows := make([][]string, 0, len(args))
			failures := 0
			for _, arg := range args {
				path, err := config.ExpandPath(arg)
				if err != nil {
					return err
				}
				props, err := prober.Inspect(cmd.Context(), path)
				if err != nil {
					failures++
					rows = append(rows, []string{path, "unknown", "unknown"})
					continue
				}
				resolution := strconv.Itoa(props.Size.Width) + "x" + strconv.Itoa(props.Size.Height)
				rows = append(rows, []string{path, resolution, yesNo(props.HasAudio)})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Source", "Resolution", "Audio"}, rows))
			if failures > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%d of %d sources could not be probed (see %s)\n",
					failures, len(args), cfg.ProbeLogPath())
			}
			return nil
		},
	}
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"sprocket/internal/config"
	"sprocket/internal/convert"
	"sprocket/internal/history"
	"sprocket/internal/jobs"
	"sprocket/internal/mainthread"
	"sprocket/internal/media/probe"
	"sprocket/internal/panel"
	"sprocket/internal/settings"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var (
		outputDir  string
		baseName   string
		sizeFlag   string
		formatFlag string
		digitsFlag int
		noLink     bool
	)

	cmd := &cobra.Command{
		Use:   "convert <source>...",
		Short: "Convert sources into an image sequence or movie",
		Long: `Convert probes each source, builds one ffmpeg invocation covering all of
them in order (scaling and concatenating as needed), and runs it to
completion. Ctrl-C cancels the running conversion.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			status, err := ctx.ffmpegStatus()
			if err != nil {
				return err
			}
			logger := ctx.ensureLogger()

			historyStore, err := history.Open(cfg.Paths.HistoryDB)
			if err != nil {
				return err
			}
			defer historyStore.Close()

			runner := jobs.NewRunner(
				cfg.ConversionLogPath(),
				time.Duration(cfg.FFmpeg.PollIntervalMS)*time.Millisecond,
				mainthread.Immediate{},
				logger,
			)

			controller, err := panel.NewController(panel.Options{
				Probe:          probe.New(status.Command, cfg.ProbeLogPath(), cfg.FFmpeg.ProbeWindowSeconds, logger),
				Runner:         runner,
				Settings:       settings.NewStore(cfg.Paths.SettingsPath, logger),
				History:        historyStore,
				FFmpeg:         status,
				LogPath:        cfg.ConversionLogPath(),
				SilenceSeconds: cfg.FFmpeg.SilenceDurationSeconds,
				Logger:         logger,
			})
			if err != nil {
				return err
			}

			if err := applyConvertFlags(cmd.Context(), controller, args, convertFlags{
				outputDir: outputDir,
				baseName:  baseName,
				size:      sizeFlag,
				format:    formatFlag,
				digits:    digitsFlag,
				noLink:    noLink,
			}); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, src := range controller.State().Sources {
				if src.Size == nil {
					fmt.Fprintf(out, "warning: source %d (%s) could not be probed\n", i+1, src.Path)
				}
			}

			outcomes := make(chan jobs.Outcome, 1)
			jobID, err := controller.Convert(context.Background(), func(o jobs.Outcome) { outcomes <- o })
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Conversion %s started\n", jobID)

			interrupts := make(chan os.Signal, 1)
			signal.Notify(interrupts, os.Interrupt)
			defer signal.Stop(interrupts)

			for {
				select {
				case <-interrupts:
					fmt.Fprintln(out, "Cancelling...")
					controller.Cancel()
				case outcome := <-outcomes:
					return reportOutcome(out, outcome, cfg)
				}
			}
		},
	}

	cmd.Flags().StringVarP(&outputDir, "out", "o", "", "Output directory (required)")
	cmd.Flags().StringVarP(&baseName, "name", "n", "", "Output base file name (required)")
	cmd.Flags().StringVar(&sizeFlag, "size", "", "Explicit output size as WxH (default: first source's native size)")
	cmd.Flags().StringVarP(&formatFlag, "format", "f", "MP4", "Output format: "+strings.Join(convert.FormatNames(), ", "))
	cmd.Flags().IntVar(&digitsFlag, "digits", 4, "Frame number digits for image sequences (1-4)")
	cmd.Flags().BoolVar(&noLink, "no-keep-proportions", false, "Do not link width and height to the source aspect ratio")
	_ = cmd.MarkFlagRequired("out")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

type convertFlags struct {
	outputDir string
	baseName  string
	size      string
	format    string
	digits    int
	noLink    bool
}

// applyConvertFlags feeds the flag values into the controller as panel
// actions. Setting each source path probes it synchronously.
func applyConvertFlags(ctx context.Context, controller *panel.Controller, sources []string, flags convertFlags) error {
	outputDir, err := config.ExpandPath(flags.outputDir)
	if err != nil {
		return err
	}

	controller.Dispatch(ctx, panel.SetKeepProportions{Linked: false})

	// Replace whatever source rows were restored from the settings file
	// with the command-line sources.
	for len(controller.State().Sources) > 1 {
		controller.Dispatch(ctx, panel.RemoveSource{Index: len(controller.State().Sources) - 1})
	}
	for i, src := range sources {
		expanded, err := config.ExpandPath(src)
		if err != nil {
			return err
		}
		if i > 0 {
			controller.Dispatch(ctx, panel.AddSource{})
		}
		controller.Dispatch(ctx, panel.SetSourcePath{Index: i, Path: expanded})
	}

	controller.Dispatch(ctx, panel.SetOutputDirectory{Path: outputDir})
	controller.Dispatch(ctx, panel.SetOutputFileName{Name: flags.baseName})
	controller.Dispatch(ctx, panel.SetFormat{Name: strings.ToUpper(strings.TrimSpace(flags.format))})
	controller.Dispatch(ctx, panel.SetFrameDigits{Digits: flags.digits})

	width, height := "", ""
	if trimmed := strings.TrimSpace(flags.size); trimmed != "" {
		parts := strings.SplitN(trimmed, "x", 2)
		if len(parts) != 2 {
			return fmt.Errorf("--size must look like 1920x1080, got %q", flags.size)
		}
		width, height = parts[0], parts[1]
	}
	controller.Dispatch(ctx, panel.SetWidthText{Text: width})
	controller.Dispatch(ctx, panel.SetHeightText{Text: height})
	if !flags.noLink {
		controller.Dispatch(ctx, panel.SetKeepProportions{Linked: true})
	}
	return nil
}

func reportOutcome(out io.Writer, outcome jobs.Outcome, cfg *config.Config) error {
	switch outcome.State {
	case jobs.StateSucceeded:
		fmt.Fprintf(out, "Conversion %s succeeded\n", outcome.JobID)
		return nil
	case jobs.StateCancelled:
		fmt.Fprintf(out, "Conversion %s cancelled\n", outcome.JobID)
		return nil
	default:
		if outcome.Log != "" {
			fmt.Fprintln(out, outcome.Log)
		}
		return fmt.Errorf("conversion failed with exit code %d (full log: %s)",
			outcome.ExitCode, cfg.ConversionLogPath())
	}
}

package panel

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"sprocket/internal/convert"
	"sprocket/internal/deps"
	"sprocket/internal/history"
	"sprocket/internal/jobs"
	"sprocket/internal/logging"
	"sprocket/internal/media"
	"sprocket/internal/media/probe"
	"sprocket/internal/services"
	"sprocket/internal/settings"
	"sprocket/internal/textutil"
)

// Prober inspects one source for resolution and audio presence.
type Prober interface {
	Inspect(ctx context.Context, path string) (probe.Properties, error)
}

// ConversionRunner executes a built command and reports its outcome.
type ConversionRunner interface {
	Start(ctx context.Context, args []string, done func(jobs.Outcome)) (string, error)
	Cancel()
	Running() bool
}

// Recorder persists finished conversion attempts.
type Recorder interface {
	Insert(ctx context.Context, rec history.Record) (int64, error)
}

// Options wires a Controller to its collaborators. Probe and Runner are
// required; History is optional.
type Options struct {
	Probe    Prober
	Runner   ConversionRunner
	Settings *settings.Store
	History  Recorder
	FFmpeg   deps.Status
	// LogPath is the conversion log artifact, recorded in history rows.
	LogPath string
	// SilenceSeconds is the duration of the synthetic silent input.
	SilenceSeconds float64
	Logger         *slog.Logger
}

// Controller owns the panel model and runs the action/effect loop. All
// methods must be called from the host's main thread; probe effects run
// synchronously there and conversion outcomes arrive back on it via the
// runner's host executor.
type Controller struct {
	opts   Options
	logger *slog.Logger
	state  State
}

// NewController builds a controller seeded from the settings store, falling
// back to defaults when the store is empty or absent.
func NewController(opts Options) (*Controller, error) {
	if opts.SilenceSeconds <= 0 {
		opts.SilenceSeconds = 0.1
	}
	c := &Controller{
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "panel"),
	}

	loaded := settings.Default()
	if opts.Settings != nil {
		s, err := opts.Settings.Load()
		if err != nil {
			return nil, err
		}
		loaded = s
	}
	c.state = stateFromSettings(loaded)
	return c, nil
}

// State returns a copy of the current panel model.
func (c *Controller) State() State {
	return c.state.clone()
}

// Dispatch applies an action and executes the resulting effects. Probe
// effects run synchronously and feed their results back in as SourceProbed
// actions before Dispatch returns.
func (c *Controller) Dispatch(ctx context.Context, action Action) {
	next, effects := Reduce(c.state, action)
	c.state = next

	for _, effect := range effects {
		switch e := effect.(type) {
		case ProbeSource:
			c.probeSource(ctx, e.Index)
		}
	}
}

func (c *Controller) probeSource(ctx context.Context, index int) {
	if c.opts.Probe == nil || index < 0 || index >= len(c.state.Sources) {
		return
	}
	path := c.state.Sources[index].Path
	props, err := c.opts.Probe.Inspect(ctx, path)
	if err != nil {
		// Probe failures are per-source and non-fatal; the row just shows
		// unknown size and audio.
		c.logger.Warn("probe failed",
			logging.String(logging.FieldSource, path),
			logging.Error(err),
		)
		c.state, _ = Reduce(c.state, SourceProbed{Index: index})
		return
	}
	size := props.Size
	hasAudio := props.HasAudio
	c.state, _ = Reduce(c.state, SourceProbed{Index: index, Size: &size, HasAudio: &hasAudio})
}

// Validate checks the current model against the full pre-spawn taxonomy.
// The first failure wins; nothing is mutated.
func (c *Controller) Validate() error {
	if !c.opts.FFmpeg.Available {
		return services.Wrap(services.ErrFFmpegNotFound, "panel", "validate",
			"configured ffmpeg command is not runnable", nil)
	}
	for i, src := range c.state.Sources {
		if strings.TrimSpace(src.Path) == "" {
			return services.Wrap(services.ErrValidation, "panel", "validate",
				"input "+strconv.Itoa(i+1)+" has no path", nil)
		}
	}
	if _, err := ParseOutputSize(c.state.WidthText, c.state.HeightText); err != nil {
		return services.Wrap(services.ErrValidation, "panel", "validate",
			"output size fields must be whole numbers", err)
	}
	dir := strings.TrimSpace(c.state.OutputDirectory)
	if dir == "" {
		return services.Wrap(services.ErrValidation, "panel", "validate",
			"no output directory set", nil)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return services.Wrap(services.ErrValidation, "panel", "validate",
			"output directory does not exist", err)
	}
	if !info.IsDir() {
		return services.Wrap(services.ErrValidation, "panel", "validate",
			"output path is not a directory", nil)
	}
	if strings.TrimSpace(c.state.OutputFileName) == "" {
		return services.Wrap(services.ErrValidation, "panel", "validate",
			"no output file name set", nil)
	}
	if _, ok := convert.FormatByName(c.state.Format); !ok {
		return services.Wrap(services.ErrValidation, "panel", "validate",
			"unknown output format "+strconv.Quote(c.state.Format), nil)
	}
	return nil
}

// BuildJob assembles the conversion request from the validated model. The
// explicit size wins; a nil size falls back to the first probed source
// size, and with neither the job is refused.
func (c *Controller) BuildJob() (convert.Job, error) {
	if err := c.Validate(); err != nil {
		return convert.Job{}, err
	}

	size, err := ParseOutputSize(c.state.WidthText, c.state.HeightText)
	if err != nil {
		return convert.Job{}, services.Wrap(services.ErrValidation, "panel", "build job",
			"output size fields must be whole numbers", err)
	}
	var outputSize media.Size
	if size != nil {
		outputSize = *size
	} else {
		native, ok := c.state.aspectSource()
		if !ok {
			return convert.Job{}, services.Wrap(services.ErrValidation, "panel", "build job",
				"no output size set and no source could be probed", nil)
		}
		outputSize = native
	}

	baseName := textutil.SanitizeFileName(c.state.OutputFileName)
	if baseName == "" {
		return convert.Job{}, services.Wrap(services.ErrValidation, "panel", "build job",
			"output file name has no usable characters", nil)
	}

	format, _ := convert.FormatByName(c.state.Format)
	sources := make([]convert.Source, len(c.state.Sources))
	for i, src := range c.state.Sources {
		hasAudio := src.HasAudio != nil && *src.HasAudio
		sources[i] = convert.Source{Path: src.Path, HasAudio: hasAudio}
	}

	return convert.Job{
		FFmpeg:         c.opts.FFmpeg.Command,
		Sources:        sources,
		OutputDir:      strings.TrimSpace(c.state.OutputDirectory),
		OutputSize:     outputSize,
		BaseName:       baseName,
		FrameDigits:    c.state.FrameDigits,
		Format:         format,
		SilenceSeconds: c.opts.SilenceSeconds,
	}, nil
}

// Convert validates, autosaves settings, builds the command, and starts the
// runner. done is invoked on the host executor with the terminal outcome
// after the history row is written.
func (c *Controller) Convert(ctx context.Context, done func(jobs.Outcome)) (string, error) {
	if c.opts.Runner == nil {
		return "", services.Wrap(services.ErrConfiguration, "panel", "convert", "no runner configured", nil)
	}
	if c.opts.Runner.Running() {
		return "", services.Wrap(services.ErrValidation, "panel", "convert",
			"a conversion is already running", nil)
	}

	job, err := c.BuildJob()
	if err != nil {
		return "", err
	}

	if c.opts.Settings != nil {
		if err := c.opts.Settings.Save(c.Snapshot()); err != nil {
			// Autosave is a convenience; a failed save never blocks the
			// conversion itself.
			c.logger.Warn("settings autosave failed", logging.Error(err))
		}
	}

	args := convert.Build(job)
	commandLine := convert.CommandLine(args)
	c.logger.Info("starting conversion", logging.String(logging.FieldCommand, commandLine))

	// The running transition happens before Start so the completion
	// callback can never be observed ahead of it, even when the host
	// executor runs the callback synchronously.
	c.state, _ = Reduce(c.state, ConversionStarted{})

	startedAt := time.Now().UTC()
	jobID, err := c.opts.Runner.Start(ctx, args, func(outcome jobs.Outcome) {
		c.recordOutcome(ctx, outcome, commandLine, len(job.Sources), job.OutputDir, startedAt)
		c.state, _ = Reduce(c.state, ConversionCompleted{Outcome: outcome})
		if done != nil {
			done(outcome)
		}
	})
	if err != nil {
		c.state, _ = Reduce(c.state, ConversionCompleted{Outcome: jobs.Outcome{State: jobs.StateFailed, Err: err}})
		return "", err
	}

	return jobID, nil
}

func (c *Controller) recordOutcome(ctx context.Context, outcome jobs.Outcome, commandLine string, sourceCount int, outputDir string, startedAt time.Time) {
	if c.opts.History == nil {
		return
	}
	rec := history.Record{
		JobID:       outcome.JobID,
		Command:     commandLine,
		Outcome:     string(outcome.State),
		ExitCode:    outcome.ExitCode,
		SourceCount: sourceCount,
		OutputPath:  outputDir,
		LogPath:     c.opts.LogPath,
		StartedAt:   startedAt,
		FinishedAt:  time.Now().UTC(),
	}
	if _, err := c.opts.History.Insert(ctx, rec); err != nil {
		c.logger.Warn("history insert failed",
			logging.String(logging.FieldJobID, outcome.JobID),
			logging.Error(err),
		)
	}
}

// Cancel forwards a cancellation request to the runner.
func (c *Controller) Cancel() {
	if c.opts.Runner != nil {
		c.opts.Runner.Cancel()
	}
}

// Snapshot converts the current model to its persisted form. Unparseable
// size fields persist as null rather than junk.
func (c *Controller) Snapshot() settings.Settings {
	s := settings.Settings{
		InputSources:    make([]settings.SourceEntry, len(c.state.Sources)),
		OutputDirectory: c.state.OutputDirectory,
		KeepProportions: c.state.KeepProportions,
		OutputFileName:  c.state.OutputFileName,
		FrameNumDigits:  c.state.FrameDigits,
		FileFormat:      c.state.Format,
	}
	for i, src := range c.state.Sources {
		s.InputSources[i] = settings.SourceEntry{Input: src.Path}
	}
	if size, err := ParseOutputSize(c.state.WidthText, c.state.HeightText); err == nil && size != nil {
		s.OutputSize = &settings.OutputSize{Size: *size}
	}
	s.Normalize()
	return s
}

func stateFromSettings(s settings.Settings) State {
	s.Normalize()
	state := State{
		Sources:         make([]SourceState, len(s.InputSources)),
		OutputDirectory: s.OutputDirectory,
		KeepProportions: s.KeepProportions,
		OutputFileName:  s.OutputFileName,
		FrameDigits:     s.FrameNumDigits,
		Format:          s.FileFormat,
		Job:             jobs.StateIdle,
	}
	for i, entry := range s.InputSources {
		state.Sources[i] = SourceState{Path: entry.Input}
	}
	if s.OutputSize != nil {
		state.WidthText = strconv.Itoa(s.OutputSize.Width)
		state.HeightText = strconv.Itoa(s.OutputSize.Height)
	}
	return state
}

// RefreshProbes re-probes every non-empty source, for panel startup and
// after the ffmpeg command changes.
func (c *Controller) RefreshProbes(ctx context.Context) {
	c.Dispatch(ctx, FFmpegChanged{})
}

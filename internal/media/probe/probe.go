package probe

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"sprocket/internal/logging"
	"sprocket/internal/media"
	"sprocket/internal/services"
)

// Properties are the two facts a probe extracts from a source.
type Properties struct {
	Size     media.Size
	HasAudio bool
}

// Probe runs ffmpeg in a bounded decode pass against a single source and
// scrapes its diagnostic output for resolution and audio presence.
//
// Every run rewrites the shared log artifact, so probes must be serialized;
// the panel controller probes one source at a time.
type Probe struct {
	binary        string
	logPath       string
	windowSeconds int
	logger        *slog.Logger
}

// New constructs a probe for the given ffmpeg binary. logPath is the shared
// artifact the merged process output is written to; windowSeconds bounds the
// decode pass.
func New(binary, logPath string, windowSeconds int, logger *slog.Logger) *Probe {
	if windowSeconds <= 0 {
		windowSeconds = 1
	}
	return &Probe{
		binary:        strings.TrimSpace(binary),
		logPath:       logPath,
		windowSeconds: windowSeconds,
		logger:        logging.NewComponentLogger(logger, "probe"),
	}
}

// Inspect probes the source at path. The returned error is tagged with
// services.ErrProbe; callers degrade the source to unknown instead of
// failing the panel.
func (p *Probe) Inspect(ctx context.Context, path string) (Properties, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Properties{}, services.Wrap(services.ErrProbe, "probe", "inspect", "empty source path", nil)
	}
	if p.binary == "" {
		return Properties{}, services.Wrap(services.ErrProbe, "probe", "inspect", "no ffmpeg command configured", nil)
	}

	args := []string{
		"-nostdin", "-y",
		"-ss", "00:00:00",
		"-to", timecode(p.windowSeconds),
		"-i", path,
		"-f", "null", "-",
	}

	logFile, err := os.OpenFile(p.logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return Properties{}, services.Wrap(services.ErrProbe, "probe", "open log", "cannot write probe log artifact", err)
	}

	cmd := exec.CommandContext(ctx, p.binary, args...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	runErr := cmd.Run()
	closeErr := logFile.Close()

	if runErr != nil {
		p.logger.Debug("probe run failed", logging.String(logging.FieldSource, path), logging.Error(runErr))
		return Properties{}, services.Wrap(services.ErrProbe, "probe", "run ffmpeg", "probe process failed", runErr)
	}
	if closeErr != nil {
		return Properties{}, services.Wrap(services.ErrProbe, "probe", "close log", "cannot finalize probe log artifact", closeErr)
	}

	data, err := os.ReadFile(p.logPath)
	if err != nil {
		return Properties{}, services.Wrap(services.ErrProbe, "probe", "read log", "cannot read probe log artifact", err)
	}

	props, err := parseOutput(data)
	if err != nil {
		return Properties{}, err
	}

	p.logger.Debug("probed source",
		logging.String(logging.FieldSource, path),
		logging.Int("width", props.Size.Width),
		logging.Int("height", props.Size.Height),
		logging.Bool("has_audio", props.HasAudio),
	)
	return props, nil
}

// resolutionPattern matches the WxH token ffmpeg prints on its Video line.
var resolutionPattern = regexp.MustCompile(`(\d+)x(\d+)`)

// parseOutput scans the merged ffmpeg output in reverse line order so the
// most recent diagnostics win, looking for the first Video and Audio stream
// lines. Scanning stops as soon as both are found.
func parseOutput(data []byte) (Properties, error) {
	lines := strings.Split(string(data), "\n")

	var (
		props      Properties
		videoFound bool
		audioFound bool
	)
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		if !videoFound && strings.Contains(line, "Video:") {
			size, ok := parseResolution(line)
			if !ok {
				return Properties{}, services.Wrap(services.ErrProbe, "probe", "parse output", "video line carries no resolution", nil)
			}
			props.Size = size
			videoFound = true
		}
		if !audioFound && strings.Contains(line, "Audio:") {
			props.HasAudio = true
			audioFound = true
		}
		if videoFound && audioFound {
			break
		}
	}

	if !videoFound {
		return Properties{}, services.Wrap(services.ErrProbe, "probe", "parse output", "no video stream line in ffmpeg output", nil)
	}
	return props, nil
}

// parseResolution extracts the WxH pair from a Video stream line. Only the
// portion after the "Video:" marker is scanned, because the stream id prefix
// carries hex tokens such as "[0x1]" that would match first. The codec tag
// ("0x31637661") appears after the marker too, so hex matches there are
// skipped by rejecting zero dimensions.
func parseResolution(line string) (media.Size, bool) {
	idx := strings.Index(line, "Video:")
	if idx >= 0 {
		line = line[idx+len("Video:"):]
	}
	cleaned := strings.ReplaceAll(line, " 0x", "")
	for _, match := range resolutionPattern.FindAllStringSubmatch(cleaned, -1) {
		width, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		height, err := strconv.Atoi(match[2])
		if err != nil {
			continue
		}
		if width <= 0 || height <= 0 {
			continue
		}
		return media.Size{Width: width, Height: height}.Normalized(), true
	}
	return media.Size{}, false
}

// timecode renders a second count as the HH:MM:SS form the -to flag expects.
func timecode(seconds int) string {
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, seconds/60%60, seconds%60)
}

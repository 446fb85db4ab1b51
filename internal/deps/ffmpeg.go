package deps

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// OperatingSystem selects which configured ffmpeg command is active.
type OperatingSystem string

const (
	OSPC  OperatingSystem = "PC"
	OSMac OperatingSystem = "MAC"
)

// FFmpegConfig is the on-disk discovery record: the chosen OS plus one
// ffmpeg command per OS. The JSON keys are a compatibility contract with
// the panel's existing config files.
type FFmpegConfig struct {
	OperatingSystem OperatingSystem `json:"operatingSystem"`
	CommandPC       string          `json:"ffmpegCommandPC"`
	CommandMAC      string          `json:"ffmpegCommandMAC"`
}

// DefaultFFmpegConfig returns a discovery config for the host platform.
func DefaultFFmpegConfig() FFmpegConfig {
	osChoice := OSMac
	if runtime.GOOS == "windows" {
		osChoice = OSPC
	}
	return FFmpegConfig{OperatingSystem: osChoice}
}

// LoadFFmpegConfig reads the discovery file, returning platform defaults
// when it does not exist yet.
func LoadFFmpegConfig(path string) (FFmpegConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultFFmpegConfig(), nil
		}
		return FFmpegConfig{}, fmt.Errorf("read ffmpeg config: %w", err)
	}

	cfg := DefaultFFmpegConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return FFmpegConfig{}, fmt.Errorf("parse ffmpeg config: %w", err)
	}
	if cfg.OperatingSystem != OSPC && cfg.OperatingSystem != OSMac {
		return FFmpegConfig{}, fmt.Errorf("ffmpeg config: unknown operating system %q", cfg.OperatingSystem)
	}
	return cfg, nil
}

// SaveFFmpegConfig persists the discovery record.
func SaveFFmpegConfig(path string, cfg FFmpegConfig) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create ffmpeg config directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ffmpeg config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write ffmpeg config: %w", err)
	}
	return nil
}

// ConfiguredCommand returns the command for the active OS selection.
func (c FFmpegConfig) ConfiguredCommand() string {
	if c.OperatingSystem == OSPC {
		return strings.TrimSpace(c.CommandPC)
	}
	return strings.TrimSpace(c.CommandMAC)
}

// SetCommand records a command for the active OS selection.
func (c *FFmpegConfig) SetCommand(command string) {
	if c.OperatingSystem == OSPC {
		c.CommandPC = strings.TrimSpace(command)
	} else {
		c.CommandMAC = strings.TrimSpace(command)
	}
}

// ResolveFFmpeg reports the ffmpeg command probing and conversion will use.
//
// Lookup order matches the panel's historical behavior: the explicitly
// configured command, then "ffmpeg" from PATH, then an ffmpeg binary
// bundled next to the running executable. When nothing is runnable, the
// configured command is still reported so the caller can show the user what
// was tried.
func ResolveFFmpeg(cfg FFmpegConfig) Status {
	result := Status{
		Name:        "FFmpeg",
		Description: "External encoder used for probing and conversion",
	}

	if configured := cfg.ConfiguredCommand(); configured != "" {
		result.Command = configured
		if IsRunnable(configured) {
			result.Available = true
			return result
		}
	}

	if path, err := exec.LookPath("ffmpeg"); err == nil {
		result.Command = path
		result.Available = true
		return result
	}

	if candidate, ok := sidecarCandidate(); ok {
		if info, err := os.Stat(candidate); err == nil && isExecutable(info) {
			result.Command = candidate
			result.Available = true
			return result
		}
	}

	if result.Command == "" {
		result.Command = "ffmpeg"
	}
	result.Detail = fmt.Sprintf("binary %q not found", result.Command)
	return result
}

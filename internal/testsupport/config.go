// Package testsupport builds configs and stub binaries for tests that
// exercise the full probe/convert path without a real ffmpeg.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"sprocket/internal/config"
	"sprocket/internal/deps"
)

// NewConfig produces a config seeded with unique temp directories per test.
// The poll interval is tightened so cancellation tests finish quickly.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.SettingsPath = filepath.Join(base, "settings.json")
	cfg.Paths.FFmpegConfigPath = filepath.Join(base, "ffmpeg.json")
	cfg.Paths.HistoryDB = filepath.Join(base, "history.db")
	cfg.FFmpeg.PollIntervalMS = 10
	cfg.Logging.Format = "json"
	cfg.Logging.Level = "warn"
	return &cfg
}

// WriteConfig marshals cfg to a TOML file the CLI can load with --config.
func WriteConfig(t testing.TB, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// stubFFmpegScript prints plausible stream diagnostics on stderr and exits
// cleanly, which satisfies both probe and conversion invocations.
const stubFFmpegScript = `#!/bin/sh
echo "  Stream #0:0[0x1](und): Video: h264 (High) (avc1 / 0x31637661), yuv420p, 1920x1080 [SAR 1:1 DAR 16:9], 24 fps" 1>&2
echo "  Stream #0:1[0x2](und): Audio: aac (LC) (mp4a / 0x6134706D), 48000 Hz, stereo" 1>&2
exit 0
`

// StubFFmpeg writes an executable ffmpeg stand-in into dir and returns its
// path.
func StubFFmpeg(t testing.TB, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "ffmpeg-stub")
	if err := os.WriteFile(path, []byte(stubFFmpegScript), 0o755); err != nil {
		t.Fatalf("write ffmpeg stub: %v", err)
	}
	return path
}

// WriteFFmpegConfig writes a discovery record selecting PC with the given
// command.
func WriteFFmpegConfig(t testing.TB, path, command string) {
	t.Helper()
	cfg := deps.FFmpegConfig{OperatingSystem: deps.OSPC, CommandPC: command}
	if err := deps.SaveFFmpegConfig(path, cfg); err != nil {
		t.Fatalf("write ffmpeg config: %v", err)
	}
}

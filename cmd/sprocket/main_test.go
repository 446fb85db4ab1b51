package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigInit(t *testing.T) {
	env := setupCLITestEnv(t)

	tmp := t.TempDir()
	target := filepath.Join(tmp, "config.toml")
	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, env.configPath)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	// Refuses to clobber without --overwrite.
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, env.configPath); err == nil {
		t.Fatal("expected error for existing config file")
	}
}

func TestConfigShow(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "poll_interval_ms")
}

func TestDepsReportsStubFFmpeg(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"deps"}, env.configPath)
	if err != nil {
		t.Fatalf("deps: %v", err)
	}
	requireContains(t, out, env.ffmpegPath)
	requireContains(t, out, "OS selection: PC")
}

func TestFFmpegShowAndSwitchOS(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"ffmpeg", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("ffmpeg show: %v", err)
	}
	requireContains(t, out, env.ffmpegPath)

	out, _, err = runCLI(t, []string{"ffmpeg", "os", "mac"}, env.configPath)
	if err != nil {
		t.Fatalf("ffmpeg os: %v", err)
	}
	requireContains(t, out, "now MAC")

	out, _, err = runCLI(t, []string{"ffmpeg", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("ffmpeg show after switch: %v", err)
	}
	requireContains(t, out, "MAC")
}

func TestProbeCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"probe", "/footage/a.mp4"}, env.configPath)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	requireContains(t, out, "1920x1080")
	requireContains(t, out, "yes")
}

func TestConvertEndToEnd(t *testing.T) {
	env := setupCLITestEnv(t)
	outDir := filepath.Join(env.baseDir, "renders")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatalf("mkdir renders: %v", err)
	}

	out, _, err := runCLI(t, []string{
		"convert", "/footage/a.mp4",
		"--out", outDir,
		"--name", "daily",
		"--format", "MP4",
	}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v (output: %s)", err, out)
	}
	requireContains(t, out, "succeeded")

	// The attempt is visible in history and the settings file autosaved.
	out, _, err = runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "Succeeded")

	out, _, err = runCLI(t, []string{"settings", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("settings show: %v", err)
	}
	requireContains(t, out, "/footage/a.mp4")
	requireContains(t, out, "daily")

	// The retained log artifact is readable and exportable.
	out, _, err = runCLI(t, []string{"logs"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "Video:")

	exportPath := filepath.Join(env.baseDir, "exported.txt")
	if _, _, err := runCLI(t, []string{"logs", "export", exportPath}, env.configPath); err != nil {
		t.Fatalf("logs export: %v", err)
	}
	if _, err := os.Stat(exportPath); err != nil {
		t.Fatalf("expected exported log: %v", err)
	}
}

func TestConvertValidationFailure(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{
		"convert", "/footage/a.mp4",
		"--out", filepath.Join(env.baseDir, "missing-dir"),
		"--name", "daily",
	}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "output directory") {
		t.Fatalf("expected output directory validation error, got %v", err)
	}
}

func TestHistoryEmpty(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No conversions recorded yet.")
}

func TestSettingsPath(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, []string{"settings", "path"}, env.configPath)
	if err != nil {
		t.Fatalf("settings path: %v", err)
	}
	requireContains(t, out, "settings.json")
}

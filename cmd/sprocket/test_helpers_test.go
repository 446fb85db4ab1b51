package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"sprocket/internal/testsupport"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	ffmpegPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	base := filepath.Dir(cfg.Paths.SettingsPath)

	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	ffmpegPath := testsupport.StubFFmpeg(t, base)
	testsupport.WriteFFmpegConfig(t, cfg.Paths.FFmpegConfigPath, ffmpegPath)

	configPath := filepath.Join(base, "config.toml")
	testsupport.WriteConfig(t, configPath, cfg)

	return &cliTestEnv{baseDir: base, configPath: configPath, ffmpegPath: ffmpegPath}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFFmpegConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "ffmpeg.json")
	cfg := FFmpegConfig{
		OperatingSystem: OSPC,
		CommandPC:       `C:\tools\ffmpeg\bin\ffmpeg.exe`,
		CommandMAC:      "/usr/local/bin/ffmpeg",
	}
	if err := SaveFFmpegConfig(path, cfg); err != nil {
		t.Fatalf("SaveFFmpegConfig: %v", err)
	}

	loaded, err := LoadFFmpegConfig(path)
	if err != nil {
		t.Fatalf("LoadFFmpegConfig: %v", err)
	}
	if loaded != cfg {
		t.Fatalf("round trip mismatch: %#v != %#v", loaded, cfg)
	}
}

func TestLoadFFmpegConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFFmpegConfig(filepath.Join(t.TempDir(), "ffmpeg.json"))
	if err != nil {
		t.Fatalf("LoadFFmpegConfig: %v", err)
	}
	if cfg.OperatingSystem != OSPC && cfg.OperatingSystem != OSMac {
		t.Fatalf("expected platform default OS, got %q", cfg.OperatingSystem)
	}
}

func TestLoadFFmpegConfigRejectsUnknownOS(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ffmpeg.json")
	if err := os.WriteFile(path, []byte(`{"operatingSystem":"AMIGA"}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadFFmpegConfig(path); err == nil {
		t.Fatal("expected error for unknown operating system")
	}
}

func TestConfiguredCommandFollowsOSSelection(t *testing.T) {
	cfg := FFmpegConfig{OperatingSystem: OSMac, CommandPC: "pc.exe", CommandMAC: "/opt/ffmpeg"}
	if got := cfg.ConfiguredCommand(); got != "/opt/ffmpeg" {
		t.Fatalf("ConfiguredCommand = %q", got)
	}
	cfg.OperatingSystem = OSPC
	if got := cfg.ConfiguredCommand(); got != "pc.exe" {
		t.Fatalf("ConfiguredCommand = %q", got)
	}
	cfg.SetCommand("other.exe")
	if cfg.CommandPC != "other.exe" || cfg.CommandMAC != "/opt/ffmpeg" {
		t.Fatalf("SetCommand touched the wrong slot: %#v", cfg)
	}
}

func TestResolveFFmpegPrefersConfiguredCommand(t *testing.T) {
	dir := t.TempDir()
	configured := filepath.Join(dir, "ffmpeg-custom")
	writeStub(t, configured)

	cfg := FFmpegConfig{OperatingSystem: OSMac, CommandMAC: configured}
	status := ResolveFFmpeg(cfg)
	if !status.Available {
		t.Fatalf("expected configured command to resolve, got %#v", status)
	}
	if status.Command != configured {
		t.Fatalf("expected %q, got %q", configured, status.Command)
	}
}

func TestResolveFFmpegFallsBackToPath(t *testing.T) {
	binDir := t.TempDir()
	ffmpegPath := filepath.Join(binDir, "ffmpeg")
	writeStub(t, ffmpegPath)
	t.Setenv("PATH", binDir)

	status := ResolveFFmpeg(FFmpegConfig{OperatingSystem: OSMac})
	if !status.Available {
		t.Fatalf("expected PATH fallback, got %#v", status)
	}
	if status.Command != ffmpegPath {
		t.Fatalf("expected %q, got %q", ffmpegPath, status.Command)
	}
}

func TestResolveFFmpegNotFoundKeepsConfiguredCommand(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	cfg := FFmpegConfig{OperatingSystem: OSMac, CommandMAC: "/nonexistent/ffmpeg"}
	status := ResolveFFmpeg(cfg)
	if status.Available {
		t.Fatal("expected resolution to fail")
	}
	if status.Command != "/nonexistent/ffmpeg" {
		t.Fatalf("expected configured command to be reported, got %q", status.Command)
	}
	if status.Detail == "" {
		t.Fatal("expected detail message")
	}
}

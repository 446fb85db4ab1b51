package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeFFmpeg()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.SettingsPath) == "" {
		c.Paths.SettingsPath = defaultSettingsPath
	}
	if c.Paths.SettingsPath, err = expandPath(c.Paths.SettingsPath); err != nil {
		return fmt.Errorf("paths.settings_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.FFmpegConfigPath) == "" {
		c.Paths.FFmpegConfigPath = defaultFFmpegConfigPath
	}
	if c.Paths.FFmpegConfigPath, err = expandPath(c.Paths.FFmpegConfigPath); err != nil {
		return fmt.Errorf("paths.ffmpeg_config_path: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryDB) == "" {
		c.Paths.HistoryDB = defaultHistoryDB
	}
	if c.Paths.HistoryDB, err = expandPath(c.Paths.HistoryDB); err != nil {
		return fmt.Errorf("paths.history_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeFFmpeg() {
	if c.FFmpeg.ProbeWindowSeconds <= 0 {
		c.FFmpeg.ProbeWindowSeconds = defaultProbeWindowSeconds
	}
	if c.FFmpeg.PollIntervalMS <= 0 {
		c.FFmpeg.PollIntervalMS = defaultPollIntervalMS
	}
	if c.FFmpeg.SilenceDurationSeconds <= 0 {
		c.FFmpeg.SilenceDurationSeconds = defaultSilenceDurationSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateFFmpeg(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateFFmpeg() error {
	if c.FFmpeg.ProbeWindowSeconds <= 0 {
		return errors.New("ffmpeg.probe_window_seconds must be positive")
	}
	if c.FFmpeg.PollIntervalMS <= 0 {
		return errors.New("ffmpeg.poll_interval_ms must be positive")
	}
	if c.FFmpeg.SilenceDurationSeconds <= 0 {
		return errors.New("ffmpeg.silence_duration_seconds must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	return nil
}

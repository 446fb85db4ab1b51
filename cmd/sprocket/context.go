package main

import (
	"log/slog"
	"strings"
	"sync"

	"sprocket/internal/config"
	"sprocket/internal/deps"
	"sprocket/internal/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// ensureLogger builds the process logger from the loaded configuration.
// Falls back to a no-op logger when configuration is unavailable so
// commands can still report their own errors.
func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

// ffmpegConfig loads the JSON discovery record from the configured path.
func (c *commandContext) ffmpegConfig() (deps.FFmpegConfig, string, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return deps.FFmpegConfig{}, "", err
	}
	ffCfg, err := deps.LoadFFmpegConfig(cfg.Paths.FFmpegConfigPath)
	return ffCfg, cfg.Paths.FFmpegConfigPath, err
}

// ffmpegStatus resolves the runnable ffmpeg command for this machine.
func (c *commandContext) ffmpegStatus() (deps.Status, error) {
	ffCfg, _, err := c.ffmpegConfig()
	if err != nil {
		return deps.Status{}, err
	}
	return deps.ResolveFFmpeg(ffCfg), nil
}

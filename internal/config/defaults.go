package config

const (
	defaultLogDir                 = "~/.local/share/sprocket/logs"
	defaultSettingsPath           = "~/.config/sprocket/settings.json"
	defaultFFmpegConfigPath       = "~/.config/sprocket/ffmpeg.json"
	defaultHistoryDB              = "~/.local/share/sprocket/history.db"
	defaultProbeWindowSeconds     = 1
	defaultPollIntervalMS         = 100
	defaultSilenceDurationSeconds = 0.1
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:           defaultLogDir,
			SettingsPath:     defaultSettingsPath,
			FFmpegConfigPath: defaultFFmpegConfigPath,
			HistoryDB:        defaultHistoryDB,
		},
		FFmpeg: FFmpeg{
			ProbeWindowSeconds:     defaultProbeWindowSeconds,
			PollIntervalMS:         defaultPollIntervalMS,
			SilenceDurationSeconds: defaultSilenceDurationSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

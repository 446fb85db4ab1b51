package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"sprocket/internal/convert"
	"sprocket/internal/logging"
	"sprocket/internal/media"
	"sprocket/internal/services"
)

// SourceEntry is one row of the ordered input list as it appears on disk.
type SourceEntry struct {
	Input string `json:"input"`
}

// OutputSize marshals as a two-element [width, height] array. A nil
// *OutputSize serializes as null, which means "use the native source size".
type OutputSize struct {
	media.Size
}

func (s OutputSize) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{s.Width, s.Height})
}

func (s *OutputSize) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("output size must be a [width, height] pair: %w", err)
	}
	s.Width, s.Height = pair[0], pair[1]
	return nil
}

// Settings is the panel state persisted between launches. The field names
// and shapes are a shared contract with other tools that read the same
// file, so they stay camelCase and must not change.
type Settings struct {
	InputSources    []SourceEntry `json:"inputSources"`
	OutputDirectory string        `json:"outputDirectory"`
	OutputSize      *OutputSize   `json:"outputSize"`
	KeepProportions bool          `json:"keepProportions"`
	OutputFileName  string        `json:"outputFileName"`
	FrameNumDigits  int           `json:"frameNumDigits"`
	FileFormat      string        `json:"fileFormat"`
}

// Default returns the settings a fresh panel starts from: one empty source
// row, proportions linked, four frame digits, MP4 output.
func Default() Settings {
	return Settings{
		InputSources:    []SourceEntry{{}},
		KeepProportions: true,
		FrameNumDigits:  4,
		FileFormat:      "MP4",
	}
}

// Normalize repairs values that drifted out of range in a hand-edited file.
// The source list always has at least one row and the frame digit count is
// clamped to the 1..4 range the output pattern supports.
func (s *Settings) Normalize() {
	if len(s.InputSources) == 0 {
		s.InputSources = []SourceEntry{{}}
	}
	if s.FrameNumDigits < 1 {
		s.FrameNumDigits = 1
	}
	if s.FrameNumDigits > 4 {
		s.FrameNumDigits = 4
	}
	if _, ok := convert.FormatByName(s.FileFormat); !ok {
		s.FileFormat = Default().FileFormat
	} else {
		s.FileFormat = strings.ToUpper(s.FileFormat)
	}
}

// Store persists Settings to a single JSON file. Loads of a missing file
// return defaults; saves are atomic so a crash mid-write never leaves a
// truncated settings file behind.
type Store struct {
	path   string
	logger *slog.Logger
}

func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logging.NewComponentLogger(logger, "settings"),
	}
}

// Path returns the settings file location.
func (st *Store) Path() string {
	return st.path
}

// Load reads settings from disk. A missing or empty file yields defaults; a
// malformed file is an error so the caller can tell the user rather than
// silently discarding their saved state.
func (st *Store) Load() (Settings, error) {
	data, err := os.ReadFile(st.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Settings{}, services.Wrap(services.ErrConfiguration, "settings", "load", "cannot read settings file", err)
	}
	if len(data) == 0 {
		return Default(), nil
	}

	var loaded Settings
	if err := json.Unmarshal(data, &loaded); err != nil {
		return Settings{}, services.Wrap(services.ErrConfiguration, "settings", "load", "settings file is not valid JSON", err)
	}
	loaded.Normalize()

	st.logger.Debug("loaded settings",
		logging.Int("source_count", len(loaded.InputSources)),
		logging.String("path", st.path))

	return loaded, nil
}

// Save writes settings to disk atomically via a temp file rename.
func (st *Store) Save(s Settings) error {
	s.Normalize()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "settings", "save", "cannot encode settings", err)
	}

	dir := filepath.Dir(st.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "settings", "save", "cannot create settings directory", err)
	}

	tmpPath := st.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return services.Wrap(services.ErrConfiguration, "settings", "save", "cannot write settings file", err)
	}
	if err := os.Rename(tmpPath, st.path); err != nil {
		os.Remove(tmpPath)
		return services.Wrap(services.ErrConfiguration, "settings", "save", "cannot replace settings file", err)
	}

	st.logger.Debug("saved settings", logging.String("path", st.path))
	return nil
}

package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrProbe marks a source probe that could not determine media properties.
	// Always recovered locally: the source falls back to unknown size/audio.
	ErrProbe = errors.New("probe failed")
	// ErrValidation marks user input that blocks a conversion before any
	// process is spawned.
	ErrValidation = errors.New("validation error")
	// ErrFFmpegNotFound marks a configured encoder command that does not
	// resolve to a runnable executable.
	ErrFFmpegNotFound = errors.New("ffmpeg not found")
	// ErrConversion marks a conversion process that exited nonzero.
	ErrConversion = errors.New("conversion failed")
	// ErrCancelled marks a user-initiated stop; not treated as a failure.
	ErrCancelled = errors.New("conversion cancelled")
	// ErrConfiguration marks unusable application configuration.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrConversion
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsBlocking reports whether an error must stop a conversion from starting.
// Probe errors degrade the affected source instead of blocking the panel.
func IsBlocking(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrProbe)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}

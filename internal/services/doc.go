// Package services defines the shared error taxonomy and context annotations
// used across sprocket components.
//
// Errors are tagged with sentinel markers (ErrProbe, ErrValidation,
// ErrFFmpegNotFound, ErrConversion, ErrCancelled) via Wrap so callers can
// classify failures with errors.Is without parsing message text.
package services

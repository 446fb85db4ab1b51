package services

import (
	"errors"
	"testing"
)

func TestWrapTagsMarker(t *testing.T) {
	inner := errors.New("exit status 1")
	err := Wrap(ErrConversion, "jobs", "run ffmpeg", "Conversion process exited nonzero", inner)
	if !errors.Is(err, ErrConversion) {
		t.Fatalf("expected conversion marker, got %v", err)
	}
	if !errors.Is(err, inner) {
		t.Fatalf("expected inner error to be preserved, got %v", err)
	}
}

func TestWrapNilMarkerDefaults(t *testing.T) {
	err := Wrap(nil, "jobs", "", "", nil)
	if !errors.Is(err, ErrConversion) {
		t.Fatalf("expected default marker, got %v", err)
	}
}

func TestWrapDetailFallsBack(t *testing.T) {
	err := Wrap(ErrValidation, "", "", "", nil)
	if got := err.Error(); got != "validation error: service failure" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestIsBlocking(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"probe", Wrap(ErrProbe, "probe", "scan", "no video line", nil), false},
		{"validation", Wrap(ErrValidation, "panel", "validate", "missing input", nil), true},
		{"ffmpeg missing", Wrap(ErrFFmpegNotFound, "deps", "resolve", "not runnable", nil), true},
	}
	for _, tc := range cases {
		if got := IsBlocking(tc.err); got != tc.want {
			t.Fatalf("%s: IsBlocking = %v, want %v", tc.name, got, tc.want)
		}
	}
}

// Package logs reads the ffmpeg log artifacts the probe and job runner
// leave on disk. Each run rewrites its artifact in place, so readers only
// ever see one run's output.
package logs

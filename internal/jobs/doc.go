// Package jobs runs ffmpeg conversion processes one at a time.
//
// A Runner owns the full lifecycle of a job: it spawns the process with its
// output redirected to the conversion log artifact, watches for cancellation
// on a fixed tick, and hands the terminal Outcome back to the caller on the
// host executor. The log artifact is truncated at start and left on disk
// after completion so the panel can surface it on failure.
package jobs

// Package convert builds ffmpeg argument vectors for conversion jobs.
//
// Build is a pure function from a validated Job to a command line: inputs in
// source order, an optional synthetic silence input, a filter graph that
// scales every source to the target size and concatenates multi-source jobs,
// and per-format encoder settings. The concat filter is skipped entirely for
// single-source jobs rather than degenerating to n=1.
package convert

// Package probe reads a source's resolution and audio presence by running
// ffmpeg over a short initial window of the media and scraping its
// diagnostic output.
//
// The scrape is deliberately line-based rather than using ffprobe's JSON
// mode: the panel has always keyed off the human-readable Video/Audio
// stream lines, including the codec-tag workaround in parseResolution, and
// keeping the heuristic preserves behavior across ffmpeg builds that
// predate structured output.
package probe

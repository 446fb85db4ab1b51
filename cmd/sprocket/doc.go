// Command sprocket is the conversion panel's companion CLI. It shares the
// panel's configuration, settings file, ffmpeg discovery record, and
// conversion history, so jobs launched here look exactly like jobs launched
// from the panel.
package main

// Package media holds resolution types shared by the probe, the source
// list, and the command builder, including the even-pixel normalization
// required by chroma-subsampled encoder pixel formats.
package media

package convert

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"sprocket/internal/media"
)

// Source is one conversion input in concatenation order.
type Source struct {
	// Path is a file path or a printf-style sequence pattern.
	Path string
	// HasAudio is the probed audio-presence snapshot for this source.
	HasAudio bool
}

// Job is a fully validated conversion request. Build assumes the caller has
// already rejected jobs with no sources, an unknown output size, or an empty
// base name.
type Job struct {
	FFmpeg      string
	Sources     []Source
	OutputDir   string
	OutputSize  media.Size
	BaseName    string
	FrameDigits int
	Format      Format
	// SilenceSeconds is the duration of the synthetic silent input appended
	// when some concatenated sources lack audio.
	SilenceSeconds float64
}

// HasAudio reports whether the finished job carries an audio stream: only
// movie formats can, and only when at least one source has audio.
func (j Job) HasAudio() bool {
	if !j.Format.IsMovie {
		return false
	}
	for _, src := range j.Sources {
		if src.HasAudio {
			return true
		}
	}
	return false
}

// needsSilence reports whether a synthetic silent input must be appended to
// keep every concatenated segment uniform: the job has audio but at least
// one source does not.
func (j Job) needsSilence() bool {
	if !j.HasAudio() {
		return false
	}
	for _, src := range j.Sources {
		if !src.HasAudio {
			return true
		}
	}
	return false
}

// Build maps a job onto a concrete ffmpeg argument vector, element zero
// being the ffmpeg command itself. It is a pure function: identical jobs
// yield identical vectors.
func Build(job Job) []string {
	jobAudio := job.HasAudio()
	needSilence := job.needsSilence()

	args := []string{job.FFmpeg, "-nostdin", "-y"}
	for _, src := range job.Sources {
		args = append(args, "-i", src.Path)
	}
	// The silent generator is the last input, so its stream index is
	// len(job.Sources).
	if needSilence {
		args = append(args,
			"-f", "lavfi",
			"-t", strconv.FormatFloat(job.SilenceSeconds, 'f', -1, 64),
			"-i", "anullsrc",
		)
	}

	args = append(args, "-filter_complex", buildFilterGraph(job, jobAudio, len(job.Sources)))

	if len(job.Sources) > 1 {
		// Concatenation can produce a variable effective frame rate that
		// trips the muxer; forcing frame-rate sync avoids the error.
		args = append(args, "-vsync", "2")
	}

	args = append(args, "-map", "[v]")
	if jobAudio {
		args = append(args, "-map", "[a]")
	}

	switch job.Format.Name {
	case "MP4":
		args = append(args,
			"-c:v", "libx264",
			"-c:a", "aac",
			"-movflags", "+faststart",
			filepath.Join(job.OutputDir, job.BaseName+".mp4"),
		)
	case "AVI":
		args = append(args,
			"-c:v", "rawvideo",
			"-pix_fmt", "yuv420p",
			filepath.Join(job.OutputDir, job.BaseName+".avi"),
		)
	default:
		pattern := fmt.Sprintf("%s.%%0%dd.%s", job.BaseName, job.FrameDigits, job.Format.Extension)
		args = append(args, filepath.Join(job.OutputDir, pattern))
	}

	return args
}

// buildFilterGraph emits the semicolon-joined filter clauses scaling every
// source to the target size and, for multi-source jobs, concatenating them
// into the final [v]/[a] labels.
func buildFilterGraph(job Job, jobAudio bool, silenceIndex int) string {
	scale := fmt.Sprintf("scale=%d:%d,setsar=1", job.OutputSize.Width, job.OutputSize.Height)
	mp4 := job.Format.Name == "MP4"

	if len(job.Sources) == 1 {
		var clauses []string
		chain := scale
		if mp4 {
			// Downstream H.264 encoding requires 4:2:0 chroma subsampling.
			chain += ",format=yuv420p"
		}
		clauses = append(clauses, fmt.Sprintf("[0:v]%s[v]", chain))
		if jobAudio && job.Sources[0].HasAudio {
			clauses = append(clauses, "[0:a]anull[a]")
		}
		return strings.Join(clauses, ";")
	}

	clauses := make([]string, 0, len(job.Sources)+2)
	for i := range job.Sources {
		clauses = append(clauses, fmt.Sprintf("[%d:v]%s[v%d]", i, scale, i))
	}

	videoOut := "[v]"
	if mp4 {
		videoOut = "[vc]"
	}

	var concat strings.Builder
	for i, src := range job.Sources {
		fmt.Fprintf(&concat, "[v%d]", i)
		if jobAudio {
			if src.HasAudio {
				fmt.Fprintf(&concat, "[%d:a]", i)
			} else {
				fmt.Fprintf(&concat, "[%d:a]", silenceIndex)
			}
		}
	}
	fmt.Fprintf(&concat, "concat=n=%d:v=1", len(job.Sources))
	if jobAudio {
		concat.WriteString(":a=1")
		concat.WriteString(videoOut)
		concat.WriteString("[a]")
	} else {
		concat.WriteString(":a=0")
		concat.WriteString(videoOut)
	}
	clauses = append(clauses, concat.String())

	if mp4 {
		clauses = append(clauses, "[vc]format=yuv420p[v]")
	}
	return strings.Join(clauses, ";")
}

// CommandLine renders an argument vector with each argument individually
// quoted, for diagnostics and the conversion history.
func CommandLine(args []string) string {
	quoted := make([]string, 0, len(args))
	for _, arg := range args {
		quoted = append(quoted, strconv.Quote(arg))
	}
	return strings.Join(quoted, " ")
}

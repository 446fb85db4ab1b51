package panel

import (
	"sprocket/internal/jobs"
	"sprocket/internal/media"
)

// SourceState is one row of the ordered input list: the path the user typed
// plus the cached probe results. Size and HasAudio stay nil until a probe
// succeeds so "unknown" is distinguishable from "no audio".
type SourceState struct {
	Path     string
	Size     *media.Size
	HasAudio *bool
}

// Known reports whether the source has probed metadata.
func (s SourceState) Known() bool {
	return s.Size != nil
}

// State is the full panel model. It is a plain value: Reduce never mutates
// its input, so callers can keep old states for comparison.
type State struct {
	Sources         []SourceState
	OutputDirectory string
	WidthText       string
	HeightText      string
	KeepProportions bool
	OutputFileName  string
	FrameDigits     int
	Format          string
	Job             jobs.State
}

// clone returns a deep copy so reducers can modify freely.
func (s State) clone() State {
	out := s
	out.Sources = make([]SourceState, len(s.Sources))
	copy(out.Sources, s.Sources)
	return out
}

// aspectSource returns the first source with probed size. The proportions
// linkage and the native-size fallback both key off it.
func (s State) aspectSource() (media.Size, bool) {
	for _, src := range s.Sources {
		if src.Size != nil {
			return *src.Size, true
		}
	}
	return media.Size{}, false
}

// Action is one user or system event applied to the panel model.
type Action interface{ isAction() }

type (
	// AddSource appends an empty source row.
	AddSource struct{}
	// RemoveSource deletes a row. Removing the last remaining row is a
	// no-op; the panel always shows at least one.
	RemoveSource struct{ Index int }
	// MoveSource reorders a row; order is concatenation order.
	MoveSource struct{ From, To int }
	// SetSourcePath replaces a row's path and invalidates its cached
	// metadata. Emits a probe effect.
	SetSourcePath struct {
		Index int
		Path  string
	}
	// SourceProbed records a probe result for a row. Failed probes carry
	// nil fields and leave the row in the unknown state.
	SourceProbed struct {
		Index    int
		Size     *media.Size
		HasAudio *bool
	}
	// FFmpegChanged invalidates every row's cache and re-probes all of
	// them with the new binary.
	FFmpegChanged struct{}

	SetOutputDirectory struct{ Path string }
	SetOutputFileName  struct{ Name string }
	SetFrameDigits     struct{ Digits int }
	SetFormat          struct{ Name string }
	// SetWidthText stores the raw field text; when proportions are linked
	// and the text parses, the height field is recomputed from the first
	// known source's aspect ratio.
	SetWidthText        struct{ Text string }
	SetHeightText       struct{ Text string }
	SetKeepProportions  struct{ Linked bool }
	ConversionStarted   struct{}
	ConversionCompleted struct{ Outcome jobs.Outcome }
)

func (AddSource) isAction()           {}
func (RemoveSource) isAction()        {}
func (MoveSource) isAction()          {}
func (SetSourcePath) isAction()       {}
func (SourceProbed) isAction()        {}
func (FFmpegChanged) isAction()       {}
func (SetOutputDirectory) isAction()  {}
func (SetOutputFileName) isAction()   {}
func (SetFrameDigits) isAction()      {}
func (SetFormat) isAction()           {}
func (SetWidthText) isAction()        {}
func (SetHeightText) isAction()       {}
func (SetKeepProportions) isAction()  {}
func (ConversionStarted) isAction()   {}
func (ConversionCompleted) isAction() {}

// Effect is work the controller performs after a reduction: probes and any
// other interaction with the world stay out of the pure transition.
type Effect interface{ isEffect() }

// ProbeSource asks the controller to probe one row and feed the result back
// as a SourceProbed action.
type ProbeSource struct{ Index int }

func (ProbeSource) isEffect() {}

// Reduce applies one action and returns the next state plus the effects the
// controller must run. It is a pure function of its arguments.
func Reduce(s State, action Action) (State, []Effect) {
	next := s.clone()

	switch a := action.(type) {
	case AddSource:
		next.Sources = append(next.Sources, SourceState{})

	case RemoveSource:
		if len(next.Sources) <= 1 || a.Index < 0 || a.Index >= len(next.Sources) {
			return s, nil
		}
		next.Sources = append(next.Sources[:a.Index], next.Sources[a.Index+1:]...)

	case MoveSource:
		if a.From < 0 || a.From >= len(next.Sources) || a.To < 0 || a.To >= len(next.Sources) || a.From == a.To {
			return s, nil
		}
		src := next.Sources[a.From]
		next.Sources = append(next.Sources[:a.From], next.Sources[a.From+1:]...)
		next.Sources = append(next.Sources, SourceState{})
		copy(next.Sources[a.To+1:], next.Sources[a.To:])
		next.Sources[a.To] = src

	case SetSourcePath:
		if a.Index < 0 || a.Index >= len(next.Sources) {
			return s, nil
		}
		next.Sources[a.Index] = SourceState{Path: a.Path}
		if a.Path != "" {
			return next, []Effect{ProbeSource{Index: a.Index}}
		}

	case SourceProbed:
		if a.Index < 0 || a.Index >= len(next.Sources) {
			return s, nil
		}
		next.Sources[a.Index].Size = a.Size
		next.Sources[a.Index].HasAudio = a.HasAudio

	case FFmpegChanged:
		effects := make([]Effect, 0, len(next.Sources))
		for i := range next.Sources {
			next.Sources[i].Size = nil
			next.Sources[i].HasAudio = nil
			if next.Sources[i].Path != "" {
				effects = append(effects, ProbeSource{Index: i})
			}
		}
		return next, effects

	case SetOutputDirectory:
		next.OutputDirectory = a.Path

	case SetOutputFileName:
		next.OutputFileName = a.Name

	case SetFrameDigits:
		digits := a.Digits
		if digits < 1 {
			digits = 1
		}
		if digits > 4 {
			digits = 4
		}
		next.FrameDigits = digits

	case SetFormat:
		next.Format = a.Name

	case SetWidthText:
		next.WidthText = a.Text
		next.linkHeightToWidth()

	case SetHeightText:
		next.HeightText = a.Text
		next.linkWidthToHeight()

	case SetKeepProportions:
		next.KeepProportions = a.Linked
		if a.Linked {
			next.linkHeightToWidth()
		}

	case ConversionStarted:
		next.Job = jobs.StateRunning

	case ConversionCompleted:
		next.Job = jobs.StateIdle
	}

	return next, nil
}

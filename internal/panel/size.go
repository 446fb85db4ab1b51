package panel

import (
	"errors"
	"strconv"
	"strings"

	"sprocket/internal/media"
)

// ErrMalformedSize marks width/height field text that is present but not a
// positive integer. It is deliberately distinct from the nil size returned
// for empty fields, which means "use the native source size".
var ErrMalformedSize = errors.New("output size is not a whole number")

// ParseOutputSize interprets the two size fields. Either field empty yields
// a nil size (native fallback); non-numeric or non-positive text yields
// ErrMalformedSize. A parsed size is normalized to even dimensions.
func ParseOutputSize(widthText, heightText string) (*media.Size, error) {
	widthText = strings.TrimSpace(widthText)
	heightText = strings.TrimSpace(heightText)
	if widthText == "" || heightText == "" {
		return nil, nil
	}

	width, err := strconv.Atoi(widthText)
	if err != nil || width <= 0 {
		return nil, ErrMalformedSize
	}
	height, err := strconv.Atoi(heightText)
	if err != nil || height <= 0 {
		return nil, ErrMalformedSize
	}

	size := media.Size{Width: width, Height: height}.Normalized()
	return &size, nil
}

// linkHeightToWidth recomputes the height field from the width field and
// the first known source's aspect ratio. Does nothing when proportions are
// unlinked, no source size is known, or the width text does not parse.
func (s *State) linkHeightToWidth() {
	if !s.KeepProportions {
		return
	}
	ref, ok := s.aspectSource()
	if !ok {
		return
	}
	width, err := strconv.Atoi(strings.TrimSpace(s.WidthText))
	if err != nil || width <= 0 {
		return
	}
	width = media.NormalizeEven(width)
	s.WidthText = strconv.Itoa(width)
	s.HeightText = strconv.Itoa(media.HeightForWidth(ref, width))
}

// linkWidthToHeight is the height-driven counterpart.
func (s *State) linkWidthToHeight() {
	if !s.KeepProportions {
		return
	}
	ref, ok := s.aspectSource()
	if !ok {
		return
	}
	height, err := strconv.Atoi(strings.TrimSpace(s.HeightText))
	if err != nil || height <= 0 {
		return
	}
	height = media.NormalizeEven(height)
	s.HeightText = strconv.Itoa(height)
	s.WidthText = strconv.Itoa(media.WidthForHeight(ref, height))
}

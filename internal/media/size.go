package media

import "math"

// Size is a pixel resolution. Width and height are kept even because the
// chroma-subsampled pixel formats the encoders use require it.
type Size struct {
	Width  int
	Height int
}

// IsZero reports whether the size carries no information.
func (s Size) IsZero() bool {
	return s.Width == 0 && s.Height == 0
}

// Normalized returns the size with both dimensions forced even.
func (s Size) Normalized() Size {
	return Size{Width: NormalizeEven(s.Width), Height: NormalizeEven(s.Height)}
}

// AspectRatio returns width divided by height, or 0 for degenerate sizes.
func (s Size) AspectRatio() float64 {
	if s.Width <= 0 || s.Height <= 0 {
		return 0
	}
	return float64(s.Width) / float64(s.Height)
}

// NormalizeEven rounds n to an even value, moving at most one pixel. Odd
// values round up so a 1-pixel dimension never collapses to zero.
func NormalizeEven(n int) int {
	if n%2 == 0 {
		return n
	}
	if n < 0 {
		return n - 1
	}
	return n + 1
}

// HeightForWidth recomputes the dependent height from the reference aspect
// ratio, rounding first and forcing even second, matching the proportions
// linkage the panel applies when the width field changes.
func HeightForWidth(reference Size, width int) int {
	if reference.Width <= 0 || reference.Height <= 0 {
		return 0
	}
	h := int(math.Round(float64(reference.Height) / float64(reference.Width) * float64(width)))
	return NormalizeEven(h)
}

// WidthForHeight is the counterpart linkage for height field changes.
func WidthForHeight(reference Size, height int) int {
	if reference.Width <= 0 || reference.Height <= 0 {
		return 0
	}
	w := int(math.Round(float64(reference.Width) / float64(reference.Height) * float64(height)))
	return NormalizeEven(w)
}

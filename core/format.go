package core

// OutputFormat selects how the signal channel delivers its result.
type OutputFormat uint8

const (
	UnsignedRightAligned OutputFormat = iota
	SignedRightAligned
	LeftAligned
)

// Labels are padded to the same width so an in-place redraw fully
// overwrites the previous one.
var outputFormatLabels = [...]string{
	UnsignedRightAligned: "Unsigned/Right Aligned",
	SignedRightAligned:   "Signed/Right Aligned  ",
	LeftAligned:          "Left Aligned          ",
}

// Next returns the format that follows f, wrapping after LeftAligned.
func (f OutputFormat) Next() OutputFormat {
	switch f {
	case UnsignedRightAligned:
		return SignedRightAligned
	case SignedRightAligned:
		return LeftAligned
	default:
		return UnsignedRightAligned
	}
}

// Valid reports whether f is one of the defined formats.
func (f OutputFormat) Valid() bool {
	return f <= LeftAligned
}

func (f OutputFormat) String() string {
	if !f.Valid() {
		return "Unknown               "
	}
	return outputFormatLabels[f]
}

// Alignment returns the result register alignment for f.
func (f OutputFormat) Alignment() Alignment {
	if f == LeftAligned {
		return AlignLeft
	}
	return AlignRight
}

// SignExtension returns the hardware sign handling for f.
func (f OutputFormat) SignExtension() SignExtension {
	if f == SignedRightAligned {
		return SignSigned
	}
	return SignUnsigned
}

package core

const (
	// ResultMask keeps the 12 significant bits of a conversion code.
	ResultMask = 0xFFF

	// MidScale is the 12-bit code for VREFH/2. In signed format it is the
	// sign indicator and the zero point.
	MidScale = 0x800

	// LeftAlignShift is how far a left-aligned 12-bit result sits above
	// bit 0 of the 16-bit register.
	LeftAlignShift = 4

	// BandGapMilliVolt is the internal band-gap reference voltage.
	BandGapMilliVolt = 900
)

// ConversionSample is one completed conversion group.
type ConversionSample struct {
	Raw       uint16 // Signal channel code as delivered
	Reference uint16 // Band-gap channel code
}

// TransformResult recovers the right-justified 12-bit code from a raw
// result delivered in format f.
//
// Signed results are re-centred rather than negated: codes with bit 11
// set lose 0x800, codes without gain it, so mid-scale maps to zero.
func TransformResult(f OutputFormat, raw uint16) uint16 {
	switch f {
	case SignedRightAligned:
		code := raw & ResultMask
		if code&MidScale != 0 {
			return code - MidScale
		}
		return code + MidScale
	case LeftAligned:
		return (raw >> LeftAlignShift) & ResultMask
	default:
		return raw
	}
}

// MilliVolts scales code against the band-gap reference code measured in
// the same group. Division truncates. A zero reference yields zero.
func MilliVolts(code, reference uint16) uint32 {
	if reference == 0 {
		return 0
	}
	return uint32(code) * BandGapMilliVolt / uint32(reference)
}

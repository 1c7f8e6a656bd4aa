package audiocore

import "fmt"

// SampleFormat is the tagged variant of spec.md §3: unknown, linear float
// planar, interleaved integer PCM (16/24/32, both byte orders), IEEE-754
// float (32/64, both byte orders), or an opaque compressed tag.
type SampleFormat int

const (
	FormatUnknown SampleFormat = iota
	FormatLinear               // planar float64, one slice per channel
	FormatPCM16LE
	FormatPCM16BE
	FormatPCM24LE
	FormatPCM24BE
	FormatPCM32LE
	FormatPCM32BE
	FormatFloat32LE
	FormatFloat32BE
	FormatFloat64LE
	FormatFloat64BE
	// Opaque compressed formats: the graph moves their Chunks without
	// interpreting bytes. Concrete codec adaptors are out of scope (spec.md
	// §1 OUT OF SCOPE); these tags only let a Speakers describe their stream.
	FormatAC3
	FormatEAC3
	FormatMPA
	FormatDTS
)

func (f SampleFormat) String() string {
	switch f {
	case FormatUnknown:
		return "unknown"
	case FormatLinear:
		return "linear"
	case FormatPCM16LE:
		return "pcm16le"
	case FormatPCM16BE:
		return "pcm16be"
	case FormatPCM24LE:
		return "pcm24le"
	case FormatPCM24BE:
		return "pcm24be"
	case FormatPCM32LE:
		return "pcm32le"
	case FormatPCM32BE:
		return "pcm32be"
	case FormatFloat32LE:
		return "float32le"
	case FormatFloat32BE:
		return "float32be"
	case FormatFloat64LE:
		return "float64le"
	case FormatFloat64BE:
		return "float64be"
	case FormatAC3:
		return "ac3"
	case FormatEAC3:
		return "eac3"
	case FormatMPA:
		return "mpa"
	case FormatDTS:
		return "dts"
	default:
		return "?"
	}
}

// IsCompressed reports whether f is one of the opaque codec tags.
func (f SampleFormat) IsCompressed() bool {
	return f >= FormatAC3
}

// IsInteger reports whether f is an interleaved integer PCM format.
func (f SampleFormat) IsInteger() bool {
	return f >= FormatPCM16LE && f <= FormatPCM32BE
}

// BytesPerSample returns the on-wire width of one sample in f, or 0 for
// FormatLinear (not byte-addressable) and FormatUnknown/compressed formats.
func (f SampleFormat) BytesPerSample() int {
	switch f {
	case FormatPCM16LE, FormatPCM16BE:
		return 2
	case FormatPCM24LE, FormatPCM24BE:
		return 3
	case FormatPCM32LE, FormatPCM32BE, FormatFloat32LE, FormatFloat32BE:
		return 4
	case FormatFloat64LE, FormatFloat64BE:
		return 8
	default:
		return 0
	}
}

// ChannelRelation distinguishes plain multichannel audio from
// matrix-encoded stereo (spec.md §3).
type ChannelRelation int

const (
	RelationNone ChannelRelation = iota
	RelationDolby
	RelationDolbyPLII
)

func (r ChannelRelation) String() string {
	switch r {
	case RelationDolby:
		return "dolby"
	case RelationDolbyPLII:
		return "dolby-plii"
	default:
		return "none"
	}
}

// Speakers is an immutable stream descriptor (spec.md §3). The zero value is
// "unknown": FormatUnknown, empty mask, rate 0.
type Speakers struct {
	Format    SampleFormat
	Mask      ChannelMask
	Relation  ChannelRelation
	Rate      int     // Hz; 0 = "not yet known"
	RefLevel  float64 // 1.0 for linear, 2^(bits-1) for integer PCM
}

// Unknown is the zero-value Speakers used by data-driven filters before
// their first produced chunk.
var Unknown = Speakers{}

// NewLinear builds a fully-specified planar-float Speakers.
func NewLinear(mask ChannelMask, rate int) Speakers {
	return Speakers{Format: FormatLinear, Mask: mask, Rate: rate, RefLevel: 1.0}
}

// NewPCM builds a fully-specified interleaved-PCM Speakers with the
// canonical reference level for its bit depth.
func NewPCM(format SampleFormat, mask ChannelMask, rate int) Speakers {
	bits := format.BytesPerSample() * 8
	return Speakers{Format: format, Mask: mask, Rate: rate, RefLevel: float64(int64(1) << uint(bits-1))}
}

// NumChannels returns the mask's cardinality.
func (s Speakers) NumChannels() int { return s.Mask.NumChannels() }

// IsKnown reports whether s is "fully specified": rate > 0 and mask != 0,
// required for linear/PCM formats (spec.md §3 invariant). Compressed formats
// are considered known once their Format tag is set.
func (s Speakers) IsKnown() bool {
	if s.Format == FormatUnknown {
		return false
	}
	if s.Format.IsCompressed() {
		return true
	}
	return s.Rate > 0 && s.Mask != 0
}

// Equal reports field-wise equality; Speakers is a plain value type so this
// is just `==` with a named helper for readability at call sites.
func (s Speakers) Equal(o Speakers) bool { return s == o }

func (s Speakers) String() string {
	if s.Format == FormatUnknown {
		return "unknown"
	}
	return fmt.Sprintf("%s/%dch@%dHz/%s", s.Format, s.NumChannels(), s.Rate, s.Relation)
}

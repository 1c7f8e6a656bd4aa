package audiocore

// Channel is one bit position in a Speakers channel mask. The order mirrors
// the fixed channel-name set of spec.md §3 and doubles as the canonical
// interleaving order for ChannelOrder-less streams.
type Channel uint

const (
	ChannelL Channel = iota
	ChannelC
	ChannelR
	ChannelSL
	ChannelSR
	ChannelLFE
	ChannelCL
	ChannelCR
	ChannelBL
	ChannelBC
	ChannelBR
	numChannels
)

var channelNames = [numChannels]string{
	ChannelL:   "L",
	ChannelC:   "C",
	ChannelR:   "R",
	ChannelSL:  "SL",
	ChannelSR:  "SR",
	ChannelLFE: "LFE",
	ChannelCL:  "CL",
	ChannelCR:  "CR",
	ChannelBL:  "BL",
	ChannelBC:  "BC",
	ChannelBR:  "BR",
}

func (c Channel) String() string {
	if c < numChannels {
		return channelNames[c]
	}
	return "?"
}

// ChannelMask is a bitset over the fixed channel-name set. Bit i corresponds
// to Channel(i).
type ChannelMask uint16

// Has reports whether ch is present in the mask.
func (m ChannelMask) Has(ch Channel) bool {
	return m&(1<<ch) != 0
}

// Set returns the mask with ch added.
func (m ChannelMask) Set(ch Channel) ChannelMask {
	return m | (1 << ch)
}

// Clear returns the mask with ch removed.
func (m ChannelMask) Clear(ch Channel) ChannelMask {
	return m &^ (1 << ch)
}

// NumChannels returns the mask's cardinality (= nch for a Speakers using it).
func (m ChannelMask) NumChannels() int {
	n := 0
	for m != 0 {
		n += int(m & 1)
		m >>= 1
	}
	return n
}

// Channels returns the set channels in canonical (L,C,R,...) order.
func (m ChannelMask) Channels() []Channel {
	out := make([]Channel, 0, m.NumChannels())
	for ch := Channel(0); ch < numChannels; ch++ {
		if m.Has(ch) {
			out = append(out, ch)
		}
	}
	return out
}

// Index returns the 0-based interleaving position of ch within the mask, or
// -1 if ch is not set. Channels are ordered canonically regardless of the
// order in which they were Set.
func (m ChannelMask) Index(ch Channel) int {
	if !m.Has(ch) {
		return -1
	}
	idx := 0
	for c := Channel(0); c < ch; c++ {
		if m.Has(c) {
			idx++
		}
	}
	return idx
}

// Standard masks used by the mixer's downmix and bass-redirect defaults.
const (
	MaskMono    ChannelMask = 1 << ChannelC
	MaskStereo  ChannelMask = 1<<ChannelL | 1<<ChannelR
	MaskQuad    ChannelMask = 1<<ChannelL | 1<<ChannelR | 1<<ChannelSL | 1<<ChannelSR
	Mask3_1     ChannelMask = 1<<ChannelL | 1<<ChannelC | 1<<ChannelR | 1<<ChannelLFE
	Mask5_1     ChannelMask = 1<<ChannelL | 1<<ChannelC | 1<<ChannelR | 1<<ChannelSL | 1<<ChannelSR | 1<<ChannelLFE
	Mask7_1     ChannelMask = Mask5_1 | 1<<ChannelBL | 1<<ChannelBR
	MaskLFEOnly ChannelMask = 1 << ChannelLFE
)

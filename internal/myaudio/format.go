package myaudio

import (
	"encoding/binary"
	"math"

	"github.com/valib-go/valib/internal/audiocore"
	verrors "github.com/valib-go/valib/internal/errors"
)

var errUnsupportedFormat = verrors.New(nil).Component("myaudio.format").Category(verrors.CategoryValidation).
	Context("reason", "unsupported_sample_format").Build()

// FormatFilter converts between interleaved PCM/float wire formats and
// planar float64, applying a channel-order permutation along the way
// (spec.md §4.12: "input channel k is written to output channel order[k]").
// It buffers partial samples across chunk boundaries, since e.g. 24-bit PCM
// frames don't align with arbitrary chunk boundaries.
type FormatFilter struct {
	audiocore.BaseFilter

	// Order[k] is the output channel index that input channel k is
	// written to. A nil Order leaves channel order unchanged.
	Order []int

	in, out  audiocore.Speakers
	pending  []byte // undecoded tail bytes from the previous Process call
	nch      int
	sh       *audiocore.SyncHelper
	rate     int
}

// NewFormatFilter builds a converter with the given channel-order
// permutation (nil for identity order).
func NewFormatFilter(order []int) *FormatFilter {
	return &FormatFilter{Order: order}
}

func (f *FormatFilter) Name() string { return "format" }

func (f *FormatFilter) CanOpen(spk audiocore.Speakers) bool {
	return spk.Format != audiocore.FormatUnknown && !spk.Format.IsCompressed()
}

func (f *FormatFilter) IsOFDD() bool { return false }

// Open configures the filter to read `spk` and produce linear float
// (spk stays PCM in, planar float out) matching the teacher's single
// direction per instance convention. A FormatFilter only decodes; encoding
// planar float back to a wire format is done by EncodeLinear.
func (f *FormatFilter) Open(spk audiocore.Speakers) error {
	if !f.CanOpen(spk) {
		return errUnsupportedFormat
	}
	f.in = spk
	f.nch = spk.NumChannels()
	f.out = audiocore.NewLinear(spk.Mask, spk.Rate)
	f.pending = nil
	f.rate = spk.Rate
	f.sh = audiocore.NewSyncHelper()
	f.OpenAs(spk, f.out)
	return nil
}

func (f *FormatFilter) Close() {
	f.CloseState()
	f.pending = nil
}

func (f *FormatFilter) Reset() {
	f.pending = nil
	f.sh.Reset()
	f.ResetState(f.GetOutput())
}

func (f *FormatFilter) Process(in audiocore.Chunk) (audiocore.Chunk, audiocore.Chunk, bool, error) {
	if in.IsDummy() {
		return in, audiocore.DummyChunk(), false, nil
	}
	f.Active()
	f.sh.ReceiveSync(&in)
	f.sh.Put(in.Samples)

	if f.in.Format == audiocore.FormatLinear {
		out := in.Drop(0)
		f.sh.SendSyncLinear(&out, f.rate)
		return in.Drop(in.Samples), out, true, nil
	}

	bps := f.in.Format.BytesPerSample()
	raw := in.Raw
	if len(f.pending) > 0 {
		raw = append(append([]byte{}, f.pending...), raw...)
	}
	frameBytes := bps * f.nch
	usable := (len(raw) / frameBytes) * frameBytes
	tail := raw[usable:]
	f.pending = append(f.pending[:0], tail...)

	samples := usable / frameBytes
	planar := make([][]float64, f.nch)
	for ch := range planar {
		planar[ch] = make([]float64, samples)
	}

	for i := 0; i < samples; i++ {
		base := i * frameBytes
		for ch := 0; ch < f.nch; ch++ {
			v := decodeSample(f.in.Format, raw[base+ch*bps:base+(ch+1)*bps])
			dstCh := ch
			if f.Order != nil && ch < len(f.Order) {
				dstCh = f.Order[ch]
			}
			planar[dstCh][i] = v
		}
	}

	if samples == 0 {
		return in.Drop(in.Samples), audiocore.DummyChunk(), false, nil
	}
	out := audiocore.NewLinearChunk(planar)
	f.sh.SendSyncLinear(&out, f.rate)
	return in.Drop(in.Samples), out, true, nil
}

func (f *FormatFilter) Flush() (audiocore.Chunk, bool, error) {
	f.pending = nil
	return audiocore.DummyChunk(), false, nil
}

func decodeSample(format audiocore.SampleFormat, b []byte) float64 {
	switch format {
	case audiocore.FormatPCM16LE:
		return float64(int16(binary.LittleEndian.Uint16(b))) / 32768.0
	case audiocore.FormatPCM16BE:
		return float64(int16(binary.BigEndian.Uint16(b))) / 32768.0
	case audiocore.FormatPCM24LE:
		return float64(decode24(b, binary.LittleEndian)) / 8388608.0
	case audiocore.FormatPCM24BE:
		return float64(decode24(b, binary.BigEndian)) / 8388608.0
	case audiocore.FormatPCM32LE:
		return float64(int32(binary.LittleEndian.Uint32(b))) / 2147483648.0
	case audiocore.FormatPCM32BE:
		return float64(int32(binary.BigEndian.Uint32(b))) / 2147483648.0
	case audiocore.FormatFloat32LE:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	case audiocore.FormatFloat32BE:
		return float64(math.Float32frombits(binary.BigEndian.Uint32(b)))
	case audiocore.FormatFloat64LE:
		return math.Float64frombits(binary.LittleEndian.Uint64(b))
	case audiocore.FormatFloat64BE:
		return math.Float64frombits(binary.BigEndian.Uint64(b))
	default:
		return 0
	}
}

func decode24(b []byte, order binary.ByteOrder) int32 {
	var v int32
	if order == binary.LittleEndian {
		v = int32(b[0]) | int32(b[1])<<8 | int32(b[2])<<16
	} else {
		v = int32(b[2]) | int32(b[1])<<8 | int32(b[0])<<16
	}
	if v&0x800000 != 0 {
		v |= ^int32(0xFFFFFF)
	}
	return v
}

// encodeSample writes v (linear, [-1,1]) into b using format's wire layout.
func encodeSample(format audiocore.SampleFormat, v float64, b []byte) {
	switch format {
	case audiocore.FormatPCM16LE:
		binary.LittleEndian.PutUint16(b, uint16(int16(clampSample(v)*32767.0)))
	case audiocore.FormatPCM16BE:
		binary.BigEndian.PutUint16(b, uint16(int16(clampSample(v)*32767.0)))
	case audiocore.FormatPCM24LE:
		encode24(b, int32(clampSample(v)*8388607.0), binary.LittleEndian)
	case audiocore.FormatPCM24BE:
		encode24(b, int32(clampSample(v)*8388607.0), binary.BigEndian)
	case audiocore.FormatPCM32LE:
		binary.LittleEndian.PutUint32(b, uint32(int32(clampSample(v)*2147483647.0)))
	case audiocore.FormatPCM32BE:
		binary.BigEndian.PutUint32(b, uint32(int32(clampSample(v)*2147483647.0)))
	case audiocore.FormatFloat32LE:
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v)))
	case audiocore.FormatFloat32BE:
		binary.BigEndian.PutUint32(b, math.Float32bits(float32(v)))
	case audiocore.FormatFloat64LE:
		binary.LittleEndian.PutUint64(b, math.Float64bits(v))
	case audiocore.FormatFloat64BE:
		binary.BigEndian.PutUint64(b, math.Float64bits(v))
	}
}

func encode24(b []byte, v int32, order binary.ByteOrder) {
	if order == binary.LittleEndian {
		b[0] = byte(v)
		b[1] = byte(v >> 8)
		b[2] = byte(v >> 16)
	} else {
		b[0] = byte(v >> 16)
		b[1] = byte(v >> 8)
		b[2] = byte(v)
	}
}

func clampSample(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// EncodeLinear converts planar float64 input (spk.Mask order) to an
// interleaved byte buffer in dstFormat, the reverse direction of
// FormatFilter.Process (spec.md §4.12).
func EncodeLinear(planar [][]float64, dstFormat audiocore.SampleFormat) []byte {
	if len(planar) == 0 {
		return nil
	}
	n := len(planar[0])
	bps := dstFormat.BytesPerSample()
	out := make([]byte, n*len(planar)*bps)
	for i := 0; i < n; i++ {
		for ch := range planar {
			base := (i*len(planar) + ch) * bps
			encodeSample(dstFormat, planar[ch][i], out[base:base+bps])
		}
	}
	return out
}

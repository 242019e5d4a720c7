package e2s

import "encoding/binary"

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE

	fmtChunkBaseSize = 16
)

// FmtChunk stores the parsed WAV fmt chunk, including extensible metadata.
type FmtChunk struct {
	FormatTag      uint16
	NumChannels    uint16
	SampleRate     uint32
	AvgBytesPerSec uint32
	BlockAlign     uint16
	BitsPerSample  uint16
	ExtraData      []byte
	Extensible     *FmtExtensible
}

// FmtExtensible stores WAVE_FORMAT_EXTENSIBLE extra fields.
type FmtExtensible struct {
	ValidBitsPerSample uint16
	ChannelMask        uint32
	SubFormat          [16]byte
	ExtraData          []byte
}

// EffectiveFormatTag resolves the sub format of extensible fmt chunks.
func (f *FmtChunk) EffectiveFormatTag() uint16 {
	if f == nil {
		return 0
	}

	if f.FormatTag == wavFormatExtensible && f.Extensible != nil {
		return binary.LittleEndian.Uint16(f.Extensible.SubFormat[:2])
	}

	return f.FormatTag
}

// IsPCM16 reports whether the fmt chunk describes 16-bit integer PCM.
func (f *FmtChunk) IsPCM16() bool {
	return f.EffectiveFormatTag() == wavFormatPCM && f.BitsPerSample == 16
}

// DecodeFmtChunk decodes the payload of a fmt chunk.
func DecodeFmtChunk(b []byte) (*FmtChunk, error) {
	if len(b) < fmtChunkBaseSize {
		return nil, &ParseError{ID: CIDFmt, Err: ErrMalformedChunk}
	}

	f := &FmtChunk{
		FormatTag:      binary.LittleEndian.Uint16(b[0:2]),
		NumChannels:    binary.LittleEndian.Uint16(b[2:4]),
		SampleRate:     binary.LittleEndian.Uint32(b[4:8]),
		AvgBytesPerSec: binary.LittleEndian.Uint32(b[8:12]),
		BlockAlign:     binary.LittleEndian.Uint16(b[12:14]),
		BitsPerSample:  binary.LittleEndian.Uint16(b[14:16]),
	}

	if len(b) < fmtChunkBaseSize+2 {
		return f, nil
	}

	extraSize := int(binary.LittleEndian.Uint16(b[16:18]))
	if len(b) < fmtChunkBaseSize+2+extraSize {
		return nil, &ParseError{ID: CIDFmt, Err: ErrTruncated}
	}

	f.ExtraData = append([]byte{}, b[18:18+extraSize]...)

	if f.FormatTag != wavFormatExtensible || extraSize < 22 {
		return f, nil
	}

	ext := &FmtExtensible{
		ValidBitsPerSample: binary.LittleEndian.Uint16(f.ExtraData[0:2]),
		ChannelMask:        binary.LittleEndian.Uint32(f.ExtraData[2:6]),
	}
	copy(ext.SubFormat[:], f.ExtraData[6:22])

	if len(f.ExtraData) > 22 {
		ext.ExtraData = append(ext.ExtraData, f.ExtraData[22:]...)
	}

	f.Extensible = ext

	return f, nil
}

// Encode returns the fmt chunk payload. The extension block is written
// only when ExtraData is set.
func (f *FmtChunk) Encode() []byte {
	size := fmtChunkBaseSize
	if f.ExtraData != nil {
		size += 2 + len(f.ExtraData)
	}

	b := make([]byte, size)
	binary.LittleEndian.PutUint16(b[0:2], f.FormatTag)
	binary.LittleEndian.PutUint16(b[2:4], f.NumChannels)
	binary.LittleEndian.PutUint32(b[4:8], f.SampleRate)
	binary.LittleEndian.PutUint32(b[8:12], f.AvgBytesPerSec)
	binary.LittleEndian.PutUint16(b[12:14], f.BlockAlign)
	binary.LittleEndian.PutUint16(b[14:16], f.BitsPerSample)

	if f.ExtraData != nil {
		binary.LittleEndian.PutUint16(b[16:18], uint16(len(f.ExtraData)))
		copy(b[18:], f.ExtraData)
	}

	return b
}

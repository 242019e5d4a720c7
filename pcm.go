package e2s

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
)

var (
	errNilBuffer   = errors.New("can't use a nil buffer")
	errInvalidAIFF = errors.New("invalid AIFF file")
)

// AudioFormat returns the channel count and sample rate of the sample.
func (s *Sample) AudioFormat() (*audio.Format, error) {
	f, err := s.Format()
	if err != nil {
		return nil, err
	}

	return &audio.Format{
		NumChannels: int(f.NumChannels),
		SampleRate:  int(f.SampleRate),
	}, nil
}

// PCMBuffer decodes the 16-bit PCM payload into an interleaved int buffer.
func (s *Sample) PCMBuffer() (*audio.IntBuffer, error) {
	f, err := s.Format()
	if err != nil {
		return nil, err
	}

	if !f.IsPCM16() {
		return nil, fmt.Errorf("%w: format tag %d, %d bits", ErrFormatUnsupported, f.EffectiveFormatTag(), f.BitsPerSample)
	}

	data := s.PCM()
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: int(f.NumChannels),
			SampleRate:  int(f.SampleRate),
		},
		Data:           make([]int, len(data)/2),
		SourceBitDepth: 16,
	}

	for i := range buf.Data {
		buf.Data[i] = int(int16(binary.LittleEndian.Uint16(data[2*i:])))
	}

	return buf, nil
}

// NewSampleFromBuffer builds a 16-bit PCM sample from an interleaved int
// buffer. Values outside of the int16 range are clipped.
func NewSampleFromBuffer(buf *audio.IntBuffer) (*Sample, error) {
	if buf == nil || buf.Format == nil {
		return nil, errNilBuffer
	}

	if buf.SourceBitDepth != 0 && buf.SourceBitDepth != 16 {
		return nil, fmt.Errorf("%w: %d bits", ErrFormatUnsupported, buf.SourceBitDepth)
	}

	numChans := buf.Format.NumChannels
	if numChans < 1 {
		return nil, fmt.Errorf("%w: %d channels", ErrFormatUnsupported, numChans)
	}

	data := make([]byte, 2*len(buf.Data))
	for i, v := range buf.Data {
		v = max(math.MinInt16, min(v, math.MaxInt16))
		binary.LittleEndian.PutUint16(data[2*i:], uint16(int16(v)))
	}

	blockAlign := numChans * 2
	f := &FmtChunk{
		FormatTag:      wavFormatPCM,
		NumChannels:    uint16(numChans),
		SampleRate:     uint32(buf.Format.SampleRate),
		AvgBytesPerSec: uint32(buf.Format.SampleRate * blockAlign),
		BlockAlign:     uint16(blockAlign),
		BitsPerSample:  16,
	}

	root := NewFormChunk(CIDRiff, CIDWave,
		NewChunk(CIDFmt, f.Encode()),
		NewChunk(CIDData, data),
	)

	return &Sample{root: root}, nil
}

// ReadAIFFSample decodes a 16-bit AIFF file into a WAV sample.
func ReadAIFFSample(r io.ReadSeeker) (*Sample, error) {
	dec := aiff.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, errInvalidAIFF
	}

	if dec.BitDepth != 16 {
		return nil, fmt.Errorf("%w: %d bits", ErrFormatUnsupported, dec.BitDepth)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read AIFF PCM data: %w", err)
	}

	buf.SourceBitDepth = 16

	return NewSampleFromBuffer(buf)
}

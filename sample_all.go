package e2s

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// MaxSamples is the number of sample slots of a SampleAll container.
const MaxSamples = 1000

const (
	sampleAllMagic      = "e2s sample all\x1a\x00"
	sampleAllTableStart = 0x20
	sampleAllHeaderSize = sampleAllTableStart + 4*MaxSamples
)

var errContainerTooLarge = errors.New("sample container exceeds 4GiB")

// SampleAll is the "e2s sample all" container: an offset table followed by
// the RIFF data of every sample, in the order samples were appended.
type SampleAll struct {
	samples []*Sample
}

// NewSampleAll returns an empty container.
func NewSampleAll() *SampleAll {
	return &SampleAll{}
}

// Append adds s after the samples already in the container. s is stored as
// given, foreign chunks included; use CleanCopy to store only what the device
// reads. Slot indices are not checked.
func (a *SampleAll) Append(s *Sample) error {
	if len(a.samples) >= MaxSamples {
		return ErrCollectionFull
	}

	a.samples = append(a.samples, s)

	return nil
}

// Samples returns the samples in container order.
func (a *SampleAll) Samples() []*Sample {
	return append([]*Sample(nil), a.samples...)
}

// Len returns the number of samples in the container.
func (a *SampleAll) Len() int {
	return len(a.samples)
}

// Bytes serializes the container.
func (a *SampleAll) Bytes() ([]byte, error) {
	var buf bytes.Buffer

	if _, err := a.WriteTo(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// WriteTo writes the container to w.
func (a *SampleAll) WriteTo(w io.Writer) (int64, error) {
	header := make([]byte, sampleAllHeaderSize)
	copy(header, sampleAllMagic)

	offset := uint64(sampleAllHeaderSize)

	for i, s := range a.samples {
		s.root.Sync()

		if offset > math.MaxUint32 {
			return 0, errContainerTooLarge
		}

		binary.LittleEndian.PutUint32(header[sampleAllTableStart+4*i:], uint32(offset))
		offset += uint64(s.root.Footprint())
	}

	n, err := w.Write(header)
	total := int64(n)

	if err != nil {
		return total, fmt.Errorf("failed to write sample container header: %w", err)
	}

	for i, s := range a.samples {
		m, err := s.root.WriteTo(w)
		total += m

		if err != nil {
			return total, fmt.Errorf("failed to write sample %d: %w", i, err)
		}
	}

	return total, nil
}

// ReadSampleAll parses a container. Empty slots of the offset table are
// skipped, the remaining samples keep the table order.
func ReadSampleAll(b []byte) (*SampleAll, error) {
	if len(b) < sampleAllHeaderSize {
		return nil, &ParseError{Offset: len(b), Err: ErrTruncated}
	}

	if string(b[:len(sampleAllMagic)]) != sampleAllMagic {
		return nil, &ParseError{Err: fmt.Errorf("%w: bad sample container magic", ErrMalformedChunk)}
	}

	a := NewSampleAll()

	for i := range MaxSamples {
		offset := int(binary.LittleEndian.Uint32(b[sampleAllTableStart+4*i:]))
		if offset == 0 {
			continue
		}

		if offset < sampleAllHeaderSize || offset >= len(b) {
			return nil, &ParseError{Offset: offset, Err: fmt.Errorf("%w: sample %d starts outside the file", ErrMalformedChunk, i)}
		}

		s, err := ReadSample(b[offset:])
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Offset += offset
			}

			return nil, fmt.Errorf("failed to read sample %d: %w", i, err)
		}

		a.samples = append(a.samples, s)
	}

	return a, nil
}

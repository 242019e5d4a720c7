package e2s

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// smpl chunk is documented here:
// https://sites.google.com/site/musicgapi/technical-documents/wav-file-format#smpl

const (
	smplHeaderSize = 36
	smplLoopSize   = 24
)

var (
	errSmplManufacturerReadFail = errors.New("failed to read the smpl Manufacturer")
	errSmplProductReadFail      = errors.New("failed to read the smpl Product")
	errSmplCuePointIDReadFail   = errors.New("failed to read the sample loop cue point id")
)

// SamplerInfo is the content of a smpl chunk.
type SamplerInfo struct {
	Manufacturer [4]byte
	Product      [4]byte
	// SamplePeriod is the duration of one sample in nanoseconds.
	SamplePeriod      uint32
	MIDIUnityNote     uint32
	MIDIPitchFraction uint32
	SMPTEFormat       uint32
	SMPTEOffset       uint32
	NumSampleLoops    uint32
	Loops             []*SampleLoop
	// SamplerData is the vendor specific data following the loops.
	SamplerData []byte
}

// SampleLoop is one loop region of a smpl chunk.
type SampleLoop struct {
	CuePointID [4]byte
	// Type is 0 for a forward loop, 1 for ping-pong, 2 for backward.
	Type uint32
	// Start and End are sample frame indices, End being the last frame
	// played in the loop.
	Start    uint32
	End      uint32
	Fraction uint32
	// PlayCount is 0 for an endless loop. A count of 1 plays the region once.
	PlayCount uint32
}

// DecodeSamplerChunk decodes the payload of a smpl chunk.
func DecodeSamplerChunk(b []byte) (*SamplerInfo, error) {
	r := bytes.NewReader(b)
	info := &SamplerInfo{}

	if _, err := r.Read(info.Manufacturer[:]); err != nil {
		return nil, errSmplManufacturerReadFail
	}

	if _, err := r.Read(info.Product[:]); err != nil {
		return nil, errSmplProductReadFail
	}

	var samplerDataSize uint32

	header := []any{
		&info.SamplePeriod,
		&info.MIDIUnityNote,
		&info.MIDIPitchFraction,
		&info.SMPTEFormat,
		&info.SMPTEOffset,
		&info.NumSampleLoops,
		&samplerDataSize,
	}
	for _, field := range header {
		if err := binary.Read(r, binary.LittleEndian, field); err != nil {
			return nil, fmt.Errorf("failed to read smpl header: %w", err)
		}
	}

	if uint64(info.NumSampleLoops)*smplLoopSize > uint64(r.Len()) {
		return nil, &ParseError{ID: CIDSmpl, Offset: smplHeaderSize, Err: ErrTruncated}
	}

	info.Loops = make([]*SampleLoop, 0, info.NumSampleLoops)
	for range info.NumSampleLoops {
		loop := &SampleLoop{}

		if _, err := r.Read(loop.CuePointID[:]); err != nil {
			return nil, errSmplCuePointIDReadFail
		}

		fields := []any{&loop.Type, &loop.Start, &loop.End, &loop.Fraction, &loop.PlayCount}
		for _, field := range fields {
			if err := binary.Read(r, binary.LittleEndian, field); err != nil {
				return nil, fmt.Errorf("failed to read sample loop: %w", err)
			}
		}

		info.Loops = append(info.Loops, loop)
	}

	if r.Len() > 0 {
		info.SamplerData = make([]byte, min(int(samplerDataSize), r.Len()))
		_, _ = r.Read(info.SamplerData)
	}

	return info, nil
}

// Encode returns the smpl chunk payload. NumSampleLoops is taken from Loops.
func (s *SamplerInfo) Encode() []byte {
	buf := bytes.NewBuffer(make([]byte, 0, smplHeaderSize+len(s.Loops)*smplLoopSize+len(s.SamplerData)))

	buf.Write(s.Manufacturer[:])
	buf.Write(s.Product[:])

	for _, v := range []uint32{
		s.SamplePeriod,
		s.MIDIUnityNote,
		s.MIDIPitchFraction,
		s.SMPTEFormat,
		s.SMPTEOffset,
		uint32(len(s.Loops)),
		uint32(len(s.SamplerData)),
	} {
		_ = binary.Write(buf, binary.LittleEndian, v)
	}

	for _, l := range s.Loops {
		buf.Write(l.CuePointID[:])
		_ = binary.Write(buf, binary.LittleEndian, []uint32{l.Type, l.Start, l.End, l.Fraction, l.PlayCount})
	}

	buf.Write(s.SamplerData)

	return buf.Bytes()
}

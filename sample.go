package e2s

import (
	"encoding/binary"
	"errors"
	"fmt"
	"slices"
	"time"
)

const (
	// midiMiddleC is the unity note written to exported smpl chunks.
	midiMiddleC = 60
	// loopForever is the smpl play count of an endless loop.
	loopForever = 0
	// loopOnce is the smpl play count of a region played once.
	loopOnce = 1
)

var errInvalidImportNumber = errors.New("import number out of range")

// Sample is one RIFF/WAVE sample, optionally carrying a korg vendor chunk.
type Sample struct {
	root *Chunk
}

// ReadSample parses a standalone WAV file.
func ReadSample(b []byte) (*Sample, error) {
	root, err := ParseChunk(b)
	if err != nil {
		return nil, err
	}

	return newSample(root)
}

func newSample(root *Chunk) (*Sample, error) {
	if root.ID != CIDRiff || root.Form != CIDWave {
		return nil, &ParseError{ID: root.ID, Err: fmt.Errorf("%w: %q/%q file", ErrFormatUnsupported, root.ID[:], root.Form[:])}
	}

	if root.Find(CIDFmt) == nil {
		return nil, &ParseError{ID: CIDFmt, Err: ErrChunkNotFound}
	}

	if root.Find(CIDData) == nil {
		return nil, &ParseError{ID: CIDData, Err: ErrChunkNotFound}
	}

	s := &Sample{root: root}
	if _, err := s.Format(); err != nil {
		return nil, err
	}

	return s, nil
}

// Chunk returns the RIFF chunk tree backing the sample.
func (s *Sample) Chunk() *Chunk {
	return s.root
}

// Format returns the decoded fmt chunk.
func (s *Sample) Format() (*FmtChunk, error) {
	ch := s.root.Find(CIDFmt)
	if ch == nil {
		return nil, &ParseError{ID: CIDFmt, Err: ErrChunkNotFound}
	}

	return DecodeFmtChunk(ch.Data)
}

// PCM returns the payload of the data chunk. The slice is shared with the
// sample.
func (s *Sample) PCM() []byte {
	ch := s.root.Find(CIDData)
	if ch == nil {
		return nil
	}

	return ch.Data
}

// SamplerInfo returns the decoded smpl chunk, or nil if there is none.
func (s *Sample) SamplerInfo() (*SamplerInfo, error) {
	ch := s.root.Find(CIDSmpl)
	if ch == nil {
		return nil, nil
	}

	return DecodeSamplerChunk(ch.Data)
}

// CuePoints returns the decoded cue chunk, or nil if there is none.
func (s *Sample) CuePoints() ([]*CuePoint, error) {
	ch := s.root.Find(CIDCue)
	if ch == nil {
		return nil, nil
	}

	return DecodeCueChunk(ch.Data)
}

// SlotDescriptor returns the decoded esli chunk, or nil if the sample has
// no vendor chunk yet.
func (s *Sample) SlotDescriptor() (*SlotDescriptor, error) {
	ch := esliChunk(s.root)
	if ch == nil {
		return nil, nil
	}

	return DecodeSlotDescriptor(ch.Data)
}

// SetSlotDescriptor stores d in the esli chunk, creating the vendor chunks
// when missing.
func (s *Sample) SetSlotDescriptor(d *SlotDescriptor) error {
	payload := d.Encode()

	if ch := esliChunk(s.root); ch != nil {
		ch.Data = payload
		s.root.Sync()

		return nil
	}

	_, err := insertEsliChunk(s.root, payload)

	return err
}

// EnsureVendorChunk makes sure the sample carries a slot descriptor and sets
// its name, category and slot. importNum is 1 based. Samples that are not
// 16-bit PCM are rejected with ErrFormatUnsupported, with or without a
// descriptor. A missing descriptor is derived from the fmt, smpl and cue
// chunks; a smpl or cue chunk that can't be decoded is ignored. An existing
// descriptor keeps its loop points and slices.
func (s *Sample) EnsureVendorChunk(name, category string, importNum int) error {
	if importNum < 1 || importNum > MaxSamples {
		return fmt.Errorf("%w: %d", errInvalidImportNumber, importNum)
	}

	f, err := s.Format()
	if err != nil {
		return err
	}

	if err := requirePCM16(f); err != nil {
		return err
	}

	desc, err := s.SlotDescriptor()
	if err != nil {
		return err
	}

	if desc == nil {
		smpl, err := s.SamplerInfo()
		if err != nil {
			smpl = nil
		}

		cues, err := s.CuePoints()
		if err != nil {
			cues = nil
		}

		desc, err = DeriveSlotDescriptor(f, s.PCM(), smpl, cues)
		if err != nil {
			return err
		}
	}

	desc.Name = deviceName(name)
	desc.Category, _ = ParseCategory(category)
	desc.SlotIndex = uint16(importNum - 1)

	return s.SetSlotDescriptor(desc)
}

// Bytes serializes the sample as it is.
func (s *Sample) Bytes() []byte {
	return s.root.Bytes()
}

// StandaloneBytes serializes the sample as a WAV file. The smpl and cue
// chunks are rebuilt from the slot descriptor when requested and dropped
// otherwise. Samples without a slot descriptor keep their own smpl and cue
// chunks when requested.
func (s *Sample) StandaloneBytes(withLoop, withCue bool) ([]byte, error) {
	out := s.root.Clone()

	desc, err := s.SlotDescriptor()
	if err != nil {
		return nil, err
	}

	if desc == nil {
		if !withLoop {
			out.RemoveChunks(CIDSmpl)
		}

		if !withCue {
			out.RemoveChunks(CIDCue)
		}

		return out.Bytes(), nil
	}

	out.RemoveChunks(CIDSmpl)
	out.RemoveChunks(CIDCue)

	f, err := s.Format()
	if err != nil {
		return nil, err
	}

	if f.BlockAlign == 0 {
		return nil, fmt.Errorf("%w: block align 0", ErrFormatUnsupported)
	}

	var extra []*Chunk

	if withLoop {
		extra = append(extra, NewChunk(CIDSmpl, loopChunk(desc, uint32(f.BlockAlign)).Encode()))
	}

	if withCue {
		if points := slicePoints(desc); len(points) > 0 {
			extra = append(extra, NewChunk(CIDCue, EncodeCueChunk(points)))
		}
	}

	insertBefore(out, CIDKorg, extra...)

	return out.Bytes(), nil
}

// CleanCopy returns a copy holding only the fmt, data and korg chunks, the
// way samples are stored in a SampleAll container.
func (s *Sample) CleanCopy() *Sample {
	root := NewFormChunk(CIDRiff, CIDWave)

	for _, ch := range s.root.Chunks {
		switch ch.ID {
		case CIDFmt, CIDData, CIDKorg:
			root.Chunks = append(root.Chunks, ch.Clone())
		}
	}

	root.Sync()

	return &Sample{root: root}
}

// Duration returns the play time of the PCM payload.
func (s *Sample) Duration() (time.Duration, error) {
	f, err := s.Format()
	if err != nil {
		return 0, err
	}

	if f.BlockAlign == 0 || f.SampleRate == 0 {
		return 0, nil
	}

	frames := len(s.PCM()) / int(f.BlockAlign)

	return time.Duration(float64(frames) / float64(f.SampleRate) * float64(time.Second)), nil
}

// loopChunk rebuilds a smpl chunk from the loop points of d. One-shot
// samples get a loop played once so the points survive a round trip.
func loopChunk(d *SlotDescriptor, blockAlign uint32) *SamplerInfo {
	info := &SamplerInfo{MIDIUnityNote: midiMiddleC}
	if d.SamplingFreq > 0 {
		info.SamplePeriod = uint32(time.Second) / d.SamplingFreq
	}

	loop := &SampleLoop{
		Start:     d.LoopStart / blockAlign,
		End:       d.End / blockAlign,
		PlayCount: loopForever,
	}
	if d.OneShot {
		loop.PlayCount = loopOnce
	}

	info.Loops = []*SampleLoop{loop}

	return info
}

// slicePoints turns the used part of the slice table into cue points.
func slicePoints(d *SlotDescriptor) []*CuePoint {
	n := d.NumSlices()
	points := make([]*CuePoint, 0, n)

	for i := range n {
		c := &CuePoint{
			Position:     d.Slices[i].Start,
			DataChunkID:  CIDData,
			SampleOffset: d.Slices[i].Start,
		}
		binary.LittleEndian.PutUint32(c.ID[:], uint32(i+1))

		points = append(points, c)
	}

	return points
}

// insertBefore inserts chunks into parent ahead of the first child with the
// given ID, or at the end when there is none.
func insertBefore(parent *Chunk, id [4]byte, chunks ...*Chunk) {
	if len(chunks) == 0 {
		return
	}

	at := len(parent.Chunks)

	for i, ch := range parent.Chunks {
		if ch.ID == id {
			at = i
			break
		}
	}

	parent.Chunks = slices.Insert(parent.Chunks, at, chunks...)
	parent.Sync()
}

package e2s

import (
	"fmt"
	"math"
)

// PlayLogPeriod encodes a sampling frequency the way the device stores the
// playback speed: higher frequencies give lower values. A frequency of 0
// maps to the maximum value.
func PlayLogPeriod(freq uint32) uint16 {
	if freq == 0 {
		return math.MaxUint16
	}

	v := math.RoundToEven(63132 - math.Log2(float64(freq))*3072)

	return uint16(max(0, min(v, math.MaxUint16)))
}

// DeriveSlotDescriptor builds the slot descriptor of a sample that has none
// yet. smpl and cues are optional; loops and cue points that don't fit the
// PCM payload are ignored.
func DeriveSlotDescriptor(f *FmtChunk, data []byte, smpl *SamplerInfo, cues []*CuePoint) (*SlotDescriptor, error) {
	if err := requirePCM16(f); err != nil {
		return nil, err
	}

	blockAlign := uint32(f.BlockAlign)
	dataLen := uint32(len(data))

	// offset of the last sample frame
	var lastFrame uint32
	if dataLen >= blockAlign {
		lastFrame = dataLen - blockAlign
	}

	d := NewSlotDescriptor()
	d.SamplingFreq = f.SampleRate
	d.LoopStart = lastFrame
	d.End = lastFrame
	d.DataSize = dataLen
	d.UseChan1 = blockAlign == 4
	d.PlayVolume = math.MaxUint16
	d.PlayLogPeriod = PlayLogPeriod(f.SampleRate)

	deriveLoop(d, smpl, blockAlign, lastFrame)
	deriveSlices(d, cues, dataLen/blockAlign)

	return d, nil
}

// requirePCM16 fails with ErrFormatUnsupported unless f describes 16-bit
// integer PCM.
func requirePCM16(f *FmtChunk) error {
	if f == nil {
		return fmt.Errorf("%w: missing fmt chunk", ErrFormatUnsupported)
	}

	if !f.IsPCM16() || f.BlockAlign == 0 {
		return fmt.Errorf("%w: format tag %d, %d bits, block align %d",
			ErrFormatUnsupported, f.EffectiveFormatTag(), f.BitsPerSample, f.BlockAlign)
	}

	return nil
}

// deriveLoop uses the first loop of the smpl chunk when it actually loops.
func deriveLoop(d *SlotDescriptor, smpl *SamplerInfo, blockAlign, lastFrame uint32) {
	if smpl == nil || len(smpl.Loops) == 0 || smpl.Loops[0] == nil {
		return
	}

	loop := smpl.Loops[0]
	if loop.PlayCount == 1 {
		return
	}

	start := uint64(loop.Start) * uint64(blockAlign)
	end := uint64(loop.End) * uint64(blockAlign)

	if start >= end || end > uint64(lastFrame) {
		return
	}

	d.LoopStart = uint32(start)
	d.End = uint32(end)
	d.OneShot = false
}

// deriveSlices fills the slice table from cue points in source order. The
// length of a slice is set once the next slice is known, so the last slice
// keeps a zero length.
func deriveSlices(d *SlotDescriptor, cues []*CuePoint, numFrames uint32) {
	n := 0

	for _, c := range cues {
		if n == MaxSlices {
			break
		}

		if c == nil || c.DataChunkID != CIDData || c.SampleOffset >= numFrames {
			continue
		}

		d.Slices[n].Start = c.SampleOffset

		if n > 0 {
			prev := &d.Slices[n-1]
			if c.SampleOffset > prev.Start {
				prev.Length = c.SampleOffset - prev.Start
			}
		}

		n++
	}
}

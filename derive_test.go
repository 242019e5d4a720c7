package e2s

import (
	"errors"
	"testing"
)

func pcm16(numChans uint16, sampleRate uint32) *FmtChunk {
	return &FmtChunk{
		FormatTag:     wavFormatPCM,
		NumChannels:   numChans,
		SampleRate:    sampleRate,
		BlockAlign:    2 * numChans,
		BitsPerSample: 16,
	}
}

func TestPlayLogPeriod(t *testing.T) {
	tests := []struct {
		freq uint32
		want uint16
	}{
		{0, 65535},
		{1, 63132},
		{44100, 15736},
	}

	for _, tt := range tests {
		if got := PlayLogPeriod(tt.freq); got != tt.want {
			t.Fatalf("PlayLogPeriod(%d) = %d, want %d", tt.freq, got, tt.want)
		}
	}

	if PlayLogPeriod(48000) >= PlayLogPeriod(44100) {
		t.Fatal("log period must decrease as frequency grows")
	}
}

func TestDeriveDefaults(t *testing.T) {
	data := make([]byte, 200)

	d, err := DeriveSlotDescriptor(pcm16(1, 44100), data, nil, nil)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}

	if d.PlayLogPeriod != 15736 {
		t.Fatalf("play log period = %d, want 15736", d.PlayLogPeriod)
	}

	if d.LoopStart != 198 || d.End != 198 {
		t.Fatalf("loop points = %d/%d, want 198/198", d.LoopStart, d.End)
	}

	if !d.OneShot || d.UseChan1 || d.PlayVolume != 65535 {
		t.Fatalf("unexpected defaults: one-shot %t, chan1 %t, volume %d", d.OneShot, d.UseChan1, d.PlayVolume)
	}

	if d.SamplingFreq != 44100 || d.DataSize != 200 {
		t.Fatalf("freq/size = %d/%d", d.SamplingFreq, d.DataSize)
	}

	if d.NumSlices() != 0 {
		t.Fatalf("expected an empty slice table, got %d slices", d.NumSlices())
	}
}

func TestDeriveStereoAndZeroFrequency(t *testing.T) {
	d, err := DeriveSlotDescriptor(pcm16(2, 0), make([]byte, 40), nil, nil)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}

	if !d.UseChan1 {
		t.Fatal("stereo sample should use channel 1")
	}

	if d.PlayLogPeriod != 65535 {
		t.Fatalf("play log period = %d, want 65535", d.PlayLogPeriod)
	}

	if d.LoopStart != 36 {
		t.Fatalf("loop start = %d, want 36", d.LoopStart)
	}
}

func TestDeriveLoop(t *testing.T) {
	tests := []struct {
		name        string
		loops       []*SampleLoop
		wantStart   uint32
		wantEnd     uint32
		wantOneShot bool
	}{
		{"accepted", []*SampleLoop{{Start: 10, End: 20, PlayCount: 2}}, 20, 40, false},
		{"endless loop", []*SampleLoop{{Start: 0, End: 1, PlayCount: 0}}, 0, 2, false},
		{"play once", []*SampleLoop{{Start: 10, End: 20, PlayCount: 1}}, 40, 40, true},
		{"start after end", []*SampleLoop{{Start: 20, End: 10, PlayCount: 0}}, 40, 40, true},
		{"start equals end", []*SampleLoop{{Start: 10, End: 10, PlayCount: 0}}, 40, 40, true},
		{"end past last frame", []*SampleLoop{{Start: 10, End: 21, PlayCount: 0}}, 40, 40, true},
		{"only first loop counts", []*SampleLoop{
			{Start: 10, End: 20, PlayCount: 1},
			{Start: 1, End: 2, PlayCount: 0},
		}, 40, 40, true},
		{"no loops", nil, 40, 40, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			smpl := &SamplerInfo{Loops: tt.loops}

			d, err := DeriveSlotDescriptor(pcm16(1, 44100), make([]byte, 42), smpl, nil)
			if err != nil {
				t.Fatalf("derive: %v", err)
			}

			if d.LoopStart != tt.wantStart || d.End != tt.wantEnd || d.OneShot != tt.wantOneShot {
				t.Fatalf("got %d/%d one-shot %t, want %d/%d one-shot %t",
					d.LoopStart, d.End, d.OneShot, tt.wantStart, tt.wantEnd, tt.wantOneShot)
			}
		})
	}
}

func TestDeriveSlices(t *testing.T) {
	cues := []*CuePoint{
		{DataChunkID: CIDData, SampleOffset: 0},
		{DataChunkID: [4]byte{'s', 'l', 'n', 't'}, SampleOffset: 50},
		{DataChunkID: CIDData, SampleOffset: 100},
		{DataChunkID: CIDData, SampleOffset: 1000},
		{DataChunkID: CIDData, SampleOffset: 250},
	}

	// 1000 mono frames
	d, err := DeriveSlotDescriptor(pcm16(1, 44100), make([]byte, 2000), nil, cues)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}

	want := []Slice{
		{Start: 0, Length: 100},
		{Start: 100, Length: 150},
		{Start: 250, Length: 0},
	}

	if d.NumSlices() != len(want) {
		t.Fatalf("got %d slices, want %d", d.NumSlices(), len(want))
	}

	for i, w := range want {
		if d.Slices[i] != w {
			t.Fatalf("slice %d = %+v, want %+v", i, d.Slices[i], w)
		}
	}
}

func TestDeriveSlicesStopsAtTableSize(t *testing.T) {
	cues := make([]*CuePoint, 100)
	for i := range cues {
		cues[i] = &CuePoint{DataChunkID: CIDData, SampleOffset: uint32(i * 10)}
	}

	d, err := DeriveSlotDescriptor(pcm16(1, 44100), make([]byte, 4000), nil, cues)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}

	if n := d.NumSlices(); n != MaxSlices {
		t.Fatalf("got %d slices, want %d", n, MaxSlices)
	}

	for i := range MaxSlices - 1 {
		if d.Slices[i].Start != uint32(i*10) || d.Slices[i].Length != 10 {
			t.Fatalf("slice %d = %+v", i, d.Slices[i])
		}
	}

	if last := d.Slices[MaxSlices-1]; last.Start != 630 || last.Length != 0 {
		t.Fatalf("last slice = %+v, want start 630 and no length", last)
	}
}

func TestDeriveRejectsFormat(t *testing.T) {
	ext := pcm16(1, 44100)
	ext.FormatTag = wavFormatExtensible
	ext.Extensible = &FmtExtensible{SubFormat: [16]byte{wavFormatPCM}}

	tests := []struct {
		name    string
		f       *FmtChunk
		wantErr bool
	}{
		{"pcm16", pcm16(1, 44100), false},
		{"extensible pcm16", ext, false},
		{"8 bit", &FmtChunk{FormatTag: wavFormatPCM, NumChannels: 1, BlockAlign: 1, BitsPerSample: 8}, true},
		{"24 bit", &FmtChunk{FormatTag: wavFormatPCM, NumChannels: 1, BlockAlign: 3, BitsPerSample: 24}, true},
		{"float", &FmtChunk{FormatTag: 3, NumChannels: 1, BlockAlign: 2, BitsPerSample: 16}, true},
		{"zero block align", &FmtChunk{FormatTag: wavFormatPCM, NumChannels: 1, BitsPerSample: 16}, true},
		{"nil", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := DeriveSlotDescriptor(tt.f, make([]byte, 8), nil, nil)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("derive: %v", err)
				}

				return
			}

			if !errors.Is(err, ErrFormatUnsupported) {
				t.Fatalf("expected ErrFormatUnsupported, got %v", err)
			}

			if d != nil {
				t.Fatal("no descriptor expected on failure")
			}
		})
	}
}

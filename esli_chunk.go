package e2s

import "encoding/binary"

// MaxSlices is the number of entries in the slice table of a slot.
const MaxSlices = 64

// MaxNameLen is the size of the name field of a slot.
const MaxNameLen = 16

// esli layout, all values little endian.
const (
	esliOffSlotIndex     = 0x00
	esliOffName          = 0x02
	esliOffCategory      = 0x12
	esliOffPlayLogPeriod = 0x1E
	esliOffPlayVolume    = 0x20
	esliOffStartAddress  = 0x24
	esliOffLoopStart     = 0x28
	esliOffEnd           = 0x2C
	esliOffOneShot       = 0x30
	esliOffDataSize      = 0x34
	esliOffUseChan0      = 0x38
	esliOffUseChan1      = 0x39
	esliOffSamplingFreq  = 0x3C
	esliOffPlayLevel12dB = 0x42
	esliOffSlices        = 0x44
	esliOffSliceSteps    = esliOffSlices + MaxSlices*esliSliceSize

	esliSliceSize = 16
	// esliSize is the size of the esli payload written by the device.
	esliSize = 0x494
)

// Slice is one entry of the slice table. Start and Length are in sample
// frames.
type Slice struct {
	Start        uint32
	Length       uint32
	AttackLength uint32
	Amplitude    uint32
}

// SlotDescriptor holds the playback parameters stored in the esli chunk.
type SlotDescriptor struct {
	// SlotIndex is the 0 based position in the sample bank.
	SlotIndex uint16
	// Name is at most MaxNameLen ASCII characters.
	Name     string
	Category Category

	PlayLogPeriod uint16
	PlayVolume    uint16

	// StartAddress is the address of the first played byte. LoopStart and
	// End are byte offsets relative to it.
	StartAddress uint32
	LoopStart    uint32
	End          uint32
	OneShot      bool

	// DataSize is the length of the PCM payload in bytes.
	DataSize      uint32
	UseChan0      bool
	UseChan1      bool
	SamplingFreq  uint32
	PlayLevel12dB bool

	Slices [MaxSlices]Slice
	// SliceSteps maps sequencer steps to slice numbers.
	SliceSteps [MaxSlices]byte

	// raw keeps the bytes this descriptor was decoded from so that fields
	// without a meaning here survive a re-encode.
	raw []byte
}

// NewSlotDescriptor returns a descriptor holding the defaults of a fresh
// slot: one-shot, left channel on, User category.
func NewSlotDescriptor() *SlotDescriptor {
	return &SlotDescriptor{
		Category: CategoryUser,
		OneShot:  true,
		UseChan0: true,
	}
}

// DecodeSlotDescriptor decodes an esli chunk payload. Unknown category codes
// are kept as they are.
func DecodeSlotDescriptor(b []byte) (*SlotDescriptor, error) {
	if len(b) < esliSize {
		return nil, &ParseError{ID: CIDEsli, Offset: len(b), Err: ErrTruncated}
	}

	le := binary.LittleEndian
	d := &SlotDescriptor{
		SlotIndex:     le.Uint16(b[esliOffSlotIndex:]),
		Name:          string(asciiBytes(nullTermStr(b[esliOffName : esliOffName+MaxNameLen]))),
		Category:      Category(le.Uint16(b[esliOffCategory:])),
		PlayLogPeriod: le.Uint16(b[esliOffPlayLogPeriod:]),
		PlayVolume:    le.Uint16(b[esliOffPlayVolume:]),
		StartAddress:  le.Uint32(b[esliOffStartAddress:]),
		LoopStart:     le.Uint32(b[esliOffLoopStart:]),
		End:           le.Uint32(b[esliOffEnd:]),
		OneShot:       b[esliOffOneShot] != 0,
		DataSize:      le.Uint32(b[esliOffDataSize:]),
		UseChan0:      b[esliOffUseChan0] != 0,
		UseChan1:      b[esliOffUseChan1] != 0,
		SamplingFreq:  le.Uint32(b[esliOffSamplingFreq:]),
		PlayLevel12dB: b[esliOffPlayLevel12dB] != 0,
		raw:           append([]byte(nil), b...),
	}

	for i := range d.Slices {
		p := b[esliOffSlices+i*esliSliceSize:]
		d.Slices[i] = Slice{
			Start:        le.Uint32(p[0:]),
			Length:       le.Uint32(p[4:]),
			AttackLength: le.Uint32(p[8:]),
			Amplitude:    le.Uint32(p[12:]),
		}
	}

	copy(d.SliceSteps[:], b[esliOffSliceSteps:])

	return d, nil
}

// Encode returns the esli chunk payload.
func (d *SlotDescriptor) Encode() []byte {
	b := make([]byte, max(esliSize, len(d.raw)))
	copy(b, d.raw)

	le := binary.LittleEndian
	le.PutUint16(b[esliOffSlotIndex:], d.SlotIndex)

	name := b[esliOffName : esliOffName+MaxNameLen]
	clear(name)
	copy(name, deviceName(d.Name))

	le.PutUint16(b[esliOffCategory:], uint16(d.Category))
	le.PutUint16(b[esliOffPlayLogPeriod:], d.PlayLogPeriod)
	le.PutUint16(b[esliOffPlayVolume:], d.PlayVolume)
	le.PutUint32(b[esliOffStartAddress:], d.StartAddress)
	le.PutUint32(b[esliOffLoopStart:], d.LoopStart)
	le.PutUint32(b[esliOffEnd:], d.End)
	b[esliOffOneShot] = boolByte(d.OneShot)
	le.PutUint32(b[esliOffDataSize:], d.DataSize)
	b[esliOffUseChan0] = boolByte(d.UseChan0)
	b[esliOffUseChan1] = boolByte(d.UseChan1)
	le.PutUint32(b[esliOffSamplingFreq:], d.SamplingFreq)
	b[esliOffPlayLevel12dB] = boolByte(d.PlayLevel12dB)

	for i, s := range d.Slices {
		p := b[esliOffSlices+i*esliSliceSize:]
		le.PutUint32(p[0:], s.Start)
		le.PutUint32(p[4:], s.Length)
		le.PutUint32(p[8:], s.AttackLength)
		le.PutUint32(p[12:], s.Amplitude)
	}

	copy(b[esliOffSliceSteps:], d.SliceSteps[:])

	return b
}

// NumSlices returns the number of slice table entries in use, counting up
// to the last entry with a non zero start or length.
func (d *SlotDescriptor) NumSlices() int {
	for i := len(d.Slices) - 1; i >= 0; i-- {
		if d.Slices[i].Start != 0 || d.Slices[i].Length != 0 {
			return i + 1
		}
	}

	return 0
}

// deviceName keeps the ASCII characters of s that fit the name field.
func deviceName(s string) string {
	b := asciiBytes(s)
	if len(b) > MaxNameLen {
		b = b[:MaxNameLen]
	}

	return string(b)
}

func boolByte(v bool) byte {
	if v {
		return 1
	}

	return 0
}

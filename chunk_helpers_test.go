package e2s

import (
	"encoding/binary"
	"errors"
	"fmt"
	"testing"
)

type testChunk struct {
	id   string
	size uint32
	data []byte
}

var (
	errFileTooSmall         = errors.New("file too small")
	errInvalidRiffWaveHdr   = errors.New("invalid riff/wave header")
	errChunkExceedsFileSize = errors.New("chunk exceeds file size")
)

// parseWavChunks lists the top level chunks of a RIFF/WAVE file without
// going through the package parser.
func parseWavChunks(data []byte) ([]testChunk, error) {
	if len(data) < 12 {
		return nil, errFileTooSmall
	}

	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, errInvalidRiffWaveHdr
	}

	chunks := make([]testChunk, 0)

	offset := 12
	for offset+8 <= len(data) {
		id := string(data[offset : offset+4])
		size := binary.LittleEndian.Uint32(data[offset+4 : offset+8])
		offset += 8

		end := offset + int(size)
		if end > len(data) {
			return nil, fmt.Errorf("%w: %q", errChunkExceedsFileSize, id)
		}

		payload := append([]byte(nil), data[offset:end]...)
		chunks = append(chunks, testChunk{id: id, size: size, data: payload})

		offset = end
		if size%2 == 1 {
			offset++
		}
	}

	return chunks, nil
}

func findChunk(chunks []testChunk, id string) (*testChunk, int) {
	for i := range chunks {
		if chunks[i].id == id {
			return &chunks[i], i
		}
	}

	return nil, -1
}

func chunkIDs(chunks []testChunk) []string {
	ids := make([]string, 0, len(chunks))
	for _, ch := range chunks {
		ids = append(ids, ch.id)
	}

	return ids
}

// rawChunk encodes a chunk by hand, padding odd payloads.
func rawChunk(id string, payload []byte) []byte {
	out := make([]byte, 8, 8+len(payload)+1)
	copy(out, id)
	binary.LittleEndian.PutUint32(out[4:], uint32(len(payload)))
	out = append(out, payload...)

	if len(payload)%2 == 1 {
		out = append(out, 0)
	}

	return out
}

// rawList encodes a list chunk by hand. form may be empty for bare lists.
func rawList(id, form string, children ...[]byte) []byte {
	payload := []byte(form)
	for _, ch := range children {
		payload = append(payload, ch...)
	}

	return rawChunk(id, payload)
}

func fmtPayload(formatTag, numChans uint16, sampleRate uint32, bitDepth uint16) []byte {
	blockAlign := numChans * ((bitDepth + 7) / 8)
	f := &FmtChunk{
		FormatTag:      formatTag,
		NumChannels:    numChans,
		SampleRate:     sampleRate,
		AvgBytesPerSec: sampleRate * uint32(blockAlign),
		BlockAlign:     blockAlign,
		BitsPerSample:  bitDepth,
	}

	return f.Encode()
}

// makeWav builds a 16-bit PCM WAV file with frames of silence and the extra
// chunks appended after the data chunk.
func makeWav(t *testing.T, numChans uint16, sampleRate uint32, frames int, extra ...[]byte) []byte {
	t.Helper()

	return makeWavFormat(t, wavFormatPCM, numChans, sampleRate, 16, frames, extra...)
}

func makeWavFormat(t *testing.T, formatTag, numChans uint16, sampleRate uint32, bitDepth uint16, frames int, extra ...[]byte) []byte {
	t.Helper()

	data := make([]byte, frames*int(numChans)*int((bitDepth+7)/8))
	for i := range data {
		data[i] = byte(i)
	}

	children := [][]byte{
		rawChunk("fmt ", fmtPayload(formatTag, numChans, sampleRate, bitDepth)),
		rawChunk("data", data),
	}

	return rawList("RIFF", "WAVE", append(children, extra...)...)
}

func smplPayload(loops ...*SampleLoop) []byte {
	return (&SamplerInfo{Loops: loops}).Encode()
}

func cuePayload(offsets ...uint32) []byte {
	points := make([]*CuePoint, len(offsets))
	for i, off := range offsets {
		points[i] = &CuePoint{DataChunkID: CIDData, SampleOffset: off}
		binary.LittleEndian.PutUint32(points[i].ID[:], uint32(i))
	}

	return EncodeCueChunk(points)
}

func mustReadSample(t *testing.T, b []byte) *Sample {
	t.Helper()

	s, err := ReadSample(b)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}

	return s
}

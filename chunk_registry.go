package e2s

import (
	"bytes"
	"fmt"

	"github.com/go-audio/riff"
)

var (
	// CIDRiff is the chunk ID of the root chunk.
	CIDRiff = riff.RiffID
	// CIDWave is the form type of a RIFF/WAVE file.
	CIDWave = riff.WavFormatID
	// CIDFmt is the chunk ID of the fmt chunk.
	CIDFmt = riff.FmtID
	// CIDData is the chunk ID of the PCM data chunk.
	CIDData = riff.DataFormatID
	// CIDList is the chunk ID for a LIST chunk.
	CIDList = [4]byte{'L', 'I', 'S', 'T'}
	// CIDSmpl is the chunk ID for a smpl chunk.
	CIDSmpl = [4]byte{'s', 'm', 'p', 'l'}
	// CIDCue is the chunk ID for the cue chunk.
	CIDCue = [4]byte{'c', 'u', 'e', 0x20}
	// CIDKorg is the chunk ID of the vendor chunk.
	CIDKorg = [4]byte{'k', 'o', 'r', 'g'}
	// CIDEsli is the chunk ID of the slot descriptor nested in korg.
	CIDEsli = [4]byte{'e', 's', 'l', 'i'}
)

var defaultChunkRegistry = NewChunkRegistry()

// ChunkRegistry knows which chunk IDs hold nested chunks. Every other chunk
// is kept as an opaque payload.
type ChunkRegistry struct {
	lists map[[4]byte]chunkKind
}

// NewChunkRegistry returns a registry that knows RIFF, LIST and korg.
func NewChunkRegistry() *ChunkRegistry {
	return &ChunkRegistry{
		lists: map[[4]byte]chunkKind{
			CIDRiff: kindForm,
			CIDList: kindForm,
			CIDKorg: kindList,
		},
	}
}

// RegisterList declares id as a list chunk. When form is true the nested
// chunks are preceded by a 4 byte form type.
func (r *ChunkRegistry) RegisterList(id [4]byte, form bool) {
	if r == nil {
		return
	}

	if r.lists == nil {
		r.lists = map[[4]byte]chunkKind{}
	}

	if form {
		r.lists[id] = kindForm
	} else {
		r.lists[id] = kindList
	}
}

func (r *ChunkRegistry) kind(id [4]byte) chunkKind {
	if r == nil {
		return kindLeaf
	}

	return r.lists[id]
}

// Parse parses the chunk tree starting at the beginning of b.
// Bytes following the root chunk are ignored.
func (r *ChunkRegistry) Parse(b []byte) (*Chunk, error) {
	ch, _, err := r.parseChunk(b, 0)
	if err != nil {
		return nil, err
	}

	return ch, nil
}

// parseChunk parses the chunk at the start of b, base being the absolute
// offset of b[0]. It returns the chunk and the number of bytes it spans.
func (r *ChunkRegistry) parseChunk(b []byte, base int) (*Chunk, int, error) {
	if len(b) < chunkHeaderSize {
		var id [4]byte
		copy(id[:], b)

		return nil, 0, &ParseError{ID: id, Offset: base, Err: ErrTruncated}
	}

	id, size, err := riff.New(bytes.NewReader(b[:chunkHeaderSize])).IDnSize()
	if err != nil {
		return nil, 0, &ParseError{ID: id, Offset: base, Err: fmt.Errorf("%w: %w", ErrTruncated, err)}
	}

	end := chunkHeaderSize + int(size)
	if end > len(b) || end < chunkHeaderSize {
		return nil, 0, &ParseError{ID: id, Offset: base, Err: ErrTruncated}
	}

	ch := &Chunk{ID: id, Size: size, kind: r.kind(id)}
	payload := b[chunkHeaderSize:end]

	switch ch.kind {
	case kindForm:
		if len(payload) < 4 {
			return nil, 0, &ParseError{ID: id, Offset: base, Err: ErrMalformedChunk}
		}

		copy(ch.Form[:], payload[:4])

		ch.Chunks, err = r.parseList(payload[4:], base+chunkHeaderSize+4)
	case kindList:
		ch.Chunks, err = r.parseList(payload, base+chunkHeaderSize)
	default:
		ch.Data = append([]byte(nil), payload...)
	}

	if err != nil {
		return nil, 0, err
	}

	// a missing pad byte is tolerated at the very end of the buffer
	if size%2 == 1 && end < len(b) {
		end++
	}

	return ch, end, nil
}

func (r *ChunkRegistry) parseList(b []byte, base int) ([]*Chunk, error) {
	var chunks []*Chunk

	for off := 0; off < len(b); {
		ch, n, err := r.parseChunk(b[off:], base+off)
		if err != nil {
			return nil, err
		}

		chunks = append(chunks, ch)
		off += n
	}

	return chunks, nil
}

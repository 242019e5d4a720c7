package e2s

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// chunkHeaderSize is the size of a chunk ID and its little endian length.
const chunkHeaderSize = 8

type chunkKind uint8

const (
	kindLeaf chunkKind = iota
	// kindList holds nested chunks directly (e.g. korg).
	kindList
	// kindForm holds a 4 byte form type followed by nested chunks (RIFF, LIST).
	kindForm
)

// Chunk is a node of a RIFF chunk tree. Leaf chunks carry their payload in
// Data, list chunks carry their children in Chunks.
type Chunk struct {
	ID [4]byte
	// Size is the declared payload size, excluding the pad byte.
	Size uint32
	// Form is the form type of RIFF and LIST chunks.
	Form   [4]byte
	Data   []byte
	Chunks []*Chunk

	kind chunkKind
}

// NewChunk returns a leaf chunk holding data.
func NewChunk(id [4]byte, data []byte) *Chunk {
	return &Chunk{ID: id, Size: uint32(len(data)), Data: data}
}

// NewListChunk returns a list chunk whose payload is made of children only.
func NewListChunk(id [4]byte, children ...*Chunk) *Chunk {
	c := &Chunk{ID: id, Chunks: children, kind: kindList}
	c.Sync()

	return c
}

// NewFormChunk returns a list chunk whose payload starts with a form type,
// like RIFF/WAVE or LIST/INFO.
func NewFormChunk(id, form [4]byte, children ...*Chunk) *Chunk {
	c := &Chunk{ID: id, Form: form, Chunks: children, kind: kindForm}
	c.Sync()

	return c
}

// IsList reports whether the chunk holds nested chunks.
func (c *Chunk) IsList() bool {
	return c != nil && c.kind != kindLeaf
}

// Footprint returns the number of bytes the chunk occupies once written:
// header, payload and pad byte.
func (c *Chunk) Footprint() uint32 {
	n := c.payloadLen()

	return chunkHeaderSize + n + n%2
}

func (c *Chunk) payloadLen() uint32 {
	switch c.kind {
	case kindLeaf:
		return uint32(len(c.Data))
	case kindForm:
		return 4 + childrenLen(c.Chunks)
	default:
		return childrenLen(c.Chunks)
	}
}

func childrenLen(chunks []*Chunk) uint32 {
	var n uint32
	for _, ch := range chunks {
		n += ch.Footprint()
	}

	return n
}

// Sync recomputes the declared size of the chunk and all its descendants.
func (c *Chunk) Sync() {
	for _, ch := range c.Chunks {
		ch.Sync()
	}

	c.Size = c.payloadLen()
}

// Verify checks that every declared size in the tree matches the content
// it describes.
func (c *Chunk) Verify() error {
	for _, ch := range c.Chunks {
		if err := ch.Verify(); err != nil {
			return err
		}
	}

	if want := c.payloadLen(); c.Size != want {
		return fmt.Errorf("%w: %q declares %d bytes, holds %d", ErrSizeMismatch, c.ID[:], c.Size, want)
	}

	return nil
}

// Find returns the first direct child with the given ID.
func (c *Chunk) Find(id [4]byte) *Chunk {
	if c == nil {
		return nil
	}

	for _, ch := range c.Chunks {
		if ch.ID == id {
			return ch
		}
	}

	return nil
}

// AddChunk appends child to the list chunk c. The declared size of c and of
// every ancestor passed in grows by the footprint of child, so ancestors must
// list every chunk between the root and c.
func (c *Chunk) AddChunk(child *Chunk, ancestors ...*Chunk) error {
	if !c.IsList() {
		return fmt.Errorf("%w: %q", errNotAList, c.ID[:])
	}

	child.Sync()
	c.Chunks = append(c.Chunks, child)

	n := child.Footprint()
	c.Size += n

	for _, a := range ancestors {
		a.Size += n
	}

	return nil
}

// RemoveChunks drops every direct child with the given ID and returns how
// many were removed. Declared sizes are refreshed on the next write.
func (c *Chunk) RemoveChunks(id [4]byte) int {
	kept := c.Chunks[:0]
	removed := 0

	for _, ch := range c.Chunks {
		if ch.ID == id {
			removed++
			continue
		}

		kept = append(kept, ch)
	}

	clear(c.Chunks[len(kept):])
	c.Chunks = kept

	return removed
}

// Clone returns a deep copy of the chunk tree.
func (c *Chunk) Clone() *Chunk {
	if c == nil {
		return nil
	}

	out := *c
	out.Data = append([]byte(nil), c.Data...)

	if c.Chunks != nil {
		out.Chunks = make([]*Chunk, len(c.Chunks))
		for i, ch := range c.Chunks {
			out.Chunks[i] = ch.Clone()
		}
	}

	return &out
}

// Bytes serializes the chunk tree after stamping exact sizes.
func (c *Chunk) Bytes() []byte {
	c.Sync()

	buf := bytes.NewBuffer(make([]byte, 0, c.Footprint()))
	// writes to a bytes.Buffer don't fail
	_, _ = c.WriteTo(buf)

	return buf.Bytes()
}

// WriteTo writes the chunk tree using the declared sizes as they are.
// Call Sync first unless the sizes are known to be right.
func (c *Chunk) WriteTo(w io.Writer) (int64, error) {
	var hdr [chunkHeaderSize]byte

	copy(hdr[:4], c.ID[:])
	binary.LittleEndian.PutUint32(hdr[4:], c.Size)

	n, err := w.Write(hdr[:])
	total := int64(n)

	if err != nil {
		return total, fmt.Errorf("failed to write %q chunk header: %w", c.ID[:], err)
	}

	switch c.kind {
	case kindLeaf:
		n, err = w.Write(c.Data)
		total += int64(n)

		if err != nil {
			return total, fmt.Errorf("failed to write %q chunk payload: %w", c.ID[:], err)
		}
	case kindForm:
		n, err = w.Write(c.Form[:])
		total += int64(n)

		if err != nil {
			return total, fmt.Errorf("failed to write %q form type: %w", c.ID[:], err)
		}

		fallthrough
	default:
		for _, ch := range c.Chunks {
			m, err := ch.WriteTo(w)
			total += m

			if err != nil {
				return total, err
			}
		}
	}

	if c.payloadLen()%2 == 1 {
		n, err = w.Write([]byte{0})
		total += int64(n)

		if err != nil {
			return total, fmt.Errorf("failed to write %q chunk padding: %w", c.ID[:], err)
		}
	}

	return total, nil
}

// ParseChunk parses the chunk tree starting at the beginning of b using the
// default registry. Bytes following the root chunk are ignored.
func ParseChunk(b []byte) (*Chunk, error) {
	return defaultChunkRegistry.Parse(b)
}

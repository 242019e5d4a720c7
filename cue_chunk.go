package e2s

import (
	"encoding/binary"
	"fmt"
)

const cuePointSize = 24

// CuePoint is one entry of a cue chunk.
type CuePoint struct {
	// ID is the unique identifier of the cue point.
	ID [4]byte
	// Position is the play order position.
	Position uint32
	// DataChunkID is the ID of the chunk the cue point refers to.
	DataChunkID [4]byte
	// ChunkStart is the byte offset of the data chunk within a wave list.
	ChunkStart uint32
	// BlockStart is the byte offset of the block holding the cue point.
	BlockStart uint32
	// SampleOffset is the sample frame offset of the cue point.
	SampleOffset uint32
}

// DecodeCueChunk decodes the payload of a cue chunk.
func DecodeCueChunk(b []byte) ([]*CuePoint, error) {
	if len(b) < 4 {
		return nil, &ParseError{ID: CIDCue, Err: ErrTruncated}
	}

	n := binary.LittleEndian.Uint32(b[0:4])
	if uint64(n)*cuePointSize > uint64(len(b)-4) {
		return nil, &ParseError{ID: CIDCue, Offset: 4, Err: fmt.Errorf("%w: %d cue points declared", ErrTruncated, n)}
	}

	points := make([]*CuePoint, 0, n)
	for i := range int(n) {
		p := b[4+i*cuePointSize:]

		c := &CuePoint{
			Position:     binary.LittleEndian.Uint32(p[4:8]),
			ChunkStart:   binary.LittleEndian.Uint32(p[12:16]),
			BlockStart:   binary.LittleEndian.Uint32(p[16:20]),
			SampleOffset: binary.LittleEndian.Uint32(p[20:24]),
		}
		copy(c.ID[:], p[0:4])
		copy(c.DataChunkID[:], p[8:12])

		points = append(points, c)
	}

	return points, nil
}

// EncodeCueChunk returns the cue chunk payload for points.
func EncodeCueChunk(points []*CuePoint) []byte {
	b := make([]byte, 4+len(points)*cuePointSize)
	binary.LittleEndian.PutUint32(b[0:4], uint32(len(points)))

	for i, c := range points {
		p := b[4+i*cuePointSize:]
		copy(p[0:4], c.ID[:])
		binary.LittleEndian.PutUint32(p[4:8], c.Position)
		copy(p[8:12], c.DataChunkID[:])
		binary.LittleEndian.PutUint32(p[12:16], c.ChunkStart)
		binary.LittleEndian.PutUint32(p[16:20], c.BlockStart)
		binary.LittleEndian.PutUint32(p[20:24], c.SampleOffset)
	}

	return b
}

package e2s

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncated is returned when a chunk header or payload runs past the
	// end of its enclosing buffer.
	ErrTruncated = errors.New("truncated chunk")
	// ErrMalformedChunk is returned when a chunk is structurally invalid,
	// e.g. a list chunk too short to hold its form type.
	ErrMalformedChunk = errors.New("malformed chunk")
	// ErrChunkNotFound is returned when a required chunk is missing.
	ErrChunkNotFound = errors.New("chunk not found")
	// ErrSizeMismatch is returned by Verify when a declared chunk size does
	// not match the chunk content.
	ErrSizeMismatch = errors.New("declared chunk size mismatch")
	// ErrFormatUnsupported is returned when a sample is not 16-bit integer PCM.
	ErrFormatUnsupported = errors.New("unsupported sample format")
	// ErrCollectionFull is returned when appending past the container capacity.
	ErrCollectionFull = errors.New("sample container is full")

	errNotAList = errors.New("not a list chunk")
)

// ParseError reports where a chunk tree failed to parse.
type ParseError struct {
	ID     [4]byte
	Offset int
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("e2s: chunk %q at offset %d: %v", e.ID[:], e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

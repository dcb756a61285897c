// Package mp4 embeds XMP in ISO base media files (MP4, MOV, AVCHD
// exports) as a top-level uuid box.
package mp4

import (
	"fmt"
	"io"

	"github.com/simonhull/xmpmeta/internal/binary"
	"github.com/simonhull/xmpmeta/internal/types"
)

// Box represents a top-level ISO BMFF box.
type Box struct {
	Size     uint64 // Total size including header
	Type     string // 4-character type code
	Offset   int64  // Position in file
	Extended bool   // Whether this uses 64-bit extended size
	ToEOF    bool   // Size field was 0: the box runs to the end of file
}

// HeaderSize returns the length of the size and type fields.
func (b *Box) HeaderSize() int64 {
	if b.Extended {
		return 16
	}
	return 8
}

// DataSize returns the size of the box's data (excluding header)
func (b *Box) DataSize() int64 {
	return int64(b.Size) - b.HeaderSize()
}

// DataOffset returns the file offset where the box's data starts
func (b *Box) DataOffset() int64 {
	return b.Offset + b.HeaderSize()
}

// End returns the offset just past the box.
func (b *Box) End() int64 {
	return b.Offset + int64(b.Size)
}

// readBoxHeader reads a box header at the given offset
func readBoxHeader(sr *binary.SafeReader, offset int64) (*Box, error) {
	size32, err := binary.Read[uint32](sr, offset, "box size")
	if err != nil {
		return nil, err
	}

	typeBytes, err := sr.Bytes(offset+4, 4, "box type")
	if err != nil {
		return nil, err
	}

	box := &Box{
		Type:   string(typeBytes),
		Offset: offset,
	}

	switch size32 {
	case 1:
		// 64-bit size follows the type
		size64, err := binary.Read[uint64](sr, offset+8, "extended box size")
		if err != nil {
			return nil, err
		}
		box.Size = size64
		box.Extended = true
	case 0:
		box.Size = uint64(sr.Size() - offset)
		box.ToEOF = true
	default:
		box.Size = uint64(size32)
	}

	if box.Size < uint64(box.HeaderSize()) {
		return nil, &types.CorruptedFileError{
			Path:   sr.Path(),
			Offset: offset,
			Reason: fmt.Sprintf("invalid box size %d (minimum is %d)", box.Size, box.HeaderSize()),
		}
	}
	if box.End() > sr.Size() || box.End() < offset {
		return nil, &types.CorruptedFileError{
			Path:   sr.Path(),
			Offset: offset,
			Reason: fmt.Sprintf("box '%s' of size %d extends past end of file", box.Type, box.Size),
		}
	}

	return box, nil
}

// topLevel returns every top-level box in file order.
func topLevel(sr *binary.SafeReader) ([]*Box, error) {
	var boxes []*Box
	for offset := int64(0); offset < sr.Size(); {
		box, err := readBoxHeader(sr, offset)
		if err != nil {
			return nil, err
		}
		boxes = append(boxes, box)
		offset = box.End()
	}
	return boxes, nil
}

// Boxes lists the top-level boxes of an ISO BMFF file.
func Boxes(r io.ReaderAt, size int64, path string) ([]*Box, error) {
	return topLevel(binary.NewSafeReader(r, size, path))
}

// IsXMP reports whether b is the uuid box that carries XMP.
func IsXMP(r io.ReaderAt, size int64, b *Box) bool {
	return isXMPBox(binary.NewSafeReader(r, size, ""), b)
}

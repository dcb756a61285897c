package mp4

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/google/uuid"

	"github.com/simonhull/xmpmeta/internal/binary"
	"github.com/simonhull/xmpmeta/internal/registry"
	"github.com/simonhull/xmpmeta/internal/types"
)

func init() {
	registry.Register(types.FormatMP4, Handler{})
}

// XMPBoxID is the usertype of the uuid box that carries XMP.
var XMPBoxID = uuid.MustParse("be7acfcb-97a9-42e8-9c71-999491e3afac")

const usertypeSize = 16

func isXMPBox(sr *binary.SafeReader, b *Box) bool {
	if b.Type != "uuid" || b.DataSize() < usertypeSize {
		return false
	}
	raw, err := sr.Bytes(b.DataOffset(), usertypeSize, "uuid usertype")
	if err != nil {
		return false
	}
	id, err := uuid.FromBytes(raw)
	return err == nil && id == XMPBoxID
}

func findXMP(sr *binary.SafeReader, boxes []*Box) *Box {
	for _, b := range boxes {
		if isXMPBox(sr, b) {
			return b
		}
	}
	return nil
}

// Handler reads and writes the XMP uuid box.
type Handler struct{}

// Extract returns the packet of the first XMP box.
func (Handler) Extract(sr *binary.SafeReader) ([]byte, error) {
	boxes, err := topLevel(sr)
	if err != nil {
		return nil, err
	}
	b := findXMP(sr, boxes)
	if b == nil {
		return nil, nil
	}
	return sr.Bytes(b.DataOffset()+usertypeSize, int(b.DataSize()-usertypeSize), "XMP packet")
}

// plan describes how a packet will be placed in the file.
type plan struct {
	existing *Box
	inPlace  bool
	boxSize  int64
}

func planWrite(sr *binary.SafeReader, packet []byte) (plan, error) {
	boxes, err := topLevel(sr)
	if err != nil {
		return plan{}, err
	}
	p := plan{
		existing: findXMP(sr, boxes),
		boxSize:  8 + usertypeSize + int64(len(packet)),
	}
	if p.boxSize > math.MaxUint32 {
		return plan{}, fmt.Errorf("packet of %d bytes is too large for a box", len(packet))
	}

	if e := p.existing; e != nil && !e.Extended && !e.ToEOF {
		slack := int64(e.Size) - p.boxSize
		p.inPlace = slack == 0 || slack >= 8
	}
	if !p.inPlace && len(boxes) > 0 && boxes[len(boxes)-1].ToEOF {
		return plan{}, fmt.Errorf("final '%s' box has no explicit size", boxes[len(boxes)-1].Type)
	}
	return p, nil
}

// CanPut refuses packets that could only be appended after an
// open-ended final box.
func (Handler) CanPut(packet []byte, original io.ReaderAt, originalSize int64) (bool, string) {
	sr := binary.NewSafeReader(original, originalSize, "")
	if _, err := planWrite(sr, packet); err != nil {
		return false, err.Error()
	}
	return true, ""
}

// Write copies the original with the new XMP box. A packet that fits the
// existing box is written in place, padded with a free box. Otherwise
// the old box is retyped to free and the new box is appended, so no
// chunk offset in moov changes.
func (Handler) Write(w io.Writer, packet []byte, original io.ReaderAt, originalSize int64) error {
	sr := binary.NewSafeReader(original, originalSize, "")
	p, err := planWrite(sr, packet)
	if err != nil {
		return err
	}
	sw := binary.NewSafeWriter(w)

	switch {
	case p.inPlace:
		e := p.existing
		if err := sr.CopyRange(sw, 0, e.Offset, "boxes before XMP"); err != nil {
			return err
		}
		if err := writeXMPBox(sw, packet, p.boxSize); err != nil {
			return err
		}
		if slack := int64(e.Size) - p.boxSize; slack > 0 {
			if err := writeFree(sw, slack); err != nil {
				return err
			}
		}
		return sr.CopyRange(sw, e.End(), originalSize-e.End(), "boxes after XMP")

	case p.existing != nil:
		e := p.existing
		if err := sr.CopyRange(sw, 0, e.Offset+4, "boxes before XMP"); err != nil {
			return err
		}
		if err := sw.WriteString("free"); err != nil {
			return err
		}
		if err := sr.CopyRange(sw, e.Offset+8, originalSize-e.Offset-8, "boxes after XMP"); err != nil {
			return err
		}

	default:
		if err := sr.CopyRange(sw, 0, originalSize, "original boxes"); err != nil {
			return err
		}
	}
	return writeXMPBox(sw, packet, p.boxSize)
}

func writeXMPBox(sw *binary.SafeWriter, packet []byte, size int64) error {
	if err := binary.Put(sw, uint32(size)); err != nil {
		return err
	}
	if err := sw.WriteString("uuid"); err != nil {
		return err
	}
	if err := sw.WriteBytes(XMPBoxID[:]); err != nil {
		return err
	}
	return sw.WriteBytes(packet)
}

func writeFree(sw *binary.SafeWriter, size int64) error {
	if err := binary.Put(sw, uint32(size)); err != nil {
		return err
	}
	if err := sw.WriteString("free"); err != nil {
		return err
	}
	return sw.WriteBytes(bytes.Repeat([]byte{0}, int(size-8)))
}

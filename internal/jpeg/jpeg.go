// Package jpeg embeds XMP in JPEG files as an APP1 segment.
package jpeg

import (
	"bytes"
	"fmt"
	"io"

	"github.com/simonhull/xmpmeta/internal/binary"
	"github.com/simonhull/xmpmeta/internal/registry"
	"github.com/simonhull/xmpmeta/internal/types"
)

func init() {
	registry.Register(types.FormatJPEG, Handler{})
}

const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOS  = 0xDA
	markerAPP0 = 0xE0
	markerAPP1 = 0xE1
)

// MaxPacketSize is the largest packet a single APP1 segment can carry.
const MaxPacketSize = 65502

var (
	xmpHeader  = []byte("http://ns.adobe.com/xap/1.0/\x00")
	exifHeader = []byte("Exif\x00\x00")
)

// segment is one marker segment before the scan data.
type segment struct {
	offset int64 // position of the 0xFF
	length int64 // total length including marker and length field
	marker byte
}

func (s segment) payload() (int64, int64) {
	return s.offset + 4, s.length - 4
}

// scan walks the marker segments up to the first SOS or EOI. rest is the
// offset where the copy-verbatim tail of the file starts.
func scan(sr *binary.SafeReader) (segs []segment, rest int64, err error) {
	soi, err := binary.Read[uint16](sr, 0, "SOI marker")
	if err != nil {
		return nil, 0, err
	}
	if soi != 0xFF00|markerSOI {
		return nil, 0, &types.CorruptedFileError{Path: sr.Path(), Reason: "missing SOI marker"}
	}

	offset := int64(2)
	for offset < sr.Size() {
		lead, err := binary.Read[uint8](sr, offset, "marker prefix")
		if err != nil {
			return nil, 0, err
		}
		if lead != 0xFF {
			return nil, 0, &types.CorruptedFileError{
				Path:   sr.Path(),
				Offset: offset,
				Reason: fmt.Sprintf("expected marker, found 0x%02X", lead),
			}
		}
		m, err := binary.Read[uint8](sr, offset+1, "marker")
		if err != nil {
			return nil, 0, err
		}

		switch {
		case m == 0xFF:
			// fill byte
			offset++
		case m == markerSOS || m == markerEOI:
			return segs, offset, nil
		case m == 0x01 || (m >= 0xD0 && m <= 0xD7):
			segs = append(segs, segment{offset: offset, length: 2, marker: m})
			offset += 2
		default:
			l, err := binary.Read[uint16](sr, offset+2, "segment length")
			if err != nil {
				return nil, 0, err
			}
			if l < 2 {
				return nil, 0, &types.CorruptedFileError{
					Path:   sr.Path(),
					Offset: offset,
					Reason: fmt.Sprintf("segment length %d below minimum", l),
				}
			}
			segs = append(segs, segment{offset: offset, length: 2 + int64(l), marker: m})
			offset += 2 + int64(l)
		}
	}
	return segs, sr.Size(), nil
}

// hasPrefix reports whether the segment payload starts with prefix.
func hasPrefix(sr *binary.SafeReader, s segment, prefix []byte) bool {
	off, n := s.payload()
	if s.marker != markerAPP1 || n < int64(len(prefix)) {
		return false
	}
	head, err := sr.Bytes(off, len(prefix), "APP1 signature")
	return err == nil && bytes.Equal(head, prefix)
}

// Handler reads and writes the XMP APP1 segment.
type Handler struct{}

// Extract returns the packet of the first XMP APP1 segment.
func (Handler) Extract(sr *binary.SafeReader) ([]byte, error) {
	segs, _, err := scan(sr)
	if err != nil {
		return nil, err
	}
	for _, s := range segs {
		if hasPrefix(sr, s, xmpHeader) {
			off, n := s.payload()
			hl := int64(len(xmpHeader))
			return sr.Bytes(off+hl, int(n-hl), "XMP packet")
		}
	}
	return nil, nil
}

// CanPut refuses packets that do not fit in one segment.
func (Handler) CanPut(packet []byte, _ io.ReaderAt, _ int64) (bool, string) {
	if len(packet) > MaxPacketSize {
		return false, fmt.Sprintf("%s: packet of %d bytes exceeds %d",
			types.CodeTooLargeForJPEG, len(packet), MaxPacketSize)
	}
	return true, ""
}

// Write copies the original, dropping any existing XMP segment and
// inserting the new one after the leading APP0 and Exif segments.
func (h Handler) Write(w io.Writer, packet []byte, original io.ReaderAt, originalSize int64) error {
	if ok, reason := h.CanPut(packet, original, originalSize); !ok {
		return types.Errorf(types.CodeTooLargeForJPEG, "%s", reason)
	}

	sr := binary.NewSafeReader(original, originalSize, "")
	segs, rest, err := scan(sr)
	if err != nil {
		return err
	}

	sw := binary.NewSafeWriter(w)
	if err := binary.Put[uint16](sw, 0xFF00|markerSOI); err != nil {
		return err
	}

	inserted := false
	for _, s := range segs {
		if hasPrefix(sr, s, xmpHeader) {
			continue
		}
		leading := s.marker == markerAPP0 || hasPrefix(sr, s, exifHeader)
		if !inserted && !leading {
			if err := writeSegment(sw, packet); err != nil {
				return err
			}
			inserted = true
		}
		if err := sr.CopyRange(sw, s.offset, s.length, "segment"); err != nil {
			return err
		}
	}
	if !inserted {
		if err := writeSegment(sw, packet); err != nil {
			return err
		}
	}

	return sr.CopyRange(sw, rest, originalSize-rest, "image data")
}

func writeSegment(sw *binary.SafeWriter, packet []byte) error {
	if err := binary.Put[uint8](sw, 0xFF); err != nil {
		return err
	}
	if err := binary.Put[uint8](sw, markerAPP1); err != nil {
		return err
	}
	if err := binary.Put(sw, uint16(2+len(xmpHeader)+len(packet))); err != nil {
		return err
	}
	if err := sw.WriteBytes(xmpHeader); err != nil {
		return err
	}
	return sw.WriteBytes(packet)
}

package types

import (
	"bytes"
	"io"

	"github.com/simonhull/xmpmeta/internal/binary"
)

// Format represents the detected container format of a host file.
type Format int

const (
	// FormatUnknown represents an unknown or unsupported format.
	FormatUnknown Format = iota
	// FormatXMP represents a sidecar file holding only an XMP packet.
	FormatXMP
	// FormatJPEG represents JPEG/JFIF images.
	FormatJPEG
	// FormatMP4 represents ISO base media files (MP4, MOV, M4V, 3GP).
	FormatMP4
	// FormatPacket represents any other file with an embedded XMP packet
	// that can only be rewritten in place.
	FormatPacket
)

func (f Format) String() string {
	switch f {
	case FormatXMP:
		return "XMP"
	case FormatJPEG:
		return "JPEG"
	case FormatMP4:
		return "MP4"
	case FormatPacket:
		return "Packet"
	default:
		return "Unknown"
	}
}

// Extensions returns common file extensions for this format.
func (f Format) Extensions() []string {
	switch f {
	case FormatXMP:
		return []string{".xmp"}
	case FormatJPEG:
		return []string{".jpg", ".jpeg", ".jpe"}
	case FormatMP4:
		return []string{".mp4", ".m4v", ".mov", ".3gp"}
	case FormatPacket, FormatUnknown:
		return nil
	default:
		return nil
	}
}

// PacketMarker opens every XMP packet wrapper.
var PacketMarker = []byte("<?xpacket begin=")

// sidecarPrefixes are the ways a bare XMP document may start.
var sidecarPrefixes = [][]byte{
	[]byte("<?xpacket"),
	[]byte("<?xml"),
	[]byte("<x:xmpmeta"),
	[]byte("<x:xapmeta"),
	[]byte("<rdf:RDF"),
}

const sniffSize = 64

// DetectFormat determines the container format by examining magic bytes.
//
// Files that match no known container are scanned for an XMP packet
// wrapper; if one is found the file is reported as FormatPacket.
func DetectFormat(r io.ReaderAt, size int64, path string) (Format, error) {
	if size < 4 {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "file too small",
		}
	}

	sr := binary.NewSafeReader(r, size, path)

	head := make([]byte, min(size, sniffSize))
	if err := sr.ReadAt(head, 0, "file magic bytes"); err != nil {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "failed to read file header",
		}
	}

	// JPEG SOI followed by a marker
	if head[0] == 0xFF && head[1] == 0xD8 && head[2] == 0xFF {
		return FormatJPEG, nil
	}

	// ISO base media: first box is ftyp
	if len(head) >= 12 && string(head[4:8]) == "ftyp" {
		boxSize, err := binary.Read[uint32](sr, 0, "ftyp box size")
		if err == nil && (boxSize >= 12 || boxSize == 1) {
			return FormatMP4, nil
		}
	}

	text := bytes.TrimLeft(bytes.TrimPrefix(head, []byte("\xEF\xBB\xBF")), " \t\r\n")
	for _, prefix := range sidecarPrefixes {
		if bytes.HasPrefix(text, prefix) {
			return FormatXMP, nil
		}
	}

	found, err := ScanPacket(r, size)
	if err != nil {
		return FormatUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "failed to scan for XMP packet",
		}
	}
	if found >= 0 {
		return FormatPacket, nil
	}

	return FormatUnknown, &UnsupportedFormatError{
		Path:   path,
		Reason: "no XMP handler for this file",
	}
}

const scanChunk = 64 * 1024

// ScanPacket returns the offset of the first XMP packet wrapper in r, or
// -1 when there is none.
func ScanPacket(r io.ReaderAt, size int64) (int64, error) {
	return ScanFor(r, size, 0, PacketMarker)
}

// ScanFor returns the offset of the first occurrence of marker at or
// after from, or -1 when there is none.
func ScanFor(r io.ReaderAt, size, from int64, marker []byte) (int64, error) {
	overlap := int64(len(marker) - 1)
	buf := make([]byte, scanChunk+overlap)

	for off := from; off < size; off += scanChunk {
		n := min(int64(len(buf)), size-off)
		read, err := r.ReadAt(buf[:n], off)
		if err != nil && err != io.EOF {
			return -1, err
		}
		if i := bytes.Index(buf[:read], marker); i >= 0 {
			return off + int64(i), nil
		}
	}
	return -1, nil
}

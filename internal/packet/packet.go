// Package packet rewrites XMP packets in place inside files whose
// container is otherwise unknown. The replacement must fit the space of
// the packet it replaces.
package packet

import (
	"bytes"
	"fmt"
	"io"

	"github.com/simonhull/xmpmeta/internal/binary"
	"github.com/simonhull/xmpmeta/internal/registry"
	"github.com/simonhull/xmpmeta/internal/types"
)

func init() {
	registry.Register(types.FormatPacket, Handler{})
}

var (
	trailerMarker = []byte("<?xpacket end=")
	piClose       = []byte("?>")
)

// span locates the packet in a file.
type span struct {
	start    int64
	end      int64
	writable bool
}

func (s span) size() int64 { return s.end - s.start }

func locate(sr *binary.SafeReader) (span, bool, error) {
	r := sr.Source()
	start, err := types.ScanFor(r, sr.Size(), 0, types.PacketMarker)
	if err != nil || start < 0 {
		return span{}, false, err
	}
	trailer, err := types.ScanFor(r, sr.Size(), start, trailerMarker)
	if err != nil {
		return span{}, false, err
	}
	if trailer < 0 {
		return span{}, false, &types.CorruptedFileError{
			Path:   sr.Path(),
			Offset: start,
			Reason: "XMP packet has no trailer",
		}
	}
	closing, err := types.ScanFor(r, sr.Size(), trailer, piClose)
	if err != nil {
		return span{}, false, err
	}
	if closing < 0 {
		return span{}, false, &types.CorruptedFileError{
			Path:   sr.Path(),
			Offset: trailer,
			Reason: "unterminated packet trailer",
		}
	}

	s := span{start: start, end: closing + int64(len(piClose))}
	tail, err := sr.Bytes(trailer, int(s.end-trailer), "packet trailer")
	if err != nil {
		return span{}, false, err
	}
	s.writable = !bytes.Contains(tail, []byte(`end="r"`)) && !bytes.Contains(tail, []byte(`end='r'`))
	return s, true, nil
}

// Handler reads and rewrites packets found by scanning.
type Handler struct{}

// Extract returns the first packet in the file, wrapper included.
func (Handler) Extract(sr *binary.SafeReader) ([]byte, error) {
	s, found, err := locate(sr)
	if err != nil || !found {
		return nil, err
	}
	return sr.Bytes(s.start, int(s.size()), "XMP packet")
}

// CanPut accepts a packet that fits the writable packet it replaces.
func (Handler) CanPut(p []byte, original io.ReaderAt, originalSize int64) (bool, string) {
	sr := binary.NewSafeReader(original, originalSize, "")
	s, found, err := locate(sr)
	switch {
	case err != nil:
		return false, err.Error()
	case !found:
		return false, "file has no packet to rewrite"
	case !s.writable:
		return false, "packet is marked read-only"
	}
	if _, err := Fit(p, int(s.size())); err != nil {
		return false, err.Error()
	}
	return true, ""
}

// Write replaces the packet without moving any other byte.
func (h Handler) Write(w io.Writer, p []byte, original io.ReaderAt, originalSize int64) error {
	if ok, reason := h.CanPut(p, original, originalSize); !ok {
		return types.Errorf(types.CodeBadFileFormat, "cannot rewrite packet in place: %s", reason)
	}
	sr := binary.NewSafeReader(original, originalSize, "")
	s, _, err := locate(sr)
	if err != nil {
		return err
	}
	fitted, err := Fit(p, int(s.size()))
	if err != nil {
		return err
	}

	sw := binary.NewSafeWriter(w)
	if err := sr.CopyRange(sw, 0, s.start, "data before packet"); err != nil {
		return err
	}
	if err := sw.WriteBytes(fitted); err != nil {
		return err
	}
	return sr.CopyRange(sw, s.end, originalSize-s.end, "data after packet")
}

// Fit re-pads a wrapped packet to exactly size bytes by adjusting the
// whitespace before its trailer.
func Fit(p []byte, size int) ([]byte, error) {
	t := bytes.LastIndex(p, trailerMarker)
	if t < 0 {
		return nil, fmt.Errorf("packet has no trailer")
	}
	body := bytes.TrimRight(p[:t], " \t\r\n")
	trailer := p[t:]

	pad := size - len(body) - len(trailer)
	if pad < 0 {
		return nil, fmt.Errorf("packet needs %d bytes, only %d available", len(body)+len(trailer), size)
	}

	out := make([]byte, 0, size)
	out = append(out, body...)
	for i := range pad {
		if i%100 == 0 {
			out = append(out, '\n')
		} else {
			out = append(out, ' ')
		}
	}
	return append(out, trailer...), nil
}

// Package sidecar handles .xmp files, where the whole file is the packet.
package sidecar

import (
	"io"

	"github.com/simonhull/xmpmeta/internal/binary"
	"github.com/simonhull/xmpmeta/internal/registry"
	"github.com/simonhull/xmpmeta/internal/types"
)

func init() {
	registry.Register(types.FormatXMP, Handler{})
}

// Handler reads and writes sidecar files.
type Handler struct{}

// Extract returns the file contents.
func (Handler) Extract(sr *binary.SafeReader) ([]byte, error) {
	return sr.Bytes(0, int(sr.Size()), "sidecar packet")
}

// Write replaces the file contents with packet.
func (Handler) Write(w io.Writer, packet []byte, _ io.ReaderAt, _ int64) error {
	_, err := w.Write(packet)
	return err
}

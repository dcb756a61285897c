// Package registry maps container formats to the handlers that read and
// embed XMP packets.
package registry

import (
	"io"

	"github.com/simonhull/xmpmeta/internal/binary"
	"github.com/simonhull/xmpmeta/internal/types"
)

// Handler is the interface every container format implements.
type Handler interface {
	// Extract returns the embedded packet, or nil when the file has none.
	Extract(sr *binary.SafeReader) ([]byte, error)

	// Write streams a copy of original to w with packet embedded.
	// original provides read access to the source file for copying the
	// parts of the container that do not change.
	Write(w io.Writer, packet []byte, original io.ReaderAt, originalSize int64) error
}

// Checker is an optional interface for handlers that can refuse a
// packet before any write is attempted.
type Checker interface {
	// CanPut reports whether packet can be embedded, and why not.
	CanPut(packet []byte, original io.ReaderAt, originalSize int64) (bool, string)
}

// handlers maps formats to their handlers.
var handlers = make(map[types.Format]Handler)

// Register registers a handler for a format.
// This is called by format packages during initialization (init functions).
func Register(format types.Format, h Handler) {
	handlers[format] = h
}

// Get returns the handler for a given format.
// Returns nil if no handler is registered for the format.
func Get(format types.Format) Handler {
	return handlers[format]
}

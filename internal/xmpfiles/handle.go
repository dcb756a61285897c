// Package xmpfiles binds a host file to its format handler: it detects
// the container, extracts the packet, stages a replacement and commits
// it with a crash-safe file swap.
package xmpfiles

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/simonhull/xmpmeta/internal/binary"
	"github.com/simonhull/xmpmeta/internal/registry"
	"github.com/simonhull/xmpmeta/internal/types"

	// Register format handlers
	_ "github.com/simonhull/xmpmeta/internal/jpeg"
	_ "github.com/simonhull/xmpmeta/internal/mp4"
	_ "github.com/simonhull/xmpmeta/internal/packet"
	_ "github.com/simonhull/xmpmeta/internal/sidecar"
)

// Handle is an open host file.
type Handle struct {
	f        *os.File
	handler  registry.Handler
	path     string
	packet   []byte
	pending  []byte
	size     int64
	format   types.Format
	writable bool
	staged   bool
}

// Open opens path and extracts its packet. writable requests update
// access, so permission problems surface here rather than at commit.
// The file is closed again on every error path.
func Open(path string, writable bool) (h *Handle, err error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &types.FileNotFoundError{Path: path}
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, &types.UnsupportedFormatError{Path: path, Reason: "not a regular file"}
	}

	flag := os.O_RDONLY
	if writable {
		flag = os.O_RDWR
	}
	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			_ = f.Close() //nolint:errcheck // Best effort cleanup
		}
	}()

	size := info.Size()
	format, err := types.DetectFormat(f, size, path)
	if err != nil {
		return nil, err
	}

	handler := registry.Get(format)
	if handler == nil {
		return nil, &types.UnsupportedFormatError{
			Path:   path,
			Reason: fmt.Sprintf("%s: no handler for %s", types.CodeNoFileHandler, format),
		}
	}

	packet, err := handler.Extract(binary.NewSafeReader(f, size, path))
	if err != nil {
		var corrupted *types.CorruptedFileError
		if errors.As(err, &corrupted) {
			return nil, err
		}
		return nil, &types.CorruptedFileError{Err: err, Path: path, Reason: "cannot read XMP from container"}
	}

	return &Handle{
		f:        f,
		handler:  handler,
		path:     path,
		packet:   packet,
		size:     size,
		format:   format,
		writable: writable,
	}, nil
}

// Path returns the host file path.
func (h *Handle) Path() string { return h.path }

// Format returns the detected container format.
func (h *Handle) Format() types.Format { return h.format }

// Packet returns the packet read at open, or nil when the file had none.
func (h *Handle) Packet() []byte { return h.packet }

// CanPut reports whether packet can be written to this file.
func (h *Handle) CanPut(packet []byte) (bool, string) {
	if !h.writable {
		return false, types.ReasonReadOnly.String()
	}
	if h.f == nil {
		return false, types.ReasonClosed.String()
	}
	if c, ok := h.handler.(registry.Checker); ok {
		return c.CanPut(packet, h.f, h.size)
	}
	return true, ""
}

// Put stages packet for the next CloseSafely.
func (h *Handle) Put(packet []byte) error {
	switch {
	case !h.writable:
		return &types.WriteError{Path: h.path, Reason: types.ReasonReadOnly}
	case h.f == nil:
		return &types.WriteError{Path: h.path, Reason: types.ReasonClosed}
	}
	if ok, reason := h.CanPut(packet); !ok {
		return &types.WriteError{Path: h.path, Reason: types.ReasonFormat, Detail: reason}
	}
	h.pending = append([]byte(nil), packet...)
	h.staged = true
	return nil
}

// Staged reports whether a packet is waiting to be committed.
func (h *Handle) Staged() bool { return h.staged }

// Release closes the file without committing anything staged.
func (h *Handle) Release() error {
	if h.f == nil {
		return nil
	}
	err := h.f.Close()
	h.f = nil
	h.pending = nil
	h.staged = false
	return err
}

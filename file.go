package xmpmeta

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/simonhull/xmpmeta/internal/types"
	"github.com/simonhull/xmpmeta/internal/xmpfiles"
)

// Mode is the access mode a File is opened with.
type Mode int

const (
	// ModeRead opens the file read-only; writes are refused.
	ModeRead Mode = iota
	// ModeWrite opens the file for update.
	ModeWrite
	// ModeReadWrite opens the file for update.
	ModeReadWrite
)

func (m Mode) String() string {
	switch m {
	case ModeRead:
		return "r"
	case ModeWrite:
		return "w"
	case ModeReadWrite:
		return "rw"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

func (m Mode) writable() bool {
	return m == ModeWrite || m == ModeReadWrite
}

// ParseMode converts "r", "w" or "rw" into a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "r", "":
		return ModeRead, nil
	case "w":
		return ModeWrite, nil
	case "rw":
		return ModeReadWrite, nil
	default:
		return 0, &InvalidArgumentError{Arg: s, Reason: `mode must be "r", "w" or "rw"`}
	}
}

// fileHandle is the part of an open container File relies on.
type fileHandle interface {
	Packet() []byte
	Format() types.Format
	CanPut(packet []byte) (bool, string)
	Put(packet []byte) error
	CloseSafely(opts xmpfiles.CommitOptions) error
	Release() error
}

// openHandle opens the container; tests replace it to observe releases.
var openHandle = func(path string, writable bool) (fileHandle, error) {
	h, err := xmpfiles.Open(path, writable)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// File is a host file bound to its XMP metadata.
//
// Edits go to the Store returned by XMP and reach the disk on Save or
// Close, through a temporary file renamed over the original:
//
//	file, err := xmpmeta.Open("photo.jpg", xmpmeta.ModeReadWrite)
//	if err != nil {
//		return err
//	}
//	file.XMP().Assign("tiff:Make", "Canon")
//	if err := file.Save(); err != nil {
//		return err
//	}
//	return file.Close()
//
// A File is not safe for concurrent use.
type File struct {
	handle  fileHandle // nil while closed
	xmp     *Store
	options *openOptions
	path    string
	mode    Mode
	format  Format
}

// Open opens path in mode and parses its XMP. A file without XMP yields
// an empty store.
//
// Errors:
//   - *FileNotFoundError when path does not exist
//   - *UnsupportedFormatError when the format cannot carry XMP
//   - *CorruptedFileError when the container or the packet is invalid
func Open(path string, mode Mode, opts ...Option) (*File, error) {
	if mode < ModeRead || mode > ModeReadWrite {
		return nil, &InvalidArgumentError{Arg: mode.String(), Reason: "unknown mode"}
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	f := &File{path: path, mode: mode, options: applyOptions(opts)}
	if err := f.open(); err != nil {
		return nil, err
	}
	return f, nil
}

// open acquires the handle and parses the packet. The handle is
// released before returning any error.
func (f *File) open() error {
	h, err := openHandle(f.path, f.mode.writable())
	if err != nil {
		return err
	}

	store, err := parseStore(h.Packet(), f.options)
	if err != nil {
		if rerr := h.Release(); rerr != nil {
			f.options.logger.Warn("release after failed parse", "path", f.path, "error", rerr)
		}
		return &CorruptedFileError{Err: err, Path: f.path, Reason: "cannot parse XMP packet"}
	}

	f.handle = h
	f.format = h.Format()
	f.xmp = store
	f.options.logger.Debug("opened file",
		"path", f.path,
		"format", f.format,
		"mode", f.mode,
		"packet_bytes", len(h.Packet()),
		"warnings", len(store.warnings))
	return nil
}

// Reopen opens a closed file again in its original mode.
func (f *File) Reopen() error {
	if f.handle != nil {
		return &OpenError{Path: f.path, Reason: "file is already open"}
	}
	return f.open()
}

// XMP returns the current store. Edits to it are written by Save.
func (f *File) XMP() *Store { return f.xmp }

// Path returns the absolute path of the file.
func (f *File) Path() string { return f.path }

// Mode returns the access mode the file was opened with.
func (f *File) Mode() Mode { return f.mode }

// Format returns the detected container format.
func (f *File) Format() Format { return f.format }

// IsOpen reports whether the file holds an open handle.
func (f *File) IsOpen() bool { return f.handle != nil }

// Source is XMP that can be installed into a File: a *Store or a
// serialized Packet.
type Source interface {
	xmpSource()
}

func (*Store) xmpSource() {}

// Packet is serialized XMP obtained elsewhere, e.g. another file's
// sidecar.
type Packet []byte

func (Packet) xmpSource() {}

// storeOf resolves src; nil means the current store.
func (f *File) storeOf(src Source) (*Store, error) {
	switch v := src.(type) {
	case nil:
		return f.xmp, nil
	case *Store:
		if v == nil {
			return f.xmp, nil
		}
		return v, nil
	case Packet:
		store, err := parseStore(v, f.options)
		if err != nil {
			return nil, &InvalidArgumentError{Err: err, Arg: "packet", Reason: "not a parseable XMP packet"}
		}
		return store, nil
	default:
		return nil, &InvalidArgumentError{Arg: fmt.Sprintf("%T", src), Reason: "unsupported XMP source"}
	}
}

// CanPutXMP reports whether src could be written to the file. A nil src
// checks the current store. It is false for read-only and closed files
// and when the container refuses the packet.
func (f *File) CanPutXMP(src Source) bool {
	if f.handle == nil || !f.mode.writable() {
		return false
	}
	store, err := f.storeOf(src)
	if err != nil {
		return false
	}
	ok, _ := f.handle.CanPut(store.packet())
	return ok
}

// SetXMP installs a copy of src as the current store and stages it for
// the next Save or Close. The copy is returned.
func (f *File) SetXMP(src Source) (*Store, error) {
	if f.handle == nil {
		return nil, &WriteError{Path: f.path, Reason: ReasonClosed}
	}
	if !f.mode.writable() {
		return nil, &WriteError{Path: f.path, Reason: ReasonReadOnly}
	}

	store, err := f.storeOf(src)
	if err != nil {
		return nil, err
	}
	dup := store.Duplicate()
	if err := f.handle.Put(dup.packet()); err != nil {
		return nil, err
	}
	f.xmp = dup
	return dup, nil
}

// Close writes any staged XMP and releases the file. Read-only files
// are simply released. Closing twice is an error.
func (f *File) Close() error {
	if f.handle == nil {
		return &WriteError{Path: f.path, Reason: ReasonClosed, Detail: "file is already closed"}
	}
	h := f.handle
	f.handle = nil

	if err := h.CloseSafely(xmpfiles.CommitOptions{}); err != nil {
		return err
	}
	f.options.logger.Debug("closed file", "path", f.path)
	return nil
}

// OpenContext opens a file with context support for cancellation.
//
// The context is checked before the file is touched:
//
//	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
//	defer cancel()
//
//	file, err := xmpmeta.OpenContext(ctx, "clip.mp4", xmpmeta.ModeRead)
func OpenContext(ctx context.Context, path string, mode Mode, opts ...Option) (*File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Open(path, mode, opts...)
}

// OpenMany opens multiple files concurrently.
//
// Files are opened in parallel using up to runtime.NumCPU() goroutines.
// Results are returned in the same order as the input paths.
//
// If any file fails to open, all successfully opened files are closed
// and an error is returned.
//
// Example:
//
//	files, err := xmpmeta.OpenMany(ctx, xmpmeta.ModeRead, paths...)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer func() {
//		for _, f := range files {
//			f.Close()
//		}
//	}()
func OpenMany(ctx context.Context, mode Mode, paths ...string) ([]*File, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	results := make([]*File, len(paths))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			file, err := Open(path, mode)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			results[i] = file
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, file := range results {
			if file != nil {
				_ = file.Close() //nolint:errcheck // Best effort cleanup
			}
		}
		return nil, err
	}

	return results, nil
}

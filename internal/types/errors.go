package types

import (
	"errors"
	"fmt"
)

// OutOfBoundsError is returned when attempting to read beyond file bounds.
type OutOfBoundsError struct {
	Path   string
	What   string
	Offset int64
	Length int
	Size   int64
}

func (e *OutOfBoundsError) Error() string {
	if e.Offset >= e.Size {
		return fmt.Sprintf("%s: offset %d out of bounds (file size: %d) while reading %s",
			e.Path, e.Offset, e.Size, e.What)
	}
	return fmt.Sprintf("%s: read of %d bytes at offset %d would exceed file size %d while reading %s",
		e.Path, e.Length, e.Offset, e.Size, e.What)
}

// UnsupportedFormatError is returned when the file cannot carry XMP,
// either because the format is not recognised or no handler exists for it.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported format: %s", e.Path, e.Reason)
}

// CorruptedFileError is returned when the container structure or the
// embedded packet is invalid.
type CorruptedFileError struct {
	Err    error
	Path   string
	Reason string
	Offset int64
}

func (e *CorruptedFileError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("%s: corrupted file at offset %d: %s", e.Path, e.Offset, e.Reason)
	}
	return fmt.Sprintf("%s: corrupted file: %s", e.Path, e.Reason)
}

func (e *CorruptedFileError) Unwrap() error { return e.Err }

// FileNotFoundError is returned by Open when the path does not resolve
// to an existing file.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("%s: file does not exist", e.Path)
}

// OpenError is returned when opening a binding that is already open.
type OpenError struct {
	Path   string
	Reason string
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("%s: cannot open: %s", e.Path, e.Reason)
}

// WriteReason classifies why a write was refused.
type WriteReason int

const (
	// ReasonReadOnly means the file was opened read-only.
	ReasonReadOnly WriteReason = iota + 1
	// ReasonClosed means the binding is closed.
	ReasonClosed
	// ReasonFormat means the container format refuses the packet.
	ReasonFormat
	// ReasonCommit means writing the replacement file failed.
	ReasonCommit
)

func (r WriteReason) String() string {
	switch r {
	case ReasonReadOnly:
		return "file opened read-only"
	case ReasonClosed:
		return "file is closed"
	case ReasonFormat:
		return "format refuses XMP"
	case ReasonCommit:
		return "commit failed"
	default:
		return "unknown"
	}
}

// WriteError is returned when a write violates the access mode, targets
// a closed binding, or is rejected by the container.
type WriteError struct {
	Err    error
	Path   string
	Detail string
	Reason WriteReason
}

func (e *WriteError) Error() string {
	msg := fmt.Sprintf("%s: unable to write XMP; %s", e.Path, e.Reason)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *WriteError) Unwrap() error { return e.Err }

// PropertyWriteError is returned when the RDF engine rejects a set or
// delete. Code preserves the engine's failure code.
type PropertyWriteError struct {
	Err       error
	Namespace string
	Path      string
	Code      Code
}

func (e *PropertyWriteError) Error() string {
	return fmt.Sprintf("write property %q in %q failed with %s: %v", e.Path, e.Namespace, e.Code, e.Err)
}

func (e *PropertyWriteError) Unwrap() error { return e.Err }

// InvalidArgumentError reports a malformed query or a value of the
// wrong kind.
type InvalidArgumentError struct {
	Err    error
	Arg    string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid argument %q: %s: %v", e.Arg, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid argument %q: %s", e.Arg, e.Reason)
}

func (e *InvalidArgumentError) Unwrap() error { return e.Err }

// EngineError is a failure reported by the RDF or container engine.
type EngineError struct {
	Msg  string
	Code Code
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// Errorf builds an EngineError with a formatted message.
func Errorf(code Code, format string, args ...any) error {
	return &EngineError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the engine code from err, or CodeUnknown.
func CodeOf(err error) Code {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return CodeUnknown
}

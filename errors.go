package xmpmeta

import (
	"github.com/simonhull/xmpmeta/internal/types"
)

// FileNotFoundError is an alias to types.FileNotFoundError.
// Re-exporting from internal/types to maintain public API.
type FileNotFoundError = types.FileNotFoundError

// OpenError is an alias to types.OpenError.
type OpenError = types.OpenError

// WriteError is an alias to types.WriteError.
type WriteError = types.WriteError

// WriteReason is an alias to types.WriteReason.
type WriteReason = types.WriteReason

// Re-export write refusal reasons.
const (
	ReasonReadOnly = types.ReasonReadOnly
	ReasonClosed   = types.ReasonClosed
	ReasonFormat   = types.ReasonFormat
	ReasonCommit   = types.ReasonCommit
)

// PropertyWriteError is an alias to types.PropertyWriteError.
type PropertyWriteError = types.PropertyWriteError

// InvalidArgumentError is an alias to types.InvalidArgumentError.
type InvalidArgumentError = types.InvalidArgumentError

// OutOfBoundsError is an alias to types.OutOfBoundsError.
// Re-exporting from internal/types to maintain public API.
type OutOfBoundsError = types.OutOfBoundsError

// UnsupportedFormatError is an alias to types.UnsupportedFormatError.
// Re-exporting from internal/types to maintain public API.
type UnsupportedFormatError = types.UnsupportedFormatError

// CorruptedFileError is an alias to types.CorruptedFileError.
// Re-exporting from internal/types to maintain public API.
type CorruptedFileError = types.CorruptedFileError

// EngineError is an alias to types.EngineError.
type EngineError = types.EngineError

// Code is an alias to types.Code, the failure code of the RDF and
// container engines.
type Code = types.Code

// Re-export engine codes.
const (
	CodeUnknown         = types.CodeUnknown
	CodeBadParam        = types.CodeBadParam
	CodeBadValue        = types.CodeBadValue
	CodeBadSchema       = types.CodeBadSchema
	CodeBadXPath        = types.CodeBadXPath
	CodeBadIndex        = types.CodeBadIndex
	CodeBadSerialize    = types.CodeBadSerialize
	CodeBadFileFormat   = types.CodeBadFileFormat
	CodeNoFileHandler   = types.CodeNoFileHandler
	CodeTooLargeForJPEG = types.CodeTooLargeForJPEG
	CodeBadXML          = types.CodeBadXML
	CodeBadRDF          = types.CodeBadRDF
)

// CodeOf extracts the engine code from err, or CodeUnknown.
func CodeOf(err error) Code {
	return types.CodeOf(err)
}

// Warning is an alias to types.Warning.
// Re-exporting from internal/types to maintain public API.
type Warning = types.Warning

package types

import "fmt"

// Warning represents a non-fatal issue encountered while reading a packet.
//
// Warnings indicate problems that don't prevent metadata extraction but
// may indicate unusual data. Examples include:
//   - RDF forms XMP does not allow (parseType="Literal", rdf:ID)
//   - Malformed xml:lang values
//   - Padding that could not be preserved
type Warning struct {
	// Stage where the warning occurred
	Stage string // "container", "rdf"

	// Warning message
	Message string

	// File offset where the issue occurred (0 if not applicable)
	Offset int64
}

// String returns a human-readable warning message.
func (w Warning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("%s (at offset %d): %s", w.Stage, w.Offset, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}

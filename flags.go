package xmpmeta

import "github.com/simonhull/xmpmeta/internal/rdf"

// PropertyFlags is the bitmask describing a node: its kind (simple,
// struct, array), array ordering, URI values and qualifier state.
// Bit values match the XMP toolkit's property options.
type PropertyFlags = rdf.Flags

// Re-export property flag bits.
const (
	FlagValueIsURI     = rdf.FlagValueIsURI
	FlagHasQualifiers  = rdf.FlagHasQualifiers
	FlagIsQualifier    = rdf.FlagIsQualifier
	FlagHasLang        = rdf.FlagHasLang
	FlagHasType        = rdf.FlagHasType
	FlagStruct         = rdf.FlagStruct
	FlagArray          = rdf.FlagArray
	FlagArrayOrdered   = rdf.FlagArrayOrdered
	FlagArrayAlternate = rdf.FlagArrayAlternate
	FlagArrayAltText   = rdf.FlagArrayAltText
	FlagIsAlias        = rdf.FlagIsAlias
	FlagHasAliases     = rdf.FlagHasAliases
	FlagSchemaNode     = rdf.FlagSchemaNode
)

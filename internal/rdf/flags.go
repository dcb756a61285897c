package rdf

// Flags is the per-node descriptor bitmask reported by traversal and
// property lookups. Bit values follow the XMP toolkit's property
// option bits.
type Flags uint32

const (
	FlagValueIsURI     Flags = 0x00000002
	FlagHasQualifiers  Flags = 0x00000010
	FlagIsQualifier    Flags = 0x00000020
	FlagHasLang        Flags = 0x00000040
	FlagHasType        Flags = 0x00000080
	FlagStruct         Flags = 0x00000100
	FlagArray          Flags = 0x00000200
	FlagArrayOrdered   Flags = 0x00000400
	FlagArrayAlternate Flags = 0x00000800
	FlagArrayAltText   Flags = 0x00001000
	FlagIsAlias        Flags = 0x00010000
	FlagHasAliases     Flags = 0x00020000
	FlagSchemaNode     Flags = 0x80000000
)

// FlagName pairs a bit with its public name.
type FlagName struct {
	Name string
	Bit  Flags
}

// FlagNames is the complete bit → name table. Its length is part of
// the type, so adding a flag without a name does not compile.
var FlagNames = [13]FlagName{
	{"value_is_uri", FlagValueIsURI},
	{"has_qualifiers", FlagHasQualifiers},
	{"is_qualifier", FlagIsQualifier},
	{"has_lang", FlagHasLang},
	{"has_type", FlagHasType},
	{"value_is_struct", FlagStruct},
	{"value_is_array", FlagArray},
	{"array_is_ordered", FlagArrayOrdered},
	{"array_is_alternate", FlagArrayAlternate},
	{"array_is_alt_text", FlagArrayAltText},
	{"is_alias", FlagIsAlias},
	{"has_aliases", FlagHasAliases},
	{"is_schema_node", FlagSchemaNode},
}

// Has reports whether every bit in b is set.
func (f Flags) Has(b Flags) bool {
	return f&b == b
}

// Names decodes the mask into a map holding every known flag name.
func (f Flags) Names() map[string]bool {
	names := make(map[string]bool, len(FlagNames))
	for _, fn := range FlagNames {
		names[fn.Name] = f&fn.Bit != 0
	}
	return names
}

// Set returns the names of the bits that are set, in table order.
func (f Flags) Set() []string {
	var out []string
	for _, fn := range FlagNames {
		if f&fn.Bit != 0 {
			out = append(out, fn.Name)
		}
	}
	return out
}

const arrayKinds = FlagArray | FlagArrayOrdered | FlagArrayAlternate | FlagArrayAltText

// structural bits are stored on nodes; the rest are derived.
const structural = FlagValueIsURI | FlagIsQualifier | FlagStruct | arrayKinds | FlagSchemaNode

// altTextArray is the full bit set of a language alternative.
const altTextArray = FlagArray | FlagArrayOrdered | FlagArrayAlternate | FlagArrayAltText

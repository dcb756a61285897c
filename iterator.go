package xmpmeta

import (
	"iter"
	"strings"

	"github.com/simonhull/xmpmeta/internal/rdf"
)

// IterOption selects what an Iterator visits. Values combine with |.
type IterOption = rdf.IterOptions

// Iteration options. The bit values match Exempi's XMP_ITER_* constants.
const (
	// IterProperties walks the property tree.
	IterProperties = rdf.IterProperties
	// IterAliases lists the registry's alias table instead of the tree.
	IterAliases = rdf.IterAliases
	// IterJustChildren visits only the immediate children of the root.
	IterJustChildren = rdf.IterJustChildren
	// IterJustLeafNodes visits only nodes without children or qualifiers.
	IterJustLeafNodes = rdf.IterJustLeafNodes
	// IterJustLeafName reports only the last step of each path.
	IterJustLeafName = rdf.IterJustLeafName
	// IterIncludeAliases appends alias entries for existing targets.
	IterIncludeAliases = rdf.IterIncludeAliases
	// IterOmitQualifiers skips qualifier nodes.
	IterOmitQualifiers = rdf.IterOmitQualifiers
)

var iterOptionNames = map[string]IterOption{
	"properties":      IterProperties,
	"aliases":         IterAliases,
	"just_children":   IterJustChildren,
	"just_leaf_nodes": IterJustLeafNodes,
	"just_leaf_name":  IterJustLeafName,
	"include_aliases": IterIncludeAliases,
	"omit_qualifiers": IterOmitQualifiers,
}

// ParseIterOptions combines option names such as "just_leaf_nodes" into
// a mask. Unknown names are ignored.
func ParseIterOptions(names []string) IterOption {
	var opts IterOption
	for _, name := range names {
		opts |= iterOptionNames[strings.ToLower(name)]
	}
	return opts
}

// Entry is one node reported by an Iterator. Schema nodes have an empty
// Path and carry FlagSchemaNode.
type Entry struct {
	Namespace string
	Path      string
	Value     string
	Flags     PropertyFlags
}

// IterState is the position of an Iterator in its sequence.
type IterState int

const (
	// IterUnstarted means Next has not been called since creation.
	IterUnstarted IterState = iota
	// IterActive means an entry was returned or the iterator was
	// rewound to its first entry.
	IterActive
	// IterExhausted means Next reported the end of the sequence.
	IterExhausted
)

func (s IterState) String() string {
	switch s {
	case IterUnstarted:
		return "unstarted"
	case IterActive:
		return "active"
	case IterExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Iterator walks a snapshot of a store taken when it was created; later
// edits to the store are not observed. Options are fixed at creation.
//
// Example:
//
//	it := store.Iterate("exif", xmpmeta.IterJustLeafNodes)
//	for e, ok := it.Next(); ok; e, ok = it.Next() {
//		fmt.Println(e.Path, e.Value)
//	}
type Iterator struct {
	cursor *rdf.Cursor // nil when the namespace did not resolve
	state  IterState
}

// Iterate returns an iterator over namespace, or over every schema when
// namespace is empty. A namespace that cannot be resolved yields an
// empty sequence.
func (s *Store) Iterate(namespace string, opts IterOption) *Iterator {
	uri := ""
	if namespace != "" {
		var ok bool
		if uri, ok = s.resolve(namespace); !ok {
			return &Iterator{}
		}
	}
	return &Iterator{cursor: rdf.NewCursor(s.doc, uri, opts)}
}

// EachInNamespace iterates every node of one namespace.
func (s *Store) EachInNamespace(namespace string) iter.Seq[Entry] {
	return s.Iterate(namespace, IterProperties).All()
}

// EachWithOptions iterates every schema using named options, as accepted
// by ParseIterOptions.
func (s *Store) EachWithOptions(names []string) iter.Seq[Entry] {
	return s.Iterate("", ParseIterOptions(names)).All()
}

// Next returns the next entry, or false once the sequence is exhausted.
func (it *Iterator) Next() (Entry, bool) {
	if it.state == IterExhausted {
		return Entry{}, false
	}
	if it.cursor == nil {
		it.state = IterExhausted
		return Entry{}, false
	}

	item, ok := it.cursor.Next()
	if !ok {
		it.state = IterExhausted
		return Entry{}, false
	}
	it.state = IterActive
	return Entry{Namespace: item.Namespace, Path: item.Path, Value: item.Value, Flags: item.Flags}, true
}

// Rewind restarts the iterator from its first entry with the same
// namespace and options. A rewound iterator is active.
func (it *Iterator) Rewind() {
	if it.cursor != nil {
		it.cursor.Reset()
	}
	it.state = IterActive
}

// State reports where the iterator is in its sequence.
func (it *Iterator) State() IterState {
	return it.state
}

// All yields the remaining entries.
func (it *Iterator) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for {
			e, ok := it.Next()
			if !ok || !yield(e) {
				return
			}
		}
	}
}

// Package namespace holds the process-wide table of well-known XMP
// namespaces. The table is built once and never mutated; namespaces
// discovered while reading a document live in that document instead.
package namespace

import (
	"slices"
	"strings"
	"sync"
)

// Entry maps a lookup key to a namespace URI and the prefix used when
// serializing properties in that namespace.
type Entry struct {
	Key    string // lookup symbol, e.g. "xmp_rights"
	Prefix string // serialization prefix, e.g. "xmpRights"
	URI    string
}

// Alias describes a property that is another name for an actual
// property, e.g. tiff:Artist for dc:creator[1].
type Alias struct {
	Namespace  string
	Name       string
	ActualNS   string
	ActualPath string
}

// Registry is an immutable prefix/URI table. The zero value is empty
// but usable.
type Registry struct {
	byKey    map[string]string
	prefixOf map[string]string
	entries  []Entry
	aliases  []Alias
}

// New builds a registry from entries and aliases. Later entries never
// override the serialization prefix of an earlier entry with the same URI.
func New(entries []Entry, aliases []Alias) *Registry {
	r := &Registry{
		byKey:    make(map[string]string, len(entries)*2),
		prefixOf: make(map[string]string, len(entries)),
		entries:  slices.Clone(entries),
		aliases:  slices.Clone(aliases),
	}
	for _, e := range entries {
		key := strings.ToLower(e.Key)
		if _, ok := r.byKey[key]; !ok {
			r.byKey[key] = e.URI
		}
		prefix := strings.ToLower(e.Prefix)
		if _, ok := r.byKey[prefix]; !ok {
			r.byKey[prefix] = e.URI
		}
		if _, ok := r.prefixOf[e.URI]; !ok {
			r.prefixOf[e.URI] = e.Prefix
		}
	}
	return r
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	return New(builtinEntries, builtinAliases)
})

// Default returns the registry seeded from the built-in table.
func Default() *Registry {
	return defaultRegistry()
}

// URI resolves a lookup key or serialization prefix, ignoring case.
func (r *Registry) URI(key string) (string, bool) {
	if r == nil || r.byKey == nil {
		return "", false
	}
	uri, ok := r.byKey[strings.ToLower(key)]
	return uri, ok
}

// Prefix returns the serialization prefix registered for uri.
func (r *Registry) Prefix(uri string) (string, bool) {
	if r == nil || r.prefixOf == nil {
		return "", false
	}
	prefix, ok := r.prefixOf[uri]
	return prefix, ok
}

// Known reports whether uri is a registered namespace.
func (r *Registry) Known(uri string) bool {
	_, ok := r.Prefix(uri)
	return ok
}

// Entries returns a copy of the table in registration order.
func (r *Registry) Entries() []Entry {
	if r == nil {
		return nil
	}
	return slices.Clone(r.entries)
}

// Aliases returns a copy of the alias table.
func (r *Registry) Aliases() []Alias {
	if r == nil {
		return nil
	}
	return slices.Clone(r.aliases)
}

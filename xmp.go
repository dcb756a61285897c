package xmpmeta

import (
	"bytes"
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/simonhull/xmpmeta/internal/rdf"
	"github.com/simonhull/xmpmeta/internal/types"
)

// Store is an XMP document together with a usage table counting the
// live top-level properties of each namespace.
//
// Namespaces are named either by a registry key ("tiff", "exif_aux"),
// a serialization prefix, a prefix declared in the parsed packet, or a
// literal URI:
//
//	store.Get("tiff", "tiff:Make")
//	store.Get("http://ns.adobe.com/tiff/1.0/", "Make")
//
// A Store is not safe for concurrent use.
type Store struct {
	doc      *rdf.Document
	counts   map[string]int
	order    []string // namespaces in discovery order
	warnings []Warning
}

// New returns an empty store.
func New(opts ...Option) *Store {
	o := applyOptions(opts)
	return newStore(rdf.NewDocument(o.registry), nil)
}

// Parse builds a store from a serialized XMP packet. Empty input yields
// an empty store.
//
// Example:
//
//	store, err := xmpmeta.Parse(data)
//	if err != nil {
//		return err
//	}
//	maker, _ := store.Get("tiff", "tiff:Make")
func Parse(data []byte, opts ...Option) (*Store, error) {
	return parseStore(data, applyOptions(opts))
}

func parseStore(data []byte, o *openOptions) (*Store, error) {
	doc, warnings, err := rdf.Parse(data, rdf.ParseOptions{Registry: o.registry, Strict: o.strict})
	if err != nil {
		return nil, fmt.Errorf("parse XMP: %w", err)
	}
	return newStore(doc, warnings), nil
}

func newStore(doc *rdf.Document, warnings []Warning) *Store {
	s := &Store{doc: doc, counts: make(map[string]int), warnings: warnings}
	for _, ns := range doc.Schemas() {
		s.order = append(s.order, ns)
		s.counts[ns] = doc.PropertyCount(ns)
	}
	return s
}

// Registry returns the namespace table the store resolves through.
func (s *Store) Registry() *Registry {
	return s.doc.Registry()
}

// Warnings returns the non-fatal problems found while parsing.
func (s *Store) Warnings() []Warning {
	return slices.Clone(s.warnings)
}

// resolve maps a namespace argument to its URI. Registry keys come
// first, then literal URIs, then prefixes declared in the document,
// and finally namespaces in use whose URI looks like
// http://host/.../<name>/<major>.<minor>. Resolving never changes the
// document.
func (s *Store) resolve(namespace string) (string, bool) {
	if namespace == "" {
		return "", false
	}
	if uri, ok := s.doc.Registry().URI(namespace); ok {
		return uri, true
	}
	if strings.ContainsAny(namespace, ":/#") {
		return namespace, true
	}
	if uri, ok := s.doc.URI(namespace); ok {
		return uri, true
	}

	candidates := append(slices.Clone(s.order), s.doc.Declared()...)
	for _, uri := range candidates {
		if p, ok := s.doc.Prefix(uri); ok && strings.EqualFold(p, namespace) {
			return uri, true
		}
	}

	for _, uri := range candidates {
		if versionedURI(uri, namespace) {
			return uri, true
		}
	}
	return "", false
}

// versionedURI reports whether uri has the shape
// http(s)://host/.../<name>/<major>.<minor>, comparing name without case.
func versionedURI(uri, name string) bool {
	lower := strings.ToLower(uri)
	rest, ok := strings.CutPrefix(lower, "https://")
	if !ok {
		if rest, ok = strings.CutPrefix(lower, "http://"); !ok {
			return false
		}
	}
	seg := "/" + strings.ToLower(name) + "/"
	for i := strings.Index(rest, seg); i > 0; {
		if isVersion(rest[i+len(seg):]) {
			return true
		}
		next := strings.Index(rest[i+1:], seg)
		if next < 0 {
			break
		}
		i += next + 1
	}
	return false
}

// isVersion reports whether s starts with digits, a dot, then digits.
func isVersion(s string) bool {
	major := len(s) - len(strings.TrimLeft(s, "0123456789"))
	if major == 0 || major == len(s) || s[major] != '.' {
		return false
	}
	minor := s[major+1:]
	return len(minor) > len(strings.TrimLeft(minor, "0123456789"))
}

// localPath drops a first-step prefix that repeats the namespace
// argument, so Get("tiff", "tiff:Make") reads the same node as
// Get("tiff", "Make") whatever the packet binds tiff to.
func localPath(namespace, path string) string {
	i := strings.IndexAny(path, ":/[")
	if i <= 0 || path[i] != ':' || !strings.EqualFold(path[:i], namespace) {
		return path
	}
	return path[i+1:]
}

// Get returns the value at path. An unknown namespace, a malformed path
// and a missing property all report false.
func (s *Store) Get(namespace, path string) (string, bool) {
	uri, ok := s.resolve(namespace)
	if !ok {
		return "", false
	}
	value, _, ok := s.doc.GetProperty(uri, localPath(namespace, path))
	return value, ok
}

// Flags returns the descriptor bits of the node at path.
func (s *Store) Flags(namespace, path string) (PropertyFlags, bool) {
	uri, ok := s.resolve(namespace)
	if !ok {
		return 0, false
	}
	_, flags, ok := s.doc.GetProperty(uri, localPath(namespace, path))
	return flags, ok
}

// Set creates or overwrites the property at path and returns the stored
// value. Missing arrays, structs and items along the path are created.
// On failure the store is unchanged and the error is a
// *PropertyWriteError carrying the engine code.
func (s *Store) Set(namespace, path, value string) (string, error) {
	uri, ok := s.resolve(namespace)
	if !ok {
		return "", &PropertyWriteError{
			Err:       types.Errorf(types.CodeBadSchema, "unknown namespace %q", namespace),
			Namespace: namespace,
			Path:      path,
			Code:      CodeBadSchema,
		}
	}

	path = localPath(namespace, path)
	created, err := s.doc.SetProperty(uri, path, value)
	if err != nil {
		return "", &PropertyWriteError{Err: err, Namespace: uri, Path: path, Code: types.CodeOf(err)}
	}
	if created {
		if _, seen := s.counts[uri]; !seen {
			s.order = append(s.order, uri)
		}
		s.counts[uri]++
	}

	stored, _, _ := s.doc.GetProperty(uri, path)
	return stored, nil
}

// Delete removes the property at path and returns its value. Deleting
// something that does not exist is a no-op reporting false.
func (s *Store) Delete(namespace, path string) (string, bool, error) {
	uri, ok := s.resolve(namespace)
	if !ok {
		return "", false, nil
	}

	path = localPath(namespace, path)
	value, found, topLevel, err := s.doc.DeleteProperty(uri, path)
	if err != nil {
		return "", false, &PropertyWriteError{Err: err, Namespace: uri, Path: path, Code: types.CodeOf(err)}
	}
	if found && topLevel && s.counts[uri] > 0 {
		s.counts[uri]--
	}
	return value, found, nil
}

// Namespaces returns the URIs of namespaces holding at least one
// property, in the order they were first seen.
func (s *Store) Namespaces() []string {
	out := make([]string, 0, len(s.order))
	for _, uri := range s.order {
		if s.counts[uri] > 0 {
			out = append(out, uri)
		}
	}
	return out
}

// NamespaceCount returns the number of top-level properties in
// namespace.
func (s *Store) NamespaceCount(namespace string) int {
	uri, ok := s.resolve(namespace)
	if !ok {
		return 0
	}
	return s.counts[uri]
}

// splitKey separates "prefix:name" at the first colon.
func splitKey(key string) (prefix, name string, err error) {
	prefix, name, ok := strings.Cut(key, ":")
	if !ok || prefix == "" || name == "" {
		return "", "", &InvalidArgumentError{Arg: key, Reason: `expected "prefix:name"`}
	}
	return prefix, name, nil
}

// Lookup reads a property named "prefix:name", e.g. "tiff:Make".
func (s *Store) Lookup(key string) (string, bool, error) {
	prefix, name, err := splitKey(key)
	if err != nil {
		return "", false, err
	}
	value, ok := s.Get(strings.ToLower(prefix), name)
	return value, ok, nil
}

// Assign sets a property named "prefix:name".
func (s *Store) Assign(key, value string) (string, error) {
	prefix, name, err := splitKey(key)
	if err != nil {
		return "", err
	}
	return s.Set(strings.ToLower(prefix), name, value)
}

// Remove deletes a property named "prefix:name".
func (s *Store) Remove(key string) (string, bool, error) {
	prefix, name, err := splitKey(key)
	if err != nil {
		return "", false, err
	}
	return s.Delete(strings.ToLower(prefix), name)
}

// Duplicate returns a deep copy sharing no state with s.
func (s *Store) Duplicate() *Store {
	dup := &Store{
		doc:      s.doc.Copy(),
		counts:   make(map[string]int, len(s.counts)),
		order:    slices.Clone(s.order),
		warnings: slices.Clone(s.warnings),
	}
	for uri, n := range s.counts {
		dup.counts[uri] = n
	}
	return dup
}

// Equal reports whether both stores serialize to the same XMP.
func (s *Store) Equal(other *Store) bool {
	if s == nil || other == nil {
		return s == other
	}
	return bytes.Equal(s.canonical(), other.canonical())
}

// canonical is the bare serialization used for comparisons.
func (s *Store) canonical() []byte {
	return s.doc.Serialize(rdf.SerializeOptions{OmitPacketWrapper: true, Padding: -1})
}

func (s *Store) digest() [32]byte {
	return blake3.Sum256(s.canonical())
}

// packet is the serialization embedded into files.
func (s *Store) packet() []byte {
	return s.doc.Serialize(rdf.SerializeOptions{Toolkit: Toolkit()})
}

// SerializeOption configures Serialize.
type SerializeOption func(*serializeOptions)

type serializeOptions struct {
	err      error
	padding  int
	omitWrap bool
	readOnly bool
}

// WithoutPacketWrapper omits the <?xpacket?> processing instructions
// and the trailing padding.
func WithoutPacketWrapper() SerializeOption {
	return func(o *serializeOptions) {
		o.omitWrap = true
	}
}

// WithPadding sets the number of padding bytes written before the
// closing processing instruction. Zero writes none.
func WithPadding(n int) SerializeOption {
	return func(o *serializeOptions) {
		if n < 0 {
			o.err = &InvalidArgumentError{Arg: fmt.Sprint(n), Reason: "padding must not be negative"}
			return
		}
		o.padding = n
	}
}

// WithReadOnlyPacket marks the packet end="r".
func WithReadOnlyPacket() SerializeOption {
	return func(o *serializeOptions) {
		o.readOnly = true
	}
}

// Serialize renders the store as an XMP packet.
//
// Example:
//
//	data, err := store.Serialize(xmpmeta.WithPadding(4096))
func (s *Store) Serialize(opts ...SerializeOption) ([]byte, error) {
	o := &serializeOptions{padding: rdf.DefaultPadding}
	for _, opt := range opts {
		opt(o)
	}
	if o.err != nil {
		return nil, o.err
	}

	padding := o.padding
	if padding == 0 {
		padding = -1
	}
	return s.doc.Serialize(rdf.SerializeOptions{
		Toolkit:           Toolkit(),
		Padding:           padding,
		OmitPacketWrapper: o.omitWrap,
		ReadOnly:          o.readOnly,
	}), nil
}

// String returns the serialized packet.
func (s *Store) String() string {
	return string(s.packet())
}

// All iterates every node of every schema in document order.
func (s *Store) All() iter.Seq[Entry] {
	return s.Iterate("", IterProperties).All()
}

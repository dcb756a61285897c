// Package rdf is the XMP data model: a tree of schema, property,
// array-item and qualifier nodes read from and written to RDF/XML.
package rdf

import (
	"slices"
	"strconv"

	"github.com/simonhull/xmpmeta/internal/namespace"
)

// Node is one node of the XMP tree.
type Node struct {
	NS         string
	Name       string // local name; empty for array items
	Value      string
	Children   []*Node
	Qualifiers []*Node
	parent     *Node
	kind       Flags
}

// Flags returns the node's descriptor bits, including those derived
// from its qualifiers.
func (n *Node) Flags() Flags {
	f := n.kind & structural
	if len(n.Qualifiers) > 0 {
		f |= FlagHasQualifiers
	}
	for _, q := range n.Qualifiers {
		switch {
		case q.NS == namespace.XML && q.Name == "lang":
			f |= FlagHasLang
		case q.NS == namespace.RDF && q.Name == "type":
			f |= FlagHasType
		}
	}
	return f
}

// IsComposite reports whether the node is a struct or an array.
func (n *Node) IsComposite() bool {
	return n.kind&(FlagStruct|FlagArray) != 0
}

func (n *Node) isArray() bool { return n.kind&FlagArray != 0 }

func (n *Node) isItem() bool {
	return n.parent != nil && n.parent.isArray() && n.kind&FlagIsQualifier == 0
}

// Qualifier returns the qualifier with the given name.
func (n *Node) Qualifier(ns, name string) *Node {
	for _, q := range n.Qualifiers {
		if q.NS == ns && q.Name == name {
			return q
		}
	}
	return nil
}

func (n *Node) lang() string {
	if q := n.Qualifier(namespace.XML, "lang"); q != nil {
		return q.Value
	}
	return ""
}

func (n *Node) field(ns, name string) *Node {
	for _, c := range n.Children {
		if c.NS == ns && c.Name == name {
			return c
		}
	}
	return nil
}

func (n *Node) addChild(c *Node) {
	c.parent = n
	n.Children = append(n.Children, c)
}

func (n *Node) addQualifier(q *Node) {
	q.parent = n
	q.kind |= FlagIsQualifier
	// xml:lang is kept first, matching toolkit output order
	if q.NS == namespace.XML && q.Name == "lang" {
		n.Qualifiers = slices.Insert(n.Qualifiers, 0, q)
		return
	}
	n.Qualifiers = append(n.Qualifiers, q)
}

func (n *Node) remove(c *Node) bool {
	if i := slices.Index(n.Children, c); i >= 0 {
		n.Children = slices.Delete(n.Children, i, i+1)
		return true
	}
	if i := slices.Index(n.Qualifiers, c); i >= 0 {
		n.Qualifiers = slices.Delete(n.Qualifiers, i, i+1)
		return true
	}
	return false
}

func (n *Node) clone(parent *Node) *Node {
	c := &Node{
		NS:     n.NS,
		Name:   n.Name,
		Value:  n.Value,
		kind:   n.kind,
		parent: parent,
	}
	if len(n.Children) > 0 {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.clone(c)
		}
	}
	if len(n.Qualifiers) > 0 {
		c.Qualifiers = make([]*Node, len(n.Qualifiers))
		for i, q := range n.Qualifiers {
			c.Qualifiers[i] = q.clone(c)
		}
	}
	return c
}

// Document is a parsed XMP packet.
type Document struct {
	registry *namespace.Registry
	prefixes map[string]string // uri -> prefix
	uris     map[string]string // prefix -> uri
	About    string
	schemas  []*Node
	journal  *[]func() // reverts for prefix bindings, while SetProperty runs
}

// NewDocument returns an empty document resolving prefixes through reg.
// A nil reg uses the built-in table.
func NewDocument(reg *namespace.Registry) *Document {
	if reg == nil {
		reg = namespace.Default()
	}
	return &Document{
		registry: reg,
		prefixes: make(map[string]string),
		uris:     make(map[string]string),
	}
}

// Registry returns the namespace table the document resolves through.
func (d *Document) Registry() *namespace.Registry {
	return d.registry
}

// Copy returns a deep copy sharing no mutable state with d.
func (d *Document) Copy() *Document {
	c := NewDocument(d.registry)
	c.About = d.About
	for uri, prefix := range d.prefixes {
		c.prefixes[uri] = prefix
	}
	for prefix, uri := range d.uris {
		c.uris[prefix] = uri
	}
	c.schemas = make([]*Node, len(d.schemas))
	for i, s := range d.schemas {
		c.schemas[i] = s.clone(nil)
	}
	return c
}

// Schemas returns the namespace URIs that have a schema node, in
// document order.
func (d *Document) Schemas() []string {
	out := make([]string, len(d.schemas))
	for i, s := range d.schemas {
		out[i] = s.NS
	}
	return out
}

// PropertyCount returns the number of top-level properties in ns.
func (d *Document) PropertyCount(ns string) int {
	if s := d.schema(ns); s != nil {
		return len(s.Children)
	}
	return 0
}

// Prefix returns the prefix the document uses for uri.
func (d *Document) Prefix(uri string) (string, bool) {
	if p, ok := d.prefixes[uri]; ok {
		return p, true
	}
	return d.registry.Prefix(uri)
}

// URI resolves a prefix declared in the document, then in the registry.
func (d *Document) URI(prefix string) (string, bool) {
	if uri, ok := d.uris[prefix]; ok {
		return uri, true
	}
	return d.registry.URI(prefix)
}

// Declared returns the URIs whose prefixes were declared while parsing
// or assigned while editing.
func (d *Document) Declared() []string {
	out := make([]string, 0, len(d.prefixes))
	for uri := range d.prefixes {
		out = append(out, uri)
	}
	slices.Sort(out)
	return out
}

// declare records a prefix binding; the first binding for a URI wins.
func (d *Document) declare(prefix, uri string) {
	if prefix == "" || uri == "" {
		return
	}
	if _, ok := d.prefixes[uri]; !ok {
		if _, taken := d.uris[prefix]; !taken {
			d.prefixes[uri] = prefix
			d.record(func() { delete(d.prefixes, uri) })
		}
	}
	if _, ok := d.uris[prefix]; !ok {
		d.uris[prefix] = uri
		d.record(func() { delete(d.uris, prefix) })
	}
}

func (d *Document) record(revert func()) {
	if d.journal != nil {
		*d.journal = append(*d.journal, revert)
	}
}

// prefixFor returns a prefix for uri, inventing one when the URI is
// neither declared nor registered.
func (d *Document) prefixFor(uri string) string {
	if p, ok := d.Prefix(uri); ok {
		if owner, taken := d.uris[p]; !taken || owner == uri {
			d.declare(p, uri)
			return p
		}
	}
	for i := 1; ; i++ {
		p := "ns" + strconv.Itoa(i)
		if _, taken := d.uris[p]; taken {
			continue
		}
		if _, registered := d.registry.URI(p); registered {
			continue
		}
		d.declare(p, uri)
		return p
	}
}

func (d *Document) schema(ns string) *Node {
	for _, s := range d.schemas {
		if s.NS == ns {
			return s
		}
	}
	return nil
}

func (d *Document) ensureSchema(ns string) (*Node, bool) {
	if s := d.schema(ns); s != nil {
		return s, false
	}
	s := &Node{NS: ns, Name: d.prefixFor(ns), kind: FlagSchemaNode}
	d.schemas = append(d.schemas, s)
	return s, true
}

func (d *Document) dropSchema(s *Node) {
	if i := slices.Index(d.schemas, s); i >= 0 {
		d.schemas = slices.Delete(d.schemas, i, i+1)
	}
}

// qname renders ns:name with the document's prefix for ns.
func (d *Document) qname(ns, name string) string {
	return d.prefixFor(ns) + ":" + name
}

// PathOf renders the XMP path of n, relative to its schema.
func (d *Document) PathOf(n *Node) string {
	if n == nil || n.kind&FlagSchemaNode != 0 {
		return ""
	}
	parent := n.parent
	parentPath := ""
	if parent != nil && parent.kind&FlagSchemaNode == 0 {
		parentPath = d.PathOf(parent)
	}
	return parentPath + d.stepOf(n, parentPath == "")
}

// stepOf renders the last path step of n.
func (d *Document) stepOf(n *Node, top bool) string {
	switch {
	case n.kind&FlagIsQualifier != 0:
		return "/?" + d.qname(n.NS, n.Name)
	case n.isItem():
		return "[" + strconv.Itoa(slices.Index(n.parent.Children, n)+1) + "]"
	case top:
		return d.qname(n.NS, n.Name)
	default:
		return "/" + d.qname(n.NS, n.Name)
	}
}

// LeafName renders only the last step of n's path.
func (d *Document) LeafName(n *Node) string {
	if n == nil || n.kind&FlagSchemaNode != 0 {
		return ""
	}
	switch {
	case n.kind&FlagIsQualifier != 0:
		return "?" + d.qname(n.NS, n.Name)
	case n.isItem():
		return "[" + strconv.Itoa(slices.Index(n.parent.Children, n)+1) + "]"
	default:
		return d.qname(n.NS, n.Name)
	}
}

package rdf

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"

	"github.com/simonhull/xmpmeta/internal/namespace"
	"github.com/simonhull/xmpmeta/internal/types"
)

// ParseOptions control how a packet is read.
type ParseOptions struct {
	// Registry resolves prefixes not declared in the packet. Nil uses
	// the built-in table.
	Registry *namespace.Registry

	// Strict turns RDF forms that would otherwise be skipped with a
	// warning into errors.
	Strict bool
}

// element is a generic XML element. encoding/xml has already resolved
// namespace prefixes into URIs.
type element struct {
	name     xml.Name
	attrs    []xml.Attr
	children []*element
	text     strings.Builder
	offset   int64
}

func (e *element) is(ns, local string) bool {
	return e.name.Space == ns && e.name.Local == local
}

type parser struct {
	doc      *Document
	strict   bool
	warnings []types.Warning
}

// Parse reads an XMP packet. Empty or all-whitespace input yields an
// empty document.
func Parse(data []byte, opts ParseOptions) (*Document, []types.Warning, error) {
	doc := NewDocument(opts.Registry)
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil, nil
	}

	data, err := toUTF8(data)
	if err != nil {
		return nil, nil, err
	}

	roots, err := buildTree(data, doc)
	if err != nil {
		return nil, nil, err
	}

	var rdfRoot *element
	for _, r := range roots {
		if rdfRoot = findRDF(r); rdfRoot != nil {
			break
		}
	}
	if rdfRoot == nil {
		return nil, nil, types.Errorf(types.CodeBadRDF, "no rdf:RDF element in packet")
	}

	p := &parser{doc: doc, strict: opts.Strict}
	for _, desc := range rdfRoot.children {
		if err := p.description(desc); err != nil {
			return nil, p.warnings, err
		}
	}
	return doc, p.warnings, nil
}

// toUTF8 transcodes UTF-16 packets and drops a UTF-8 byte order mark.
func toUTF8(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, []byte{0xFE, 0xFF}), bytes.HasPrefix(data, []byte{0xFF, 0xFE}):
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		out, err := dec.Bytes(data)
		if err != nil {
			return nil, types.Errorf(types.CodeBadXML, "invalid UTF-16 packet: %v", err)
		}
		return out, nil
	case bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}):
		return data[3:], nil
	}
	return data, nil
}

// charsetReader honours encoding declarations other than UTF-8. UTF-16
// input has already been transcoded by toUTF8.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	if strings.HasPrefix(strings.ToLower(label), "utf-16") {
		return input, nil
	}
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}

func buildTree(data []byte, doc *Document) ([]*element, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charsetReader

	var roots []*element
	var stack []*element
	for {
		offset := dec.InputOffset()
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, types.Errorf(types.CodeBadXML, "malformed XML: %v", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			e := &element{name: t.Name, attrs: t.Attr, offset: offset}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" {
					doc.declare(a.Name.Local, a.Value)
				}
			}
			if len(stack) == 0 {
				roots = append(roots, e)
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, e)
			}
			stack = append(stack, e)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text.Write(t)
			}
		}
	}
	if len(stack) > 0 {
		return nil, types.Errorf(types.CodeBadXML, "unclosed element <%s>", stack[len(stack)-1].name.Local)
	}
	return roots, nil
}

func findRDF(e *element) *element {
	if e.is(namespace.RDF, "RDF") {
		return e
	}
	for _, c := range e.children {
		if r := findRDF(c); r != nil {
			return r
		}
	}
	return nil
}

// problem records a warning, or fails when parsing strictly.
func (p *parser) problem(e *element, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if p.strict {
		return types.Errorf(types.CodeBadRDF, "%s", msg)
	}
	var offset int64
	if e != nil {
		offset = e.offset
	}
	p.warnings = append(p.warnings, types.Warning{Stage: "rdf", Message: msg, Offset: offset})
	return nil
}

// space maps an XML namespace to a URI. encoding/xml leaves undeclared
// prefixes unresolved; those are looked up in the registry.
func (p *parser) space(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	if strings.Contains(s, ":") {
		return s, true
	}
	return p.doc.URI(s)
}

func (p *parser) description(desc *element) error {
	if !desc.is(namespace.RDF, "Description") {
		return p.problem(desc, "typed node <%s> is not valid XMP", desc.name.Local)
	}

	for _, a := range desc.attrs {
		switch {
		case isNamespaceDecl(a):
			continue
		case a.Name.Space == namespace.RDF:
			if a.Name.Local == "about" {
				if err := p.about(desc, a.Value); err != nil {
					return err
				}
			}
			continue
		case a.Name.Space == namespace.XML:
			continue
		}
		ns, ok := p.space(a.Name.Space)
		if !ok {
			if err := p.problem(desc, "attribute %q has no namespace", a.Name.Local); err != nil {
				return err
			}
			continue
		}
		if err := p.top(desc, ns, a.Name.Local, func(n *Node) error {
			n.Value = a.Value
			return nil
		}); err != nil {
			return err
		}
	}

	for _, c := range desc.children {
		ns, ok := p.space(c.name.Space)
		if !ok {
			if err := p.problem(c, "element <%s> has no namespace", c.name.Local); err != nil {
				return err
			}
			continue
		}
		if err := p.top(c, ns, c.name.Local, func(n *Node) error {
			return p.body(n, c)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) about(e *element, about string) error {
	switch {
	case about == "" || about == p.doc.About:
	case p.doc.About == "":
		p.doc.About = about
	default:
		return p.problem(e, "conflicting rdf:about values %q and %q", p.doc.About, about)
	}
	return nil
}

// top adds a top-level property. A repeated property keeps the first
// occurrence.
func (p *parser) top(e *element, ns, name string, fill func(*Node) error) error {
	schema, fresh := p.doc.ensureSchema(ns)
	if schema.field(ns, name) != nil {
		return p.problem(e, "duplicate property %s", p.doc.qname(ns, name))
	}
	n := &Node{NS: ns, Name: name}
	if err := fill(n); err != nil {
		if fresh {
			p.doc.dropSchema(schema)
		}
		return err
	}
	schema.addChild(n)
	return nil
}

func isNamespaceDecl(a xml.Attr) bool {
	return a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns")
}

// body reads the content of property element e into n.
func (p *parser) body(n *Node, e *element) error {
	var (
		parseType   string
		resource    string
		hasResource bool
		extra       []xml.Attr
	)
	for _, a := range e.attrs {
		switch {
		case isNamespaceDecl(a):
		case a.Name.Space == namespace.XML && a.Name.Local == "lang":
			if !validLang(a.Value) {
				if err := p.problem(e, "invalid xml:lang %q", a.Value); err != nil {
					return err
				}
			}
			n.addQualifier(&Node{NS: namespace.XML, Name: "lang", Value: NormalizeLang(a.Value)})
		case a.Name.Space == namespace.RDF && a.Name.Local == "parseType":
			parseType = a.Value
		case a.Name.Space == namespace.RDF && a.Name.Local == "resource":
			resource, hasResource = a.Value, true
		case a.Name.Space == namespace.RDF && (a.Name.Local == "ID" || a.Name.Local == "nodeID" ||
			a.Name.Local == "datatype" || a.Name.Local == "about"):
			// not part of the XMP data model
		default:
			extra = append(extra, a)
		}
	}

	kids := e.children
	switch {
	case parseType == "Resource":
		return p.structBody(n, e, extra, kids)

	case parseType != "":
		if err := p.problem(e, "rdf:parseType=%q is not supported", parseType); err != nil {
			return err
		}
		n.Value = e.text.String()
		return nil

	case len(kids) == 0:
		text := e.text.String()
		switch {
		case hasResource:
			n.Value = resource
			n.kind |= FlagValueIsURI
			return p.attrsAsQualifiers(n, e, extra)
		case len(extra) > 0 && strings.TrimSpace(text) == "":
			return p.structBody(n, e, extra, nil)
		default:
			n.Value = text
			return p.attrsAsQualifiers(n, e, extra)
		}

	case len(kids) == 1 && isContainer(kids[0]):
		if err := p.array(n, kids[0]); err != nil {
			return err
		}
		return p.attrsAsQualifiers(n, e, extra)

	case len(kids) == 1 && kids[0].is(namespace.RDF, "Description"):
		inner := kids[0]
		attrs := append(extra, inner.attrs...)
		return p.structBody(n, inner, attrs, inner.children)

	default:
		return p.problem(e, "unrecognized content in <%s>", e.name.Local)
	}
}

func isContainer(e *element) bool {
	if e.name.Space != namespace.RDF {
		return false
	}
	switch e.name.Local {
	case "Bag", "Seq", "Alt":
		return true
	}
	return false
}

// structBody fills n from struct fields. A field named rdf:value makes
// n a qualified simple value; the other fields then become qualifiers.
func (p *parser) structBody(n *Node, e *element, attrs []xml.Attr, kids []*element) error {
	var valueElem *element
	var valueAttr *xml.Attr
	for _, c := range kids {
		if c.is(namespace.RDF, "value") {
			valueElem = c
		}
	}
	for i := range attrs {
		if attrs[i].Name.Space == namespace.RDF && attrs[i].Name.Local == "value" {
			valueAttr = &attrs[i]
		}
	}
	qualified := valueElem != nil || valueAttr != nil

	switch {
	case valueElem != nil:
		if err := p.body(n, valueElem); err != nil {
			return err
		}
	case valueAttr != nil:
		n.Value = valueAttr.Value
	default:
		n.kind |= FlagStruct
	}

	add := func(f *Node, where *element) error {
		if qualified || (f.NS == namespace.RDF && f.Name == "type") {
			if n.Qualifier(f.NS, f.Name) != nil {
				return p.problem(where, "duplicate qualifier %s", p.doc.qname(f.NS, f.Name))
			}
			n.addQualifier(f)
			return nil
		}
		if n.field(f.NS, f.Name) != nil {
			return p.problem(where, "duplicate field %s", p.doc.qname(f.NS, f.Name))
		}
		n.addChild(f)
		return nil
	}

	for _, a := range attrs {
		switch {
		case isNamespaceDecl(a):
			continue
		case a.Name.Space == namespace.RDF && a.Name.Local != "type":
			continue
		case a.Name.Space == namespace.XML:
			if a.Name.Local == "lang" && n.Qualifier(namespace.XML, "lang") == nil {
				n.addQualifier(&Node{NS: namespace.XML, Name: "lang", Value: NormalizeLang(a.Value)})
			}
			continue
		}
		ns, ok := p.space(a.Name.Space)
		if !ok {
			if err := p.problem(e, "attribute %q has no namespace", a.Name.Local); err != nil {
				return err
			}
			continue
		}
		if err := add(&Node{NS: ns, Name: a.Name.Local, Value: a.Value}, e); err != nil {
			return err
		}
	}

	for _, c := range kids {
		if c == valueElem {
			continue
		}
		ns, ok := p.space(c.name.Space)
		if !ok {
			if err := p.problem(c, "element <%s> has no namespace", c.name.Local); err != nil {
				return err
			}
			continue
		}
		f := &Node{NS: ns, Name: c.name.Local}
		if err := p.body(f, c); err != nil {
			return err
		}
		if err := add(f, c); err != nil {
			return err
		}
	}
	return nil
}

// attrsAsQualifiers attaches leftover attributes of a simple or array
// property as qualifiers.
func (p *parser) attrsAsQualifiers(n *Node, e *element, attrs []xml.Attr) error {
	for _, a := range attrs {
		ns, ok := p.space(a.Name.Space)
		if !ok {
			if err := p.problem(e, "attribute %q has no namespace", a.Name.Local); err != nil {
				return err
			}
			continue
		}
		if n.Qualifier(ns, a.Name.Local) != nil {
			continue
		}
		n.addQualifier(&Node{NS: ns, Name: a.Name.Local, Value: a.Value})
	}
	return nil
}

func (p *parser) array(n *Node, c *element) error {
	switch c.name.Local {
	case "Bag":
		n.kind |= FlagArray
	case "Seq":
		n.kind |= FlagArray | FlagArrayOrdered
	case "Alt":
		n.kind |= FlagArray | FlagArrayOrdered | FlagArrayAlternate
	}

	for _, li := range c.children {
		if !li.is(namespace.RDF, "li") {
			if err := p.problem(li, "<%s> inside rdf:%s is not an rdf:li", li.name.Local, c.name.Local); err != nil {
				return err
			}
			continue
		}
		item := &Node{NS: n.NS}
		if err := p.body(item, li); err != nil {
			return err
		}
		n.addChild(item)
	}

	if n.kind&FlagArrayAlternate != 0 && len(n.Children) > 0 {
		for _, item := range n.Children {
			if item.lang() == "" {
				return nil
			}
		}
		n.kind |= FlagArrayAltText
		moveDefaultFirst(n)
	}
	return nil
}

// moveDefaultFirst puts the x-default item at the front of an alt-text
// array.
func moveDefaultFirst(n *Node) {
	for i, item := range n.Children {
		if item.lang() == DefaultLang {
			if i > 0 {
				copy(n.Children[1:i+1], n.Children[:i])
				n.Children[0] = item
			}
			return
		}
	}
}

package rdf

import (
	"bytes"
	"strings"

	"github.com/simonhull/xmpmeta/internal/namespace"
)

const (
	// PacketID is the fixed id attribute of the xpacket header.
	PacketID = "W5M0MpCehiHzreSzNTczkc9d"

	// DefaultPadding is the whitespace reserved for in-place edits.
	DefaultPadding = 2048

	indentUnit = "   "
)

// SerializeOptions control the shape of the serialized packet.
type SerializeOptions struct {
	// Toolkit is written as the x:xmptk attribute when non-empty.
	Toolkit string

	// Padding is the number of whitespace bytes written before the
	// trailer. Zero selects DefaultPadding; negative disables padding.
	Padding int

	// OmitPacketWrapper drops the xpacket processing instructions and
	// the padding.
	OmitPacketWrapper bool

	// ReadOnly marks the packet end="r".
	ReadOnly bool
}

var (
	// Carriage returns are escaped so parsers do not fold them into
	// newlines; attributes also keep their newlines and tabs.
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\r", "&#xD;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;",
		"\r", "&#xD;", "\n", "&#xA;", "\t", "&#x9;")
)

type writer struct {
	bytes.Buffer
	doc *Document
}

func (w *writer) indent(depth int) {
	for range depth {
		w.WriteString(indentUnit)
	}
}

// Serialize renders the document as RDF/XML, one rdf:Description per
// schema.
func (d *Document) Serialize(opts SerializeOptions) []byte {
	w := &writer{doc: d}

	if !opts.OmitPacketWrapper {
		w.WriteString("<?xpacket begin=\"\uFEFF\" id=\"" + PacketID + "\"?>\n")
	}
	w.WriteString(`<x:xmpmeta xmlns:x="` + namespace.Meta + `"`)
	if opts.Toolkit != "" {
		w.WriteString(` x:xmptk="` + attrEscaper.Replace(opts.Toolkit) + `"`)
	}
	w.WriteString(">\n")
	w.indent(1)
	w.WriteString(`<rdf:RDF xmlns:rdf="` + namespace.RDF + `">` + "\n")

	for _, s := range d.schemas {
		w.description(s)
	}

	w.indent(1)
	w.WriteString("</rdf:RDF>\n")
	w.WriteString("</x:xmpmeta>")

	if !opts.OmitPacketWrapper {
		w.WriteByte('\n')
		padding := opts.Padding
		if padding == 0 {
			padding = DefaultPadding
		}
		writePadding(&w.Buffer, padding)
		if opts.ReadOnly {
			w.WriteString(`<?xpacket end="r"?>`)
		} else {
			w.WriteString(`<?xpacket end="w"?>`)
		}
	}
	return w.Bytes()
}

// writePadding writes n bytes of whitespace as lines of spaces.
func writePadding(b *bytes.Buffer, n int) {
	for n > 0 {
		line := min(n, 100)
		b.WriteString(strings.Repeat(" ", line-1))
		b.WriteByte('\n')
		n -= line
	}
}

func (w *writer) description(schema *Node) {
	w.indent(2)
	w.WriteString(`<rdf:Description rdf:about="` + attrEscaper.Replace(w.doc.About) + `"`)
	for _, uri := range usedNamespaces(schema) {
		w.WriteByte('\n')
		w.indent(4)
		w.WriteString(`xmlns:` + w.doc.prefixFor(uri) + `="` + attrEscaper.Replace(uri) + `"`)
	}
	w.WriteString(">\n")
	for _, c := range schema.Children {
		w.property(w.doc.qname(c.NS, c.Name), c, 3, false)
	}
	w.indent(2)
	w.WriteString("</rdf:Description>\n")
}

// usedNamespaces lists every namespace in the subtree that needs a
// declaration, in order of first use.
func usedNamespaces(schema *Node) []string {
	seen := map[string]bool{namespace.RDF: true, namespace.XML: true, "": true}
	var out []string
	var walk func(n *Node, item bool)
	walk = func(n *Node, item bool) {
		if !item && !seen[n.NS] {
			seen[n.NS] = true
			out = append(out, n.NS)
		}
		for _, q := range n.Qualifiers {
			walk(q, false)
		}
		for _, c := range n.Children {
			walk(c, n.isArray())
		}
	}
	walk(schema, false)
	return out
}

// property writes n as an element named name. bare suppresses the
// node's qualifiers, used for the rdf:value of a qualified value.
func (w *writer) property(name string, n *Node, depth int, bare bool) {
	var general []*Node
	lang := ""
	if !bare {
		for _, q := range n.Qualifiers {
			if q.NS == namespace.XML && q.Name == "lang" {
				lang = q.Value
				continue
			}
			general = append(general, q)
		}
	}

	w.indent(depth)
	w.WriteString("<" + name)
	if lang != "" {
		w.WriteString(` xml:lang="` + attrEscaper.Replace(lang) + `"`)
	}

	switch {
	case len(general) > 0:
		w.WriteString(` rdf:parseType="Resource">` + "\n")
		w.property("rdf:value", n, depth+1, true)
		for _, q := range general {
			w.property(w.doc.qname(q.NS, q.Name), q, depth+1, false)
		}
		w.indent(depth)
		w.WriteString("</" + name + ">\n")

	case n.kind&FlagStruct != 0:
		if len(n.Children) == 0 {
			w.WriteString(` rdf:parseType="Resource"/>` + "\n")
			return
		}
		w.WriteString(` rdf:parseType="Resource">` + "\n")
		for _, c := range n.Children {
			w.property(w.doc.qname(c.NS, c.Name), c, depth+1, false)
		}
		w.indent(depth)
		w.WriteString("</" + name + ">\n")

	case n.isArray():
		container := "rdf:Bag"
		switch {
		case n.kind&FlagArrayAlternate != 0:
			container = "rdf:Alt"
		case n.kind&FlagArrayOrdered != 0:
			container = "rdf:Seq"
		}
		w.WriteString(">\n")
		w.indent(depth + 1)
		if len(n.Children) == 0 {
			w.WriteString("<" + container + "/>\n")
		} else {
			w.WriteString("<" + container + ">\n")
			for _, item := range n.Children {
				w.property("rdf:li", item, depth+2, false)
			}
			w.indent(depth + 1)
			w.WriteString("</" + container + ">\n")
		}
		w.indent(depth)
		w.WriteString("</" + name + ">\n")

	case n.kind&FlagValueIsURI != 0:
		w.WriteString(` rdf:resource="` + attrEscaper.Replace(n.Value) + `"/>` + "\n")

	default:
		w.WriteString(">" + textEscaper.Replace(n.Value) + "</" + name + ">\n")
	}
}

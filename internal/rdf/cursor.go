package rdf

import "github.com/simonhull/xmpmeta/internal/namespace"

// IterOptions select what a Cursor visits. Bit values follow the XMP
// toolkit's iteration options.
type IterOptions uint32

const (
	IterProperties     IterOptions = 0x0000
	IterAliases        IterOptions = 0x0001
	IterJustChildren   IterOptions = 0x0100
	IterJustLeafNodes  IterOptions = 0x0200
	IterJustLeafName   IterOptions = 0x0400
	IterIncludeAliases IterOptions = 0x0800
	IterOmitQualifiers IterOptions = 0x1000
)

// Item is one node reported by a Cursor.
type Item struct {
	Namespace string
	Path      string
	Value     string
	Flags     Flags
}

// Cursor walks a document depth first, schema node before its
// properties and qualifiers before children. It works on a private
// copy, so later edits to the source document are not observed.
type Cursor struct {
	doc     *Document
	ns      string
	opts    IterOptions
	stack   []*Node
	aliases []Item
	phase   int
}

const (
	phaseTree = iota
	phaseAliases
	phaseDone
)

// NewCursor snapshots doc and positions the cursor before the first
// item. An empty schemaNS visits every schema.
func NewCursor(doc *Document, schemaNS string, opts IterOptions) *Cursor {
	c := &Cursor{doc: doc.Copy(), ns: schemaNS, opts: opts}
	c.Reset()
	return c
}

// Reset returns the cursor to its starting position.
func (c *Cursor) Reset() {
	c.stack = c.stack[:0]
	c.aliases = nil
	c.phase = phaseTree

	if c.opts&IterAliases != 0 {
		c.phase = phaseAliases
		return
	}

	var roots []*Node
	switch {
	case c.ns == "":
		roots = c.doc.schemas
	case c.doc.schema(c.ns) != nil:
		s := c.doc.schema(c.ns)
		if c.opts&IterJustChildren != 0 {
			roots = s.Children
		} else {
			roots = []*Node{s}
		}
	}
	c.pushAll(roots)
}

func (c *Cursor) pushAll(nodes []*Node) {
	for i := len(nodes) - 1; i >= 0; i-- {
		c.stack = append(c.stack, nodes[i])
	}
}

// Next returns the next item, or false once the walk is finished.
func (c *Cursor) Next() (Item, bool) {
	for {
		switch c.phase {
		case phaseTree:
			if len(c.stack) == 0 {
				c.phase = phaseAliases
				continue
			}
			n := c.stack[len(c.stack)-1]
			c.stack = c.stack[:len(c.stack)-1]
			c.expand(n)
			if c.visible(n) {
				return c.item(n), true
			}

		case phaseAliases:
			if c.aliases == nil {
				c.aliases = c.aliasItems()
			}
			if len(c.aliases) == 0 {
				c.phase = phaseDone
				continue
			}
			it := c.aliases[0]
			c.aliases = c.aliases[1:]
			return it, true

		default:
			return Item{}, false
		}
	}
}

// expand schedules the descendants of n that the options allow.
func (c *Cursor) expand(n *Node) {
	if c.opts&IterJustChildren != 0 {
		// schema nodes are the only level when no namespace is given;
		// with a namespace the roots are already its properties.
		return
	}
	c.pushAll(n.Children)
	if c.opts&IterOmitQualifiers == 0 {
		c.pushAll(n.Qualifiers)
	}
}

func (c *Cursor) visible(n *Node) bool {
	if c.opts&IterJustLeafNodes == 0 {
		return true
	}
	if n.kind&FlagSchemaNode != 0 || len(n.Children) > 0 {
		return false
	}
	return len(n.Qualifiers) == 0 || c.opts&IterOmitQualifiers != 0
}

func (c *Cursor) item(n *Node) Item {
	it := Item{Value: n.Value, Flags: n.Flags()}
	if n.kind&FlagSchemaNode != 0 {
		it.Namespace = n.NS
		return it
	}
	it.Namespace = schemaOf(n).NS
	if c.opts&IterJustLeafName != 0 {
		it.Path = c.doc.LeafName(n)
	} else {
		it.Path = c.doc.PathOf(n)
	}
	return it
}

func schemaOf(n *Node) *Node {
	for n.parent != nil {
		n = n.parent
	}
	return n
}

// aliasItems builds the alias tail of the walk. In alias mode every
// registered alias is listed with its target path as value; otherwise
// only aliases whose target exists are reported, carrying the target's
// value.
func (c *Cursor) aliasItems() []Item {
	out := []Item{}
	listAll := c.opts&IterAliases != 0
	if !listAll && c.opts&IterIncludeAliases == 0 {
		return out
	}

	reg := c.doc.Registry()
	for _, a := range reg.Aliases() {
		if c.ns != "" && a.Namespace != c.ns {
			continue
		}
		name := aliasName(reg, a)
		if listAll {
			out = append(out, Item{Namespace: a.Namespace, Path: name, Value: a.ActualPath, Flags: FlagIsAlias})
			continue
		}
		value, flags, ok := c.doc.GetProperty(a.ActualNS, a.ActualPath)
		if !ok {
			continue
		}
		out = append(out, Item{Namespace: a.Namespace, Path: name, Value: value, Flags: flags | FlagIsAlias})
	}
	return out
}

func aliasName(reg *namespace.Registry, a namespace.Alias) string {
	prefix, ok := reg.Prefix(a.Namespace)
	if !ok {
		return a.Name
	}
	return prefix + ":" + a.Name
}

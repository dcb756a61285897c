package rdf

import (
	"slices"

	"github.com/simonhull/xmpmeta/internal/namespace"
	"github.com/simonhull/xmpmeta/internal/types"
)

// GetProperty returns the value and flags of the node at path. Missing
// nodes and malformed paths both report ok == false.
func (d *Document) GetProperty(ns, path string) (value string, flags Flags, ok bool) {
	steps, err := d.parsePath(ns, path)
	if err != nil {
		return "", 0, false
	}
	n := d.lookup(steps)
	if n == nil {
		return "", 0, false
	}
	return n.Value, n.Flags(), true
}

func (d *Document) lookup(steps []step) *Node {
	cur := d.schema(steps[0].ns)
	for _, s := range steps {
		if cur == nil {
			return nil
		}
		switch s.kind {
		case stepField:
			if cur.kind&(FlagSchemaNode|FlagStruct) == 0 {
				return nil
			}
			cur = cur.field(s.ns, s.name)
		case stepIndex:
			if !cur.isArray() || s.index > len(cur.Children) {
				return nil
			}
			cur = cur.Children[s.index-1]
		case stepLast:
			if !cur.isArray() || len(cur.Children) == 0 {
				return nil
			}
			cur = cur.Children[len(cur.Children)-1]
		case stepLang:
			if !cur.isArray() {
				return nil
			}
			cur = langItem(cur, s.lang)
		case stepQualifier:
			cur = cur.Qualifier(s.ns, s.name)
		}
	}
	return cur
}

func langItem(array *Node, lang string) *Node {
	for _, item := range array.Children {
		if item.lang() == lang {
			return item
		}
	}
	return nil
}

// SetProperty creates or overwrites the node at path, creating any
// missing structs, arrays and items along the way. created reports
// whether a new top-level property came into existence. On error the
// document is left exactly as it was.
func (d *Document) SetProperty(ns, path, value string) (created bool, err error) {
	if !validText(ns) {
		return false, types.Errorf(types.CodeBadSchema, "namespace %q is not valid XML text", ns)
	}
	if !validText(value) {
		return false, types.Errorf(types.CodeBadValue, "value %q holds characters XML cannot carry", value)
	}
	steps, err := d.parsePath(ns, path)
	if err != nil {
		return false, err
	}

	var undo []func()
	d.journal = &undo
	defer func() { d.journal = nil }()
	defer func() {
		if err != nil {
			for i := len(undo) - 1; i >= 0; i-- {
				undo[i]()
			}
			created = false
		}
	}()

	schema, fresh := d.ensureSchema(ns)
	if fresh {
		undo = append(undo, func() { d.dropSchema(schema) })
	}

	attach := func(parent, child *Node, qualifier bool) {
		if qualifier {
			parent.addQualifier(child)
		} else {
			parent.addChild(child)
		}
		undo = append(undo, func() { parent.remove(child) })
	}
	reshape := func(n *Node, kind Flags) {
		prev := n.kind
		n.kind |= kind
		undo = append(undo, func() { n.kind = prev })
	}

	cur := schema
	for i, s := range steps {
		var next *Node
		switch s.kind {
		case stepField:
			if cur.kind&FlagSchemaNode == 0 && cur.kind&FlagStruct == 0 {
				if !isBlank(cur) {
					return false, types.Errorf(types.CodeBadXPath, "%s is not a struct", d.PathOf(cur))
				}
				reshape(cur, FlagStruct)
			}
			next = cur.field(s.ns, s.name)
			if next == nil {
				next = &Node{NS: s.ns, Name: s.name}
				attach(cur, next, false)
				if i == 0 {
					created = true
				}
			}

		case stepIndex, stepLast:
			if err := d.ensureArray(cur, FlagArray|FlagArrayOrdered, reshape); err != nil {
				return false, err
			}
			n := len(cur.Children)
			idx := s.index
			if s.kind == stepLast {
				if n == 0 {
					return false, types.Errorf(types.CodeBadIndex, "last() of empty array %s", d.PathOf(cur))
				}
				idx = n
			}
			switch {
			case idx <= n:
				next = cur.Children[idx-1]
			case idx == n+1:
				next = &Node{NS: cur.NS}
				attach(cur, next, false)
			default:
				return false, types.Errorf(types.CodeBadIndex, "index %d out of range for %s (%d items)", idx, d.PathOf(cur), n)
			}

		case stepLang:
			if err := d.ensureArray(cur, altTextArray, reshape); err != nil {
				return false, err
			}
			if cur.kind&FlagArrayAltText == 0 {
				if cur.kind&FlagArrayAlternate == 0 {
					return false, types.Errorf(types.CodeBadXPath, "%s is not an alt-text array", d.PathOf(cur))
				}
				reshape(cur, FlagArrayAltText)
			}
			next = langItem(cur, s.lang)
			if next == nil {
				next = &Node{NS: cur.NS}
				next.addQualifier(&Node{NS: namespace.XML, Name: "lang", Value: s.lang})
				next.parent = cur
				if s.lang == DefaultLang {
					cur.Children = slices.Insert(cur.Children, 0, next)
				} else {
					cur.Children = append(cur.Children, next)
				}
				parent, child := cur, next
				undo = append(undo, func() { parent.remove(child) })
			}

		case stepQualifier:
			if cur.kind&FlagSchemaNode != 0 {
				return false, types.Errorf(types.CodeBadXPath, "schema nodes cannot carry qualifiers")
			}
			next = cur.Qualifier(s.ns, s.name)
			if next == nil {
				next = &Node{NS: s.ns, Name: s.name}
				attach(cur, next, true)
			}
		}
		cur = next
	}

	if cur.IsComposite() {
		return false, types.Errorf(types.CodeBadXPath, "cannot assign a value to composite property %s", path)
	}
	if steps[len(steps)-1].isLang() {
		if !validLang(value) {
			return false, types.Errorf(types.CodeBadValue, "invalid language tag %q", value)
		}
		value = NormalizeLang(value)
	}
	cur.Value = value
	return created, nil
}

// isBlank reports whether n is a fresh node that may still become a
// struct or an array.
func isBlank(n *Node) bool {
	return n.kind&(FlagStruct|FlagArray|FlagSchemaNode|FlagIsQualifier|FlagValueIsURI) == 0 &&
		n.Value == "" && len(n.Children) == 0
}

func (d *Document) ensureArray(n *Node, kind Flags, reshape func(*Node, Flags)) error {
	if n.isArray() {
		return nil
	}
	if !isBlank(n) {
		return types.Errorf(types.CodeBadXPath, "%s is not an array", d.PathOf(n))
	}
	reshape(n, kind)
	return nil
}

// DeleteProperty removes the node at path. found is false when there
// was nothing to remove; topLevel reports whether a top-level property
// of the schema was removed.
func (d *Document) DeleteProperty(ns, path string) (value string, found, topLevel bool, err error) {
	steps, err := d.parsePath(ns, path)
	if err != nil {
		return "", false, false, err
	}
	n := d.lookup(steps)
	if n == nil {
		return "", false, false, nil
	}

	parent := n.parent
	if parent == nil || !parent.remove(n) {
		return "", false, false, types.Errorf(types.CodeInternalFailure, "detached node at %s", path)
	}
	topLevel = parent.kind&FlagSchemaNode != 0
	if topLevel && len(parent.Children) == 0 {
		d.dropSchema(parent)
	}
	return n.Value, true, topLevel, nil
}

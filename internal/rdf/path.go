package rdf

import (
	"strconv"
	"strings"

	"github.com/simonhull/xmpmeta/internal/namespace"
	"github.com/simonhull/xmpmeta/internal/types"
)

type stepKind int

const (
	stepField stepKind = iota + 1
	stepIndex
	stepLast
	stepLang
	stepQualifier
)

type step struct {
	ns    string
	name  string
	lang  string
	kind  stepKind
	index int
}

// parsePath splits an XMP path into steps, resolving prefixes through
// the document. Steps without a prefix inherit the namespace of the
// closest enclosing field, starting with schemaNS.
//
//	tiff:Make
//	Make
//	dc:creator[2]
//	dc:title[?xml:lang="x-default"]
//	exif:Flash/exif:Fired
//	dc:title[1]/?xml:lang
func (d *Document) parsePath(schemaNS, path string) ([]step, error) {
	if schemaNS == "" {
		return nil, types.Errorf(types.CodeBadSchema, "empty schema namespace")
	}
	if path == "" {
		return nil, types.Errorf(types.CodeBadXPath, "empty property path")
	}

	var steps []step
	ns := schemaNS
	rest := path
	first := true

	for rest != "" {
		switch {
		case rest[0] == '[':
			if first {
				return nil, types.Errorf(types.CodeBadXPath, "path %q starts with an array selector", path)
			}
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return nil, types.Errorf(types.CodeBadXPath, "unterminated selector in %q", path)
			}
			s, err := d.parseSelector(rest[1:end], path)
			if err != nil {
				return nil, err
			}
			steps = append(steps, s)
			rest = rest[end+1:]

		case rest[0] == '/':
			if first || len(rest) == 1 {
				return nil, types.Errorf(types.CodeBadXPath, "misplaced separator in %q", path)
			}
			rest = rest[1:]
			qualifier := rest[0] == '?'
			if qualifier {
				rest = rest[1:]
			}
			name, remain := splitName(rest)
			s, err := d.resolveStep(name, ns, qualifier, path)
			if err != nil {
				return nil, err
			}
			if s.kind == stepField {
				ns = s.ns
			}
			steps = append(steps, s)
			rest = remain

		default:
			if !first {
				return nil, types.Errorf(types.CodeBadXPath, "unexpected %q in %q", rest[:1], path)
			}
			name, remain := splitName(rest)
			s, err := d.resolveStep(name, ns, false, path)
			if err != nil {
				return nil, err
			}
			if s.ns != schemaNS && d.names(strings.SplitN(name, ":", 2)[0], schemaNS) {
				s.ns = schemaNS
			}
			if s.ns != schemaNS {
				return nil, types.Errorf(types.CodeBadSchema, "prefix in %q does not belong to %s", path, schemaNS)
			}
			steps = append(steps, s)
			rest = remain
		}
		first = false
	}
	return steps, nil
}

// splitName cuts a qualified name off the front of s.
func splitName(s string) (name, rest string) {
	end := strings.IndexAny(s, "/[")
	if end < 0 {
		return s, ""
	}
	return s[:end], s[end:]
}

func (d *Document) resolveStep(qname, inherited string, qualifier bool, path string) (step, error) {
	if qname == "" || strings.ContainsAny(qname, `]?="' `) {
		return step{}, types.Errorf(types.CodeBadXPath, "malformed name %q in %q", qname, path)
	}
	kind := stepField
	if qualifier {
		kind = stepQualifier
	}

	prefix, local, ok := strings.Cut(qname, ":")
	if !ok {
		if qualifier {
			return step{}, types.Errorf(types.CodeBadXPath, "qualifier %q needs a prefix in %q", qname, path)
		}
		if !isNCName(qname) {
			return step{}, types.Errorf(types.CodeBadXPath, "%q is not an XML name in %q", qname, path)
		}
		return step{kind: kind, ns: inherited, name: qname}, nil
	}
	if !isNCName(prefix) || !isNCName(local) {
		return step{}, types.Errorf(types.CodeBadXPath, "%q is not an XML name in %q", qname, path)
	}
	uri, found := d.URI(prefix)
	if !found {
		return step{}, types.Errorf(types.CodeBadSchema, "unknown namespace prefix %q in %q", prefix, path)
	}
	return step{kind: kind, ns: uri, name: local}, nil
}

// names reports whether prefix is bound to uri by the document or by
// the registry.
func (d *Document) names(prefix, uri string) bool {
	if d.uris[prefix] == uri {
		return true
	}
	reg, ok := d.registry.URI(prefix)
	return ok && reg == uri
}

func (d *Document) parseSelector(sel, path string) (step, error) {
	switch {
	case sel == "last()":
		return step{kind: stepLast}, nil
	case strings.HasPrefix(sel, "?"):
		name, quoted, ok := strings.Cut(sel[1:], "=")
		if !ok || name != "xml:lang" {
			return step{}, types.Errorf(types.CodeBadXPath, "unsupported selector [%s] in %q", sel, path)
		}
		lang, err := strconv.Unquote(quoted)
		if err != nil {
			if len(quoted) >= 2 && quoted[0] == '\'' && quoted[len(quoted)-1] == '\'' {
				lang = quoted[1 : len(quoted)-1]
			} else {
				return step{}, types.Errorf(types.CodeBadXPath, "unquoted language in %q", path)
			}
		}
		if !validLang(lang) {
			return step{}, types.Errorf(types.CodeBadXPath, "invalid language %q in %q", lang, path)
		}
		return step{kind: stepLang, lang: NormalizeLang(lang)}, nil
	default:
		i, err := strconv.Atoi(sel)
		if err != nil || i < 1 {
			return step{}, types.Errorf(types.CodeBadXPath, "bad array index [%s] in %q", sel, path)
		}
		return step{kind: stepIndex, index: i}, nil
	}
}

// isLang reports whether a qualifier step addresses xml:lang.
func (s step) isLang() bool {
	return s.kind == stepQualifier && s.ns == namespace.XML && s.name == "lang"
}

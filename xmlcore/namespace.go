package xmlcore

import (
	"strings"

	"github.com/r2xml/xmlcore/internal/nsbind"
)

const (
	xmlPrefix       = "xml"
	xmlnsPrefix     = "xmlns"
	xmlNamespaceURI = "http://www.w3.org/XML/1998/namespace"
	xmlnsNamespaceURI = "http://www.w3.org/2000/xmlns/"
)

// splitQName splits a qualified name "prefix:local" into its parts; prefix
// is "" when there is no colon.
func splitQName(qname string) (prefix, local string) {
	if i := strings.IndexByte(qname, ':'); i >= 0 {
		return qname[:i], qname[i+1:]
	}
	return "", qname
}

// rewriteName joins URI and local (and, in triplet mode, prefix) with the
// parser's configured separator, per spec.md §6's name-encoding rule.
func (p *Parser) rewriteName(uri, local, prefix string) string {
	sep := string(p.cfg.nsSeparator)
	name := uri + sep + local
	if p.cfg.returnNSTriplet && prefix != "" {
		name += sep + prefix
	}
	return name
}

// processStartTagNamespaces implements §4.3 step 3: it walks the raw
// attribute list for xmlns/xmlns:* declarations, applies them to the
// binding stack before resolving any prefix (including the element's own),
// and returns the rewritten element name, the rewritten decl-stripped
// attribute list, and the prefixes newly bound by this element (in
// declaration order) so the caller can store them on its open-element
// stack and fire end-namespace events in the reverse order on the matching
// end tag.
func (p *Parser) processStartTagNamespaces(rawName string, rawAttrs []Attribute) (string, []Attribute, []string, error) {
	p.nsStack.PushElement()

	var ordinary []Attribute
	var declared []string
	bind := func(prefix, uri string) {
		p.nsStack.Bind(prefix, uri)
		declared = append(declared, prefix)
		if p.handlers.startNamespace != nil {
			p.handlers.startNamespace(prefix, uri)
		}
	}
	for _, a := range rawAttrs {
		switch {
		case a.Name == xmlnsPrefix:
			if a.Value == "" {
				// unbinding the default namespace is legal.
				bind("", "")
				continue
			}
			if a.Value == xmlNamespaceURI || a.Value == xmlnsNamespaceURI {
				return "", nil, nil, p.fail(ErrReservedNamespaceURI)
			}
			bind("", a.Value)
			continue
		case strings.HasPrefix(a.Name, xmlnsPrefix+":"):
			prefix := a.Name[len(xmlnsPrefix)+1:]
			if prefix == xmlPrefix {
				if a.Value != xmlNamespaceURI {
					return "", nil, nil, p.fail(ErrReservedPrefixXML)
				}
				continue
			}
			if prefix == xmlnsPrefix {
				return "", nil, nil, p.fail(ErrReservedPrefixXMLNS)
			}
			if a.Value == "" {
				return "", nil, nil, p.fail(ErrUndeclaringPrefix)
			}
			if a.Value == xmlNamespaceURI || a.Value == xmlnsNamespaceURI {
				return "", nil, nil, p.fail(ErrReservedNamespaceURI)
			}
			bind(prefix, a.Value)
			continue
		default:
			ordinary = append(ordinary, a)
		}
	}

	rewrittenName, err := p.resolveQName(rawName, true)
	if err != nil {
		return "", nil, nil, err
	}

	seen := make(map[string]bool, len(ordinary))
	rewritten := make([]Attribute, 0, len(ordinary))
	for _, a := range ordinary {
		name, err := p.resolveQName(a.Name, false)
		if err != nil {
			return "", nil, nil, err
		}
		if seen[name] {
			return "", nil, nil, p.fail(ErrDuplicateAttribute)
		}
		seen[name] = true
		rewritten = append(rewritten, Attribute{Name: name, Value: a.Value})
	}
	return rewrittenName, rewritten, declared, nil
}

// resolveQName rewrites one element or attribute name into
// uri<sep>local[<sep>prefix] form, per spec.md §6. isElement controls
// whether an unprefixed name inherits the default namespace (true for
// elements; an unprefixed attribute is never namespaced, per the
// Namespaces-in-XML recommendation this spec follows).
func (p *Parser) resolveQName(qname string, isElement bool) (string, error) {
	prefix, local := splitQName(qname)
	if prefix == "" {
		if !isElement {
			return local, nil
		}
		uri, ok := p.nsStack.Lookup("")
		if !ok || uri == "" {
			return local, nil
		}
		return p.rewriteName(uri, local, ""), nil
	}
	if prefix == xmlPrefix {
		return p.rewriteName(xmlNamespaceURI, local, prefix), nil
	}
	uri, ok := p.nsStack.Lookup(prefix)
	if !ok {
		return "", p.fail(ErrUnboundPrefix)
	}
	return p.rewriteName(uri, local, prefix), nil
}

// popElementNamespaces closes the binding scope opened for the element
// just ended, firing end-namespace events in LIFO order per spec.md §5's
// ordering guarantee.
func (p *Parser) popElementNamespaces(scopePrefixes []string) {
	for i := len(scopePrefixes) - 1; i >= 0; i-- {
		if p.handlers.endNamespace != nil {
			p.handlers.endNamespace(scopePrefixes[i])
		}
	}
	p.nsStack.PopElement()
}

func newNamespaceStack() *nsbind.Stack { return nsbind.New() }

// Package nsbind implements the namespace prefix binding stack described in
// SPEC_FULL.md §4.3: a per-prefix chain of URIs shadowed and restored as
// elements open and close, plus a free list of binding records so that deep
// element nesting in a long-lived parser doesn't keep allocating.
package nsbind

// Binding is one prefix->URI mapping introduced by an xmlns or xmlns:prefix
// attribute on some still-open element. Prev links to the binding the same
// prefix had before this one shadowed it (nil if this is the prefix's first
// binding), forming the "chain" the source's BINDING struct describes.
type Binding struct {
	Prefix string
	URI    string
	Prev   *Binding
	uriCap int // capacity of a reused URI buffer, mirrors the source's uriAlloc
}

// scope records which bindings were introduced by one element, so closing
// that element can pop exactly those and restore whatever they shadowed.
type scope struct {
	bindings []*Binding
	parent   *scope
}

// Stack is the binding stack for one parser: a chain of per-element scopes,
// each holding the Bindings it introduced, plus a free list of retired
// Binding records for reuse.
type Stack struct {
	current *scope
	byPrefix map[string]*Binding
	free     []*Binding
}

// New returns an empty binding stack.
func New() *Stack {
	return &Stack{byPrefix: make(map[string]*Binding)}
}

// PushElement opens a new namespace scope, to be matched by a later
// PopElement when the corresponding end tag is processed.
func (s *Stack) PushElement() {
	s.current = &scope{parent: s.current}
}

// Bind introduces a prefix->URI mapping visible from here until the
// matching PopElement call, shadowing any existing binding for the same
// prefix. prefix is "" for the default namespace (a bare xmlns="...").
func (s *Stack) Bind(prefix, uri string) {
	b := s.alloc()
	b.Prefix = prefix
	b.URI = uri
	b.Prev = s.byPrefix[prefix]
	s.byPrefix[prefix] = b
	s.current.bindings = append(s.current.bindings, b)
}

// Lookup resolves prefix to its currently visible URI. ok is false if the
// prefix is unbound (a fatal error for any prefix other than "", which
// simply means "no default namespace is in effect").
func (s *Stack) Lookup(prefix string) (uri string, ok bool) {
	b, found := s.byPrefix[prefix]
	if !found {
		return "", false
	}
	return b.URI, true
}

// PopElement closes the innermost scope, restoring every prefix it shadowed
// and returning its Bindings to the free list for reuse by a later Bind.
func (s *Stack) PopElement() {
	if s.current == nil {
		return
	}
	for i := len(s.current.bindings) - 1; i >= 0; i-- {
		b := s.current.bindings[i]
		if b.Prev != nil {
			s.byPrefix[b.Prefix] = b.Prev
		} else {
			delete(s.byPrefix, b.Prefix)
		}
		s.free = append(s.free, b)
	}
	s.current = s.current.parent
}

// alloc returns a Binding from the free list, or a fresh one if the list is
// empty, mirroring the source's reuse of retired BINDING structs rather
// than malloc/free per element.
func (s *Stack) alloc() *Binding {
	n := len(s.free)
	if n == 0 {
		return &Binding{}
	}
	b := s.free[n-1]
	s.free = s.free[:n-1]
	b.Prev = nil
	return b
}

// Depth reports how many open-element scopes are currently on the stack,
// letting a caller check that Push/Pop stay balanced.
func (s *Stack) Depth() int {
	n := 0
	for sc := s.current; sc != nil; sc = sc.parent {
		n++
	}
	return n
}

// Package dtdmodel holds the parsed DTD: entities, notations, and element
// types with their attribute lists and content models, grounded on the source's xmlparse.c DTD struct and on
// moznion-helium's libxml2-style Entity/ElementDecl/AttributeDecl types,
// adapted to the engine's own attribute/content representation.
package dtdmodel

import "github.com/r2xml/xmlcore/internal/hashtable"

// DTD is the accumulated declarative state for one document: its general
// and parameter entities, notations, and element types. A child parser
// created for an external entity shares its parent's DTD through Ref rather
// than copying it, exactly as SPEC_FULL.md §9 requires.
type DTD struct {
	generalEntities *hashtable.Table
	paramEntities   *hashtable.Table
	notations       *hashtable.Table
	elementTypes    *hashtable.Table

	// Standalone reports whether the document's XML declaration said
	// standalone="yes"; StandaloneCouldBeYes tracks whether every construct so far
	// could be fully resolved without reading an external subset or
	// external parameter entity (VC: standalone document declaration).
	Standalone           bool
	HasParamEntityRefs   bool
	StandaloneCouldBeYes bool
}

// New returns an empty DTD using seed for its hash tables.
func New(seed hashtable.Seed) *DTD {
	return &DTD{
		generalEntities: hashtable.New(seed, 32),
		paramEntities:   hashtable.New(seed, 16),
		notations:       hashtable.New(seed, 8),
		elementTypes:    hashtable.New(seed, 64),
		StandaloneCouldBeYes: true,
	}
}

// DefineGeneralEntity inserts e unless a general entity of that name is
// already defined, per XML 1.0 §4.2's "first declaration wins" rule.
// Reports whether the insertion happened.
func (d *DTD) DefineGeneralEntity(e *GeneralEntity) bool {
	if existing := d.generalEntities.Lookup([]byte(e.Name)); existing != nil {
		return false
	}
	d.generalEntities.Insert(e)
	return true
}

// GeneralEntity looks up a previously declared general entity by name.
func (d *DTD) GeneralEntity(name string) *GeneralEntity {
	e, _ := d.generalEntities.Lookup([]byte(name)).(*GeneralEntity)
	return e
}

// DefineParamEntity inserts e unless a parameter entity of that name is
// already defined.
func (d *DTD) DefineParamEntity(e *ParamEntity) bool {
	if existing := d.paramEntities.Lookup([]byte(e.Name)); existing != nil {
		return false
	}
	d.paramEntities.Insert(e)
	return true
}

// ParamEntity looks up a previously declared parameter entity by name.
func (d *DTD) ParamEntity(name string) *ParamEntity {
	e, _ := d.paramEntities.Lookup([]byte(name)).(*ParamEntity)
	return e
}

// DefineNotation inserts n unless a notation of that name is already
// defined.
func (d *DTD) DefineNotation(n *Notation) bool {
	if existing := d.notations.Lookup([]byte(n.Name)); existing != nil {
		return false
	}
	d.notations.Insert(n)
	return true
}

// Notation looks up a previously declared notation by name.
func (d *DTD) Notation(name string) *Notation {
	n, _ := d.notations.Lookup([]byte(name)).(*Notation)
	return n
}

// ElementType returns the ElementType record for name, creating an empty
// one (content nil, no attributes) on first reference — an element may be
// used in content models or receive <!ATTLIST> declarations before its own
// <!ELEMENT> declaration is seen.
func (d *DTD) ElementType(name string) *ElementType {
	if existing, ok := d.elementTypes.Lookup([]byte(name)).(*ElementType); ok {
		return existing
	}
	et := &ElementType{Name: name}
	d.elementTypes.Insert(et)
	return et
}

// EachElementType calls fn once per declared element type, in table order
// (unspecified; callers that need determinism should sort by Name).
func (d *DTD) EachElementType(fn func(*ElementType)) {
	d.elementTypes.Each(func(e hashtable.Entry) { fn(e.(*ElementType)) })
}

// Ref is a shared, reference-counted handle to a DTD, used when an
// external-entity parser is created to process an external subset or
// external parameter entity: the child parser gets its own Ref pointing at
// the same underlying DTD, so declarations it encounters become visible to
// the parent (and any siblings) without copying the tables. This replaces
// the source's manual dtdCopy/is_param_entity bookkeeping with a small
// counted handle, matching SPEC_FULL.md §9's guidance to make C's shared,
// manually-freed structures explicit in Go rather than leaning on the
// garbage collector to paper over the ownership model.
type Ref struct {
	dtd   *DTD
	count *int
}

// NewRef creates a fresh DTD with a reference count of one.
func NewRef(seed hashtable.Seed) Ref {
	c := 1
	return Ref{dtd: New(seed), count: &c}
}

// Retain increments the reference count and returns a handle to the same
// DTD, for handing to a newly created external-entity child parser.
func (r Ref) Retain() Ref {
	*r.count++
	return r
}

// Release decrements the reference count. The DTD itself needs no explicit
// teardown (Go's garbage collector reclaims the hash tables once the last
// Ref handle is dropped); Release exists so parser shutdown code can assert
// the count reaches zero exactly once per Retain, catching a forgotten
// Release the way a leak-checked refcount would in the source.
func (r Ref) Release() int {
	*r.count--
	return *r.count
}

// DTD returns the underlying store.
func (r Ref) DTD() *DTD { return r.dtd }

package dtdmodel

// GeneralEntity is a <!ENTITY name "..."> or <!ENTITY name SYSTEM "..."
// [NDATA note]> declaration, keyed by name in a DTD's general entity table.
type GeneralEntity struct {
	Name       string
	Value      string // internal entities: literal replacement text
	SystemID   string // external entities: external identifier
	PublicID   string
	Base       string // base URI in effect when the entity was declared
	Notation   string // unparsed entities: the NDATA notation name
	IsParam    bool
	Open       bool // currently being expanded (recursion guard)
	textLoaded bool // internal value has been interned and is ready to expand
}

// Key implements internal/hashtable.Entry.
func (e *GeneralEntity) Key() []byte { return []byte(e.Name) }

// IsInternal reports whether this entity expands to literal text rather
// than an external resource.
func (e *GeneralEntity) IsInternal() bool { return e.SystemID == "" }

// IsUnparsed reports whether this is an unparsed (NDATA) external entity,
// which may only be referenced from attribute values of type ENTITY /
// ENTITIES, never from content.
func (e *GeneralEntity) IsUnparsed() bool { return e.SystemID != "" && e.Notation != "" }

// ParamEntity is a <!ENTITY % name "..."> declaration.
type ParamEntity struct {
	Name     string
	Value    string
	SystemID string
	PublicID string
	Base     string
	Open     bool
}

// Key implements internal/hashtable.Entry.
func (e *ParamEntity) Key() []byte { return []byte(e.Name) }

// Notation is a <!NOTATION name SYSTEM|PUBLIC ...> declaration.
type Notation struct {
	Name     string
	SystemID string
	PublicID string
}

// Key implements internal/hashtable.Entry.
func (n *Notation) Key() []byte { return []byte(n.Name) }

package dtdmodel

// ContentType distinguishes the shape of an element's content model,
// mirroring the XMLCONTENT_* enumeration in the source's content.h.
type ContentType int

const (
	ContentEmpty ContentType = iota
	ContentAny
	ContentMixed  // (#PCDATA | a | b)*
	ContentName   // a single child element name, used only inside groups
	ContentChoice // (a | b | c)
	ContentSeq    // (a , b , c)
)

// Quantifier is the repetition operator following a name or group.
type Quantifier int

const (
	QuantNone Quantifier = iota // no operator
	QuantOpt                    // ?
	QuantRep                    // *
	QuantPlus                   // +
)

// ContentModel is one node of an element's content model tree. A NAME node
// is a leaf; CHOICE/SEQ nodes hold their children in Children, in document
// order, exactly as libexpat's CONTENT_* tree does (here as Go slices
// instead of a flattened array-of-structs, since Go has no equivalent need
// to avoid one allocation per node).
type ContentModel struct {
	Type     ContentType
	Quant    Quantifier
	Name     string // valid when Type == ContentName; also each Mixed alternative
	Children []*ContentModel
}

// ElementType is an element's accumulated declaration state: its content
// model (from <!ELEMENT>, if declared) and attribute list (accumulated
// across all matching <!ATTLIST> declarations, first one wins per
// attribute per XML 1.0 §3.3).
type ElementType struct {
	Name          string
	Content       *ContentModel // nil until an <!ELEMENT> declaration is seen
	Attributes    []*AttributeDecl
	IDAttribute   string // name of this element's ID-typed attribute, if any
	Prefix        string // namespace prefix parsed from Name, if any
}

// Key implements internal/hashtable.Entry.
func (e *ElementType) Key() []byte { return []byte(e.Name) }

// Attribute looks up a previously-declared attribute by name.
func (e *ElementType) Attribute(name string) *AttributeDecl {
	for _, a := range e.Attributes {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// AttrType is the declared type of an attribute, from <!ATTLIST>.
type AttrType int

const (
	AttrCDATA AttrType = iota
	AttrID
	AttrIDRef
	AttrIDRefs
	AttrEntity
	AttrEntities
	AttrNmtoken
	AttrNmtokens
	AttrNotation
	AttrEnumeration
)

// DefaultKind is how an attribute's default behaves, from <!ATTLIST>.
type DefaultKind int

const (
	DefaultImplied DefaultKind = iota
	DefaultRequired
	DefaultFixed
	DefaultValue // plain default: "<!ATTLIST e a CDATA \"x\">"
)

// AttributeDecl is one <!ATTLIST> attribute definition.
type AttributeDecl struct {
	Name         string
	Type         AttrType
	Enumeration  []string // allowed values for AttrNotation / AttrEnumeration
	Default      DefaultKind
	DefaultValue string // present for DefaultFixed and DefaultValue
	IsCDATA      bool   // true only for Type == AttrCDATA, cached for the normalizer's fast path
}

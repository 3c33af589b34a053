package xmlcore

import "github.com/r2xml/xmlcore/internal/dtdmodel"

// Attribute is one (name, value) pair delivered with a start-element
// event, already namespace-rewritten and default-normalized per §4.3/§4.5.
type Attribute struct {
	Name  string
	Value string
}

// Handler function types, one per event kind in spec.md §4.8. A Parser
// with no handler registered for an event simply skips dispatching it —
// the teacher's own pattern of "only wire up what the caller asked for"
// (see its Option-gated features) extends naturally to handler slots that
// default to nil.
type (
	StartElementHandler    func(name string, attrs []Attribute)
	EndElementHandler       func(name string)
	CharacterDataHandler    func(text string)
	ProcessingInstrHandler  func(target, data string)
	CommentHandler          func(text string)
	StartCDataHandler       func()
	EndCDataHandler         func()
	DefaultHandler          func(text string)
	StartNamespaceHandler   func(prefix, uri string)
	EndNamespaceHandler     func(prefix string)
	StartDoctypeHandler     func(name, systemID, publicID string, hasInternalSubset bool)
	EndDoctypeHandler       func()
	ElementDeclHandler      func(name string, content *dtdmodel.ContentModel)
	AttlistDeclHandler      func(elementName string, attr *dtdmodel.AttributeDecl)
	EntityDeclHandler       func(entity *dtdmodel.GeneralEntity)
	NotationDeclHandler     func(notation *dtdmodel.Notation)
	SkippedEntityHandler    func(name string, isParameterEntity bool)
	NotStandaloneHandler    func() bool // return false to raise NOT_STANDALONE
	XMLDeclHandler          func(version, encoding string, standalone int) // standalone: -1 absent, 0 no, 1 yes
	ExternalEntityRefHandler func(ctx *ExternalEntityContext) error
)

// ExternalEntityContext carries everything the source passes to its
// external-entity-ref handler: the parent parser (so the handler can
// create a properly linked child via ExternalEntityParserCreate), and the
// identifying strings for the entity being referenced.
type ExternalEntityContext struct {
	Parent   *Parser
	Context  string
	Base     string
	SystemID string
	PublicID string
}

// handlers is the registry a Parser consults while driving events. Kept as
// a plain struct of function fields (rather than an interface with
// optional methods) so callers set only the handlers they need, mirroring
// how the teacher's config struct holds a sparse set of optional hooks
// (valueHooks, forceArrayKeys) rather than demanding a monolithic
// interface implementation.
type handlers struct {
	startElement     StartElementHandler
	endElement       EndElementHandler
	characterData    CharacterDataHandler
	pi               ProcessingInstrHandler
	comment          CommentHandler
	startCData       StartCDataHandler
	endCData         EndCDataHandler
	defaultHandler   DefaultHandler
	startNamespace   StartNamespaceHandler
	endNamespace     EndNamespaceHandler
	startDoctype     StartDoctypeHandler
	endDoctype       EndDoctypeHandler
	elementDecl      ElementDeclHandler
	attlistDecl      AttlistDeclHandler
	entityDecl       EntityDeclHandler
	notationDecl     NotationDeclHandler
	skippedEntity    SkippedEntityHandler
	notStandalone    NotStandaloneHandler
	xmlDecl          XMLDeclHandler
	externalEntity   ExternalEntityRefHandler
}

// SetStartElementHandler registers the start-element event callback.
func (p *Parser) SetStartElementHandler(h StartElementHandler) { p.handlers.startElement = h }

// SetEndElementHandler registers the end-element event callback.
func (p *Parser) SetEndElementHandler(h EndElementHandler) { p.handlers.endElement = h }

// SetCharacterDataHandler registers the character-data event callback.
func (p *Parser) SetCharacterDataHandler(h CharacterDataHandler) { p.handlers.characterData = h }

// SetProcessingInstructionHandler registers the PI event callback.
func (p *Parser) SetProcessingInstructionHandler(h ProcessingInstrHandler) { p.handlers.pi = h }

// SetCommentHandler registers the comment event callback.
func (p *Parser) SetCommentHandler(h CommentHandler) { p.handlers.comment = h }

// SetCDataSectionHandler registers the CDATA start/end event callbacks.
func (p *Parser) SetCDataSectionHandler(start StartCDataHandler, end EndCDataHandler) {
	p.handlers.startCData = start
	p.handlers.endCData = end
}

// SetDefaultHandler registers the fallback callback invoked for markup not
// claimed by any other handler (used mainly for passthrough/debugging).
func (p *Parser) SetDefaultHandler(h DefaultHandler) { p.handlers.defaultHandler = h }

// SetNamespaceDeclHandler registers the namespace scope start/end callbacks.
func (p *Parser) SetNamespaceDeclHandler(start StartNamespaceHandler, end EndNamespaceHandler) {
	p.handlers.startNamespace = start
	p.handlers.endNamespace = end
}

// SetDoctypeDeclHandler registers the DOCTYPE start/end callbacks.
func (p *Parser) SetDoctypeDeclHandler(start StartDoctypeHandler, end EndDoctypeHandler) {
	p.handlers.startDoctype = start
	p.handlers.endDoctype = end
}

// SetElementDeclHandler registers the <!ELEMENT> declaration callback.
func (p *Parser) SetElementDeclHandler(h ElementDeclHandler) { p.handlers.elementDecl = h }

// SetAttlistDeclHandler registers the <!ATTLIST> declaration callback,
// invoked once per attribute definition (matching the source's per-attribute
// AttlistDeclHandler signature rather than batching a whole declaration).
func (p *Parser) SetAttlistDeclHandler(h AttlistDeclHandler) { p.handlers.attlistDecl = h }

// SetEntityDeclHandler registers the <!ENTITY> declaration callback.
func (p *Parser) SetEntityDeclHandler(h EntityDeclHandler) { p.handlers.entityDecl = h }

// SetNotationDeclHandler registers the <!NOTATION> declaration callback.
func (p *Parser) SetNotationDeclHandler(h NotationDeclHandler) { p.handlers.notationDecl = h }

// SetSkippedEntityHandler registers the callback invoked when a general
// entity reference is encountered but not expanded: an undeclared entity
// in a document that is not standalone and has external markup, or an
// external entity referenced in content with no external-entity-ref
// handler registered.
func (p *Parser) SetSkippedEntityHandler(h SkippedEntityHandler) { p.handlers.skippedEntity = h }

// SetNotStandaloneHandler registers the callback consulted when the
// document claims standalone="yes" but an external markup declaration was
// actually read; returning false raises NOT_STANDALONE.
func (p *Parser) SetNotStandaloneHandler(h NotStandaloneHandler) { p.handlers.notStandalone = h }

// SetXMLDeclHandler registers the XML/text declaration callback.
func (p *Parser) SetXMLDeclHandler(h XMLDeclHandler) { p.handlers.xmlDecl = h }

// SetExternalEntityRefHandler registers the callback invoked for references
// to external general entities in content (parameter entity references
// never reach it); it may create a child parser
// via ExternalEntityParserCreate and feed it the resource's bytes.
func (p *Parser) SetExternalEntityRefHandler(h ExternalEntityRefHandler) {
	p.handlers.externalEntity = h
}

package xmlcore

import (
	"github.com/r2xml/xmlcore/internal/accounting"
	"github.com/r2xml/xmlcore/internal/dtdmodel"
	"github.com/r2xml/xmlcore/internal/hashtable"
	"github.com/r2xml/xmlcore/internal/nsbind"
	"github.com/r2xml/xmlcore/internal/xmltok"
)

// Status is the parser's overall lifecycle state, per spec.md §3/§6.
type Status int

const (
	StatusInitialized Status = iota
	StatusParsing
	StatusFinished
	StatusSuspended
	StatusError
)

// ParseResult is what Parse/ParseBuffer return, mirroring the source's
// OK/ERROR/SUSPENDED three-valued status (spec.md §6), distinct from the
// richer lifecycle Status a caller can query separately.
type ParseResult int

const (
	ParseOK ParseResult = iota
	ParseError
	ParseSuspended
)

// openElement is one entry of the currently-open-tags stack, carrying
// enough to validate the matching end tag and to close its namespace
// scope in the right order.
type openElement struct {
	rewrittenName string
	nsPrefixes    []string
}

// Parser is the public façade: lifecycle (create/reset/free), byte feed
// (Parse/ParseBuffer/GetBuffer), handler registration (handlers.go),
// configuration (options.go), and query accessors, orchestrating the
// scanner, role machine, DTD store, entity driver, and namespace binder
// exactly as spec.md §2 item 10 describes the source's public driver.
type Parser struct {
	cfg      *config
	handlers handlers
	logger   Logger

	enc         xmltok.Encoding
	encResolved bool // true once BOM/xml-decl/default sniffing has happened
	encLocked   bool // true once nothing (xml-decl included) may still change enc
	lexState    xmltok.LexState

	frames []*inputFrame

	// rootFinal is true once the caller has marked the document entity's
	// feed as final (via Parse(data, true) or ParseBuffer(n, true)); the
	// root frame running dry before this is set means "wait for more
	// bytes", matching spec.md §6's push-parsing contract.
	rootFinal bool

	// bufReserved is the length of the tail of the root frame's buffer
	// handed out by the last GetBuffer call but not yet committed by a
	// matching ParseBuffer, so a second GetBuffer call without an
	// intervening commit doesn't silently drop it.
	bufReserved int

	// inCData tracks whether the scan position is inside a CDATA section
	// body, selecting xmltok.StateCData instead of StateContent.
	inCData bool

	line, column int
	byteIndex    int64
	lastTokenLen int // length in bytes of the most recently scanned token

	status Status
	err    *Error

	isChild bool
	parent  *Parser
	dtd     dtdmodel.Ref
	dtdDrv  *dtdDriver

	nsStack *nsbind.Stack

	accounting *accounting.Counter

	standalone        bool
	hadExternalMarkup bool
	hadDoctype        bool

	docTypeName              string
	docTypeSystemID          string
	docTypePublicID          string
	docTypeHasInternalSubset bool

	elementStack []openElement
	seenDocElement bool
	docElementDone bool

	userData any
	base     string

	suspendRequested bool
	suspendResumable bool
	aborted          bool

	hashSeed hashtable.Seed
}

// NewParser creates a root parser, equivalent to the source's create() /
// create_ns() depending on whether WithNamespaces was supplied.
func NewParser(opts ...Option) *Parser {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = defaultLogger()
	}
	seed := hashtable.NewSeed()
	p := &Parser{
		cfg:        cfg,
		logger:     logger,
		lexState:   xmltok.StateProlog,
		status:     StatusInitialized,
		dtd:        dtdmodel.NewRef(seed),
		dtdDrv:     newDTDDriver(),
		nsStack:    newNamespaceStack(),
		accounting: newAccounting(),
		hashSeed:   seed,
	}
	if cfg.activationBytes > 0 {
		p.accounting.SetActivationBytes(cfg.activationBytes)
	}
	if cfg.maxAmplification > 0 {
		p.accounting.SetMaxAmplification(cfg.maxAmplification)
	}
	if cfg.encodingName != "" {
		if enc := builtinEncoding(cfg.encodingName); enc != nil {
			p.enc = enc
			p.encResolved = true
			p.encLocked = true
		}
	}
	for name, u := range cfg.unknownEncodings {
		u.name = name
	}
	p.frames = append(p.frames, &inputFrame{})
	return p
}

// ExternalEntityParserCreate creates a child parser to process an external
// general or parameter entity, sharing the parent's DTD (via a retained
// Ref) and handler registry, per spec.md §3's parent/child ownership rule.
func (p *Parser) ExternalEntityParserCreate(context, encodingName string) *Parser {
	child := &Parser{
		cfg:        p.cfg,
		logger:     p.logger,
		lexState:   xmltok.StateProlog,
		status:     StatusInitialized,
		isChild:    true,
		parent:     p,
		dtd:        p.dtd.Retain(),
		dtdDrv:     newDTDDriver(),
		nsStack:    newNamespaceStack(),
		accounting: p.accounting,
		hashSeed:   p.hashSeed,
		handlers:   p.handlers,
		base:       p.base,
	}
	if encodingName != "" {
		if enc := builtinEncoding(encodingName); enc != nil {
			child.enc = enc
			child.encResolved = true
			child.encLocked = true
		}
	}
	child.frames = append(child.frames, &inputFrame{isExternal: true})
	return child
}

// Free releases parser resources. Go's garbage collector reclaims
// everything reachable once the caller drops its reference; Free exists so
// callers porting code from a manual-memory binding have the expected
// call, and so a shared DTD's reference count (dtdmodel.Ref) is decremented
// deterministically rather than only at GC time.
func (p *Parser) Free() {
	p.dtd.Release()
}

// Reset restores a root parser to its just-created state, optionally
// changing the protocol-declared encoding name. Rejected on child parsers,
// per spec.md §6.
func (p *Parser) Reset(encodingName string) bool {
	if p.isChild {
		return false
	}
	seed := p.hashSeed
	p.frames = []*inputFrame{{}}
	p.line, p.column, p.byteIndex = 0, 0, 0
	p.lastTokenLen = 0
	p.status = StatusInitialized
	p.err = nil
	p.dtd.Release()
	p.dtd = dtdmodel.NewRef(seed)
	p.dtdDrv = newDTDDriver()
	p.nsStack = newNamespaceStack()
	p.accounting = newAccounting()
	p.standalone, p.hadExternalMarkup, p.hadDoctype = false, false, false
	p.docTypeName, p.docTypeSystemID, p.docTypePublicID = "", "", ""
	p.docTypeHasInternalSubset = false
	p.elementStack = nil
	p.seenDocElement, p.docElementDone = false, false
	p.suspendRequested, p.suspendResumable, p.aborted = false, false, false
	p.encResolved = false
	p.encLocked = false
	p.rootFinal = false
	p.bufReserved = 0
	p.inCData = false
	p.enc = nil
	if encodingName != "" {
		if enc := builtinEncoding(encodingName); enc != nil {
			p.enc = enc
			p.encResolved = true
			p.encLocked = true
		}
	}
	return true
}

// SetEncoding pins the protocol-declared encoding, equivalent to
// XML_SetEncoding; rejected once parsing has begun.
func (p *Parser) SetEncoding(name string) bool {
	if p.status != StatusInitialized {
		return false
	}
	enc := builtinEncoding(name)
	if u, ok := p.cfg.unknownEncodings[name]; enc == nil && ok && u.validate() {
		enc = u
	}
	if enc == nil {
		return false
	}
	p.enc = enc
	p.encResolved = true
	p.encLocked = true
	return true
}

// SetBase sets the base URI used to resolve relative system identifiers
// the caller hands to an external-entity-ref handler.
func (p *Parser) SetBase(base string) { p.base = base }

// GetBase returns the current base URI.
func (p *Parser) GetBase() string { return p.base }

// SetUserData stores an opaque caller value retrievable from handlers via
// GetUserData.
func (p *Parser) SetUserData(v any) { p.userData = v }

// GetUserData retrieves the value set by SetUserData.
func (p *Parser) GetUserData() any { return p.userData }

// UseForeignDTD sets or clears the stored use_foreign_dtd flag after
// construction; see WithForeignDTD.
func (p *Parser) UseForeignDTD(yes bool) { p.cfg.useForeignDTD = yes }

// SetParamEntityParsing changes the stored parameter-entity parsing mode;
// see ParamEntityParsing.
func (p *Parser) SetParamEntityParsing(mode ParamEntityParsing) bool {
	if p.status == StatusParsing {
		return false
	}
	p.cfg.paramEntityMode = mode
	return true
}

// SetReturnNSTriplet toggles triplet-mode name rewriting.
func (p *Parser) SetReturnNSTriplet(yes bool) bool {
	if p.status == StatusParsing {
		return false
	}
	p.cfg.returnNSTriplet = yes
	return true
}

// GetErrorCode reports the code of the error that put the parser into
// StatusError, or ErrNone otherwise.
func (p *Parser) GetErrorCode() ErrorCode {
	if p.err == nil {
		return ErrNone
	}
	return p.err.Code
}

// CurrentLineNumber reports the 1-based line of the current scan position.
func (p *Parser) CurrentLineNumber() int { return p.line + 1 }

// CurrentColumnNumber reports the 0-based column of the current scan
// position, matching the source's convention.
func (p *Parser) CurrentColumnNumber() int { return p.column }

// CurrentByteIndex reports the absolute byte offset of the current scan
// position within the document entity.
func (p *Parser) CurrentByteIndex() int64 { return p.byteIndex }

// GetParsingStatus reports the parser's current lifecycle state.
func (p *Parser) GetParsingStatus() Status { return p.status }

// CurrentByteCount reports the length in bytes of the most recently scanned
// token (a start/end tag, a run of character data, a comment, ...), 0
// before any token has been scanned, per spec.md §6's current_byte_count.
func (p *Parser) CurrentByteCount() int { return p.lastTokenLen }

// GetInputContext returns the innermost input frame's buffer together with
// the byte offset of the current scan position within it, letting a caller
// recover the raw bytes surrounding the last reported event. It reports
// (nil, 0) unless WithInputContextPreservation was supplied to NewParser,
// matching spec.md §6's get_input_context, which is gated "when context
// preservation is enabled at build time".
func (p *Parser) GetInputContext() (data []byte, offset int) {
	if !p.cfg.keepInputContext || len(p.frames) == 0 {
		return nil, 0
	}
	f := p.currentFrame()
	return f.buf, f.pos
}

// fail transitions the parser into StatusError with code, recording the
// current position, and returns the *Error for the caller to propagate.
// Per spec.md §7's propagation policy, once called every subsequent
// Parse/ParseBuffer call returns the same error.
func (p *Parser) fail(code ErrorCode) *Error {
	if p.err == nil {
		p.err = &Error{Code: code, Line: p.line + 1, Column: p.column, ByteIndex: p.byteIndex}
		p.status = StatusError
	}
	return p.err
}

// Stop requests suspension (resumable=true) or abortion (resumable=false)
// of the current parse, to be called from within a handler per spec.md
// §4.4/§5. It is observed at the next token boundary.
func (p *Parser) Stop(resumable bool) bool {
	if p.status != StatusParsing {
		return false
	}
	p.suspendRequested = true
	p.suspendResumable = resumable
	if !resumable {
		p.aborted = true
	}
	return true
}

// Resume continues a suspended parse. It is equivalent to calling Parse
// with no new bytes after a prior suspension.
func (p *Parser) Resume() ParseResult {
	if p.status != StatusSuspended {
		p.fail(ErrNotSuspended)
		return ParseError
	}
	p.status = StatusParsing
	return p.parseInternal(nil, false)
}

func builtinEncoding(name string) xmltok.Encoding {
	switch normalizeEncodingName(name) {
	case "UTF-8":
		return xmltok.UTF8
	case "US-ASCII", "ASCII":
		return xmltok.ASCII
	case "ISO-8859-1", "LATIN1":
		return xmltok.Latin1
	case "UTF-16BE":
		return xmltok.UTF16BE
	case "UTF-16LE":
		return xmltok.UTF16LE
	}
	return nil
}

func normalizeEncodingName(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}

func (p *Parser) debugf(format string, args ...any) {
	if p.logger != nil {
		p.logger.Printf(format, args...)
	}
}

package xmlcore

import (
	"strconv"
	"strings"

	"github.com/r2xml/xmlcore/internal/dtdmodel"
	"github.com/r2xml/xmlcore/internal/xmlrole"
	"github.com/r2xml/xmlcore/internal/xmltok"
)

// ============================================================================
// PUBLIC FEED API
// ============================================================================
//
// Parse/ParseBuffer/GetBuffer mirror the source's push-parsing trio
// (XML_Parse / XML_GetBuffer / XML_ParseBuffer): Parse copies its argument
// in; GetBuffer+ParseBuffer let a caller reading from a socket or file fill
// the parser's own buffer directly, skipping a copy.

// Parse feeds data as the next chunk of the document entity. isFinal marks
// the last chunk; after a call with isFinal true, every subsequent
// Parse/ParseBuffer call fails with ERR_FINISHED, per spec.md §6.
func (p *Parser) Parse(data []byte, isFinal bool) ParseResult {
	if r, ok := p.precheckFeed(); !ok {
		return r
	}
	root := p.frames[0]
	if len(data) > 0 {
		root.buf = append(root.buf, data...)
		p.accounting.AddDirect(len(data))
	}
	if isFinal {
		p.rootFinal = true
	}
	p.status = StatusParsing
	return p.drive()
}

// GetBuffer returns a slice of at least minLen fresh bytes at the end of the
// document entity's buffer for the caller to fill in place (e.g. via
// io.Reader.Read), to be committed with ParseBuffer.
func (p *Parser) GetBuffer(minLen int) []byte {
	root := p.frames[0]
	end := len(root.buf)
	want := end + minLen
	if cap(root.buf) < want {
		grown := make([]byte, end, want*2)
		copy(grown, root.buf)
		root.buf = grown
	}
	root.buf = root.buf[:want]
	p.bufReserved = minLen
	return root.buf[end:want]
}

// ParseBuffer commits the first n bytes of the window returned by the most
// recent GetBuffer call as real input (trimming any unused reserved tail)
// and drives the parser, exactly like Parse.
func (p *Parser) ParseBuffer(n int, isFinal bool) ParseResult {
	if r, ok := p.precheckFeed(); !ok {
		return r
	}
	unused := p.bufReserved - n
	if unused < 0 {
		p.fail(ErrNoBuffer)
		return ParseError
	}
	root := p.frames[0]
	root.buf = root.buf[:len(root.buf)-unused]
	p.bufReserved = 0
	if n > 0 {
		p.accounting.AddDirect(n)
	}
	if isFinal {
		p.rootFinal = true
	}
	p.status = StatusParsing
	return p.drive()
}

func (p *Parser) precheckFeed() (ParseResult, bool) {
	switch p.status {
	case StatusError:
		return ParseError, false
	case StatusFinished:
		p.fail(ErrFinished)
		return ParseError, false
	case StatusSuspended:
		p.fail(ErrSuspended)
		return ParseError, false
	}
	if p.rootFinal && p.status != StatusInitialized && p.status != StatusParsing {
		p.fail(ErrFinished)
		return ParseError, false
	}
	return ParseOK, true
}

// parseInternal is Resume's entry point back into the drive loop; extra is
// always nil today (Resume never has new bytes of its own to add), kept as
// a parameter so a future StopAndFeed-style API has somewhere to plug in.
func (p *Parser) parseInternal(extra []byte, isFinal bool) ParseResult {
	if len(extra) > 0 {
		root := p.frames[0]
		root.buf = append(root.buf, extra...)
		p.accounting.AddDirect(len(extra))
	}
	if isFinal {
		p.rootFinal = true
	}
	return p.drive()
}

// ============================================================================
// DRIVE LOOP
// ============================================================================

// drive repeatedly scans one token from the innermost input frame and
// dispatches it, until input runs out, an error occurs, the parse is
// suspended, or the document entity is fully consumed.
func (p *Parser) drive() ParseResult {
	for {
		if !p.encResolved {
			if !p.tryResolveEncoding() {
				return ParseOK
			}
		}

		frame := p.currentFrame()
		if frame.pos >= len(frame.buf) {
			if len(p.frames) > 1 {
				p.popEntityFrame()
				continue
			}
			if !p.rootFinal {
				return ParseOK
			}
			if !p.seenDocElement {
				p.fail(ErrNoElements)
				return ParseError
			}
			if !p.docElementDone {
				p.fail(ErrUnclosedToken)
				return ParseError
			}
			p.status = StatusFinished
			return ParseOK
		}

		buf := frame.buf[frame.pos:]
		final := len(p.frames) > 1 || p.rootFinal

		lex := p.determineLexState()
		if lex == xmltok.StateProlog {
			useContent, determined := classifyProlog(p.enc, buf, final)
			if !determined {
				return ParseOK
			}
			if useContent {
				lex = xmltok.StateContent
			}
		}

		tok, n := xmltok.Scan(p.enc, lex, buf, final)
		if tok == xmltok.TokPartial || tok == xmltok.TokPartialChar {
			return ParseOK
		}

		consumed := buf[:n]
		p.advancePosition(consumed)
		if len(p.frames) == 1 {
			p.byteIndex += int64(n)
		}
		p.lastTokenLen = n
		frame.pos += n

		if tok == xmltok.TokInvalid {
			if n >= len(buf) {
				p.fail(ErrUnclosedToken)
			} else {
				p.fail(ErrInvalidToken)
			}
			return ParseError
		}

		var text string
		switch tok {
		case xmltok.TokName, xmltok.TokNmtoken, xmltok.TokPoundName:
			text = decodeText(p.enc, consumed)
		case xmltok.TokLiteral:
			text = decodeLiteralText(p.enc, consumed)
		}

		if err := p.dispatchToken(tok, consumed, text, frame); err != nil {
			return ParseError
		}

		if p.suspendRequested {
			p.suspendRequested = false
			if p.suspendResumable {
				p.status = StatusSuspended
				return ParseSuspended
			}
			p.fail(ErrAborted)
			return ParseError
		}
	}
}

// determineLexState picks the scanner grammar for the next token, per
// spec.md §4.1: CDATA section body and DTD conditional-IGNORE sections each
// get their own grammar; otherwise prolog (before the root start-tag or
// after the root end-tag) or content.
func (p *Parser) determineLexState() xmltok.LexState {
	if p.inCData {
		return xmltok.StateCData
	}
	if p.dtdDrv.state == xmlrole.StateIgnoreSect {
		return xmltok.StateIgnoreSection
	}
	if !p.seenDocElement || p.docElementDone {
		return xmltok.StateProlog
	}
	return xmltok.StateContent
}

// classifyProlog resolves the one case the StateProlog grammar cannot
// itself tokenize: a bare "<name" is the root element's start tag, not a
// declaration, comment, or PI, but scanPrologMarkup only recognizes "!",
// "![", "!--" and "?" after '<'. content.go peeks the byte following '<'
// and, when it is an ordinary name-start character, switches to the
// StateContent grammar for this one Scan call so the tag is tokenized
// properly; the same peek flags a second top-level element during the
// epilog as ErrJunkAfterDocElement instead of INVALID_TOKEN.
func classifyProlog(enc xmltok.Encoding, buf []byte, final bool) (useContent bool, determined bool) {
	mbpc := enc.MinBytesPerChar()
	if len(buf) < mbpc {
		if final {
			return false, true
		}
		return false, false
	}
	r, n, status := enc.DecodeRune(buf, final)
	if status != xmltok.DecodeOK || r != '<' {
		return false, true
	}
	if len(buf) < n+mbpc {
		if final {
			return false, true
		}
		return false, false
	}
	r2, _, status2 := enc.DecodeRune(buf[n:], final)
	if status2 != xmltok.DecodeOK {
		if final {
			return false, true
		}
		return false, false
	}
	switch r2 {
	case '!', '?', '/':
		return false, true
	}
	if xmltok.IsNameStartChar(r2) {
		return true, true
	}
	return false, true
}

// tryResolveEncoding applies the precedence of spec.md §9: an explicit
// encoding (already set at construction or via SetEncoding) wins outright;
// otherwise a byte-order mark is sniffed and locks the encoding; otherwise
// UTF-8 is assumed but left unlocked so a following <?xml encoding=...?>
// may still override it once.
func (p *Parser) tryResolveEncoding() bool {
	root := p.frames[0]
	buf := root.buf[root.pos:]
	if len(buf) < 4 && !p.rootFinal {
		return false
	}
	if p.enc != nil {
		p.encLocked = true
		p.encResolved = true
		return true
	}
	if enc, n, ok := xmltok.SniffBOM(buf); ok {
		root.pos += n
		p.byteIndex += int64(n)
		p.enc = enc
		p.encLocked = true
	} else {
		p.enc = xmltok.UTF8
		p.encLocked = false
	}
	p.encResolved = true
	return true
}

// advancePosition updates line/column bookkeeping over the bytes just
// consumed, counting characters (not bytes) per column so multi-byte
// encodings report sensible positions, and collapsing CR and CRLF into a
// single line increment.
func (p *Parser) advancePosition(raw []byte) {
	pos := 0
	for pos < len(raw) {
		r, n, status := p.enc.DecodeRune(raw[pos:], true)
		if status != xmltok.DecodeOK {
			pos++
			p.column++
			continue
		}
		pos += n
		if r == 0x0D {
			p.line++
			p.column = 0
			if pos < len(raw) {
				r2, n2, status2 := p.enc.DecodeRune(raw[pos:], true)
				if status2 == xmltok.DecodeOK && r2 == 0x0A {
					pos += n2
				}
			}
			continue
		}
		if r == 0x0A {
			p.line++
			p.column = 0
			continue
		}
		p.column++
	}
}

// ============================================================================
// TOKEN DISPATCH
// ============================================================================

func (p *Parser) dispatchToken(tok xmltok.Token, raw []byte, text string, frame *inputFrame) error {
	if tok == xmltok.TokXMLDecl && frame.sawAnyToken {
		return p.fail(ErrMisplacedXMLPI)
	}
	defer func() { frame.sawAnyToken = true }()

	if !p.seenDocElement {
		return p.dispatchProlog(tok, raw, text)
	}
	if p.docElementDone {
		return p.dispatchEpilog(tok, raw, text)
	}
	return p.dispatchContent(tok, raw, text)
}

func (p *Parser) dispatchProlog(tok xmltok.Token, raw []byte, text string) error {
	switch tok {
	case xmltok.TokStartTagNoAtts, xmltok.TokStartTagWithAtts,
		xmltok.TokEmptyElementNoAtts, xmltok.TokEmptyElementWithAtts:
		p.seenDocElement = true
		return p.handleStartTag(raw)
	case xmltok.TokXMLDecl:
		return p.handleXMLDecl(raw)
	case xmltok.TokComment:
		return p.handleComment(raw)
	case xmltok.TokPI:
		return p.handlePI(raw)
	case xmltok.TokPrologS:
		if p.handlers.defaultHandler != nil {
			p.handlers.defaultHandler(decodeText(p.enc, raw))
		}
		return nil
	case xmltok.TokDeclOpen, xmltok.TokName, xmltok.TokNmtoken, xmltok.TokPoundName,
		xmltok.TokLiteral, xmltok.TokOpenParen, xmltok.TokCloseParen,
		xmltok.TokCloseParenAsterisk, xmltok.TokCloseParenQuestion, xmltok.TokCloseParenPlus,
		xmltok.TokOr, xmltok.TokComma, xmltok.TokOpenBracket, xmltok.TokCloseBracket,
		xmltok.TokPercent, xmltok.TokParamEntityRef, xmltok.TokDeclClose, xmltok.TokEQ:
		return p.stepDTD(tok, text)
	}
	return p.fail(ErrSyntax)
}

func (p *Parser) dispatchEpilog(tok xmltok.Token, raw []byte, _ string) error {
	switch tok {
	case xmltok.TokComment:
		return p.handleComment(raw)
	case xmltok.TokPI:
		return p.handlePI(raw)
	case xmltok.TokPrologS:
		if p.handlers.defaultHandler != nil {
			p.handlers.defaultHandler(decodeText(p.enc, raw))
		}
		return nil
	}
	return p.fail(ErrJunkAfterDocElement)
}

func (p *Parser) dispatchContent(tok xmltok.Token, raw []byte, _ string) error {
	switch tok {
	case xmltok.TokDataChars:
		return p.emitCharData(decodeText(p.enc, raw))
	case xmltok.TokDataNewline:
		return p.emitCharData("\n")
	case xmltok.TokStartTagWithAtts, xmltok.TokStartTagNoAtts,
		xmltok.TokEmptyElementWithAtts, xmltok.TokEmptyElementNoAtts:
		return p.handleStartTag(raw)
	case xmltok.TokEndTag:
		return p.handleEndTag(raw)
	case xmltok.TokEntityRef:
		return p.handleEntityRef(raw)
	case xmltok.TokCharRef:
		return p.handleCharRef(raw)
	case xmltok.TokCDATASectOpen:
		p.inCData = true
		if p.handlers.startCData != nil {
			p.handlers.startCData()
		}
		return nil
	case xmltok.TokCDATASectClose:
		p.inCData = false
		if p.handlers.endCData != nil {
			p.handlers.endCData()
		}
		return nil
	case xmltok.TokComment:
		return p.handleComment(raw)
	case xmltok.TokPI:
		return p.handlePI(raw)
	case xmltok.TokXMLDecl:
		// Only reachable when an XML declaration is the first token of an
		// internal entity's replacement text (dispatchToken rejects one later
		// in a frame). Root and external-entity child parsers both start in
		// the prolog, so their declarations go through dispatchProlog.
		return p.handleXMLDecl(raw)
	}
	return p.fail(ErrSyntax)
}

// ============================================================================
// ELEMENT / ATTRIBUTE HANDLING
// ============================================================================

func (p *Parser) handleStartTag(raw []byte) error {
	nameSpan, attrSpans, selfClosing := xmltok.ParseStartTag(p.enc, raw)
	rawName := decodeText(p.enc, raw[nameSpan.Start:nameSpan.End])

	et := p.dtd.DTD().ElementType(rawName)

	rawAttrs := make([]Attribute, 0, len(attrSpans))
	seen := make(map[string]bool, len(attrSpans))
	for _, a := range attrSpans {
		aName := decodeText(p.enc, raw[a.Name.Start:a.Name.End])
		if seen[aName] {
			return p.fail(ErrDuplicateAttribute)
		}
		seen[aName] = true
		collapse := false
		if decl := et.Attribute(aName); decl != nil {
			collapse = !decl.IsCDATA
		}
		// include the closing quote, which ends normalizeAttrValue's scan
		val, err := p.normalizeAttrValue(raw[a.ValueStart:a.ValueEnd+p.enc.MinBytesPerChar()], a.Quote, collapse)
		if err != nil {
			return err
		}
		rawAttrs = append(rawAttrs, Attribute{Name: aName, Value: val})
	}

	rawAttrs, err := p.applyDefaultAttributes(et, rawAttrs, seen)
	if err != nil {
		return err
	}

	var (
		finalName  string
		finalAttrs []Attribute
		declared   []string
	)
	if p.cfg.nsSeparator != 0 {
		finalName, finalAttrs, declared, err = p.processStartTagNamespaces(rawName, rawAttrs)
		if err != nil {
			return err
		}
	} else {
		finalName, finalAttrs = rawName, rawAttrs
	}

	p.elementStack = append(p.elementStack, openElement{rewrittenName: finalName, nsPrefixes: declared})
	if p.handlers.startElement != nil {
		p.handlers.startElement(finalName, finalAttrs)
	}
	if selfClosing {
		return p.closeTopElement()
	}
	return nil
}

func (p *Parser) closeTopElement() error {
	n := len(p.elementStack)
	if n == 0 {
		return p.fail(ErrTagMismatch)
	}
	top := p.elementStack[n-1]
	p.elementStack = p.elementStack[:n-1]
	if p.handlers.endElement != nil {
		p.handlers.endElement(top.rewrittenName)
	}
	if p.cfg.nsSeparator != 0 {
		p.popElementNamespaces(top.nsPrefixes)
	}
	if len(p.elementStack) == 0 {
		p.docElementDone = true
	}
	return nil
}

func (p *Parser) handleEndTag(raw []byte) error {
	span := xmltok.ParseEndTag(p.enc, raw)
	name := decodeText(p.enc, raw[span.Start:span.End])
	if p.cfg.nsSeparator != 0 {
		rewritten, err := p.resolveQName(name, true)
		if err != nil {
			return err
		}
		name = rewritten
	}
	if len(p.elementStack) == 0 || p.elementStack[len(p.elementStack)-1].rewrittenName != name {
		return p.fail(ErrTagMismatch)
	}
	return p.closeTopElement()
}

// applyDefaultAttributes synthesizes a FIXED or default-valued attribute
// declared in the DTD for et but absent from the tag as written, per
// spec.md §4.3 step 2; each synthesized value counts as indirect input for
// the amplification guard, matching a literal default-value being no
// different in kind from an expanded entity.
func (p *Parser) applyDefaultAttributes(et *dtdmodel.ElementType, attrs []Attribute, seen map[string]bool) ([]Attribute, error) {
	changed := false
	for _, decl := range et.Attributes {
		if seen[decl.Name] {
			continue
		}
		if decl.Default != dtdmodel.DefaultFixed && decl.Default != dtdmodel.DefaultValue {
			continue
		}
		p.accounting.AddIndirect(len(decl.DefaultValue))
		attrs = append(attrs, Attribute{Name: decl.Name, Value: decl.DefaultValue})
		changed = true
	}
	if changed {
		if err := p.checkAmplification(); err != nil {
			return nil, err
		}
	}
	return attrs, nil
}

// ============================================================================
// CHARACTER DATA, COMMENTS, PIS, DECLARATIONS
// ============================================================================

func (p *Parser) emitCharData(text string) error {
	if p.handlers.characterData != nil {
		p.handlers.characterData(text)
	}
	return nil
}

func (p *Parser) handleComment(raw []byte) error {
	mbpc := p.enc.MinBytesPerChar()
	prefix, suffix := 4*mbpc, 3*mbpc
	if len(raw) < prefix+suffix {
		return nil
	}
	text := decodeText(p.enc, raw[prefix:len(raw)-suffix])
	if p.handlers.comment != nil {
		p.handlers.comment(text)
	}
	return nil
}

func (p *Parser) handlePI(raw []byte) error {
	mbpc := p.enc.MinBytesPerChar()
	prefix, suffix := 2*mbpc, 2*mbpc
	if len(raw) < prefix+suffix {
		return nil
	}
	interior := decodeText(p.enc, raw[prefix:len(raw)-suffix])
	target, data := splitPITargetData(interior)
	if p.handlers.pi != nil {
		p.handlers.pi(target, data)
	}
	return nil
}

func splitPITargetData(interior string) (target, data string) {
	i := strings.IndexAny(interior, " \t\r\n")
	if i < 0 {
		return interior, ""
	}
	return interior[:i], strings.TrimLeft(interior[i:], " \t\r\n")
}

func (p *Parser) handleXMLDecl(raw []byte) error {
	mbpc := p.enc.MinBytesPerChar()
	prefix, suffix := 2*mbpc, 2*mbpc
	if len(raw) < prefix+suffix {
		return p.fail(ErrXMLDecl)
	}
	interior := decodeText(p.enc, raw[prefix:len(raw)-suffix])
	version, encName, standalone := parseXMLDeclPseudoAttrs(interior)

	if encName != "" && !p.encLocked {
		enc := builtinEncoding(encName)
		if enc == nil {
			if u, ok := p.cfg.unknownEncodings[encName]; ok && u.validate() {
				enc = u
			}
		}
		if enc == nil {
			return p.fail(ErrUnknownEncoding)
		}
		p.enc = enc
		p.encLocked = true
	}
	if standalone == 1 {
		p.standalone = true
		p.dtd.DTD().Standalone = true
	}
	if p.handlers.xmlDecl != nil {
		p.handlers.xmlDecl(version, encName, standalone)
	}
	return nil
}

// parseXMLDeclPseudoAttrs extracts version/encoding/standalone from an XML
// or text declaration's interior (the leading "xml" keyword and trailing
// whitespace already included); this is a minimal positional reader for a
// fixed three-field pseudo-attribute list, not a general attribute-value
// scan, so it is hand-written rather than routed through xmltok.
func parseXMLDeclPseudoAttrs(s string) (version, encoding string, standalone int) {
	standalone = -1
	for _, f := range splitXMLDeclFields(s) {
		switch f.name {
		case "version":
			version = f.value
		case "encoding":
			encoding = f.value
		case "standalone":
			if f.value == "yes" {
				standalone = 1
			} else if f.value == "no" {
				standalone = 0
			}
		}
	}
	return
}

type xmlDeclField struct{ name, value string }

func splitXMLDeclFields(s string) []xmlDeclField {
	var out []xmlDeclField
	i := 0
	for i < len(s) && !isXMLDeclSpace(s[i]) {
		i++ // skip the leading "xml" keyword
	}
	for i < len(s) {
		for i < len(s) && isXMLDeclSpace(s[i]) {
			i++
		}
		start := i
		for i < len(s) && s[i] != '=' {
			i++
		}
		if i >= len(s) {
			break
		}
		name := strings.TrimSpace(s[start:i])
		i++
		for i < len(s) && isXMLDeclSpace(s[i]) {
			i++
		}
		if i >= len(s) {
			break
		}
		quote := s[i]
		i++
		vstart := i
		for i < len(s) && s[i] != quote {
			i++
		}
		value := s[vstart:i]
		if i < len(s) {
			i++
		}
		out = append(out, xmlDeclField{name, value})
	}
	return out
}

func isXMLDeclSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// ============================================================================
// ENTITY / CHARACTER REFERENCES (content level)
// ============================================================================

func (p *Parser) handleEntityRef(raw []byte) error {
	name := refName(p.enc, raw)
	if r, ok := predefinedEntityValue(name); ok {
		p.accounting.AddIndirect(predefinedEntityIndirectCost)
		if err := p.checkAmplification(); err != nil {
			return err
		}
		return p.emitCharData(string(r))
	}
	ent, err := p.resolveGeneralEntityRef(name)
	if err != nil {
		return err
	}
	if ent == nil {
		return nil
	}
	if !ent.IsInternal() {
		if p.handlers.externalEntity != nil {
			ctx := &ExternalEntityContext{Parent: p, Base: p.base, SystemID: ent.SystemID, PublicID: ent.PublicID}
			if err := p.handlers.externalEntity(ctx); err != nil {
				return p.fail(ErrExternalEntityHandling)
			}
			return nil
		}
		if p.handlers.skippedEntity != nil {
			p.handlers.skippedEntity(name, false)
		}
		return nil
	}
	return p.pushEntityFrame(ent)
}

func (p *Parser) handleCharRef(raw []byte) error {
	r, ok := decodeCharRef(p.enc, raw)
	if !ok {
		return p.fail(ErrBadCharRef)
	}
	return p.emitCharData(string(r))
}

// ============================================================================
// ATTRIBUTE VALUE NORMALIZATION
// ============================================================================

// normalizeAttrValue expands character and entity references within one
// already-delimited attribute value and applies whitespace normalization
// per spec.md §4.3/§4.5: every literal whitespace byte becomes a space, and
// (for declared non-CDATA types) runs of spaces collapse to one with
// leading/trailing space trimmed.
func (p *Parser) normalizeAttrValue(raw []byte, quote rune, collapse bool) (string, error) {
	var sb strings.Builder
	pos := 0
	for pos < len(raw) {
		piece, n := xmltok.ScanAttrValue(p.enc, raw[pos:], true, quote)
		if n < 0 {
			return "", p.fail(ErrInvalidToken)
		}
		switch piece.Tok {
		case xmltok.TokInvalid:
			return "", p.fail(ErrInvalidToken)
		case xmltok.TokDataChars:
			appendNormalizedText(&sb, decodeText(p.enc, raw[pos:pos+n]))
		case xmltok.TokLiteral:
			// the closing quote; nothing to append.
		case xmltok.TokCharRef:
			r, ok := decodeCharRef(p.enc, raw[pos:pos+n])
			if !ok {
				return "", p.fail(ErrBadCharRef)
			}
			sb.WriteRune(r)
		case xmltok.TokEntityRef:
			name := refName(p.enc, raw[pos:pos+n])
			if r, ok := predefinedEntityValue(name); ok {
				sb.WriteRune(r)
				p.accounting.AddIndirect(predefinedEntityIndirectCost)
				if err := p.checkAmplification(); err != nil {
					return "", err
				}
			} else {
				ent, err := p.resolveGeneralEntityRef(name)
				if err != nil {
					return "", err
				}
				switch {
				case ent == nil:
					// undefined but skipped: contributes no text.
				case !ent.IsInternal():
					return "", p.fail(ErrAttributeExternalEntityRef)
				case ent.Open:
					return "", p.fail(ErrRecursiveEntityRef)
				default:
					p.accounting.AddIndirect(len(ent.Value))
					if err := p.checkAmplification(); err != nil {
						return "", err
					}
					ent.Open = true
					sub, err := p.expandEntityText(ent.Value)
					ent.Open = false
					if err != nil {
						return "", err
					}
					sb.WriteString(sub)
				}
			}
		}
		pos += n
		if piece.Closed {
			break
		}
	}
	text := sb.String()
	if collapse {
		text = collapseWhitespaceRuns(text)
	}
	return text, nil
}

// expandEntityText recursively expands character/entity references inside
// an internal entity's already-decoded replacement text, used both for
// nested references reached through attribute-value normalization and for
// an entity's own default-attribute-value text. Unlike content-level
// expansion (which pushes an input frame so the reference's expansion is
// itself re-scanned for markup), an attribute value can never contain
// markup, so the references are resolved directly into the result string.
func (p *Parser) expandEntityText(value string) (string, error) {
	var sb strings.Builder
	i := 0
	for i < len(value) {
		c := value[i]
		if c != '&' {
			sb.WriteByte(c)
			i++
			continue
		}
		end := strings.IndexByte(value[i:], ';')
		if end < 0 {
			return "", p.fail(ErrSyntax)
		}
		ref := value[i+1 : i+end]
		i += end + 1
		if strings.HasPrefix(ref, "#") {
			r, ok := decodeCharRefBody(ref[1:])
			if !ok {
				return "", p.fail(ErrBadCharRef)
			}
			sb.WriteRune(r)
			continue
		}
		if r, ok := predefinedEntityValue(ref); ok {
			sb.WriteRune(r)
			p.accounting.AddIndirect(predefinedEntityIndirectCost)
			if err := p.checkAmplification(); err != nil {
				return "", err
			}
			continue
		}
		ent, err := p.resolveGeneralEntityRef(ref)
		if err != nil {
			return "", err
		}
		if ent == nil {
			continue
		}
		if !ent.IsInternal() {
			return "", p.fail(ErrAttributeExternalEntityRef)
		}
		if ent.Open {
			return "", p.fail(ErrRecursiveEntityRef)
		}
		p.accounting.AddIndirect(len(ent.Value))
		if err := p.checkAmplification(); err != nil {
			return "", err
		}
		ent.Open = true
		sub, err := p.expandEntityText(ent.Value)
		ent.Open = false
		if err != nil {
			return "", err
		}
		sb.WriteString(sub)
	}
	return sb.String(), nil
}

// normalizeDefaultAttrText runs a <!ATTLIST> default-value literal through
// the same whitespace folding, character-reference decoding, and
// general-entity expansion a tag-supplied attribute value gets, per
// spec.md §4.5, before the value is cached on the AttributeDecl and reused
// verbatim at every element that needs it synthesized.
func (p *Parser) normalizeDefaultAttrText(raw string, collapse bool) (string, error) {
	folded := foldLiteralWhitespace(raw)
	expanded, err := p.expandEntityText(folded)
	if err != nil {
		return "", err
	}
	if collapse {
		expanded = collapseWhitespaceRuns(expanded)
	}
	return expanded, nil
}

// foldLiteralWhitespace maps each literal CR, LF, or CRLF pair in a DTD
// literal to a single space, the byte-wise equivalent of appendNormalizedText
// for text that never passed through the scanner's own newline collapsing
// (scanLiteral reads quoted literals raw, with no such collapsing applied).
func foldLiteralWhitespace(s string) string {
	var sb strings.Builder
	i := 0
	for i < len(s) {
		switch s[i] {
		case '\r':
			sb.WriteByte(' ')
			i++
			if i < len(s) && s[i] == '\n' {
				i++
			}
		case '\n', '\t':
			sb.WriteByte(' ')
			i++
		default:
			sb.WriteByte(s[i])
			i++
		}
	}
	return sb.String()
}

func appendNormalizedText(sb *strings.Builder, text string) {
	prevCR := false
	for _, r := range text {
		if r == '\n' && prevCR {
			// second half of a CRLF pair, already written as one space
			prevCR = false
			continue
		}
		prevCR = r == '\r'
		switch r {
		case '\t', '\r', '\n':
			sb.WriteRune(' ')
		default:
			sb.WriteRune(r)
		}
	}
}

func collapseWhitespaceRuns(s string) string {
	var sb strings.Builder
	prevSpace := true
	for _, r := range s {
		if r == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
			sb.WriteRune(r)
			continue
		}
		prevSpace = false
		sb.WriteRune(r)
	}
	return strings.TrimRight(sb.String(), " ")
}

// ============================================================================
// TOKEN TEXT DECODING
// ============================================================================

// decodeText decodes every character of buf under enc into a Go string,
// used for token text that carries no surrounding delimiters to strip
// (names, data runs, comment/PI interiors).
func decodeText(enc xmltok.Encoding, buf []byte) string {
	var sb strings.Builder
	pos := 0
	for pos < len(buf) {
		r, n, status := enc.DecodeRune(buf[pos:], true)
		if status != xmltok.DecodeOK {
			pos++
			continue
		}
		sb.WriteRune(r)
		pos += n
	}
	return sb.String()
}

// decodeLiteralText decodes a TokLiteral's raw bytes, stripping the
// surrounding quote characters.
func decodeLiteralText(enc xmltok.Encoding, buf []byte) string {
	mbpc := enc.MinBytesPerChar()
	if len(buf) < 2*mbpc {
		return ""
	}
	return decodeText(enc, buf[mbpc:len(buf)-mbpc])
}

// refName strips the leading '&' (or '%') and trailing ';' from a scanned
// reference token's raw bytes.
func refName(enc xmltok.Encoding, raw []byte) string {
	text := decodeText(enc, raw)
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}

func decodeCharRef(enc xmltok.Encoding, raw []byte) (rune, bool) {
	text := decodeText(enc, raw)
	if len(text) < 4 || text[0] != '&' || text[1] != '#' || text[len(text)-1] != ';' {
		return 0, false
	}
	return decodeCharRefBody(text[2 : len(text)-1])
}

func decodeCharRefBody(body string) (rune, bool) {
	var val int64
	var err error
	if len(body) > 0 && (body[0] == 'x' || body[0] == 'X') {
		val, err = strconv.ParseInt(body[1:], 16, 32)
	} else {
		val, err = strconv.ParseInt(body, 10, 32)
	}
	if err != nil || val < 0 || val > 0x10FFFF {
		return 0, false
	}
	r := rune(val)
	if !xmltok.IsChar(r) {
		return 0, false
	}
	return r, true
}

package xmlcore

import "github.com/r2xml/xmlcore/internal/dtdmodel"

// inputFrame is one entry of the entity expansion stack (spec.md §3 "Input
// frame"): either the document entity itself (frame 0) or the replacement
// text of an internal entity currently being expanded. External entities
// are handed off to a child Parser instead of a frame (§4.4), so every
// frame here is an in-memory byte slice with its own scan position.
type inputFrame struct {
	buf       []byte
	pos       int
	isExternal bool
	entity    *dtdmodel.GeneralEntity // nil for the document entity
	line      int
	column    int

	// sawAnyToken is set after this frame's first scanned token, used to
	// detect a misplaced XML/text declaration (legal only as the very
	// first token of an entity).
	sawAnyToken bool
}

// pushEntityFrame opens name's replacement text as a new input frame,
// marking the entity Open for recursion detection. The caller is
// responsible for popping it via popEntityFrame once the frame is
// exhausted (content.go's drive loop does this via defer-like bookkeeping
// around each frame, matching spec.md §5's "scoped acquisition with
// guaranteed release").
func (p *Parser) pushEntityFrame(e *dtdmodel.GeneralEntity) error {
	if e.Open {
		return p.fail(ErrRecursiveEntityRef)
	}
	if e.IsUnparsed() {
		return p.fail(ErrBinaryEntityRef)
	}
	e.Open = true
	p.accounting.AddIndirect(len(e.Value))
	if err := p.checkAmplification(); err != nil {
		e.Open = false
		return err
	}
	p.frames = append(p.frames, &inputFrame{
		buf:    []byte(e.Value),
		entity: e,
		line:   p.line,
		column: p.column,
	})
	return nil
}

// popEntityFrame closes the innermost frame, clearing its entity's Open
// flag (if any) and restoring the line/column basis it recorded, matching
// the source's per-frame line/col snapshot-and-restore.
func (p *Parser) popEntityFrame() {
	n := len(p.frames)
	if n == 0 {
		return
	}
	f := p.frames[n-1]
	p.frames = p.frames[:n-1]
	if f.entity != nil {
		f.entity.Open = false
	}
	p.line, p.column = f.line, f.column
}

// currentFrame returns the innermost active input frame.
func (p *Parser) currentFrame() *inputFrame {
	return p.frames[len(p.frames)-1]
}

// resolveGeneralEntityRef looks up name for a content-level &name;
// reference, applying the well-formedness rules of spec.md §4.4: undefined
// unless an external subset (or parameter entities) could plausibly have
// declared it, recursive, or binary (unparsed, NDATA) references are
// rejected before any frame is pushed.
func (p *Parser) resolveGeneralEntityRef(name string) (*dtdmodel.GeneralEntity, error) {
	e := p.dtd.DTD().GeneralEntity(name)
	if e == nil {
		if p.standalone || !p.hadExternalMarkup {
			return nil, p.fail(ErrUndefinedEntity)
		}
		if p.handlers.skippedEntity != nil {
			p.handlers.skippedEntity(name, false)
		}
		return nil, nil
	}
	if e.Open {
		return nil, p.fail(ErrRecursiveEntityRef)
	}
	if e.IsUnparsed() {
		return nil, p.fail(ErrBinaryEntityRef)
	}
	return e, nil
}

// predefinedEntityValue returns the replacement character for one of the
// five predefined entities recognized even without any DTD, or ok=false if
// name isn't one of them.
func predefinedEntityValue(name string) (r rune, ok bool) {
	switch name {
	case "amp":
		return '&', true
	case "lt":
		return '<', true
	case "gt":
		return '>', true
	case "apos":
		return '\'', true
	case "quot":
		return '"', true
	}
	return 0, false
}

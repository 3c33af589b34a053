package xmlcore

import (
	"strings"

	"github.com/r2xml/xmlcore/internal/dtdmodel"
	"github.com/r2xml/xmlcore/internal/xmlrole"
	"github.com/r2xml/xmlcore/internal/xmltok"
)

// dtdKind identifies which declaration the driver is currently assembling
// from a run of tokens, since a single <!ENTITY ...>/<!ATTLIST ...>/etc.
// arrives as many scanner tokens before its closing DECL_CLOSE.
type dtdKind int

const (
	dtdKindNone dtdKind = iota
	dtdKindEntity
	dtdKindNotation
	dtdKindAttlist
	dtdKindElement
)

// pendingEntity accumulates one <!ENTITY> declaration across tokens.
type pendingEntity struct {
	name     string
	isParam  bool
	literals []string // [value], or [publicID, systemID] with publicID "" for SYSTEM
	ndata    string
}

// pendingAttr accumulates one <!ATTLIST> attribute definition.
type pendingAttr struct {
	elementName string
	attrName    string
	typ         dtdmodel.AttrType
	enum        []string
	def         dtdmodel.DefaultKind
	defaultVal  string
}

// pendingElement accumulates one <!ELEMENT> declaration's content model.
type pendingElement struct {
	name    string
	mixed   bool
	groups  []*dtdmodel.ContentModel // stack of open groups
	root    *dtdmodel.ContentModel
}

// dtdDriver glues internal/xmlrole's token->role state machine to
// internal/dtdmodel's store, the way xmlcore/content.go glues
// internal/xmltok's token scanner to character-data/element events. It
// owns the role-machine State and whatever partial declaration is under
// construction.
type dtdDriver struct {
	state   xmlrole.State
	kind    dtdKind
	entity  pendingEntity
	notation dtdmodel.Notation
	attr    pendingAttr
	element pendingElement

	// awaitingKeyword is set the instant a DECL_OPEN token ("<!" or "<![")
	// is seen: the scanner doesn't look ahead far enough to know whether
	// what follows is DOCTYPE/ENTITY/ATTLIST/ELEMENT/NOTATION/INCLUDE/
	// IGNORE, so the next NAME token is consumed here as that keyword
	// rather than fed through the role machine, and used to pick the
	// sub-machine state to resume in.
	awaitingKeyword bool

	// startDoctypeFired latches once startDoctype has fired for the current
	// DOCTYPE, since RoleDoctypeInternalSubset recurs for every token seen
	// while inside the internal subset, not just the one that opens it.
	startDoctypeFired bool
}

func newDTDDriver() *dtdDriver {
	return &dtdDriver{state: xmlrole.StateProlog0}
}

// stepDTD feeds one scanned token (plus its decoded text, when the token
// carries text the role machine's caller needs to remember — names and
// literals) through the role machine and applies whatever declaration-
// building side effect the resulting role implies.
func (p *Parser) stepDTD(tok xmltok.Token, text string) error {
	d := p.dtdDrv

	if tok == xmltok.TokDeclOpen {
		d.awaitingKeyword = true
		return nil
	}
	if d.awaitingKeyword {
		d.awaitingKeyword = false
		if tok != xmltok.TokName {
			return p.fail(ErrSyntax)
		}
		switch text {
		case "DOCTYPE":
			d.state = xmlrole.StateDoctype0
		case "ENTITY":
			d.state = xmlrole.StateEntity0
		case "ATTLIST":
			d.state = xmlrole.StateAttlist0
		case "ELEMENT":
			d.state = xmlrole.StateElement0
		case "NOTATION":
			d.state = xmlrole.StateNotation0
		case "INCLUDE":
			d.state = xmlrole.StateDoctypeInternalSubset
		case "IGNORE":
			d.state = xmlrole.StateIgnoreSect
		default:
			return p.fail(ErrSyntax)
		}
		return nil
	}

	// #FIXED takes a following literal default value; #REQUIRED/#IMPLIED
	// do not, and return straight to StateAttlist1. Same text-dependent
	// fork as SYSTEM/PUBLIC below.
	if tok == xmltok.TokPoundName && d.state == xmlrole.StateAttlistDefault {
		d.attr.def = defaultKindFromPound(text)
		if text == "#FIXED" {
			d.state = xmlrole.StateAttlistFixedValue
		} else {
			d.state = xmlrole.StateAttlist1
			p.commitAttr(d)
		}
		return nil
	}

	// SYSTEM vs PUBLIC: the role machine's states only see a NAME token,
	// not its text, but the two keywords demand different sub-states (one
	// literal to collect vs. two). Disambiguate here before delegating.
	if tok == xmltok.TokName && (text == "SYSTEM" || text == "PUBLIC") {
		switch d.state {
		case xmlrole.StateDoctype1:
			if text == "PUBLIC" {
				d.state = xmlrole.StateDoctypePublicID1
			} else {
				d.state = xmlrole.StateDoctypeSystemID
			}
			return nil
		case xmlrole.StateEntity2:
			if text == "PUBLIC" {
				d.state = xmlrole.StateEntityPublicID1
			} else {
				d.state = xmlrole.StateEntitySystemID
			}
			return nil
		case xmlrole.StateNotation1:
			if text == "PUBLIC" {
				d.state = xmlrole.StateNotationPublicID1
			} else {
				d.state = xmlrole.StateNotationSystemID
			}
			return nil
		}
	}

	result := xmlrole.Handle(d.state, tok)
	d.state = result.State
	if result.Role == xmlrole.RoleError {
		return p.fail(ErrSyntax)
	}

	// The '[' that opens the internal subset fires startDoctype, before any
	// of the subset's declarations are committed.
	if d.state == xmlrole.StateDoctypeInternalSubset && !d.startDoctypeFired {
		d.startDoctypeFired = true
		p.docTypeHasInternalSubset = true
		if p.handlers.startDoctype != nil {
			p.handlers.startDoctype(p.docTypeName, p.docTypeSystemID, p.docTypePublicID, true)
		}
	}

	switch result.Role {
	case xmlrole.RoleDoctypeName:
		if d.kind == dtdKindNone && p.docTypeName == "" {
			p.docTypeName = text
		}
	case xmlrole.RoleDoctypeSystemID:
		p.docTypeSystemID = text
		p.hadExternalMarkup = true
		if err := p.checkStandalone(); err != nil {
			return err
		}
	case xmlrole.RoleDoctypePublicID:
		p.docTypePublicID = text
		p.hadExternalMarkup = true
		if err := p.checkStandalone(); err != nil {
			return err
		}
	case xmlrole.RoleDoctypeClose:
		p.hadDoctype = true
		// Entering the internal subset already fired startDoctype when the
		// declaration has one; this is the only close
		// for a subset-less DOCTYPE, so start fires here instead.
		if !d.startDoctypeFired {
			d.startDoctypeFired = true
			if p.handlers.startDoctype != nil {
				p.handlers.startDoctype(p.docTypeName, p.docTypeSystemID, p.docTypePublicID, p.docTypeHasInternalSubset)
			}
		}
		if p.handlers.endDoctype != nil {
			p.handlers.endDoctype()
		}
	case xmlrole.RoleDoctypeInternalSubset:
		// Fires once per token scanned inside the internal subset (not just
		// the one that opens it), so startDoctype is guarded separately.
		if !d.startDoctypeFired {
			d.startDoctypeFired = true
			p.docTypeHasInternalSubset = true
			if p.handlers.startDoctype != nil {
				p.handlers.startDoctype(p.docTypeName, p.docTypeSystemID, p.docTypePublicID, true)
			}
		}

	case xmlrole.RoleGeneralEntityName:
		d.kind = dtdKindEntity
		d.entity = pendingEntity{name: text}
	case xmlrole.RoleParamEntityName:
		d.kind = dtdKindEntity
		d.entity = pendingEntity{name: text, isParam: true}
	case xmlrole.RoleEntityValue:
		d.entity.literals = append(d.entity.literals, text)
	case xmlrole.RoleEntitySystemID:
		if len(d.entity.literals) == 0 {
			// SYSTEM form: no public identifier precedes the system one.
			d.entity.literals = append(d.entity.literals, "")
		}
		d.entity.literals = append(d.entity.literals, text)
	case xmlrole.RoleEntityPublicID:
		d.entity.literals = append(d.entity.literals, text)
	case xmlrole.RoleEntityNotationName:
		d.entity.ndata = text
	case xmlrole.RoleEntityComplete:
		p.commitEntity(d)
		d.kind = dtdKindNone

	case xmlrole.RoleNotationName:
		d.kind = dtdKindNotation
		d.notation = dtdmodel.Notation{Name: text}
	case xmlrole.RoleNotationSystemID:
		d.notation.SystemID = text
		p.commitNotation(d)
		d.kind = dtdKindNone
	case xmlrole.RoleNotationPublicID:
		d.notation.PublicID = text
	case xmlrole.RoleNotationNone:
		p.commitNotation(d)
		d.kind = dtdKindNone

	case xmlrole.RoleAttlistElementName:
		d.kind = dtdKindAttlist
		d.attr = pendingAttr{elementName: text}
	case xmlrole.RoleAttributeName:
		d.attr.attrName = text
	case xmlrole.RoleAttributeTypeCDATA:
		d.attr.typ = attrTypeFromName(text)
	case xmlrole.RoleAttributeEnumValue:
		d.attr.enum = append(d.attr.enum, text)
		if d.attr.typ == 0 && len(d.attr.enum) > 0 {
			d.attr.typ = dtdmodel.AttrEnumeration
		}
	case xmlrole.RoleAttributeDefaultValue:
		norm, err := p.normalizeDefaultAttrText(text, d.attr.typ != dtdmodel.AttrCDATA)
		if err != nil {
			return err
		}
		d.attr.defaultVal = norm
		if d.attr.def == dtdmodel.DefaultImplied && text != "" {
			d.attr.def = dtdmodel.DefaultValue
		}
		p.commitAttr(d)
	case xmlrole.RoleAttlistNone:
		d.kind = dtdKindNone

	case xmlrole.RoleElementName:
		d.kind = dtdKindElement
		d.element = pendingElement{name: text}
	case xmlrole.RoleContentAny:
		d.element.root = contentLeaf(text)
		p.commitElement(d)
		d.kind = dtdKindNone
	case xmlrole.RoleContentPCDATA:
		d.element.mixed = true
		if d.element.root == nil {
			d.element.root = &dtdmodel.ContentModel{Type: dtdmodel.ContentMixed}
		}
	case xmlrole.RoleContentElementName:
		p.appendContentChild(d, text)
	case xmlrole.RoleGroupOpen:
		d.element.groups = append(d.element.groups, &dtdmodel.ContentModel{Type: dtdmodel.ContentSeq})
	case xmlrole.RoleGroupChoice:
		if n := len(d.element.groups); n > 0 {
			d.element.groups[n-1].Type = dtdmodel.ContentChoice
		}
	case xmlrole.RoleGroupSequence:
		if n := len(d.element.groups); n > 0 {
			d.element.groups[n-1].Type = dtdmodel.ContentSeq
		}
	case xmlrole.RoleGroupClose:
		p.closeContentGroup(d, tok)
		if len(d.element.groups) == 0 && d.kind == dtdKindElement {
			p.commitElement(d)
			d.kind = dtdKindNone
		}
	}
	return nil
}

// checkStandalone consults the not-standalone handler the moment external
// markup turns out to have been read despite a standalone="yes" declaration,
// per spec.md §4.4; returning false from the handler raises NOT_STANDALONE.
func (p *Parser) checkStandalone() error {
	if !p.standalone || p.handlers.notStandalone == nil {
		return nil
	}
	if !p.handlers.notStandalone() {
		return p.fail(ErrNotStandalone)
	}
	return nil
}

func attrTypeFromName(name string) dtdmodel.AttrType {
	switch name {
	case "ID":
		return dtdmodel.AttrID
	case "IDREF":
		return dtdmodel.AttrIDRef
	case "IDREFS":
		return dtdmodel.AttrIDRefs
	case "ENTITY":
		return dtdmodel.AttrEntity
	case "ENTITIES":
		return dtdmodel.AttrEntities
	case "NMTOKEN":
		return dtdmodel.AttrNmtoken
	case "NMTOKENS":
		return dtdmodel.AttrNmtokens
	case "NOTATION":
		return dtdmodel.AttrNotation
	default:
		return dtdmodel.AttrCDATA
	}
}

func defaultKindFromPound(name string) dtdmodel.DefaultKind {
	switch strings.ToUpper(name) {
	case "#REQUIRED":
		return dtdmodel.DefaultRequired
	case "#FIXED":
		return dtdmodel.DefaultFixed
	default:
		return dtdmodel.DefaultImplied
	}
}

func contentLeaf(name string) *dtdmodel.ContentModel {
	if name == "ANY" {
		return &dtdmodel.ContentModel{Type: dtdmodel.ContentAny}
	}
	return &dtdmodel.ContentModel{Type: dtdmodel.ContentEmpty}
}

func (p *Parser) appendContentChild(d *dtdDriver, name string) {
	child := &dtdmodel.ContentModel{Type: dtdmodel.ContentName, Name: name}
	if d.element.mixed {
		d.element.root.Children = append(d.element.root.Children, child)
		return
	}
	if n := len(d.element.groups); n > 0 {
		d.element.groups[n-1].Children = append(d.element.groups[n-1].Children, child)
		return
	}
	d.element.root = child
}

func (p *Parser) closeContentGroup(d *dtdDriver, tok xmltok.Token) {
	n := len(d.element.groups)
	if n == 0 {
		return
	}
	g := d.element.groups[n-1]
	d.element.groups = d.element.groups[:n-1]
	switch tok {
	case xmltok.TokCloseParenAsterisk:
		g.Quant = dtdmodel.QuantRep
	case xmltok.TokCloseParenPlus:
		g.Quant = dtdmodel.QuantPlus
	case xmltok.TokCloseParenQuestion:
		g.Quant = dtdmodel.QuantOpt
	}
	if n == 1 {
		d.element.root = g
		return
	}
	parent := d.element.groups[n-2]
	parent.Children = append(parent.Children, g)
}

func (p *Parser) commitEntity(d *dtdDriver) {
	e := d.entity
	if d.kind != dtdKindEntity {
		return
	}
	if e.isParam {
		pe := &dtdmodel.ParamEntity{Name: e.name}
		if len(e.literals) == 1 {
			pe.Value = e.literals[0]
		} else if len(e.literals) >= 2 {
			pe.PublicID, pe.SystemID = e.literals[0], e.literals[1]
		}
		p.dtd.DTD().DefineParamEntity(pe)
		return
	}
	ge := &dtdmodel.GeneralEntity{Name: e.name, Notation: e.ndata}
	if len(e.literals) == 1 {
		ge.Value = e.literals[0]
	} else if len(e.literals) >= 2 {
		ge.PublicID, ge.SystemID = e.literals[0], e.literals[1]
	}
	if defined := p.dtd.DTD().DefineGeneralEntity(ge); defined && p.handlers.entityDecl != nil {
		p.handlers.entityDecl(ge)
	}
}

func (p *Parser) commitNotation(d *dtdDriver) {
	n := d.notation
	if defined := p.dtd.DTD().DefineNotation(&n); defined && p.handlers.notationDecl != nil {
		p.handlers.notationDecl(&n)
	}
}

func (p *Parser) commitAttr(d *dtdDriver) {
	a := d.attr
	et := p.dtd.DTD().ElementType(a.elementName)
	if et.Attribute(a.attrName) != nil {
		// first declaration wins, XML 1.0 §3.3.
		d.attr = pendingAttr{elementName: a.elementName}
		return
	}
	decl := &dtdmodel.AttributeDecl{
		Name:         a.attrName,
		Type:         a.typ,
		Enumeration:  a.enum,
		Default:      a.def,
		DefaultValue: a.defaultVal,
		IsCDATA:      a.typ == dtdmodel.AttrCDATA,
	}
	et.Attributes = append(et.Attributes, decl)
	if a.typ == dtdmodel.AttrID {
		et.IDAttribute = a.attrName
	}
	if p.handlers.attlistDecl != nil {
		p.handlers.attlistDecl(a.elementName, decl)
	}
	d.attr = pendingAttr{elementName: a.elementName}
}

func (p *Parser) commitElement(d *dtdDriver) {
	et := p.dtd.DTD().ElementType(d.element.name)
	et.Content = d.element.root
	if p.handlers.elementDecl != nil {
		p.handlers.elementDecl(d.element.name, d.element.root)
	}
}

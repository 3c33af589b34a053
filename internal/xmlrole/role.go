// Package xmlrole implements the prolog/DTD state machine from
// SPEC_FULL.md §4.2: a pushdown of states, each a Go function taking the
// next token and returning a Role plus the next State, replacing the
// source's function-pointer-as-state idiom with a tagged enum dispatched
// through a switch (SPEC_FULL.md §9 DESIGN NOTES).
package xmlrole

import "github.com/r2xml/xmlcore/internal/xmltok"

// Role is the semantic category the state machine assigns to one token.
type Role int

const (
	RoleNone Role = iota
	RoleError
	RoleXMLDecl
	RoleInstanceStart // first token of the document element: prolog is over
	RoleDoctypeName
	RoleDoctypeSystemID
	RoleDoctypePublicID
	RoleDoctypeInternalSubset
	RoleDoctypeClose
	RoleEntityNone
	RoleGeneralEntityName
	RoleParamEntityName
	RoleEntityValue
	RoleEntitySystemID
	RoleEntityPublicID
	RoleEntityNotationName
	RoleEntityComplete
	RoleNotationName
	RoleNotationSystemID
	RoleNotationPublicID
	RoleNotationNone
	RoleAttlistElementName
	RoleAttributeName
	RoleAttributeTypeCDATA
	RoleAttributeTypeID
	RoleAttributeTypeIDRef
	RoleAttributeTypeIDRefs
	RoleAttributeTypeEntity
	RoleAttributeTypeEntities
	RoleAttributeTypeNmtoken
	RoleAttributeTypeNmtokens
	RoleAttributeTypeNotation
	RoleAttributeEnumValue
	RoleAttributeNotationValue
	RoleAttributeDefaultRequired
	RoleAttributeDefaultImplied
	RoleAttributeDefaultFixed
	RoleAttributeDefaultValue
	RoleAttlistNone
	RoleElementName
	RoleContentAny
	RoleContentEmpty
	RoleContentPCDATA
	RoleContentElementName
	RoleGroupOpen
	RoleGroupClose
	RoleGroupChoice
	RoleGroupSequence
	RoleElementNone
	RoleParamEntityRef
	RolePI
	RoleComment
	RoleIgnoreSectNone
	RoleDeclClose
)

// State identifies the current position within the prolog/DTD pushdown.
// Each State's Handle method is the equivalent of one of the source's
// function pointers.
type State int

const (
	StateProlog0 State = iota
	StateProlog1
	StateDoctype0
	StateDoctype1 // after DOCTYPE name: expect SYSTEM/PUBLIC/[ / >
	StateDoctypeSystemID
	StateDoctypePublicID1 // after PUBLIC: expect pubid literal
	StateDoctypePublicID2 // after pubid literal: expect system literal
	StateDoctypeInternalSubset
	StateDoctypeClose // after ']': expect '>'
	StateEntity0      // after "<!ENTITY": expect '%' or NAME
	StateEntity1      // after '%' in param entity decl: expect NAME
	StateEntity2      // after NAME: expect literal or SYSTEM/PUBLIC
	StateEntityValue
	StateEntitySystemID
	StateEntityPublicID1
	StateEntityPublicID2 // after pubid literal in external entity: expect system literal
	StateEntityAfterSystemID // after external id: expect NDATA or '>'
	StateEntityNData
	StateEntityNDataName
	StateNotation0 // after "<!NOTATION": expect NAME
	StateNotation1 // after NAME: expect SYSTEM/PUBLIC
	StateNotationSystemID
	StateNotationPublicID1
	StateNotationPublicID2
	StateAttlist0 // after "<!ATTLIST": expect element NAME
	StateAttlist1 // after element NAME: expect attribute NAME or '>'
	StateAttlistType // after attribute NAME: expect type
	StateAttlistEnumOpen
	StateAttlistEnumValue
	StateAttlistEnumNext // after a value: expect '|' or ')'
	StateAttlistDefault  // expect #REQUIRED/#IMPLIED/#FIXED/literal
	StateAttlistFixedValue
	StateElement0 // after "<!ELEMENT": expect NAME
	StateElement1 // after NAME: expect EMPTY/ANY/'('
	StateElementMixed0 // after '(' + '#PCDATA': expect ')' or '|'
	StateElementMixedNext
	StateElementChildren0 // inside a children content-model group
	StateElementChildrenNext
	StateIgnoreSect
	StateError
)

// Result is what Handle returns: the role assigned to the input token, and
// the state to use for the next one. A Role of RoleError means the token is
// not legal here; the caller surfaces this as SYNTAX (or a more specific
// code it can derive from State, e.g. UNCLOSED_TOKEN at EOF).
type Result struct {
	Role  Role
	State State
}

// Handle advances the state machine by one token, mirroring expat's
// per-state handler functions (doProlog/doctype/entity/notation/attlist/
// element handlers in xmlrole.c) but dispatched through a switch rather
// than an array of function pointers.
func Handle(s State, tok xmltok.Token) Result {
	switch s {
	case StateProlog0:
		return prolog0(tok)
	case StateProlog1:
		return prolog1(tok)
	case StateDoctype0:
		return doctype0(tok)
	case StateDoctype1:
		return doctype1(tok)
	case StateDoctypeSystemID:
		return doctypeSystemID(tok)
	case StateDoctypePublicID1:
		return doctypePublicID1(tok)
	case StateDoctypePublicID2:
		return doctypePublicID2(tok)
	case StateDoctypeInternalSubset:
		return doctypeInternalSubset(tok)
	case StateDoctypeClose:
		return doctypeClose(tok)
	case StateEntity0:
		return entity0(tok)
	case StateEntity1:
		return entity1(tok)
	case StateEntity2:
		return entity2(tok)
	case StateEntityValue:
		return entityValue(tok)
	case StateEntitySystemID:
		return entitySystemID(tok)
	case StateEntityPublicID1:
		return entityPublicID1(tok)
	case StateEntityPublicID2:
		return entityPublicID2(tok)
	case StateEntityAfterSystemID:
		return entityAfterSystemID(tok)
	case StateEntityNData:
		return entityNData(tok)
	case StateEntityNDataName:
		return entityNDataName(tok)
	case StateNotation0:
		return notation0(tok)
	case StateNotation1:
		return notation1(tok)
	case StateNotationSystemID:
		return notationSystemID(tok)
	case StateNotationPublicID1:
		return notationPublicID1(tok)
	case StateNotationPublicID2:
		return notationPublicID2(tok)
	case StateAttlist0:
		return attlist0(tok)
	case StateAttlist1:
		return attlist1(tok)
	case StateAttlistType:
		return attlistType(tok)
	case StateAttlistEnumOpen:
		return attlistEnumOpen(tok)
	case StateAttlistEnumValue:
		return attlistEnumValue(tok)
	case StateAttlistEnumNext:
		return attlistEnumNext(tok)
	case StateAttlistDefault:
		return attlistDefault(tok)
	case StateAttlistFixedValue:
		return attlistFixedValue(tok)
	case StateElement0:
		return element0(tok)
	case StateElement1:
		return element1(tok)
	case StateElementMixed0:
		return elementMixed0(tok)
	case StateElementMixedNext:
		return elementMixedNext(tok)
	case StateElementChildren0:
		return elementChildren0(tok)
	case StateElementChildrenNext:
		return elementChildrenNext(tok)
	case StateIgnoreSect:
		return ignoreSect(tok)
	default:
		return Result{RoleError, StateError}
	}
}

func err() Result { return Result{RoleError, StateError} }

// ---- top-level prolog ----------------------------------------------------

func prolog0(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokXMLDecl:
		return Result{RoleXMLDecl, StateProlog1}
	case xmltok.TokPrologS:
		return Result{RoleNone, StateProlog0}
	case xmltok.TokPI:
		return Result{RolePI, StateProlog1}
	case xmltok.TokComment:
		return Result{RoleComment, StateProlog1}
	case xmltok.TokDeclOpen:
		return Result{RoleDoctypeName, StateDoctype0}
	case xmltok.TokStartTagNoAtts, xmltok.TokStartTagWithAtts,
		xmltok.TokEmptyElementNoAtts, xmltok.TokEmptyElementWithAtts:
		return Result{RoleInstanceStart, StateProlog0}
	}
	return err()
}

func prolog1(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokPrologS:
		return Result{RoleNone, StateProlog1}
	case xmltok.TokPI:
		return Result{RolePI, StateProlog1}
	case xmltok.TokComment:
		return Result{RoleComment, StateProlog1}
	case xmltok.TokDeclOpen:
		return Result{RoleDoctypeName, StateDoctype0}
	case xmltok.TokStartTagNoAtts, xmltok.TokStartTagWithAtts,
		xmltok.TokEmptyElementNoAtts, xmltok.TokEmptyElementWithAtts:
		return Result{RoleInstanceStart, StateProlog1}
	}
	return err()
}

// ---- <!DOCTYPE ... -------------------------------------------------------

func doctype0(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokPrologS:
		return Result{RoleNone, StateDoctype0}
	case xmltok.TokName:
		return Result{RoleDoctypeName, StateDoctype1}
	}
	return err()
}

func doctype1(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokPrologS:
		return Result{RoleNone, StateDoctype1}
	case xmltok.TokName: // SYSTEM or PUBLIC, matched by literal text upstream
		return Result{RoleNone, StateDoctypeSystemID}
	case xmltok.TokOpenBracket:
		return Result{RoleNone, StateDoctypeInternalSubset}
	case xmltok.TokDeclClose:
		return Result{RoleDoctypeClose, StateProlog1}
	}
	return err()
}

func doctypeSystemID(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokPrologS:
		return Result{RoleNone, StateDoctypeSystemID}
	case xmltok.TokLiteral:
		return Result{RoleDoctypeSystemID, StateDoctypePublicID2}
	}
	return err()
}

func doctypePublicID1(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokPrologS:
		return Result{RoleNone, StateDoctypePublicID1}
	case xmltok.TokLiteral:
		return Result{RoleDoctypePublicID, StateDoctypePublicID2}
	}
	return err()
}

func doctypePublicID2(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokPrologS:
		return Result{RoleNone, StateDoctypePublicID2}
	case xmltok.TokLiteral:
		return Result{RoleDoctypeSystemID, StateDoctype1}
	case xmltok.TokOpenBracket:
		return Result{RoleNone, StateDoctypeInternalSubset}
	case xmltok.TokDeclClose:
		return Result{RoleDoctypeClose, StateProlog1}
	}
	return err()
}

func doctypeInternalSubset(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokCloseBracket:
		return Result{RoleNone, StateDoctypeClose}
	}
	// every declaration-open / PE ref / PI / comment / whitespace inside
	// the internal subset is handled by the DTD driver dispatching into
	// the relevant sub-machine (Entity/Attlist/Element/Notation) before
	// control returns here; Handle itself only recognizes the subset's end.
	return Result{RoleDoctypeInternalSubset, StateDoctypeInternalSubset}
}

func doctypeClose(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokPrologS:
		return Result{RoleNone, StateDoctypeClose}
	case xmltok.TokDeclClose:
		return Result{RoleDoctypeClose, StateProlog1}
	}
	return err()
}

// ---- <!ENTITY ... ---------------------------------------------------------

func entity0(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokPrologS:
		return Result{RoleNone, StateEntity0}
	case xmltok.TokPercent:
		return Result{RoleNone, StateEntity1}
	case xmltok.TokName:
		return Result{RoleGeneralEntityName, StateEntity2}
	}
	return err()
}

func entity1(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokPrologS:
		return Result{RoleNone, StateEntity1}
	case xmltok.TokName:
		return Result{RoleParamEntityName, StateEntity2}
	}
	return err()
}

func entity2(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokPrologS:
		return Result{RoleNone, StateEntity2}
	case xmltok.TokLiteral:
		return Result{RoleEntityValue, StateEntityAfterSystemID}
	case xmltok.TokName: // SYSTEM or PUBLIC
		return Result{RoleNone, StateEntitySystemID}
	}
	return err()
}

func entityValue(tok xmltok.Token) Result {
	return Result{RoleEntityValue, StateEntityAfterSystemID}
}

func entitySystemID(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokPrologS:
		return Result{RoleNone, StateEntitySystemID}
	case xmltok.TokLiteral:
		return Result{RoleEntitySystemID, StateEntityAfterSystemID}
	}
	return err()
}

func entityPublicID1(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokPrologS:
		return Result{RoleNone, StateEntityPublicID1}
	case xmltok.TokLiteral:
		return Result{RoleEntityPublicID, StateEntityPublicID2}
	}
	return err()
}

func entityPublicID2(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokPrologS:
		return Result{RoleNone, StateEntityPublicID2}
	case xmltok.TokLiteral:
		return Result{RoleEntitySystemID, StateEntityAfterSystemID}
	}
	return err()
}

func entityAfterSystemID(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokPrologS:
		return Result{RoleNone, StateEntityAfterSystemID}
	case xmltok.TokName: // NDATA
		return Result{RoleNone, StateEntityNData}
	case xmltok.TokDeclClose:
		return Result{RoleEntityComplete, StateDoctypeInternalSubset}
	}
	return err()
}

func entityNData(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokPrologS:
		return Result{RoleNone, StateEntityNData}
	case xmltok.TokName:
		return Result{RoleEntityNotationName, StateEntityNDataName}
	}
	return err()
}

func entityNDataName(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokPrologS:
		return Result{RoleNone, StateEntityNDataName}
	case xmltok.TokDeclClose:
		return Result{RoleEntityComplete, StateDoctypeInternalSubset}
	}
	return err()
}

// ---- <!NOTATION ... --------------------------------------------------------

func notation0(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokPrologS:
		return Result{RoleNone, StateNotation0}
	case xmltok.TokName:
		return Result{RoleNotationName, StateNotation1}
	}
	return err()
}

func notation1(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokPrologS:
		return Result{RoleNone, StateNotation1}
	case xmltok.TokName: // SYSTEM or PUBLIC
		return Result{RoleNone, StateNotationSystemID}
	}
	return err()
}

func notationSystemID(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokPrologS:
		return Result{RoleNone, StateNotationSystemID}
	case xmltok.TokLiteral:
		return Result{RoleNotationSystemID, StateDoctypeClose}
	case xmltok.TokDeclClose:
		return Result{RoleNotationNone, StateDoctypeInternalSubset}
	}
	return err()
}

func notationPublicID1(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokPrologS:
		return Result{RoleNone, StateNotationPublicID1}
	case xmltok.TokLiteral:
		return Result{RoleNotationPublicID, StateNotationPublicID2}
	}
	return err()
}

func notationPublicID2(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokPrologS:
		return Result{RoleNone, StateNotationPublicID2}
	case xmltok.TokLiteral:
		return Result{RoleNotationSystemID, StateDoctypeInternalSubset}
	case xmltok.TokDeclClose:
		return Result{RoleNotationNone, StateDoctypeInternalSubset}
	}
	return err()
}

// ---- <!ATTLIST ... ----------------------------------------------------------

func attlist0(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokPrologS:
		return Result{RoleNone, StateAttlist0}
	case xmltok.TokName:
		return Result{RoleAttlistElementName, StateAttlist1}
	}
	return err()
}

func attlist1(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokPrologS:
		return Result{RoleNone, StateAttlist1}
	case xmltok.TokName:
		return Result{RoleAttributeName, StateAttlistType}
	case xmltok.TokDeclClose:
		return Result{RoleAttlistNone, StateDoctypeInternalSubset}
	}
	return err()
}

func attlistType(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokPrologS:
		return Result{RoleNone, StateAttlistType}
	case xmltok.TokName: // CDATA/ID/IDREF/IDREFS/ENTITY/ENTITIES/NMTOKEN/NMTOKENS/NOTATION,
		// the concrete role is derived from the literal name by the DTD
		// driver, which already has the interned bytes in hand; the state
		// machine only needs to know "a type token was seen".
		return Result{RoleAttributeTypeCDATA, StateAttlistDefault}
	case xmltok.TokOpenParen:
		return Result{RoleNone, StateAttlistEnumOpen}
	}
	return err()
}

func attlistEnumOpen(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokPrologS:
		return Result{RoleNone, StateAttlistEnumOpen}
	case xmltok.TokName, xmltok.TokNmtoken:
		return Result{RoleAttributeEnumValue, StateAttlistEnumNext}
	}
	return err()
}

func attlistEnumValue(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokPrologS:
		return Result{RoleNone, StateAttlistEnumValue}
	case xmltok.TokName, xmltok.TokNmtoken:
		return Result{RoleAttributeEnumValue, StateAttlistEnumNext}
	}
	return err()
}

func attlistEnumNext(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokPrologS:
		return Result{RoleNone, StateAttlistEnumNext}
	case xmltok.TokOr:
		return Result{RoleNone, StateAttlistEnumValue}
	case xmltok.TokCloseParen:
		return Result{RoleNone, StateAttlistDefault}
	}
	return err()
}

func attlistDefault(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokPrologS:
		return Result{RoleNone, StateAttlistDefault}
	case xmltok.TokPoundName: // #REQUIRED / #IMPLIED / #FIXED, disambiguated by the driver
		return Result{RoleAttributeDefaultRequired, StateAttlist1}
	case xmltok.TokLiteral:
		return Result{RoleAttributeDefaultValue, StateAttlist1}
	}
	return err()
}

func attlistFixedValue(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokPrologS:
		return Result{RoleNone, StateAttlistFixedValue}
	case xmltok.TokLiteral:
		return Result{RoleAttributeDefaultValue, StateAttlist1}
	}
	return err()
}

// ---- <!ELEMENT ... -----------------------------------------------------------

func element0(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokPrologS:
		return Result{RoleNone, StateElement0}
	case xmltok.TokName:
		return Result{RoleElementName, StateElement1}
	}
	return err()
}

func element1(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokPrologS:
		return Result{RoleNone, StateElement1}
	case xmltok.TokName: // EMPTY or ANY, disambiguated by the driver
		return Result{RoleContentAny, StateDoctypeClose}
	case xmltok.TokOpenParen:
		return Result{RoleNone, StateElementChildren0}
	}
	return err()
}

func elementMixed0(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokCloseParen:
		return Result{RoleContentPCDATA, StateDoctypeClose}
	case xmltok.TokCloseParenAsterisk:
		return Result{RoleContentPCDATA, StateDoctypeClose}
	case xmltok.TokOr:
		return Result{RoleNone, StateElementMixedNext}
	}
	return err()
}

func elementMixedNext(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokName:
		return Result{RoleContentElementName, StateElementMixed0}
	}
	return err()
}

func elementChildren0(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokPrologS:
		return Result{RoleNone, StateElementChildren0}
	case xmltok.TokPoundName: // #PCDATA
		return Result{RoleContentPCDATA, StateElementMixed0}
	case xmltok.TokName:
		return Result{RoleContentElementName, StateElementChildrenNext}
	case xmltok.TokOpenParen:
		return Result{RoleGroupOpen, StateElementChildren0}
	}
	return err()
}

func elementChildrenNext(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokCloseParen, xmltok.TokCloseParenAsterisk,
		xmltok.TokCloseParenQuestion, xmltok.TokCloseParenPlus:
		return Result{RoleGroupClose, StateDoctypeClose}
	case xmltok.TokComma:
		return Result{RoleGroupSequence, StateElementChildren0}
	case xmltok.TokOr:
		return Result{RoleGroupChoice, StateElementChildren0}
	}
	return err()
}

// ---- conditional sections (external subset only) ---------------------------

func ignoreSect(tok xmltok.Token) Result {
	switch tok {
	case xmltok.TokDeclClose:
		return Result{RoleIgnoreSectNone, StateDoctypeInternalSubset}
	}
	return err()
}

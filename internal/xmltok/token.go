// Package xmltok is the encoding-aware scanner: it turns a byte range plus a
// lexical state into one token plus the number of bytes consumed. It is the
// only part of the engine that looks at raw bytes; everything above it
// (internal/xmlrole, xmlcore/content.go) works in terms of Token values and
// decoded text.
package xmltok

// Token identifies the lexical category of one scanned unit. The set
// mirrors SPEC_FULL.md §4.1 exactly; values are not part of any wire format
// so their numeric order is free to differ from the spec's prose order.
type Token int

const (
	TokNone Token = iota
	TokPartial
	TokPartialChar
	TokInvalid
	TokXMLDecl
	TokPI
	TokComment
	TokBOM
	TokDataChars
	TokDataNewline
	TokCDATASectOpen
	TokCDATASectClose
	TokEntityRef
	TokCharRef
	TokStartTagNoAtts
	TokStartTagWithAtts
	TokEmptyElementNoAtts
	TokEmptyElementWithAtts
	TokEndTag
	TokName
	TokNmtoken
	TokPoundName
	TokLiteral
	TokOpenParen
	TokCloseParen
	TokCloseParenAsterisk
	TokCloseParenQuestion
	TokCloseParenPlus
	TokOr
	TokComma
	TokDeclOpen
	TokDeclClose
	TokOpenBracket
	TokCloseBracket
	TokPercent
	TokPrologS
	TokParamEntityRef
	TokEQ
)

// LexState selects which lexical grammar the scanner applies to the next
// token; see SPEC_FULL.md §4.1.
type LexState int

const (
	StateProlog LexState = iota
	StateContent
	StateCData
	StateIgnoreSection
	StateAttrValue
	StateEntityValue
	StateCommentOrPI // scanning the interior of <!-- … --> or <? … ?>
)

// String gives a human-readable name, used in error messages and tests.
func (t Token) String() string {
	switch t {
	case TokNone:
		return "NONE"
	case TokPartial:
		return "PARTIAL"
	case TokPartialChar:
		return "PARTIAL_CHAR"
	case TokInvalid:
		return "INVALID"
	case TokXMLDecl:
		return "XML_DECL"
	case TokPI:
		return "PI"
	case TokComment:
		return "COMMENT"
	case TokBOM:
		return "BOM"
	case TokDataChars:
		return "DATA_CHARS"
	case TokDataNewline:
		return "DATA_NEWLINE"
	case TokCDATASectOpen:
		return "CDATA_SECT_OPEN"
	case TokCDATASectClose:
		return "CDATA_SECT_CLOSE"
	case TokEntityRef:
		return "ENTITY_REF"
	case TokCharRef:
		return "CHAR_REF"
	case TokStartTagNoAtts:
		return "START_TAG_NO_ATTS"
	case TokStartTagWithAtts:
		return "START_TAG_WITH_ATTS"
	case TokEmptyElementNoAtts:
		return "EMPTY_ELEMENT_NO_ATTS"
	case TokEmptyElementWithAtts:
		return "EMPTY_ELEMENT_WITH_ATTS"
	case TokEndTag:
		return "END_TAG"
	case TokName:
		return "NAME"
	case TokNmtoken:
		return "NMTOKEN"
	case TokPoundName:
		return "POUND_NAME"
	case TokLiteral:
		return "LITERAL"
	case TokOpenParen:
		return "OPEN_PAREN"
	case TokCloseParen:
		return "CLOSE_PAREN"
	case TokCloseParenAsterisk:
		return "CLOSE_PAREN_ASTERISK"
	case TokCloseParenQuestion:
		return "CLOSE_PAREN_QUESTION"
	case TokCloseParenPlus:
		return "CLOSE_PAREN_PLUS"
	case TokOr:
		return "OR"
	case TokComma:
		return "COMMA"
	case TokDeclOpen:
		return "DECL_OPEN"
	case TokDeclClose:
		return "DECL_CLOSE"
	case TokOpenBracket:
		return "OPEN_BRACKET"
	case TokCloseBracket:
		return "CLOSE_BRACKET"
	case TokPercent:
		return "PERCENT"
	case TokPrologS:
		return "PROLOG_S"
	case TokParamEntityRef:
		return "PARAM_ENTITY_REF"
	case TokEQ:
		return "EQ"
	default:
		return "?"
	}
}

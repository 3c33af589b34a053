package xmlcore

import "fmt"

// ErrorCode enumerates every failure the parser can report, preserved
// verbatim from spec.md §6 so callers porting knowledge from other
// expat-family bindings find the same names.
type ErrorCode int

const (
	ErrNone ErrorCode = iota
	ErrNoMemory
	ErrSyntax
	ErrNoElements
	ErrInvalidToken
	ErrUnclosedToken
	ErrPartialChar
	ErrTagMismatch
	ErrDuplicateAttribute
	ErrJunkAfterDocElement
	ErrParamEntityRef
	ErrUndefinedEntity
	ErrRecursiveEntityRef
	ErrAsyncEntity
	ErrBadCharRef
	ErrBinaryEntityRef
	ErrAttributeExternalEntityRef
	ErrMisplacedXMLPI
	ErrUnknownEncoding
	ErrIncorrectEncoding
	ErrUnclosedCDATASection
	ErrExternalEntityHandling
	ErrNotStandalone
	ErrUnexpectedState
	ErrEntityDeclaredInPE
	ErrFeatureRequiresXMLDTD
	ErrCantChangeFeatureOnceParsing
	ErrUnboundPrefix
	ErrUndeclaringPrefix
	ErrIncompletePE
	ErrXMLDecl
	ErrTextDecl
	ErrPublicID
	ErrSuspended
	ErrNotSuspended
	ErrAborted
	ErrFinished
	ErrSuspendPE
	ErrReservedPrefixXML
	ErrReservedPrefixXMLNS
	ErrReservedNamespaceURI
	ErrInvalidArgument
	ErrNoBuffer
	ErrAmplificationLimitBreach
)

var errorText = map[ErrorCode]string{
	ErrNone:                         "no error",
	ErrNoMemory:                     "out of memory",
	ErrSyntax:                       "syntax error",
	ErrNoElements:                   "no element found",
	ErrInvalidToken:                 "not well-formed (invalid token)",
	ErrUnclosedToken:                "unclosed token",
	ErrPartialChar:                  "partial character sequence",
	ErrTagMismatch:                  "mismatched tag",
	ErrDuplicateAttribute:           "duplicate attribute",
	ErrJunkAfterDocElement:          "junk after document element",
	ErrParamEntityRef:               "illegal parameter entity reference",
	ErrUndefinedEntity:              "undefined entity",
	ErrRecursiveEntityRef:           "recursive entity reference",
	ErrAsyncEntity:                  "asynchronous entity",
	ErrBadCharRef:                   "reference to invalid character number",
	ErrBinaryEntityRef:              "reference to binary entity",
	ErrAttributeExternalEntityRef:   "reference to external entity in attribute",
	ErrMisplacedXMLPI:               "XML or text declaration not at start of entity",
	ErrUnknownEncoding:              "unknown encoding",
	ErrIncorrectEncoding:            "encoding specified in XML declaration is incorrect",
	ErrUnclosedCDATASection:         "unclosed CDATA section",
	ErrExternalEntityHandling:       "error in processing external entity reference",
	ErrNotStandalone:                "document is not standalone",
	ErrUnexpectedState:              "unexpected parser state (API misuse)",
	ErrEntityDeclaredInPE:           "entity declared in parameter entity",
	ErrFeatureRequiresXMLDTD:        "requested feature requires XML_DTD support",
	ErrCantChangeFeatureOnceParsing: "cannot change setting once parsing has begun",
	ErrUnboundPrefix:                "unbound prefix",
	ErrUndeclaringPrefix:            "must not undeclare prefix",
	ErrIncompletePE:                 "incomplete markup in parameter entity",
	ErrXMLDecl:                      "XML declaration not well-formed",
	ErrTextDecl:                     "text declaration not well-formed",
	ErrPublicID:                     "malformed public identifier",
	ErrSuspended:                    "parser is suspended",
	ErrNotSuspended:                 "parser is not suspended",
	ErrAborted:                      "parsing aborted",
	ErrFinished:                     "parsing finished",
	ErrSuspendPE:                    "suspending entity parsers is disallowed",
	ErrReservedPrefixXML:            "reserved prefix (xml) must not be undeclared or bound to another namespace name",
	ErrReservedPrefixXMLNS:          "reserved prefix (xmlns) must not be declared or undeclared",
	ErrReservedNamespaceURI:         "prefix must not be bound to one of the reserved namespace names",
	ErrInvalidArgument:              "invalid argument",
	ErrNoBuffer:                     "no buffer available for get_buffer/parse_buffer",
	ErrAmplificationLimitBreach:     "limit on input amplification factor (from DTD and entities) breached",
}

// ErrorString returns the stable, human-readable text for code, matching
// the teacher's practice of a lookup table behind its own error-rendering
// helper rather than a giant switch.
func ErrorString(code ErrorCode) string {
	if s, ok := errorText[code]; ok {
		return s
	}
	return "unknown error code"
}

// Error is this module's error type, carrying the failing code plus the
// position it occurred at, and wrapping an underlying cause when one
// exists. Its
// shape mirrors the teacher's own `*SyntaxError` in xml/error.go: a Msg-like
// field (Code here), a Line, and an Unwrap-able Err.
type Error struct {
	Code      ErrorCode
	Line      int
	Column    int
	ByteIndex int64
	Err       error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("xmlcore: %s at line %d, column %d (byte %d): %v",
			ErrorString(e.Code), e.Line, e.Column, e.ByteIndex, e.Err)
	}
	return fmt.Sprintf("xmlcore: %s at line %d, column %d (byte %d)",
		ErrorString(e.Code), e.Line, e.Column, e.ByteIndex)
}

// Unwrap exposes the wrapped cause, if any, for errors.Is/errors.As.
func (e *Error) Unwrap() error { return e.Err }

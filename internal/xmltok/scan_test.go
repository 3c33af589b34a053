package xmltok

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan_StartTagNoAtts(t *testing.T) {
	tok, n := Scan(UTF8, StateContent, []byte("<doc>rest"), true)
	require.Equal(t, TokStartTagNoAtts, tok)
	assert.Equal(t, len("<doc>"), n)
}

func TestScan_EmptyElementWithAtts(t *testing.T) {
	tok, n := Scan(UTF8, StateContent, []byte(`<e a="1"/>`), true)
	require.Equal(t, TokEmptyElementWithAtts, tok)
	assert.Equal(t, len(`<e a="1"/>`), n)
}

func TestScan_EndTag(t *testing.T) {
	tok, n := Scan(UTF8, StateContent, []byte("</doc>"), true)
	require.Equal(t, TokEndTag, tok)
	assert.Equal(t, len("</doc>"), n)
}

func TestScan_DataRunStopsAtMarkup(t *testing.T) {
	tok, n := Scan(UTF8, StateContent, []byte("hello<doc>"), true)
	require.Equal(t, TokDataChars, tok)
	assert.Equal(t, len("hello"), n)
}

func TestScan_CommentRequiresProperClose(t *testing.T) {
	tok, n := Scan(UTF8, StateContent, []byte("<!-- remark -->"), true)
	require.Equal(t, TokComment, tok)
	assert.Equal(t, len("<!-- remark -->"), n)
}

func TestScan_CommentWithEmbeddedDoubleDashIsInvalid(t *testing.T) {
	tok, _ := Scan(UTF8, StateContent, []byte("<!-- a -- b -->"), true)
	assert.Equal(t, TokInvalid, tok)
}

func TestScan_XMLDeclRecognizedOnlyAsXmlTarget(t *testing.T) {
	tok, n := Scan(UTF8, StateProlog, []byte(`<?xml version="1.0"?>`), true)
	require.Equal(t, TokXMLDecl, tok)
	assert.Equal(t, len(`<?xml version="1.0"?>`), n)

	tok2, _ := Scan(UTF8, StateProlog, []byte(`<?xmlstuff foo?>`), true)
	assert.Equal(t, TokPI, tok2)
}

func TestScan_CDataSectionOpenAndClose(t *testing.T) {
	tok, n := Scan(UTF8, StateContent, []byte("<![CDATA[data]]>"), true)
	require.Equal(t, TokCDATASectOpen, tok)
	assert.Equal(t, len("<![CDATA["), n)

	tok2, n2 := Scan(UTF8, StateCData, []byte("data]]>"), true)
	require.Equal(t, TokDataChars, tok2)
	assert.Equal(t, len("data"), n2)

	tok3, n3 := Scan(UTF8, StateCData, []byte("]]>"), true)
	require.Equal(t, TokCDATASectClose, tok3)
	assert.Equal(t, 3, n3)
}

func TestScan_PrologMarkupRejectsBareStartTag(t *testing.T) {
	// scanPrologMarkup can never itself produce a start tag token; this is
	// exactly the gap xmlcore's classifyProlog lookahead works around.
	tok, _ := Scan(UTF8, StateProlog, []byte("<doc>"), true)
	assert.Equal(t, TokInvalid, tok)
}

func TestScan_PartialInputRequestsMoreBytes(t *testing.T) {
	tok, n := Scan(UTF8, StateContent, []byte("<do"), false)
	assert.Equal(t, TokPartial, tok)
	assert.Equal(t, 0, n)
}

func TestScan_EmptyBufferIsPartial(t *testing.T) {
	tok, n := Scan(UTF8, StateContent, nil, false)
	assert.Equal(t, TokPartial, tok)
	assert.Equal(t, 0, n)
}

func TestScan_EntityAndCharRef(t *testing.T) {
	tok, n := Scan(UTF8, StateContent, []byte("&amp;x"), true)
	require.Equal(t, TokEntityRef, tok)
	assert.Equal(t, len("&amp;"), n)

	tok2, n2 := Scan(UTF8, StateContent, []byte("&#65;x"), true)
	require.Equal(t, TokCharRef, tok2)
	assert.Equal(t, len("&#65;"), n2)
}

func TestSniffBOM(t *testing.T) {
	enc, n, ok := SniffBOM([]byte("\xEF\xBB\xBF<doc/>"))
	require.True(t, ok)
	assert.Equal(t, 3, n)
	assert.Equal(t, UTF8, enc)

	_, _, ok2 := SniffBOM([]byte("<doc/>"))
	assert.False(t, ok2)
}

func TestIsChar(t *testing.T) {
	assert.True(t, IsChar('A'))
	assert.True(t, IsChar('\t'))
	assert.False(t, IsChar(0x0))
	assert.False(t, IsChar(0xFFFE))
}

package xmlcore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/r2xml/xmlcore/internal/dtdmodel"
)

// recorder collects handler callbacks in firing order so a test can assert
// on the exact event sequence a document produces, the same role the
// teacher's table-driven test fixtures play for its own decoder tests.
type recorder struct {
	events []string
	attrs  map[string][]Attribute
}

func newRecorder() *recorder { return &recorder{attrs: map[string][]Attribute{}} }

func (r *recorder) wire(p *Parser) {
	p.SetStartElementHandler(func(name string, attrs []Attribute) {
		r.events = append(r.events, "start("+name+")")
		r.attrs[name] = attrs
	})
	p.SetEndElementHandler(func(name string) {
		r.events = append(r.events, "end("+name+")")
	})
	p.SetCharacterDataHandler(func(text string) {
		r.events = append(r.events, "chars("+text+")")
	})
}

// S1: a plain element with character data reports the expected event
// sequence and final line/column position.
func TestParse_S1_PlainElement(t *testing.T) {
	p := NewParser()
	r := newRecorder()
	r.wire(p)

	res := p.Parse([]byte("<doc>Hello, world</doc>"), true)

	require.Equal(t, ParseOK, res, "error: %v", p.GetErrorCode())
	assert.Equal(t, []string{"start(doc)", "chars(Hello, world)", "end(doc)"}, r.events)
	assert.Equal(t, 1, p.CurrentLineNumber())
	assert.Equal(t, 23, p.CurrentColumnNumber())
}

// S2: a UTF-8 BOM precedes an empty element; no character-data events fire.
func TestParse_S2_BOMEmptyElement(t *testing.T) {
	p := NewParser()
	r := newRecorder()
	r.wire(p)

	res := p.Parse([]byte("\xEF\xBB\xBF<e/>"), true)

	require.Equal(t, ParseOK, res, "error: %v", p.GetErrorCode())
	assert.Equal(t, []string{"start(e)", "end(e)"}, r.events)
}

// S3: an ISO-8859-1-declared document decodes its single non-ASCII byte
// into the matching Unicode code point, UTF-8-encoded in the Go string.
func TestParse_S3_DeclaredEncoding(t *testing.T) {
	p := NewParser()
	r := newRecorder()
	r.wire(p)

	input := []byte("<?xml version='1.0' encoding='iso-8859-1'?>\n<d>\xE9</d>")
	res := p.Parse(input, true)

	require.Equal(t, ParseOK, res, "error: %v", p.GetErrorCode())
	require.Contains(t, r.events, "chars(\xC3\xA9)")
}

// S4: nested internal-entity expansion produces the expected character
// data six times and the exact indirect-byte total of 90.
func TestParse_S4_EntityExpansionAccounting(t *testing.T) {
	p := NewParser()
	r := newRecorder()
	r.wire(p)

	input := []byte(`<!DOCTYPE r [<!ENTITY nine "123456789"><!ENTITY nine2 "&nine;&nine;">]>` + "\n" +
		`<r>&nine2;&nine2;&nine2;</r>`)
	res := p.Parse(input, true)

	require.Equal(t, ParseOK, res, "error: %v", p.GetErrorCode())
	var chars int
	for _, e := range r.events {
		if e == "chars(123456789)" {
			chars++
		}
	}
	assert.Equal(t, 6, chars)

	direct, indirect := p.GetInputAccounting()
	assert.Equal(t, int64(len(input)), direct)
	assert.Equal(t, int64(90), indirect)
}

// S5: a truncated start tag at the very end of input is reported as
// UNCLOSED_TOKEN, with the byte index just past it (the end of input).
func TestParse_S5_UnclosedToken(t *testing.T) {
	p := NewParser()
	res := p.Parse([]byte("<doc></doc><"), true)

	require.Equal(t, ParseError, res)
	assert.Equal(t, ErrUnclosedToken, p.GetErrorCode())
	assert.Equal(t, int64(12), p.CurrentByteIndex())
}

// S6: namespace processing with triplet mode rewrites both the element and
// attribute names to "uri local prefix".
func TestParse_S6_NamespaceTriplet(t *testing.T) {
	p := NewParser(WithNamespaces(' '))
	p.SetReturnNSTriplet(true)
	r := newRecorder()
	r.wire(p)

	res := p.Parse([]byte(`<n:e xmlns:n='http://example.org/' n:a='1'/>`), true)

	require.Equal(t, ParseOK, res, "error: %v", p.GetErrorCode())
	require.Contains(t, r.events, "start(http://example.org/ e n)")
	attrs := r.attrs["http://example.org/ e n"]
	require.Len(t, attrs, 1)
	assert.Equal(t, "http://example.org/ a n", attrs[0].Name)
	assert.Equal(t, "1", attrs[0].Value)
}

// Undefined entity references are rejected when no external markup could
// plausibly have declared them.
func TestParse_UndefinedEntity(t *testing.T) {
	p := NewParser()
	res := p.Parse([]byte("<doc>&bogus;</doc>"), true)

	require.Equal(t, ParseError, res)
	assert.Equal(t, ErrUndefinedEntity, p.GetErrorCode())
}

// A mismatched end tag is reported as TAG_MISMATCH rather than silently
// accepted or misreported as a generic syntax error.
func TestParse_TagMismatch(t *testing.T) {
	p := NewParser()
	res := p.Parse([]byte("<a><b></a></b>"), true)

	require.Equal(t, ParseError, res)
	assert.Equal(t, ErrTagMismatch, p.GetErrorCode())
}

// An undefined general entity reference inside a non-standalone document
// that declares an external subset is skipped rather than rejected: the
// external subset was never actually read, but its presence is enough per
// spec.md §4.4 to excuse an otherwise-undefined entity via skippedEntity.
func TestParse_UndefinedEntity_SkippedWithExternalSubset(t *testing.T) {
	p := NewParser()
	var skipped []string
	p.SetSkippedEntityHandler(func(name string, isParam bool) {
		skipped = append(skipped, name)
	})

	input := []byte(`<!DOCTYPE r SYSTEM "r.dtd"><r>&bogus;</r>`)
	res := p.Parse(input, true)

	require.Equal(t, ParseOK, res, "error: %v", p.GetErrorCode())
	assert.Equal(t, []string{"bogus"}, skipped)
}

// A standalone="yes" document whose DOCTYPE nonetheless carries an external
// SYSTEM identifier consults the not-standalone handler; returning false
// raises NOT_STANDALONE.
func TestParse_NotStandaloneHandler_RejectsExternalMarkup(t *testing.T) {
	p := NewParser()
	called := false
	p.SetNotStandaloneHandler(func() bool {
		called = true
		return false
	})

	input := []byte("<?xml version='1.0' standalone='yes'?>\n" +
		`<!DOCTYPE r SYSTEM "r.dtd"><r/>`)
	res := p.Parse(input, true)

	require.Equal(t, ParseError, res)
	assert.True(t, called)
	assert.Equal(t, ErrNotStandalone, p.GetErrorCode())
}

// A default attribute value declared with entity and character references
// is normalized once at DTD-commit time, not re-emitted verbatim.
func TestParse_DefaultAttributeValue_Normalized(t *testing.T) {
	p := NewParser()
	r := newRecorder()
	r.wire(p)

	input := []byte(`<!DOCTYPE e [<!ATTLIST e a CDATA "x&amp;y">]>` + "\n" + `<e/>`)
	res := p.Parse(input, true)

	require.Equal(t, ParseOK, res, "error: %v", p.GetErrorCode())
	attrs := r.attrs["e"]
	require.Len(t, attrs, 1)
	assert.Equal(t, "a", attrs[0].Name)
	assert.Equal(t, "x&y", attrs[0].Value)
}

// The DOCTYPE start/end handlers fire in a properly paired sequence around
// an internal subset's declarations.
func TestParse_DoctypeHandlers_StartEndPaired(t *testing.T) {
	p := NewParser()
	var events []string
	p.SetDoctypeDeclHandler(
		func(name, systemID, publicID string, hasInternalSubset bool) {
			events = append(events, "start")
		},
		func() { events = append(events, "end") },
	)
	p.SetEntityDeclHandler(func(e *dtdmodel.GeneralEntity) {
		events = append(events, "entity("+e.Name+")")
	})

	input := []byte(`<!DOCTYPE r [<!ENTITY x "y">]>` + "\n" + `<r/>`)
	res := p.Parse(input, true)

	require.Equal(t, ParseOK, res, "error: %v", p.GetErrorCode())
	assert.Equal(t, []string{"start", "entity(x)", "end"}, events)
}

// CurrentByteCount reports the length of the most recently scanned token,
// and GetInputContext stays nil unless explicitly enabled.
func TestParse_CurrentByteCountAndInputContext(t *testing.T) {
	p := NewParser()
	res := p.Parse([]byte("<doc/>"), true)

	require.Equal(t, ParseOK, res, "error: %v", p.GetErrorCode())
	assert.Equal(t, len("<doc/>"), p.CurrentByteCount())
	data, offset := p.GetInputContext()
	assert.Nil(t, data)
	assert.Equal(t, 0, offset)

	p2 := NewParser(WithInputContextPreservation())
	res2 := p2.Parse([]byte("<doc/>"), true)
	require.Equal(t, ParseOK, res2, "error: %v", p2.GetErrorCode())
	data2, _ := p2.GetInputContext()
	assert.NotNil(t, data2)
}

// Suspending from within a start-element handler, then resuming, continues
// exactly where the parse left off.
func TestParse_StopAndResume(t *testing.T) {
	p := NewParser()
	r := newRecorder()
	r.wire(p)
	stopped := false
	p.SetStartElementHandler(func(name string, attrs []Attribute) {
		r.events = append(r.events, "start("+name+")")
		if name == "b" && !stopped {
			stopped = true
			p.Stop(true)
		}
	})

	res := p.Parse([]byte("<a><b/><c/></a>"), true)
	require.Equal(t, ParseSuspended, res)

	res = p.Resume()
	require.Equal(t, ParseOK, res, "error: %v", p.GetErrorCode())
	assert.Equal(t, []string{"start(a)", "start(b)", "end(b)", "start(c)", "end(c)", "end(a)"}, r.events)
}

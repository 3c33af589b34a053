package xmltok

// NameSpan locates a Name within a tag buffer as a byte range.
type NameSpan struct{ Start, End int }

// AttrSpan locates one attribute's name and quoted-value interior (the
// quotes themselves are excluded) within a tag buffer, plus which quote
// character bounded it.
type AttrSpan struct {
	Name       NameSpan
	ValueStart int
	ValueEnd   int
	Quote      rune
}

func skipWS(enc Encoding, buf []byte, pos int) int {
	for pos < len(buf) {
		r, n, status := enc.DecodeRune(buf[pos:], true)
		if status != DecodeOK || !IsWhitespace(r) {
			break
		}
		pos += n
	}
	return pos
}

// ParseEndTag re-walks an END_TAG buffer ("</name>", whitespace before '>'
// permitted) that Scan has already validated, returning the name span.
func ParseEndTag(enc Encoding, buf []byte) NameSpan {
	mbpc := enc.MinBytesPerChar()
	pos := 2 * mbpc
	nameEnd, _ := scanNameAt(enc, buf, pos, true)
	return NameSpan{Start: pos, End: nameEnd}
}

// ParseStartTag re-walks a start/empty-element tag buffer that Scan has
// already validated in full (the token was START_TAG_* or
// EMPTY_ELEMENT_*), extracting the element name span and each attribute's
// name/value spans. Because the buffer is already known well-formed, this
// pass never returns partial/invalid.
func ParseStartTag(enc Encoding, buf []byte) (name NameSpan, attrs []AttrSpan, selfClosing bool) {
	mbpc := enc.MinBytesPerChar()
	pos := mbpc
	nameEnd, _ := scanNameAt(enc, buf, pos, true)
	name = NameSpan{Start: pos, End: nameEnd}
	pos = nameEnd

	for {
		pos = skipWS(enc, buf, pos)
		if pos >= len(buf) {
			break
		}
		r, n, status := enc.DecodeRune(buf[pos:], true)
		if status != DecodeOK {
			break
		}
		if r == '>' {
			break
		}
		if r == '/' {
			selfClosing = true
			break
		}
		_ = n

		attrNameEnd, _ := scanNameAt(enc, buf, pos, true)
		attrName := NameSpan{Start: pos, End: attrNameEnd}
		pos = attrNameEnd

		pos = skipWS(enc, buf, pos)
		_, eqN, _ := enc.DecodeRune(buf[pos:], true) // '='
		pos += eqN
		pos = skipWS(enc, buf, pos)

		quote, qn, _ := enc.DecodeRune(buf[pos:], true)
		pos += qn
		valueStart := pos
		for pos < len(buf) {
			r, n, status := enc.DecodeRune(buf[pos:], true)
			if status != DecodeOK || r == quote {
				break
			}
			pos += n
		}
		valueEnd := pos
		_, qn2, _ := enc.DecodeRune(buf[pos:], true)
		pos += qn2

		attrs = append(attrs, AttrSpan{Name: attrName, ValueStart: valueStart, ValueEnd: valueEnd, Quote: quote})
	}
	return name, attrs, selfClosing
}

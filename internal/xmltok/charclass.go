package xmltok

// Character classification per XML 1.0 §2.2/§2.3, expressed over decoded
// Unicode scalar values rather than a per-byte table: the scanner decodes
// one rune at a time through the active Encoding (see encoding.go) and
// classifies the rune, which is the natural idiom once Go's rune model is
// available. This is a deliberate departure from the source's per-byte
// BT_* table — the validation performed is the same, only which layer owns
// the table differs.

// IsChar reports whether r is a legal XML character per §2.2:
// #x9 | #xA | #xD | [#x20-#xD7FF] | [#xE000-#xFFFD] | [#x10000-#x10FFFF]
func IsChar(r rune) bool {
	switch {
	case r == 0x9 || r == 0xA || r == 0xD:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0x10FFFF:
		return true
	}
	return false
}

// IsNameStartChar reports whether r may begin an XML Name per §2.3's
// NameStartChar production (the non-ASCII ranges are the ones the source's
// BT_NMSTRT table encodes; this inlines the official production instead).
func IsNameStartChar(r rune) bool {
	switch {
	case r == ':' || r == '_':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= 'a' && r <= 'z':
		return true
	case r >= 0xC0 && r <= 0xD6:
		return true
	case r >= 0xD8 && r <= 0xF6:
		return true
	case r >= 0xF8 && r <= 0x2FF:
		return true
	case r >= 0x370 && r <= 0x37D:
		return true
	case r >= 0x37F && r <= 0x1FFF:
		return true
	case r >= 0x200C && r <= 0x200D:
		return true
	case r >= 0x2070 && r <= 0x218F:
		return true
	case r >= 0x2C00 && r <= 0x2FEF:
		return true
	case r >= 0x3001 && r <= 0xD7FF:
		return true
	case r >= 0xF900 && r <= 0xFDCF:
		return true
	case r >= 0xFDF0 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= 0xEFFFF:
		return true
	}
	return false
}

// IsNameChar reports whether r may continue an XML Name per §2.3's
// NameChar production (NameStartChar plus digits, '-', '.', combining marks
// and extenders).
func IsNameChar(r rune) bool {
	if IsNameStartChar(r) {
		return true
	}
	switch {
	case r == '-' || r == '.':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == 0xB7:
		return true
	case r >= 0x0300 && r <= 0x036F:
		return true
	case r >= 0x203F && r <= 0x2040:
		return true
	}
	return false
}

// IsWhitespace reports whether r is XML whitespace per §2.3's S production:
// #x20 | #x9 | #xD | #xA
func IsWhitespace(r rune) bool {
	return r == 0x20 || r == 0x9 || r == 0xD || r == 0xA
}

package xmltok

// SniffBOM inspects the first bytes of the document entity for a byte-order
// mark and returns the encoding it implies plus the number of BOM bytes to
// skip. ok is false if no recognized BOM is present, in which case the
// caller falls through to <?xml encoding=...?> sniffing and finally the
// UTF-8 default, per the precedence SPEC_FULL.md §9 / spec.md DESIGN NOTES
// requires: explicit set_encoding > BOM > XML declaration > default UTF-8.
//
// This three-way byte comparison is kept hand-rolled rather than routed
// through golang.org/x/text/encoding/unicode.BOMOverride: that helper is
// built around transform.Reader's pull-streaming model (it consumes the BOM
// as a side effect of the first Transform call), which doesn't fit this
// scanner's push model of "caller hands us a buffer, we hand back a token
// and a consumed length". x/text earns its keep elsewhere in this package
// (Latin1, see encoding.go) where its table is the thing actually needed.
func SniffBOM(buf []byte) (enc Encoding, n int, ok bool) {
	switch {
	case len(buf) >= 3 && buf[0] == 0xEF && buf[1] == 0xBB && buf[2] == 0xBF:
		return UTF8, 3, true
	case len(buf) >= 2 && buf[0] == 0xFE && buf[1] == 0xFF:
		return UTF16BE, 2, true
	case len(buf) >= 2 && buf[0] == 0xFF && buf[1] == 0xFE:
		return UTF16LE, 2, true
	}
	return nil, 0, false
}

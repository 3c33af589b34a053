package xmlcore

import "github.com/r2xml/xmlcore/internal/xmltok"

// unknownEncoding wraps a caller-supplied 256-entry byte->UCS map plus an
// optional multi-byte convert callback into something satisfying
// internal/xmltok.Encoding, per spec.md §4.8.
//
// Table entries use the same sentinel range the source does: -N (N from 1
// to 4) marks the first byte of an N-byte sequence that `convert` must
// resolve, values in [0, 0x10000) other than the UTF-16 surrogate range are
// literal scalar values, and a table holding anything else is rejected
// (UNKNOWN_ENCODING) when an XML declaration or SetEncoding selects it.
type unknownEncoding struct {
	name    string
	table   [256]int32
	convert func([]byte) (rune, int)
}

// validate checks every table entry against the legal range spec.md §4.8
// describes, returning false (UNKNOWN_ENCODING) on the first violation.
func (u *unknownEncoding) validate() bool {
	for _, v := range u.table {
		if v >= -4 && v <= -1 {
			continue
		}
		if v < 0 || v >= 0x10000 {
			return false
		}
		if v >= 0xD800 && v <= 0xDFFF {
			return false
		}
	}
	return true
}

func (u *unknownEncoding) Name() string        { return u.name }
func (u *unknownEncoding) MinBytesPerChar() int { return 1 }

func (u *unknownEncoding) DecodeRune(buf []byte, final bool) (rune, int, xmltok.DecodeStatus) {
	if len(buf) == 0 {
		return 0, 0, xmltok.DecodePartialChar
	}
	v := u.table[buf[0]]
	if v >= 0 {
		return rune(v), 1, xmltok.DecodeOK
	}
	need := int(-v)
	if len(buf) < need {
		if final {
			return 0, len(buf), xmltok.DecodeInvalid
		}
		return 0, 0, xmltok.DecodePartialChar
	}
	if u.convert == nil {
		return 0, 1, xmltok.DecodeInvalid
	}
	r, n := u.convert(buf[:need])
	if n <= 0 {
		return 0, 1, xmltok.DecodeInvalid
	}
	return r, n, xmltok.DecodeOK
}

func (u *unknownEncoding) NameMatch(buf []byte, literal string) bool {
	if len(buf) < len(literal) {
		return false
	}
	for i := 0; i < len(literal); i++ {
		if rune(buf[i]) != rune(literal[i]) {
			return false
		}
	}
	return true
}

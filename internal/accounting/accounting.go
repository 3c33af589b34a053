// Package accounting guards against entity-expansion amplification attacks
// (the "billion laughs" family): it tracks how many bytes of document input
// were consumed directly versus produced indirectly through entity
// expansion, and trips once the direct total has passed an activation
// threshold and the amplification ratio exceeds the configured maximum.
package accounting

import "math"

// DefaultActivationBytes is the direct-byte count up to which no
// amplification check is applied at all, so small, legitimate uses of
// internal entities (boilerplate snippets, DTD-defined constants) never
// trip the guard.
const DefaultActivationBytes = 8 * 1024 * 1024

// DefaultMaxAmplification is the maximum tolerated ratio of all bytes
// processed (direct plus indirect) to direct bytes consumed, once the
// activation threshold has been crossed.
const DefaultMaxAmplification = 100.0

// Counter accumulates direct and indirect byte counts for one parser (and,
// transitively, any external-entity child parsers sharing its accounting —
// see SPEC_FULL.md §4.6). It is not safe for concurrent use; the engine is
// single-threaded by design, matching the teacher's and the source's model.
type Counter struct {
	direct           int64
	indirect         int64
	activationBytes  int64
	maxAmplification float64
	rootSettable     bool
}

// New returns a Counter configured with the default activation threshold
// and amplification ratio. rootSettable tracks whether SetActivationBytes /
// SetMaxAmplification may still be called — true only until the first byte
// of input has been accounted, matching the source's "root parser only,
// before parsing starts" restriction.
func New() *Counter {
	return &Counter{
		activationBytes:  DefaultActivationBytes,
		maxAmplification: DefaultMaxAmplification,
		rootSettable:     true,
	}
}

// AddDirect records bytes read straight from the input buffer.
func (c *Counter) AddDirect(n int) {
	c.direct += int64(n)
	c.rootSettable = false
}

// AddIndirect records bytes produced by expanding an entity reference.
func (c *Counter) AddIndirect(n int) {
	c.indirect += int64(n)
}

// Direct reports total directly consumed bytes.
func (c *Counter) Direct() int64 { return c.direct }

// Indirect reports total bytes produced via entity expansion.
func (c *Counter) Indirect() int64 { return c.indirect }

// Ratio reports the current amplification: (direct + indirect) bytes per
// direct byte. It is 0 when no direct bytes have been seen yet (avoids a
// divide by zero; there can be no amplification before there is a
// denominator).
func (c *Counter) Ratio() float64 {
	if c.direct == 0 {
		return 0
	}
	return float64(c.direct+c.indirect) / float64(c.direct)
}

// Tripped reports whether the guard should abort parsing: the direct total
// has passed the activation threshold, and the amplification ratio exceeds
// the configured maximum.
func (c *Counter) Tripped() bool {
	if c.direct <= c.activationBytes {
		return false
	}
	return c.Ratio() > c.maxAmplification
}

// SetActivationBytes overrides the default activation threshold. It returns
// false (and makes no change) once direct input has been accounted or for a
// negative n. The Counter does not know whether its parser is the document
// root; xmlcore's wrapper refuses child parsers before calling it.
func (c *Counter) SetActivationBytes(n int64) bool {
	if !c.rootSettable || n < 0 {
		return false
	}
	c.activationBytes = n
	return true
}

// SetMaxAmplification overrides the default amplification ratio. Per
// SPEC_FULL.md §4.6, the ratio must be finite, non-negative, and at least
// 1.0 (anything less would flag ordinary unexpanded documents).
func (c *Counter) SetMaxAmplification(ratio float64) bool {
	if !c.rootSettable {
		return false
	}
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) || ratio < 1.0 {
		return false
	}
	c.maxAmplification = ratio
	return true
}

// ActivationBytes reports the current activation threshold.
func (c *Counter) ActivationBytes() int64 { return c.activationBytes }

// MaxAmplification reports the current maximum amplification ratio.
func (c *Counter) MaxAmplification() float64 { return c.maxAmplification }

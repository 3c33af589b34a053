package xmlcore

import "github.com/r2xml/xmlcore/internal/accounting"

// predefinedEntityIndirectCost is the fixed indirect-byte charge for each
// predefined-entity reference (&amp; &lt; &gt; &apos; &quot;), regardless
// of its actual decoded length, per spec.md §4.6.
const predefinedEntityIndirectCost = 5

// SetBillionLaughsMaximumAmplification overrides the DoS guard's maximum
// tolerated amplification ratio. Only callable on a root parser, and only
// before parsing starts; ratio must be finite and >= 1.0.
func (p *Parser) SetBillionLaughsMaximumAmplification(ratio float64) bool {
	if p.isChild {
		return false
	}
	return p.accounting.SetMaxAmplification(ratio)
}

// SetBillionLaughsActivationThreshold overrides the DoS guard's activation
// threshold in bytes. Only callable on a root parser, and only before
// parsing starts.
func (p *Parser) SetBillionLaughsActivationThreshold(bytes int64) bool {
	if p.isChild {
		return false
	}
	return p.accounting.SetActivationBytes(bytes)
}

// checkAmplification trips the AMPLIFICATION_LIMIT_BREACH error the moment
// the guard's Tripped condition becomes true, called after every indirect
// byte accounting update (internal entity expansion, default attribute
// value synthesis, predefined-entity decode).
func (p *Parser) checkAmplification() error {
	if p.accounting.Tripped() {
		return p.fail(ErrAmplificationLimitBreach)
	}
	return nil
}

// GetInputAccounting reports the direct (primary input) and indirect
// (entity/default-value expansion) byte counters spec.md §4.6 defines,
// letting a caller (or a test) observe the amplification bookkeeping
// directly rather than only through whether it tripped.
func (p *Parser) GetInputAccounting() (direct, indirect int64) {
	return p.accounting.Direct(), p.accounting.Indirect()
}

func newAccounting() *accounting.Counter { return accounting.New() }

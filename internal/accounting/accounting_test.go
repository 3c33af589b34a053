package accounting

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter_RatioIsZeroBeforeDirectBytes(t *testing.T) {
	c := New()
	c.AddIndirect(1000)
	assert.Equal(t, 0.0, c.Ratio())
	assert.False(t, c.Tripped())
}

func TestCounter_TripsOnlyPastActivationAndRatio(t *testing.T) {
	c := New()
	require.True(t, c.SetActivationBytes(100))
	require.True(t, c.SetMaxAmplification(2.0))

	c.AddDirect(50)
	c.AddIndirect(1_000_000)
	assert.False(t, c.Tripped(), "direct bytes below activation threshold must never trip")

	c.AddDirect(60) // direct now 110, past the 100-byte activation threshold
	assert.True(t, c.Tripped())
}

func TestCounter_RatioFormula(t *testing.T) {
	c := New()
	c.AddDirect(10)
	c.AddIndirect(90)
	assert.InDelta(t, 10.0, c.Ratio(), 1e-9) // (direct+indirect)/direct = 100/10
}

func TestCounter_RejectsInvalidLimits(t *testing.T) {
	c := New()
	assert.False(t, c.SetMaxAmplification(math.NaN()))
	assert.False(t, c.SetMaxAmplification(math.Inf(1)))
	assert.False(t, c.SetMaxAmplification(0.5))
	assert.True(t, c.SetMaxAmplification(1.0))
}

func TestCounter_Defaults(t *testing.T) {
	c := New()
	assert.Equal(t, int64(DefaultActivationBytes), c.ActivationBytes())
	assert.Equal(t, DefaultMaxAmplification, c.MaxAmplification())
}

package util

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeDiv(t *testing.T) {
	tests := []struct {
		n, d, want float64
	}{
		{10, 2, 5},
		{1, 0, 0},
		{1, 1e-13, 0},
		{1, -1e-13, 0},
		{-9, 3, -3},
	}
	for _, tc := range tests {
		assert.InDelta(t, tc.want, SafeDiv(tc.n, tc.d), 1e-12, "n=%v d=%v", tc.n, tc.d)
	}
}

func TestIsFinite(t *testing.T) {
	assert.True(t, IsFinite(0))
	assert.True(t, IsFinite(-1e300))
	assert.False(t, IsFinite(math.NaN()))
	assert.False(t, IsFinite(math.Inf(1)))
	assert.False(t, IsFinite(math.Inf(-1)))
}

func TestFmtFloat_RoundTrips(t *testing.T) {
	for _, v := range []float64{0, 0.1, 230, 1.0 / 6.0, -1e-9, 2.0 / 3.0 * math.Pi} {
		s := FmtFloat(v)
		got, err := strconv.ParseFloat(s, 64)
		require.NoError(t, err)
		assert.Equal(t, v, got, "formatted as %q", s)
	}
	assert.Equal(t, "50", FmtFloat(50))
}

func TestStem(t *testing.T) {
	assert.Equal(t, "filter", Stem("/tmp/data/filter.csv"))
	assert.Equal(t, "a.b", Stem("a.b.csv"))
	assert.Equal(t, "noext", Stem("noext"))
}

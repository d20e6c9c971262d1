package util

import (
	"math"
	"path/filepath"
	"strconv"
	"strings"
)

// SafeDiv returns n/d, or 0 when d is too close to zero to divide by.
func SafeDiv(n, d float64) float64 {
	const eps = 1e-12
	if d > eps || d < -eps {
		return n / d
	}
	return 0
}

// IsFinite reports whether v is neither NaN nor an infinity.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// FmtFloat formats v with the shortest representation that round-trips.
func FmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Stem returns the base name of path without its final extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

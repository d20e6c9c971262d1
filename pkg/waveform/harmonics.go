package waveform

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/ja7ad/phaseplot/pkg/util"
)

// Harmonics returns peak amplitudes for harmonic orders 0..maxOrder of a
// record spanning exactly cycles fundamental periods. Order 0 is the mean.
// Orders at or above Nyquist are left at zero.
func Harmonics(samples []float64, cycles, maxOrder int) []float64 {
	if maxOrder < 0 {
		return nil
	}
	out := make([]float64, maxOrder+1)
	n := len(samples)
	if n == 0 || cycles <= 0 {
		return out
	}

	spectrum := fft.FFTReal(samples)
	for h := 0; h <= maxOrder; h++ {
		k := h * cycles
		if 2*k > n {
			break
		}
		mag := cmplx.Abs(spectrum[k]) / float64(n)
		if k != 0 && 2*k != n {
			mag *= 2 // one-sided
		}
		out[h] = mag
	}
	return out
}

// HarmonicShare returns the amplitude of the given order relative to the
// fundamental. It is NaN when cycles is not a whole number, since the bins
// would not line up with the harmonics.
func HarmonicShare(samples []float64, cycles float64, order int) float64 {
	whole := math.Round(cycles)
	if order < 1 || whole < 1 || math.Abs(cycles-whole) > 1e-9 {
		return math.NaN()
	}
	h := Harmonics(samples, int(whole), order)
	return util.SafeDiv(h[order], h[1])
}

// ThirdHarmonicShare is the 3rd/1st amplitude ratio of phase A. With
// injection enabled it equals the injection ratio.
func (s *Set) ThirdHarmonicShare() float64 {
	return HarmonicShare(s.Phases[PhaseA], s.Cycles, 3)
}

// ThirdHarmonicShare is the 3rd/1st amplitude ratio of Vab. It is zero up
// to rounding whatever the injection, because zero-sequence terms cancel.
func (l *LineToLine) ThirdHarmonicShare() float64 {
	return HarmonicShare(l.Values[0], l.Cycles, 3)
}

package waveform

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// SampleCount returns int(cycles * samples_per_cycle), or 0 when frequency,
// cycles or sample density is not positive.
func SampleCount(cfg Config) int {
	if !(cfg.FrequencyHz > 0) || !(cfg.Cycles > 0) || cfg.SamplesPerCycle <= 0 {
		return 0
	}
	n := int(cfg.Cycles * float64(cfg.SamplesPerCycle))
	if n < 0 {
		return 0
	}
	return n
}

// TimeBase returns SampleCount(cfg) uniformly spaced instants over the
// half-open interval [0, cycles/frequency). The endpoint is excluded so a
// periodic waveform has no duplicated first/last sample.
func TimeBase(cfg Config) []float64 {
	n := SampleCount(cfg)
	t := make([]float64, n)
	if n == 0 {
		return t
	}
	step := cfg.Cycles / cfg.FrequencyHz / float64(n)
	for i := range t {
		t[i] = float64(i) * step
	}
	return t
}

// Synthesize computes the three phase references, adds the shared
// zero-sequence term when injection is enabled, and scales all phases by
// one factor so the largest magnitude equals cfg.PeakAmplitude.
//
// Parameters are not validated beyond the zero-magnitude guard.
func Synthesize(cfg Config) *Set {
	t := TimeBase(cfg)
	n := len(t)
	omega := 2.0 * math.Pi * cfg.FrequencyHz
	k := cfg.effectiveRatio()

	var zeroSeq []float64
	if k != 0 {
		zeroSeq = make([]float64, n)
		for i, ti := range t {
			zeroSeq[i] = k * math.Sin(3.0*omega*ti)
		}
	}

	s := &Set{
		Time:               t,
		FrequencyHz:        cfg.FrequencyHz,
		Cycles:             cfg.Cycles,
		ThirdHarmonicRatio: k,
	}

	var maxMod float64
	for _, p := range Phases {
		w := make([]float64, n)
		phi := p.Angle()
		for i, ti := range t {
			w[i] = math.Sin(omega*ti + phi)
		}
		if zeroSeq != nil {
			floats.Add(w, zeroSeq)
		}
		maxMod = math.Max(maxMod, maxAbs(w))
		s.Phases[p] = w
	}

	s.Scaling, s.Degenerate = normalization(cfg.PeakAmplitude, maxMod)
	for _, p := range Phases {
		floats.Scale(s.Scaling, s.Phases[p])
	}
	return s
}

// normalization returns peak/maxMod, or 1 (degenerate) when maxMod is zero.
func normalization(peak, maxMod float64) (float64, bool) {
	if maxMod == 0 {
		return 1, true
	}
	return peak / maxMod, false
}

func maxAbs(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return math.Max(math.Abs(floats.Max(v)), math.Abs(floats.Min(v)))
}

// Len returns the number of samples per phase.
func (s *Set) Len() int { return len(s.Time) }

// Phase returns the samples of one leg.
func (s *Set) Phase(p Phase) []float64 { return s.Phases[p] }

// Peak returns the largest absolute sample over all three phases.
func (s *Set) Peak() float64 {
	var m float64
	for _, w := range s.Phases {
		m = math.Max(m, maxAbs(w))
	}
	return m
}

// LineToLine derives A-B, B-C and C-A from the scaled phases. Any
// zero-sequence component cancels in every difference.
func (s *Set) LineToLine() *LineToLine {
	ll := &LineToLine{Time: s.Time, Cycles: s.Cycles}
	for i, pr := range Pairs {
		ll.Values[i] = floats.SubTo(make([]float64, s.Len()), s.Phases[pr.Pos], s.Phases[pr.Neg])
	}
	return ll
}

// Peak returns the largest absolute line-to-line sample.
func (l *LineToLine) Peak() float64 {
	var m float64
	for _, v := range l.Values {
		m = math.Max(m, maxAbs(v))
	}
	return m
}

// RMS returns the sampled RMS of pair i (index into Pairs).
func (l *LineToLine) RMS(i int) float64 {
	v := l.Values[i]
	if len(v) == 0 {
		return 0
	}
	return floats.Norm(v, 2) / math.Sqrt(float64(len(v)))
}

// ComputeMetrics derives the fundamental and boost figures from the
// normalization factor. The unscaled fundamental has unit peak, so the
// scaled fundamental peak is scaling itself. The boost baseline is the
// theoretical pure-sinusoid line-to-line peak sqrt(3)*targetPeak.
func ComputeMetrics(scaling, targetPeak float64) Metrics {
	m := Metrics{
		FundamentalPeak:        scaling,
		LineToLinePeak:         math.Sqrt(3.0) * scaling,
		BaselineLineToLinePeak: math.Sqrt(3.0) * targetPeak,
	}
	m.LineToLineRMS = m.LineToLinePeak / math.Sqrt2
	if m.BaselineLineToLinePeak != 0 {
		m.BoostRatio = m.LineToLinePeak / m.BaselineLineToLinePeak
	} else {
		m.BoostRatio = math.NaN()
	}
	m.BoostPercent = (m.BoostRatio - 1.0) * 100.0
	return m
}

// Lines renders the metrics as annotation text. unit is appended to
// voltages, e.g. "V".
func (m Metrics) Lines(unit string) []string {
	if unit != "" {
		unit = " " + unit
	}
	return []string{
		fmt.Sprintf("Phase fundamental peak: %.1f%s", m.FundamentalPeak, unit),
		fmt.Sprintf("Line-line fundamental RMS: %.1f%s", m.LineToLineRMS, unit),
		fmt.Sprintf("Boost vs pure sinusoid: %+.1f%%", m.BoostPercent),
	}
}

// Generate runs the full synthesis and the derived outputs cfg asks for.
func Generate(cfg Config) Result {
	res := Result{Set: Synthesize(cfg)}
	if cfg.LineToLine {
		res.LineToLine = res.Set.LineToLine()
	}
	if cfg.Metrics {
		m := ComputeMetrics(res.Set.Scaling, cfg.PeakAmplitude)
		res.Metrics = &m
	}
	return res
}

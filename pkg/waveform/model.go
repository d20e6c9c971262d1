package waveform

import "math"

// Config holds synthesis parameters.
// Units:
//   - FrequencyHz: Hz (fundamental)
//   - PeakAmplitude: output units, usually Volts (per-phase limit)
//   - Cycles: number of fundamental periods in the time base
//   - SamplesPerCycle: samples per fundamental period
//   - ThirdHarmonicRatio: zero-sequence gain k in k*sin(3wt), relative to the fundamental
type Config struct {
	FrequencyHz         float64 `yaml:"frequency_hz"`
	PeakAmplitude       float64 `yaml:"peak_amplitude"`
	Cycles              float64 `yaml:"cycles"`
	SamplesPerCycle     int     `yaml:"samples_per_cycle"`
	ThirdHarmonicRatio  float64 `yaml:"third_harmonic_ratio"`
	InjectThirdHarmonic bool    `yaml:"inject_third_harmonic"`

	// LineToLine and Metrics select the optional derived outputs of Generate.
	LineToLine bool `yaml:"line_to_line"`
	Metrics    bool `yaml:"metrics"`
}

// DefaultConfig returns the inverter reference defaults: 50 Hz, 230 V phase
// limit, two cycles at 400 samples each, k = 1/6.
func DefaultConfig() Config {
	return Config{
		FrequencyHz:         50.0,
		PeakAmplitude:       230.0,
		Cycles:              2,
		SamplesPerCycle:     400,
		ThirdHarmonicRatio:  1.0 / 6.0, // maximizes modulation depth
		InjectThirdHarmonic: true,
		LineToLine:          true,
		Metrics:             true,
	}
}

// PlainConfig is the unit-amplitude pure sinusoid variant without derived outputs.
func PlainConfig() Config {
	cfg := DefaultConfig()
	cfg.PeakAmplitude = 1.0
	cfg.InjectThirdHarmonic = false
	cfg.LineToLine = false
	cfg.Metrics = false
	return cfg
}

// effectiveRatio is the injected zero-sequence gain, 0 when injection is off.
func (c Config) effectiveRatio() float64 {
	if !c.InjectThirdHarmonic {
		return 0
	}
	return c.ThirdHarmonicRatio
}

// Phase identifies one leg of the three-phase system.
type Phase int

const (
	PhaseA Phase = iota
	PhaseB
	PhaseC
)

// Phases lists the legs in output order.
var Phases = [3]Phase{PhaseA, PhaseB, PhaseC}

var phaseNames = [3]string{"Phase A", "Phase B", "Phase C"}

func (p Phase) String() string {
	if p < PhaseA || p > PhaseC {
		return "unknown"
	}
	return phaseNames[p]
}

// Angle returns the fixed phase offset in radians (0, -120°, +120°).
func (p Phase) Angle() float64 {
	switch p {
	case PhaseB:
		return -2.0 * math.Pi / 3.0
	case PhaseC:
		return 2.0 * math.Pi / 3.0
	default:
		return 0
	}
}

// Pair is an ordered pair of legs whose difference is a line-to-line voltage.
type Pair struct {
	Pos, Neg Phase
	Label    string
}

// Pairs lists the line-to-line combinations in output order.
var Pairs = [3]Pair{
	{Pos: PhaseA, Neg: PhaseB, Label: "Vab"},
	{Pos: PhaseB, Neg: PhaseC, Label: "Vbc"},
	{Pos: PhaseC, Neg: PhaseA, Label: "Vca"},
}

// Set is a synthesized three-phase waveform. All phase slices share Time.
type Set struct {
	Time   []float64
	Phases [3][]float64

	// Scaling is the factor applied to the unit fundamental (plus injection)
	// so the largest sample magnitude equals the requested peak.
	Scaling float64
	// Degenerate is set when every raw sample was zero and Scaling fell back to 1.
	Degenerate bool

	FrequencyHz        float64
	Cycles             float64
	ThirdHarmonicRatio float64 // effective, 0 when injection is disabled
}

// LineToLine holds pairwise phase differences, indexed like Pairs.
type LineToLine struct {
	Time   []float64
	Values [3][]float64
	Cycles float64
}

// Metrics is the fundamental/boost summary derived from the scaling factor.
// All voltages are peak unless named RMS.
type Metrics struct {
	FundamentalPeak        float64
	LineToLinePeak         float64
	LineToLineRMS          float64
	BaselineLineToLinePeak float64
	BoostRatio             float64
	BoostPercent           float64
}

// Result bundles the outputs of Generate. LineToLine and Metrics are nil
// when not requested.
type Result struct {
	Set        *Set
	LineToLine *LineToLine
	Metrics    *Metrics
}

// Package waveform synthesizes time-sampled three-phase voltage references
// for inverter modulation studies.
//
// Overview
//
//   - Time base: N = cycles * samples_per_cycle instants over the half-open
//     interval [0, cycles/f). The endpoint is excluded so periodic records
//     do not repeat their first sample.
//
//   - Phases: sin(wt + phi) with phi = 0, -120° and +120° for A, B and C.
//
//   - Third harmonic injection (THI): a single zero-sequence term
//     k*sin(3wt) is added to every phase. Because the same signal rides on
//     all three legs it cancels in every line-to-line difference, while the
//     per-phase peak drops (to sqrt(3)/2 for k = 1/6). Rescaling to the
//     same phase-leg limit therefore raises the usable fundamental.
//
//   - Normalization: scaling = peak / max|v| over all phases and samples,
//     applied uniformly. If every sample is zero the scale falls back to 1
//     and Set.Degenerate is set.
//
//   - Metrics: the unscaled fundamental has unit peak, so the scaled
//     fundamental peak equals the scaling factor. Line-to-line peak is
//     sqrt(3) times that, RMS divides by sqrt(2), and the boost compares it
//     against sqrt(3)*peak, the pure-sinusoid line-to-line peak.
//
// Example
//
//	res := waveform.Generate(waveform.DefaultConfig())
//	for _, line := range res.Metrics.Lines("V") {
//	    fmt.Println(line)
//	}
//
// Harmonic content can be checked with Harmonics or the ThirdHarmonicShare
// helpers; they expect an integer number of cycles.
package waveform

package waveform

import "errors"

// ErrDegenerateParameters indicates the normalization guard fired (no
// non-zero sample) and a scale of 1 was used. It is informational only.
var ErrDegenerateParameters = errors.New("waveform: degenerate parameters, scaling fell back to 1")

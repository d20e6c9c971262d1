package render

import "errors"

var (
	// ErrNothingToRender indicates no series had a drawable point.
	ErrNothingToRender = errors.New("render: no plottable points")

	// ErrUnknownFormat indicates an output path with an unsupported extension.
	ErrUnknownFormat = errors.New("render: unknown output format")
)

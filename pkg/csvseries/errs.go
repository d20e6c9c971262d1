package csvseries

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput indicates the input had no non-blank line.
	ErrEmptyInput = errors.New("csvseries: file is empty or only whitespace")

	// ErrMissingLabels indicates the first non-blank line did not yield two
	// axis labels.
	ErrMissingLabels = errors.New("csvseries: expected 2 labels (x, y) in first line")

	// ErrInsufficientColumns indicates fewer than two numeric columns were
	// recovered from the data rows.
	ErrInsufficientColumns = errors.New("csvseries: expected 2 numeric columns (x, y)")
)

// ParseError ties an ingestion failure to its source and the rule that failed.
type ParseError struct {
	Source string
	Err    error
	Detail string
}

func (e *ParseError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("%s: %v, %s", e.Source, e.Err, e.Detail)
}

func (e *ParseError) Unwrap() error { return e.Err }

package csvseries

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Series is a two-column numeric series with its axis labels. X and Y
// always have the same length; missing cells are NaN.
type Series struct {
	Source string
	XLabel string
	YLabel string
	X      []float64
	Y      []float64

	// Delimiter is the separator the file was read with.
	Delimiter rune
	// Dropped counts data rows discarded because a cell was not numeric.
	Dropped int
}

// Len returns the number of data rows kept.
func (s *Series) Len() int { return len(s.X) }

// Labels returns the (x, y) axis labels.
func (s *Series) Labels() [2]string { return [2]string{s.XLabel, s.YLabel} }

// ReadFile opens path, parses it and closes it before returning.
func ReadFile(path string) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csvseries: open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	return Parse(f, filepath.Base(path))
}

// Parse reads a delimited text resource whose first non-blank line holds the
// axis labels and whose remaining rows hold (x, y) values. source names the
// input in errors.
//
// Rows that are blank or start with '#' are skipped. A row with a cell that
// is neither a number nor a comma-decimal number is dropped whole; the rest
// of the input is still used.
func Parse(r io.Reader, source string) (*Series, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("csvseries: read %s: %w", source, err)
	}
	lines := splitLines(strings.TrimPrefix(string(data), "\ufeff"))

	var nonBlank []string
	for _, ln := range lines {
		if strings.TrimSpace(ln) != "" {
			nonBlank = append(nonBlank, ln)
		}
	}
	if len(nonBlank) == 0 {
		return nil, &ParseError{Source: source, Err: ErrEmptyInput}
	}

	delim := DetectDelimiter(nonBlank[:min(sampleLines, len(nonBlank))])

	labels := headerLabels(nonBlank[0], delim)
	if len(labels) < 2 {
		return nil, &ParseError{Source: source, Err: ErrMissingLabels, Detail: fmt.Sprintf("got %q", labels)}
	}

	var (
		cols       columns
		dropped    int
		headerSeen bool
	)
	for _, ln := range lines {
		row := splitRow(ln, delim)
		if blankRow(row) {
			continue
		}
		if !headerSeen {
			headerSeen = true
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(row[0]), "#") {
			continue
		}
		vals, ok := coerceRow(row)
		if !ok {
			dropped++
			continue
		}
		cols.add(vals)
	}

	if len(cols.data) < 2 {
		return nil, &ParseError{
			Source: source,
			Err:    ErrInsufficientColumns,
			Detail: fmt.Sprintf("got %d", len(cols.data)),
		}
	}

	return &Series{
		Source:    source,
		XLabel:    labels[0],
		YLabel:    labels[1],
		X:         cols.data[0],
		Y:         cols.data[1],
		Delimiter: delim,
		Dropped:   dropped,
	}, nil
}

// splitLines splits on \n, \r\n and \r.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// headerLabels splits the label line, strips whitespace and quotes, and keeps
// the first two non-empty tokens.
func headerLabels(line string, delim rune) []string {
	labels := make([]string, 0, 2)
	for _, tok := range strings.Split(line, string(delim)) {
		tok = strings.TrimSpace(strings.Trim(strings.TrimSpace(tok), `"'`))
		if tok == "" {
			continue
		}
		labels = append(labels, tok)
		if len(labels) == 2 {
			break
		}
	}
	return labels
}

// splitRow splits one line into cells, honouring double quotes. Runs of
// spaces count as one separator when the delimiter is a space.
func splitRow(line string, delim rune) []string {
	cr := csv.NewReader(strings.NewReader(line))
	cr.Comma = delim
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = delim == ' '

	rec, err := cr.Read()
	if err != nil {
		return strings.Split(line, string(delim))
	}
	return rec
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// coerceRow converts the first two cells of row. It reports false when any
// of them is not numeric, or when there is nothing to convert.
func coerceRow(row []string) ([]float64, bool) {
	if len(row) > 2 {
		row = row[:2]
	}
	vals := make([]float64, 0, len(row))
	for _, cell := range row {
		v, ok := coerceCell(cell)
		if !ok {
			return nil, false
		}
		vals = append(vals, v)
	}
	return vals, len(vals) > 0
}

// coerceCell parses a trimmed cell. Empty cells are NaN; "0,5" is read as 0.5.
func coerceCell(cell string) (float64, bool) {
	c := strings.TrimSpace(cell)
	if c == "" {
		return math.NaN(), true
	}
	if v, ok := parseNumber(c); ok {
		return v, true
	}
	return parseNumber(strings.ReplaceAll(c, ",", "."))
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return v, true
}

// columns accumulates rows column-wise. Columns are added as wider rows
// appear and every column is kept at the same length with NaN padding.
type columns struct {
	data [][]float64
	rows int
}

func (c *columns) add(vals []float64) {
	for len(c.data) < len(vals) {
		col := make([]float64, c.rows, c.rows+1)
		for i := range col {
			col[i] = math.NaN()
		}
		c.data = append(c.data, col)
	}
	for i := range c.data {
		v := math.NaN()
		if i < len(vals) {
			v = vals[i]
		}
		c.data[i] = append(c.data[i], v)
	}
	c.rows++
}

// Package export writes synthesized samples as CSV, JSON or Parquet rows.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/ja7ad/phaseplot/pkg/types"
	"github.com/ja7ad/phaseplot/pkg/util"
	"github.com/ja7ad/phaseplot/pkg/waveform"
)

// ErrUnknownFormat is returned by File for an unsupported extension.
var ErrUnknownFormat = errors.New("export: unknown data format")

// Sample is one time step. The line-to-line fields are nil when the result
// carries no line-to-line voltages.
type Sample struct {
	Time   float64  `json:"time" parquet:"time"`
	PhaseA float64  `json:"phase_a" parquet:"phase_a"`
	PhaseB float64  `json:"phase_b" parquet:"phase_b"`
	PhaseC float64  `json:"phase_c" parquet:"phase_c"`
	Vab    *float64 `json:"vab,omitempty" parquet:"vab,optional"`
	Vbc    *float64 `json:"vbc,omitempty" parquet:"vbc,optional"`
	Vca    *float64 `json:"vca,omitempty" parquet:"vca,optional"`
}

// Rows flattens res into one Sample per time step.
func Rows(res waveform.Result) []Sample {
	set := res.Set
	if set == nil {
		return nil
	}

	rows := make([]Sample, set.Len())
	for i := range rows {
		rows[i] = Sample{
			Time:   set.Time[i],
			PhaseA: set.Phases[waveform.PhaseA][i],
			PhaseB: set.Phases[waveform.PhaseB][i],
			PhaseC: set.Phases[waveform.PhaseC][i],
		}
		if ll := res.LineToLine; ll != nil {
			vab, vbc, vca := ll.Values[0][i], ll.Values[1][i], ll.Values[2][i]
			rows[i].Vab, rows[i].Vbc, rows[i].Vca = &vab, &vbc, &vca
		}
	}
	return rows
}

func hasLineToLine(rows []Sample) bool {
	return len(rows) > 0 && rows[0].Vab != nil
}

// Header returns the CSV column names for rows. The first two columns are
// the time and phase A, so the file reads back as an (x, y) series.
func Header(rows []Sample, unit string) []string {
	suffix := ""
	if unit != "" {
		suffix = " (" + unit + ")"
	}
	h := []string{"Time (s)"}
	for _, p := range waveform.Phases {
		h = append(h, p.String()+suffix)
	}
	if hasLineToLine(rows) {
		for _, pr := range waveform.Pairs {
			h = append(h, pr.Label+suffix)
		}
	}
	return h
}

// WriteCSV writes a header line followed by one line per sample.
func WriteCSV(w io.Writer, rows []Sample, unit string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(rows, unit)); err != nil {
		return fmt.Errorf("export: csv: %w", err)
	}

	ll := hasLineToLine(rows)
	for _, r := range rows {
		rec := []string{
			util.FmtFloat(r.Time),
			util.FmtFloat(r.PhaseA),
			util.FmtFloat(r.PhaseB),
			util.FmtFloat(r.PhaseC),
		}
		if ll {
			rec = append(rec, util.FmtFloat(*r.Vab), util.FmtFloat(*r.Vbc), util.FmtFloat(*r.Vca))
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("export: csv: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: csv: %w", err)
	}
	return nil
}

// WriteJSON writes rows as an indented JSON array, one object per sample.
func WriteJSON(w io.Writer, rows []Sample) error {
	if _, err := io.WriteString(w, "[\n"); err != nil {
		return fmt.Errorf("export: json: %w", err)
	}
	for i, r := range rows {
		b, err := json.MarshalIndent(r, "  ", "  ")
		if err != nil {
			return fmt.Errorf("export: json: %w", err)
		}
		if i > 0 {
			if _, err := io.WriteString(w, ",\n"); err != nil {
				return fmt.Errorf("export: json: %w", err)
			}
		}
		if _, err := io.WriteString(w, "  "); err != nil {
			return fmt.Errorf("export: json: %w", err)
		}
		if _, err := w.Write(b); err != nil {
			return fmt.Errorf("export: json: %w", err)
		}
	}
	if _, err := io.WriteString(w, "\n]\n"); err != nil {
		return fmt.Errorf("export: json: %w", err)
	}
	return nil
}

// WriteParquet writes rows as a single Snappy-compressed parquet file.
func WriteParquet(w io.Writer, rows []Sample) error {
	pw := parquet.NewGenericWriter[Sample](w, parquet.Compression(&parquet.Snappy))
	if _, err := pw.Write(rows); err != nil {
		return fmt.Errorf("export: parquet: %w", err)
	}
	if err := pw.Close(); err != nil {
		return fmt.Errorf("export: parquet: %w", err)
	}
	return nil
}

// ReadParquet reads every row of a file written by WriteParquet.
func ReadParquet(r io.ReaderAt) ([]Sample, error) {
	gr := parquet.NewGenericReader[Sample](r)
	defer gr.Close()

	out := make([]Sample, 0, gr.NumRows())
	batch := make([]Sample, 1024)
	for {
		n, err := gr.Read(batch)
		if n > 0 {
			out = append(out, batch[:n]...)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("export: parquet: %w", err)
		}
	}
	return out, nil
}

// File writes rows to path in the format named by its extension (.csv,
// .json or .parquet) and returns the number of bytes written.
func File(path string, rows []Sample, unit string) (types.Bytes, error) {
	var write func(io.Writer) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		write = func(w io.Writer) error { return WriteCSV(w, rows, unit) }
	case ".json":
		write = func(w io.Writer) error { return WriteJSON(w, rows) }
	case ".parquet":
		write = func(w io.Writer) error { return WriteParquet(w, rows) }
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("export: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("export: %w", err)
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("export: %w", err)
	}
	return types.SizeOf(path)
}

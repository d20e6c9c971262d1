// Package overlay ingests a batch of CSV files and gathers every series
// that parsed into one collection for a shared Bode magnitude chart.
package overlay

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ja7ad/phaseplot/pkg/csvseries"
	"github.com/ja7ad/phaseplot/pkg/render"
	"github.com/ja7ad/phaseplot/pkg/util"
)

// ErrNoUsableInput indicates that no candidate file could be parsed.
var ErrNoUsableInput = errors.New("overlay: no valid CSV files to plot")

// OverlayTitle is the title of the combined chart.
const OverlayTitle = "Bode Magnitude (All CSVs)"

// Loader reads one candidate file.
type Loader func(path string) (*csvseries.Series, error)

// Entry is one successfully parsed file.
type Entry struct {
	Name   string // file name without extension, used as the trace name
	Path   string
	Series *csvseries.Series
}

// Skip records a candidate that was left out and why.
type Skip struct {
	Path string
	Err  error
}

// Collection is the ordered result of a batch. Axis labels come from the
// first file that parsed.
type Collection struct {
	Entries []Entry
	XLabel  string
	YLabel  string
	Skipped []Skip
}

type options struct {
	logger *zap.Logger
	load   Loader
}

// Option configures Aggregate.
type Option func(*options)

// WithLogger reports skipped files and per-file details to l.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithLoader replaces csvseries.ReadFile.
func WithLoader(fn Loader) Option {
	return func(o *options) {
		if fn != nil {
			o.load = fn
		}
	}
}

// Discover returns the regular files in dir matching pattern, sorted by name.
func Discover(dir, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("overlay: %w", err)
	}
	sort.Strings(matches)

	files := matches[:0]
	for _, m := range matches {
		fi, err := os.Stat(m)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}
		files = append(files, m)
	}
	return files, nil
}

// Aggregate parses every path in order. A file that fails is logged,
// recorded in Skipped and otherwise ignored. The error wraps
// ErrNoUsableInput only when nothing parsed; the collection is returned
// either way so callers can report the skipped files.
func Aggregate(paths []string, opts ...Option) (*Collection, error) {
	o := options{logger: zap.NewNop(), load: csvseries.ReadFile}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Collection{}
	for _, p := range paths {
		name := filepath.Base(p)
		s, err := o.load(p)
		if err != nil {
			o.logger.Warn("skipping file", zap.String("file", name), zap.Error(err))
			c.Skipped = append(c.Skipped, Skip{Path: p, Err: err})
			continue
		}

		if len(c.Entries) == 0 {
			c.XLabel, c.YLabel = s.XLabel, s.YLabel
		}
		c.Entries = append(c.Entries, Entry{Name: util.Stem(p), Path: p, Series: s})
		o.logger.Debug("parsed file",
			zap.String("file", name),
			zap.Int("rows", s.Len()),
			zap.Int("dropped", s.Dropped),
			zap.String("delimiter", strconv.QuoteRune(s.Delimiter)))
	}

	if len(c.Entries) == 0 {
		if err := c.Err(); err != nil {
			return c, fmt.Errorf("%w: %w", ErrNoUsableInput, err)
		}
		return c, fmt.Errorf("%w: no candidates", ErrNoUsableInput)
	}
	return c, nil
}

// Err combines the reasons of all skipped files, or nil.
func (c *Collection) Err() error {
	var err error
	for _, s := range c.Skipped {
		err = multierr.Append(err, s.Err)
	}
	return err
}

// Figure builds the overlay chart: one trace per entry on a log frequency axis.
func (c *Collection) Figure() *render.Figure {
	fig := &render.Figure{
		Title:  OverlayTitle,
		XTitle: c.XLabel,
		YTitle: c.YLabel,
		XLog:   true,
	}
	for _, e := range c.Entries {
		fig.Add(render.Series{Name: e.Name, X: e.Series.X, Y: e.Series.Y})
	}
	return fig
}

// Figure builds the single-file Bode magnitude chart for e.
func (e Entry) Figure() *render.Figure {
	fig := &render.Figure{
		Title:  e.Name + " Bode Magnitude",
		XTitle: e.Series.XLabel,
		YTitle: e.Series.YLabel,
		XLog:   true,
	}
	fig.Add(render.Series{Name: e.Name, X: e.Series.X, Y: e.Series.Y})
	return fig
}

// OutputPath is where the single-file chart for e goes: <stem>_bode.html in
// dir, or next to the source file when dir is empty.
func (e Entry) OutputPath(dir string) string {
	if dir == "" {
		dir = filepath.Dir(e.Path)
	}
	return filepath.Join(dir, e.Name+"_bode.html")
}
